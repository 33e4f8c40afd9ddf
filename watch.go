package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/helpcomp/ledger-xml-lint/ledger"
	"github.com/helpcomp/ledger-xml-lint/prom"
	versioncollector "github.com/prometheus/client_golang/prometheus/collectors/version"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/version"
	"github.com/prometheus/exporter-toolkit/web"
	"github.com/rs/zerolog/log"
)

// settleDelay is how long the ledger must stay quiet after a change before it is linted again.
const settleDelay = 500 * time.Millisecond

type watchCmd struct {
	Path          string `arg:"" help:"Ledger XML file"`
	Refresh       string `env:"REFRESH" help:"${env} - How often to lint the ledger, e.g. 5m (config: watch.refresh)"`
	ListenAddress string `env:"EXPORTER_LISTEN_ADDRESS" help:"${env} - Address to listen on for web interface and telemetry" default:":9718"`
	MetricsPath   string `env:"EXPORTER_METRICS_PATH" help:"${env} - Path under which to expose metrics" default:"/metrics"`
}

// newHandler serves the metrics of status under metricsPath, a landing page and a health check.
func newHandler(status *prom.Status, metricsPath string) (http.Handler, error) {
	reg := prom.NewRegistry(
		prom.NewExporter(namespace, status),
		versioncollector.NewCollector(namespace),
	)

	mux := http.NewServeMux()
	mux.Handle(metricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", prom.HealthHandler(status))
	if metricsPath != "/" && metricsPath != "" {
		landingConfig := web.LandingConfig{
			Name:        AppName,
			Description: AppDesc,
			Version:     version.Print(AppName),
			Links: []web.LandingLinks{
				{
					Address: metricsPath,
					Text:    "Metrics",
				},
				{
					Address: "/health",
					Text:    "Health",
				},
			},
		}
		landingPage, err := web.NewLandingPage(landingConfig)
		if err != nil {
			return nil, err
		}
		mux.Handle("/", landingPage)
	}
	return mux, nil
}

// ledgerChanged reports whether event rewrote the ledger at target.
func ledgerChanged(event fsnotify.Event, target string) bool {
	if filepath.Clean(event.Name) != target {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// debouncer coalesces bursts of Touch calls into a single tick on C,
// delay after the last one.
type debouncer struct {
	delay time.Duration
	timer *time.Timer
}

func (d *debouncer) Touch() {
	if d.timer == nil {
		d.timer = time.NewTimer(d.delay)
		return
	}
	d.timer.Reset(d.delay)
}

// C is nil until the first Touch, which blocks forever in a select.
func (d *debouncer) C() <-chan time.Time {
	if d.timer == nil {
		return nil
	}
	return d.timer.C
}

func (d *debouncer) Stop() {
	if d.timer != nil {
		d.timer.Stop()
	}
}

func (c *watchCmd) Run(app *appContext) error {
	loaded, err := app.Config()
	if err != nil {
		return err
	}
	cfg := *loaded
	if c.Refresh != "" {
		cfg.Watch.Refresh = c.Refresh
	}
	refresh, err := cfg.RefreshInterval()
	if err != nil {
		return err
	}

	status := prom.NewStatus(c.Path)
	cache := ledger.NewCache()
	handler, err := newHandler(status, c.MetricsPath)
	if err != nil {
		return err
	}

	// Ledger files are often replaced rather than written in place, watch the directory.
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	target := filepath.Clean(c.Path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}

	// Create a channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)

	_, _ = startLint(cache, c.Path, &cfg, status)

	server := &http.Server{
		Addr:         c.ListenAddress,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Listen and serve
	serverErr := make(chan error, 1)
	go func() {
		log.Info().Msgf("Starting HTTP server on listen address %s and metric path %s", c.ListenAddress, c.MetricsPath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	ticker := time.NewTicker(refresh)
	defer ticker.Stop()
	settle := &debouncer{delay: settleDelay}
	defer settle.Stop()

	var runErr error
loop:
	for {
		select {
		case <-ticker.C:
			_, _ = startLint(cache, c.Path, &cfg, status)
		case event, ok := <-watcher.Events:
			if !ok {
				break loop
			}
			if !ledgerChanged(event, target) {
				continue
			}
			log.Trace().Str("event", event.String()).Msg("Ledger changed")
			settle.Touch()
		case <-settle.C():
			log.Debug().Msg("Ledger settled, linting")
			cache.Invalidate(c.Path)
			_, _ = startLint(cache, c.Path, &cfg, status)
		case err, ok := <-watcher.Errors:
			if !ok {
				break loop
			}
			log.Error().Err(err).Msg("File watcher error")
		case err := <-serverErr:
			log.Error().Err(err).Msg("Error starting HTTP server")
			runErr = err
			break loop
		case sig := <-sigChan:
			log.Info().Msgf("Received signal %s. Exiting...", sig)
			break loop
		}
	}

	// Handle shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	log.Info().Msg("Shutting down HTTP server...")
	_ = server.Shutdown(ctx)
	log.Info().Msg("Shutdown Complete; Exiting...")
	return runErr
}
