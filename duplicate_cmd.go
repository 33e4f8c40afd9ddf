package main

import (
	"fmt"

	"github.com/helpcomp/ledger-xml-lint/duplicate"
	"github.com/helpcomp/ledger-xml-lint/ledger"
	"github.com/helpcomp/ledger-xml-lint/prom"
	"github.com/rs/zerolog/log"
)

// unsetDays marks --days as not given, so 0 can still narrow the window to a single day.
const unsetDays = -1

type duplicateCmd struct {
	Path        string  `arg:"" help:"Ledger XML file"`
	Days        float64 `help:"Time in days before and after a posting for two postings to be considered duplicates (config: duplicates.days, default 10)" default:"-1"`
	IgnoreTag   string  `help:"Drop groups where every transaction has this tag (config: duplicates.ignore_tag, default notDup)"`
	CPUProfile  string  `name:"cpuprofile" help:"Write cpu profile to file" type:"path"`
	MemProfile  string  `name:"memprofile" help:"Write memory profile to file" type:"path"`
	MetricsFile string  `env:"METRICS_FILE" help:"${env} - Write metrics to file in the node exporter textfile format" type:"path"`
}

func (c *duplicateCmd) Run(app *appContext) error {
	loaded, err := app.Config()
	if err != nil {
		return err
	}
	cfg := *loaded
	switch {
	case c.Days >= 0:
		cfg.Duplicates.Days = c.Days
	case c.Days != unsetDays:
		return fmt.Errorf("--days must not be negative, got %v", c.Days)
	}
	if c.IgnoreTag != "" {
		cfg.Duplicates.IgnoreTag = c.IgnoreTag
	}

	stop, err := startCPUProfile(c.CPUProfile)
	if err != nil {
		return err
	}
	defer stop()

	status := prom.NewStatus(c.Path)
	res, err := startLint(ledger.NewCache(), c.Path, &cfg, status)
	if err != nil {
		return err
	}

	if err := duplicate.Print(app.Stdout, cfg.Duplicates.IgnoreTag, res.Groups); err != nil {
		return err
	}

	if c.MetricsFile != "" {
		if err := prom.WriteTextfile(c.MetricsFile, prom.NewExporter(namespace, status)); err != nil {
			log.Error().Err(err).Str("path", c.MetricsFile).Msg("Could not write metrics")
			return err
		}
	}

	return writeMemProfile(c.MemProfile)
}
