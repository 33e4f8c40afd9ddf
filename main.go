package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/helpcomp/ledger-xml-lint/config"
	"github.com/joho/godotenv"
	"github.com/prometheus/common/version"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const AppName = "ledger-xml-lint"
const AppDesc = "Lint passes over the XML export of a ledger file (ledger xml). Without a command, prints the date of the first transaction."

// Metric namespace
const namespace = "ledger_xml_lint"

type CLI struct {
	ConfigPath string           `name:"config" env:"CONFIG_PATH" help:"${env} - Path to config file" default:"./config.yml"`
	LogLevel   string           `env:"LOG_LEVEL" help:"${env} - Log level (trace, debug, info, warn, error)" default:"info"`
	Version    kong.VersionFlag `help:"Print version information and quit"`

	First     firstCmd     `cmd:"" default:"withargs" help:"Print the date of the first transaction with a placeholder posting"`
	Duplicate duplicateCmd `cmd:"" help:"Report postings with the same amount recorded within a few days of each other"`
	Watch     watchCmd     `cmd:"" help:"Lint a ledger periodically and expose the results as Prometheus metrics"`
}

// appContext is bound to the Run method of every command.
type appContext struct {
	ConfigPath string
	Stdout     io.Writer

	config *config.MasterConfig
}

// Config loads the config file on first use, so commands that take no
// settings run whatever state the file is in.
func (a *appContext) Config() (*config.MasterConfig, error) {
	if a.config != nil {
		return a.config, nil
	}
	cfg, err := config.InitConfig(a.ConfigPath)
	if err != nil {
		log.Error().Err(err).Str("path", a.ConfigPath).Msg("Could not load config")
		return nil, err
	}
	a.config = cfg
	return cfg, nil
}

// setupLogger points the global logger at stderr. An unknown level falls back to info.
func setupLogger(level string) zerolog.Level {
	log.Logger = log.Output(os.Stderr).With().Caller().Logger()
	l, err := zerolog.ParseLevel(level)
	if err != nil || l == zerolog.NoLevel {
		log.Warn().Str("level", level).Msg("Unknown log level, using info")
		l = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(l)
	return l
}

var cli CLI

func main() {
	// .env is optional
	_ = godotenv.Load()

	ctx := kong.Parse(&cli,
		kong.Name(AppName),
		kong.Description(AppDesc),
		kong.Vars{"version": version.Print(AppName)},
		kong.UsageOnError(),
	)
	setupLogger(cli.LogLevel)

	log.Debug().
		Str("version", version.Info()).
		Str("command", ctx.Command()).
		Msg("Starting " + AppName)

	if err := ctx.Run(&appContext{ConfigPath: cli.ConfigPath, Stdout: os.Stdout}); err != nil {
		log.Fatal().Err(err).Msg(ctx.Command() + " failed")
	}
}
