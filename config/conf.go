package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-yaml/yaml"
	"github.com/helpcomp/ledger-xml-lint/duplicate"
	"github.com/helpcomp/ledger-xml-lint/ledger"
	"github.com/rs/zerolog/log"
)

type duplicateConfig struct {
	Days         float64  `yaml:"days"`
	IgnoreTag    string   `yaml:"ignore_tag"`
	IgnorePayees []string `yaml:"ignore_payees"`
}

type ledgerConfig struct {
	DateLayouts []string `yaml:"date_layouts"`
}

type watchConfig struct {
	Refresh string `yaml:"refresh"`
}

type MasterConfig struct {
	Duplicates duplicateConfig `yaml:"duplicates"`
	Ledger     ledgerConfig    `yaml:"ledger"`
	Watch      watchConfig     `yaml:"watch"`
}

// Default returns the configuration used when no file is present.
func Default() *MasterConfig {
	return &MasterConfig{
		Duplicates: duplicateConfig{
			Days:      10,
			IgnoreTag: duplicate.DefaultIgnoreTag,
		},
		Ledger: ledgerConfig{
			DateLayouts: append([]string(nil), ledger.DefaultDateLayouts...),
		},
		Watch: watchConfig{
			Refresh: "5m",
		},
	}
}

// InitConfig loads file over the defaults. A missing file is not an error.
func InitConfig(file string) (*MasterConfig, error) {
	init := Default()
	if err := init.getConf(file); err != nil {
		return nil, err
	}
	return init, nil
}

func (c *MasterConfig) getConf(file string) error {
	yamlFile, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("path", file).Msg("No config file, using defaults")
		return nil
	}
	if err != nil {
		return err
	}
	if err = yaml.Unmarshal(yamlFile, c); err != nil {
		return fmt.Errorf("could not parse config %q: %w", file, err)
	}
	return nil
}

// Window is the largest gap between two postings considered duplicates.
func (c *MasterConfig) Window() time.Duration {
	return time.Duration(c.Duplicates.Days * 24 * float64(time.Hour))
}

// Filter returns the transaction filter to apply when flattening a ledger.
func (c *MasterConfig) Filter() ledger.Filter {
	return ledger.Filter{
		DateLayouts:  c.Ledger.DateLayouts,
		IgnorePayees: c.Duplicates.IgnorePayees,
	}
}

// RefreshInterval parses the watch refresh period.
func (c *MasterConfig) RefreshInterval() (time.Duration, error) {
	d, err := time.ParseDuration(c.Watch.Refresh)
	if err != nil {
		return 0, fmt.Errorf("invalid refresh %q: %w", c.Watch.Refresh, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid refresh %q: must be positive", c.Watch.Refresh)
	}
	return d, nil
}
