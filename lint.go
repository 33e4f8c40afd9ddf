package main

import (
	"time"

	"github.com/helpcomp/ledger-xml-lint/config"
	"github.com/helpcomp/ledger-xml-lint/duplicate"
	"github.com/helpcomp/ledger-xml-lint/ledger"
	"github.com/helpcomp/ledger-xml-lint/prom"
	"github.com/rs/zerolog/log"
)

// startLint decodes the ledger at path (through cache) and runs the duplicate pass over it.
// The outcome is recorded in status whether the run succeeds or not.
func startLint(cache *ledger.Cache, path string, c *config.MasterConfig, status *prom.Status) (duplicate.Result, error) {
	log.Debug().Str("path", path).Msg("Starting lint")
	start := time.Now()

	res, err := lintLedger(cache, path, c)
	status.Record(start, res, err)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Lint failed")
		return duplicate.Result{}, err
	}

	log.Info().
		Str("path", path).
		Int("transactions", res.Transactions).
		Int("postings", res.Postings).
		Int("groups", len(res.Groups)).
		Dur("took", time.Since(start)).
		Msg("🔍 Lint complete")
	return res, nil
}

func lintLedger(cache *ledger.Cache, path string, c *config.MasterConfig) (duplicate.Result, error) {
	l, err := cache.CachedLedger(path)
	if err != nil {
		return duplicate.Result{}, err
	}
	return l.Lint(c.Filter(), c.Window(), c.Duplicates.IgnoreTag)
}
