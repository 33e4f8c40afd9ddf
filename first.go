package main

import (
	"github.com/helpcomp/ledger-xml-lint/ledger"
)

type firstCmd struct {
	Path string `arg:"" help:"Ledger XML file"`
}

// Run prints the first transaction's date paired with a single zero-quantity posting.
// Only the first transaction is looked at and postings are never read from the file.
func (c *firstCmd) Run(app *appContext) error {
	return ledger.First(app.Stdout, c.Path)
}
