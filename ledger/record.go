package ledger

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// Tx is the record reported for the first transaction of a document.
// Postings always hold a single placeholder; nothing is read from the document's postings.
type Tx struct {
	Date     string
	Postings []Posting
}

// Posting is a placeholder posting with no account and a zero quantity.
type Posting struct {
	AccountName string
	Quantity    decimal.Decimal
}

// NewTx builds the record for date.
func NewTx(date string) Tx {
	return Tx{
		Date:     date,
		Postings: []Posting{{Quantity: decimal.Zero}},
	}
}

// Report writes tx on a single line.
func Report(w io.Writer, tx Tx) error {
	_, err := fmt.Fprintf(w, "%+v\n", tx)
	return err
}

// First loads the document at path and reports the record of its first transaction to w.
func First(w io.Writer, path string) error {
	doc, err := LoadTree(path)
	if err != nil {
		return err
	}
	date, err := FirstTransactionDate(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return Report(w, NewTx(date))
}
