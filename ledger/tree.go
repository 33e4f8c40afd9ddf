package ledger

import (
	"errors"
	"fmt"
	"io"

	"github.com/beevik/etree"
)

var (
	// ErrNoTransaction is returned when a document has no transaction element.
	ErrNoTransaction = errors.New("no transaction element in document")
	// ErrNoDate is returned when a transaction element has no date element.
	ErrNoDate = errors.New("no date element in transaction")
)

// LoadTree parses the XML file at path into a document tree.
func LoadTree(path string) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("could not load %q: %w", path, err)
	}
	return doc, nil
}

// ReadTree parses XML from r into a document tree.
func ReadTree(r io.Reader) (*etree.Document, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("could not parse document: %w", err)
	}
	return doc, nil
}

// TransactionElements returns every transaction element of doc, in document order.
// Prefixed elements such as <x:transaction> belong to another vocabulary and are skipped.
func TransactionElements(doc *etree.Document) []*etree.Element {
	return unprefixed(doc.FindElements("//transaction"))
}

// unprefixed keeps the elements without a namespace prefix. etree matches
// local names only, so a path query alone also returns <x:name>.
func unprefixed(els []*etree.Element) []*etree.Element {
	kept := els[:0]
	for _, el := range els {
		if el.Space == "" {
			kept = append(kept, el)
		}
	}
	return kept
}

// FirstTransactionDate returns the raw text of the first date element found
// in the first transaction of doc. Other transactions are not looked at.
func FirstTransactionDate(doc *etree.Document) (string, error) {
	txs := TransactionElements(doc)
	if len(txs) == 0 {
		return "", ErrNoTransaction
	}
	dates := unprefixed(txs[0].FindElements(".//date"))
	if len(dates) == 0 {
		return "", ErrNoDate
	}
	return dates[0].Text(), nil
}
