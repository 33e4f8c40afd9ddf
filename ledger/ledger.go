// Package ledger reads the XML export of a ledger file
package ledger

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/forPelevin/gomoji"
	"github.com/helpcomp/ledger-xml-lint/duplicate"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DefaultDateLayouts are tried in order when a transaction date is parsed.
var DefaultDateLayouts = []string{"2006/01/02", "2006-01-02"}

// Ledger is the subset of the `ledger xml` export used by the lint passes.
type Ledger struct {
	XMLName      xml.Name      `xml:"ledger"`
	Version      string        `xml:"version,attr"`
	Transactions []Transaction `xml:"transactions>transaction"`
}

type Transaction struct {
	State    string       `xml:"state,attr"`
	Date     string       `xml:"date"`
	Payee    string       `xml:"payee"`
	Note     string       `xml:"note"`
	Tags     []string     `xml:"metadata>tag"`
	Values   []Value      `xml:"metadata>value"`
	Postings []XMLPosting `xml:"postings>posting"`
}

type Value struct {
	Key    string `xml:"key,attr"`
	String string `xml:"string"`
}

// XMLPosting is a posting as exported, as opposed to the placeholder Posting.
type XMLPosting struct {
	State   string  `xml:"state,attr"`
	Virtual string  `xml:"virtual,attr"`
	Account Account `xml:"account"`
	Amount  Amount  `xml:"post-amount>amount"`
}

type Account struct {
	Ref  string `xml:"ref,attr"`
	Name string `xml:"name"`
}

type Amount struct {
	Commodity string          `xml:"commodity>symbol"`
	Quantity  decimal.Decimal `xml:"quantity"`
}

// Decode reads a whole ledger export from r.
func Decode(r io.Reader) (*Ledger, error) {
	var l Ledger
	if err := xml.NewDecoder(r).Decode(&l); err != nil {
		return nil, fmt.Errorf("could not decode ledger: %w", err)
	}
	return &l, nil
}

// DecodeFile reads the ledger export stored at path.
func DecodeFile(path string) (*Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	l, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debug().Str("path", path).Int("transactions", len(l.Transactions)).Msg("Decoded ledger")
	return l, nil
}

// Filter selects which transactions are flattened.
type Filter struct {
	// DateLayouts defaults to DefaultDateLayouts.
	DateLayouts []string
	// IgnorePayees are compared without emojis and surrounding spaces.
	IgnorePayees []string
}

func (f Filter) layouts() []string {
	if len(f.DateLayouts) == 0 {
		return DefaultDateLayouts
	}
	return f.DateLayouts
}

func (f Filter) ignored(payee string) bool {
	p := normalizePayee(payee)
	for _, ignored := range f.IgnorePayees {
		if normalizePayee(ignored) == p {
			return true
		}
	}
	return false
}

func normalizePayee(payee string) string {
	return strings.TrimSpace(gomoji.RemoveEmojis(payee))
}

// ParseDate parses s with the first layout that accepts it.
func ParseDate(s string, layouts []string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var err error
	for _, layout := range layouts {
		var d time.Time
		d, err = time.Parse(layout, s)
		if err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date %q: %w", s, err)
}

// Txs flattens every posting of l, one duplicate.Tx per posting.
// Positions are the index of the transaction in the file, skipped transactions included.
func (l *Ledger) Txs(f Filter) ([]duplicate.Tx, error) {
	var txs []duplicate.Tx
	for p, t := range l.Transactions {
		if f.ignored(t.Payee) {
			log.Debug().Int("position", p).Str("payee", t.Payee).Msg("Skipping ignored payee")
			continue
		}
		date, err := ParseDate(t.Date, f.layouts())
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", p, err)
		}
		for _, posting := range t.Postings {
			tags := make([]string, len(t.Tags))
			copy(tags, t.Tags)

			txs = append(txs, duplicate.Tx{
				Date:     date,
				Position: p,
				Payee:    t.Payee,
				Account:  posting.Account.Name,
				Amount:   posting.Amount.Quantity,
				Tags:     tags,
			})
		}
	}
	return txs, nil
}

// Lint runs the duplicate pass over l.
func (l *Ledger) Lint(f Filter, window time.Duration, ignoredTag string) (duplicate.Result, error) {
	txs, err := l.Txs(f)
	if err != nil {
		return duplicate.Result{}, err
	}
	groups, err := duplicate.Find(txs, window, ignoredTag)
	if err != nil {
		return duplicate.Result{}, err
	}
	return duplicate.Result{
		Transactions: len(l.Transactions),
		Postings:     len(txs),
		Groups:       groups,
	}, nil
}
