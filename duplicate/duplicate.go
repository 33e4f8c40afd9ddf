// Package duplicate finds postings that were probably recorded twice in a ledger
package duplicate

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// DefaultIgnoreTag marks transactions that have been reviewed and are not duplicates.
const DefaultIgnoreTag = "notDup"

// errNegativeGap is returned if postings are not in date order after sorting.
var errNegativeGap = errors.New("negative duration between sorted postings")

// Tx is a single posting flattened with the data of its transaction.
type Tx struct {
	Date time.Time
	// Position of the transaction in the ledger file
	Position int
	Payee    string
	Account  string
	Amount   decimal.Decimal
	Tags     []string
}

// HasTag reports whether the transaction of the posting carries tag.
func (t *Tx) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

// Group is a set of postings with the same amount that are close in time.
type Group []*Tx

// Ignored reports whether every posting of the group carries tag.
func (g Group) Ignored(tag string) bool {
	for _, tx := range g {
		if !tx.HasTag(tag) {
			return false
		}
	}
	return true
}

// Result is the outcome of one duplicate lint pass.
type Result struct {
	Transactions int
	Postings     int
	Groups       []Group
}

// DuplicatePostings counts postings across all groups.
func (r Result) DuplicatePostings() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g)
	}
	return n
}

// Find groups txs by amount and returns the clusters of postings whose dates
// are within window of each other. Clusters where every posting carries
// ignoredTag are dropped. The returned groups point into txs, which keeps its order.
func Find(txs []Tx, window time.Duration, ignoredTag string) ([]Group, error) {
	byAmount := make(map[string][]*Tx)
	for i := range txs {
		key := txs[i].Amount.String()
		byAmount[key] = append(byAmount[key], &txs[i])
	}

	var groups []Group
	keep := func(g Group) {
		if len(g) == 0 || g.Ignored(ignoredTag) {
			return
		}
		groups = append(groups, g)
	}

	for amount, same := range byAmount {
		if len(same) <= 1 {
			continue
		}

		slices.SortStableFunc(same, func(a, b *Tx) int {
			return a.Date.Compare(b.Date)
		})

		var current Group
		last := -1
		for i := 1; i < len(same); i++ {
			gap := same[i].Date.Sub(same[i-1].Date)
			if gap < 0 {
				return nil, errNegativeGap
			}
			if gap > window {
				continue
			}
			if last >= 0 && same[i].Date.Sub(current[last].Date) <= window {
				current = append(current, same[i])
				last++
				continue
			}
			keep(current)
			current = Group{same[i-1], same[i]}
			last = 1
		}
		keep(current)
		log.Debug().Str("amount", amount).Int("postings", len(same)).Msg("Checked amount")
	}

	slices.SortFunc(groups, func(a, b Group) int {
		if c := a[0].Date.Compare(b[0].Date); c != 0 {
			return c
		}
		if a[0].Position != b[0].Position {
			return a[0].Position - b[0].Position
		}
		return a[0].Amount.Cmp(b[0].Amount)
	})
	return groups, nil
}
