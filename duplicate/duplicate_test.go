package duplicate

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func tx(pos int, date, amount string, tags ...string) Tx {
	return Tx{
		Date:     day(date),
		Position: pos,
		Payee:    "payee",
		Account:  "Assets:Checking",
		Amount:   decimal.RequireFromString(amount),
		Tags:     tags,
	}
}

func positions(groups []Group) [][]int {
	var got [][]int
	for _, g := range groups {
		var ps []int
		for _, t := range g {
			ps = append(ps, t.Position)
		}
		got = append(got, ps)
	}
	return got
}

func equalPositions(a, b [][]int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

func TestFind(t *testing.T) {
	tenDays := 10 * 24 * time.Hour
	tests := []struct {
		name   string
		txs    []Tx
		window time.Duration
		want   [][]int
	}{
		{
			name:   "no postings",
			window: tenDays,
			want:   nil,
		},
		{
			name: "single posting per amount",
			txs: []Tx{
				tx(0, "2021-01-01", "10"),
				tx(1, "2021-01-02", "11"),
			},
			window: tenDays,
			want:   nil,
		},
		{
			name: "same amount within window",
			txs: []Tx{
				tx(0, "2021-01-01", "-42.50"),
				tx(1, "2021-01-05", "-42.5"),
			},
			window: tenDays,
			want:   [][]int{{0, 1}},
		},
		{
			name: "same amount outside window",
			txs: []Tx{
				tx(0, "2021-01-01", "10"),
				tx(1, "2021-02-01", "10"),
			},
			window: tenDays,
			want:   nil,
		},
		{
			name: "unsorted input is sorted by date",
			txs: []Tx{
				tx(3, "2021-01-08", "10"),
				tx(1, "2021-01-01", "10"),
			},
			window: tenDays,
			want:   [][]int{{1, 3}},
		},
		{
			name: "chain extends while within window of last inserted",
			txs: []Tx{
				tx(0, "2021-01-01", "10"),
				tx(1, "2021-01-09", "10"),
				tx(2, "2021-01-17", "10"),
			},
			window: tenDays,
			want:   [][]int{{0, 1, 2}},
		},
		{
			name: "distant postings start a new cluster",
			txs: []Tx{
				tx(0, "2021-01-01", "10"),
				tx(1, "2021-01-02", "10"),
				tx(2, "2021-03-01", "10"),
				tx(3, "2021-03-03", "10"),
			},
			window: tenDays,
			want:   [][]int{{0, 1}, {2, 3}},
		},
		{
			name: "groups are ordered by date",
			txs: []Tx{
				tx(4, "2021-05-01", "7"),
				tx(5, "2021-05-02", "7"),
				tx(0, "2021-01-01", "3"),
				tx(1, "2021-01-02", "3"),
			},
			window: tenDays,
			want:   [][]int{{0, 1}, {4, 5}},
		},
		{
			name: "zero window matches same day only",
			txs: []Tx{
				tx(0, "2021-01-01", "10"),
				tx(1, "2021-01-01", "10"),
				tx(2, "2021-01-02", "10"),
			},
			window: 0,
			want:   [][]int{{0, 1}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			groups, err := Find(test.txs, test.window, DefaultIgnoreTag)
			if err != nil {
				t.Fatalf("Find() returned error: %v", err)
			}
			if got := positions(groups); !equalPositions(got, test.want) {
				t.Errorf("Find() = %v, want %v", got, test.want)
			}
		})
	}
}

func TestFindIgnoreTag(t *testing.T) {
	window := 10 * 24 * time.Hour

	allTagged := []Tx{
		tx(0, "2021-01-01", "10", DefaultIgnoreTag),
		tx(1, "2021-01-02", "10", DefaultIgnoreTag),
	}
	groups, err := Find(allTagged, window, DefaultIgnoreTag)
	if err != nil {
		t.Fatalf("Find() returned error: %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("Find() kept a fully ignored group: %v", positions(groups))
	}

	mixed := []Tx{
		tx(0, "2021-01-01", "10", DefaultIgnoreTag),
		tx(1, "2021-01-02", "10"),
	}
	groups, err = Find(mixed, window, DefaultIgnoreTag)
	if err != nil {
		t.Fatalf("Find() returned error: %v", err)
	}
	if got, want := positions(groups), [][]int{{0, 1}}; !equalPositions(got, want) {
		t.Errorf("Find() = %v, want %v", got, want)
	}
}

func TestFindKeepsInputOrder(t *testing.T) {
	txs := []Tx{
		tx(0, "2021-03-01", "10"),
		tx(1, "2021-01-01", "5"),
		tx(2, "2021-02-27", "10"),
		tx(3, "2021-01-02", "5"),
	}
	groups, err := Find(txs, 10*24*time.Hour, DefaultIgnoreTag)
	if err != nil {
		t.Fatalf("Find() returned error: %v", err)
	}
	if got, want := positions(groups), [][]int{{1, 3}, {2, 0}}; !equalPositions(got, want) {
		t.Errorf("Find() = %v, want %v", got, want)
	}
	for i := range txs {
		if txs[i].Position != i {
			t.Fatalf("Find() reordered its input: position %d at index %d", txs[i].Position, i)
		}
	}
	if groups[1][0] != &txs[2] {
		t.Error("Find() groups do not point into the input slice")
	}
}

func TestResultDuplicatePostings(t *testing.T) {
	a, b, c := tx(0, "2021-01-01", "1"), tx(1, "2021-01-01", "1"), tx(2, "2021-01-01", "1")
	r := Result{Groups: []Group{{&a, &b}, {&c}}}
	if got := r.DuplicatePostings(); got != 3 {
		t.Errorf("DuplicatePostings() = %d, want 3", got)
	}
}

func TestPrint(t *testing.T) {
	a := tx(0, "2021-01-01", "-12.3", DefaultIgnoreTag)
	a.Payee = "Grocery"
	b := tx(7, "2021-01-03", "-12.30")
	b.Payee = "Grocery"

	var buf bytes.Buffer
	if err := Print(&buf, DefaultIgnoreTag, []Group{{&a, &b}}); err != nil {
		t.Fatalf("Print() returned error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"; Potential duplicates:",
		"(0)\t2021-01-01 Grocery\t\t\t",
		"[IGNORED]",
		"(7)\t2021-01-03 Grocery\t\t\t\n",
		"\t\tAssets:Checking\t\t\t-12.3\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Print() output missing %q\nGot:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "[IGNORED]"); n != 1 {
		t.Errorf("Print() flagged %d postings as ignored, want 1", n)
	}
}
