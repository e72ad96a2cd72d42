// Package duplicates finds repeated rows and repeated columns in a table.
//
// Every cell is compared through its canonical serialization, so nulls equal
// nulls and nested values hash without special cases. Row keys cost O(R·C).
// Column comparison is O(C²·R) in the worst case (many columns sharing a
// fingerprint); this is the dominant cost on wide tables.
package duplicates

import (
	"hash/fnv"
	"strings"

	"github.com/peekknuf/govdataqa/internal/table"
)

// Group is a set of columns with identical content. First is the earliest
// column; Duplicates are the later columns equal to it.
type Group struct {
	First      int
	Duplicates []int
}

// Result summarizes duplication in one table.
type Result struct {
	Rows          int
	Columns       int
	DuplicateRows int
	// DuplicateColumns counts columns equal to an earlier column.
	DuplicateColumns int
	Groups           []Group
}

// RowRatio is the share of rows that repeat an earlier row.
func (r Result) RowRatio() float64 {
	if r.Rows == 0 {
		return 0
	}
	return float64(r.DuplicateRows) / float64(r.Rows)
}

// ColumnRatio is the share of columns that repeat an earlier column.
func (r Result) ColumnRatio() float64 {
	if r.Columns == 0 {
		return 0
	}
	return float64(r.DuplicateColumns) / float64(r.Columns)
}

// Analyze counts duplicate rows and columns. A nil table yields a zero
// Result.
func Analyze(t *table.Table) Result {
	res := Result{Rows: t.RowCount(), Columns: t.ColumnCount()}
	if t.Empty() {
		return res
	}
	keys := canonicalCells(t)
	res.DuplicateRows = countDuplicateRows(keys)
	res.Groups = columnGroups(keys, res.Columns)
	for _, g := range res.Groups {
		res.DuplicateColumns += len(g.Duplicates)
	}
	return res
}

// canonicalCells serializes every cell once; both passes reuse the strings.
func canonicalCells(t *table.Table) [][]string {
	keys := make([][]string, t.RowCount())
	for r := range keys {
		row := t.Row(r)
		keys[r] = make([]string, len(row))
		for c, v := range row {
			keys[r][c] = v.Canonical()
		}
	}
	return keys
}

func countDuplicateRows(keys [][]string) int {
	seen := make(map[string]struct{}, len(keys))
	dups := 0
	var b strings.Builder
	for _, row := range keys {
		b.Reset()
		for _, k := range row {
			// Length prefix keeps ("ab","c") distinct from ("a","bc").
			writeLen(&b, len(k))
			b.WriteString(k)
		}
		key := b.String()
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}

func writeLen(b *strings.Builder, n int) {
	for {
		b.WriteByte(byte(n&0x7f) | 0x80)
		n >>= 7
		if n == 0 {
			b.WriteByte(0)
			return
		}
	}
}

func fingerprint(keys [][]string, col int) uint64 {
	h := fnv.New64a()
	for _, row := range keys {
		h.Write([]byte(row[col]))
		h.Write([]byte{0})
	}
	return h.Sum64()
}

func equalColumns(keys [][]string, a, b int) bool {
	for _, row := range keys {
		if row[a] != row[b] {
			return false
		}
	}
	return true
}

func columnGroups(keys [][]string, cols int) []Group {
	prints := make([]uint64, cols)
	for c := range prints {
		prints[c] = fingerprint(keys, c)
	}

	matched := make([]bool, cols)
	var groups []Group
	for a := 0; a < cols; a++ {
		if matched[a] {
			continue
		}
		var dups []int
		for b := a + 1; b < cols; b++ {
			if matched[b] || prints[a] != prints[b] {
				continue
			}
			if equalColumns(keys, a, b) {
				matched[b] = true
				dups = append(dups, b)
			}
		}
		if len(dups) > 0 {
			groups = append(groups, Group{First: a, Duplicates: dups})
		}
	}
	return groups
}
