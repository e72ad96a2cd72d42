package duplicates

import (
	"math"
	"testing"

	"github.com/peekknuf/govdataqa/internal/table"
)

func buildTable(t *testing.T, columns []string, rows ...[]table.Value) *table.Table {
	t.Helper()
	tbl := table.New(columns)
	for _, r := range rows {
		if err := tbl.AppendRow(r); err != nil {
			t.Fatalf("AppendRow failed: %v", err)
		}
	}
	return tbl
}

func TestAnalyzeNoDuplicates(t *testing.T) {
	tbl := buildTable(t, []string{"a", "b"},
		[]table.Value{table.Number(1), table.String("x")},
		[]table.Value{table.Number(2), table.String("y")},
	)
	res := Analyze(tbl)
	if res.DuplicateRows != 0 || res.DuplicateColumns != 0 {
		t.Errorf("Expected no duplicates, got rows=%d cols=%d", res.DuplicateRows, res.DuplicateColumns)
	}
}

func TestNullsCompareEqual(t *testing.T) {
	tbl := buildTable(t, []string{"a", "b"},
		[]table.Value{table.Null(), table.String("x")},
		[]table.Value{table.Null(), table.String("x")},
		[]table.Value{table.Null(), table.Null()},
	)
	res := Analyze(tbl)
	if res.DuplicateRows != 1 {
		t.Errorf("Expected 1 duplicate row, got %d", res.DuplicateRows)
	}
	if res.RowRatio() != 1.0/3.0 {
		t.Errorf("Expected row ratio 1/3, got %f", res.RowRatio())
	}
}

func TestNegativeZeroMatchesZero(t *testing.T) {
	tbl := buildTable(t, []string{"saldo"},
		[]table.Value{table.Number(0)},
		[]table.Value{table.Number(math.Copysign(0, -1))},
	)
	if res := Analyze(tbl); res.DuplicateRows != 1 {
		t.Errorf("Expected 1 duplicate row, got %d", res.DuplicateRows)
	}
}

func TestNestedValuesDoNotPanic(t *testing.T) {
	loc := map[string]any{"type": "Point", "coordinates": []any{-75.5, 6.2}}
	tbl := buildTable(t, []string{"geo", "raw"},
		[]table.Value{table.Nested(loc), table.Nested(func() {})},
		[]table.Value{table.Nested(loc), table.Nested(func() {})},
	)
	res := Analyze(tbl)
	if res.DuplicateRows > 1 {
		t.Errorf("Expected at most 1 duplicate row, got %d", res.DuplicateRows)
	}
}

func TestDuplicateColumnsGrouped(t *testing.T) {
	tbl := buildTable(t, []string{"a", "b", "c", "d"},
		[]table.Value{table.Number(1), table.Number(1), table.String("1"), table.Number(1)},
		[]table.Value{table.Number(2), table.Number(2), table.String("2"), table.Number(2)},
	)
	res := Analyze(tbl)
	if res.DuplicateColumns != 2 {
		t.Fatalf("Expected 2 duplicate columns, got %d", res.DuplicateColumns)
	}
	if len(res.Groups) != 1 || res.Groups[0].First != 0 {
		t.Fatalf("Expected a single group anchored at column 0, got %+v", res.Groups)
	}
	if got := res.Groups[0].Duplicates; len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("Expected duplicates [1 3], got %v", got)
	}
}

func TestRowKeysAreUnambiguous(t *testing.T) {
	tbl := buildTable(t, []string{"a", "b"},
		[]table.Value{table.String("ab"), table.String("c")},
		[]table.Value{table.String("a"), table.String("bc")},
	)
	if res := Analyze(tbl); res.DuplicateRows != 0 {
		t.Errorf("Expected 0 duplicate rows, got %d", res.DuplicateRows)
	}
}

func TestAnalyzeNilTable(t *testing.T) {
	res := Analyze(nil)
	if res.Rows != 0 || res.RowRatio() != 0 || res.ColumnRatio() != 0 {
		t.Errorf("Expected zero result, got %+v", res)
	}
}
