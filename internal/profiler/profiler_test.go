package profiler

import (
	"math"
	"testing"

	"github.com/peekknuf/govdataqa/internal/table"
)

func createTestTable(t *testing.T) *table.Table {
	t.Helper()
	tbl := table.New([]string{"A", "B", "C"})
	rows := [][]table.Value{
		{table.Number(1), table.String("bogota"), table.Number(3)},
		{table.Number(4), table.String("cali"), table.Number(-6)},
		{table.Number(1), table.String("  "), table.Number(3)},
		{table.Number(7), table.Number(8), table.Number(9.5)},
		{table.Null(), table.String("pasto"), table.Number(11)},
	}
	for _, r := range rows {
		if err := tbl.AppendRow(r); err != nil {
			t.Fatalf("AppendRow failed: %v", err)
		}
	}
	return tbl
}

func TestProfile(t *testing.T) {
	p := Profile(createTestTable(t))
	metrics := p.CalculateQuality()

	if metrics.TotalRows != 5 {
		t.Errorf("Expected 5 rows, got %d", metrics.TotalRows)
	}

	expectedNullPercentage := 1.0 / 15.0
	if math.Abs(metrics.NullPercentage-expectedNullPercentage) > 1e-9 {
		t.Errorf("Expected Null Percentage %f, got %f", expectedNullPercentage, metrics.NullPercentage)
	}

	colA, ok := p.Column("A")
	if !ok {
		t.Fatal("Column A not found in profile")
	}
	if colA.Type != TypeInt {
		t.Errorf("Expected column A type to be int, got %s", colA.Type)
	}
	if colA.Count != 4 {
		t.Errorf("Expected column A count to be 4, got %d", colA.Count)
	}
	if colA.NullCount != 1 {
		t.Errorf("Expected column A null count to be 1, got %d", colA.NullCount)
	}
	if colA.DistinctCount != 3 {
		t.Errorf("Expected column A distinct count to be 3, got %d", colA.DistinctCount)
	}
	// 1,4,1,7: mean 3.25, sample variance 8.25
	if math.Abs(colA.Mean-3.25) > 1e-9 || math.Abs(colA.Variance-8.25) > 1e-9 {
		t.Errorf("Expected mean 3.25 and variance 8.25, got %f and %f", colA.Mean, colA.Variance)
	}
	if colA.Min != "1" || colA.Max != "7" {
		t.Errorf("Expected min 1 and max 7, got %s and %s", colA.Min, colA.Max)
	}
}

func TestColumnTypes(t *testing.T) {
	p := Profile(createTestTable(t))

	colB, _ := p.Column("B")
	if colB.Type != TypeMixed || !colB.Textual() || colB.Numeric() {
		t.Errorf("Expected column B to be mixed text, got %s", colB.Type)
	}
	if colB.BlankCount != 1 {
		t.Errorf("Expected 1 blank value, got %d", colB.BlankCount)
	}

	colC, _ := p.Column("C")
	if colC.Type != TypeFloat {
		t.Errorf("Expected column C type to be float, got %s", colC.Type)
	}
	if colC.NegativeCount != 1 {
		t.Errorf("Expected 1 negative value, got %d", colC.NegativeCount)
	}

	if got := len(p.Numeric()); got != 2 {
		t.Errorf("Expected 2 numeric columns, got %d", got)
	}
	if got := len(p.Textual()); got != 1 {
		t.Errorf("Expected 1 text column, got %d", got)
	}
}

func TestSingleValueStatistics(t *testing.T) {
	tbl := table.New([]string{"x"})
	if err := tbl.AppendRow([]table.Value{table.Number(5)}); err != nil {
		t.Fatal(err)
	}
	s := Profile(tbl).Columns[0]
	if !math.IsNaN(s.Variance) {
		t.Errorf("Expected undefined variance for one value, got %f", s.Variance)
	}
}

func TestHighNullColumns(t *testing.T) {
	tbl := table.FromRecords([]map[string]any{
		{"a": 1.0, "b": nil},
		{"a": 2.0, "b": nil},
		{"a": 3.0, "b": "x"},
	})
	if got := Profile(tbl).CalculateQuality().HighNullColumns; got != 1 {
		t.Errorf("Expected 1 high-null column, got %d", got)
	}
}

func TestProfileNilTable(t *testing.T) {
	p := Profile(nil)
	if p.RowCount != 0 || len(p.Columns) != 0 {
		t.Errorf("Expected empty profile, got %+v", p)
	}
	if m := p.CalculateQuality(); m.NullPercentage != 0 {
		t.Errorf("Expected 0 null percentage, got %f", m.NullPercentage)
	}
}

func TestDescribe(t *testing.T) {
	stats := Profile(createTestTable(t)).Describe()
	if len(stats) != 3 {
		t.Fatalf("Expected 3 columns in describe stats, got %d", len(stats))
	}
	if stats[0].Column != "A" || stats[0].Sample != "1, 4, 1" {
		t.Errorf("Expected column A with sample \"1, 4, 1\", got %q %q", stats[0].Column, stats[0].Sample)
	}
}
