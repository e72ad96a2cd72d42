package dimensions

import (
	"math"
	"strings"

	"github.com/peekknuf/govdataqa/internal/duplicates"
	"github.com/peekknuf/govdataqa/internal/profiler"
)

// HighNullThreshold is the null share above which a column counts as
// mostly empty.
const HighNullThreshold = 0.5

// CalculateCompleteness averages the null-cell measure 10(1-p^1.5), the
// mostly-null column measure 10(1-q²) and the documented column measure
// 10·r, where r is declared metadata columns over actual columns.
func CalculateCompleteness(in Input) Result {
	if in.Table.Empty() {
		return neutral(Completeness, "no data loaded")
	}
	q := profiler.Profile(in.Table).CalculateQuality()
	cols := in.Table.ColumnCount()

	p := q.NullPercentage
	highNull := ratio(q.HighNullColumns, cols)
	documented := ratio(len(in.Meta.Columns()), cols)

	cells := 10 * (1 - math.Pow(p, 1.5))
	columns := 10 * (1 - highNull*highNull)
	declared := 10 * documented

	return result(Completeness, mean(cells, columns, declared), map[string]any{
		"null_ratio":         p,
		"high_null_columns":  q.HighNullColumns,
		"metadata_columns":   len(in.Meta.Columns()),
		"table_columns":      cols,
		"cells_measure":      cells,
		"columns_measure":    columns,
		"documented_measure": declared,
	})
}

// CalculateUniqueness is 10·((1-pr)^k + (1-pc)^k)/2 over the duplicate row
// and duplicate column ratios.
func CalculateUniqueness(in Input) Result {
	if in.Table.Empty() {
		return neutral(Uniqueness, "no data loaded")
	}
	d := duplicates.Analyze(in.Table)
	k := in.Options.exponent()
	rows := math.Pow(1-d.RowRatio(), k)
	cols := math.Pow(1-d.ColumnRatio(), k)
	return result(Uniqueness, (rows+cols)/2*10, map[string]any{
		"duplicate_rows":    d.DuplicateRows,
		"duplicate_columns": d.DuplicateColumns,
		"exponent":          k,
	})
}

// CalculateConformity counts negative numbers in numeric columns and blank
// strings in text columns as errors: 10·exp(-5e).
func CalculateConformity(in Input) Result {
	if in.Table.Empty() {
		return neutral(Conformity, "no data loaded")
	}
	p := profiler.Profile(in.Table)
	validated, invalid := 0, 0
	for _, s := range p.Columns {
		switch {
		case s.Numeric():
			invalid += s.NegativeCount
			validated += s.Count
		case s.Textual():
			invalid += s.BlankCount
			validated += s.Count
		}
	}
	if validated == 0 {
		return result(Conformity, 10, map[string]any{"validated": 0})
	}
	e := ratio(invalid, validated)
	return result(Conformity, 10*math.Exp(-5*e), map[string]any{
		"validated":   validated,
		"invalid":     invalid,
		"error_ratio": e,
	})
}

// CalculatePrecision is the share of columns with useful spread: numeric
// columns need a sample variance above 0.1 and two distinct values, other
// columns two distinct values.
func CalculatePrecision(in Input) Result {
	if in.Table.Empty() {
		return neutral(Precision, "no data loaded")
	}
	p := profiler.Profile(in.Table)
	passing := 0
	for _, s := range p.Columns {
		if s.Numeric() {
			if s.Variance > 0.1 && s.DistinctCount >= 2 {
				passing++
			}
			continue
		}
		if s.DistinctCount >= 2 {
			passing++
		}
	}
	return result(Precision, 10*ratio(passing, len(p.Columns)), map[string]any{
		"precise_columns": passing,
		"table_columns":   len(p.Columns),
	})
}

// CalculateEfficiency averages completeness with the duplicate row and
// duplicate column measures.
func CalculateEfficiency(in Input) Result {
	if in.Table.Empty() {
		return neutral(Efficiency, "no data loaded")
	}
	completeness := CalculateCompleteness(in).Score
	d := duplicates.Analyze(in.Table)
	rows := 10 * (1 - d.RowRatio())
	cols := 10 * (1 - d.ColumnRatio())
	return result(Efficiency, mean(completeness, rows, cols), map[string]any{
		"completeness":      completeness,
		"duplicate_rows":    d.DuplicateRows,
		"duplicate_columns": d.DuplicateColumns,
	})
}

// CategoryWeight is the fixed relevance of an open-government dataset.
const CategoryWeight = 7.0

// MinRelevantRows is the row count from which a dataset is fully relevant.
const MinRelevantRows = 50

func CalculateRelevance(in Input) Result {
	if in.Table.Empty() {
		return neutral(Relevance, "no data loaded")
	}
	rows := in.Table.RowCount()
	rowMeasure := 10.0
	if rows <= MinRelevantRows {
		rowMeasure = float64(rows) / MinRelevantRows * 10
	}
	return result(Relevance, mean(CategoryWeight, rowMeasure), map[string]any{
		"rows": rows,
	})
}

// duplicateNames counts column names repeating an earlier one after
// trimming and lower-casing.
func duplicateNames(columns []string) int {
	seen := make(map[string]struct{}, len(columns))
	dups := 0
	for _, c := range columns {
		k := strings.ToLower(strings.TrimSpace(c))
		if _, ok := seen[k]; ok {
			dups++
			continue
		}
		seen[k] = struct{}{}
	}
	return dups
}
