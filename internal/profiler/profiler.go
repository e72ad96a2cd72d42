// Package profiler computes per-column statistics over a loaded table:
// inferred type, null and distinct counts, numeric moments and text length
// spread.
package profiler

import (
	"strings"

	"github.com/peekknuf/govdataqa/internal/table"
)

// TableProfile holds the statistics of every column, in table order.
type TableProfile struct {
	RowCount int
	Columns  []*ColumnStats
}

// Profile scans t once. A nil table gives an empty profile.
func Profile(t *table.Table) *TableProfile {
	p := &TableProfile{RowCount: t.RowCount()}
	for _, name := range t.Columns() {
		p.Columns = append(p.Columns, NewColumnStats(name))
	}
	for r := 0; r < p.RowCount; r++ {
		for c, v := range t.Row(r) {
			p.Columns[c].Update(v)
		}
	}
	for _, s := range p.Columns {
		s.finalizeStatistics()
	}
	return p
}

// Column looks a column up by name.
func (p *TableProfile) Column(name string) (*ColumnStats, bool) {
	for _, s := range p.Columns {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

func (p *TableProfile) Numeric() []*ColumnStats {
	return p.filter((*ColumnStats).Numeric)
}

func (p *TableProfile) Textual() []*ColumnStats {
	return p.filter((*ColumnStats).Textual)
}

func (p *TableProfile) filter(keep func(*ColumnStats) bool) []*ColumnStats {
	var out []*ColumnStats
	for _, s := range p.Columns {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

type QualityMetrics struct {
	TotalRows      int
	TotalCells     int
	NullCells      int
	NullPercentage float64
	// HighNullColumns counts columns where more than half the cells are null.
	HighNullColumns int
	// TypeConsistency is the share of columns holding a single value kind.
	TypeConsistency float64
}

func (p *TableProfile) CalculateQuality() QualityMetrics {
	metrics := QualityMetrics{TotalRows: p.RowCount}
	if len(p.Columns) == 0 {
		return metrics
	}

	consistent := 0
	for _, stats := range p.Columns {
		metrics.NullCells += stats.NullCount
		metrics.TotalCells += stats.Count + stats.NullCount
		if p.RowCount > 0 && float64(stats.NullCount)/float64(p.RowCount) > 0.5 {
			metrics.HighNullColumns++
		}
		if stats.Type != TypeMixed {
			consistent++
		}
	}
	if metrics.TotalCells > 0 {
		metrics.NullPercentage = float64(metrics.NullCells) / float64(metrics.TotalCells)
	}
	metrics.TypeConsistency = float64(consistent) / float64(len(p.Columns))
	return metrics
}

type DescribeStats struct {
	Column        string
	Count         int
	NullCount     int
	Type          string
	Mean          float64
	Std           float64
	Min           string
	Max           string
	DistinctCount int
	Sample        string
}

// Describe flattens the profile into one row per column for display.
func (p *TableProfile) Describe() []DescribeStats {
	describeStats := make([]DescribeStats, 0, len(p.Columns))
	for _, stats := range p.Columns {
		desc := DescribeStats{
			Column:        stats.Name,
			Count:         stats.Count,
			NullCount:     stats.NullCount,
			Type:          stats.Type,
			Mean:          stats.Mean,
			Std:           stats.Std,
			Min:           stats.Min,
			Max:           stats.Max,
			DistinctCount: stats.DistinctCount,
		}
		if n := len(stats.SampleValues); n > 0 {
			desc.Sample = strings.Join(stats.SampleValues[:min(n, 3)], ", ")
		}
		describeStats = append(describeStats, desc)
	}
	return describeStats
}
