package report

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rotisserie/eris"

	"github.com/peekknuf/govdataqa/internal/conformity"
	"github.com/peekknuf/govdataqa/internal/profiler"
)

// Conformity explains an advanced conformity run column by column.
func (p *Printer) Conformity(rep conformity.Report) {
	p.heading("CONFORMITY")
	fmt.Fprintf(p.w, "Outcome: %s\n", rep.Outcome)
	fmt.Fprintf(p.w, "Score:   %s\n", p.band(rep.Score*10).Sprintf("%.3f", rep.Score))
	fmt.Fprintf(p.w, "Values:  %s validated, %s invalid\n\n",
		humanize.Comma(int64(rep.Validated)), humanize.Comma(int64(rep.Invalid)))
	if len(rep.Columns) == 0 {
		fmt.Fprintln(p.w, "No column carries a validated role.")
		return
	}

	names := make([]string, len(rep.Columns))
	for i, c := range rep.Columns {
		names[i] = c.Column
	}
	width := nameWidth(names, len("Column"))
	fmt.Fprintf(p.w, "%s  %-12s %10s %8s  %s\n", pad("Column", width), "Role", "Validated", "Invalid", "Notes")
	for _, c := range rep.Columns {
		notes := c.Skipped
		if notes == "" && len(c.Samples) > 0 {
			notes = "e.g. " + strings.Join(quoteAll(c.Samples), ", ")
		}
		invalid := strconv.Itoa(c.Invalid)
		if c.Invalid > 0 {
			invalid = p.poor.Sprint(invalid)
		}
		fmt.Fprintf(p.w, "%s  %s %10d %8s  %s\n",
			pad(c.Column, width), pad(c.Role, 12), c.Validated, invalid, notes)
	}
}

func quoteAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strconv.Quote(v)
	}
	return out
}

func number(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return strconv.FormatFloat(Round2(v), 'f', -1, 64)
}

// Profile writes one line per column plus table-level quality figures.
func (p *Printer) Profile(source string, prof *profiler.TableProfile) {
	p.heading("COLUMN PROFILE")
	q := prof.CalculateQuality()
	fmt.Fprintf(p.w, "Source: %s\n", source)
	fmt.Fprintf(p.w, "Rows: %s | Columns: %d | Null Rate: %.1f%% | Type consistency: %.0f%%\n\n",
		humanize.Comma(int64(q.TotalRows)), len(prof.Columns), q.NullPercentage*100, q.TypeConsistency*100)

	stats := prof.Describe()
	names := make([]string, len(stats))
	for i, s := range stats {
		names[i] = s.Column
	}
	width := nameWidth(names, len("Column"))
	fmt.Fprintf(p.w, "%s  %-7s %8s %8s %9s %10s %10s  %s\n",
		pad("Column", width), "Type", "Count", "Nulls", "Distinct", "Mean", "Std", "Sample")
	for _, s := range stats {
		fmt.Fprintf(p.w, "%s  %-7s %8d %8d %9d %10s %10s  %s\n",
			pad(s.Column, width), s.Type, s.Count, s.NullCount, s.DistinctCount,
			number(s.Mean), number(s.Std), pad(s.Sample, 40))
	}
	if q.HighNullColumns > 0 {
		fmt.Fprintf(p.w, "\n%d columns are more than half empty\n", q.HighNullColumns)
	}
}

// ScanEntry is the outcome of scoring one file during a directory scan.
type ScanEntry struct {
	Path    string
	Size    int64
	Summary Summary
	Elapsed time.Duration
	Err     error
}

// Scan writes the per-file table of a directory scan.
func (p *Printer) Scan(entries []ScanEntry, total time.Duration) {
	p.heading("SCAN SUMMARY")
	failed := 0
	for _, e := range entries {
		if e.Err != nil {
			failed++
		}
	}
	fmt.Fprintf(p.w, "Files: %d scored, %d failed in %v\n\n", len(entries)-failed, failed, total.Round(time.Millisecond))

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = filepath.Base(e.Path)
	}
	width := min(nameWidth(names, len("File")), 40)
	fmt.Fprintf(p.w, "%s %9s %9s %8s  %s\n", pad("File", width), "Size", "Rows", "Overall", "Weakest")
	fmt.Fprintln(p.w, strings.Repeat("-", width+50))
	for i, e := range entries {
		if e.Err != nil {
			fmt.Fprintf(p.w, "%s %9s %9s %8s  %s\n", pad(names[i], width),
				humanize.Bytes(uint64(max(e.Size, 0))), "-", p.poor.Sprint("  error"), eris.ToString(e.Err, false))
			continue
		}
		overall := e.Summary.Overall()
		weakest := "-"
		if w, ok := e.Summary.Weakest(); ok {
			weakest = fmt.Sprintf("%s (%.2f)", w.Name, Round2(w.OutOfTen()))
		}
		fmt.Fprintf(p.w, "%s %9s %9s %8s  %s\n", pad(names[i], width),
			humanize.Bytes(uint64(max(e.Size, 0))), humanize.Comma(int64(e.Summary.Rows)),
			p.band(overall).Sprintf("%8.2f", Round2(overall)), weakest)
	}
}
