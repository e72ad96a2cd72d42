// Package report renders score sets, conformity explanations and column
// profiles for people (aligned, coloured text) and for machines (JSON).
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/peekknuf/govdataqa/internal/dimensions"
)

// Score bands on the ten-point scale.
const (
	GoodScore = 8.0
	FairScore = 5.0
)

// Summary is everything known about one scored dataset.
type Summary struct {
	Source  string
	Session string
	Rows    int
	Columns int
	Results []dimensions.Result
}

// Overall is the mean of the ten-point scores.
func (s Summary) Overall() float64 {
	if len(s.Results) == 0 {
		return 0
	}
	total := 0.0
	for _, r := range s.Results {
		total += r.OutOfTen()
	}
	return total / float64(len(s.Results))
}

// Weakest returns the lowest scoring dimension.
func (s Summary) Weakest() (dimensions.Result, bool) {
	if len(s.Results) == 0 {
		return dimensions.Result{}, false
	}
	low := s.Results[0]
	for _, r := range s.Results[1:] {
		if r.OutOfTen() < low.OutOfTen() {
			low = r
		}
	}
	return low, true
}

// Round2 rounds for presentation. Stored scores are never rounded.
func Round2(v float64) float64 { return math.Round(v*100) / 100 }

// Printer writes text reports. With colour disabled the output is plain.
type Printer struct {
	w     io.Writer
	good  *color.Color
	fair  *color.Color
	poor  *color.Color
	title *color.Color
}

func NewPrinter(w io.Writer, colorize bool) *Printer {
	p := &Printer{
		w:     w,
		good:  color.New(color.FgGreen),
		fair:  color.New(color.FgYellow),
		poor:  color.New(color.FgRed),
		title: color.New(color.Bold),
	}
	if !colorize {
		for _, c := range []*color.Color{p.good, p.fair, p.poor, p.title} {
			c.DisableColor()
		}
	}
	return p
}

func (p *Printer) band(outOfTen float64) *color.Color {
	switch {
	case outOfTen >= GoodScore:
		return p.good
	case outOfTen >= FairScore:
		return p.fair
	}
	return p.poor
}

func (p *Printer) heading(text string) {
	fmt.Fprintln(p.w, p.title.Sprintf("=== %s ===", text))
}

// pad left-aligns s in a cell of width display columns.
func pad(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "...")
	}
	return runewidth.FillRight(s, width)
}

func nameWidth(names []string, minWidth int) int {
	w := minWidth
	for _, n := range names {
		w = max(w, runewidth.StringWidth(n))
	}
	return w
}

// Scores writes the score set in registry order.
func (p *Printer) Scores(s Summary) {
	p.heading("DATA QUALITY SCORES")
	fmt.Fprintf(p.w, "Source:  %s\n", s.Source)
	if s.Session != "" {
		fmt.Fprintf(p.w, "Session: %s\n", s.Session)
	}
	fmt.Fprintf(p.w, "Rows: %s | Columns: %s\n\n", humanize.Comma(int64(s.Rows)), humanize.Comma(int64(s.Columns)))

	names := make([]string, len(s.Results))
	for i, r := range s.Results {
		names[i] = string(r.Name)
	}
	width := nameWidth(names, len("Dimension"))

	fmt.Fprintf(p.w, "%s  %8s\n", pad("Dimension", width), "Score")
	fmt.Fprintln(p.w, strings.Repeat("-", width+10))
	for _, r := range s.Results {
		score := fmt.Sprintf("%5.2f/%-2g", Round2(r.Score), r.Max)
		fmt.Fprintf(p.w, "%s  %s\n", pad(string(r.Name), width), p.band(r.OutOfTen()).Sprint(score))
	}
	fmt.Fprintln(p.w, strings.Repeat("-", width+10))
	overall := s.Overall()
	fmt.Fprintf(p.w, "%s  %s\n", pad("overall", width), p.band(overall).Sprintf("%5.2f/10", Round2(overall)))
}

// Dimensions lists the registered dimensions.
func (p *Printer) Dimensions(specs []dimensions.Spec) {
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = string(s.Name)
	}
	width := nameWidth(names, len("Dimension"))
	fmt.Fprintf(p.w, "%s  %-6s %s\n", pad("Dimension", width), "Range", "Measures")
	for _, s := range specs {
		fmt.Fprintf(p.w, "%s  %-6s %s\n", pad(string(s.Name), width), fmt.Sprintf("0-%g", s.Max), s.Description)
	}
}

type jsonSummary struct {
	Source  string                     `json:"source"`
	Session string                     `json:"session,omitempty"`
	Rows    int                        `json:"rows"`
	Columns int                        `json:"columns"`
	Overall float64                    `json:"overall"`
	Scores  map[dimensions.Name]float64 `json:"scores"`
	Details map[dimensions.Name]any    `json:"details,omitempty"`
}

// JSON writes the score set. Details are included when withDetails is set;
// non-finite numbers in them become null.
func JSON(w io.Writer, s Summary, withDetails bool) error {
	out := jsonSummary{
		Source:  s.Source,
		Session: s.Session,
		Rows:    s.Rows,
		Columns: s.Columns,
		Overall: Round2(s.Overall()),
		Scores:  make(map[dimensions.Name]float64, len(s.Results)),
	}
	if withDetails {
		out.Details = make(map[dimensions.Name]any, len(s.Results))
	}
	for _, r := range s.Results {
		out.Scores[r.Name] = Round2(r.Score)
		if withDetails && len(r.Details) > 0 {
			out.Details[r.Name] = sanitize(r.Details)
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func sanitize(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
		return x
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[k] = sanitize(e)
		}
		return m
	case []any:
		s := make([]any, len(x))
		for i, e := range x {
			s[i] = sanitize(e)
		}
		return s
	}
	return v
}
