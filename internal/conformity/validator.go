// Package conformity checks role-bearing columns (departments,
// municipalities, years, coordinates, e-mails) against reference data and
// value ranges.
package conformity

import (
	"log/slog"
	"math"

	"github.com/peekknuf/govdataqa/internal/metadata"
	"github.com/peekknuf/govdataqa/internal/reference"
	"github.com/peekknuf/govdataqa/internal/table"
	"github.com/peekknuf/govdataqa/internal/textnorm"
)

// MaxSamples bounds the invalid values kept per column.
const MaxSamples = 5

// Outcome says how a conformity score was reached.
type Outcome int

const (
	// NoRelevantColumns: nothing to constrain, conformity is perfect.
	NoRelevantColumns Outcome = iota
	// Unvalidatable: role-bearing columns exist but no value could be checked.
	Unvalidatable
	// Scored: exp(-5·E/V) over validated values.
	Scored
)

func (o Outcome) String() string {
	switch o {
	case NoRelevantColumns:
		return "no_relevant_columns"
	case Unvalidatable:
		return "unvalidatable"
	}
	return "scored"
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// ColumnReport describes one role-bearing column.
type ColumnReport struct {
	Column    string   `json:"column"`
	Declared  string   `json:"declared,omitempty"`
	Role      string   `json:"role"`
	Validated int      `json:"validated"`
	Invalid   int      `json:"invalid"`
	Samples   []string `json:"invalid_samples,omitempty"`
	Skipped   string   `json:"skipped,omitempty"`
}

// Report is the explanation payload of a validation run.
type Report struct {
	Columns   []ColumnReport `json:"columns"`
	Validated int            `json:"validated"`
	Invalid   int            `json:"invalid"`
	Outcome   Outcome        `json:"outcome"`
	Score     float64        `json:"score"`
}

// ErrorRatio is Invalid/Validated, zero when nothing was validated.
func (r Report) ErrorRatio() float64 {
	if r.Validated == 0 {
		return 0
	}
	return float64(r.Invalid) / float64(r.Validated)
}

// Validator runs role detection and value validation. It only reads the
// table and the reference sets.
type Validator struct {
	refs reference.Provider
}

func New(refs reference.Provider) *Validator {
	if refs == nil {
		refs = reference.NewCached(nil, nil)
	}
	return &Validator{refs: refs}
}

type candidate struct {
	declared string
	role     Role
	index    int
}

// Validate scores t. Column roles come from the metadata column list when
// present, otherwise from the table's own column names.
func (v *Validator) Validate(t *table.Table, doc metadata.Document) Report {
	var rep Report
	cands := detect(t, doc)
	if len(cands) == 0 {
		rep.Outcome = NoRelevantColumns
		rep.Score = 1
		return rep
	}

	for _, c := range cands {
		col := ColumnReport{Declared: c.declared, Role: c.role.String()}
		if c.index < 0 {
			col.Column = c.declared
			col.Skipped = "column not present in table"
			rep.Columns = append(rep.Columns, col)
			continue
		}
		col.Column = t.ColumnName(c.index)
		ok, err := checkFor(c.role, v.refs)
		if err != nil {
			slog.Debug("conformity column skipped", "column", col.Column, "role", col.Role)
			col.Skipped = "reference data unavailable"
			rep.Columns = append(rep.Columns, col)
			continue
		}
		for _, val := range t.NonNull(c.index) {
			col.Validated++
			if ok(val) {
				continue
			}
			col.Invalid++
			if len(col.Samples) < MaxSamples {
				col.Samples = append(col.Samples, val.Text())
			}
		}
		rep.Validated += col.Validated
		rep.Invalid += col.Invalid
		rep.Columns = append(rep.Columns, col)
	}

	if rep.Validated == 0 {
		rep.Outcome = Unvalidatable
		rep.Score = 0
		return rep
	}
	rep.Outcome = Scored
	rep.Score = math.Exp(-5 * rep.ErrorRatio())
	return rep
}

func detect(t *table.Table, doc metadata.Document) []candidate {
	var cands []candidate
	if cols := doc.Columns(); len(cols) > 0 {
		for _, mc := range cols {
			declared := mc.Label()
			role := DetectRole(declared)
			if role == RoleNone {
				continue
			}
			idx := resolve(t, mc.FieldName, mc.Name)
			slog.Debug("column role detected", "column", declared, "role", role.String(), "in_table", idx >= 0)
			cands = append(cands, candidate{declared: declared, role: role, index: idx})
		}
		return cands
	}

	for i, name := range t.Columns() {
		role := DetectRole(name)
		if role == RoleNone {
			continue
		}
		slog.Debug("column role detected", "column", name, "role", role.String(), "in_table", true)
		cands = append(cands, candidate{declared: name, role: role, index: i})
	}
	return cands
}

// resolve finds a metadata column in the table by field name, then display
// name, then a folded comparison of either.
func resolve(t *table.Table, fieldName, name string) int {
	if t == nil {
		return -1
	}
	for _, n := range []string{fieldName, name} {
		if n == "" {
			continue
		}
		if i := t.ColumnIndex(n); i >= 0 {
			return i
		}
	}
	for i, c := range t.Columns() {
		fc := textnorm.Fold(c)
		if (fieldName != "" && fc == textnorm.Fold(fieldName)) || (name != "" && fc == textnorm.Fold(name)) {
			return i
		}
	}
	return -1
}
