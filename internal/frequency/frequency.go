// Package frequency turns update-frequency descriptors ("Mensual", "P1Y",
// "cada 15 días", 30) into a number of days or a sentinel outcome.
package frequency

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/peekknuf/govdataqa/internal/textnorm"
)

// Kind classifies a normalized frequency.
type Kind int

const (
	// Days means Result.Days holds a positive day count.
	Days Kind = iota
	// Indeterminate means the label declares the frequency not applicable.
	Indeterminate
	// Never means the dataset is declared as never updated.
	Never
)

func (k Kind) String() string {
	switch k {
	case Indeterminate:
		return "INDETERMINATE"
	case Never:
		return "NEVER"
	}
	return "DAYS"
}

// DefaultDays is used for absent or unrecognised descriptors.
const DefaultDays = 365

// Rule names the resolution step that produced a Result.
type Rule string

const (
	RuleAbsent   Rule = "absent"
	RuleNumeric  Rule = "numeric"
	RuleLabel    Rule = "label"
	RuleISO      Rule = "iso-duration"
	RulePattern  Rule = "days-pattern"
	RuleFallback Rule = "fallback"
)

// Result is the outcome of normalizing a descriptor.
type Result struct {
	Kind  Kind
	Days  float64
	Rule  Rule
	Label string
}

func (r Result) String() string {
	if r.Kind != Days {
		return r.Kind.String()
	}
	return fmt.Sprintf("%g days", r.Days)
}

func days(n float64, rule Rule, label string) Result {
	return Result{Kind: Days, Days: n, Rule: rule, Label: label}
}

type labelRule struct {
	kind Kind
	days float64
}

// labels is keyed by folded text (lower case, no diacritics).
var labels = map[string]labelRule{
	"diario": {Days, 1}, "diarios": {Days, 1}, "diaria": {Days, 1}, "daily": {Days, 1},
	"semanal": {Days, 7}, "semanales": {Days, 7}, "weekly": {Days, 7},
	"quincenal": {Days, 15}, "quincenales": {Days, 15}, "biweekly": {Days, 15},
	"mensual": {Days, 30}, "mensuales": {Days, 30}, "monthly": {Days, 30},
	"bimestral": {Days, 60}, "bimonthly": {Days, 60},
	"trimestral": {Days, 90}, "trimestrales": {Days, 90}, "quarterly": {Days, 90},
	"cuatrimestral": {Days, 120},
	"semestral": {Days, 182}, "semestrales": {Days, 182}, "semestre": {Days, 182}, "semiannual": {Days, 182},
	"anual": {Days, 365}, "anualmente": {Days, 365}, "anuales": {Days, 365}, "yearly": {Days, 365}, "annual": {Days, 365},
	"trienio": {Days, 1095}, "trienal": {Days, 1095}, "triennial": {Days, 1095},
	"mas de tres anos": {Days, 1460}, "more than three years": {Days, 1460},
	"solo una vez": {Days, 3650}, "solo una vez dnp": {Days, 3650}, "once": {Days, 3650},
	"nunca": {Never, 0}, "never": {Never, 0},
	"no aplica": {Indeterminate, 0}, "no_aplica": {Indeterminate, 0}, "na": {Indeterminate, 0},
	"n/a": {Indeterminate, 0}, "not applicable": {Indeterminate, 0},
}

var (
	digitsOnly  = regexp.MustCompile(`^\d+$`)
	isoDuration = regexp.MustCompile(`^p(\d+)([ymd])`)
	daysPattern = regexp.MustCompile(`(\d+)\s*(dias)?`)
)

// Normalize resolves a descriptor. Accepted inputs are nil, Go numbers,
// strings and fmt.Stringer values; anything else is formatted and treated
// as a label. It never fails: every unparseable form degrades to the next
// rule and finally to DefaultDays.
func Normalize(v any) Result {
	if v == nil {
		return days(DefaultDays, RuleAbsent, "")
	}
	if n, ok := numeric(v); ok {
		if !math.IsInf(n, 0) && !math.IsNaN(n) && math.Trunc(n) >= 1 {
			return days(math.Trunc(n), RuleNumeric, "")
		}
		return days(DefaultDays, RuleFallback, "")
	}
	return NormalizeLabel(fmt.Sprint(v))
}

// NormalizeLabel resolves a free-text descriptor.
func NormalizeLabel(label string) Result {
	s := strings.TrimSpace(label)
	if s == "" {
		return days(DefaultDays, RuleAbsent, label)
	}
	if digitsOnly.MatchString(s) {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return days(float64(n), RuleNumeric, label)
		}
	}

	folded := textnorm.Fold(s)
	if r, ok := labels[folded]; ok {
		return Result{Kind: r.kind, Days: r.days, Rule: RuleLabel, Label: label}
	}

	if m := isoDuration.FindStringSubmatch(folded); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			mult := map[string]int{"y": 365, "m": 30, "d": 1}[m[2]]
			return days(float64(n*mult), RuleISO, label)
		}
	}

	if m := daysPattern.FindStringSubmatch(folded); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return days(float64(n), RulePattern, label)
		}
	}

	return days(DefaultDays, RuleFallback, label)
}

// IsOnce reports labels declaring a single publication ("Solo una vez").
func IsOnce(label string) bool {
	f := textnorm.Fold(label)
	return (strings.Contains(f, "solo") && strings.Contains(f, "vez")) || f == "once"
}

// IsMoreThanThreeYears reports the "Más de tres años" label in any casing
// or accentuation.
func IsMoreThanThreeYears(label string) bool {
	f := textnorm.Fold(label)
	if strings.Contains(f, "mas") && strings.Contains(f, "tres") && strings.Contains(f, "anos") {
		return true
	}
	return f == "more than three years"
}

func numeric(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	}
	return 0, false
}
