package dimensions

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/peekknuf/govdataqa/internal/frequency"
	"github.com/peekknuf/govdataqa/internal/metadata"
)

// DefaultFrequencyLabel applies when no update frequency is declared.
const DefaultFrequencyLabel = "Anual"

// OnceWindowDays is how long a "published once" dataset stays current.
const OnceWindowDays = 5 * 365

// CalculateTimeliness scores 10 when the last update is within the declared
// frequency and 0 when it is not. Missing dates and "not applicable"
// frequencies score 5.
func CalculateTimeliness(in Input) Result {
	updated, ok := in.Meta.UpdatedAt()
	if !ok {
		return neutral(Timeliness, "no update date")
	}
	elapsed := math.Floor(in.now().Sub(updated).Hours() / 24)

	var freq frequency.Result
	label := ""
	if n, ok := in.Meta.Lookup("frecuencia_actualizacion_dias"); ok && !n.IsNull() {
		freq = frequency.Normalize(n.Interface())
	} else {
		label = in.Meta.Text(metadata.FreqLabel)
		if strings.TrimSpace(label) == "" {
			label = DefaultFrequencyLabel
		}
		freq = frequency.NormalizeLabel(label)
	}

	details := map[string]any{
		"updated_at":   updated,
		"elapsed_days": elapsed,
		"frequency":    freq.String(),
		"rule":         string(freq.Rule),
	}
	if label != "" {
		details["label"] = label
	}

	switch {
	case freq.Kind == frequency.Indeterminate:
		return result(Timeliness, Neutral, details)
	case freq.Kind == frequency.Never:
		return result(Timeliness, 0, details)
	case frequency.IsMoreThanThreeYears(label):
		return result(Timeliness, 10, details)
	case frequency.IsOnce(label):
		if elapsed <= OnceWindowDays {
			return result(Timeliness, 10, details)
		}
		return result(Timeliness, 0, details)
	case elapsed > freq.Days:
		return result(Timeliness, 0, details)
	}
	return result(Timeliness, 10, details)
}

var (
	requiredFields = []metadata.Field{
		metadata.Title, metadata.Description, metadata.Updated,
		metadata.Source, metadata.Publisher, metadata.FreqDays,
	}
	auditedFields = []metadata.Field{metadata.Source, metadata.Publisher, metadata.License}
	yearPattern   = regexp.MustCompile(`\d{4}`)
)

// CalculateTraceability weights the required-field measure 10(1-missing²)
// by 0.75, the audited-field measure by 0.20 and an undated title by 0.05.
func CalculateTraceability(in Input) Result {
	filled := in.Meta.Count(requiredFields...)
	missing := 1 - ratio(filled, len(requiredFields))
	required := 10 * (1 - missing*missing)

	audited := float64(in.Meta.Count(auditedFields...)) / float64(len(auditedFields)) * 10

	undated := 10.0
	if yearPattern.MatchString(in.Meta.Text(metadata.Title)) {
		undated = 0
	}
	return result(Traceability, required*0.75+audited*0.20+undated*0.05, map[string]any{
		"required_filled": filled,
		"audited_measure": audited,
		"undated_title":   undated > 0,
	})
}

// CalculateCredibility weights source metadata by 0.70, the publisher by
// 0.05 and the share of described columns by 0.25.
func CalculateCredibility(in Input) Result {
	source := float64(in.Meta.Count(metadata.Source, metadata.Description, metadata.Updated)) / 3 * 10
	publisher := 0.0
	if in.Meta.Has(metadata.Publisher) {
		publisher = 10
	}

	described, total := 0, 0
	if cols := in.Table.Columns(); len(cols) > 0 {
		total = len(cols)
		for _, c := range cols {
			if strings.TrimSpace(in.Meta.ColumnDescription(c)) != "" {
				described++
			}
		}
	} else {
		cols := in.Meta.Columns()
		total = len(cols)
		for _, c := range cols {
			if strings.TrimSpace(c.Description) != "" {
				described++
			}
		}
	}
	columns := 10 * ratio(described, total)

	return result(Credibility, source*0.70+publisher*0.05+columns*0.25, map[string]any{
		"source_measure":    source,
		"publisher":         publisher > 0,
		"described_columns": described,
		"columns":           total,
	})
}

// RowLabelMaxLength saturates the row label measure.
const RowLabelMaxLength = 100

// CalculateComprehensibility averages a saturating description length
// measure 10(1-e^(-0.05·len)) with a log-scaled row label measure.
func CalculateComprehensibility(in Input) Result {
	descLen := utf8.RuneCountInString(in.Meta.Text(metadata.Description))
	desc := 10 * (1 - math.Exp(-0.05*float64(descLen)))

	labelLen := utf8.RuneCountInString(in.Meta.Text(metadata.RowLabel))
	label := 0.0
	if labelLen > 2 {
		label = 10 * math.Log(1+float64(labelLen-2)) / math.Log(1+float64(RowLabelMaxLength-2))
	}
	return result(Comprehensibility, mean(desc, label), map[string]any{
		"description_length": descLen,
		"row_label_length":   labelLen,
	})
}

// CalculateAccessibility gives 5 points for at least one tag and 5 for at
// least one documentation or attribution link.
func CalculateAccessibility(in Input) Result {
	tags := len(in.Meta.Collect(metadata.Tags))
	links := len(in.Meta.Collect(metadata.Links))
	score := 0.0
	if tags > 0 {
		score += 5
	}
	if links > 0 {
		score += 5
	}
	return result(Accessibility, score, map[string]any{"tags": tags, "links": links})
}

// CalculateRecoverability averages accessibility, source metadata
// completeness and audited metadata completeness.
func CalculateRecoverability(in Input) Result {
	access := CalculateAccessibility(in).Score
	source := float64(in.Meta.Count(metadata.Source, metadata.Description, metadata.Updated, metadata.Publisher)) / 4 * 10
	audited := float64(in.Meta.Count(auditedFields...)) / float64(len(auditedFields)) * 10
	return result(Recoverability, mean(access, source, audited), map[string]any{
		"accessibility":   access,
		"source_measure":  source,
		"audited_measure": audited,
	})
}

// CalculateAvailability averages accessibility and timeliness.
func CalculateAvailability(in Input) Result {
	access := CalculateAccessibility(in).Score
	timely := CalculateTimeliness(in).Score
	return result(Availability, mean(access, timely), map[string]any{
		"accessibility": access,
		"timeliness":    timely,
	})
}
