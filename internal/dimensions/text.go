package dimensions

import (
	"strings"

	"github.com/peekknuf/govdataqa/internal/profiler"
	"github.com/peekknuf/govdataqa/internal/similarity"
	"github.com/peekknuf/govdataqa/internal/table"
)

// CalculateSyntacticAccuracy flags text columns holding two distinct values
// whose TF-IDF cosine exceeds similarity.SyntacticThreshold:
// 10·(1 - (flagged/C)²).
func CalculateSyntacticAccuracy(in Input) Result {
	if in.Table.Empty() {
		return neutral(SyntacticAccuracy, "no data loaded")
	}
	flagged, names := syntacticFlags(in)
	f := ratio(flagged, in.Table.ColumnCount())
	return result(SyntacticAccuracy, 10*(1-f*f), map[string]any{
		"flagged_columns": names,
		"value_limit":     in.Options.valueLimit(),
	})
}

func syntacticFlags(in Input) (int, []string) {
	p := profiler.Profile(in.Table)
	flagged := 0
	names := []string{}
	for i, s := range p.Columns {
		if !s.Textual() {
			continue
		}
		if hasSimilarValues(distinctValues(in.Table, i, in.Options.valueLimit())) {
			flagged++
			names = append(names, s.Name)
		}
	}
	return flagged, names
}

// distinctValues returns up to limit distinct non-null values of column c,
// lower-cased and trimmed, in order of first appearance. Values are told
// apart before normalization, so "Cali" and "cali " both appear.
func distinctValues(t *table.Table, c, limit int) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, v := range t.NonNull(c) {
		key := v.Canonical()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, strings.ToLower(strings.TrimSpace(v.Text())))
		if len(out) >= limit {
			break
		}
	}
	return out
}

func hasSimilarValues(values []string) bool {
	if len(values) < 2 {
		return false
	}
	terms := make([]similarity.Terms, len(values))
	for i, v := range values {
		terms[i] = similarity.Tokenize(v)
	}
	for i := range values {
		if strings.TrimSpace(values[i]) == "" {
			continue
		}
		for j := i + 1; j < len(values); j++ {
			if strings.TrimSpace(values[j]) == "" {
				continue
			}
			if similarity.CosineTerms(terms[i], terms[j]) > similarity.SyntacticThreshold {
				return true
			}
		}
	}
	return false
}

// SemanticSampleSize is how many leading values represent a column's content.
const SemanticSampleSize = 10

// CalculateSemanticAccuracy counts text columns whose name and description
// share too little vocabulary with their first values:
// 10 - 10·(mismatched/C)².
func CalculateSemanticAccuracy(in Input) Result {
	if in.Table.Empty() {
		return neutral(SemanticAccuracy, "no data loaded")
	}
	p := profiler.Profile(in.Table)
	mismatched := []string{}
	for i, s := range p.Columns {
		if !s.Textual() {
			continue
		}
		desc := in.Meta.ColumnDescription(s.Name)
		if strings.TrimSpace(desc) == "" {
			desc = s.Name
		}
		values := in.Table.NonNull(i)
		if len(values) > SemanticSampleSize {
			values = values[:SemanticSampleSize]
		}
		sample := make([]string, len(values))
		for j, v := range values {
			sample[j] = v.Text()
		}
		if similarity.Unrelated(s.Name+" "+desc, strings.Join(sample, " "), similarity.SemanticThreshold) {
			mismatched = append(mismatched, s.Name)
		}
	}
	f := ratio(len(mismatched), len(p.Columns))
	return result(SemanticAccuracy, 10-10*f*f, map[string]any{
		"mismatched_columns": mismatched,
	})
}

// CalculateConsistency averages syntactic accuracy, a value length measure
// (text columns whose length standard deviation exceeds half the mean
// length) and a repeated column name measure.
func CalculateConsistency(in Input) Result {
	if in.Table.Empty() {
		return neutral(Consistency, "no data loaded")
	}
	cols := in.Table.ColumnCount()
	syntactic := CalculateSyntacticAccuracy(in).Score

	p := profiler.Profile(in.Table)
	uneven := 0
	for _, s := range p.Textual() {
		// A single value has no spread: LengthStd is NaN and the test fails.
		if s.LengthStd > 0.5*s.LengthMean {
			uneven++
		}
	}
	u := ratio(uneven, cols)
	lengths := 10 * (1 - u*u)

	dupNames := duplicateNames(in.Table.Columns())
	names := 10 * (1 - ratio(dupNames, cols))

	return result(Consistency, mean(syntactic, lengths, names), map[string]any{
		"syntactic_accuracy":     syntactic,
		"uneven_length_columns":  uneven,
		"duplicate_column_names": dupNames,
	})
}
