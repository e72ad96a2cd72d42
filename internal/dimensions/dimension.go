// Package dimensions implements the quality dimension calculators. Each
// calculator is a total function of a table, a metadata document and the
// shared reference sets: it never fails and never mutates its inputs, and
// it returns a neutral score when the data it needs is missing.
package dimensions

import (
	"math"
	"time"

	"github.com/peekknuf/govdataqa/internal/metadata"
	"github.com/peekknuf/govdataqa/internal/reference"
	"github.com/peekknuf/govdataqa/internal/table"
)

// Name identifies a dimension. Values match the keys of the published score
// set.
type Name string

const (
	Confidentiality    Name = "confidencialidad"
	Relevance          Name = "relevancia"
	Timeliness         Name = "actualidad"
	Traceability       Name = "trazabilidad"
	Conformity         Name = "conformidad"
	SyntacticAccuracy  Name = "exactitudSintactica"
	SemanticAccuracy   Name = "exactitudSemantica"
	Completeness       Name = "completitud"
	Consistency        Name = "consistencia"
	Precision          Name = "precision"
	Portability        Name = "portabilidad"
	Credibility        Name = "credibilidad"
	Comprehensibility  Name = "comprensibilidad"
	Accessibility      Name = "accesibilidad"
	Uniqueness         Name = "unicidad"
	Efficiency         Name = "eficiencia"
	Recoverability     Name = "recuperabilidad"
	Availability       Name = "disponibilidad"
	AdvancedConformity Name = "conformidadAvanzada"
)

// Neutral is returned when there is not enough data to judge a dimension.
const Neutral = 5.0

const (
	DefaultUniquenessExponent = 1.5
	DefaultSimilarityLimit    = 500
)

// Options tunes calculators that take parameters.
type Options struct {
	// UniquenessExponent is the risk level k of the uniqueness formula.
	UniquenessExponent float64
	// SimilarityValueLimit caps the distinct values compared pairwise per
	// column by the syntactic accuracy check.
	SimilarityValueLimit int
}

func DefaultOptions() Options {
	return Options{
		UniquenessExponent:   DefaultUniquenessExponent,
		SimilarityValueLimit: DefaultSimilarityLimit,
	}
}

func (o Options) exponent() float64 {
	if o.UniquenessExponent <= 0 || math.IsNaN(o.UniquenessExponent) {
		return DefaultUniquenessExponent
	}
	return o.UniquenessExponent
}

func (o Options) valueLimit() int {
	if o.SimilarityValueLimit <= 0 {
		return DefaultSimilarityLimit
	}
	return o.SimilarityValueLimit
}

// Input is everything a calculator may look at.
type Input struct {
	Table   *table.Table
	Meta    metadata.Document
	Refs    reference.Provider
	Now     time.Time
	Options Options
}

func (in Input) now() time.Time {
	if in.Now.IsZero() {
		return time.Now()
	}
	return in.Now
}

// Result is one computed score plus the signals that produced it.
type Result struct {
	Name    Name           `json:"name"`
	Score   float64        `json:"score"`
	Max     float64        `json:"max"`
	Details map[string]any `json:"details,omitempty"`
}

// OutOfTen rescales the score to the ten-point range.
func (r Result) OutOfTen() float64 {
	if r.Max == 0 || r.Max == 10 {
		return r.Score
	}
	return r.Score * 10 / r.Max
}

// Calculator computes one dimension.
type Calculator func(in Input) Result

func result(name Name, score float64, details map[string]any) Result {
	return Result{Name: name, Score: clamp(score, 0, 10), Max: 10, Details: details}
}

func neutral(name Name, reason string) Result {
	return Result{Name: name, Score: Neutral, Max: 10, Details: map[string]any{"reason": reason}}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func mean(values ...float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
