package profiler

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/peekknuf/govdataqa/internal/table"
)

// Column types reported by ColumnStats.
const (
	TypeEmpty  = "empty"
	TypeInt    = "int"
	TypeFloat  = "float"
	TypeBool   = "bool"
	TypeString = "string"
	TypeNested = "nested"
	TypeMixed  = "mixed"
)

// SampleSize is how many leading non-null values a column keeps.
const SampleSize = 10

type ColumnStats struct {
	Name          string
	Type          string
	Count         int // non-null values
	NullCount     int
	DistinctCount int
	ZeroCount     int
	NegativeCount int
	BlankCount    int // strings that are empty after trimming
	Min           string
	Max           string
	SampleValues  []string

	// Numeric columns only.
	Mean     float64
	Std      float64
	Variance float64

	// Text length statistics over every non-null value rendered as text.
	LengthMean float64
	LengthStd  float64

	kinds    map[table.Kind]int
	distinct map[string]struct{}
	integral bool
	minNum   float64
	maxNum   float64
	sum      float64
	sumSq    float64
	lenSum   float64
	lenSumSq float64
}

func NewColumnStats(name string) *ColumnStats {
	return &ColumnStats{
		Name:         name,
		SampleValues: make([]string, 0, SampleSize),
		kinds:        make(map[table.Kind]int),
		distinct:     make(map[string]struct{}),
		integral:     true,
	}
}

func (s *ColumnStats) Update(v table.Value) {
	if v.IsNull() {
		s.NullCount++
		return
	}

	s.Count++
	s.kinds[v.Kind()]++
	s.distinct[v.Canonical()] = struct{}{}

	text := v.Text()
	if len(s.SampleValues) < SampleSize {
		s.SampleValues = append(s.SampleValues, text)
	}
	n := float64(utf8.RuneCountInString(text))
	s.lenSum += n
	s.lenSumSq += n * n

	switch v.Kind() {
	case table.KindNumber:
		f, _ := v.Float()
		s.updateNumericStats(f)
	case table.KindString:
		if strings.TrimSpace(text) == "" {
			s.BlankCount++
		}
		if s.Min == "" || text < s.Min {
			s.Min = text
		}
		if s.Max == "" || text > s.Max {
			s.Max = text
		}
	}
}

func (s *ColumnStats) updateNumericStats(value float64) {
	numbers := s.kinds[table.KindNumber]
	if numbers == 1 || value < s.minNum {
		s.minNum = value
	}
	if numbers == 1 || value > s.maxNum {
		s.maxNum = value
	}
	if value != math.Trunc(value) {
		s.integral = false
	}
	if value == 0 {
		s.ZeroCount++
	}
	if value < 0 {
		s.NegativeCount++
	}
	s.sum += value
	s.sumSq += value * value
}

func (s *ColumnStats) finalizeStatistics() {
	s.DistinctCount = len(s.distinct)
	s.Type = s.inferType()

	if s.Count > 1 {
		c := float64(s.Count)
		s.LengthMean = s.lenSum / c
		s.LengthStd = math.Sqrt(math.Max(0, (s.lenSumSq-s.lenSum*s.lenSum/c)/(c-1)))
	} else if s.Count == 1 {
		s.LengthMean = s.lenSum
		s.LengthStd = math.NaN()
	}

	if !s.Numeric() {
		return
	}
	s.Min = formatNumber(s.minNum)
	s.Max = formatNumber(s.maxNum)
	c := float64(s.Count)
	s.Mean = s.sum / c
	if s.Count > 1 {
		s.Variance = math.Max(0, (s.sumSq-(s.sum*s.sum/c))/(c-1))
		s.Std = math.Sqrt(s.Variance)
	} else {
		s.Variance = math.NaN()
		s.Std = math.NaN()
	}
}

func (s *ColumnStats) inferType() string {
	if s.Count == 0 {
		return TypeEmpty
	}
	if len(s.kinds) > 1 {
		return TypeMixed
	}
	switch {
	case s.kinds[table.KindNumber] > 0:
		if s.integral {
			return TypeInt
		}
		return TypeFloat
	case s.kinds[table.KindBool] > 0:
		return TypeBool
	case s.kinds[table.KindNested] > 0:
		return TypeNested
	}
	return TypeString
}

// Numeric reports an all-number column.
func (s *ColumnStats) Numeric() bool {
	return s.Type == TypeInt || s.Type == TypeFloat
}

// Textual reports a column holding free-form values: strings, nested values
// or a mix of kinds.
func (s *ColumnStats) Textual() bool {
	return s.Type == TypeString || s.Type == TypeMixed || s.Type == TypeNested
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
