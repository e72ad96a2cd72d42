package scoring

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/peekknuf/govdataqa/internal/dimensions"
	"github.com/peekknuf/govdataqa/internal/metadata"
	"github.com/peekknuf/govdataqa/internal/table"
)

func fixedClock() time.Time { return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) }

func testSession() *Session {
	tbl := table.FromRecords([]map[string]any{
		{"departamento": "Antioquia", "valor": 1.0},
		{"departamento": "Cundinamarca", "valor": 2.0},
		{"departamento": "Antioquia", "valor": 1.0},
	})
	meta := metadata.FromMap(map[string]any{
		"titulo":              "Inversión por departamento",
		"fecha_actualizacion": "2025-06-01",
		"tags":                []any{"inversion"},
	})
	return NewSession(tbl, meta, nil, WithClock(fixedClock))
}

func TestCalculateAllIsIdempotent(t *testing.T) {
	s := testSession()
	first := s.CalculateAll()
	second := s.CalculateAll()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical score sets, got %v and %v", first, second)
	}
	if len(first) != len(dimensions.Names()) {
		t.Errorf("Expected %d scores, got %d", len(dimensions.Names()), len(first))
	}
}

func TestScoreUsesCache(t *testing.T) {
	s := testSession()
	r1, err := s.Score(dimensions.Uniqueness)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if _, ok := s.cache[dimensions.Uniqueness]; !ok {
		t.Fatalf("Expected result to be cached")
	}
	r2, _ := s.Score(dimensions.Uniqueness)
	if r1.Score != r2.Score {
		t.Errorf("Expected cached score %f, got %f", r1.Score, r2.Score)
	}
}

func TestLoadInvalidatesCache(t *testing.T) {
	s := testSession()
	before, _ := s.Score(dimensions.Uniqueness)
	if before.Score == 10 {
		t.Fatalf("Expected duplicates in the test table, got %f", before.Score)
	}

	s.Load(table.FromRecords([]map[string]any{{"a": 1.0}, {"a": 2.0}}))
	if len(s.cache) != 0 {
		t.Errorf("Expected empty cache after Load, got %d entries", len(s.cache))
	}
	after, _ := s.Score(dimensions.Uniqueness)
	if after.Score != 10 {
		t.Errorf("Expected 10 after loading a table without duplicates, got %f", after.Score)
	}
}

func TestUnknownDimension(t *testing.T) {
	_, err := testSession().Score("velocidad")
	if !errors.Is(err, ErrUnknownDimension) {
		t.Errorf("Expected ErrUnknownDimension, got %v", err)
	}
}

func TestResultsInReportOrder(t *testing.T) {
	results := testSession().Results()
	names := dimensions.Names()
	if len(results) != len(names) {
		t.Fatalf("Expected %d results, got %d", len(names), len(results))
	}
	for i, r := range results {
		if r.Name != names[i] {
			t.Errorf("Position %d: expected %s, got %s", i, names[i], r.Name)
		}
	}
}

func TestSessionsHaveDistinctIDs(t *testing.T) {
	if testSession().ID == testSession().ID {
		t.Errorf("Expected distinct session IDs")
	}
}

func TestWithOptions(t *testing.T) {
	s := testSession()
	opts := dimensions.DefaultOptions()
	opts.UniquenessExponent = 1
	soft := NewSession(s.Table(), s.Metadata(), nil, WithOptions(opts))

	strict, _ := s.Score(dimensions.Uniqueness)
	lenient, _ := soft.Score(dimensions.Uniqueness)
	if lenient.Score < strict.Score {
		t.Errorf("Expected k=1 to score at least k=1.5, got %f < %f", lenient.Score, strict.Score)
	}
}
