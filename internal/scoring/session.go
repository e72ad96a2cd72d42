// Package scoring runs dimension calculators over one dataset and caches
// their results for the lifetime of the loaded table.
package scoring

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/peekknuf/govdataqa/internal/dimensions"
	"github.com/peekknuf/govdataqa/internal/metadata"
	"github.com/peekknuf/govdataqa/internal/reference"
	"github.com/peekknuf/govdataqa/internal/table"
)

var ErrUnknownDimension = errors.New("unknown dimension")

// Session scores one dataset. It is not safe for concurrent use; run one
// session per goroutine and share only the reference provider.
type Session struct {
	ID      string
	table   *table.Table
	meta    metadata.Document
	refs    reference.Provider
	options dimensions.Options
	now     func() time.Time
	cache   map[dimensions.Name]dimensions.Result
}

type Option func(*Session)

// WithOptions overrides calculator parameters.
func WithOptions(o dimensions.Options) Option {
	return func(s *Session) { s.options = o }
}

// WithClock fixes the reference time used by date-based dimensions.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// NewSession binds a table and its metadata. A nil provider falls back to
// the embedded department list with no municipalities.
func NewSession(t *table.Table, meta metadata.Document, refs reference.Provider, opts ...Option) *Session {
	if refs == nil {
		refs = reference.NewCached(nil, nil)
	}
	s := &Session{
		ID:      uuid.NewString(),
		table:   t,
		meta:    meta,
		refs:    refs,
		options: dimensions.DefaultOptions(),
		now:     time.Now,
		cache:   make(map[dimensions.Name]dimensions.Result),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Table returns the loaded table.
func (s *Session) Table() *table.Table { return s.table }

func (s *Session) Metadata() metadata.Document { return s.meta }

// Load replaces the table and drops every cached result.
func (s *Session) Load(t *table.Table) {
	s.table = t
	s.cache = make(map[dimensions.Name]dimensions.Result)
	slog.Debug("session table loaded", "session", s.ID, "rows", t.RowCount(), "columns", t.ColumnCount())
}

func (s *Session) input() dimensions.Input {
	return dimensions.Input{
		Table:   s.table,
		Meta:    s.meta,
		Refs:    s.refs,
		Now:     s.now(),
		Options: s.options,
	}
}

func (s *Session) compute(spec dimensions.Spec, in dimensions.Input) dimensions.Result {
	start := time.Now()
	r := spec.Calculate(in)
	slog.Debug("dimension computed",
		"session", s.ID,
		"dimension", string(spec.Name),
		"score", r.Score,
		"duration", time.Since(start),
	)
	s.cache[spec.Name] = r
	return r
}

// Score returns the cached result for name, computing it on first use.
func (s *Session) Score(name dimensions.Name) (dimensions.Result, error) {
	if r, ok := s.cache[name]; ok {
		return r, nil
	}
	spec, ok := dimensions.Lookup(name)
	if !ok {
		return dimensions.Result{}, fmt.Errorf("%w: %q", ErrUnknownDimension, name)
	}
	return s.compute(spec, s.input()), nil
}

// CalculateAll runs every calculator, refreshes the cache and returns the
// score set keyed by dimension name.
func (s *Session) CalculateAll() map[dimensions.Name]float64 {
	in := s.input()
	scores := make(map[dimensions.Name]float64)
	for _, spec := range dimensions.All() {
		scores[spec.Name] = s.compute(spec, in).Score
	}
	return scores
}

// Results returns the full results of every dimension in report order,
// computing only those not yet cached.
func (s *Session) Results() []dimensions.Result {
	in := s.input()
	out := make([]dimensions.Result, 0, len(dimensions.Names()))
	for _, spec := range dimensions.All() {
		r, ok := s.cache[spec.Name]
		if !ok {
			r = s.compute(spec, in)
		}
		out = append(out, r)
	}
	return out
}
