package reference

import (
	_ "embed"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/peekknuf/govdataqa/internal/table"
	"github.com/peekknuf/govdataqa/internal/textnorm"
)

// ErrUnavailable means a reference set could not be obtained. Columns that
// depend on it are excluded from validation.
var ErrUnavailable = errors.New("reference set unavailable")

//go:embed departments.txt
var departmentsList string

//go:embed municipalities.txt
var municipalitiesList string

// Provider supplies the reference sets used by conformity validation.
type Provider interface {
	Departments() (*Set, error)
	Municipalities() (*Set, error)
}

// Loader produces a set on demand.
type Loader func() (*Set, error)

// EmbeddedDepartments returns the department list compiled into the binary.
func EmbeddedDepartments() Loader {
	return func() (*Set, error) {
		return ReadSet("departamentos", strings.NewReader(departmentsList))
	}
}

// EmbeddedMunicipalities returns the DIVIPOLA municipality names compiled
// into the binary.
func EmbeddedMunicipalities() Loader {
	return func() (*Set, error) {
		return ReadSet("municipios", strings.NewReader(municipalitiesList))
	}
}

// Fallback tries primary and, when it fails, serves secondary instead.
func Fallback(primary, secondary Loader) Loader {
	return func() (*Set, error) {
		s, err := primary()
		if err == nil {
			return s, nil
		}
		slog.Warn("reference source failed, using fallback", "error", eris.ToString(err, false))
		return secondary()
	}
}

// Names wraps a fixed list.
func Names(name string, names ...string) Loader {
	return func() (*Set, error) { return NewSet(name, names...), nil }
}

// FromFile reads a plain list (one name per line) or, for .csv files, the
// given column of a CSV with a header row.
func FromFile(name, path, column string) Loader {
	return func() (*Set, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "%s: open %s", name, path)
		}
		defer f.Close()

		if !strings.EqualFold(filepath.Ext(path), ".csv") {
			s, err := ReadSet(name, f)
			if err != nil {
				return nil, eris.Wrapf(err, "%s: read %s", name, path)
			}
			return s, nil
		}
		names, err := csvColumn(f, column)
		if err != nil {
			return nil, eris.Wrapf(err, "%s: read %s", name, path)
		}
		return NewSet(name, names...), nil
	}
}

// FromTable takes the names from a column of an already loaded table, such
// as the national municipality registry fetched from the open data portal.
func FromTable(name string, t *table.Table, column string) Loader {
	return func() (*Set, error) {
		idx := findColumn(t.Columns(), column)
		if idx < 0 {
			return nil, eris.Wrapf(ErrUnavailable, "%s: column %q not found", name, column)
		}
		var names []string
		for _, v := range t.NonNull(idx) {
			names = append(names, v.Text())
		}
		return NewSet(name, names...), nil
	}
}

func csvColumn(r io.Reader, column string) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, err
	}
	idx := findColumn(header, column)
	if idx < 0 {
		idx = 0
	}
	var names []string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if idx < len(rec) {
			names = append(names, rec[idx])
		}
	}
	return names, nil
}

func findColumn(columns []string, name string) int {
	want := textnorm.Fold(name)
	for i, c := range columns {
		if textnorm.Fold(c) == want {
			return i
		}
	}
	return -1
}

type onceSet struct {
	once sync.Once
	load Loader
	set  *Set
	err  error
}

func (o *onceSet) get() (*Set, error) {
	o.once.Do(func() {
		o.set, o.err = o.load()
		if o.err != nil {
			slog.Warn("reference set unavailable", "error", eris.ToString(o.err, false))
			return
		}
		slog.Debug("reference set loaded", "name", o.set.Name(), "size", o.set.Len())
	})
	return o.set, o.err
}

// Cached loads each set at most once and then serves it read-only, so one
// instance can be shared by concurrent scoring sessions.
type Cached struct {
	departments    onceSet
	municipalities onceSet
}

// NewCached builds a provider. Nil loaders fall back to the embedded lists.
func NewCached(departments, municipalities Loader) *Cached {
	if departments == nil {
		departments = EmbeddedDepartments()
	}
	if municipalities == nil {
		municipalities = EmbeddedMunicipalities()
	}
	return &Cached{
		departments:    onceSet{load: departments},
		municipalities: onceSet{load: municipalities},
	}
}

func (c *Cached) Departments() (*Set, error)    { return c.departments.get() }
func (c *Cached) Municipalities() (*Set, error) { return c.municipalities.get() }
