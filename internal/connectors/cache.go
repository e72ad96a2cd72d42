package connectors

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fortio.org/safecast"
	"github.com/rotisserie/eris"
	"github.com/vmihailenco/msgpack/v5"
)

// Bump when cachedRows changes shape; older files are treated as misses.
const rowCacheSchema uint16 = 1

// RowCache keeps fetched remote records on disk, one msgpack file per
// dataset and row limit. Safe for concurrent use.
type RowCache struct {
	mu  sync.RWMutex
	dir string
	ttl time.Duration
}

type cachedRows struct {
	Schema  uint16
	Dataset string
	Limit   uint32
	Fetched time.Time
	Records []map[string]any
}

// OpenRowCache prepares a cache under dir. An empty dir means
// $XDG_CACHE_HOME/govdataqa (or ~/.cache/govdataqa). A zero ttl never expires.
func OpenRowCache(dir string, ttl time.Duration) (*RowCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, eris.Wrap(err, "cache: resolve home directory")
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, "govdataqa")
	}
	if err := os.MkdirAll(filepath.Join(dir, "rows"), 0o755); err != nil {
		return nil, eris.Wrapf(err, "cache: create %s", dir)
	}
	return &RowCache{dir: dir, ttl: ttl}, nil
}

func (c *RowCache) Dir() string { return c.dir }

func (c *RowCache) pathFor(dataset string, limit uint32) string {
	return filepath.Join(c.dir, "rows", fmt.Sprintf("%s-%d.mp", dataset, limit))
}

// Put stores records for (dataset, limit), replacing any previous entry
// atomically.
func (c *RowCache) Put(dataset string, limit int, records []map[string]any) error {
	if c == nil {
		return nil
	}
	lim, err := safecast.Conv[uint32](limit)
	if err != nil {
		return eris.Wrapf(err, "cache: row limit %d", limit)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(dataset, lim)
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return eris.Wrap(err, "cache: create temp file")
	}
	defer os.Remove(f.Name())

	payload := cachedRows{
		Schema:  rowCacheSchema,
		Dataset: dataset,
		Limit:   lim,
		Fetched: time.Now().UTC(),
		Records: records,
	}
	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		return eris.Wrapf(err, "cache: encode %s", dataset)
	}
	if err := f.Close(); err != nil {
		return eris.Wrap(err, "cache: close temp file")
	}
	if err := os.Rename(f.Name(), p); err != nil {
		return eris.Wrapf(err, "cache: store %s", dataset)
	}
	return nil
}

// Get returns cached records. Missing, expired and outdated entries report
// false without an error.
func (c *RowCache) Get(dataset string, limit int) ([]map[string]any, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	lim, err := safecast.Conv[uint32](limit)
	if err != nil {
		return nil, false, eris.Wrapf(err, "cache: row limit %d", limit)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(dataset, lim))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, eris.Wrapf(err, "cache: open %s", dataset)
	}
	defer f.Close()

	var payload cachedRows
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, eris.Wrapf(err, "cache: decode %s", dataset)
	}
	if payload.Schema != rowCacheSchema {
		return nil, false, nil
	}
	if c.ttl > 0 && time.Since(payload.Fetched) > c.ttl {
		slog.Debug("cached rows expired", "dataset", dataset, "fetched", payload.Fetched)
		return nil, false, nil
	}
	return payload.Records, true, nil
}

// DropAll removes every cached entry.
func (c *RowCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	rows := filepath.Join(c.dir, "rows")
	if err := os.RemoveAll(rows); err != nil {
		return eris.Wrap(err, "cache: drop")
	}
	return eris.Wrap(os.MkdirAll(rows, 0o755), "cache: recreate")
}
