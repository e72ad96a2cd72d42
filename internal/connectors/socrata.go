package connectors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/peekknuf/govdataqa/internal/metadata"
	"github.com/peekknuf/govdataqa/internal/reference"
	"github.com/peekknuf/govdataqa/internal/table"
)

var (
	ErrNotFound  = errors.New("dataset not found")
	ErrInvalidID = errors.New("invalid dataset identifier")
)

var datasetID = regexp.MustCompile(`^[a-z0-9]{4}-[a-z0-9]{4}$`)

// ValidDatasetID reports whether id looks like a Socrata "4x4" identifier.
func ValidDatasetID(id string) bool { return datasetID.MatchString(id) }

// SocrataConfig configures the open data API client.
type SocrataConfig struct {
	// Domain of the portal, e.g. www.datos.gov.co. A value with a scheme is
	// used as the base URL unchanged.
	Domain     string
	AppToken   string
	PageSize   int
	RowLimit   int
	RateLimit  float64
	RateBurst  int
	Timeout    time.Duration
	MaxRetries int
	Transport  http.RoundTripper
}

func DefaultSocrataConfig() SocrataConfig {
	return SocrataConfig{
		Domain:     "www.datos.gov.co",
		PageSize:   1000,
		RowLimit:   50000,
		RateLimit:  20,
		RateBurst:  5,
		Timeout:    10 * time.Second,
		MaxRetries: 3,
	}
}

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// SocrataClient reads rows and metadata from a Socrata portal. Requests are
// paced by a token bucket and transient failures are retried with
// exponential backoff.
type SocrataClient struct {
	config  SocrataConfig
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	cache   *RowCache
	backoff time.Duration
}

func NewSocrataClient(config SocrataConfig) *SocrataClient {
	def := DefaultSocrataConfig()
	if config.Domain == "" {
		config.Domain = def.Domain
	}
	if config.PageSize <= 0 {
		config.PageSize = def.PageSize
	}
	if config.RowLimit <= 0 {
		config.RowLimit = def.RowLimit
	}
	if config.RateLimit <= 0 {
		config.RateLimit = def.RateLimit
	}
	if config.RateBurst <= 0 {
		config.RateBurst = def.RateBurst
	}
	if config.Timeout <= 0 {
		config.Timeout = def.Timeout
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}

	base := config.Domain
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	return &SocrataClient{
		config:  config,
		baseURL: strings.TrimSuffix(base, "/"),
		http:    &http.Client{Timeout: config.Timeout, Transport: config.Transport},
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), config.RateBurst),
		backoff: 200 * time.Millisecond,
	}
}

// UseCache makes FetchRows read and fill the given cache.
func (c *SocrataClient) UseCache(cache *RowCache) { c.cache = cache }

func (c *SocrataClient) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(1<<uint(attempt-1)) * c.backoff
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "socrata: rate limiter")
		}
		body, err := c.doOnce(ctx, path, query)
		if err == nil {
			return body, nil
		}
		lastErr = err
		var status *StatusError
		if errors.As(err, &status) && !status.retryable() {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.Debug("socrata request failed", "path", path, "attempt", attempt+1, "error", eris.ToString(err, false))
	}
	return nil, eris.Wrapf(lastErr, "socrata: %s: retries exhausted", path)
}

func (c *SocrataClient) doOnce(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, eris.Wrap(err, "socrata: build request")
	}
	req.Header.Set("Accept", "application/json")
	if c.config.AppToken != "" {
		req.Header.Set("X-App-Token", c.config.AppToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "socrata: request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "socrata: read body")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := string(body)
		if len(msg) > 200 {
			msg = msg[:200]
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: msg}
	}
	return body, nil
}

func notFound(err error, id string) error {
	var status *StatusError
	if errors.As(err, &status) && status.StatusCode == http.StatusNotFound {
		return eris.Wrapf(ErrNotFound, "socrata: %s", id)
	}
	return nil
}

// FetchRecords downloads up to limit rows of a dataset as decoded JSON
// objects. A limit of zero or less means the configured row limit. When a
// page fails after at least one page arrived, the rows gathered so far are
// returned.
func (c *SocrataClient) FetchRecords(ctx context.Context, id string, limit int) ([]map[string]any, error) {
	if !ValidDatasetID(id) {
		return nil, eris.Wrapf(ErrInvalidID, "%q", id)
	}
	if limit <= 0 {
		limit = c.config.RowLimit
	}

	if records, ok, err := c.cache.Get(id, limit); err != nil {
		slog.Warn("row cache unreadable", "dataset", id, "error", eris.ToString(err, false))
	} else if ok {
		slog.Debug("rows served from cache", "dataset", id, "rows", len(records))
		return records, nil
	}

	var records []map[string]any
	partial := false
	for offset := 0; offset < limit; {
		size := min(c.config.PageSize, limit-offset)
		query := url.Values{}
		query.Set("$limit", strconv.Itoa(size))
		query.Set("$offset", strconv.Itoa(offset))

		body, err := c.get(ctx, "/resource/"+id+".json", query)
		if err != nil {
			if offset > 0 {
				slog.Warn("stopping at partial dataset", "dataset", id, "rows", len(records), "error", eris.ToString(err, false))
				partial = true
				break
			}
			if nf := notFound(err, id); nf != nil {
				return nil, nf
			}
			return nil, eris.Wrapf(err, "socrata: fetch %s", id)
		}

		var page []map[string]any
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, eris.Wrapf(err, "socrata: decode page at offset %d", offset)
		}
		records = append(records, page...)
		slog.Debug("page fetched", "dataset", id, "offset", offset, "rows", len(page))

		if len(page) < size {
			break
		}
		offset += len(page)
	}

	if !partial {
		if err := c.cache.Put(id, limit, records); err != nil {
			slog.Warn("row cache not updated", "dataset", id, "error", eris.ToString(err, false))
		}
	}
	return records, nil
}

// FetchTable downloads rows into a table. Every field arrives as text, so
// column types are inferred afterwards.
func (c *SocrataClient) FetchTable(ctx context.Context, id string, limit int) (*table.Table, error) {
	records, err := c.FetchRecords(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	return table.InferTypes(table.FromRecords(records)), nil
}

// FetchMetadata downloads the dataset description document.
func (c *SocrataClient) FetchMetadata(ctx context.Context, id string) (metadata.Document, error) {
	if !ValidDatasetID(id) {
		return metadata.Document{}, eris.Wrapf(ErrInvalidID, "%q", id)
	}
	body, err := c.get(ctx, "/api/views/"+id+".json", nil)
	if err != nil {
		if nf := notFound(err, id); nf != nil {
			return metadata.Document{}, nf
		}
		return metadata.Document{}, eris.Wrapf(err, "socrata: metadata %s", id)
	}
	return metadata.Parse(body)
}

// ReferenceLoader builds a reference set from one column of a dataset, such
// as the national municipality registry.
func (c *SocrataClient) ReferenceLoader(ctx context.Context, name, id, column string) reference.Loader {
	return func() (*reference.Set, error) {
		t, err := c.FetchTable(ctx, id, 0)
		if err != nil {
			return nil, eris.Wrapf(reference.ErrUnavailable, "%s: %v", name, err)
		}
		return reference.FromTable(name, t, column)()
	}
}
