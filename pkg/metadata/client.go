package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shelfline/shelfline/pkg/cache"
	"github.com/shelfline/shelfline/pkg/errors"
	"github.com/shelfline/shelfline/pkg/httputil"
)

// DefaultBaseURL is the Open Library API root.
const DefaultBaseURL = "https://openlibrary.org"

// coverBaseURL serves cover images by cover ID.
const coverBaseURL = "https://covers.openlibrary.org"

// Metadata is the looked-up book information in normalized units.
type Metadata struct {
	ISBN     string   `json:"isbn"`
	Title    string   `json:"title"`
	Authors  []string `json:"authors,omitempty"`
	Pages    int      `json:"pages,omitempty"`
	WidthMM  float64  `json:"width_mm,omitempty"`
	HeightMM float64  `json:"height_mm,omitempty"`
	SpineMM  float64  `json:"spine_mm,omitempty"`
	CoverURL string   `json:"cover_url,omitempty"`
}

// Client is an Open Library API client with caching and retry.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	keyer   cache.Keyer
	baseURL string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root, typically for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewClient creates a metadata client. Pass a [cache.NullCache] to disable
// caching.
func NewClient(store cache.Cache, opts ...Option) *Client {
	c := &Client{
		http:    httputil.NewHTTPClient(),
		cache:   store,
		keyer:   cache.NewDefaultKeyer(),
		baseURL: DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// edition is the subset of the Open Library edition record we read.
type edition struct {
	Title              string  `json:"title"`
	NumberOfPages      int     `json:"number_of_pages"`
	PhysicalDimensions string  `json:"physical_dimensions"`
	Covers             []int64 `json:"covers"`
	Authors            []struct {
		Key string `json:"key"`
	} `json:"authors"`
}

// author is the subset of the Open Library author record we read.
type author struct {
	Name string `json:"name"`
}

// Lookup resolves metadata for an ISBN. The ISBN may contain hyphens or
// spaces. Results are cached; refresh bypasses and repopulates the cache.
func (c *Client) Lookup(ctx context.Context, isbn string, refresh bool) (Metadata, error) {
	if err := errors.ValidateISBN(isbn); err != nil {
		return Metadata{}, err
	}
	normalized := errors.NormalizeISBN(isbn)

	key := c.keyer.MetadataKey(normalized)
	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, key); ok {
			var m Metadata
			if err := json.Unmarshal(data, &m); err == nil {
				return m, nil
			}
		}
	}

	m, err := c.fetch(ctx, normalized)
	if err != nil {
		return Metadata{}, err
	}

	if data, err := json.Marshal(m); err == nil {
		_ = c.cache.Set(ctx, key, data, cache.TTLMetadata)
	}
	return m, nil
}

// fetch builds Metadata from the edition record and its author references.
func (c *Client) fetch(ctx context.Context, isbn string) (Metadata, error) {
	var ed edition
	url := fmt.Sprintf("%s/isbn/%s.json", c.baseURL, isbn)
	if err := c.get(ctx, url, &ed); err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			return Metadata{}, errors.New(errors.ErrCodeNotFound, "no edition for ISBN %s", isbn)
		}
		return Metadata{}, err
	}

	m := Metadata{
		ISBN:  isbn,
		Title: ed.Title,
		Pages: ed.NumberOfPages,
	}

	if w, h, s, ok := ParseDimensions(ed.PhysicalDimensions); ok {
		m.WidthMM, m.HeightMM, m.SpineMM = w, h, s
	}
	if m.SpineMM == 0 && ed.NumberOfPages > 0 {
		m.SpineMM = EstimateSpineMM(ed.NumberOfPages)
	}
	if len(ed.Covers) > 0 {
		m.CoverURL = fmt.Sprintf("%s/b/id/%d-M.jpg", coverBaseURL, ed.Covers[0])
	}

	// Author records are fetched individually; cap the fan-out so a
	// many-contributor anthology doesn't turn into dozens of requests.
	const maxAuthors = 3
	for i, ref := range ed.Authors {
		if i == maxAuthors {
			break
		}
		var a author
		if err := c.get(ctx, c.baseURL+ref.Key+".json", &a); err != nil {
			continue // author lookup is best-effort
		}
		if a.Name != "" {
			m.Authors = append(m.Authors, a.Name)
		}
	}

	return m, nil
}

// get performs a GET with retry and decodes the JSON response into v.
func (c *Client) get(ctx context.Context, url string, v any) error {
	return httputil.RetryWithBackoff(ctx, func() error {
		return c.doRequest(ctx, url, v)
	})
}

// doRequest performs a single attempt and classifies the outcome into the
// error taxonomy. Transient failures come back as RetryableError; a 429
// carries the server's Retry-After wait along.
func (c *Client) doRequest(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", url)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return json.NewDecoder(resp.Body).Decode(v)
	case resp.StatusCode == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "not found: %s", url)
	case resp.StatusCode == http.StatusTooManyRequests:
		return &httputil.RetryableError{
			Err:        errors.New(errors.ErrCodeRateLimited, "rate limited by %s", url),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	case resp.StatusCode >= 500:
		return &httputil.RetryableError{Err: errors.New(errors.ErrCodeNetwork, "status %d from %s", resp.StatusCode, url)}
	default:
		return errors.New(errors.ErrCodeNetwork, "status %d from %s", resp.StatusCode, url)
	}
}

// parseRetryAfter reads the delay-seconds form of a Retry-After header.
// The http-date form and garbage both yield zero, falling back to the
// normal backoff delay.
func parseRetryAfter(header string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
