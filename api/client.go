package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"stockview/models"
	"stockview/storage"
	"stockview/utils"
)

// APIKeyHeader carries the static service key.
const APIKeyHeader = "x-api-key"

// StatusError is a non-2xx response
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: http status %d", e.URL, e.StatusCode)
}

// Options configures a Client
type Options struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	UserAgent string
	Cache     Cache         // optional
	CacheTTL  time.Duration // revalidation window
}

// Client talks to the listing service:
//
//	GET {base}/vehicles
//	GET {base}/stocks/{stock}
//	GET {base}/sr/{key}
//	GET {base}/stocks/ocr?vin={first11}
//	GET {base}/stocks/search?make=&model=&year=
//
// Every endpoint answers with a JSON array of raw records.
type Client struct {
	baseURL   string
	apiKey    string
	userAgent string
	http      *http.Client
	cache     Cache
	cacheTTL  time.Duration
	group     singleflight.Group
	logger    *utils.Logger
}

var _ storage.ListingSource = (*Client)(nil)

// NewClient creates a Client
func NewClient(opts Options, logger *utils.Logger) (*Client, error) {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		return nil, errors.New("BaseURL is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid BaseURL: %w", err)
	}
	to := opts.Timeout
	if to <= 0 {
		to = 20 * time.Second
	}
	ua := strings.TrimSpace(opts.UserAgent)
	if ua == "" {
		ua = "stockview/1.0"
	}
	return &Client{
		baseURL:   strings.TrimRight(base, "/"),
		apiKey:    opts.APIKey,
		userAgent: ua,
		http:      &http.Client{Timeout: to},
		cache:     opts.Cache,
		cacheTTL:  opts.CacheTTL,
		logger:    logger,
	}, nil
}

// Vehicles fetches the full listing
func (c *Client) Vehicles(ctx context.Context) ([]*models.RawRecord, error) {
	return c.getRecords(ctx, "/vehicles", nil)
}

// ByStock fetches a record by stock number
func (c *Client) ByStock(ctx context.Context, stock string) ([]*models.RawRecord, error) {
	return c.getRecords(ctx, "/stocks/"+url.PathEscape(strings.TrimSpace(stock)), nil)
}

// BySequentialKey fetches the record at a sequential key
func (c *Client) BySequentialKey(ctx context.Context, key int64) ([]*models.RawRecord, error) {
	return c.getRecords(ctx, "/sr/"+strconv.FormatInt(key, 10), nil)
}

// SearchByVIN searches by the unmasked VIN prefix
func (c *Client) SearchByVIN(ctx context.Context, vinPrefix string) ([]*models.RawRecord, error) {
	q := url.Values{}
	q.Set("vin", vinPrefix)
	return c.getRecords(ctx, "/stocks/ocr", q)
}

// Search searches by make, model and year
func (c *Client) Search(ctx context.Context, sq storage.SearchQuery) ([]*models.RawRecord, error) {
	q := url.Values{}
	q.Set("make", sq.Make)
	q.Set("model", sq.Model)
	q.Set("year", sq.Year)
	return c.getRecords(ctx, "/stocks/search", q)
}

// Close releases idle connections
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *Client) getRecords(ctx context.Context, path string, query url.Values) ([]*models.RawRecord, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var records []*models.RawRecord
	err := c.get(ctx, u, func(body []byte) error {
		var err error
		records, err = DecodeRecords(body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// DecodeRecords parses a JSON array of raw records. null decodes to an empty list.
func DecodeRecords(body []byte) ([]*models.RawRecord, error) {
	var records []*models.RawRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("payload parse: %w", err)
	}
	out := records[:0]
	for _, r := range records {
		if r != nil {
			out = append(out, r)
		}
	}
	return out, nil
}

// get fetches u and hands the body to decode, serving it from the cache when
// fresh. Identical concurrent requests share one round trip. Only bodies
// that decode are written to the cache, and an unreadable cached body is
// refetched.
func (c *Client) get(ctx context.Context, u string, decode func(body []byte) error) error {
	if c.cache != nil {
		body, ok, err := c.cache.Get(ctx, u)
		switch {
		case err != nil:
			c.logger.Warn("Cache read for %s failed: %v", u, err)
		case ok:
			if err := decode(body); err == nil {
				c.logger.Debug("Cache hit: %s", u)
				return nil
			}
			c.logger.Warn("Discarding unreadable cached body for %s", u)
		}
	}

	v, err, _ := c.group.Do(u, func() (interface{}, error) {
		return c.doGET(ctx, u)
	})
	if err != nil {
		return err
	}
	body := v.([]byte)
	if err := decode(body); err != nil {
		return err
	}

	if c.cache != nil && c.cacheTTL > 0 {
		if err := c.cache.Set(ctx, u, body, c.cacheTTL); err != nil {
			c.logger.Warn("Cache write for %s failed: %v", u, err)
		}
	}
	return nil
}

func (c *Client) doGET(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	// The service enforces the key; an empty one is sent as-is.
	req.Header.Set(APIKeyHeader, c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", u, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("GET %s: read body: %w", u, err)
	}
	c.logger.Debug("GET %s -> %d in %v", u, resp.StatusCode, time.Since(start))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: u, StatusCode: resp.StatusCode}
	}
	return b, nil
}
