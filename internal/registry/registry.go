// Package registry fetches package metadata from the public npm registry.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/klauspost/compress/gzhttp"

	"pkgsrc/internal/slogutil"
	"pkgsrc/internal/version"
)

const (
	// DefaultURL is the public registry queried for metadata.
	DefaultURL = "http://registry.npmjs.org"

	// DefaultTimeout bounds a single metadata request.
	DefaultTimeout = 10 * time.Second

	// maxBodyBytes caps how much of a packument is decoded.
	maxBodyBytes = 64 << 20
)

// Metadata is the part of a registry document pkgsrc consumes.
type Metadata struct {
	Name       string     `json:"name"`
	Repository Repository `json:"repository"`
}

// Repository accepts both forms the registry serves: a bare string or an
// object with a url field.
type Repository struct {
	Type string `json:"type,omitempty"`
	URL  string `json:"url,omitempty"`
}

func (r *Repository) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.URL = s
		return nil
	}

	type plain Repository
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		// Arrays and other shapes carry no usable url.
		return nil
	}
	*r = Repository(p)
	return nil
}

// StatusError reports a non-2xx registry response other than 404.
type StatusError struct {
	Name       string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("registry returned %s for %s", e.Status, e.Name)
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client // optional; gzip transport is used when nil
	Logger     *slog.Logger
}

// Client issues metadata requests against one registry.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	logger    *slog.Logger
}

// NewClient creates a Client. Zero-valued options take defaults.
func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultURL
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = version.UserAgent()
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{
			Timeout:   timeout,
			Transport: gzhttp.Transport(http.DefaultTransport),
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}

	return &Client{
		baseURL:   base,
		userAgent: ua,
		http:      hc,
		logger:    logger,
	}
}

// BaseURL returns the registry root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Fetch returns metadata for name. found is false when the registry has no
// document for it (HTTP 404). Any transport failure, other non-2xx status or
// undecodable body is returned as an error.
func (c *Client) Fetch(ctx context.Context, name string) (*Metadata, bool, error) {
	endpoint := c.baseURL + "/" + escapePath(name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()

	c.logger.Debug("Registry response",
		"module", name,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, false, &StatusError{Name: name, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var meta Metadata
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&meta); err != nil {
		return nil, false, fmt.Errorf("failed to decode registry response for %s: %w", name, err)
	}

	return &meta, true, nil
}

// RepositoryURL fetches name and returns its raw repository url, or "" when
// the registry has no document or the document has no repository.
func (c *Client) RepositoryURL(ctx context.Context, name string) (string, error) {
	meta, found, err := c.Fetch(ctx, name)
	if err != nil {
		return "", err
	}
	if !found {
		return "", nil
	}
	return meta.Repository.URL, nil
}

// escapePath escapes each "/"-separated segment of name, so scoped names keep
// their separator.
func escapePath(name string) string {
	segments := strings.Split(name, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}
