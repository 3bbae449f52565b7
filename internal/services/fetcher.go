package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"storefront/internal/logger"
	"storefront/internal/timing"
)

const (
	ResourceProducts  = "products.json"
	ResourceNews      = "news.json"
	ResourceVersion   = "version.json"
	ResourceChangelog = "changelog.txt"

	// OperationImage is the timing key shared by every image download.
	OperationImage = "image"

	maxBodyBytes = 32 << 20
)

// StatusError is returned for any response other than 200 OK.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Fetcher reads resources from the static data host.
type Fetcher interface {
	// FetchJSON decodes base_url/resource into v. v may be partially
	// written on a decode error, so callers decode into a fresh value.
	FetchJSON(ctx context.Context, resource string, v interface{}) error
	FetchText(ctx context.Context, resource string) (string, error)
	// FetchBytes downloads an absolute URL, e.g. a product image.
	FetchBytes(ctx context.Context, rawURL string) ([]byte, error)
}

// HTTPFetcher issues plain GET requests without retries or caching.
type HTTPFetcher struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
	timings    *timing.Tracker
}

func NewHTTPFetcher(baseURL string, timeout time.Duration, log logger.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
		timings:    timing.NewTracker(),
	}
}

// ResourceURL joins the base URL and a resource name with exactly one slash.
func (f *HTTPFetcher) ResourceURL(resource string) string {
	return strings.TrimRight(f.baseURL, "/") + "/" + strings.TrimLeft(resource, "/")
}

// Timings exposes fetch durations keyed by resource name, or
// OperationImage for absolute image URLs.
func (f *HTTPFetcher) Timings() *timing.Tracker {
	return f.timings
}

func (f *HTTPFetcher) FetchJSON(ctx context.Context, resource string, v interface{}) error {
	data, err := f.get(ctx, resource, f.ResourceURL(resource))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "decode %s", resource)
	}
	return nil
}

func (f *HTTPFetcher) FetchText(ctx context.Context, resource string) (string, error) {
	data, err := f.get(ctx, resource, f.ResourceURL(resource))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (f *HTTPFetcher) FetchBytes(ctx context.Context, rawURL string) ([]byte, error) {
	return f.get(ctx, OperationImage, rawURL)
}

func (f *HTTPFetcher) get(ctx context.Context, operation, url string) ([]byte, error) {
	done := f.timings.Start(operation)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "build request for %s", url)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrapf(err, "read body of %s", url)
	}

	f.logger.Debug("Fetcher", "resource fetched", map[string]interface{}{
		"url":      url,
		"bytes":    len(data),
		"duration": done().String(),
	})
	return data, nil
}
