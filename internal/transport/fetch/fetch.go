// Package fetch reads catalog documents from HTTP(S) URLs, local files and Redis keys.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
)

// maxBodyBytes caps a single fetched document.
const maxBodyBytes = 256 << 20

// Location scheme prefixes.
const (
	schemeHTTP  = "http://"
	schemeHTTPS = "https://"
	schemeFile  = "file://"
	schemeRedis = "redis://"
)

// ErrUnsupportedScheme is returned for locations no configured fetcher can read.
var ErrUnsupportedScheme = errors.New("unsupported location scheme")

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Code)
}

// Fetcher returns the raw bytes stored at a location.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// HTTP fetches documents over HTTP(S) with retries.
type HTTP struct {
	client *retryablehttp.Client
}

// NewHTTP creates an HTTP fetcher over a shared retrying client.
func NewHTTP(client *retryablehttp.Client) *HTTP {
	return &HTTP{client: client}
}

// Fetch implements Fetcher.
func (h *HTTP) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return body, nil
}

// File reads documents from the local filesystem. Locations may carry a file:// prefix.
type File struct{}

// Fetch implements Fetcher.
func (File) Fetch(_ context.Context, location string) ([]byte, error) {
	path := strings.TrimPrefix(location, schemeFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

// kvReader is the consumer interface for Redis-backed fragments (ISP).
type kvReader interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// KV reads documents stored as string values under redis://<key> locations.
type KV struct {
	store kvReader
}

// NewKV creates a key-value fetcher.
func NewKV(store kvReader) *KV {
	return &KV{store: store}
}

// Fetch implements Fetcher.
func (k *KV) Fetch(ctx context.Context, location string) ([]byte, error) {
	key := strings.TrimPrefix(location, schemeRedis)
	if key == "" {
		return nil, fmt.Errorf("empty key in %q", location)
	}
	data, err := k.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return data, nil
}

// Router dispatches a location to the fetcher for its scheme.
// Locations without a scheme are local paths.
type Router struct {
	http Fetcher
	file Fetcher
	kv   Fetcher
}

var _ Fetcher = (*Router)(nil)

// NewRouter creates a scheme router. kv may be nil when Redis is not configured.
func NewRouter(httpF, fileF, kvF Fetcher) *Router {
	return &Router{http: httpF, file: fileF, kv: kvF}
}

// Fetch implements Fetcher.
func (r *Router) Fetch(ctx context.Context, location string) ([]byte, error) {
	location = strings.TrimSpace(location)
	var f Fetcher
	switch {
	case strings.HasPrefix(location, schemeHTTP), strings.HasPrefix(location, schemeHTTPS):
		f = r.http
	case strings.HasPrefix(location, schemeRedis):
		f = r.kv
	case strings.HasPrefix(location, schemeFile), !strings.Contains(location, "://"):
		f = r.file
	}
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, location)
	}
	return f.Fetch(ctx, location)
}
