package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/investor-agent/investor-mcp/config"
	"github.com/investor-agent/investor-mcp/internal/domain"
	"github.com/investor-agent/investor-mcp/internal/logger"
)

// FetchService is the shared HTTP fetch layer: a retrying client plus a
// process-local response cache driven by the server's cache-control
// headers. The cache is best-effort; a miss or bypass is only a slower path.
type FetchService struct {
	config *config.Config
	client *RetryableHTTPClient

	mu    sync.RWMutex
	cache map[string]*cacheEntry
}

type cacheEntry struct {
	body      []byte
	etag      string
	fetchedAt time.Time
	maxAge    time.Duration
}

func (e *cacheEntry) fresh(now time.Time) bool {
	return e.maxAge > 0 && now.Sub(e.fetchedAt) < e.maxAge
}

// NewFetchService creates the fetch layer from the configured timeout and
// retry policy.
func NewFetchService(cfg *config.Config) *FetchService {
	timeout := time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second
	return &FetchService{
		config: cfg,
		client: NewRetryableHTTPClient(timeout, cfg.Retry),
		cache:  make(map[string]*cacheEntry),
	}
}

// FetchJSON fetches a URL and returns the raw JSON body.
func (f *FetchService) FetchJSON(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	merged := map[string]string{"Accept": "application/json"}
	for k, v := range headers {
		merged[k] = v
	}
	return f.fetch(ctx, url, merged)
}

// FetchText fetches a URL and returns the body as text.
func (f *FetchService) FetchText(ctx context.Context, url string, headers map[string]string) (string, error) {
	body, err := f.fetch(ctx, url, headers)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (f *FetchService) fetch(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	now := time.Now()

	f.mu.RLock()
	entry := f.cache[url]
	f.mu.RUnlock()

	if entry != nil && entry.fresh(now) {
		logger.Debug("Serving fresh cached response", "url", url)
		return entry.body, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.config.Fetch.UserAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if entry != nil && entry.etag != "" {
		req.Header.Set("If-None-Match", entry.etag)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("Failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode == http.StatusNotModified && entry != nil {
		logger.Debug("Revalidated cached response", "url", url)
		f.store(url, entry.body, resp.Header, entry.etag)
		return entry.body, nil
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("HTTP %d fetching %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.Fetch.MaxSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}

	f.store(url, body, resp.Header, resp.Header.Get("ETag"))
	return body, nil
}

// store caches the response when the server allows it. Cache bookkeeping
// never fails the fetch.
func (f *FetchService) store(url string, body []byte, header http.Header, etag string) {
	maxAge, cacheable := parseCacheControl(header.Get("Cache-Control"))
	if !cacheable && etag == "" {
		f.mu.Lock()
		delete(f.cache, url)
		f.mu.Unlock()
		return
	}

	f.mu.Lock()
	f.cache[url] = &cacheEntry{
		body:      body,
		etag:      etag,
		fetchedAt: time.Now(),
		maxAge:    maxAge,
	}
	f.mu.Unlock()
}

// parseCacheControl extracts the freshness window from a Cache-Control
// header. no-store and no-cache disable freshness-based reuse.
func parseCacheControl(value string) (time.Duration, bool) {
	if value == "" {
		return 0, false
	}
	var maxAge time.Duration
	cacheable := true
	for _, directive := range strings.Split(value, ",") {
		directive = strings.TrimSpace(strings.ToLower(directive))
		switch {
		case directive == "no-store":
			return 0, false
		case directive == "no-cache":
			cacheable = false
		case strings.HasPrefix(directive, "max-age="):
			if secs, err := strconv.Atoi(strings.TrimPrefix(directive, "max-age=")); err == nil && secs > 0 {
				maxAge = time.Duration(secs) * time.Second
			}
		}
	}
	if !cacheable {
		return 0, true
	}
	return maxAge, maxAge > 0
}

// CacheStats reports the current cache size, for diagnostics.
func (f *FetchService) CacheStats() map[string]any {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return map[string]any{"entries": len(f.cache)}
}

// ClearCache drops every cached response.
func (f *FetchService) ClearCache() {
	f.mu.Lock()
	f.cache = make(map[string]*cacheEntry)
	f.mu.Unlock()
}

var _ domain.FetchService = (*FetchService)(nil)
