// Package fetch provides the shared page fetcher: disk-cached, retried,
// rate-limited HTTP GETs. Both source clients sit on top of it; the cache
// keeps recomputations from re-downloading a whole season.
package fetch

import (
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"
)

const (
	fetchRetries = 3
	fetchTimeout = 15 * time.Second
)

var defaultHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept-Language": "fr-FR,fr;q=0.9",
}

// Fetcher downloads pages with a disk cache, retries and rate limiting.
type Fetcher struct {
	httpClient *http.Client
	cacheDir   string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewFetcher creates a Fetcher caching under cacheDir.
func NewFetcher(cacheDir string, requestsPerMinute int, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	rps := float64(requestsPerMinute) / 60.0
	return &Fetcher{
		httpClient: &http.Client{Timeout: fetchTimeout},
		cacheDir:   cacheDir,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
	}
}

// Fetch returns the page body for url. With useCache, a cached copy is
// returned without touching the network. Returns ("", nil) on 404 — the
// page is gone, retrying is pointless.
func (f *Fetcher) Fetch(ctx context.Context, url string, useCache bool) (string, error) {
	if useCache {
		if cached, ok := f.loadCache(url); ok {
			f.logger.Debug("Cache hit", "url", url)
			return cached, nil
		}
	}

	var lastErr error
	for attempt := 1; attempt <= fetchRetries; attempt++ {
		if err := f.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}

		body, status, err := f.get(ctx, url)
		switch {
		case err != nil:
			lastErr = err
			f.logger.Warn("Request error", "url", url, "attempt", attempt, "retries", fetchRetries, "error", err)
		case status == http.StatusOK:
			f.saveCache(url, body)
			return body, nil
		case status == http.StatusNotFound:
			f.logger.Warn("404 Not Found", "url", url)
			return "", nil
		default:
			lastErr = fmt.Errorf("http %d for %s", status, url)
			f.logger.Warn("Unexpected status", "url", url, "status", status, "attempt", attempt, "retries", fetchRetries)
		}
	}

	return "", fmt.Errorf("fetch %s after %d attempts: %w", url, fetchRetries, lastErr)
}

func (f *Fetcher) get(ctx context.Context, url string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, fmt.Errorf("create request: %w", err)
	}
	for k, v := range defaultHeaders {
		req.Header.Set(k, v)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("read response body: %w", err)
	}
	return string(body), resp.StatusCode, nil
}

// --------------------------------------------------------------------------
// Disk cache
// --------------------------------------------------------------------------

func (f *Fetcher) cachePath(url string) string {
	return filepath.Join(f.cacheDir, fmt.Sprintf("%x.html", md5.Sum([]byte(url))))
}

func (f *Fetcher) loadCache(url string) (string, bool) {
	data, err := os.ReadFile(f.cachePath(url))
	if err != nil {
		return "", false
	}
	return string(data), true
}

func (f *Fetcher) saveCache(url, body string) {
	if err := os.MkdirAll(f.cacheDir, 0o755); err != nil {
		f.logger.Warn("Cache dir unavailable", "dir", f.cacheDir, "error", err)
		return
	}
	if err := os.WriteFile(f.cachePath(url), []byte(body), 0o644); err != nil {
		f.logger.Warn("Cache write failed", "url", url, "error", err)
	}
}
