// Package scrape enumerates ratings articles on the primary source: it
// walks the search pagination, keeps in-season candidates and carries the
// per-run counters.
package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"time"

	"github.com/notesdureal/notes-data/internal/fetch"
)

// Ratings article slugs always contain "note" (notes-du-match, les-notes,
// note-du-match, ...) and the path carries the publication date.
var slugRe = regexp.MustCompile(`(?i)href="(/(\d{4})/(\d{2})/(\d{2})/([^"]*note[^"]*?))"`)

var dateInURLRe = regexp.MustCompile(`/(\d{4})/(\d{2})/(\d{2})/`)

// Candidate is a discovered article URL with its publication date.
type Candidate struct {
	URL  string
	Date string // ISO 8601 (YYYY-MM-DD)
}

// Enumerator walks the primary source's search pages and yields candidate
// ratings-article URLs for the current season.
type Enumerator struct {
	fetcher     *fetch.Fetcher
	baseURL     string
	seasonStart string
	maxPages    int
	logger      *slog.Logger
}

// NewEnumerator creates an Enumerator. seasonStart is the ISO date before
// which articles are ignored.
func NewEnumerator(fetcher *fetch.Fetcher, baseURL, seasonStart string, maxPages int, logger *slog.Logger) *Enumerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enumerator{
		fetcher:     fetcher,
		baseURL:     baseURL,
		seasonStart: seasonStart,
		maxPages:    maxPages,
		logger:      logger,
	}
}

// Discover scans the search pages and returns in-season candidates sorted
// by date descending. Scanning stops early once a page (past the first)
// yields no in-season article — the pagination is reverse-chronological, so
// everything after it predates the season.
func (e *Enumerator) Discover(ctx context.Context, useCache bool) ([]Candidate, error) {
	found := map[string]string{} // url -> date

	for page := 1; page <= e.maxPages; page++ {
		url := fmt.Sprintf("%s/search?q=note&page=%d", e.baseURL, page)
		e.logger.Info("Scanning search page", "page", page, "url", url)

		html, err := e.fetcher.Fetch(ctx, url, useCache)
		if err != nil {
			return nil, fmt.Errorf("search page %d: %w", page, err)
		}
		if html == "" {
			e.logger.Warn("Empty search page, stopping", "page", page)
			break
		}

		matches := slugRe.FindAllStringSubmatch(html, -1)
		if len(matches) == 0 {
			e.logger.Info("No articles on page, stopping", "page", page)
			break
		}

		pageHasRecent := false
		for _, m := range matches {
			date := fmt.Sprintf("%s-%s-%s", m[2], m[3], m[4])
			if !validDate(date) {
				continue
			}
			if date >= e.seasonStart {
				pageHasRecent = true
				if _, known := found[e.baseURL+m[1]]; !known {
					found[e.baseURL+m[1]] = date
					e.logger.Info("Found article", "slug", m[5], "date", date)
				}
			}
		}

		// A page with zero in-season articles means the search has walked
		// past the season start.
		if !pageHasRecent && page > 1 {
			e.logger.Info("No recent articles, stopping search", "page", page)
			break
		}
	}

	candidates := make([]Candidate, 0, len(found))
	for url, date := range found {
		candidates = append(candidates, Candidate{URL: url, Date: date})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Date != candidates[j].Date {
			return candidates[i].Date > candidates[j].Date
		}
		return candidates[i].URL < candidates[j].URL
	})

	e.logger.Info("Total articles discovered", "count", len(candidates))
	return candidates, nil
}

// DateFromURL extracts the ISO publication date embedded in an article URL,
// or "" if the URL carries none.
func DateFromURL(url string) string {
	m := dateInURLRe.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3])
}

func validDate(iso string) bool {
	_, err := time.Parse("2006-01-02", iso)
	return err == nil
}
