package scrape

import (
	"context"
	"log/slog"
	"sort"

	"github.com/notesdureal/notes-data/internal/article"
	"github.com/notesdureal/notes-data/internal/fetch"
)

// Pipeline runs one scrape: discover candidates, fetch and parse the ones
// missing from the corpus, and merge.
type Pipeline struct {
	enum    *Enumerator
	fetcher *fetch.Fetcher
	parser  *article.Parser
	logger  *slog.Logger
}

// NewPipeline wires a Pipeline from its parts.
func NewPipeline(enum *Enumerator, fetcher *fetch.Fetcher, parser *article.Parser, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{enum: enum, fetcher: fetcher, parser: parser, logger: logger}
}

// Run scrapes the primary source and returns the merged corpus. In the
// default incremental mode, URLs already present in the corpus are kept as
// stored; hard mode re-fetches and re-parses everything, bypassing the
// page cache, so alias and parser fixes reach historical entries.
// Articles that fetch empty or parse to zero players are dropped from the
// merged corpus.
func (p *Pipeline) Run(ctx context.Context, existing []article.Article, hard bool) ([]article.Article, *Result, error) {
	useCache := !hard

	candidates, err := p.enum.Discover(ctx, useCache)
	if err != nil {
		return nil, nil, err
	}

	result := &Result{Discovered: len(candidates)}

	known := make(map[string]article.Article, len(existing))
	for _, a := range existing {
		known[a.URL] = a
	}

	seen := make(map[string]bool, len(candidates))
	var merged []article.Article
	for _, c := range candidates {
		seen[c.URL] = true

		if !hard {
			if a, ok := known[c.URL]; ok {
				merged = append(merged, a)
				continue
			}
		}

		html, err := p.fetcher.Fetch(ctx, c.URL, useCache)
		if err != nil {
			result.AddErrorf("fetch %s: %v", c.URL, err)
			continue
		}
		if html == "" {
			result.Skipped++
			continue
		}
		result.Fetched++

		a, ok := p.parser.Parse(c.URL, html, c.Date)
		if !ok {
			p.logger.Info("No ratings in article, skipping", "url", c.URL)
			result.Skipped++
			continue
		}
		result.Parsed++
		merged = append(merged, *a)
	}

	// Corpus entries the search no longer surfaces stay: pagination only
	// reaches so far back.
	for _, a := range existing {
		if !seen[a.URL] {
			merged = append(merged, a)
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Date != merged[j].Date {
			return merged[i].Date > merged[j].Date
		}
		return merged[i].URL < merged[j].URL
	})

	p.logger.Info("Scrape finished", "summary", result.Summary(), "corpus_size", len(merged))
	return merged, result, nil
}
