// Package store persists the three JSON corpora: scraped articles, FotMob
// matches and computed statistics. Two backends exist, a file store for
// the default local setup and a Postgres snapshot store. Both honor the
// same contract: saves are all-or-nothing, and loading an absent corpus
// yields an empty one, never an error.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/notesdureal/notes-data/internal/article"
	"github.com/notesdureal/notes-data/internal/fotmob"
	"github.com/notesdureal/notes-data/internal/stats"
)

// Corpus names double as file basenames and snapshot keys.
const (
	CorpusArticles = "data"
	CorpusMatches  = "fotmob_data"
	CorpusStats    = "stats"
)

// Store reads and writes raw corpus documents keyed by corpus name.
// Implementations return (nil, nil) when a corpus has never been saved.
type Store interface {
	Load(ctx context.Context, corpus string) ([]byte, error)
	Save(ctx context.Context, corpus string, data []byte) error
	Ping(ctx context.Context) error
	Close()
}

// --------------------------------------------------------------------------
// Typed access
// --------------------------------------------------------------------------

// LoadArticles decodes the article corpus, empty when absent.
func LoadArticles(ctx context.Context, s Store) ([]article.Article, error) {
	var out []article.Article
	if err := load(ctx, s, CorpusArticles, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveArticles encodes and persists the article corpus.
func SaveArticles(ctx context.Context, s Store, articles []article.Article) error {
	return save(ctx, s, CorpusArticles, articles)
}

// LoadMatches decodes the FotMob corpus, empty when absent.
func LoadMatches(ctx context.Context, s Store) ([]fotmob.Match, error) {
	var out []fotmob.Match
	if err := load(ctx, s, CorpusMatches, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveMatches encodes and persists the FotMob corpus.
func SaveMatches(ctx context.Context, s Store, matches []fotmob.Match) error {
	return save(ctx, s, CorpusMatches, matches)
}

// LoadStats decodes the computed statistics, empty when absent.
func LoadStats(ctx context.Context, s Store) ([]stats.PlayerStats, error) {
	var out []stats.PlayerStats
	if err := load(ctx, s, CorpusStats, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveStats encodes and persists the computed statistics.
func SaveStats(ctx context.Context, s Store, results []stats.PlayerStats) error {
	return save(ctx, s, CorpusStats, results)
}

func load(ctx context.Context, s Store, corpus string, v interface{}) error {
	data, err := s.Load(ctx, corpus)
	if err != nil {
		return fmt.Errorf("load %s: %w", corpus, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", corpus, err)
	}
	return nil
}

func save(ctx context.Context, s Store, corpus string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", corpus, err)
	}
	if err := s.Save(ctx, corpus, data); err != nil {
		return fmt.Errorf("save %s: %w", corpus, err)
	}
	return nil
}
