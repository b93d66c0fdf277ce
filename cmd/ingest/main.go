// Command ingest is the ratings ingestion CLI.
//
// Usage:
//
//	notes-ingest scrape
//	notes-ingest scrape --hard
//	notes-ingest fotmob
//	notes-ingest stats compute
//	notes-ingest stats show --top 10 --min-matchs 3
//	notes-ingest stats show --joueur "Vinicius Jr" --competition "Liga"
//	notes-ingest players
//	notes-ingest competitions
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/notesdureal/notes-data/internal/article"
	"github.com/notesdureal/notes-data/internal/config"
	"github.com/notesdureal/notes-data/internal/fetch"
	"github.com/notesdureal/notes-data/internal/fotmob"
	"github.com/notesdureal/notes-data/internal/name"
	"github.com/notesdureal/notes-data/internal/scrape"
	"github.com/notesdureal/notes-data/internal/stats"
	"github.com/notesdureal/notes-data/internal/store"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "notes-ingest",
		Short: "Player ratings ingestion CLI",
	}

	root.AddCommand(scrapeCmd())
	root.AddCommand(fotmobCmd())
	root.AddCommand(statsCmd())
	root.AddCommand(playersCmd())
	root.AddCommand(competitionsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// scrape command
// --------------------------------------------------------------------------

func scrapeCmd() *cobra.Command {
	var hard bool
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape ratings articles from the primary source",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(func(ctx context.Context, cfg *config.Config, s store.Store, names *name.Normalizer) error {
				existing, err := store.LoadArticles(ctx, s)
				if err != nil {
					return err
				}

				fetcher := fetch.NewFetcher(cfg.CacheDir, cfg.FetchRequestsPerMinute, logger)
				enum := scrape.NewEnumerator(fetcher, cfg.SourceBaseURL, cfg.SeasonStart, cfg.SearchMaxPages, logger)
				parser := article.NewParser(names, cfg.ClubName, logger)
				pipeline := scrape.NewPipeline(enum, fetcher, parser, logger)

				start := time.Now()
				articles, result, err := pipeline.Run(ctx, existing, hard)
				if err != nil {
					return err
				}
				logger.Info("Scrape finished", "duration", time.Since(start).Round(time.Second), "summary", result.Summary())
				for _, e := range result.Errors {
					logger.Error("scrape error", "error", e)
				}

				if err := store.SaveArticles(ctx, s, articles); err != nil {
					return err
				}
				return recomputeStats(ctx, s, names)
			})
		},
	}
	cmd.Flags().BoolVar(&hard, "hard", false, "Re-fetch and re-parse every article, bypassing the page cache")
	return cmd
}

// --------------------------------------------------------------------------
// fotmob command
// --------------------------------------------------------------------------

func fotmobCmd() *cobra.Command {
	var hard bool
	cmd := &cobra.Command{
		Use:   "fotmob",
		Short: "Fetch match ratings and stats from FotMob",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(func(ctx context.Context, cfg *config.Config, s store.Store, names *name.Normalizer) error {
				fetcher := fetch.NewFetcher(cfg.CacheDir, cfg.FotMobRequestsPerMinute, logger)
				client := fotmob.NewClient(fetcher, names, cfg.FotMobTeamID, cfg.SeasonStart, logger)

				start := time.Now()
				matches, err := client.Matches(ctx, !hard)
				if err != nil {
					return err
				}
				logger.Info("FotMob fetch finished", "duration", time.Since(start).Round(time.Second), "matches", len(matches))

				if err := store.SaveMatches(ctx, s, matches); err != nil {
					return err
				}
				return recomputeStats(ctx, s, names)
			})
		},
	}
	cmd.Flags().BoolVar(&hard, "hard", false, "Re-fetch every match page, bypassing the page cache")
	return cmd
}

// --------------------------------------------------------------------------
// stats command
// --------------------------------------------------------------------------

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Compute and inspect player statistics",
	}
	cmd.AddCommand(statsComputeCmd())
	cmd.AddCommand(statsShowCmd())
	return cmd
}

func statsComputeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compute",
		Short: "Recompute statistics from the stored corpora",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(func(ctx context.Context, cfg *config.Config, s store.Store, names *name.Normalizer) error {
				return recomputeStats(ctx, s, names)
			})
		},
	}
}

func statsShowCmd() *cobra.Command {
	var (
		joueur      string
		competition string
		top         int
		minMatchs   int
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the player ranking",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(func(ctx context.Context, cfg *config.Config, s store.Store, names *name.Normalizer) error {
				var results []stats.PlayerStats
				var err error
				if competition != "" || joueur != "" {
					articles, lerr := store.LoadArticles(ctx, s)
					if lerr != nil {
						return lerr
					}
					matches, lerr := store.LoadMatches(ctx, s)
					if lerr != nil {
						return lerr
					}
					results = stats.Compute(articles, matches, stats.Options{
						Competition: competition,
						Player:      names.Normalize(joueur),
					}, names, logger)
				} else {
					results, err = store.LoadStats(ctx, s)
					if err != nil {
						return err
					}
				}

				results = stats.MinMatches(results, minMatchs)
				if top > 0 && top < len(results) {
					results = results[:top]
				}
				if len(results) == 0 {
					fmt.Println("Aucune statistique disponible.")
					return nil
				}

				fmt.Printf("%-3s %-25s %7s %7s %7s %5s %6s\n",
					"#", "Joueur", "Moy.", "JdR", "FotMob", "MJ", "Ecart")
				for i, r := range results {
					fmt.Printf("%-3d %-25s %7.2f %7.2f %7.2f %5d %6.2f\n",
						i+1, r.PlayerName, r.MoyenneGlobale, r.MoyenneArticle, r.MoyenneFotMob,
						r.NbMatchs, r.EcartType)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&joueur, "joueur", "", "Filter by player name (aliases resolve)")
	cmd.Flags().StringVar(&competition, "competition", "", "Filter by competition label")
	cmd.Flags().IntVar(&top, "top", 0, "Show only the first N players")
	cmd.Flags().IntVar(&minMatchs, "min-matchs", 0, "Require at least N rated matches")
	return cmd
}

// --------------------------------------------------------------------------
// players / competitions commands
// --------------------------------------------------------------------------

func playersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "players",
		Short: "List canonical players in the statistics corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(func(ctx context.Context, cfg *config.Config, s store.Store, names *name.Normalizer) error {
				results, err := store.LoadStats(ctx, s)
				if err != nil {
					return err
				}
				players := make([]string, 0, len(results))
				for _, r := range results {
					players = append(players, r.PlayerName)
				}
				sort.Strings(players)
				for _, p := range players {
					fmt.Println(p)
				}
				return nil
			})
		},
	}
}

func competitionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "competitions",
		Short: "List competitions in the article corpus with match counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(func(ctx context.Context, cfg *config.Config, s store.Store, names *name.Normalizer) error {
				articles, err := store.LoadArticles(ctx, s)
				if err != nil {
					return err
				}
				counts := stats.Competitions(articles)
				labels := make([]string, 0, len(counts))
				for label := range counts {
					labels = append(labels, label)
				}
				sort.Strings(labels)
				for _, label := range labels {
					fmt.Printf("%-30s %d\n", label, counts[label])
				}
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// recomputeStats rebuilds the statistics corpus from the stored articles
// and matches. Every corpus mutation ends here, so the stored statistics
// are never stale relative to the corpora.
func recomputeStats(ctx context.Context, s store.Store, names *name.Normalizer) error {
	articles, err := store.LoadArticles(ctx, s)
	if err != nil {
		return err
	}
	matches, err := store.LoadMatches(ctx, s)
	if err != nil {
		return err
	}
	results := stats.Compute(articles, matches, stats.Options{}, names, logger)
	if err := store.SaveStats(ctx, s, results); err != nil {
		return err
	}
	logger.Info("Statistics recomputed", "players", len(results), "articles", len(articles), "fotmob_matches", len(matches))
	return nil
}

// runIngest handles config loading, store selection, name tables, and
// context cancellation.
func runIngest(fn func(ctx context.Context, cfg *config.Config, s store.Store, names *name.Normalizer) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	tables := name.DefaultTables()
	if cfg.AliasFile != "" {
		tables, err = name.LoadTables(cfg.AliasFile)
		if err != nil {
			return fmt.Errorf("load alias file: %w", err)
		}
	}
	names := name.New(tables)

	s, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	return fn(ctx, cfg, s, names)
}
