// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/ingest.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Competition labels — single source of truth for the classifier and the API
// --------------------------------------------------------------------------

const (
	CompetitionLiga             = "Liga"
	CompetitionChampionsLeague  = "Ligue des Champions"
	CompetitionCopaDelRey       = "Coupe du Roi"
	CompetitionSupercopa        = "Supercoupe d'Espagne"
	CompetitionIntercontinental = "Coupe Intercontinentale"
	CompetitionFriendly         = "Amical"
)

// --------------------------------------------------------------------------
// Storage backends
// --------------------------------------------------------------------------

const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Club identity across both sources
	ClubName     string
	FotMobTeamID int
	SeasonStart  string // ISO date; articles and matches before it are ignored

	// Primary source
	SourceBaseURL  string
	SearchMaxPages int

	// Storage
	StorageBackend string // file or postgres
	OutputDir      string
	CacheDir       string
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// Scraping politeness
	FetchRequestsPerMinute  int
	FotMobRequestsPerMinute int

	// Name normalization
	AliasFile string // optional JSON override for the alias tables

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Cache
	CacheEnabled bool

	// Periodic stats recomputation inside the API process (0 disables)
	StatsRefresh time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
// DATABASE_URL is only required when STORAGE_BACKEND=postgres; the file
// backend needs nothing beyond a writable output directory.
func Load() (*Config, error) {
	return &Config{
		ClubName:     envOr("CLUB_NAME", "Real Madrid"),
		FotMobTeamID: envInt("FOTMOB_TEAM_ID", 8633),
		SeasonStart:  envOr("SEASON_START", "2025-08-01"),

		SourceBaseURL:  envOr("SOURCE_BASE_URL", "https://lejournaldureal.fr"),
		SearchMaxPages: envInt("SEARCH_MAX_PAGES", 20),

		StorageBackend: envOr("STORAGE_BACKEND", StorageFile),
		OutputDir:      envOr("OUTPUT_DIR", "output"),
		CacheDir:       envOr("CACHE_DIR", "cache"),
		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		FetchRequestsPerMinute:  envInt("FETCH_REQUESTS_PER_MINUTE", 40),
		FotMobRequestsPerMinute: envInt("FOTMOB_REQUESTS_PER_MINUTE", 30),

		AliasFile: envOr("ALIAS_FILE", ""),

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://localhost:8501",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),

		StatsRefresh: time.Duration(envInt("STATS_REFRESH_MINUTES", 0)) * time.Minute,
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
