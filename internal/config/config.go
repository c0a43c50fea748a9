// Indicium - Business Intelligence Analytics and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration loaded from environment variables and config files.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting
//
// Configuration Categories:
//
//  1. Infrastructure:
//     - Database: DuckDB configuration (path, memory, threads)
//     - Server: HTTP server configuration (port, host, timeouts)
//
//  2. Data & Analysis:
//     - Data: Dataset directory, upload limits, preview size
//     - Engine: Recommendation and analysis tuning (limits, thresholds, cache)
//
//  3. API & Security:
//     - Security: Authentication, rate limiting, CORS
//
//  4. Observability:
//     - Logging: Log levels and output formats
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access from
// multiple goroutines.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Data     DataConfig     `koanf:"data"`
	Engine   EngineConfig   `koanf:"engine"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - SERVER_HOST: Bind address (default: 0.0.0.0)
//   - SERVER_PORT: Listen port (default: 5000)
//   - SERVER_TIMEOUT: Read/write timeout (default: 30s)
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development or production
}

// DatabaseConfig holds DuckDB settings for the dataset store.
//
// Environment Variables:
//   - DATABASE_PATH: DuckDB file path, or :memory: (default: /data/indicium.duckdb)
//   - DATABASE_MAX_MEMORY: DuckDB memory limit (default: 1GB)
//   - DATABASE_THREADS: DuckDB threads, 0 = NumCPU (default: 0)
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`
}

// DataConfig holds dataset ingestion settings.
//
// Environment Variables:
//   - DATA_DIR: Directory searched for sample CSV files (default: ./data)
//   - DATA_MAX_UPLOAD_BYTES: CSV upload size cap (default: 8 MiB)
//   - DATA_PREVIEW_ROWS: Rows returned in dataset previews (default: 20)
type DataConfig struct {
	Dir            string `koanf:"dir"`
	MaxUploadBytes int64  `koanf:"max_upload_bytes"`
	PreviewRows    int    `koanf:"preview_rows"`
}

// EngineConfig holds analysis and recommendation tuning.
//
// Environment Variables:
//   - ENGINE_RECOMMENDATION_LIMIT: Max cards per response (default: 10)
//   - ENGINE_MIN_CONFIDENCE: Default confidence floor (default: 0)
//   - ENGINE_CACHE_TTL: Recommendation cache TTL (default: 5m)
//   - ENGINE_CACHE_SIZE: Recommendation cache entries (default: 100)
//   - ENGINE_STRONG_CORRELATION: |r| threshold for strong pairs (default: 0.7)
//   - ENGINE_MAX_CLUSTERS: Upper bound on k-means sweep (default: 5)
//   - ENGINE_KMEANS_RESTARTS: Restarts per k, lowest inertia wins (default: 10)
//   - ENGINE_SEED: RNG seed for sampling and clustering (default: 42)
type EngineConfig struct {
	RecommendationLimit int           `koanf:"recommendation_limit"`
	MinConfidence       float64       `koanf:"min_confidence"`
	CacheTTL            time.Duration `koanf:"cache_ttl"`
	CacheSize           int           `koanf:"cache_size"`
	StrongCorrelation   float64       `koanf:"strong_correlation"`
	MaxClusters         int           `koanf:"max_clusters"`
	KMeansRestarts      int           `koanf:"kmeans_restarts"`
	Seed                int64         `koanf:"seed"`
}

// Supported authentication modes.
const (
	AuthModeNone  = "none"
	AuthModeBasic = "basic"
)

// SecurityConfig holds authentication and rate limiting settings.
//
// Environment Variables:
//   - AUTH_MODE: none or basic (default: none)
//   - ADMIN_USERNAME / ADMIN_PASSWORD: Required when AUTH_MODE=basic
//   - RATE_LIMIT_REQS / RATE_LIMIT_WINDOW: Request budget per client IP
//   - CORS_ORIGINS: Comma-separated allowed origins (default: *)
type SecurityConfig struct {
	AuthMode        string        `koanf:"auth_mode"`
	AdminUsername   string        `koanf:"admin_username"`
	AdminPassword   string        `koanf:"admin_password"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment != "production"
}

// Validate checks the configuration for invalid or inconsistent values.
// It is called by Load() after all sources have been merged.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("database.threads must not be negative, got %d", c.Database.Threads)
	}

	if c.Data.MaxUploadBytes <= 0 {
		return fmt.Errorf("data.max_upload_bytes must be positive, got %d", c.Data.MaxUploadBytes)
	}
	if c.Data.PreviewRows < 1 {
		return fmt.Errorf("data.preview_rows must be at least 1, got %d", c.Data.PreviewRows)
	}

	if c.Engine.RecommendationLimit < 1 {
		return fmt.Errorf("engine.recommendation_limit must be at least 1, got %d", c.Engine.RecommendationLimit)
	}
	if c.Engine.MinConfidence < 0 || c.Engine.MinConfidence > 1 {
		return fmt.Errorf("engine.min_confidence must be within [0,1], got %g", c.Engine.MinConfidence)
	}
	if c.Engine.StrongCorrelation <= 0 || c.Engine.StrongCorrelation > 1 {
		return fmt.Errorf("engine.strong_correlation must be within (0,1], got %g", c.Engine.StrongCorrelation)
	}
	if c.Engine.MaxClusters < 2 {
		return fmt.Errorf("engine.max_clusters must be at least 2, got %d", c.Engine.MaxClusters)
	}
	if c.Engine.KMeansRestarts < 1 {
		return fmt.Errorf("engine.kmeans_restarts must be at least 1, got %d", c.Engine.KMeansRestarts)
	}
	if c.Engine.CacheSize < 1 {
		return fmt.Errorf("engine.cache_size must be at least 1, got %d", c.Engine.CacheSize)
	}

	switch c.Security.AuthMode {
	case AuthModeNone:
		// Explicitly allowed; the server logs a warning at startup.
	case AuthModeBasic:
		if c.Security.AdminUsername == "" || c.Security.AdminPassword == "" {
			return fmt.Errorf("security.auth_mode=basic requires admin_username and admin_password")
		}
		if len(c.Security.AdminPassword) < 8 {
			return fmt.Errorf("security.admin_password must be at least 8 characters")
		}
	default:
		return fmt.Errorf("security.auth_mode must be none or basic, got %q", c.Security.AuthMode)
	}

	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("security.rate_limit_reqs must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("security.rate_limit_window must be positive, got %s", c.Security.RateLimitWindow)
	}

	return nil
}
