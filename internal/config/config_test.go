// Indicium - Business Intelligence Analytics and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("server.port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server.host = %q", cfg.Server.Host)
	}
	if cfg.Server.Timeout != 30*time.Second {
		t.Errorf("server.timeout = %s", cfg.Server.Timeout)
	}
	if cfg.Database.MaxMemory != "1GB" {
		t.Errorf("database.max_memory = %q", cfg.Database.MaxMemory)
	}
	if cfg.Engine.StrongCorrelation != 0.7 {
		t.Errorf("engine.strong_correlation = %g", cfg.Engine.StrongCorrelation)
	}
	if cfg.Engine.MaxClusters != 5 {
		t.Errorf("engine.max_clusters = %d", cfg.Engine.MaxClusters)
	}
	if cfg.Engine.Seed != 42 {
		t.Errorf("engine.seed = %d", cfg.Engine.Seed)
	}
	if cfg.Security.AuthMode != AuthModeNone {
		t.Errorf("security.auth_mode = %q", cfg.Security.AuthMode)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "*" {
		t.Errorf("security.cors_origins = %v", cfg.Security.CORSOrigins)
	}
	if !cfg.IsDevelopment() {
		t.Error("default environment should be development")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("DATABASE_MAX_MEMORY", "512MB")
	t.Setenv("ENGINE_MAX_CLUSTERS", "3")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.MaxMemory != "512MB" {
		t.Errorf("database.max_memory = %q, want 512MB", cfg.Database.MaxMemory)
	}
	if cfg.Engine.MaxClusters != 3 {
		t.Errorf("engine.max_clusters = %d, want 3", cfg.Engine.MaxClusters)
	}
	if cfg.IsDevelopment() {
		t.Error("ENVIRONMENT=production should disable development mode")
	}
}

func TestLoadLegacyAliases(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DUCKDB_PATH", ":memory:")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090 from HTTP_PORT", cfg.Server.Port)
	}
	if cfg.Database.Path != ":memory:" {
		t.Errorf("database.path = %q, want :memory: from DUCKDB_PATH", cfg.Database.Path)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging.level = %q, want debug from LOG_LEVEL", cfg.Logging.Level)
	}
}

func TestLoadCORSOriginsFromEnv(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(cfg.Security.CORSOrigins) != 2 {
		t.Fatalf("cors_origins = %v, want 2 entries", cfg.Security.CORSOrigins)
	}
	if cfg.Security.CORSOrigins[0] != "https://a.example" || cfg.Security.CORSOrigins[1] != "https://b.example" {
		t.Errorf("cors_origins = %v", cfg.Security.CORSOrigins)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "server:\n  port: 7000\nengine:\n  seed: 7\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("server.port = %d, want 7000 from file", cfg.Server.Port)
	}
	if cfg.Engine.Seed != 7 {
		t.Errorf("engine.seed = %d, want 7 from file", cfg.Engine.Seed)
	}
}

func TestLoadEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 7000\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("SERVER_PORT", "7001")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7001 {
		t.Errorf("server.port = %d, want env override 7001", cfg.Server.Port)
	}
}

func TestLoadBasicAuthRequiresCredentials(t *testing.T) {
	t.Setenv("AUTH_MODE", "basic")

	if _, err := Load(); err == nil {
		t.Fatal("AUTH_MODE=basic without credentials should fail validation")
	}

	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "correct-horse")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Security.AuthMode != AuthModeBasic {
		t.Errorf("auth_mode = %q, want basic", cfg.Security.AuthMode)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config { return defaultConfig() }

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(c *Config) {}, ""},
		{"port too low", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"zero timeout", func(c *Config) { c.Server.Timeout = 0 }, "server.timeout"},
		{"empty db path", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"negative threads", func(c *Config) { c.Database.Threads = -1 }, "database.threads"},
		{"zero upload cap", func(c *Config) { c.Data.MaxUploadBytes = 0 }, "data.max_upload_bytes"},
		{"zero preview rows", func(c *Config) { c.Data.PreviewRows = 0 }, "data.preview_rows"},
		{"zero recommendation limit", func(c *Config) { c.Engine.RecommendationLimit = 0 }, "engine.recommendation_limit"},
		{"confidence above one", func(c *Config) { c.Engine.MinConfidence = 1.5 }, "engine.min_confidence"},
		{"zero correlation threshold", func(c *Config) { c.Engine.StrongCorrelation = 0 }, "engine.strong_correlation"},
		{"one cluster", func(c *Config) { c.Engine.MaxClusters = 1 }, "engine.max_clusters"},
		{"zero restarts", func(c *Config) { c.Engine.KMeansRestarts = 0 }, "engine.kmeans_restarts"},
		{"zero cache size", func(c *Config) { c.Engine.CacheSize = 0 }, "engine.cache_size"},
		{"unknown auth mode", func(c *Config) { c.Security.AuthMode = "oauth" }, "security.auth_mode"},
		{"short admin password", func(c *Config) {
			c.Security.AuthMode = AuthModeBasic
			c.Security.AdminUsername = "admin"
			c.Security.AdminPassword = "short"
		}, "admin_password"},
		{"zero rate limit", func(c *Config) { c.Security.RateLimitReqs = 0 }, "security.rate_limit_reqs"},
		{"zero rate window", func(c *Config) { c.Security.RateLimitWindow = 0 }, "security.rate_limit_window"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"SERVER_PORT", "server.port"},
		{"DATABASE_MAX_MEMORY", "database.max_memory"},
		{"ENGINE_RECOMMENDATION_LIMIT", "engine.recommendation_limit"},
		{"HTTP_PORT", "server.port"},
		{"LOG_LEVEL", "logging.level"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.key); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
