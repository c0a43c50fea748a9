// Indicium - Business Intelligence Analytics and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/indicium/config.yaml",
	"/etc/indicium/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        5000,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Database: DatabaseConfig{
			Path:      "/data/indicium.duckdb",
			MaxMemory: "1GB",
			Threads:   0, // 0 = use runtime.NumCPU()
		},
		Data: DataConfig{
			Dir:            "./data",
			MaxUploadBytes: 8 << 20, // 8 MiB
			PreviewRows:    20,
		},
		Engine: EngineConfig{
			RecommendationLimit: 10,
			MinConfidence:       0.0,
			CacheTTL:            5 * time.Minute,
			CacheSize:           100,
			StrongCorrelation:   0.7,
			MaxClusters:         5,
			KMeansRestarts:      10,
			Seed:                42,
		},
		Security: SecurityConfig{
			AuthMode:        "none",
			AdminUsername:   "",
			AdminPassword:   "",
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// This provides:
//   - Type-safe configuration unmarshaling
//   - Clear precedence: ENV > File > Defaults
//   - Support for nested configuration via koanf struct tags
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// This is necessary because env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML file or defaults)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envAliases maps flat legacy environment variable names to nested config paths.
// Kept for compatibility with existing deployments.
var envAliases = map[string]string{
	"HTTP_PORT":         "server.port",
	"HTTP_HOST":         "server.host",
	"ENVIRONMENT":       "server.environment",
	"DUCKDB_PATH":       "database.path",
	"AUTH_MODE":         "security.auth_mode",
	"ADMIN_USERNAME":    "security.admin_username",
	"ADMIN_PASSWORD":    "security.admin_password",
	"RATE_LIMIT_REQS":   "security.rate_limit_reqs",
	"RATE_LIMIT_WINDOW": "security.rate_limit_window",
	"CORS_ORIGINS":      "security.cors_origins",
	"LOG_LEVEL":         "logging.level",
	"LOG_FORMAT":        "logging.format",
	"LOG_CALLER":        "logging.caller",
}

// sectionPrefixes are the config sections recognized in structured env names.
// SERVER_PORT -> server.port, ENGINE_MAX_CLUSTERS -> engine.max_clusters.
var sectionPrefixes = []string{"server", "database", "data", "engine", "security", "logging"}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unrecognized variables are dropped by returning an empty string.
//
// Examples:
//   - SERVER_PORT -> server.port
//   - DATABASE_MAX_MEMORY -> database.max_memory
//   - ENGINE_RECOMMENDATION_LIMIT -> engine.recommendation_limit
//   - LOG_LEVEL -> logging.level (legacy alias)
func envTransformFunc(key string) string {
	if path, ok := envAliases[key]; ok {
		return path
	}

	lower := strings.ToLower(key)
	for _, prefix := range sectionPrefixes {
		if strings.HasPrefix(lower, prefix+"_") {
			return prefix + "." + strings.TrimPrefix(lower, prefix+"_")
		}
	}

	return ""
}
