// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

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

// DefaultConfigPaths lists the paths where config files are searched in order
// of priority. The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/mural/config.yaml",
	"/etc/mural/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all default values. These are applied
// first, then overridden by the config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Database: DatabaseConfig{
			Path:        "/data/mural.db",
			BusyTimeout: 5 * time.Second,
		},
		Security: SecurityConfig{
			JWTSecret:            "",
			TokenTTL:             24 * time.Hour,
			BcryptCost:           12,
			RateLimitReqs:        100,
			RateLimitWindow:      1 * time.Minute,
			LoginRateLimitReqs:   5,
			LoginRateLimitWindow: 5 * time.Minute,
			CORSOrigins:          []string{"*"},
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
			ProductCacheTTL: 1 * time.Minute,
		},
		Feed: FeedConfig{
			FollowedRatio:     0.3,
			SecondDegreeRatio: 0.2,
			OrganizationRatio: 0.3,
			MaxPostsPerAuthor: 3,
			MaxOrganizations:  5,
			FetchTimeout:      5 * time.Second,
		},
		Media: MediaConfig{
			Path:               "/data/media",
			MaxUploadBytes:     10 << 20, // 10MB
			BreakerMaxFailures: 5,
			BreakerCooldown:    30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML config file,
// and environment variables (highest priority), then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// CORS_ORIGINS arrives as a comma-separated string from the environment.
	if origins := k.String("security.cors_origins"); origins != "" && strings.Contains(origins, ",") {
		parts := strings.Split(origins, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if err := k.Set("security.cors_origins", parts); err != nil {
			return nil, fmt.Errorf("failed to split cors origins: %w", err)
		}
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

// findConfigFile returns the path of the first existing config file,
// or empty string if none is found.
func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransformFunc maps environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - JWT_SECRET -> security.jwt_secret
//   - DATABASE_PATH -> database.path
//   - FEED_FOLLOWED_RATIO -> feed.followed_ratio
//
// Unknown variables are dropped so unrelated environment noise cannot
// leak into the configuration.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server
		"http_host":   "server.host",
		"http_port":   "server.port",
		"environment": "server.environment",

		// Database
		"database_path":         "database.path",
		"database_busy_timeout": "database.busy_timeout",

		// Security
		"jwt_secret":              "security.jwt_secret",
		"token_ttl":               "security.token_ttl",
		"bcrypt_cost":             "security.bcrypt_cost",
		"rate_limit_reqs":         "security.rate_limit_reqs",
		"rate_limit_window":       "security.rate_limit_window",
		"login_rate_limit_reqs":   "security.login_rate_limit_reqs",
		"login_rate_limit_window": "security.login_rate_limit_window",
		"cors_origins":            "security.cors_origins",

		// API
		"api_default_page_size": "api.default_page_size",
		"api_max_page_size":     "api.max_page_size",
		"product_cache_ttl":     "api.product_cache_ttl",

		// Feed
		"feed_followed_ratio":        "feed.followed_ratio",
		"feed_second_degree_ratio":   "feed.second_degree_ratio",
		"feed_organization_ratio":    "feed.organization_ratio",
		"feed_max_posts_per_author":  "feed.max_posts_per_author",
		"feed_max_organizations":     "feed.max_organizations",
		"feed_fetch_timeout":         "feed.fetch_timeout",

		// Media
		"media_path":                 "media.path",
		"media_max_upload_bytes":     "media.max_upload_bytes",
		"media_breaker_max_failures": "media.breaker_max_failures",
		"media_breaker_cooldown":     "media.breaker_cooldown",

		// Logging
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if path, ok := envMappings[key]; ok {
		return path
	}
	return ""
}
