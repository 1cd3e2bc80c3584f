// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration loaded from environment variables
// and an optional config file.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in sensible defaults for all optional settings
//  2. Config File: optional YAML config file (config.yaml)
//  3. Environment Variables: override any setting
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	API      APIConfig      `koanf:"api"`
	Feed     FeedConfig     `koanf:"feed"`
	Media    MediaConfig    `koanf:"media"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the listen address (default 0.0.0.0).
	Host string `koanf:"host"`

	// Port is the listen port (default 8080).
	Port int `koanf:"port"`

	// Timeout applies to both read and write on inbound connections.
	Timeout time.Duration `koanf:"timeout"`

	// Environment is "development" or "production". Controls warning
	// behaviour for insecure settings.
	Environment string `koanf:"environment"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	// Path is the SQLite database file path. ":memory:" is accepted for tests.
	Path string `koanf:"path"`

	// BusyTimeout is the SQLite busy_timeout pragma value.
	BusyTimeout time.Duration `koanf:"busy_timeout"`
}

// SecurityConfig holds authentication and transport-safety settings.
type SecurityConfig struct {
	// JWTSecret signs bearer tokens (HS256). Minimum 32 characters.
	JWTSecret string `koanf:"jwt_secret"`

	// TokenTTL is the bearer token lifetime.
	TokenTTL time.Duration `koanf:"token_ttl"`

	// BcryptCost is the bcrypt work factor for password hashing.
	BcryptCost int `koanf:"bcrypt_cost"`

	// RateLimitReqs is the allowed request count per RateLimitWindow per client IP.
	RateLimitReqs int `koanf:"rate_limit_reqs"`

	// RateLimitWindow is the rate limiting window.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// LoginRateLimitReqs is the stricter budget applied to POST /auth/login.
	LoginRateLimitReqs int `koanf:"login_rate_limit_reqs"`

	// LoginRateLimitWindow is the window for the login limiter.
	LoginRateLimitWindow time.Duration `koanf:"login_rate_limit_window"`

	// CORSOrigins lists allowed CORS origins. Default ["*"].
	CORSOrigins []string `koanf:"cors_origins"`
}

// APIConfig holds pagination and response limits.
type APIConfig struct {
	// DefaultPageSize is used when a request omits the size parameter.
	DefaultPageSize int `koanf:"default_page_size"`

	// MaxPageSize caps the size parameter on all paged endpoints.
	MaxPageSize int `koanf:"max_page_size"`

	// ProductCacheTTL controls the marketplace listing response cache.
	ProductCacheTTL time.Duration `koanf:"product_cache_ttl"`
}

// FeedConfig holds feed composition ratios and caps.
// The zero value is invalid; defaults are applied by Load().
type FeedConfig struct {
	// FollowedRatio is the share of the page reserved for directly
	// followed profiles.
	FollowedRatio float64 `koanf:"followed_ratio"`

	// SecondDegreeRatio is the share reserved for second-degree connections.
	SecondDegreeRatio float64 `koanf:"second_degree_ratio"`

	// OrganizationRatio is the share reserved for organization profiles.
	OrganizationRatio float64 `koanf:"organization_ratio"`

	// MaxPostsPerAuthor caps how many posts one author may occupy within
	// the followed-profiles pass.
	MaxPostsPerAuthor int `koanf:"max_posts_per_author"`

	// MaxOrganizations caps how many organization profiles are sampled.
	MaxOrganizations int `koanf:"max_organizations"`

	// FetchTimeout is the per-fetch deadline applied to each data source call.
	FetchTimeout time.Duration `koanf:"fetch_timeout"`
}

// MediaConfig holds object-store settings for post and avatar images.
type MediaConfig struct {
	// Path is the root directory of the local object store.
	Path string `koanf:"path"`

	// MaxUploadBytes caps multipart upload size.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// BreakerMaxFailures trips the circuit breaker after this many
	// consecutive store failures.
	BreakerMaxFailures uint32 `koanf:"breaker_max_failures"`

	// BreakerCooldown is how long the breaker stays open before probing.
	BreakerCooldown time.Duration `koanf:"breaker_cooldown"`
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

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
