// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

package config

import (
	"fmt"
)

// minJWTSecretLength is the minimum length for the HS256 signing secret.
const minJWTSecretLength = 32

// Validate checks the configuration for invalid or inconsistent values.
// It is called by Load() and may be called directly on hand-built configs
// in tests.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d is out of range (1-65535)", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server timeout must be positive, got %s", c.Server.Timeout)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	if len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters, got %d", minJWTSecretLength, len(c.Security.JWTSecret))
	}
	if c.Security.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive, got %s", c.Security.TokenTTL)
	}
	if c.Security.BcryptCost < 10 || c.Security.BcryptCost > 31 {
		return fmt.Errorf("bcrypt cost %d is out of range (10-31)", c.Security.BcryptCost)
	}

	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("default page size must be at least 1, got %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("max page size %d is smaller than default page size %d",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}

	if err := c.validateFeed(); err != nil {
		return err
	}

	if c.Media.Path == "" {
		return fmt.Errorf("media path is required")
	}
	if c.Media.MaxUploadBytes <= 0 {
		return fmt.Errorf("media max upload bytes must be positive, got %d", c.Media.MaxUploadBytes)
	}

	return nil
}

// validateFeed checks the feed composition parameters.
func (c *Config) validateFeed() error {
	ratios := []struct {
		name  string
		value float64
	}{
		{"followed_ratio", c.Feed.FollowedRatio},
		{"second_degree_ratio", c.Feed.SecondDegreeRatio},
		{"organization_ratio", c.Feed.OrganizationRatio},
	}
	for _, r := range ratios {
		if r.value < 0 || r.value > 1 {
			return fmt.Errorf("feed %s %.2f is out of range (0-1)", r.name, r.value)
		}
	}

	sum := c.Feed.FollowedRatio + c.Feed.SecondDegreeRatio + c.Feed.OrganizationRatio
	if sum > 1 {
		return fmt.Errorf("feed ratios sum to %.2f, must not exceed 1", sum)
	}

	if c.Feed.MaxPostsPerAuthor < 1 {
		return fmt.Errorf("feed max posts per author must be at least 1, got %d", c.Feed.MaxPostsPerAuthor)
	}
	if c.Feed.MaxOrganizations < 0 {
		return fmt.Errorf("feed max organizations must not be negative, got %d", c.Feed.MaxOrganizations)
	}
	if c.Feed.FetchTimeout <= 0 {
		return fmt.Errorf("feed fetch timeout must be positive, got %s", c.Feed.FetchTimeout)
	}

	return nil
}
