// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

package feed

import (
	"fmt"
	"time"
)

// Config controls feed composition: how the page budget is split across
// candidate sources and how aggressively single authors are capped.
type Config struct {
	// FollowedRatio is the share of the page size fetched from directly
	// followed profiles.
	FollowedRatio float64

	// SecondDegreeRatio is the share fetched from second-degree connections.
	SecondDegreeRatio float64

	// OrganizationRatio is the share fetched from organization profiles.
	OrganizationRatio float64

	// MaxPostsPerAuthor caps how many posts a single author may occupy
	// within the followed-profiles pass. Prevents one prolific account
	// from monopolizing the followed slice.
	MaxPostsPerAuthor int

	// MaxOrganizations caps how many organization profiles are sampled.
	MaxOrganizations int

	// FetchTimeout is the deadline applied to each individual data source
	// call. A fetch exceeding it fails the whole request; empty results
	// merely shrink the feed.
	FetchTimeout time.Duration
}

// DefaultConfig returns the production feed composition parameters.
func DefaultConfig() Config {
	return Config{
		FollowedRatio:     0.3,
		SecondDegreeRatio: 0.2,
		OrganizationRatio: 0.3,
		MaxPostsPerAuthor: 3,
		MaxOrganizations:  5,
		FetchTimeout:      5 * time.Second,
	}
}

// Validate checks the configuration for out-of-range values.
func (c Config) Validate() error {
	ratios := []struct {
		name  string
		value float64
	}{
		{"followed ratio", c.FollowedRatio},
		{"second-degree ratio", c.SecondDegreeRatio},
		{"organization ratio", c.OrganizationRatio},
	}
	for _, r := range ratios {
		if r.value < 0 || r.value > 1 {
			return fmt.Errorf("%s %.2f is out of range (0-1)", r.name, r.value)
		}
	}
	if sum := c.FollowedRatio + c.SecondDegreeRatio + c.OrganizationRatio; sum > 1 {
		return fmt.Errorf("source ratios sum to %.2f, must not exceed 1", sum)
	}
	if c.MaxPostsPerAuthor < 1 {
		return fmt.Errorf("max posts per author must be at least 1, got %d", c.MaxPostsPerAuthor)
	}
	if c.MaxOrganizations < 0 {
		return fmt.Errorf("max organizations must not be negative, got %d", c.MaxOrganizations)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %s", c.FetchTimeout)
	}
	return nil
}
