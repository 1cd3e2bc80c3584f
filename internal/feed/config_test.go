// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

package feed

import (
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"negative followed ratio", func(c *Config) { c.FollowedRatio = -0.1 }, true},
		{"ratio above one", func(c *Config) { c.SecondDegreeRatio = 1.1 }, true},
		{"ratios sum above one", func(c *Config) {
			c.FollowedRatio = 0.6
			c.OrganizationRatio = 0.6
		}, true},
		{"zero per-author cap", func(c *Config) { c.MaxPostsPerAuthor = 0 }, true},
		{"negative org sample", func(c *Config) { c.MaxOrganizations = -1 }, true},
		{"zero fetch timeout", func(c *Config) { c.FetchTimeout = 0 }, true},
		{"zero ratios are allowed", func(c *Config) {
			c.FollowedRatio = 0
			c.SecondDegreeRatio = 0
			c.OrganizationRatio = 0
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRatioCount(t *testing.T) {
	tests := []struct {
		size  int
		ratio float64
		want  int
	}{
		{10, 0.3, 3},
		{10, 0.2, 2},
		{15, 0.3, 5}, // 4.5 rounds up
		{5, 0.3, 2},  // 1.5 rounds up
		{10, 0, 0},
		{1, 0.3, 0}, // 0.3 rounds down
	}

	for _, tt := range tests {
		if got := ratioCount(tt.size, tt.ratio); got != tt.want {
			t.Errorf("ratioCount(%d, %.1f) = %d, want %d", tt.size, tt.ratio, got, tt.want)
		}
	}
}
