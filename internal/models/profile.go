// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

package models

import (
	"time"

	"github.com/google/uuid"
)

// ProfileKind discriminates personal accounts from organization accounts.
type ProfileKind string

const (
	// KindPersonal is an individual user account.
	KindPersonal ProfileKind = "personal"

	// KindOrganization is an institutional account. Organization posts
	// receive a fixed share of feed slots regardless of follow edges.
	KindOrganization ProfileKind = "organization"
)

// Valid reports whether the kind is a known profile kind.
func (k ProfileKind) Valid() bool {
	return k == KindPersonal || k == KindOrganization
}

// Profile represents a Mural account, either personal or organization.
type Profile struct {
	ID          uuid.UUID   `json:"id"`
	Handle      string      `json:"handle"`
	DisplayName string      `json:"display_name"`
	Kind        ProfileKind `json:"kind"`
	Bio         string      `json:"bio,omitempty"`
	AvatarKey   string      `json:"avatar_key,omitempty"`

	// Denormalized follow counters, maintained by the follow endpoints.
	FollowerCount  int `json:"follower_count"`
	FollowingCount int `json:"following_count"`

	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"-"`
}

// IsOrganization reports whether the profile is an organization account.
func (p *Profile) IsOrganization() bool {
	return p.Kind == KindOrganization
}

// ProfileSummary is the compact profile representation embedded in post
// and feed responses.
type ProfileSummary struct {
	ID          uuid.UUID   `json:"id"`
	Handle      string      `json:"handle"`
	DisplayName string      `json:"display_name"`
	Kind        ProfileKind `json:"kind"`
	AvatarKey   string      `json:"avatar_key,omitempty"`
}

// Summary returns the compact representation of the profile.
func (p *Profile) Summary() ProfileSummary {
	return ProfileSummary{
		ID:          p.ID,
		Handle:      p.Handle,
		DisplayName: p.DisplayName,
		Kind:        p.Kind,
		AvatarKey:   p.AvatarKey,
	}
}
