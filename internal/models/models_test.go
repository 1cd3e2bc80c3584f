// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestProfileKindValid(t *testing.T) {
	tests := []struct {
		kind ProfileKind
		want bool
	}{
		{KindPersonal, true},
		{KindOrganization, true},
		{ProfileKind(""), false},
		{ProfileKind("bot"), false},
	}

	for _, tt := range tests {
		if got := tt.kind.Valid(); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestProfileSummary(t *testing.T) {
	p := Profile{
		ID:             uuid.New(),
		Handle:         "acme",
		DisplayName:    "ACME Corp",
		Kind:           KindOrganization,
		AvatarKey:      "avatars/acme.png",
		FollowerCount:  10,
		FollowingCount: 2,
	}

	s := p.Summary()
	if s.ID != p.ID || s.Handle != p.Handle || s.Kind != KindOrganization {
		t.Errorf("Summary() dropped fields: %+v", s)
	}
	if !p.IsOrganization() {
		t.Error("IsOrganization() = false for organization profile")
	}
}

func TestPostAuthorKind(t *testing.T) {
	post := Post{ID: uuid.New()}
	if got := post.AuthorKind(); got != "" {
		t.Errorf("AuthorKind() with nil author = %q, want empty", got)
	}

	post.Author = &ProfileSummary{Kind: KindOrganization}
	if got := post.AuthorKind(); got != KindOrganization {
		t.Errorf("AuthorKind() = %q, want organization", got)
	}
}
