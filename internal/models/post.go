// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is a piece of content published by a profile. The Author reference
// is nullable: feed queries may return posts whose owning profile could not
// be resolved (deleted accounts, partial rows), and the feed engine must
// still classify and rank them.
type Post struct {
	ID       uuid.UUID       `json:"id"`
	AuthorID uuid.UUID       `json:"author_id"`
	Author   *ProfileSummary `json:"author,omitempty"`

	Body     string `json:"body"`
	ImageKey string `json:"image_key,omitempty"`

	// LikeCount is denormalized from the likes table. Never negative.
	LikeCount int `json:"like_count"`

	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"-"`
}

// AuthorKind returns the author's profile kind, or empty string when the
// author reference is unresolved.
func (p *Post) AuthorKind() ProfileKind {
	if p.Author == nil {
		return ""
	}
	return p.Author.Kind
}
