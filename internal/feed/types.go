// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

package feed

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/muralsocial/mural/internal/models"
)

// Category classifies a feed post by provenance. Categories are mutually
// exclusive and assigned once per post per feed request, in strict priority
// order: organization > followed > second-degree > popular > random.
type Category int

const (
	// CategoryOrganization marks posts authored by organization profiles.
	// Highest priority: an organization the requester also follows still
	// classifies as organization.
	CategoryOrganization Category = iota

	// CategoryFollowed marks posts by directly followed profiles and the
	// requester's own posts.
	CategoryFollowed

	// CategorySecondDegree marks posts by profiles followed by the
	// requester's followers.
	CategorySecondDegree

	// CategoryPopular marks posts whose like count exceeds the popularity
	// threshold without any follow or organization relation.
	CategoryPopular

	// CategoryRandom marks discovery-pool posts matched by no other rule,
	// including posts whose author reference is unresolved.
	CategoryRandom
)

// String returns the wire name of the category.
func (c Category) String() string {
	switch c {
	case CategoryOrganization:
		return "ORGANIZATION"
	case CategoryFollowed:
		return "FOLLOWED"
	case CategorySecondDegree:
		return "SECOND_DEGREE"
	case CategoryPopular:
		return "POPULAR"
	case CategoryRandom:
		return "RANDOM"
	default:
		return "UNKNOWN"
	}
}

// Reason returns the fixed human-readable explanation shown to clients
// for this category.
func (c Category) Reason() string {
	switch c {
	case CategoryOrganization:
		return "Post de organização"
	case CategoryFollowed:
		return "Perfil seguido / próprio"
	case CategorySecondDegree:
		return "Conexão de segundo grau"
	case CategoryPopular:
		return "Post popular"
	case CategoryRandom:
		return "Descoberta"
	default:
		return ""
	}
}

// MarshalJSON encodes the category as its wire name.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a category from its wire name.
func (c *Category) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "ORGANIZATION":
		*c = CategoryOrganization
	case "FOLLOWED":
		*c = CategoryFollowed
	case "SECOND_DEGREE":
		*c = CategorySecondDegree
	case "POPULAR":
		*c = CategoryPopular
	case "RANDOM":
		*c = CategoryRandom
	default:
		return fmt.Errorf("unknown feed category %q", name)
	}
	return nil
}

// ClassifiedPost pairs a post with its provenance category, explanation,
// and relevance score. It exists only for the duration of one feed request
// and is never persisted.
type ClassifiedPost struct {
	Post     models.Post `json:"post"`
	Category Category    `json:"category"`
	Reason   string      `json:"reason"`
	Score    float64     `json:"score"`
}

// DataProvider is the read-only query surface the composer consumes.
// It is typically implemented by the database layer. All methods honour
// the context deadline; an empty result is not an error.
type DataProvider interface {
	// FollowedIDs returns the profile ids the given profile follows directly.
	FollowedIDs(ctx context.Context, profileID uuid.UUID) ([]uuid.UUID, error)

	// FollowerIDs returns the profile ids following the given profile.
	FollowerIDs(ctx context.Context, profileID uuid.UUID) ([]uuid.UUID, error)

	// FollowedByProfiles returns the union of profile ids followed by any
	// of the given profiles.
	FollowedByProfiles(ctx context.Context, profileIDs []uuid.UUID) ([]uuid.UUID, error)

	// OrganizationProfileIDs returns up to limit organization profile ids.
	OrganizationProfileIDs(ctx context.Context, limit int) ([]uuid.UUID, error)

	// PostsByAuthors returns up to limit live posts authored by any of the
	// given profiles, most recent first. Soft-deleted posts are excluded.
	PostsByAuthors(ctx context.Context, authorIDs []uuid.UUID, limit int) ([]models.Post, error)

	// OrganizationPosts is PostsByAuthors restricted to organization
	// authors. Same shape, separate call for clarity of intent.
	OrganizationPosts(ctx context.Context, authorIDs []uuid.UUID, limit int) ([]models.Post, error)

	// RecentPostsExcluding returns up to limit recent live posts whose
	// authors are NOT in the excluded set, most recent first.
	RecentPostsExcluding(ctx context.Context, excludedAuthorIDs []uuid.UUID, limit int) ([]models.Post, error)
}
