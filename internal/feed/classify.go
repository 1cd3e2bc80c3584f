// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

package feed

import (
	"github.com/google/uuid"

	"github.com/muralsocial/mural/internal/models"
)

// popularLikeThreshold is the like count above which an otherwise
// unrelated post classifies as popular.
const popularLikeThreshold = 10

// idSet is a membership set of profile ids.
type idSet map[uuid.UUID]struct{}

func newIDSet(ids []uuid.UUID) idSet {
	s := make(idSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s idSet) contains(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

// classify assigns a category to a post using an ordered predicate chain.
// The order is load-bearing: a post can satisfy several predicates at once
// (an organization the requester follows directly must classify as
// organization, not followed), so the first matching rule wins regardless
// of which fetch pass produced the post.
func classify(post *models.Post, requesterID uuid.UUID, followed, secondDegree, organizations idSet) Category {
	authorID := post.AuthorID
	authorResolved := authorID != uuid.Nil

	switch {
	case post.AuthorKind() == models.KindOrganization,
		authorResolved && organizations.contains(authorID):
		return CategoryOrganization

	case authorResolved && (authorID == requesterID || followed.contains(authorID)):
		return CategoryFollowed

	case authorResolved && secondDegree.contains(authorID):
		return CategorySecondDegree

	case post.LikeCount > popularLikeThreshold:
		return CategoryPopular

	default:
		return CategoryRandom
	}
}
