// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

package feed

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/muralsocial/mural/internal/models"
)

// Request validation errors.
var (
	// ErrNoRequester indicates Generate was called without a requester id.
	ErrNoRequester = errors.New("feed: requester profile id is required")

	// ErrInvalidPage indicates a negative page index.
	ErrInvalidPage = errors.New("feed: page index must not be negative")

	// ErrInvalidSize indicates a non-positive page size.
	ErrInvalidSize = errors.New("feed: page size must be positive")
)

// Composer assembles personalized feeds. It is stateless between requests
// and safe for concurrent use; every Generate call fetches fresh data and
// keeps it request-local.
type Composer struct {
	provider DataProvider
	cfg      Config
	logger   zerolog.Logger

	// now is injectable for deterministic tests.
	now func() time.Time
}

// NewComposer creates a feed composer over the given data provider.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewComposer(provider DataProvider, cfg Config, logger zerolog.Logger) (*Composer, error) {
	if provider == nil {
		return nil, errors.New("feed: data provider is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("feed: invalid config: %w", err)
	}
	return &Composer{
		provider: provider,
		cfg:      cfg,
		logger:   logger.With().Str("component", "feed").Logger(),
		now:      time.Now,
	}, nil
}

// SetClock overrides the composer's time source. Intended for tests that
// need reproducible scoring.
func (c *Composer) SetClock(now func() time.Time) {
	c.now = now
}

// Generate assembles one page of the requester's feed.
//
// Candidate posts are drawn from four passes (followed profiles,
// second-degree connections, organizations, recency discovery), unioned
// with first-occurrence-wins de-duplication, classified, scored, sorted by
// descending score with a created-at-descending tie-break, and windowed to
// the requested page. The result length is at most size; a window past the
// end of the candidate set yields an empty slice, never an error.
//
// Empty fetch results degrade gracefully (the discovery pass absorbs the
// shortfall). A failing fetch aborts the whole computation: partial data
// from an unreachable source is never silently substituted.
func (c *Composer) Generate(ctx context.Context, requesterID uuid.UUID, page, size int) ([]ClassifiedPost, error) {
	if requesterID == uuid.Nil {
		return nil, ErrNoRequester
	}
	if page < 0 {
		return nil, ErrInvalidPage
	}
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	start := c.now()

	followed, err := c.fetchFollowedIDs(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	followedSet := newIDSet(followed)

	candidates, err := c.fetchFollowedPosts(ctx, followed, size)
	if err != nil {
		return nil, err
	}

	secondDegree, err := c.computeSecondDegree(ctx, requesterID, followedSet)
	if err != nil {
		return nil, err
	}
	secondSet := newIDSet(secondDegree)

	secondPosts, err := c.fetchSecondDegreePosts(ctx, secondDegree, size)
	if err != nil {
		return nil, err
	}
	candidates = append(candidates, secondPosts...)

	orgIDs, orgPosts, err := c.fetchOrganizationPosts(ctx, size)
	if err != nil {
		return nil, err
	}
	orgSet := newIDSet(orgIDs)
	candidates = append(candidates, orgPosts...)

	// The discovery pass fills whatever the targeted passes left open.
	// It depends only on the accumulated count, not on the content above.
	if remaining := size - len(candidates); remaining > 0 {
		discovery, err := c.fetchDiscoveryPosts(ctx, requesterID, followed, remaining)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, discovery...)
	}

	items := c.classifyAndScore(dedupe(candidates), requesterID, followedSet, secondSet, orgSet)
	sortByRelevance(items)

	pageItems := paginate(items, page, size)

	c.logger.Debug().
		Str("requester", requesterID.String()).
		Int("page", page).
		Int("size", size).
		Int("candidates", len(candidates)).
		Int("returned", len(pageItems)).
		Dur("elapsed", time.Since(start)).
		Msg("feed generated")

	return pageItems, nil
}

// fetchFollowedIDs returns the requester's direct-follow set.
func (c *Composer) fetchFollowedIDs(ctx context.Context, requesterID uuid.UUID) ([]uuid.UUID, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.FetchTimeout)
	defer cancel()

	ids, err := c.provider.FollowedIDs(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("fetch followed ids: %w", err)
	}
	return ids, nil
}

// fetchFollowedPosts runs the followed-profiles pass with the per-author
// fan-out cap. Storage is over-fetched at twice the target so capping one
// prolific author still leaves enough candidates from the rest.
func (c *Composer) fetchFollowedPosts(ctx context.Context, followed []uuid.UUID, size int) ([]models.Post, error) {
	target := ratioCount(size, c.cfg.FollowedRatio)
	if len(followed) == 0 || target == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.FetchTimeout)
	defer cancel()

	raw, err := c.provider.PostsByAuthors(ctx, followed, 2*target)
	if err != nil {
		return nil, fmt.Errorf("fetch followed posts: %w", err)
	}
	return capPerAuthor(raw, target, c.cfg.MaxPostsPerAuthor), nil
}

// computeSecondDegree derives the second-degree connection set: profiles
// followed by any of the requester's followers, minus the requester and
// anyone already followed directly. Organizations are deliberately NOT
// excluded here; classification priority resolves that overlap.
func (c *Composer) computeSecondDegree(ctx context.Context, requesterID uuid.UUID, followedSet idSet) ([]uuid.UUID, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, c.cfg.FetchTimeout)
	followers, err := c.provider.FollowerIDs(fetchCtx, requesterID)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("fetch follower ids: %w", err)
	}
	if len(followers) == 0 {
		return nil, nil
	}

	fetchCtx, cancel = context.WithTimeout(ctx, c.cfg.FetchTimeout)
	defer cancel()
	reachable, err := c.provider.FollowedByProfiles(fetchCtx, followers)
	if err != nil {
		return nil, fmt.Errorf("fetch second-degree ids: %w", err)
	}

	second := make([]uuid.UUID, 0, len(reachable))
	for _, id := range reachable {
		if id == requesterID || followedSet.contains(id) {
			continue
		}
		second = append(second, id)
	}
	return second, nil
}

// fetchSecondDegreePosts runs the second-degree pass.
func (c *Composer) fetchSecondDegreePosts(ctx context.Context, secondDegree []uuid.UUID, size int) ([]models.Post, error) {
	target := ratioCount(size, c.cfg.SecondDegreeRatio)
	if len(secondDegree) == 0 || target == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.FetchTimeout)
	defer cancel()

	posts, err := c.provider.PostsByAuthors(ctx, secondDegree, target)
	if err != nil {
		return nil, fmt.Errorf("fetch second-degree posts: %w", err)
	}
	return posts, nil
}

// fetchOrganizationPosts runs the organization pass. It returns both the
// sampled organization ids (needed by classification) and their posts.
func (c *Composer) fetchOrganizationPosts(ctx context.Context, size int) ([]uuid.UUID, []models.Post, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, c.cfg.FetchTimeout)
	orgIDs, err := c.provider.OrganizationProfileIDs(fetchCtx, c.cfg.MaxOrganizations)
	cancel()
	if err != nil {
		return nil, nil, fmt.Errorf("fetch organization ids: %w", err)
	}

	target := ratioCount(size, c.cfg.OrganizationRatio)
	if len(orgIDs) == 0 || target == 0 {
		return orgIDs, nil, nil
	}

	fetchCtx, cancel = context.WithTimeout(ctx, c.cfg.FetchTimeout)
	defer cancel()
	posts, err := c.provider.OrganizationPosts(fetchCtx, orgIDs, target)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch organization posts: %w", err)
	}
	return orgIDs, posts, nil
}

// fetchDiscoveryPosts runs the recency-based fill pass, excluding authors
// already covered by the direct-follow set and the requester itself.
func (c *Composer) fetchDiscoveryPosts(ctx context.Context, requesterID uuid.UUID, followed []uuid.UUID, limit int) ([]models.Post, error) {
	excluded := make([]uuid.UUID, 0, len(followed)+1)
	excluded = append(excluded, followed...)
	excluded = append(excluded, requesterID)

	ctx, cancel := context.WithTimeout(ctx, c.cfg.FetchTimeout)
	defer cancel()

	posts, err := c.provider.RecentPostsExcluding(ctx, excluded, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch discovery posts: %w", err)
	}
	return posts, nil
}

// classifyAndScore produces a ClassifiedPost for every candidate.
// Classification is re-derived from membership tests, not from fetch
// order, so it is independent of which pass surfaced a post first.
func (c *Composer) classifyAndScore(posts []models.Post, requesterID uuid.UUID, followed, secondDegree, organizations idSet) []ClassifiedPost {
	now := c.now()
	items := make([]ClassifiedPost, 0, len(posts))
	for i := range posts {
		category := classify(&posts[i], requesterID, followed, secondDegree, organizations)
		items = append(items, ClassifiedPost{
			Post:     posts[i],
			Category: category,
			Reason:   category.Reason(),
			Score:    Score(&posts[i], now),
		})
	}
	return items
}

// ratioCount converts a page-size share into a fetch count.
func ratioCount(size int, ratio float64) int {
	return int(math.Round(float64(size) * ratio))
}

// capPerAuthor greedily admits posts in storage order until the target is
// reached, skipping posts whose author already occupies maxPerAuthor slots.
func capPerAuthor(posts []models.Post, target, maxPerAuthor int) []models.Post {
	if target <= 0 {
		return nil
	}
	perAuthor := make(map[uuid.UUID]int)
	out := make([]models.Post, 0, target)
	for i := range posts {
		if len(out) == target {
			break
		}
		if perAuthor[posts[i].AuthorID] >= maxPerAuthor {
			continue
		}
		perAuthor[posts[i].AuthorID]++
		out = append(out, posts[i])
	}
	return out
}

// dedupe removes duplicate post ids, keeping the first occurrence.
// A post qualifying for several passes must appear in the feed once.
func dedupe(posts []models.Post) []models.Post {
	seen := make(map[uuid.UUID]struct{}, len(posts))
	out := make([]models.Post, 0, len(posts))
	for i := range posts {
		if _, ok := seen[posts[i].ID]; ok {
			continue
		}
		seen[posts[i].ID] = struct{}{}
		out = append(out, posts[i])
	}
	return out
}

// sortByRelevance orders items by descending score, breaking ties by
// creation time descending so output is stable across runs.
func sortByRelevance(items []ClassifiedPost) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].Post.CreatedAt.After(items[j].Post.CreatedAt)
	})
}

// paginate slices the window [page*size, page*size+size) out of items.
// A window past the end yields an empty slice.
func paginate(items []ClassifiedPost, page, size int) []ClassifiedPost {
	offset := page * size
	if offset >= len(items) {
		return []ClassifiedPost{}
	}
	end := offset + size
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
