// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

package feed

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/muralsocial/mural/internal/models"
)

// mockProvider implements DataProvider over an in-memory social graph.
// Posts are held in storage order (most recent first, like the real
// queries) and filtered per call the way the database layer would.
type mockProvider struct {
	// follows maps a profile to the profiles it follows.
	follows map[uuid.UUID][]uuid.UUID

	// orgIDs are the organization profiles, in storage order.
	orgIDs []uuid.UUID

	// posts is the full post pool in storage order.
	posts []models.Post

	// per-method error injection
	followedErr  error
	followerErr  error
	reachableErr error
	orgErr       error
	postsErr     error
	recentErr    error
}

func (m *mockProvider) FollowedIDs(_ context.Context, profileID uuid.UUID) ([]uuid.UUID, error) {
	if m.followedErr != nil {
		return nil, m.followedErr
	}
	return m.follows[profileID], nil
}

func (m *mockProvider) FollowerIDs(_ context.Context, profileID uuid.UUID) ([]uuid.UUID, error) {
	if m.followerErr != nil {
		return nil, m.followerErr
	}
	var followers []uuid.UUID
	for follower, followed := range m.follows {
		for _, id := range followed {
			if id == profileID {
				followers = append(followers, follower)
				break
			}
		}
	}
	return followers, nil
}

func (m *mockProvider) FollowedByProfiles(_ context.Context, profileIDs []uuid.UUID) ([]uuid.UUID, error) {
	if m.reachableErr != nil {
		return nil, m.reachableErr
	}
	seen := make(map[uuid.UUID]struct{})
	var union []uuid.UUID
	for _, p := range profileIDs {
		for _, id := range m.follows[p] {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			union = append(union, id)
		}
	}
	return union, nil
}

func (m *mockProvider) OrganizationProfileIDs(_ context.Context, limit int) ([]uuid.UUID, error) {
	if m.orgErr != nil {
		return nil, m.orgErr
	}
	if len(m.orgIDs) > limit {
		return m.orgIDs[:limit], nil
	}
	return m.orgIDs, nil
}

func (m *mockProvider) PostsByAuthors(_ context.Context, authorIDs []uuid.UUID, limit int) ([]models.Post, error) {
	if m.postsErr != nil {
		return nil, m.postsErr
	}
	authors := newIDSet(authorIDs)
	var out []models.Post
	for _, p := range m.posts {
		if len(out) == limit {
			break
		}
		if authors.contains(p.AuthorID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProvider) OrganizationPosts(ctx context.Context, authorIDs []uuid.UUID, limit int) ([]models.Post, error) {
	return m.PostsByAuthors(ctx, authorIDs, limit)
}

func (m *mockProvider) RecentPostsExcluding(_ context.Context, excludedAuthorIDs []uuid.UUID, limit int) ([]models.Post, error) {
	if m.recentErr != nil {
		return nil, m.recentErr
	}
	excluded := newIDSet(excludedAuthorIDs)
	var out []models.Post
	for _, p := range m.posts {
		if len(out) == limit {
			break
		}
		if p.AuthorID != uuid.Nil && excluded.contains(p.AuthorID) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

var testNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func newTestComposer(t *testing.T, provider DataProvider) *Composer {
	t.Helper()
	c, err := NewComposer(provider, DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewComposer: %v", err)
	}
	c.SetClock(func() time.Time { return testNow })
	return c
}

// postAt creates a personal post with the given age and likes.
func postAt(authorID uuid.UUID, age time.Duration, likes int) models.Post {
	return models.Post{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Author:    &models.ProfileSummary{ID: authorID, Kind: models.KindPersonal},
		LikeCount: likes,
		CreatedAt: testNow.Add(-age),
	}
}

func TestGenerateValidatesArguments(t *testing.T) {
	c := newTestComposer(t, &mockProvider{})
	ctx := context.Background()

	if _, err := c.Generate(ctx, uuid.Nil, 0, 10); !errors.Is(err, ErrNoRequester) {
		t.Errorf("nil requester: err = %v, want ErrNoRequester", err)
	}
	if _, err := c.Generate(ctx, uuid.New(), -1, 10); !errors.Is(err, ErrInvalidPage) {
		t.Errorf("negative page: err = %v, want ErrInvalidPage", err)
	}
	if _, err := c.Generate(ctx, uuid.New(), 0, 0); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("zero size: err = %v, want ErrInvalidSize", err)
	}
}

func TestGenerateEmptyUniverse(t *testing.T) {
	c := newTestComposer(t, &mockProvider{})

	items, err := c.Generate(context.Background(), uuid.New(), 0, 10)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("empty universe returned %d items", len(items))
	}
}

func TestGenerateLengthNeverExceedsSize(t *testing.T) {
	requester := uuid.New()
	stranger := uuid.New()

	var pool []models.Post
	for i := 0; i < 50; i++ {
		pool = append(pool, postAt(stranger, time.Duration(i)*time.Minute, 0))
	}
	c := newTestComposer(t, &mockProvider{posts: pool})

	for _, size := range []int{1, 5, 10, 20} {
		items, err := c.Generate(context.Background(), requester, 0, size)
		if err != nil {
			t.Fatalf("Generate(size=%d): %v", size, err)
		}
		if len(items) > size {
			t.Errorf("Generate(size=%d) returned %d items", size, len(items))
		}
	}
}

func TestGenerateDeduplicates(t *testing.T) {
	requester := uuid.New()
	orgID := uuid.New()

	// The organization's post is reachable through both the followed pass
	// (requester follows the org) and the organization pass.
	shared := models.Post{
		ID:        uuid.New(),
		AuthorID:  orgID,
		Author:    &models.ProfileSummary{ID: orgID, Kind: models.KindOrganization},
		CreatedAt: testNow.Add(-time.Hour),
	}
	provider := &mockProvider{
		follows: map[uuid.UUID][]uuid.UUID{requester: {orgID}},
		orgIDs:  []uuid.UUID{orgID},
		posts:   []models.Post{shared},
	}
	c := newTestComposer(t, provider)

	items, err := c.Generate(context.Background(), requester, 0, 10)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	seen := make(map[uuid.UUID]int)
	for _, item := range items {
		seen[item.Post.ID]++
	}
	if seen[shared.ID] != 1 {
		t.Errorf("shared post appeared %d times, want exactly 1", seen[shared.ID])
	}
}

func TestGenerateOrganizationBeatsFollowed(t *testing.T) {
	requester := uuid.New()
	orgID := uuid.New()

	provider := &mockProvider{
		follows: map[uuid.UUID][]uuid.UUID{requester: {orgID}},
		orgIDs:  []uuid.UUID{orgID},
		posts: []models.Post{{
			ID:        uuid.New(),
			AuthorID:  orgID,
			Author:    &models.ProfileSummary{ID: orgID, Kind: models.KindOrganization},
			CreatedAt: testNow.Add(-time.Hour),
		}},
	}
	c := newTestComposer(t, provider)

	items, err := c.Generate(context.Background(), requester, 0, 10)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Category != CategoryOrganization {
		t.Errorf("category = %v, want ORGANIZATION (followed must not win)", items[0].Category)
	}
	if items[0].Reason != "Post de organização" {
		t.Errorf("reason = %q", items[0].Reason)
	}
}

// leakyProvider simulates a discovery query that fails to exclude the
// requester's own posts. Classification must still catch them.
type leakyProvider struct {
	mockProvider
	leak models.Post
}

func (p *leakyProvider) RecentPostsExcluding(_ context.Context, _ []uuid.UUID, _ int) ([]models.Post, error) {
	return []models.Post{p.leak}, nil
}

func TestGenerateOwnPostIsFollowed(t *testing.T) {
	requester := uuid.New()

	provider := &leakyProvider{leak: postAt(requester, time.Hour, 0)}
	c := newTestComposer(t, provider)

	items, err := c.Generate(context.Background(), requester, 0, 10)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Category != CategoryFollowed {
		t.Errorf("own post classified %v, want FOLLOWED", items[0].Category)
	}
	if items[0].Reason != "Perfil seguido / próprio" {
		t.Errorf("reason = %q", items[0].Reason)
	}
}

func TestGeneratePopularClassification(t *testing.T) {
	requester := uuid.New()
	stranger := uuid.New()

	provider := &mockProvider{
		posts: []models.Post{postAt(stranger, 2*time.Hour, 15)},
	}
	c := newTestComposer(t, provider)

	items, err := c.Generate(context.Background(), requester, 0, 10)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Category != CategoryPopular {
		t.Errorf("category = %v, want POPULAR", items[0].Category)
	}
	if items[0].Reason != "Post popular" {
		t.Errorf("reason = %q, want \"Post popular\"", items[0].Reason)
	}
}

func TestGenerateNilAuthorIsRandom(t *testing.T) {
	requester := uuid.New()

	orphan := models.Post{ID: uuid.New(), LikeCount: 2, CreatedAt: testNow.Add(-time.Hour)}
	c := newTestComposer(t, &mockProvider{posts: []models.Post{orphan}})

	items, err := c.Generate(context.Background(), requester, 0, 10)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Category != CategoryRandom {
		t.Errorf("category = %v, want RANDOM", items[0].Category)
	}
	if items[0].Reason != "Descoberta" {
		t.Errorf("reason = %q, want \"Descoberta\"", items[0].Reason)
	}
}

func TestGenerateSecondDegreeClassification(t *testing.T) {
	requester := uuid.New()
	follower := uuid.New()
	secondDegree := uuid.New()

	// follower follows the requester and also follows secondDegree.
	provider := &mockProvider{
		follows: map[uuid.UUID][]uuid.UUID{
			follower: {requester, secondDegree},
		},
		posts: []models.Post{postAt(secondDegree, time.Hour, 0)},
	}
	c := newTestComposer(t, provider)

	items, err := c.Generate(context.Background(), requester, 0, 10)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Category != CategorySecondDegree {
		t.Errorf("category = %v, want SECOND_DEGREE", items[0].Category)
	}
}

func TestGenerateSortedByScoreDescending(t *testing.T) {
	requester := uuid.New()
	stranger := uuid.New()

	provider := &mockProvider{
		posts: []models.Post{
			postAt(stranger, 20*time.Hour, 0),
			postAt(stranger, time.Hour, 5),
			postAt(stranger, 30*time.Hour, 100),
			postAt(stranger, 5*time.Hour, 0),
		},
	}
	c := newTestComposer(t, provider)

	items, err := c.Generate(context.Background(), requester, 0, 10)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for i := 1; i < len(items); i++ {
		if items[i-1].Score < items[i].Score {
			t.Errorf("items[%d].Score=%f < items[%d].Score=%f", i-1, items[i-1].Score, i, items[i].Score)
		}
	}
}

func TestGenerateTieBreakByCreatedAtDescending(t *testing.T) {
	requester := uuid.New()
	stranger := uuid.New()

	// Both posts are past the recency window with equal likes: equal
	// scores, so the newer one must come first.
	older := postAt(stranger, 72*time.Hour, 0)
	newer := postAt(stranger, 48*time.Hour, 0)
	provider := &mockProvider{posts: []models.Post{older, newer}}
	c := newTestComposer(t, provider)

	items, err := c.Generate(context.Background(), requester, 0, 10)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Post.ID != newer.ID {
		t.Errorf("tie-break put the older post first")
	}
}

func TestGeneratePaginationPastEnd(t *testing.T) {
	requester := uuid.New()
	stranger := uuid.New()

	var pool []models.Post
	for i := 0; i < 5; i++ {
		pool = append(pool, postAt(stranger, time.Duration(i)*time.Hour, 0))
	}
	c := newTestComposer(t, &mockProvider{posts: pool})

	items, err := c.Generate(context.Background(), requester, 10, 10)
	if err != nil {
		t.Fatalf("Generate(page=10): %v", err)
	}
	if len(items) != 0 {
		t.Errorf("page past the end returned %d items, want 0", len(items))
	}
}

func TestGenerateIdempotent(t *testing.T) {
	requester := uuid.New()
	friend := uuid.New()
	stranger := uuid.New()

	provider := &mockProvider{
		follows: map[uuid.UUID][]uuid.UUID{requester: {friend}},
		posts: []models.Post{
			postAt(friend, time.Hour, 3),
			postAt(stranger, 2*time.Hour, 20),
			postAt(stranger, 3*time.Hour, 0),
		},
	}
	c := newTestComposer(t, provider)

	first, err := c.Generate(context.Background(), requester, 0, 10)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	second, err := c.Generate(context.Background(), requester, 0, 10)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs with a fixed clock produced different feeds")
	}
}

func TestGeneratePerAuthorFanOutCap(t *testing.T) {
	requester := uuid.New()
	prolific := uuid.New()

	// The followed author has far more posts than the cap allows.
	var pool []models.Post
	for i := 0; i < 10; i++ {
		pool = append(pool, postAt(prolific, time.Duration(i)*time.Minute, 1))
	}
	provider := &mockProvider{
		follows: map[uuid.UUID][]uuid.UUID{requester: {prolific}},
		posts:   pool,
	}
	c := newTestComposer(t, provider)

	items, err := c.Generate(context.Background(), requester, 0, 10)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	followedCount := 0
	for _, item := range items {
		if item.Category == CategoryFollowed {
			followedCount++
		}
	}
	if followedCount > 3 {
		t.Errorf("followed pass admitted %d posts from one author, cap is 3", followedCount)
	}
}

func TestGenerateDiscoveryAbsorbsShortfall(t *testing.T) {
	requester := uuid.New()
	stranger := uuid.New()

	// No follows, no orgs: the whole page budget falls through to the
	// discovery pool.
	var pool []models.Post
	for i := 0; i < 10; i++ {
		pool = append(pool, postAt(stranger, time.Duration(i)*time.Hour, 0))
	}
	c := newTestComposer(t, &mockProvider{posts: pool})

	items, err := c.Generate(context.Background(), requester, 0, 10)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(items) != 10 {
		t.Errorf("discovery fill returned %d items, want 10", len(items))
	}
	for _, item := range items {
		if item.Category != CategoryRandom {
			t.Errorf("discovery post classified %v, want RANDOM", item.Category)
		}
	}
}

func TestGenerateExcludesFollowedFromDiscovery(t *testing.T) {
	requester := uuid.New()
	friend := uuid.New()

	// friend's sole post was already consumed by the followed pass; the
	// discovery pass must not surface the requester's own or friend's
	// additional posts beyond what pool filtering allows.
	provider := &mockProvider{
		follows: map[uuid.UUID][]uuid.UUID{requester: {friend}},
		posts: []models.Post{
			postAt(friend, time.Hour, 0),
			postAt(requester, 2*time.Hour, 0),
		},
	}
	c := newTestComposer(t, provider)

	items, err := c.Generate(context.Background(), requester, 0, 10)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, item := range items {
		if item.Post.AuthorID == requester {
			t.Error("discovery pass surfaced the requester's own post")
		}
	}
}

func TestGenerateUpstreamErrorAborts(t *testing.T) {
	requester := uuid.New()
	boom := errors.New("connection refused")

	tests := []struct {
		name   string
		mutate func(*mockProvider)
	}{
		{"followed ids", func(m *mockProvider) { m.followedErr = boom }},
		{"follower ids", func(m *mockProvider) { m.followerErr = boom }},
		{"organization ids", func(m *mockProvider) { m.orgErr = boom }},
		{"recent posts", func(m *mockProvider) { m.recentErr = boom }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &mockProvider{
				follows: map[uuid.UUID][]uuid.UUID{uuid.New(): {requester}},
			}
			tt.mutate(provider)
			c := newTestComposer(t, provider)

			if _, err := c.Generate(context.Background(), requester, 0, 10); !errors.Is(err, boom) {
				t.Errorf("err = %v, want wrapped upstream error", err)
			}
		})
	}
}

func TestNewComposerRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxPostsPerAuthor = 0
	if _, err := NewComposer(&mockProvider{}, cfg, zerolog.Nop()); err == nil {
		t.Error("invalid config accepted")
	}

	if _, err := NewComposer(nil, DefaultConfig(), zerolog.Nop()); err == nil {
		t.Error("nil provider accepted")
	}
}
