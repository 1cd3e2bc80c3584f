// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

package feed

import (
	"math"
	"testing"
	"time"

	"github.com/muralsocial/mural/internal/models"
)

func TestScoreFreshPost(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	post := models.Post{CreatedAt: now, LikeCount: 0}

	// Zero hours old: full recency bonus of 24 * 0.5, no engagement.
	if got := Score(&post, now); got != 12.0 {
		t.Errorf("Score(fresh) = %f, want 12.0", got)
	}
}

func TestScoreRecencyDecay(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		age  time.Duration
		want float64
	}{
		{"one hour", 1 * time.Hour, 11.5},
		{"twelve and a half hours floors to twelve", 12*time.Hour + 30*time.Minute, 6.0},
		{"twenty-three hours", 23 * time.Hour, 0.5},
		{"exactly twenty-four hours", 24 * time.Hour, 0.0},
		{"one day and one minute", 24*time.Hour + time.Minute, 0.0},
		{"one week", 7 * 24 * time.Hour, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := models.Post{CreatedAt: now.Add(-tt.age)}
			if got := Score(&post, now); got != tt.want {
				t.Errorf("Score(age %s) = %f, want %f", tt.age, got, tt.want)
			}
		})
	}
}

func TestScoreEngagement(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	// Old enough that recency contributes nothing.
	createdAt := now.Add(-48 * time.Hour)

	tests := []struct {
		likes int
		want  float64
	}{
		{0, 0},
		{1, math.Log(2) * 0.3},
		{10, math.Log(11) * 0.3},
		{1000, math.Log(1001) * 0.3},
	}

	for _, tt := range tests {
		post := models.Post{CreatedAt: createdAt, LikeCount: tt.likes}
		got := Score(&post, now)
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Score(likes=%d) = %f, want %f", tt.likes, got, tt.want)
		}
	}
}

func TestScoreAdditive(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	post := models.Post{CreatedAt: now.Add(-2 * time.Hour), LikeCount: 15}

	want := 11.0 + math.Log(16)*0.3
	if got := Score(&post, now); math.Abs(got-want) > 1e-12 {
		t.Errorf("Score = %f, want %f", got, want)
	}
}

func TestScoreNegativeLikesTreatedAsZero(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	post := models.Post{CreatedAt: now.Add(-48 * time.Hour), LikeCount: -5}

	if got := Score(&post, now); got != 0 {
		t.Errorf("Score(negative likes) = %f, want 0", got)
	}
}

func TestScoreNeverNegative(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	ages := []time.Duration{0, time.Hour, 24 * time.Hour, 1000 * time.Hour}
	for _, age := range ages {
		post := models.Post{CreatedAt: now.Add(-age)}
		if got := Score(&post, now); got < 0 {
			t.Errorf("Score(age %s) = %f, must not be negative", age, got)
		}
	}
}
