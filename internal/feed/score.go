// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

package feed

import (
	"math"
	"time"

	"github.com/muralsocial/mural/internal/models"
)

// Scoring weights. Scores are comparable only within a single feed
// request; no cross-post normalization is performed.
const (
	// recencyWindowHours is how long the recency bonus lasts.
	recencyWindowHours = 24

	// recencyWeight is the per-hour value of remaining recency.
	recencyWeight = 0.5

	// engagementWeight dampens the log-scaled like count.
	engagementWeight = 0.3
)

// Score computes the relevance of a post at the given instant:
//
//	score = recencyBonus + engagementBonus
//
// where recencyBonus decays linearly from 12.0 to 0 over the first 24
// hours of a post's life and engagementBonus is ln(likes+1) scaled so
// runaway like counts cannot dominate recency.
func Score(post *models.Post, now time.Time) float64 {
	hoursOld := int(math.Floor(now.Sub(post.CreatedAt).Hours()))

	var recencyBonus float64
	if hoursOld <= recencyWindowHours {
		recencyBonus = math.Max(0, float64(recencyWindowHours-hoursOld)) * recencyWeight
	}

	likes := post.LikeCount
	if likes < 0 {
		likes = 0
	}
	engagementBonus := math.Log(float64(likes)+1) * engagementWeight

	return recencyBonus + engagementBonus
}
