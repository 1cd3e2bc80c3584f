// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/muralsocial/mural/internal/feed"
	"github.com/muralsocial/mural/internal/logging"
	"github.com/muralsocial/mural/internal/metrics"
)

// GetFeed returns one page of the requester's personalized feed.
// Responses are composed fresh on every call and never cached.
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	profileID, ok := requesterID(w, r)
	if !ok {
		return
	}
	page, size, ok := h.pageParams(w, r)
	if !ok {
		return
	}

	items, err := h.composer.Generate(r.Context(), profileID, page, size)
	if err != nil {
		switch {
		case errors.Is(err, feed.ErrInvalidPage), errors.Is(err, feed.ErrInvalidSize):
			respondError(w, http.StatusBadRequest, codeValidation, err.Error(), nil)
		default:
			metrics.RecordFeedGeneration(0, nil, err)
			logging.Ctx(r.Context()).Error().Err(err).
				Str("profile_id", profileID.String()).
				Msg("Feed generation failed")
			respondError(w, http.StatusInternalServerError, codeInternal, "Failed to generate feed", nil)
		}
		return
	}

	categoryCounts := make(map[string]int, 5)
	for _, item := range items {
		categoryCounts[item.Category.String()]++
	}
	metrics.RecordFeedGeneration(time.Since(started), categoryCounts, nil)

	// Cold-start and past-the-end pages legitimately return [].
	if items == nil {
		items = []feed.ClassifiedPost{}
	}

	respondPage(w, items, page, size, false, started)
}
