// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/muralsocial/mural/internal/models"
)

type createEventRequest struct {
	Title    string    `json:"title" validate:"required,max=120"`
	Details  string    `json:"details" validate:"max=2000"`
	Location string    `json:"location" validate:"max=200"`
	StartsAt time.Time `json:"starts_at" validate:"required"`
}

// CreateEvent announces an event owned by the authenticated profile.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	ownerID, ok := requesterID(w, r)
	if !ok {
		return
	}

	var req createEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}
	if req.StartsAt.Before(time.Now()) {
		respondError(w, http.StatusBadRequest, codeValidation, "starts_at must be in the future", nil)
		return
	}

	event := &models.Event{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Title:     req.Title,
		Details:   req.Details,
		Location:  req.Location,
		StartsAt:  req.StartsAt.UTC(),
		CreatedAt: time.Now().UTC(),
	}

	if err := h.db.CreateEvent(r.Context(), event); err != nil {
		respondStoreError(w, "Event", err)
		return
	}

	respondSuccess(w, http.StatusCreated, event, started)
}

// ListEvents returns upcoming events, soonest first.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	limit := getIntParam(r, "limit", h.cfg.API.DefaultPageSize)
	if limit < 1 {
		respondError(w, http.StatusBadRequest, codeValidation, "limit must be positive", nil)
		return
	}
	if limit > h.cfg.API.MaxPageSize {
		limit = h.cfg.API.MaxPageSize
	}

	events, err := h.db.ListUpcomingEvents(r.Context(), time.Now().UTC(), limit)
	if err != nil {
		respondStoreError(w, "Events", err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}

	respondSuccess(w, http.StatusOK, events, started)
}
