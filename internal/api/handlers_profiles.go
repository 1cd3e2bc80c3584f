// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

type updateProfileRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,min=1,max=80"`
	Bio         *string `json:"bio" validate:"omitempty,max=500"`
	AvatarKey   *string `json:"avatar_key" validate:"omitempty,max=200"`
}

// GetProfile returns a profile by id.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	profile, err := h.db.GetProfile(r.Context(), id)
	if err != nil {
		respondStoreError(w, "Profile", err)
		return
	}

	respondSuccess(w, http.StatusOK, profile, started)
}

// GetOwnProfile returns the authenticated profile.
func (h *Handler) GetOwnProfile(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	id, ok := requesterID(w, r)
	if !ok {
		return
	}

	profile, err := h.db.GetProfile(r.Context(), id)
	if err != nil {
		respondStoreError(w, "Profile", err)
		return
	}

	respondSuccess(w, http.StatusOK, profile, started)
}

// UpdateOwnProfile applies a partial update to the authenticated profile.
func (h *Handler) UpdateOwnProfile(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	id, ok := requesterID(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	profile, err := h.db.GetProfile(r.Context(), id)
	if err != nil {
		respondStoreError(w, "Profile", err)
		return
	}

	if req.DisplayName != nil {
		profile.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.AvatarKey != nil {
		profile.AvatarKey = *req.AvatarKey
	}

	if err := h.db.UpdateProfile(r.Context(), profile); err != nil {
		respondStoreError(w, "Profile", err)
		return
	}

	respondSuccess(w, http.StatusOK, profile, started)
}

// DeleteOwnProfile soft-deletes the authenticated profile. Its posts
// survive with an unresolved author.
func (h *Handler) DeleteOwnProfile(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	id, ok := requesterID(w, r)
	if !ok {
		return
	}

	if err := h.db.DeleteProfile(r.Context(), id); err != nil {
		respondStoreError(w, "Profile", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]string{"deleted": id.String()}, started)
}

// GetProfilePosts returns a page of the profile's posts, newest first.
func (h *Handler) GetProfilePosts(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}
	page, size, ok := h.pageParams(w, r)
	if !ok {
		return
	}

	// Offset pagination over a single-author timeline: fetch through the
	// end of the requested window and slice.
	posts, err := h.db.PostsByAuthors(r.Context(), []uuid.UUID{id}, (page+1)*size)
	if err != nil {
		respondStoreError(w, "Posts", err)
		return
	}

	offset := page * size
	if offset >= len(posts) {
		posts = posts[:0]
	} else {
		posts = posts[offset:]
	}

	respondPage(w, posts, page, size, false, started)
}
