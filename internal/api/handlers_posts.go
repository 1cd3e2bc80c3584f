// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/muralsocial/mural/internal/database"
	"github.com/muralsocial/mural/internal/logging"
	"github.com/muralsocial/mural/internal/models"
)

type createPostRequest struct {
	Body     string `json:"body" validate:"required,max=2000"`
	ImageKey string `json:"image_key" validate:"omitempty,max=200"`
}

// CreatePost publishes a post by the authenticated profile.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	authorID, ok := requesterID(w, r)
	if !ok {
		return
	}

	var req createPostRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	post := &models.Post{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Body:      req.Body,
		ImageKey:  req.ImageKey,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.db.CreatePost(r.Context(), post); err != nil {
		respondStoreError(w, "Post", err)
		return
	}

	// Re-read to attach the author summary.
	created, err := h.db.GetPost(r.Context(), post.ID)
	if err != nil {
		respondStoreError(w, "Post", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("post_id", post.ID.String()).
		Str("author_id", authorID.String()).
		Msg("Post created")

	respondSuccess(w, http.StatusCreated, created, started)
}

// GetPost returns one post by id.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	post, err := h.db.GetPost(r.Context(), id)
	if err != nil {
		respondStoreError(w, "Post", err)
		return
	}

	respondSuccess(w, http.StatusOK, post, started)
}

// DeletePost soft-deletes a post. Only the author may delete it; for
// anyone else the post simply appears not to exist.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	authorID, ok := requesterID(w, r)
	if !ok {
		return
	}
	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.db.DeletePost(r.Context(), id, authorID); err != nil {
		respondStoreError(w, "Post", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]string{"deleted": id.String()}, started)
}

// LikePost records a like by the authenticated profile.
func (h *Handler) LikePost(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	profileID, ok := requesterID(w, r)
	if !ok {
		return
	}
	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.db.LikePost(r.Context(), id, profileID); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			respondError(w, http.StatusConflict, codeDuplicate, "Post already liked", nil)
			return
		}
		respondStoreError(w, "Post", err)
		return
	}

	respondSuccess(w, http.StatusCreated, map[string]string{"liked": id.String()}, started)
}

// UnlikePost removes a like.
func (h *Handler) UnlikePost(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	profileID, ok := requesterID(w, r)
	if !ok {
		return
	}
	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.db.UnlikePost(r.Context(), id, profileID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, codeNotFound, "Like not found", nil)
			return
		}
		respondStoreError(w, "Post", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]string{"unliked": id.String()}, started)
}
