// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/muralsocial/mural/internal/database"
	"github.com/muralsocial/mural/internal/logging"
)

// Follow creates a follow edge from the requester to the profile in the
// path.
func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	followerID, ok := requesterID(w, r)
	if !ok {
		return
	}
	followedID, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}
	if followerID == followedID {
		respondError(w, http.StatusBadRequest, codeValidation, "Cannot follow yourself", nil)
		return
	}

	// Confirm the target exists before creating the edge.
	if _, err := h.db.GetProfile(r.Context(), followedID); err != nil {
		respondStoreError(w, "Profile", err)
		return
	}

	if err := h.db.Follow(r.Context(), followerID, followedID); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			respondError(w, http.StatusConflict, codeDuplicate, "Already following this profile", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternal, "Internal server error", err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("follower", followerID.String()).
		Str("followed", followedID.String()).
		Msg("Follow edge created")

	respondSuccess(w, http.StatusCreated, map[string]string{"following": followedID.String()}, started)
}

// Unfollow removes a follow edge.
func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	followerID, ok := requesterID(w, r)
	if !ok {
		return
	}
	followedID, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.db.Unfollow(r.Context(), followerID, followedID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, codeNotFound, "Not following this profile", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternal, "Internal server error", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]string{"unfollowed": followedID.String()}, started)
}

// GetFollowers lists the profiles following the profile in the path.
func (h *Handler) GetFollowers(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	ids, err := h.db.FollowerIDs(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Internal server error", err)
		return
	}

	summaries, err := h.db.ProfileSummariesByIDs(r.Context(), ids)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Internal server error", err)
		return
	}

	respondSuccess(w, http.StatusOK, summaries, started)
}

// GetFollowing lists the profiles the profile in the path follows.
func (h *Handler) GetFollowing(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	ids, err := h.db.FollowedIDs(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Internal server error", err)
		return
	}

	summaries, err := h.db.ProfileSummariesByIDs(r.Context(), ids)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Internal server error", err)
		return
	}

	respondSuccess(w, http.StatusOK, summaries, started)
}
