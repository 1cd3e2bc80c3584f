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

	"github.com/muralsocial/mural/internal/auth"
	"github.com/muralsocial/mural/internal/database"
	"github.com/muralsocial/mural/internal/logging"
	"github.com/muralsocial/mural/internal/models"
)

type registerRequest struct {
	Handle      string `json:"handle" validate:"required,handle"`
	DisplayName string `json:"display_name" validate:"required,max=80"`
	Kind        string `json:"kind" validate:"required,oneof=personal organization"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	Bio         string `json:"bio" validate:"max=500"`
}

type loginRequest struct {
	Handle   string `json:"handle" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token   string          `json:"token"`
	Profile *models.Profile `json:"profile"`
}

// Register creates a profile and returns a bearer token for it.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	hash, err := auth.HashPassword(req.Password, h.cfg.Security.BcryptCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Internal server error", err)
		return
	}

	profile := &models.Profile{
		ID:          uuid.New(),
		Handle:      req.Handle,
		DisplayName: req.DisplayName,
		Kind:        models.ProfileKind(req.Kind),
		Bio:         req.Bio,
		CreatedAt:   time.Now().UTC(),
	}

	if err := h.db.CreateProfile(r.Context(), profile, hash); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			respondError(w, http.StatusConflict, codeDuplicate, "Handle already taken", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternal, "Internal server error", err)
		return
	}

	token, err := h.jwt.GenerateToken(profile.ID, profile.Handle)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Internal server error", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("profile_id", profile.ID.String()).
		Str("kind", string(profile.Kind)).
		Msg("Profile registered")

	respondSuccess(w, http.StatusCreated, authResponse{Token: token, Profile: profile}, started)
}

// Login exchanges handle and password for a bearer token. Unknown
// handles and wrong passwords produce the same response.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	profileID, hash, err := h.db.GetPasswordHash(r.Context(), req.Handle)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, codeInvalidCredentials, "Invalid handle or password", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternal, "Internal server error", err)
		return
	}

	if err := auth.CheckPassword(hash, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			logging.Ctx(r.Context()).Warn().
				Str("handle", sanitizeLogValue(req.Handle)).
				Msg("Failed login attempt")
			respondError(w, http.StatusUnauthorized, codeInvalidCredentials, "Invalid handle or password", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternal, "Internal server error", err)
		return
	}

	profile, err := h.db.GetProfile(r.Context(), profileID)
	if err != nil {
		respondStoreError(w, "Profile", err)
		return
	}

	token, err := h.jwt.GenerateToken(profile.ID, profile.Handle)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Internal server error", err)
		return
	}

	respondSuccess(w, http.StatusOK, authResponse{Token: token, Profile: profile}, started)
}
