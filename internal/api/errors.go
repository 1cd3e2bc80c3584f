// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

package api

import (
	"errors"
	"net/http"

	"github.com/muralsocial/mural/internal/database"
	"github.com/muralsocial/mural/internal/media"
)

// Machine-readable error codes used across all endpoints.
const (
	codeValidation         = "VALIDATION_ERROR"
	codeAuthRequired       = "AUTH_REQUIRED"
	codeInvalidCredentials = "INVALID_CREDENTIALS"
	codeNotFound           = "NOT_FOUND"
	codeDuplicate          = "DUPLICATE"
	codePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	codeMediaUnavailable   = "MEDIA_UNAVAILABLE"
	codeInternal           = "INTERNAL_ERROR"
)

// respondStoreError maps data-layer errors onto HTTP responses. The
// resource name feeds the NOT_FOUND and DUPLICATE messages.
func respondStoreError(w http.ResponseWriter, resource string, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondError(w, http.StatusNotFound, codeNotFound, resource+" not found", nil)
	case errors.Is(err, database.ErrDuplicate):
		respondError(w, http.StatusConflict, codeDuplicate, resource+" already exists", nil)
	default:
		respondError(w, http.StatusInternalServerError, codeInternal, "Internal server error", err)
	}
}

// respondMediaError maps media store errors onto HTTP responses.
func respondMediaError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, media.ErrNotFound):
		respondError(w, http.StatusNotFound, codeNotFound, "Media object not found", nil)
	case errors.Is(err, media.ErrInvalidKey):
		respondError(w, http.StatusBadRequest, codeValidation, "Invalid media key", nil)
	case errors.Is(err, media.ErrUnavailable):
		respondError(w, http.StatusServiceUnavailable, codeMediaUnavailable, "Media store temporarily unavailable", nil)
	default:
		respondError(w, http.StatusInternalServerError, codeInternal, "Internal server error", err)
	}
}
