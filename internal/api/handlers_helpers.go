// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/muralsocial/mural/internal/auth"
	"github.com/muralsocial/mural/internal/logging"
	"github.com/muralsocial/mural/internal/models"
	"github.com/muralsocial/mural/internal/validation"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// sanitizeLogValue replaces control characters so attacker-supplied
// strings cannot forge log lines.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends an envelope response with an ETag.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Vary", "Accept-Encoding")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess wraps data in a success envelope with timing metadata.
func respondSuccess(w http.ResponseWriter, status int, data interface{}, started time.Time) {
	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(started).Milliseconds(),
		},
	})
}

// respondPage is respondSuccess with the pagination window echoed back.
func respondPage(w http.ResponseWriter, data interface{}, page, size int, cached bool, started time.Time) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(started).Milliseconds(),
			Cached:      cached,
			Page:        &page,
			Size:        &size,
		},
	})
}

// generateETag hashes the response body with FNV-1a.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.FormatUint(uint64(hash), 16)
}

// respondError sends an error envelope and logs server-side causes.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", sanitizeLogValue(code)).Str("error", sanitizeLogValue(err.Error())).Msg("API error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// decodeJSON reads a size-limited JSON body into dst. A false return
// means the error response is already written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "Malformed JSON body", nil)
		return false
	}
	return true
}

// validateRequest validates a request struct, converting failures into
// the VALIDATION_ERROR format.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// getIntParam extracts an integer query parameter with a default.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

// pageParams reads page and size, clamping size to the configured
// maximum. A false return means the error response is already written.
func (h *Handler) pageParams(w http.ResponseWriter, r *http.Request) (page, size int, ok bool) {
	page = getIntParam(r, "page", 0)
	size = getIntParam(r, "size", h.cfg.API.DefaultPageSize)

	if page < 0 {
		respondError(w, http.StatusBadRequest, codeValidation, "page must not be negative", nil)
		return 0, 0, false
	}
	if size < 1 {
		respondError(w, http.StatusBadRequest, codeValidation, "size must be positive", nil)
		return 0, 0, false
	}
	if size > h.cfg.API.MaxPageSize {
		size = h.cfg.API.MaxPageSize
	}
	return page, size, true
}

// urlParamUUID parses a UUID path parameter. A false return means the
// error response is already written.
func urlParamUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, name+" must be a valid UUID", nil)
		return uuid.Nil, false
	}
	return id, true
}

// requesterID extracts the authenticated profile id. A false return
// means the error response is already written; this only happens if a
// route was wired outside the auth middleware by mistake.
func requesterID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := auth.ProfileIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, codeAuthRequired, "Authentication required", nil)
		return uuid.Nil, false
	}
	return id, true
}
