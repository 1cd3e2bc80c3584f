// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

package api

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/muralsocial/mural/internal/logging"
	"github.com/muralsocial/mural/internal/media"
)

// allowedImageExtensions lists the upload types the store accepts.
var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// UploadMedia accepts a multipart image upload and returns its object
// key for use as image_key or avatar_key.
func (h *Handler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	if _, ok := requesterID(w, r); !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.Media.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.cfg.Media.MaxUploadBytes); err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, codePayloadTooLarge, "Upload exceeds size limit", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "Multipart field \"file\" is required", nil)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExtensions[ext] {
		respondError(w, http.StatusBadRequest, codeValidation, "Unsupported image type", nil)
		return
	}

	key := media.NewKey(strings.TrimPrefix(ext, "."))
	if err := h.media.Put(r.Context(), key, file); err != nil {
		respondMediaError(w, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("key", key).
		Int64("bytes", header.Size).
		Msg("Media uploaded")

	respondSuccess(w, http.StatusCreated, map[string]string{"key": key}, started)
}

// DownloadMedia streams a stored object. The key is the wildcard rest of
// the path, e.g. /api/v1/media/ab/uuid.png.
func (h *Handler) DownloadMedia(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")

	rc, err := h.media.Get(r.Context(), key)
	if err != nil {
		respondMediaError(w, err)
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400, immutable")

	if _, err := io.Copy(w, rc); err != nil {
		// Headers are already sent; just log.
		logging.Ctx(r.Context()).Warn().Err(err).Str("key", sanitizeLogValue(key)).Msg("Media stream interrupted")
	}
}

// DeleteMedia removes a stored object.
func (h *Handler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	if _, ok := requesterID(w, r); !ok {
		return
	}

	key := chi.URLParam(r, "*")
	if err := h.media.Delete(r.Context(), key); err != nil {
		if errors.Is(err, media.ErrNotFound) {
			respondError(w, http.StatusNotFound, codeNotFound, "Media object not found", nil)
			return
		}
		respondMediaError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]string{"deleted": key}, started)
}
