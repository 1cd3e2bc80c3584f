// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

// Package api provides the HTTP surface of Mural: authentication,
// profiles, posts, follow edges, the ranked feed, events, the
// marketplace, and media up/downloads. Routing uses chi; every response
// is wrapped in the APIResponse envelope.
package api

import (
	"time"

	"github.com/muralsocial/mural/internal/auth"
	"github.com/muralsocial/mural/internal/cache"
	"github.com/muralsocial/mural/internal/config"
	"github.com/muralsocial/mural/internal/database"
	"github.com/muralsocial/mural/internal/feed"
	"github.com/muralsocial/mural/internal/media"
)

// Handler carries the dependencies of all endpoint handlers.
type Handler struct {
	cfg      *config.Config
	db       *database.DB
	composer *feed.Composer
	media    media.Store
	jwt      *auth.JWTManager

	// products caches marketplace listing pages; writes invalidate it.
	products *cache.Cache

	startedAt time.Time
}

// NewHandler wires the endpoint handlers.
func NewHandler(cfg *config.Config, db *database.DB, composer *feed.Composer, store media.Store, jwt *auth.JWTManager) *Handler {
	return &Handler{
		cfg:       cfg,
		db:        db,
		composer:  composer,
		media:     store,
		jwt:       jwt,
		products:  cache.New("products", cfg.API.ProductCacheTTL),
		startedAt: time.Now(),
	}
}

// Close releases handler-owned resources.
func (h *Handler) Close() {
	h.products.Stop()
}
