// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/muralsocial/mural/internal/cache"
	"github.com/muralsocial/mural/internal/models"
)

type createProductRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=2000"`
	PriceCents  int64  `json:"price_cents" validate:"required,gt=0"`
	Currency    string `json:"currency" validate:"omitempty,len=3,uppercase"`
	ImageKey    string `json:"image_key" validate:"omitempty,max=200"`
}

type productPageKey struct {
	Page int
	Size int
}

// CreateProduct lists an item in the marketplace and invalidates the
// cached listing pages.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	sellerID, ok := requesterID(w, r)
	if !ok {
		return
	}

	var req createProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = "BRL"
	}

	product := &models.Product{
		ID:          uuid.New(),
		SellerID:    sellerID,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Currency:    currency,
		ImageKey:    req.ImageKey,
		CreatedAt:   time.Now().UTC(),
	}

	if err := h.db.CreateProduct(r.Context(), product); err != nil {
		respondStoreError(w, "Product", err)
		return
	}

	h.products.Clear()

	respondSuccess(w, http.StatusCreated, product, started)
}

// ListProducts returns a page of marketplace listings, newest first.
// Pages are served from the TTL cache when fresh.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	page, size, ok := h.pageParams(w, r)
	if !ok {
		return
	}

	key := cache.GenerateKey("products", productPageKey{Page: page, Size: size})
	if cached, hit := h.products.Get(key); hit {
		if products, valid := cached.([]models.Product); valid {
			respondPage(w, products, page, size, true, started)
			return
		}
	}

	products, err := h.db.ListProducts(r.Context(), page, size)
	if err != nil {
		respondStoreError(w, "Products", err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	h.products.Set(key, products)

	respondPage(w, products, page, size, false, started)
}
