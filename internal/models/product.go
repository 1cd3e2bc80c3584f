// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a marketplace listing owned by a profile. Marketplace access
// is a simple paged lookup ordered by creation time; products never enter
// the ranked feed.
type Product struct {
	ID          uuid.UUID `json:"id"`
	SellerID    uuid.UUID `json:"seller_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`

	// PriceCents is the listing price in integer cents to avoid floating
	// point money arithmetic.
	PriceCents int64  `json:"price_cents"`
	Currency   string `json:"currency"`

	ImageKey  string    `json:"image_key,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
