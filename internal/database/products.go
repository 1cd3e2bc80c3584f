// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/muralsocial/mural/internal/models"
)

// CreateProduct persists a new marketplace listing.
func (db *DB) CreateProduct(ctx context.Context, product *models.Product) error {
	defer trackQuery("insert", "products", time.Now())

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO products (id, seller_id, name, description, price_cents, currency, image_key, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		product.ID.String(), product.SellerID.String(), product.Name, product.Description,
		product.PriceCents, product.Currency, product.ImageKey, product.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// ListProducts returns a page of listings, newest first. Offset-based
// like the feed: a page past the end yields an empty slice.
func (db *DB) ListProducts(ctx context.Context, page, size int) ([]models.Product, error) {
	if size <= 0 {
		return nil, nil
	}
	defer trackQuery("select", "products", time.Now())

	query := `SELECT id, seller_id, name, description, price_cents, currency, image_key, created_at
		 FROM products ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

	rows, err := db.conn.QueryContext(ctx, query, size, page*size)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var (
			p             models.Product
			idStr, seller string
		)
		if err := rows.Scan(&idStr, &seller, &p.Name, &p.Description,
			&p.PriceCents, &p.Currency, &p.ImageKey, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if p.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("parse product id: %w", err)
		}
		if p.SellerID, err = uuid.Parse(seller); err != nil {
			return nil, fmt.Errorf("parse product seller id: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
