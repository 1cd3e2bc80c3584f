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

// CreateEvent persists a new event.
func (db *DB) CreateEvent(ctx context.Context, event *models.Event) error {
	defer trackQuery("insert", "events", time.Now())

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO events (id, owner_id, title, details, location, starts_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID.String(), event.OwnerID.String(), event.Title, event.Details,
		event.Location, event.StartsAt.UTC(), event.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// ListUpcomingEvents returns events starting at or after the given
// instant, soonest first.
func (db *DB) ListUpcomingEvents(ctx context.Context, after time.Time, limit int) ([]models.Event, error) {
	if limit <= 0 {
		return nil, nil
	}
	defer trackQuery("select", "events", time.Now())

	query := `SELECT id, owner_id, title, details, location, starts_at, created_at
		 FROM events WHERE starts_at >= ? ORDER BY starts_at ASC LIMIT ?`

	rows, err := db.conn.QueryContext(ctx, query, after.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("select upcoming events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var (
			ev           models.Event
			idStr, owner string
		)
		if err := rows.Scan(&idStr, &owner, &ev.Title, &ev.Details,
			&ev.Location, &ev.StartsAt, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if ev.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("parse event id: %w", err)
		}
		if ev.OwnerID, err = uuid.Parse(owner); err != nil {
			return nil, fmt.Errorf("parse event owner id: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
