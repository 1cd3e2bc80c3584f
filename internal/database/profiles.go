// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/muralsocial/mural/internal/models"
)

// CreateProfile inserts a new profile with its credential hash.
// Returns ErrDuplicate when the handle is already taken.
func (db *DB) CreateProfile(ctx context.Context, profile *models.Profile, passwordHash string) error {
	defer trackQuery("insert", "profiles", time.Now())

	query := `INSERT INTO profiles
		(id, handle, display_name, kind, bio, avatar_key, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := db.conn.ExecContext(ctx, query,
		profile.ID.String(), profile.Handle, profile.DisplayName, string(profile.Kind),
		profile.Bio, profile.AvatarKey, passwordHash, profile.CreatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("handle %q: %w", profile.Handle, ErrDuplicate)
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// GetProfile returns a live profile by id. Soft-deleted profiles report
// ErrNotFound.
func (db *DB) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	defer trackQuery("select", "profiles", time.Now())

	query := `SELECT id, handle, display_name, kind, bio, avatar_key,
		follower_count, following_count, created_at
		FROM profiles WHERE id = ? AND deleted_at IS NULL`

	return db.scanProfile(db.conn.QueryRowContext(ctx, query, id.String()))
}

// GetProfileByHandle returns a live profile by handle.
func (db *DB) GetProfileByHandle(ctx context.Context, handle string) (*models.Profile, error) {
	defer trackQuery("select", "profiles", time.Now())

	query := `SELECT id, handle, display_name, kind, bio, avatar_key,
		follower_count, following_count, created_at
		FROM profiles WHERE handle = ? AND deleted_at IS NULL`

	return db.scanProfile(db.conn.QueryRowContext(ctx, query, handle))
}

// GetPasswordHash returns the credential hash for a handle.
func (db *DB) GetPasswordHash(ctx context.Context, handle string) (uuid.UUID, string, error) {
	defer trackQuery("select", "profiles", time.Now())

	query := `SELECT id, password_hash FROM profiles WHERE handle = ? AND deleted_at IS NULL`

	var rawID, hash string
	err := db.conn.QueryRowContext(ctx, query, handle).Scan(&rawID, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, "", ErrNotFound
	}
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("select password hash: %w", err)
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("parse profile id: %w", err)
	}
	return id, hash, nil
}

// UpdateProfile updates the mutable profile fields.
func (db *DB) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	defer trackQuery("update", "profiles", time.Now())

	query := `UPDATE profiles SET display_name = ?, bio = ?, avatar_key = ?
		WHERE id = ? AND deleted_at IS NULL`

	res, err := db.conn.ExecContext(ctx, query,
		profile.DisplayName, profile.Bio, profile.AvatarKey, profile.ID.String())
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return requireRow(res)
}

// DeleteProfile soft-deletes a profile. Its posts remain but no longer
// resolve an author in feed queries.
func (db *DB) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	defer trackQuery("update", "profiles", time.Now())

	query := `UPDATE profiles SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`

	res, err := db.conn.ExecContext(ctx, query, time.Now().UTC(), id.String())
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return requireRow(res)
}

// OrganizationProfileIDs returns up to limit organization profile ids.
// Part of the feed DataProvider surface.
func (db *DB) OrganizationProfileIDs(ctx context.Context, limit int) ([]uuid.UUID, error) {
	defer trackQuery("select", "profiles", time.Now())

	query := `SELECT id FROM profiles
		WHERE kind = 'organization' AND deleted_at IS NULL
		ORDER BY follower_count DESC, created_at DESC LIMIT ?`

	rows, err := db.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("select organization ids: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// ProfileSummariesByIDs returns compact summaries for the given live
// profiles, in follower-count order. Missing or deleted ids are simply
// absent from the result.
func (db *DB) ProfileSummariesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ProfileSummary, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	defer trackQuery("select", "profiles", time.Now())

	query := fmt.Sprintf(`SELECT id, handle, display_name, kind, avatar_key
		FROM profiles WHERE id IN (%s) AND deleted_at IS NULL
		ORDER BY follower_count DESC, created_at DESC`, placeholders(len(ids)))

	rows, err := db.conn.QueryContext(ctx, query, idArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("select profile summaries: %w", err)
	}
	defer rows.Close()

	var summaries []models.ProfileSummary
	for rows.Next() {
		var s models.ProfileSummary
		var rawID, kind string
		if err := rows.Scan(&rawID, &s.Handle, &s.DisplayName, &kind, &s.AvatarKey); err != nil {
			return nil, fmt.Errorf("scan profile summary: %w", err)
		}
		if s.ID, err = uuid.Parse(rawID); err != nil {
			return nil, fmt.Errorf("parse profile id: %w", err)
		}
		s.Kind = models.ProfileKind(kind)
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// scanProfile scans a single profile row.
func (db *DB) scanProfile(row *sql.Row) (*models.Profile, error) {
	var p models.Profile
	var rawID, kind string

	err := row.Scan(&rawID, &p.Handle, &p.DisplayName, &kind, &p.Bio, &p.AvatarKey,
		&p.FollowerCount, &p.FollowingCount, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan profile: %w", err)
	}

	p.ID, err = uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse profile id: %w", err)
	}
	p.Kind = models.ProfileKind(kind)
	return &p, nil
}

// scanIDs drains an id-only result set.
func scanIDs(rows *sql.Rows) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// requireRow converts a zero-row update into ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// isUniqueViolation reports whether the error is a SQLite uniqueness
// constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// placeholders returns a comma-joined list of n SQL placeholders.
func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// idArgs converts uuid slices to driver arguments.
func idArgs(ids []uuid.UUID) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id.String()
	}
	return args
}
