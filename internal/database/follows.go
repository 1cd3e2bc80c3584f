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
)

// Follow records a follow edge and maintains both denormalized counters.
// Returns ErrDuplicate when the edge already exists.
func (db *DB) Follow(ctx context.Context, followerID, followedID uuid.UUID) error {
	defer trackQuery("insert", "follows", time.Now())

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin follow tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO follows (follower_id, followed_id, created_at) VALUES (?, ?, ?)`,
		followerID.String(), followedID.String(), time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert follow: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE profiles SET following_count = following_count + 1 WHERE id = ?`,
		followerID.String())
	if err != nil {
		return fmt.Errorf("bump following count: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE profiles SET follower_count = follower_count + 1 WHERE id = ?`,
		followedID.String())
	if err != nil {
		return fmt.Errorf("bump follower count: %w", err)
	}

	return tx.Commit()
}

// Unfollow removes a follow edge and decrements both counters.
func (db *DB) Unfollow(ctx context.Context, followerID, followedID uuid.UUID) error {
	defer trackQuery("delete", "follows", time.Now())

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin unfollow tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = ? AND followed_id = ?`,
		followerID.String(), followedID.String())
	if err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	if err := requireRow(res); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE profiles SET following_count = MAX(following_count - 1, 0) WHERE id = ?`,
		followerID.String())
	if err != nil {
		return fmt.Errorf("drop following count: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE profiles SET follower_count = MAX(follower_count - 1, 0) WHERE id = ?`,
		followedID.String())
	if err != nil {
		return fmt.Errorf("drop follower count: %w", err)
	}

	return tx.Commit()
}

// FollowedIDs returns the profile ids the given profile follows directly.
// Part of the feed DataProvider surface.
func (db *DB) FollowedIDs(ctx context.Context, profileID uuid.UUID) ([]uuid.UUID, error) {
	defer trackQuery("select", "follows", time.Now())

	query := `SELECT followed_id FROM follows WHERE follower_id = ?`

	rows, err := db.conn.QueryContext(ctx, query, profileID.String())
	if err != nil {
		return nil, fmt.Errorf("select followed ids: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// FollowerIDs returns the profile ids following the given profile.
// Part of the feed DataProvider surface.
func (db *DB) FollowerIDs(ctx context.Context, profileID uuid.UUID) ([]uuid.UUID, error) {
	defer trackQuery("select", "follows", time.Now())

	query := `SELECT follower_id FROM follows WHERE followed_id = ?`

	rows, err := db.conn.QueryContext(ctx, query, profileID.String())
	if err != nil {
		return nil, fmt.Errorf("select follower ids: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// FollowedByProfiles returns the distinct profile ids followed by any of
// the given profiles. Part of the feed DataProvider surface.
func (db *DB) FollowedByProfiles(ctx context.Context, profileIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(profileIDs) == 0 {
		return nil, nil
	}
	defer trackQuery("select", "follows", time.Now())

	query := fmt.Sprintf(
		`SELECT DISTINCT followed_id FROM follows WHERE follower_id IN (%s)`,
		placeholders(len(profileIDs)))

	rows, err := db.conn.QueryContext(ctx, query, idArgs(profileIDs)...)
	if err != nil {
		return nil, fmt.Errorf("select followed-by ids: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// IsFollowing reports whether a follow edge exists.
func (db *DB) IsFollowing(ctx context.Context, followerID, followedID uuid.UUID) (bool, error) {
	defer trackQuery("select", "follows", time.Now())

	query := `SELECT COUNT(1) FROM follows WHERE follower_id = ? AND followed_id = ?`

	var n int
	err := db.conn.QueryRowContext(ctx, query, followerID.String(), followedID.String()).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("select follow edge: %w", err)
	}
	return n > 0, nil
}
