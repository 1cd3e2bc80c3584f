// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/muralsocial/mural/internal/models"
)

// postColumns selects a post joined with its (possibly deleted) author.
// The LEFT JOIN keeps posts whose author row is soft-deleted: those posts
// surface with an unresolved author and the feed engine classifies them
// accordingly.
const postColumns = `p.id, p.author_id, p.body, p.image_key, p.like_count, p.created_at,
	a.id, a.handle, a.display_name, a.kind, a.avatar_key`

const postJoin = `FROM posts p
	LEFT JOIN profiles a ON a.id = p.author_id AND a.deleted_at IS NULL`

// CreatePost inserts a new post.
func (db *DB) CreatePost(ctx context.Context, post *models.Post) error {
	defer trackQuery("insert", "posts", time.Now())

	query := `INSERT INTO posts (id, author_id, body, image_key, created_at)
		VALUES (?, ?, ?, ?, ?)`

	_, err := db.conn.ExecContext(ctx, query,
		post.ID.String(), post.AuthorID.String(), post.Body, post.ImageKey, post.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

// GetPost returns a live post by id with its author summary.
func (db *DB) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	defer trackQuery("select", "posts", time.Now())

	query := fmt.Sprintf(`SELECT %s %s WHERE p.id = ? AND p.deleted_at IS NULL`, postColumns, postJoin)

	rows, err := db.conn.QueryContext(ctx, query, id.String())
	if err != nil {
		return nil, fmt.Errorf("select post: %w", err)
	}
	defer rows.Close()

	posts, err := scanPosts(rows)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, ErrNotFound
	}
	return &posts[0], nil
}

// DeletePost soft-deletes a post owned by the given author.
func (db *DB) DeletePost(ctx context.Context, id, authorID uuid.UUID) error {
	defer trackQuery("update", "posts", time.Now())

	query := `UPDATE posts SET deleted_at = ?
		WHERE id = ? AND author_id = ? AND deleted_at IS NULL`

	res, err := db.conn.ExecContext(ctx, query, time.Now().UTC(), id.String(), authorID.String())
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return requireRow(res)
}

// PostsByAuthors returns up to limit live posts authored by any of the
// given profiles, most recent first. Part of the feed DataProvider surface.
func (db *DB) PostsByAuthors(ctx context.Context, authorIDs []uuid.UUID, limit int) ([]models.Post, error) {
	if len(authorIDs) == 0 || limit <= 0 {
		return nil, nil
	}
	defer trackQuery("select", "posts", time.Now())

	query := fmt.Sprintf(`SELECT %s %s
		WHERE p.deleted_at IS NULL AND p.author_id IN (%s)
		ORDER BY p.created_at DESC LIMIT ?`,
		postColumns, postJoin, placeholders(len(authorIDs)))

	args := append(idArgs(authorIDs), limit)
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select posts by authors: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

// OrganizationPosts is PostsByAuthors restricted to organization authors.
// Part of the feed DataProvider surface.
func (db *DB) OrganizationPosts(ctx context.Context, authorIDs []uuid.UUID, limit int) ([]models.Post, error) {
	if len(authorIDs) == 0 || limit <= 0 {
		return nil, nil
	}
	defer trackQuery("select", "posts", time.Now())

	query := fmt.Sprintf(`SELECT %s %s
		WHERE p.deleted_at IS NULL AND p.author_id IN (%s) AND a.kind = 'organization'
		ORDER BY p.created_at DESC LIMIT ?`,
		postColumns, postJoin, placeholders(len(authorIDs)))

	args := append(idArgs(authorIDs), limit)
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select organization posts: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

// RecentPostsExcluding returns up to limit recent live posts whose authors
// are not in the excluded set. Part of the feed DataProvider surface.
func (db *DB) RecentPostsExcluding(ctx context.Context, excludedAuthorIDs []uuid.UUID, limit int) ([]models.Post, error) {
	if limit <= 0 {
		return nil, nil
	}
	defer trackQuery("select", "posts", time.Now())

	var query string
	var args []interface{}
	if len(excludedAuthorIDs) == 0 {
		query = fmt.Sprintf(`SELECT %s %s
			WHERE p.deleted_at IS NULL
			ORDER BY p.created_at DESC LIMIT ?`, postColumns, postJoin)
		args = []interface{}{limit}
	} else {
		query = fmt.Sprintf(`SELECT %s %s
			WHERE p.deleted_at IS NULL AND p.author_id NOT IN (%s)
			ORDER BY p.created_at DESC LIMIT ?`,
			postColumns, postJoin, placeholders(len(excludedAuthorIDs)))
		args = append(idArgs(excludedAuthorIDs), limit)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select recent posts: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

// LikePost records a like and bumps the denormalized counter.
// Returns ErrDuplicate when the profile already liked the post.
func (db *DB) LikePost(ctx context.Context, postID, profileID uuid.UUID) error {
	defer trackQuery("insert", "likes", time.Now())

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin like tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO likes (post_id, profile_id, created_at) VALUES (?, ?, ?)`,
		postID.String(), profileID.String(), time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert like: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE posts SET like_count = like_count + 1 WHERE id = ? AND deleted_at IS NULL`,
		postID.String())
	if err != nil {
		return fmt.Errorf("bump like count: %w", err)
	}
	if err := requireRow(res); err != nil {
		return err
	}

	return tx.Commit()
}

// UnlikePost removes a like and decrements the counter.
func (db *DB) UnlikePost(ctx context.Context, postID, profileID uuid.UUID) error {
	defer trackQuery("delete", "likes", time.Now())

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin unlike tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM likes WHERE post_id = ? AND profile_id = ?`,
		postID.String(), profileID.String())
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	if err := requireRow(res); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE posts SET like_count = MAX(like_count - 1, 0) WHERE id = ?`,
		postID.String())
	if err != nil {
		return fmt.Errorf("drop like count: %w", err)
	}

	return tx.Commit()
}

// scanPosts drains a post result set.
func scanPosts(rows *sql.Rows) ([]models.Post, error) {
	var posts []models.Post
	for rows.Next() {
		var p models.Post
		var rawID, rawAuthorID string
		var aID, aHandle, aDisplayName, aKind, aAvatarKey sql.NullString

		err := rows.Scan(&rawID, &rawAuthorID, &p.Body, &p.ImageKey, &p.LikeCount, &p.CreatedAt,
			&aID, &aHandle, &aDisplayName, &aKind, &aAvatarKey)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}

		p.ID, err = uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("parse post id: %w", err)
		}
		p.AuthorID, err = uuid.Parse(rawAuthorID)
		if err != nil {
			return nil, fmt.Errorf("parse author id: %w", err)
		}

		if aID.Valid {
			authorID, err := uuid.Parse(aID.String)
			if err != nil {
				return nil, fmt.Errorf("parse author summary id: %w", err)
			}
			p.Author = &models.ProfileSummary{
				ID:          authorID,
				Handle:      aHandle.String,
				DisplayName: aDisplayName.String,
				Kind:        models.ProfileKind(aKind.String),
				AvatarKey:   aAvatarKey.String,
			}
		}

		posts = append(posts, p)
	}
	return posts, rows.Err()
}
