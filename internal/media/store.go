// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

// Package media provides the object store for post and avatar images.
// The default implementation writes to the local filesystem; all access
// goes through a circuit breaker so a failing disk degrades image
// endpoints without taking the rest of the API down.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Sentinel errors returned by stores.
var (
	// ErrNotFound indicates the object does not exist.
	ErrNotFound = errors.New("media: not found")

	// ErrInvalidKey indicates a malformed or unsafe object key.
	ErrInvalidKey = errors.New("media: invalid key")
)

// Store is the object-store surface used by the media endpoints.
type Store interface {
	// Put stores the object under key, overwriting any previous object.
	Put(ctx context.Context, key string, r io.Reader) error

	// Get opens the object for reading. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object. Deleting a missing key returns
	// ErrNotFound.
	Delete(ctx context.Context, key string) error
}

// NewKey generates an object key for an upload with the given file
// extension (without dot). Keys shard into 256 prefix directories to
// keep directory listings bounded.
func NewKey(ext string) string {
	id := uuid.New().String()
	if ext == "" {
		return id[:2] + "/" + id
	}
	return id[:2] + "/" + id + "." + strings.ToLower(ext)
}

// validKey rejects empty keys and anything that could escape the store
// root via path traversal.
func validKey(key string) bool {
	if key == "" || strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return false
	}
	return key == filepath.ToSlash(filepath.Clean(key))
}

// LocalStore is a filesystem-backed Store rooted at a single directory.
type LocalStore struct {
	root string
}

// NewLocalStore creates the root directory if missing and returns the
// store.
func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create media root %s: %w", root, err)
	}
	return &LocalStore{root: root}, nil
}

// Put writes the object atomically: content lands in a temp file that is
// renamed into place, so readers never observe partial writes.
func (s *LocalStore) Put(ctx context.Context, key string, r io.Reader) error {
	if !validKey(key) {
		return ErrInvalidKey
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create object directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp object: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write object %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close object %s: %w", key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("publish object %s: %w", key, err)
	}
	return nil
}

// Get opens the stored object.
func (s *LocalStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if !validKey(key) {
		return nil, ErrInvalidKey
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(key)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open object %s: %w", key, err)
	}
	return f, nil
}

// Delete removes the stored object.
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	if !validKey(key) {
		return ErrInvalidKey
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(key)))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}
