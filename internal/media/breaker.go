// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

package media

import (
	"context"
	"errors"
	"io"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/muralsocial/mural/internal/config"
	"github.com/muralsocial/mural/internal/logging"
	"github.com/muralsocial/mural/internal/metrics"
)

// ErrUnavailable is returned while the circuit breaker is open.
var ErrUnavailable = errors.New("media: store unavailable")

// BreakerStore wraps a Store with a circuit breaker. Consecutive
// failures trip the breaker; while open, calls fail fast with
// ErrUnavailable instead of hitting the backing store.
//
// Lookup misses and key validation failures are expected outcomes and
// do not count as store failures.
type BreakerStore struct {
	inner Store
	cb    *gobreaker.CircuitBreaker[io.ReadCloser]
}

// NewBreakerStore wraps the store using the configured thresholds.
func NewBreakerStore(inner Store, cfg *config.MediaConfig) *BreakerStore {
	maxFailures := cfg.BreakerMaxFailures

	cb := gobreaker.NewCircuitBreaker[io.ReadCloser](gobreaker.Settings{
		Name:    "media-store",
		Timeout: cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Media store breaker state change")
			metrics.SetMediaBreakerOpen(to == gobreaker.StateOpen)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidKey)
		},
	})

	return &BreakerStore{inner: inner, cb: cb}
}

// Put stores an object through the breaker.
func (s *BreakerStore) Put(ctx context.Context, key string, r io.Reader) error {
	_, err := s.cb.Execute(func() (io.ReadCloser, error) {
		return nil, s.inner.Put(ctx, key, r)
	})
	recordOutcome("put", err)
	return mapBreakerErr(err)
}

// Get opens an object through the breaker.
func (s *BreakerStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := s.cb.Execute(func() (io.ReadCloser, error) {
		return s.inner.Get(ctx, key)
	})
	recordOutcome("get", err)
	return rc, mapBreakerErr(err)
}

// Delete removes an object through the breaker.
func (s *BreakerStore) Delete(ctx context.Context, key string) error {
	_, err := s.cb.Execute(func() (io.ReadCloser, error) {
		return nil, s.inner.Delete(ctx, key)
	})
	recordOutcome("delete", err)
	return mapBreakerErr(err)
}

func mapBreakerErr(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrUnavailable
	}
	return err
}

func recordOutcome(operation string, err error) {
	switch {
	case err == nil:
		metrics.RecordMediaOperation(operation, "ok")
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordMediaOperation(operation, "rejected")
	default:
		metrics.RecordMediaOperation(operation, "error")
	}
}
