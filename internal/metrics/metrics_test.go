// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordDBQuery(t *testing.T) {
	before := testutil.CollectAndCount(DBQueryDuration)

	RecordDBQuery("select", "posts", 10*time.Millisecond)
	RecordDBQuery("insert", "profiles", 2*time.Millisecond)

	after := testutil.CollectAndCount(DBQueryDuration)
	if after <= before {
		t.Errorf("DBQueryDuration series = %d, want more than %d", after, before)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	RecordAPIRequest("GET", "/api/v1/feed", "200", 25*time.Millisecond)

	got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/feed", "200"))
	if got < 1 {
		t.Errorf("APIRequestsTotal = %v, want >= 1", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	start := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != start+1 {
		t.Errorf("APIActiveRequests after inc = %v, want %v", got, start+1)
	}

	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != start {
		t.Errorf("APIActiveRequests after dec = %v, want %v", got, start)
	}
}

func TestRecordFeedGeneration(t *testing.T) {
	served := testutil.ToFloat64(FeedPostsServed.WithLabelValues("ORGANIZATION"))
	failures := testutil.ToFloat64(FeedGenerationErrors)

	RecordFeedGeneration(15*time.Millisecond, map[string]int{"ORGANIZATION": 3, "FOLLOWED": 5}, nil)

	if got := testutil.ToFloat64(FeedPostsServed.WithLabelValues("ORGANIZATION")); got != served+3 {
		t.Errorf("FeedPostsServed[ORGANIZATION] = %v, want %v", got, served+3)
	}

	RecordFeedGeneration(0, nil, errors.New("provider unavailable"))

	if got := testutil.ToFloat64(FeedGenerationErrors); got != failures+1 {
		t.Errorf("FeedGenerationErrors = %v, want %v", got, failures+1)
	}
	// A failed composition serves nothing.
	if got := testutil.ToFloat64(FeedPostsServed.WithLabelValues("ORGANIZATION")); got != served+3 {
		t.Errorf("FeedPostsServed[ORGANIZATION] after error = %v, want unchanged %v", got, served+3)
	}
}

func TestCacheCounters(t *testing.T) {
	hits := testutil.ToFloat64(CacheHits.WithLabelValues("products"))
	misses := testutil.ToFloat64(CacheMisses.WithLabelValues("products"))

	RecordCacheHit("products")
	RecordCacheMiss("products")
	RecordCacheEviction("products")

	if got := testutil.ToFloat64(CacheHits.WithLabelValues("products")); got != hits+1 {
		t.Errorf("CacheHits = %v, want %v", got, hits+1)
	}
	if got := testutil.ToFloat64(CacheMisses.WithLabelValues("products")); got != misses+1 {
		t.Errorf("CacheMisses = %v, want %v", got, misses+1)
	}
}

func TestMediaBreakerGauge(t *testing.T) {
	SetMediaBreakerOpen(true)
	if got := testutil.ToFloat64(MediaBreakerState); got != 1 {
		t.Errorf("MediaBreakerState open = %v, want 1", got)
	}
	SetMediaBreakerOpen(false)
	if got := testutil.ToFloat64(MediaBreakerState); got != 0 {
		t.Errorf("MediaBreakerState closed = %v, want 0", got)
	}
}
