// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

// Package feed implements the feed-generation and ranking engine.
//
// The Composer assembles a personalized, paginated, de-duplicated stream of
// posts from four heterogeneous candidate sources:
//
//  1. Profiles the requester follows directly (with a per-author fan-out cap)
//  2. Second-degree connections (followed by the requester's followers)
//  3. Organization profiles
//  4. A recency-based discovery pool that absorbs any shortfall
//
// Every surviving candidate is classified by provenance (organization >
// followed > second-degree > popular > random, first match wins), scored by
// a recency-plus-engagement function, sorted by descending score with a
// created-at tie-break, and sliced into the requested page window.
//
// The engine is a pure computation over data fetched through the
// DataProvider interface. It holds no caches and no shared mutable state;
// a Composer is safe for concurrent use because every Generate call works
// exclusively on request-local data.
//
// Note: this package has no dependencies on other internal packages except
// models. The DataProvider interface allows integration with the database
// package without creating circular imports.
package feed
