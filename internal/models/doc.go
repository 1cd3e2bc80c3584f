// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

// Package models defines the shared data structures exchanged between the
// storage layer, the feed engine, and the HTTP API: profiles, posts,
// events, marketplace products, and the standard API response envelope.
//
// Models carry no behaviour beyond small accessors; business logic lives
// in the packages that consume them.
package models
