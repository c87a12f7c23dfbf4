// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

// Package session holds the client's single process-wide identity.
//
// # Lifecycle
//
// A Store starts Pending. Initialize reads the persisted username once and
// resolves the store; a stored value is adopted as-is, without asking the
// backend whether it is still valid. Set and Clear write the persisted copy
// before the in-memory value changes, and subscribers are notified only after
// both agree. There is no expiry: a session lasts until it is cleared.
//
// # Persistence
//
// A Persister owns exactly one value: the plain username. FilePersister keeps
// it in a file under the XDG state directory; RedisPersister keeps it under a
// single Redis key.
package session
