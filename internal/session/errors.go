// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

package session

// Error codes returned by this package.
const (
	CodeInvalidIdentity = "SESSION_INVALID_IDENTITY"
	CodeLoadFailed      = "SESSION_LOAD_FAILED"
	CodePersistFailed   = "SESSION_PERSIST_FAILED"
	CodeDeleteFailed    = "SESSION_DELETE_FAILED"
	CodeNoPersister     = "SESSION_NO_PERSISTER"
)
