// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

// Package gateway talks to the remote GlucoTrack service.
//
// Every exchange ends in exactly one of: success, a local validation
// rejection (nothing is sent), a rejection reported by the service, or a
// transport failure. Failures are oops errors carrying one of the Code*
// constants; Classify and UserMessage turn them into something a page or a
// terminal can show. The client never retries.
package gateway
