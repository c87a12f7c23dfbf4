// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

// Package validation checks registration and login input before any network
// call is made.
//
// Checks are expressed as ordered lists of named rules. Evaluation stops at
// the first failing rule and yields a single Result carrying one reason and
// one user-facing message; there is no per-field error map.
//
// Registration priority: required fields, first name, last name, password,
// email, phone, age. Login: username length, password length.
package validation
