// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

package validation

import "github.com/samber/oops"

// Reason identifies which rule rejected the input. It doubles as the oops
// error code returned by Result.Err.
type Reason string

// Result is the outcome of one validation cycle. The zero value is valid.
type Result struct {
	Reason  Reason
	Message string
}

// Valid reports whether every rule passed.
func (r Result) Valid() bool {
	return r.Reason == ""
}

// Err returns nil for a valid result and an oops error coded with the
// reason otherwise. The error text is the user-facing message.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return oops.Code(string(r.Reason)).Errorf("%s", r.Message)
}

// Rule is a single named check over input of type T.
type Rule[T any] struct {
	Name    string
	Reason  Reason
	Message string
	Pass    func(T) bool
}

// Check runs the rule alone.
func (r Rule[T]) Check(in T) Result {
	if r.Pass(in) {
		return Result{}
	}
	return Result{Reason: r.Reason, Message: r.Message}
}

// Evaluate runs rules in order and returns the first failure.
func Evaluate[T any](rules []Rule[T], in T) Result {
	for _, rule := range rules {
		if res := rule.Check(in); !res.Valid() {
			return res
		}
	}
	return Result{}
}
