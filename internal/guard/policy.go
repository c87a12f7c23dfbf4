// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

package guard

import (
	"github.com/gobwas/glob"
	"github.com/samber/oops"
)

// Rule marks the paths matching Pattern as public or protected.
// Patterns use '/' as separator: "*" matches one segment, "**" any depth.
type Rule struct {
	Pattern         string
	RequiresSession bool
}

type compiledRule struct {
	Rule
	glob glob.Glob
}

// Policy decides which paths need a session. The first matching rule wins;
// paths no rule matches are public.
type Policy struct {
	rules []compiledRule
}

// DefaultRules lists the GlucoTrack pages.
func DefaultRules() []Rule {
	return []Rule{
		{Pattern: "/dashboard", RequiresSession: true},
		{Pattern: "/profile", RequiresSession: true},
		{Pattern: "/rewards", RequiresSession: true},
		{Pattern: "/leaderboard", RequiresSession: true},
		{Pattern: "/", RequiresSession: false},
		{Pattern: "/{about,faq,resources,donate}", RequiresSession: false},
		{Pattern: "/{login,register,logout}", RequiresSession: false},
		{Pattern: "/static/**", RequiresSession: false},
		{Pattern: "/api/**", RequiresSession: false},
	}
}

// NewPolicy compiles rules.
func NewPolicy(rules []Rule) (*Policy, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		g, err := glob.Compile(r.Pattern, '/')
		if err != nil {
			return nil, oops.In("guard").
				Code("INVALID_ROUTE_PATTERN").
				With("pattern", r.Pattern).
				Wrap(err)
		}
		compiled = append(compiled, compiledRule{Rule: r, glob: g})
	}
	return &Policy{rules: compiled}, nil
}

// DefaultPolicy returns the compiled DefaultRules.
//
// Panics if a default pattern is invalid.
func DefaultPolicy() *Policy {
	p, err := NewPolicy(DefaultRules())
	if err != nil {
		panic("invalid route pattern in DefaultRules: " + err.Error())
	}
	return p
}

// RequiresSession reports whether path is protected.
func (p *Policy) RequiresSession(path string) bool {
	for _, r := range p.rules {
		if r.glob.Match(path) {
			return r.RequiresSession
		}
	}
	return false
}
