// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

// Package guard decides, per navigation, whether a page may be shown.
//
// A protected page is rendered only when the session store is resolved and
// holds an identity. While the store is still loading the guard holds the
// request; when no one is signed in it redirects to the login page. The
// decision is taken once per request: a page already served is not
// revoked if the session is cleared afterwards.
package guard

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/samber/oops"

	"github.com/glucotrack/glucotrack/internal/observability"
	"github.com/glucotrack/glucotrack/internal/session"
)

// LoginPath is where unauthenticated visitors are sent.
const LoginPath = "/login"

// Outcome is the kind of a Decision.
type Outcome int

// Decision outcomes.
const (
	Pending Outcome = iota
	Allow
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the result of evaluating one path.
type Decision struct {
	Outcome  Outcome
	Identity string
	Location string
}

// Guard evaluates a Policy against the session store.
type Guard struct {
	policy *Policy
	store  session.Reader
	logger *slog.Logger
}

// Option configures a Guard.
type Option func(*Guard)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Guard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New creates a guard.
func New(policy *Policy, store session.Reader, opts ...Option) (*Guard, error) {
	if policy == nil {
		return nil, oops.In("guard").Errorf("policy is required")
	}
	if store == nil {
		return nil, oops.In("guard").Errorf("session store is required")
	}
	g := &Guard{policy: policy, store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Policy returns the guard's policy.
func (g *Guard) Policy() *Policy {
	return g.policy
}

// Decide evaluates path against the current session state. Public paths
// are always allowed.
func (g *Guard) Decide(path string) Decision {
	identity, present := g.store.Current()
	if !g.policy.RequiresSession(path) {
		if !present {
			identity = ""
		}
		return Decision{Outcome: Allow, Identity: identity}
	}
	if !g.store.Resolved() {
		return Decision{Outcome: Pending}
	}
	if !present {
		return Decision{Outcome: Redirect, Location: LoginPath}
	}
	return Decision{Outcome: Allow, Identity: identity}
}

// Middleware applies Decide to every request. Pending requests wait for
// the store to resolve; a request cancelled while waiting gets 503 with an
// empty body. Protected responses are never cached so a back navigation
// after logout is re-evaluated.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		protected := g.policy.RequiresSession(r.URL.Path)
		d := g.Decide(r.URL.Path)

		if d.Outcome == Pending {
			select {
			case <-g.store.Ready():
				d = g.Decide(r.URL.Path)
			case <-r.Context().Done():
				observability.RecordGuardDecision("cancelled")
				g.logger.DebugContext(r.Context(), "request cancelled while session pending", "path", r.URL.Path)
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}

		if protected {
			w.Header().Set("Cache-Control", "no-store")
			observability.RecordGuardDecision(d.Outcome.String())
		}

		switch d.Outcome {
		case Redirect:
			g.logger.DebugContext(r.Context(), "redirecting to login", "path", r.URL.Path)
			http.Redirect(w, r, d.Location, http.StatusSeeOther)
		default:
			ctx := r.Context()
			if d.Identity != "" {
				ctx = WithIdentity(ctx, d.Identity)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	})
}

type identityKey struct{}

// WithIdentity returns ctx carrying identity.
func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the identity the guard allowed the request with.
func IdentityFromContext(ctx context.Context) (string, bool) {
	identity, ok := ctx.Value(identityKey{}).(string)
	return identity, ok && identity != ""
}

// EmbedURL builds the address of an embedded dashboard view: base joined
// with path, with identity as the username query parameter.
func EmbedURL(base, path, identity string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", oops.In("guard").Code("INVALID_EMBED_URL").With("base", base).Wrap(err)
	}
	if path != "" {
		u = u.JoinPath(path)
	}
	u.RawQuery = url.Values{"username": {identity}}.Encode()
	return u.String(), nil
}
