// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

// Package nav builds the site navigation from the session state and owns
// the logout action.
package nav

import (
	"context"
	"log/slog"

	"github.com/samber/oops"
)

// AfterLogoutPath is where a successful logout navigates to.
const AfterLogoutPath = "/login"

// SessionStore is what the presenter needs from the session store.
type SessionStore interface {
	Current() (string, bool)
	Clear(ctx context.Context) error
}

// Link is one navigation entry.
type Link struct {
	Label string
	Path  string
}

// View is the navigation for one render.
type View struct {
	SignedIn bool
	Username string
	// Banner is empty when nobody is signed in.
	Banner string
	Links  []Link
	// ShowLogout is true exactly when SignedIn is.
	ShowLogout bool
}

var (
	publicLinks = []Link{
		{Label: "Home", Path: "/"},
		{Label: "About", Path: "/about"},
		{Label: "FAQs", Path: "/faq"},
		{Label: "Resources", Path: "/resources"},
		{Label: "Donate", Path: "/donate"},
	}
	memberLinks = []Link{
		{Label: "Dashboard", Path: "/dashboard"},
		{Label: "Leaderboards", Path: "/leaderboard"},
		{Label: "Rewards", Path: "/rewards"},
		{Label: "Profile", Path: "/profile"},
	}
	guestLinks = []Link{
		{Label: "Register", Path: "/register"},
		{Label: "Login", Path: "/login"},
	}
)

// Presenter renders navigation and performs logout.
type Presenter struct {
	store  SessionStore
	logger *slog.Logger
}

// NewPresenter creates a presenter over store.
func NewPresenter(store SessionStore, logger *slog.Logger) (*Presenter, error) {
	if store == nil {
		return nil, oops.In("nav").Errorf("session store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Presenter{store: store, logger: logger}, nil
}

// View returns the navigation for the current session.
func (p *Presenter) View() View {
	identity, present := p.store.Current()
	return Build(identity, present)
}

// Build returns the navigation for the given session state.
func Build(identity string, present bool) View {
	links := make([]Link, 0, len(publicLinks)+len(memberLinks))
	links = append(links, publicLinks...)
	if !present {
		return View{Links: append(links, guestLinks...)}
	}
	return View{
		SignedIn:   true,
		Username:   identity,
		Banner:     "Logged in as: " + identity,
		Links:      append(links, memberLinks...),
		ShowLogout: true,
	}
}

// Logout clears the session and returns the path to navigate to.
// Logging out while signed out succeeds.
func (p *Presenter) Logout(ctx context.Context) (string, error) {
	identity, _ := p.store.Current()
	if err := p.store.Clear(ctx); err != nil {
		return "", oops.In("nav").With("username", identity).Wrap(err)
	}
	p.logger.InfoContext(ctx, "logged out", "username", identity)
	return AfterLogoutPath, nil
}
