// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

package nav_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glucotrack/glucotrack/internal/nav"
	"github.com/glucotrack/glucotrack/internal/session"
)

type failingStore struct{}

func (failingStore) Current() (string, bool) { return "alice", true }
func (failingStore) Clear(context.Context) error { return errors.New("disk full") }

func labels(links []nav.Link) []string {
	out := make([]string, 0, len(links))
	for _, l := range links {
		out = append(out, l.Label)
	}
	return out
}

func newPresenter(t *testing.T) (*nav.Presenter, *session.Store) {
	t.Helper()
	p, err := session.NewFilePersister(filepath.Join(t.TempDir(), "username"))
	require.NoError(t, err)
	store, err := session.NewStore(p)
	require.NoError(t, err)
	require.NoError(t, store.Initialize(context.Background()))
	presenter, err := nav.NewPresenter(store, nil)
	require.NoError(t, err)
	return presenter, store
}

func TestNewPresenter_NilStore(t *testing.T) {
	p, err := nav.NewPresenter(nil, nil)
	require.Error(t, err)
	assert.Nil(t, p)
}

func TestPresenter_View(t *testing.T) {
	presenter, store := newPresenter(t)

	t.Run("signed out", func(t *testing.T) {
		v := presenter.View()
		assert.False(t, v.SignedIn)
		assert.Empty(t, v.Banner)
		assert.False(t, v.ShowLogout)
		assert.Equal(t, []string{"Home", "About", "FAQs", "Resources", "Donate", "Register", "Login"}, labels(v.Links))
	})

	t.Run("signed in", func(t *testing.T) {
		require.NoError(t, store.Set(context.Background(), "alice"))
		v := presenter.View()
		assert.True(t, v.SignedIn)
		assert.Equal(t, "Logged in as: alice", v.Banner)
		assert.True(t, v.ShowLogout)
		assert.Equal(t,
			[]string{"Home", "About", "FAQs", "Resources", "Donate", "Dashboard", "Leaderboards", "Rewards", "Profile"},
			labels(v.Links))
		assert.Contains(t, v.Links, nav.Link{Label: "Leaderboards", Path: "/leaderboard"})
	})
}

func TestBuild_DoesNotShareBackingArrays(t *testing.T) {
	a := nav.Build("", false)
	b := nav.Build("bob", true)
	a.Links[0].Label = "changed"
	assert.Equal(t, "Home", b.Links[0].Label)
	assert.Equal(t, "Home", nav.Build("", false).Links[0].Label)
}

func TestPresenter_Logout(t *testing.T) {
	ctx := context.Background()
	presenter, store := newPresenter(t)
	require.NoError(t, store.Set(ctx, "alice"))

	next, err := presenter.Logout(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/login", next)
	_, present := store.Current()
	assert.False(t, present)
	assert.False(t, presenter.View().SignedIn)

	next, err = presenter.Logout(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/login", next)
}

func TestPresenter_LogoutFailure(t *testing.T) {
	presenter, err := nav.NewPresenter(failingStore{}, nil)
	require.NoError(t, err)

	next, err := presenter.Logout(context.Background())
	require.Error(t, err)
	assert.Empty(t, next)
}
