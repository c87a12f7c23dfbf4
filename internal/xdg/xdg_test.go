// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

package xdg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glucotrack/glucotrack/pkg/errutil"
)

func TestConfigDir(t *testing.T) {
	t.Run("honours XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		got, err := ConfigDir()
		require.NoError(t, err)
		assert.Equal(t, "/custom/config/glucotrack", got)
	})

	t.Run("falls back to HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("HOME", "/home/testuser")
		got, err := ConfigDir()
		require.NoError(t, err)
		assert.Equal(t, "/home/testuser/.config/glucotrack", got)
	})

	t.Run("errors without HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("HOME", "")
		_, err := ConfigDir()
		errutil.AssertErrorCode(t, err, "XDG_NO_HOME")
	})
}

func TestStateDir(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("HOME", "/home/testuser")
	got, err := StateDir()
	require.NoError(t, err)
	assert.Equal(t, "/home/testuser/.local/state/glucotrack", got)
}

func TestSessionFile(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/var/state")
	got, err := SessionFile()
	require.NoError(t, err)
	assert.Equal(t, "/var/state/glucotrack/username", got)
}

func TestConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/etc/xdg")
	got, err := ConfigFile()
	require.NoError(t, err)
	assert.Equal(t, "/etc/xdg/glucotrack/config.yaml", got)
}

func TestEnsureDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b")

	require.NoError(t, EnsureDir(path))
	require.NoError(t, EnsureDir(path), "second call should be a no-op")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
}
