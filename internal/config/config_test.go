// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glucotrack/glucotrack/internal/config"
	"github.com/glucotrack/glucotrack/pkg/errutil"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.BindFlags(flags)
	flags.String("unrelated", "", "not a config flag")
	require.NoError(t, flags.Parse(args))
	return flags
}

func isolateXDG(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	isolateXDG(t)

	cfg, err := config.Load(config.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, config.Default(), *cfg)

	timeout, err := cfg.APITimeout()
	require.NoError(t, err)
	assert.Equal(t, "10s", timeout.String())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	isolateXDG(t)
	path := writeConfig(t, `
api:
  base_url: https://api.glucotrack.example
session:
  backend: redis
  redis_key: gt:user
`)

	cfg, err := config.Load(config.LoadOptions{File: path})
	require.NoError(t, err)
	assert.Equal(t, "https://api.glucotrack.example", cfg.API.BaseURL)
	assert.Equal(t, config.BackendRedis, cfg.Session.Backend)
	assert.Equal(t, "gt:user", cfg.Session.RedisKey)
	assert.Equal(t, "127.0.0.1:6379", cfg.Session.RedisAddr)
	assert.Equal(t, "127.0.0.1:3000", cfg.Web.Addr)
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	isolateXDG(t)
	path := writeConfig(t, `
web:
  addr: 127.0.0.1:4000
log:
  format: json
`)
	flags := newFlags(t, "--addr", "127.0.0.1:5555", "--unrelated", "x")

	cfg, err := config.Load(config.LoadOptions{File: path, Flags: flags})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:5555", cfg.Web.Addr)
	assert.Equal(t, "json", cfg.Log.Format, "unchanged flag must not override the file")
}

func TestLoad_FlagsWithoutFile(t *testing.T) {
	isolateXDG(t)
	flags := newFlags(t, "--session-backend", "redis", "--redis-addr", "10.0.0.5:6379", "--api-timeout", "3s")

	cfg, err := config.Load(config.LoadOptions{Flags: flags})
	require.NoError(t, err)
	assert.Equal(t, config.BackendRedis, cfg.Session.Backend)
	assert.Equal(t, "10.0.0.5:6379", cfg.Session.RedisAddr)
	assert.Equal(t, "3s", cfg.API.Timeout)
	assert.Equal(t, "http://127.0.0.1:5000", cfg.API.BaseURL)
}

func TestLoad_XDGConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "glucotrack"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "glucotrack", "config.yaml"),
		[]byte("metrics:\n  addr: 127.0.0.1:9100\n"), 0o600))

	cfg, err := config.Load(config.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9100", cfg.Metrics.Addr)
}

func TestLoad_Errors(t *testing.T) {
	isolateXDG(t)

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := config.Load(config.LoadOptions{File: filepath.Join(t.TempDir(), "nope.yaml")})
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, config.CodeLoadFailed)
	})

	t.Run("unknown key rejected by schema", func(t *testing.T) {
		_, err := config.Load(config.LoadOptions{File: writeConfig(t, "api:\n  base_uri: http://x\n")})
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, config.CodeInvalid)
	})

	t.Run("bad enum rejected by schema", func(t *testing.T) {
		_, err := config.Load(config.LoadOptions{File: writeConfig(t, "session:\n  backend: sqlite\n")})
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, config.CodeInvalid)
	})

	t.Run("bad flag value rejected by validation", func(t *testing.T) {
		_, err := config.Load(config.LoadOptions{Flags: newFlags(t, "--session-backend", "sqlite")})
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, config.CodeInvalid)
	})

	t.Run("bad timeout", func(t *testing.T) {
		_, err := config.Load(config.LoadOptions{Flags: newFlags(t, "--api-timeout", "soon")})
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, config.CodeInvalid)
	})

	t.Run("relative api url", func(t *testing.T) {
		_, err := config.Load(config.LoadOptions{Flags: newFlags(t, "--api-url", "localhost:5000")})
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, config.CodeInvalid)
	})
}

func TestGenerateSchema(t *testing.T) {
	data, err := config.GenerateSchema()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(data, &schema))
	assert.Equal(t, config.SchemaID, schema["$id"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	for _, key := range []string{"api", "web", "dashboard", "session", "log", "metrics"} {
		assert.Contains(t, props, key)
	}
	assert.NotContains(t, schema, "required")
}

func TestValidateSchema(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{"empty", "", false},
		{"full", "api:\n  base_url: http://127.0.0.1:5000\n  timeout: 5s\nlog:\n  format: json\n  level: debug\n", false},
		{"wrong type", "api:\n  timeout: 10\n", true},
		{"unknown section", "database:\n  url: x\n", true},
		{"not yaml", "api: [\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := config.ValidateSchema([]byte(tt.yaml))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
