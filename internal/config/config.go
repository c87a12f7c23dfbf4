// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

// Package config loads GlucoTrack settings.
//
// Values are layered: built-in defaults, then the YAML config file, then
// command-line flags the user actually set. The file is checked against
// the JSON schema generated from Config before it is loaded.
package config

import (
	"net/url"
	"time"

	"github.com/samber/oops"
)

// Error codes returned by this package.
const (
	CodeInvalid       = "CONFIG_INVALID"
	CodeLoadFailed    = "CONFIG_LOAD_FAILED"
	CodeSchemaInvalid = "CONFIG_SCHEMA_INVALID"
)

// Session backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config is the full client configuration.
type Config struct {
	API       APIConfig       `koanf:"api" yaml:"api" json:"api,omitempty"`
	Web       WebConfig       `koanf:"web" yaml:"web" json:"web,omitempty"`
	Dashboard DashboardConfig `koanf:"dashboard" yaml:"dashboard" json:"dashboard,omitempty"`
	Session   SessionConfig   `koanf:"session" yaml:"session" json:"session,omitempty"`
	Log       LogConfig       `koanf:"log" yaml:"log" json:"log,omitempty"`
	Metrics   MetricsConfig   `koanf:"metrics" yaml:"metrics" json:"metrics,omitempty"`
}

// APIConfig locates the remote GlucoTrack service.
type APIConfig struct {
	BaseURL string `koanf:"base_url" yaml:"base_url" json:"base_url,omitempty" jsonschema:"description=Base URL of the GlucoTrack service,format=uri"`
	Timeout string `koanf:"timeout" yaml:"timeout" json:"timeout,omitempty" jsonschema:"description=Per-request timeout as a Go duration such as 10s"`
}

// WebConfig controls the local page server.
type WebConfig struct {
	Addr string `koanf:"addr" yaml:"addr" json:"addr,omitempty" jsonschema:"description=Listen address of the page server"`
}

// DashboardConfig locates the embedded dashboard views.
type DashboardConfig struct {
	URL string `koanf:"url" yaml:"url" json:"url,omitempty" jsonschema:"description=Base URL of the embedded dashboard,format=uri"`
}

// SessionConfig selects where the signed-in username is kept.
type SessionConfig struct {
	Backend   string `koanf:"backend" yaml:"backend" json:"backend,omitempty" jsonschema:"enum=file,enum=redis"`
	File      string `koanf:"file" yaml:"file" json:"file,omitempty" jsonschema:"description=Session file path; empty means the XDG state directory"`
	RedisAddr string `koanf:"redis_addr" yaml:"redis_addr" json:"redis_addr,omitempty"`
	RedisKey  string `koanf:"redis_key" yaml:"redis_key" json:"redis_key,omitempty"`
}

// LogConfig controls log output.
type LogConfig struct {
	Format string `koanf:"format" yaml:"format" json:"format,omitempty" jsonschema:"enum=text,enum=json"`
	Level  string `koanf:"level" yaml:"level" json:"level,omitempty" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
}

// MetricsConfig controls the observability server. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `koanf:"addr" yaml:"addr" json:"addr,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL: "http://127.0.0.1:5000",
			Timeout: "10s",
		},
		Web:       WebConfig{Addr: "127.0.0.1:3000"},
		Dashboard: DashboardConfig{URL: "http://127.0.0.1:5000/dashboard/"},
		Session: SessionConfig{
			Backend:   BackendFile,
			RedisAddr: "127.0.0.1:6379",
			RedisKey:  "glucotrack:username",
		},
		Log: LogConfig{Format: "text", Level: "info"},
	}
}

// APITimeout returns the parsed request timeout.
func (c *Config) APITimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 0, oops.Code(CodeInvalid).With("key", "api.timeout").With("value", c.API.Timeout).Wrap(err)
	}
	if d <= 0 {
		return 0, oops.Code(CodeInvalid).With("key", "api.timeout").Errorf("api.timeout must be positive")
	}
	return d, nil
}

// Validate checks values the schema cannot express, and flag overrides the
// schema never saw.
func (c *Config) Validate() error {
	for key, raw := range map[string]string{
		"api.base_url":  c.API.BaseURL,
		"dashboard.url": c.Dashboard.URL,
	} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return oops.Code(CodeInvalid).With("key", key).With("value", raw).
				Errorf("%s must be an absolute http(s) url", key)
		}
	}
	if _, err := c.APITimeout(); err != nil {
		return err
	}
	if c.Web.Addr == "" {
		return oops.Code(CodeInvalid).With("key", "web.addr").Errorf("web.addr is required")
	}
	switch c.Session.Backend {
	case BackendFile:
	case BackendRedis:
		if c.Session.RedisAddr == "" {
			return oops.Code(CodeInvalid).With("key", "session.redis_addr").
				Errorf("session.redis_addr is required for the redis backend")
		}
	default:
		return oops.Code(CodeInvalid).With("key", "session.backend").With("value", c.Session.Backend).
			Errorf("session.backend must be %q or %q", BackendFile, BackendRedis)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return oops.Code(CodeInvalid).With("key", "log.format").With("value", c.Log.Format).
			Errorf("log.format must be text or json")
	}
	return nil
}
