// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/glucotrack/glucotrack/internal/xdg"
)

// flagKeys maps the flags registered by BindFlags to config keys.
var flagKeys = map[string]string{
	"api-url":         "api.base_url",
	"api-timeout":     "api.timeout",
	"addr":            "web.addr",
	"dashboard-url":   "dashboard.url",
	"session-backend": "session.backend",
	"session-file":    "session.file",
	"redis-addr":      "session.redis_addr",
	"redis-key":       "session.redis_key",
	"log-format":      "log.format",
	"log-level":       "log.level",
	"metrics-addr":    "metrics.addr",
}

// BindFlags registers the config override flags on flags, with the built-in
// defaults as flag defaults.
func BindFlags(flags *pflag.FlagSet) {
	d := Default()
	flags.String("api-url", d.API.BaseURL, "base URL of the GlucoTrack service")
	flags.String("api-timeout", d.API.Timeout, "per-request timeout")
	flags.String("addr", d.Web.Addr, "page server listen address")
	flags.String("dashboard-url", d.Dashboard.URL, "embedded dashboard base URL")
	flags.String("session-backend", d.Session.Backend, "session storage: file or redis")
	flags.String("session-file", d.Session.File, "session file (default: XDG state dir)")
	flags.String("redis-addr", d.Session.RedisAddr, "redis address for the redis session backend")
	flags.String("redis-key", d.Session.RedisKey, "redis key holding the username")
	flags.String("log-format", d.Log.Format, "log format: text or json")
	flags.String("log-level", d.Log.Level, "log level: debug, info, warn or error")
	flags.String("metrics-addr", d.Metrics.Addr, "observability server address (empty disables)")
}

// LoadOptions controls Load.
type LoadOptions struct {
	// File is an explicit config file; it must exist. When empty the XDG
	// config file is used if present.
	File string
	// Flags carries overrides registered with BindFlags. May be nil.
	Flags *pflag.FlagSet
}

// Load builds the configuration from defaults, file and flags.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	path, err := resolveFile(opts.File)
	if err != nil {
		return nil, err
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, oops.Code(CodeLoadFailed).With("path", path).Wrap(err)
		}
		if err := ValidateSchema(data); err != nil {
			return nil, oops.With("path", path).Wrap(err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code(CodeLoadFailed).With("path", path).Wrap(err)
		}
	}

	if opts.Flags != nil {
		provider := posflag.ProviderWithFlag(opts.Flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, f.Value.String()
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code(CodeLoadFailed).With("source", "flags").Wrap(err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code(CodeLoadFailed).Wrap(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func resolveFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", oops.Code(CodeLoadFailed).With("path", explicit).Wrap(err)
		}
		return explicit, nil
	}
	path, err := xdg.ConfigFile()
	if err != nil {
		// No HOME: run on defaults and flags.
		return "", nil //nolint:nilerr // a missing default location is not an error
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return "", nil
	} else if err != nil {
		return "", oops.Code(CodeLoadFailed).With("path", path).Wrap(err)
	}
	return path, nil
}
