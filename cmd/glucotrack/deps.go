// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

package main

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/glucotrack/glucotrack/internal/config"
	"github.com/glucotrack/glucotrack/internal/gateway"
	"github.com/glucotrack/glucotrack/internal/logging"
	"github.com/glucotrack/glucotrack/internal/session"
)

// app bundles the components every command shares.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *session.Store
	gateway *gateway.Client
	closers []func() error
}

// loadApp reads configuration and builds the session store and gateway
// client. The store is returned unresolved.
func loadApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(config.LoadOptions{File: configFile, Flags: cmd.Flags()})
	if err != nil {
		return nil, err
	}

	logger, err := logging.Setup("glucotrack", version, logging.Options{
		Format: cfg.Log.Format,
		Level:  cfg.Log.Level,
	}, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	a := &app{cfg: cfg, logger: logger}

	persister, err := a.persister()
	if err != nil {
		return nil, err
	}
	if a.store, err = session.NewStore(persister, session.WithLogger(logger)); err != nil {
		a.close()
		return nil, err
	}

	timeout, err := cfg.APITimeout()
	if err != nil {
		a.close()
		return nil, err
	}
	if a.gateway, err = gateway.NewClient(cfg.API.BaseURL, gateway.WithTimeout(timeout), gateway.WithLogger(logger)); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *app) persister() (session.Persister, error) {
	switch a.cfg.Session.Backend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: a.cfg.Session.RedisAddr})
		a.closers = append(a.closers, client.Close)
		return session.NewRedisPersister(client, a.cfg.Session.RedisKey)
	case config.BackendFile:
		return session.NewFilePersister(a.cfg.Session.File)
	default:
		return nil, oops.Code(config.CodeInvalid).
			With("backend", a.cfg.Session.Backend).
			Errorf("unknown session backend %q", a.cfg.Session.Backend)
	}
}

// initialize resolves the session store. A read failure is logged by the
// store and leaves the user signed out, so it is not fatal here.
func (a *app) initialize(ctx context.Context) {
	_ = a.store.Initialize(ctx)
}

func (a *app) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn("error closing resource", "error", err)
		}
	}
}
