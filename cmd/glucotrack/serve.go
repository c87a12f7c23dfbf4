// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/glucotrack/glucotrack/internal/observability"
	"github.com/glucotrack/glucotrack/internal/web"
)

// shutdownTimeout bounds graceful shutdown of the HTTP servers.
const shutdownTimeout = 5 * time.Second

// newServeCmd creates the serve subcommand.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the GlucoTrack pages",
		Long: `Serve the GlucoTrack pages on the configured address. The stored
session is restored in the background; protected pages wait for it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cmd)
		},
	}
}

// runServe starts the page server and, when configured, the observability
// server, then blocks until a shutdown signal or context cancellation.
func runServe(ctx context.Context, cmd *cobra.Command) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	slog.Info("starting glucotrack",
		"web_addr", a.cfg.Web.Addr,
		"api_url", a.cfg.API.BaseURL,
		"session_backend", a.cfg.Session.Backend,
	)

	srv, err := web.NewServer(web.Config{
		Addr:         a.cfg.Web.Addr,
		DashboardURL: a.cfg.Dashboard.URL,
	}, a.store, a.gateway, web.WithLogger(a.logger))
	if err != nil {
		return err
	}

	webErrs, err := srv.Start()
	if err != nil {
		return fmt.Errorf("failed to start page server: %w", err)
	}

	var obsServer *observability.Server
	if a.cfg.Metrics.Addr != "" {
		obsServer = observability.NewServer(a.cfg.Metrics.Addr, a.store.Resolved)
		stopTracking := obsServer.Metrics().TrackSession(a.store)
		defer stopTracking()
		if _, err = obsServer.Start(); err != nil {
			stopServers(srv, nil)
			return fmt.Errorf("failed to start observability server: %w", err)
		}
	}

	// Restore after the listener is up so early requests see the pending state.
	go a.initialize(ctx)

	printSuccess(cmd.OutOrStdout(), "GlucoTrack running at http://%s", srv.Addr())
	if obsServer != nil {
		printInfo(cmd.OutOrStdout(), "Metrics at http://%s/metrics", obsServer.Addr())
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var serveErr error
	select {
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	case serveErr = <-webErrs:
		slog.Error("page server failed", "error", serveErr)
	}

	stopServers(srv, obsServer)
	slog.Info("shutdown complete")
	if serveErr != nil {
		return fmt.Errorf("page server failed: %w", serveErr)
	}
	return nil
}

func stopServers(srv *web.Server, obsServer *observability.Server) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Warn("error stopping page server", "error", err)
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			slog.Warn("error stopping observability server", "error", err)
		}
	}
}
