// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/glucotrack/glucotrack/internal/gateway"
)

// loginConfig holds configuration for the login command.
type loginConfig struct {
	username string
	password string
}

// newLoginCmd creates the login subcommand.
func newLoginCmd() *cobra.Command {
	cfg := &loginConfig{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogin(cmd.Context(), cfg, cmd)
		},
	}

	cmd.Flags().StringVarP(&cfg.username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&cfg.password, "password", "p", "", "password")

	return cmd
}

func runLogin(ctx context.Context, cfg *loginConfig, cmd *cobra.Command) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	a.initialize(ctx)

	identity, err := a.gateway.Login(ctx, cfg.username, cfg.password)
	if err != nil {
		printError(cmd.ErrOrStderr(), gateway.UserMessage(err))
		return errReported
	}
	if err := a.store.Set(ctx, identity); err != nil {
		return err
	}

	printSuccess(cmd.OutOrStdout(), "Logged in as: %s", identity)
	return nil
}
