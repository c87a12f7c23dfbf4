// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/glucotrack/glucotrack/internal/nav"
)

// newLogoutCmd creates the logout subcommand.
func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogout(cmd.Context(), cmd)
		},
	}
}

func runLogout(ctx context.Context, cmd *cobra.Command) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	a.initialize(ctx)

	presenter, err := nav.NewPresenter(a.store, a.logger)
	if err != nil {
		return err
	}
	if _, err := presenter.Logout(ctx); err != nil {
		return err
	}

	printSuccess(cmd.OutOrStdout(), "Logged out.")
	return nil
}
