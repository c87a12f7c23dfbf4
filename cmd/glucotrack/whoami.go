// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

package main

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"
)

// whoamiConfig holds configuration for the whoami command.
type whoamiConfig struct {
	jsonOutput bool
}

// sessionStatus is the JSON shape printed by whoami --json.
type sessionStatus struct {
	Username *string `json:"username"`
	SignedIn bool    `json:"signed_in"`
}

// newWhoamiCmd creates the whoami subcommand.
func newWhoamiCmd() *cobra.Command {
	cfg := &whoamiConfig{}

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWhoami(cmd.Context(), cfg, cmd)
		},
	}

	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output in JSON format")

	return cmd
}

func runWhoami(ctx context.Context, cfg *whoamiConfig, cmd *cobra.Command) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	a.initialize(ctx)

	identity, present := a.store.Current()

	if cfg.jsonOutput {
		status := sessionStatus{SignedIn: present}
		if present {
			status.Username = &identity
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}

	if !present {
		printInfo(cmd.OutOrStdout(), "Not logged in.")
		return nil
	}
	printSuccess(cmd.OutOrStdout(), "Logged in as: %s", identity)
	return nil
}
