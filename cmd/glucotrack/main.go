// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

// Package main is the entry point for the GlucoTrack client.
package main

import (
	"errors"
	"fmt"
	"os"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd := NewRootCmd()
	cmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)

	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			printError(cmd.ErrOrStderr(), err.Error())
		}
		os.Exit(1)
	}
}
