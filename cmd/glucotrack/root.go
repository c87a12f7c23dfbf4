// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/glucotrack/glucotrack/internal/config"
)

// Global flags available to all subcommands.
var configFile string

// errReported marks a failure whose message was already shown to the user.
var errReported = errors.New("reported")

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	infoColor    = color.New(color.FgCyan)
)

// NewRootCmd creates the root command for the GlucoTrack CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "glucotrack",
		Short: "GlucoTrack - diabetes management client",
		Long: `GlucoTrack is a client for the GlucoTrack diabetes-management service.
Run "glucotrack serve" for the web pages, or use the login, register,
logout and whoami commands from the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	config.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newRegisterCmd())
	cmd.AddCommand(newLogoutCmd())
	cmd.AddCommand(newWhoamiCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

func printSuccess(w io.Writer, format string, args ...any) {
	_, _ = successColor.Fprintln(w, fmt.Sprintf(format, args...))
}

func printInfo(w io.Writer, format string, args ...any) {
	_, _ = infoColor.Fprintln(w, fmt.Sprintf(format, args...))
}

func printError(w io.Writer, msg string) {
	_, _ = errorColor.Fprintln(w, msg)
}
