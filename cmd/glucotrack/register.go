// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/glucotrack/glucotrack/internal/gateway"
	"github.com/glucotrack/glucotrack/internal/validation"
)

// newRegisterCmd creates the register subcommand. Flags map one to one onto
// the registration form fields.
func newRegisterCmd() *cobra.Command {
	in := &validation.RegistrationInput{}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a GlucoTrack account",
		Long: `Create a GlucoTrack account. The fields are checked locally in form
order and the first problem is reported before anything is sent.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRegister(cmd.Context(), in, cmd)
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.FirstName, "first-name", "", "first name")
	f.StringVar(&in.LastName, "last-name", "", "last name")
	f.StringVar(&in.Password, "password", "", "password (8-20 letters and digits, at least one of each)")
	f.StringVar(&in.Age, "age", "", "age in years (18-120)")
	f.StringVar(&in.Gender, "gender", "", "gender code (0 male, 1 female)")
	f.StringVar(&in.Ethnicity, "ethnicity", "", "ethnicity code (0 Caucasian, 1 African American, 2 Asian, 3 Other)")
	f.StringVar(&in.Diagnosis, "diagnosis", "", "diagnosis code (1 diabetic, 0 non-diabetic)")
	f.StringVar(&in.Email, "email", "", "email address")
	f.StringVar(&in.PhoneNumber, "phone", "", "phone number (10-15 digits, optional leading +)")
	f.BoolVar(&in.Smoking, "smoking", false, "smoker")
	f.BoolVar(&in.FamilyHistoryDiabetes, "family-history", false, "family history of diabetes")

	return cmd
}

func runRegister(ctx context.Context, in *validation.RegistrationInput, cmd *cobra.Command) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	reg, err := a.gateway.Register(ctx, *in)
	if err != nil {
		printError(cmd.ErrOrStderr(), gateway.UserMessage(err))
		return errReported
	}

	printSuccess(cmd.OutOrStdout(), "Registration successful! Please log in.")
	if reg.Username != "" {
		printInfo(cmd.OutOrStdout(), "Your username is %s", reg.Username)
	}
	return nil
}
