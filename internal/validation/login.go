// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

package validation

import (
	"strings"
	"unicode/utf8"
)

// Login reasons.
const (
	ReasonUsernameShort Reason = "LOGIN_USERNAME_SHORT"
	ReasonPasswordShort Reason = "LOGIN_PASSWORD_SHORT"
)

// Login bounds.
const (
	MinUsernameLength      = 3
	MinLoginPasswordLength = 6
)

const loginTooShort = "Username or password is too short."

// LoginInput is the login form.
type LoginInput struct {
	Username string
	Password string
}

// Normalize trims surrounding whitespace from both fields. Checks and the
// outgoing request both use the normalized values.
func (in LoginInput) Normalize() LoginInput {
	return LoginInput{
		Username: strings.TrimSpace(in.Username),
		Password: strings.TrimSpace(in.Password),
	}
}

// LoginRules is the rule list for login. No pattern checks.
var LoginRules = []Rule[LoginInput]{
	{
		Name:    "username_length",
		Reason:  ReasonUsernameShort,
		Message: loginTooShort,
		Pass: func(in LoginInput) bool {
			return utf8.RuneCountInString(in.Username) >= MinUsernameLength
		},
	},
	{
		Name:    "password_length",
		Reason:  ReasonPasswordShort,
		Message: loginTooShort,
		Pass: func(in LoginInput) bool {
			return utf8.RuneCountInString(in.Password) >= MinLoginPasswordLength
		},
	},
}

// ValidateLogin normalizes in and evaluates LoginRules.
func ValidateLogin(in LoginInput) Result {
	return Evaluate(LoginRules, in.Normalize())
}
