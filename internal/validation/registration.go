// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

package validation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Registration reasons, in evaluation order.
const (
	ReasonRequired  Reason = "REGISTER_REQUIRED"
	ReasonFirstName Reason = "REGISTER_FIRST_NAME"
	ReasonLastName  Reason = "REGISTER_LAST_NAME"
	ReasonPassword  Reason = "REGISTER_PASSWORD"
	ReasonEmail     Reason = "REGISTER_EMAIL"
	ReasonPhone     Reason = "REGISTER_PHONE"
	ReasonAge       Reason = "REGISTER_AGE"
)

// Field bounds.
const (
	MinNameLength     = 2
	MaxNameLength     = 50
	MinPasswordLength = 8
	MaxPasswordLength = 20
	MinAge            = 18
	MaxAge            = 120
)

var (
	nameRegex  = regexp.MustCompile(`^[A-Za-z]+$`)
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,6}$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
)

// RegistrationInput is the full registration form.
type RegistrationInput struct {
	FirstName             string
	LastName              string
	Password              string
	Age                   string
	Gender                string
	Ethnicity             string
	Diagnosis             string
	Email                 string
	PhoneNumber           string
	Smoking               bool
	FamilyHistoryDiabetes bool
}

// Option is one selectable value of a choice field.
type Option struct {
	Value string
	Label string
}

// Choice field catalogs used to render the registration form.
var (
	GenderOptions = []Option{
		{Value: "0", Label: "Male"},
		{Value: "1", Label: "Female"},
	}
	EthnicityOptions = []Option{
		{Value: "0", Label: "Caucasian"},
		{Value: "1", Label: "African American"},
		{Value: "2", Label: "Asian"},
		{Value: "3", Label: "Other"},
	}
	DiagnosisOptions = []Option{
		{Value: "1", Label: "Diabetic"},
		{Value: "0", Label: "Non-Diabetic"},
	}
)

// RegistrationRules is the fixed-priority rule list for registration.
var RegistrationRules = []Rule[RegistrationInput]{
	{
		Name:    "required",
		Reason:  ReasonRequired,
		Message: "Please fill in all required fields.",
		Pass:    requiredPresent,
	},
	{
		Name:    "first_name",
		Reason:  ReasonFirstName,
		Message: "First name must contain only letters (2–50 characters).",
		Pass:    func(in RegistrationInput) bool { return ValidName(in.FirstName) },
	},
	{
		Name:    "last_name",
		Reason:  ReasonLastName,
		Message: "Last name must contain only letters (2–50 characters).",
		Pass:    func(in RegistrationInput) bool { return ValidName(in.LastName) },
	},
	{
		Name:    "password",
		Reason:  ReasonPassword,
		Message: "Password must be 8–20 characters and contain at least one letter and one number.",
		Pass:    func(in RegistrationInput) bool { return ValidPassword(in.Password) },
	},
	{
		Name:    "email",
		Reason:  ReasonEmail,
		Message: "Invalid email format.",
		Pass:    func(in RegistrationInput) bool { return ValidEmail(in.Email) },
	},
	{
		Name:    "phone_number",
		Reason:  ReasonPhone,
		Message: "Phone number must be 10–15 digits and may start with +.",
		Pass:    func(in RegistrationInput) bool { return ValidPhone(in.PhoneNumber) },
	},
	{
		Name:    "age",
		Reason:  ReasonAge,
		Message: "Please enter a valid age between 18 and 120.",
		Pass:    func(in RegistrationInput) bool { return ValidAge(in.Age) },
	},
}

// ValidateRegistration evaluates RegistrationRules against in.
func ValidateRegistration(in RegistrationInput) Result {
	return Evaluate(RegistrationRules, in)
}

func requiredPresent(in RegistrationInput) bool {
	for _, v := range []string{
		in.FirstName, in.LastName, in.Email, in.Password, in.Age,
		in.Gender, in.Ethnicity, in.Diagnosis, in.PhoneNumber,
	} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// ValidName reports whether name is 2–50 ASCII letters.
func ValidName(name string) bool {
	n := len(name)
	return n >= MinNameLength && n <= MaxNameLength && nameRegex.MatchString(name)
}

// ValidPassword reports whether password is 8–20 ASCII letters and digits
// with at least one of each.
func ValidPassword(password string) bool {
	n := utf8.RuneCountInString(password)
	if n < MinPasswordLength || n > MaxPasswordLength {
		return false
	}
	var letter, digit bool
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			letter = true
		default:
			return false
		}
	}
	return letter && digit
}

// ValidEmail reports whether email matches local@domain.tld with a 2–6
// letter TLD.
func ValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidPhone reports whether phone is 10–15 digits with an optional
// leading plus.
func ValidPhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

// ValidAge reports whether age is a base-10 integer in [18, 120].
func ValidAge(age string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(age))
	if err != nil {
		return false
	}
	return n >= MinAge && n <= MaxAge
}
