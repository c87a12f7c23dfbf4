// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

package gateway

import "github.com/glucotrack/glucotrack/internal/validation"

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	FirstName             string `json:"first_name"`
	LastName              string `json:"last_name"`
	Password              string `json:"password"`
	Age                   string `json:"age"`
	Gender                string `json:"gender"`
	Ethnicity             string `json:"ethnicity"`
	Diagnosis             string `json:"diagnosis"`
	Smoking               bool   `json:"smoking"`
	FamilyHistoryDiabetes bool   `json:"family_history_diabetes"`
	Email                 string `json:"email"`
	PhoneNumber           string `json:"phone_number"`
}

func newRegisterRequest(in validation.RegistrationInput) registerRequest {
	return registerRequest{
		FirstName:             in.FirstName,
		LastName:              in.LastName,
		Password:              in.Password,
		Age:                   in.Age,
		Gender:                in.Gender,
		Ethnicity:             in.Ethnicity,
		Diagnosis:             in.Diagnosis,
		Smoking:               in.Smoking,
		FamilyHistoryDiabetes: in.FamilyHistoryDiabetes,
		Email:                 in.Email,
		PhoneNumber:           in.PhoneNumber,
	}
}

// envelope is the common response shape. Success is a pointer so a body
// without the field is treated as malformed.
type envelope struct {
	Success  *bool  `json:"success"`
	Message  string `json:"message"`
	Username string `json:"username"`
	User     *User  `json:"user"`
}

// User is the profile returned by GET /user.
type User struct {
	Username     string `json:"username"`
	GlucoseLevel any    `json:"glucoseLevel"`
	LastUpdate   string `json:"lastUpdate"`
}

// Registration is a successful registration. Username is the
// server-generated login name and may be empty.
type Registration struct {
	Message  string
	Username string
}
