// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

package gateway

import (
	"github.com/samber/oops"

	"github.com/glucotrack/glucotrack/internal/validation"
)

// Error codes for gateway failures.
const (
	CodeValidationRejected  = "AUTH_VALIDATION_REJECTED"
	CodeCredentialsRejected = "AUTH_CREDENTIALS_REJECTED"
	CodeTransportFailure    = "AUTH_TRANSPORT_FAILURE"
	CodeSessionRejected     = "AUTH_SESSION_REJECTED"
)

// User-facing fallbacks.
const (
	GenericMessage            = "An error occurred. Please try again."
	LoginFailedMessage        = "Login failed."
	RegistrationFailedMessage = "Registration failed."
)

// Kind is the failure category of a gateway error.
type Kind int

// Failure kinds.
const (
	KindNone Kind = iota
	KindValidation
	KindCredentialsRejected
	KindTransport
	KindSessionRejected
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "validation"
	case KindCredentialsRejected:
		return "rejected"
	case KindTransport:
		return "transport"
	case KindSessionRejected:
		return "session_rejected"
	default:
		return "unknown"
	}
}

// ErrValidationRejected wraps a failed local validation.
func ErrValidationRejected(res validation.Result) error {
	return oops.Code(CodeValidationRejected).
		With("reason", string(res.Reason)).
		With("message", res.Message).
		Errorf("%s", res.Message)
}

// ErrCredentialsRejected reports a success:false answer from the service.
// message is shown to the user verbatim; fallback is used when it is empty.
func ErrCredentialsRejected(operation, message, fallback string) error {
	if message == "" {
		message = fallback
	}
	return oops.Code(CodeCredentialsRejected).
		With("operation", operation).
		With("message", message).
		Errorf("%s", message)
}

// ErrSessionRejected reports that the service no longer recognises the session.
func ErrSessionRejected(message string) error {
	return oops.Code(CodeSessionRejected).
		With("operation", "fetch_user").
		With("message", message).
		Errorf("session rejected by service")
}

// ErrTransport reports a failed exchange. cause may be nil.
func ErrTransport(operation string, cause error) error {
	builder := oops.Code(CodeTransportFailure).With("operation", operation)
	if cause != nil {
		return builder.Wrap(cause)
	}
	return builder.Errorf("%s: malformed response", operation)
}

// Classify returns the failure kind of err.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return KindTransport
	}
	switch oopsErr.Code() {
	case CodeValidationRejected:
		return KindValidation
	case CodeCredentialsRejected:
		return KindCredentialsRejected
	case CodeSessionRejected:
		return KindSessionRejected
	default:
		return KindTransport
	}
}

// UserMessage returns the single message to show for err. Transport
// details never reach the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return GenericMessage
	}
	switch oopsErr.Code() {
	case CodeValidationRejected, CodeCredentialsRejected:
		if msg, ok := oopsErr.Context()["message"].(string); ok && msg != "" {
			return msg
		}
		return GenericMessage
	default:
		return GenericMessage
	}
}
