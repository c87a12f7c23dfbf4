// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

package gateway_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glucotrack/glucotrack/internal/gateway"
	"github.com/glucotrack/glucotrack/internal/validation"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want gateway.Kind
	}{
		{"nil", nil, gateway.KindNone},
		{"plain error", errors.New("boom"), gateway.KindTransport},
		{"validation", gateway.ErrValidationRejected(validation.Result{Reason: "R", Message: "m"}), gateway.KindValidation},
		{"credentials", gateway.ErrCredentialsRejected("login", "nope", gateway.LoginFailedMessage), gateway.KindCredentialsRejected},
		{"session", gateway.ErrSessionRejected(""), gateway.KindSessionRejected},
		{"transport", gateway.ErrTransport("login", errors.New("dial tcp: refused")), gateway.KindTransport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gateway.Classify(tt.err))
		})
	}
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, gateway.UserMessage(nil))
	assert.Equal(t, gateway.GenericMessage, gateway.UserMessage(errors.New("boom")))
	assert.Equal(t, gateway.GenericMessage,
		gateway.UserMessage(gateway.ErrTransport("login", errors.New("dial tcp 127.0.0.1:5000: connection refused"))))
	assert.Equal(t, "nope", gateway.UserMessage(gateway.ErrCredentialsRejected("login", "nope", gateway.LoginFailedMessage)))
	assert.Equal(t, gateway.LoginFailedMessage, gateway.UserMessage(gateway.ErrCredentialsRejected("login", "", gateway.LoginFailedMessage)))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "none", gateway.KindNone.String())
	assert.Equal(t, "rejected", gateway.KindCredentialsRejected.String())
	assert.Equal(t, "transport", gateway.KindTransport.String())
	assert.Equal(t, "validation", gateway.KindValidation.String())
}
