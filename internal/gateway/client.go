// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/glucotrack/glucotrack/internal/observability"
	"github.com/glucotrack/glucotrack/internal/validation"
)

var tracer = otel.Tracer("glucotrack/gateway")

// DefaultTimeout bounds a single exchange.
const DefaultTimeout = 10 * time.Second

// Paths on the remote service.
const (
	LoginPath    = "/api/login"
	RegisterPath = "/api/register"
	UserPath     = "/user"
)

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 1 << 20

// Client performs exchanges with the remote service. A Client keeps the
// service's cookies so FetchUser sees the session opened by Login.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-exchange timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient returns a client for the service at baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, oops.Code("GATEWAY_INVALID_BASE_URL").With("base_url", baseURL).Wrap(err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, oops.Code("GATEWAY_INVALID_BASE_URL").
			With("base_url", baseURL).
			Errorf("base url must be an absolute http(s) url")
	}
	u.Path = strings.TrimSuffix(u.Path, "/")

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, oops.Wrap(err)
	}
	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: DefaultTimeout, Jar: jar},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service address.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Login validates the credentials, then exchanges them for an identity.
// Both fields are trimmed before checking and sending.
func (c *Client) Login(ctx context.Context, username, password string) (identity string, err error) {
	in := validation.LoginInput{Username: username, Password: password}.Normalize()

	ctx, span := c.start(ctx, "login")
	defer func() { c.finish(span, "login", err) }()

	if res := validation.ValidateLogin(in); !res.Valid() {
		return "", ErrValidationRejected(res)
	}

	env, err := c.exchange(ctx, "login", http.MethodPost, LoginPath, loginRequest{
		Username: in.Username,
		Password: in.Password,
	})
	if err != nil {
		return "", err
	}
	if !*env.Success {
		return "", ErrCredentialsRejected("login", env.Message, LoginFailedMessage)
	}
	identity = strings.TrimSpace(env.Username)
	if identity == "" {
		return "", ErrTransport("login", nil)
	}
	span.SetAttributes(attribute.String("user.name", identity))
	return identity, nil
}

// Register validates in, then submits it. Success never signs anyone in.
func (c *Client) Register(ctx context.Context, in validation.RegistrationInput) (reg *Registration, err error) {
	ctx, span := c.start(ctx, "register")
	defer func() { c.finish(span, "register", err) }()

	if res := validation.ValidateRegistration(in); !res.Valid() {
		return nil, ErrValidationRejected(res)
	}

	env, err := c.exchange(ctx, "register", http.MethodPost, RegisterPath, newRegisterRequest(in))
	if err != nil {
		return nil, err
	}
	if !*env.Success {
		return nil, ErrCredentialsRejected("register", env.Message, RegistrationFailedMessage)
	}
	return &Registration{Message: env.Message, Username: strings.TrimSpace(env.Username)}, nil
}

// FetchUser reads the signed-in user's profile.
func (c *Client) FetchUser(ctx context.Context) (user *User, err error) {
	ctx, span := c.start(ctx, "fetch_user")
	defer func() { c.finish(span, "fetch_user", err) }()

	env, err := c.exchange(ctx, "fetch_user", http.MethodGet, UserPath, nil)
	if err != nil {
		return nil, err
	}
	if !*env.Success {
		return nil, ErrSessionRejected(env.Message)
	}
	if env.User == nil {
		return nil, ErrTransport("fetch_user", nil)
	}
	return env.User, nil
}

// exchange sends one request and decodes the envelope. Any HTTP status is
// accepted as long as the body carries a success flag.
func (c *Client) exchange(ctx context.Context, operation, method, path string, body any) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, ErrTransport(operation, err)
		}
		reader = bytes.NewReader(payload)
	}

	endpoint := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return nil, ErrTransport(operation, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, ErrTransport(operation, err)
	}
	defer func() { _ = resp.Body.Close() }() //nolint:errcheck // body fully read below

	var env envelope
	dec := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&env); err != nil {
		return nil, oops.Code(CodeTransportFailure).
			With("operation", operation).
			With("status", resp.StatusCode).
			Wrap(err)
	}
	if env.Success == nil {
		return nil, oops.Code(CodeTransportFailure).
			With("operation", operation).
			With("status", resp.StatusCode).
			Errorf("%s: response has no success flag", operation)
	}

	c.logger.DebugContext(ctx, "gateway exchange",
		"operation", operation,
		"status", resp.StatusCode,
		"success", *env.Success)
	return &env, nil
}

func (c *Client) start(ctx context.Context, operation string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "gateway."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("gateway.operation", operation),
			attribute.String("server.address", c.baseURL.Host),
		),
	)
}

func (c *Client) finish(span trace.Span, operation string, err error) {
	kind := Classify(err)
	outcome := "success"
	if kind != KindNone {
		outcome = kind.String()
	}
	span.SetAttributes(attribute.String("gateway.outcome", outcome))
	if kind == KindTransport {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
	observability.RecordAuthRequest(operation, outcome)
}
