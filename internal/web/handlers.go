// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

package web

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/render"
	"github.com/gorilla/mux"
	"github.com/oklog/ulid/v2"

	"github.com/glucotrack/glucotrack/internal/gateway"
	"github.com/glucotrack/glucotrack/internal/guard"
	"github.com/glucotrack/glucotrack/internal/validation"
	"github.com/glucotrack/glucotrack/pkg/errutil"
)

// User-facing page messages.
const (
	MessageBusy       = "A submission is already in progress."
	MessageRegistered = "Registration successful! Please log in."
)

var embeddedViews = map[string]struct {
	title string
	path  string
}{
	"profile":     {title: "Profile", path: "profile"},
	"rewards":     {title: "Rewards", path: "rewards"},
	"leaderboard": {title: "Leaderboards", path: "leaderboard"},
}

func (s *Server) page(title string) page {
	return page{Title: title, Nav: s.nav.View()}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data page) {
	if err := s.pages.render(w, status, name, data); err != nil {
		errutil.LogError(s.logger, "rendering page failed", err, "page", name, "path", r.URL.Path)
		http.Error(w, gateway.GenericMessage, http.StatusInternalServerError)
	}
}

func (s *Server) handleInfo(name, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, http.StatusOK, name, s.page(title))
	}
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	data := s.page("Login")
	q := r.URL.Query()
	if q.Get("registered") == "1" {
		data.Notice = MessageRegistered
		data.Username = strings.TrimSpace(q.Get("username"))
		data.Login.Username = data.Username
	}
	s.render(w, r, http.StatusOK, "login", data)
}

func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	data := s.page("Login")
	if err := r.ParseForm(); err != nil {
		data.Message = gateway.GenericMessage
		s.render(w, r, http.StatusBadRequest, "login", data)
		return
	}
	data.Login = validation.LoginInput{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}

	if !s.loginBusy.acquire() {
		data.Message = MessageBusy
		s.render(w, r, http.StatusConflict, "login", data)
		return
	}
	defer s.loginBusy.release()

	logger := s.submissionLogger("login")
	identity, err := s.gateway.Login(r.Context(), data.Login.Username, data.Login.Password)
	if err != nil {
		s.logFailure(logger, r, "login", err)
		data.Message = gateway.UserMessage(err)
		s.render(w, r, failureStatus(err), "login", data)
		return
	}

	if err := s.store.Set(r.Context(), identity); err != nil {
		errutil.LogError(logger, "saving session failed", err)
		data.Message = gateway.GenericMessage
		s.render(w, r, http.StatusInternalServerError, "login", data)
		return
	}
	logger.InfoContext(r.Context(), "login succeeded", "username", identity)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	data := s.page("Register")
	data.Options = registrationOptions
	s.render(w, r, http.StatusOK, "register", data)
}

func (s *Server) handleRegisterSubmit(w http.ResponseWriter, r *http.Request) {
	data := s.page("Register")
	data.Options = registrationOptions
	if err := r.ParseForm(); err != nil {
		data.Message = gateway.GenericMessage
		s.render(w, r, http.StatusBadRequest, "register", data)
		return
	}
	data.Register = registrationFromForm(r.PostForm)

	if !s.registerBusy.acquire() {
		data.Message = MessageBusy
		s.render(w, r, http.StatusConflict, "register", data)
		return
	}
	defer s.registerBusy.release()

	logger := s.submissionLogger("register")
	reg, err := s.gateway.Register(r.Context(), data.Register)
	if err != nil {
		s.logFailure(logger, r, "registration", err)
		data.Message = gateway.UserMessage(err)
		s.render(w, r, failureStatus(err), "register", data)
		return
	}

	logger.InfoContext(r.Context(), "registration succeeded", "username", reg.Username)
	q := url.Values{"registered": {"1"}}
	if reg.Username != "" {
		q.Set("username", reg.Username)
	}
	http.Redirect(w, r, "/login?"+q.Encode(), http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	next, err := s.nav.Logout(r.Context())
	if err != nil {
		errutil.LogError(s.logger, "logout failed", err)
		data := s.page("Logout failed")
		data.Message = gateway.GenericMessage
		s.render(w, r, http.StatusInternalServerError, "error", data)
		return
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// handleDashboard shows the profile from the service. Any fetch failure
// sends the visitor to the login page and leaves the local session alone.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	identity, _ := guard.IdentityFromContext(r.Context())

	user, err := s.gateway.FetchUser(r.Context())
	if err != nil {
		s.logger.WarnContext(r.Context(), "dashboard user fetch failed",
			"username", identity,
			"kind", gateway.Classify(err).String(),
			"code", errutil.Code(err))
		http.Redirect(w, r, guard.LoginPath, http.StatusSeeOther)
		return
	}

	embed, err := guard.EmbedURL(s.cfg.DashboardURL, "", identity)
	if err != nil {
		errutil.LogError(s.logger, "building dashboard url failed", err)
	}
	data := s.page("Dashboard")
	data.User = user
	data.EmbedURL = embed
	s.render(w, r, http.StatusOK, "dashboard", data)
}

func (s *Server) handleEmbedded(w http.ResponseWriter, r *http.Request) {
	view, ok := embeddedViews[mux.Vars(r)["view"]]
	if !ok {
		s.render(w, r, http.StatusNotFound, "error", s.page("Page not found"))
		return
	}
	identity, _ := guard.IdentityFromContext(r.Context())

	embed, err := guard.EmbedURL(s.cfg.DashboardURL, view.path, identity)
	if err != nil {
		errutil.LogError(s.logger, "building embedded url failed", err, "view", view.path)
	}
	data := s.page(view.title)
	data.EmbedURL = embed
	s.render(w, r, http.StatusOK, "embed", data)
}

type sessionResponse struct {
	Username *string `json:"username"`
	Resolved bool    `json:"resolved"`
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	resp := sessionResponse{Resolved: s.store.Resolved()}
	if identity, ok := s.store.Current(); ok {
		resp.Username = &identity
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

func (s *Server) submissionLogger(form string) *slog.Logger {
	return s.logger.With("form", form, "submission_id", ulid.Make().String())
}

func (s *Server) logFailure(logger *slog.Logger, r *http.Request, what string, err error) {
	kind := gateway.Classify(err)
	if kind == gateway.KindTransport {
		errutil.LogError(logger, what+" exchange failed", err)
		return
	}
	logger.InfoContext(r.Context(), what+" rejected", "kind", kind.String(), "code", errutil.Code(err))
}

func failureStatus(err error) int {
	switch gateway.Classify(err) {
	case gateway.KindValidation:
		return http.StatusUnprocessableEntity
	case gateway.KindCredentialsRejected:
		return http.StatusUnauthorized
	default:
		return http.StatusBadGateway
	}
}

func registrationFromForm(form url.Values) validation.RegistrationInput {
	return validation.RegistrationInput{
		FirstName:             form.Get("first_name"),
		LastName:              form.Get("last_name"),
		Password:              form.Get("password"),
		Age:                   form.Get("age"),
		Gender:                form.Get("gender"),
		Ethnicity:             form.Get("ethnicity"),
		Diagnosis:             form.Get("diagnosis"),
		Email:                 form.Get("email"),
		PhoneNumber:           form.Get("phone_number"),
		Smoking:               checked(form.Get("smoking")),
		FamilyHistoryDiabetes: checked(form.Get("family_history_diabetes")),
	}
}

func checked(v string) bool {
	switch strings.ToLower(v) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}
