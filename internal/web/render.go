// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/samber/oops"

	"github.com/glucotrack/glucotrack/internal/gateway"
	"github.com/glucotrack/glucotrack/internal/nav"
	"github.com/glucotrack/glucotrack/internal/validation"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pageNames = []string{
	"home", "about", "faq", "resources", "donate",
	"login", "register", "dashboard", "embed", "error",
}

// page is the data every template receives.
type page struct {
	Title    string
	Nav      nav.View
	Message  string
	Notice   string
	Username string
	Login    validation.LoginInput
	Register validation.RegistrationInput
	Options  formOptions
	User     *gateway.User
	EmbedURL string
}

type formOptions struct {
	Gender    []validation.Option
	Ethnicity []validation.Option
	Diagnosis []validation.Option
}

var registrationOptions = formOptions{
	Gender:    validation.GenderOptions,
	Ethnicity: validation.EthnicityOptions,
	Diagnosis: validation.DiagnosisOptions,
}

type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, oops.Code("WEB_TEMPLATE_PARSE").With("page", name).Wrap(err)
		}
		pages[name] = t
	}
	return &renderer{pages: pages}, nil
}

// render executes the page into a buffer first so a template failure
// never leaves a half-written response.
func (r *renderer) render(w http.ResponseWriter, status int, name string, data page) error {
	t, ok := r.pages[name]
	if !ok {
		return oops.Code("WEB_UNKNOWN_PAGE").With("page", name).Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return oops.Code("WEB_TEMPLATE_EXEC").With("page", name).Wrap(err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func staticFiles() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("embedded static directory missing: " + err.Error())
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}
