// Package ui writes API responses: JSON for the app, HTML for the few public pages.
package ui

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"

	"github.com/templui/dailybible/internal/validation"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error string `json:"error"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("render json failed", "error", err, "path", r.URL.Path)
	}
}

// Error writes {"error": message}.
func Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	JSON(w, r, status, errorBody{Error: message})
}

// NoContent answers 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Decode reads a JSON body into v and validates its struct tags.
// The returned error is safe to show to the client.
func Decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(v)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body must not exceed %d bytes", maxErr.Limit)
		}
		return errors.New("request body must be valid JSON")
	}

	return validation.Struct(v)
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} · {{.AppName}}</title>
<style>body{font-family:-apple-system,system-ui,sans-serif;max-width:40rem;margin:2rem auto;padding:0 1rem;line-height:1.6;color:#1f2933}h1{font-size:1.8rem}.updated{color:#616e7c;font-size:.9rem}</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .LastUpdated}}<p class="updated">Last updated {{.LastUpdated}}</p>{{end}}
{{.Body}}
</body>
</html>
`))

// Page is a rendered markdown document.
type Page struct {
	AppName     string
	Title       string
	LastUpdated string
	Body        template.HTML
}

func HTML(w http.ResponseWriter, r *http.Request, status int, p Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	err := pageTemplate.Execute(w, p)
	if err != nil {
		slog.Error("render page failed", "error", err, "path", r.URL.Path)
	}
}
