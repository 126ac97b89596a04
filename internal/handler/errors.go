package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/dailybible/internal/devotion"
	"github.com/templui/dailybible/internal/repository"
	"github.com/templui/dailybible/internal/service"
	"github.com/templui/dailybible/internal/ui"
)

// clientErrors maps service errors to the status shown to the app. The error
// text itself is user-facing.
var clientErrors = []struct {
	err    error
	status int
}{
	{service.ErrMissingFields, http.StatusBadRequest},
	{service.ErrMissingEmail, http.StatusBadRequest},
	{service.ErrInvalidEmail, http.StatusBadRequest},
	{service.ErrWeakPassword, http.StatusBadRequest},
	{service.ErrInvalidResetToken, http.StatusBadRequest},
	{service.ErrInvalidAnswer, http.StatusBadRequest},
	{service.ErrInvalidSetting, http.StatusBadRequest},
	{service.ErrInvalidDate, http.StatusBadRequest},
	{service.ErrMissingPushToken, http.StatusBadRequest},
	{service.ErrInvalidTimeZone, http.StatusBadRequest},
	{devotion.ErrInvalidTaskIndex, http.StatusBadRequest},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrInvalidCurrentPassword, http.StatusUnauthorized},
	{service.ErrGuestAccount, http.StatusForbidden},
	{service.ErrEmailAlreadyExists, http.StatusConflict},
	{repository.ErrUserNotFound, http.StatusNotFound},
	{service.ErrPageNotFound, http.StatusNotFound},
	{service.ErrBackupsDisabled, http.StatusServiceUnavailable},
}

// renderError writes the status of a known error, or logs it and answers 500.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	for _, ce := range clientErrors {
		if errors.Is(err, ce.err) {
			ui.Error(w, r, ce.status, publicMessage(err, ce.err))
			return
		}
	}

	slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
	ui.Error(w, r, http.StatusInternalServerError, "Something went wrong. Please try again.")
}

// publicMessage keeps validation detail (wrapped with %w: detail) and drops
// internal wrapping such as "invalid credentials: ...".
func publicMessage(err, sentinel error) string {
	switch sentinel {
	case service.ErrWeakPassword, service.ErrInvalidAnswer, service.ErrInvalidSetting,
		service.ErrInvalidTimeZone, devotion.ErrInvalidTaskIndex:
		return err.Error()
	}
	return sentinel.Error()
}
