package handler

import (
	"log/slog"
	"net/http"

	"github.com/templui/dailybible/internal/ctxkeys"
	"github.com/templui/dailybible/internal/model"
	"github.com/templui/dailybible/internal/service"
	"github.com/templui/dailybible/internal/ui"
)

type authHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *authHandler {
	return &authHandler{authService: authService}
}

type credentialsRequest struct {
	Email    string `json:"email" validate:"max=254"`
	Password string `json:"password" validate:"max=256"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type authResponse struct {
	User    *userResponse         `json:"user,omitempty"`
	Session *service.SessionToken `json:"session"`
}

func (h *authHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := ui.Decode(w, r, &req); err != nil {
		ui.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	deviceID := ctxkeys.DeviceID(r.Context())
	user, err := h.authService.SignUp(req.Email, req.Password, deviceID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	h.respondWithSession(w, r, http.StatusCreated, user, deviceID)
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := ui.Decode(w, r, &req); err != nil {
		ui.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	deviceID := ctxkeys.DeviceID(r.Context())
	user, err := h.authService.Login(req.Email, req.Password, deviceID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	h.respondWithSession(w, r, http.StatusOK, user, deviceID)
}

func (h *authHandler) Guest(w http.ResponseWriter, r *http.Request) {
	session, err := h.authService.ContinueAsGuest(ctxkeys.DeviceID(r.Context()))
	if err != nil {
		renderError(w, r, err)
		return
	}

	ui.JSON(w, r, http.StatusOK, authResponse{Session: session})
}

type resetRequest struct {
	Email string `json:"email" validate:"max=254"`
}

func (h *authHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := ui.Decode(w, r, &req); err != nil {
		ui.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	err := h.authService.ResetPassword(req.Email)
	if err != nil {
		renderError(w, r, err)
		return
	}

	ui.JSON(w, r, http.StatusAccepted, map[string]string{
		"message": "Password reset email sent successfully.",
	})
}

type confirmResetRequest struct {
	Token    string `json:"token" validate:"required,hexadecimal,len=64"`
	Password string `json:"password" validate:"required"`
}

func (h *authHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req confirmResetRequest
	if err := ui.Decode(w, r, &req); err != nil {
		ui.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	err := h.authService.ConfirmPasswordReset(req.Token, req.Password)
	if err != nil {
		renderError(w, r, err)
		return
	}

	ui.NoContent(w)
}

func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := ctxkeys.SessionFrom(r.Context())
	h.authService.Logout(session.UserID, ctxkeys.DeviceID(r.Context()))
	ui.NoContent(w)
}

func (h *authHandler) respondWithSession(w http.ResponseWriter, r *http.Request, status int, user *model.User, deviceID string) {
	session, err := h.authService.GenerateSession(user.ID, deviceID, false)
	if err != nil {
		slog.Error("failed to create session", "error", err, "user_id", user.ID)
		renderError(w, r, err)
		return
	}

	ui.JSON(w, r, status, authResponse{
		User:    &userResponse{ID: user.ID, Email: user.Email},
		Session: session,
	})
}
