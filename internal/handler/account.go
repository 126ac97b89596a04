package handler

import (
	"net/http"

	"github.com/templui/dailybible/internal/ctxkeys"
	"github.com/templui/dailybible/internal/service"
	"github.com/templui/dailybible/internal/ui"
)

type accountHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

func NewAccountHandler(authService *service.AuthService, userService *service.UserService) *accountHandler {
	return &accountHandler{
		authService: authService,
		userService: userService,
	}
}

func (h *accountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	session := *ctxkeys.SessionFrom(r.Context())
	session.DeviceID = ctxkeys.DeviceID(r.Context())

	err := h.authService.DeleteAccount(&session)
	if err != nil {
		renderError(w, r, err)
		return
	}

	ui.NoContent(w)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

func (h *accountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := ui.Decode(w, r, &req); err != nil {
		ui.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	session := ctxkeys.SessionFrom(r.Context())
	err := h.userService.UpdatePassword(session.UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		renderError(w, r, err)
		return
	}

	ui.NoContent(w)
}
