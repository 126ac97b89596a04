package handler

import (
	"net/http"

	"github.com/templui/dailybible/internal/ctxkeys"
	"github.com/templui/dailybible/internal/service"
	"github.com/templui/dailybible/internal/ui"
)

type deviceHandler struct {
	devotionService *service.DevotionService
	backupService   *service.BackupService
}

func NewDeviceHandler(devotionService *service.DevotionService, backupService *service.BackupService) *deviceHandler {
	return &deviceHandler{
		devotionService: devotionService,
		backupService:   backupService,
	}
}

type pushTokenRequest struct {
	Token    string `json:"token" validate:"required,max=4096"`
	TimeZone string `json:"timeZone" validate:"omitempty,timezone"`
}

func (h *deviceHandler) RegisterPushToken(w http.ResponseWriter, r *http.Request) {
	var req pushTokenRequest
	if err := ui.Decode(w, r, &req); err != nil {
		ui.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	timeZone := req.TimeZone
	if timeZone == "" {
		timeZone = ctxkeys.Location(r.Context()).String()
	}

	err := h.devotionService.RegisterPushToken(ctxkeys.DeviceID(r.Context()), req.Token, timeZone)
	if err != nil {
		renderError(w, r, err)
		return
	}

	ui.NoContent(w)
}

func (h *deviceHandler) Backup(w http.ResponseWriter, r *http.Request) {
	backup, err := h.backupService.Backup(r.Context(), ctxkeys.DeviceID(r.Context()))
	if err != nil {
		renderError(w, r, err)
		return
	}

	ui.JSON(w, r, http.StatusCreated, backup)
}
