package handler

import (
	"net/http"

	"github.com/templui/dailybible/internal/ctxkeys"
	"github.com/templui/dailybible/internal/service"
	"github.com/templui/dailybible/internal/ui"
)

type settingsHandler struct {
	profileService *service.ProfileService
}

func NewSettingsHandler(profileService *service.ProfileService) *settingsHandler {
	return &settingsHandler{profileService: profileService}
}

func (h *settingsHandler) Show(w http.ResponseWriter, r *http.Request) {
	settings, err := h.profileService.Settings(ctxkeys.SessionFrom(r.Context()).UserID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	ui.JSON(w, r, http.StatusOK, settings)
}

type settingsRequest struct {
	Name         string `json:"name" validate:"max=100"`
	AgeRange     string `json:"ageRange"`
	Denomination string `json:"denomination"`
	Church       string `json:"church" validate:"max=200"`
}

func (h *settingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := ui.Decode(w, r, &req); err != nil {
		ui.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	settings, err := h.profileService.UpdateSettings(ctxkeys.SessionFrom(r.Context()).UserID, service.Settings{
		Name:         req.Name,
		AgeRange:     req.AgeRange,
		Denomination: req.Denomination,
		Church:       req.Church,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	ui.JSON(w, r, http.StatusOK, settings)
}
