package handler

import (
	"net/http"

	"github.com/templui/dailybible/internal/ctxkeys"
	"github.com/templui/dailybible/internal/model"
	"github.com/templui/dailybible/internal/service"
	"github.com/templui/dailybible/internal/ui"
)

type onboardingHandler struct {
	onboardingService *service.OnboardingService
}

func NewOnboardingHandler(onboardingService *service.OnboardingService) *onboardingHandler {
	return &onboardingHandler{onboardingService: onboardingService}
}

func (h *onboardingHandler) Status(w http.ResponseWriter, r *http.Request) {
	ui.JSON(w, r, http.StatusOK, h.onboardingService.Status(ctxkeys.DeviceID(r.Context())))
}

type onboardingRequest struct {
	Denomination string `json:"denomination" validate:"omitempty,oneof=Orthodox Catholic Baptist Methodist Pentecostal"`
	AgeGroup     string `json:"ageGroup" validate:"omitempty,max=8"`
	Goal         string `json:"goal" validate:"omitempty,oneof=study challenges"`
}

// Complete works before sign-in too. A signed-in user also gets the answers in their profile.
func (h *onboardingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req onboardingRequest
	if err := ui.Decode(w, r, &req); err != nil {
		ui.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var userID string
	if session := ctxkeys.SessionFrom(r.Context()); session != nil && !session.IsGuest() {
		userID = session.UserID
	}

	deviceID := ctxkeys.DeviceID(r.Context())
	err := h.onboardingService.Complete(deviceID, userID, model.OnboardingAnswers{
		Denomination: req.Denomination,
		AgeGroup:     req.AgeGroup,
		Goal:         req.Goal,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	ui.JSON(w, r, http.StatusOK, h.onboardingService.Status(deviceID))
}
