package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/templui/dailybible/internal/ctxkeys"
	"github.com/templui/dailybible/internal/service"
	"github.com/templui/dailybible/internal/ui"
)

type devotionHandler struct {
	devotionService *service.DevotionService
	now             func() time.Time
}

func NewDevotionHandler(devotionService *service.DevotionService) *devotionHandler {
	return &devotionHandler{devotionService: devotionService, now: time.Now}
}

// localNow is the current time in the device's time zone.
func (h *devotionHandler) localNow(r *http.Request) time.Time {
	return h.now().In(ctxkeys.Location(r.Context()))
}

func (h *devotionHandler) Today(w http.ResponseWriter, r *http.Request) {
	state, err := h.devotionService.Today(ctxkeys.DeviceID(r.Context()), h.localNow(r))
	if err != nil {
		renderError(w, r, err)
		return
	}

	ui.JSON(w, r, http.StatusOK, state)
}

func (h *devotionHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		ui.Error(w, r, http.StatusBadRequest, "task index must be a number")
		return
	}

	state, err := h.devotionService.Toggle(r.Context(), ctxkeys.DeviceID(r.Context()), h.localNow(r), index)
	if err != nil {
		renderError(w, r, err)
		return
	}

	ui.JSON(w, r, http.StatusOK, state)
}

func (h *devotionHandler) Momentum(w http.ResponseWriter, r *http.Request) {
	m := h.devotionService.Momentum(ctxkeys.DeviceID(r.Context()), h.localNow(r))
	ui.JSON(w, r, http.StatusOK, m)
}

func (h *devotionHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	month, err := strconv.Atoi(r.PathValue("month"))
	if err != nil {
		renderError(w, r, service.ErrInvalidDate)
		return
	}
	day, err := strconv.Atoi(r.PathValue("day"))
	if err != nil {
		renderError(w, r, service.ErrInvalidDate)
		return
	}

	d, err := h.devotionService.Lookup(month, day)
	if err != nil {
		renderError(w, r, err)
		return
	}

	ui.JSON(w, r, http.StatusOK, d)
}
