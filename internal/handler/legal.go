package handler

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/templui/dailybible/internal/service"
	"github.com/templui/dailybible/internal/ui"
)

type LegalHandler struct {
	legalService *service.LegalService
	appName      string
}

func NewLegalHandler(legalService *service.LegalService, appName string) *LegalHandler {
	err := legalService.LoadPages()
	if err != nil {
		slog.Warn("failed to load legal pages", "error", err)
	}

	return &LegalHandler{
		legalService: legalService,
		appName:      appName,
	}
}

func (h *LegalHandler) ShowPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.legalService.Page(r.PathValue("page"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	ui.HTML(w, r, http.StatusOK, ui.Page{
		AppName:     h.appName,
		Title:       page.Title,
		LastUpdated: page.LastUpdated,
		// Rendered from our own markdown files
		Body: template.HTML(page.Content),
	})
}
