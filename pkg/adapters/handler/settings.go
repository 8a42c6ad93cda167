package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
	"github.com/wadjakorntonsri/artistus/pkg/core/theme"
	"github.com/wadjakorntonsri/artistus/pkg/ports"
)

type SettingsHandler struct {
	settings ports.SettingsService
	log      *zap.Logger
}

func NewSettingsHandler(settings ports.SettingsService, log *zap.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, log: log}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.settings.GetSettings(r.Context(), OwnerID(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in domain.PageSettingsInput
	if !decodeJSON(w, r, &in) {
		return
	}
	s, err := h.settings.UpdateSettings(r.Context(), OwnerID(r.Context()), in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *SettingsHandler) Presets(w http.ResponseWriter, r *http.Request) {
	presets, err := theme.All()
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, presets)
}

func (h *SettingsHandler) ApplyPreset(w http.ResponseWriter, r *http.Request) {
	s, err := h.settings.ApplyPreset(r.Context(), OwnerID(r.Context()), r.PathValue("name"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
