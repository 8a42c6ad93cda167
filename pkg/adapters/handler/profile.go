package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
	"github.com/wadjakorntonsri/artistus/pkg/core/media"
	"github.com/wadjakorntonsri/artistus/pkg/ports"
)

type ProfileHandler struct {
	profiles ports.ProfileService
	log      *zap.Logger
}

func NewProfileHandler(profiles ports.ProfileService, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, log: log}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.GetProfile(r.Context(), OwnerID(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in domain.ProfileInput
	if !decodeJSON(w, r, &in) {
		return
	}
	p, err := h.profiles.UpdateProfile(r.Context(), OwnerID(r.Context()), in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type publishRequest struct {
	IsPublished bool `json:"is_published"`
}

func (h *ProfileHandler) SetPublished(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.profiles.SetPublished(r.Context(), OwnerID(r.Context()), req.IsPublished); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// UploadAvatar stores the "avatar" form field as the profile photo.
func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	file, ok := formFile(w, r, "avatar", media.AvatarMaxBytes)
	if !ok {
		return
	}
	defer file.Close()

	url, err := h.profiles.UpdateAvatar(r.Context(), OwnerID(r.Context()), file)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *ProfileHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ov, err := h.profiles.Overview(r.Context(), OwnerID(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, ov)
}
