package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wadjakorntonsri/artistus/pkg/core/media"
	"github.com/wadjakorntonsri/artistus/pkg/ports"
)

type LinkHandler struct {
	links ports.LinkService
	log   *zap.Logger
}

func NewLinkHandler(links ports.LinkService, log *zap.Logger) *LinkHandler {
	return &LinkHandler{links: links, log: log}
}

func (h *LinkHandler) CreateMusic() http.HandlerFunc {
	return createHandler(h.log, h.links.CreateMusicLink)
}

func (h *LinkHandler) UpdateMusic() http.HandlerFunc {
	return updateHandler(h.log, h.links.UpdateMusicLink)
}

func (h *LinkHandler) ListMusic() http.HandlerFunc {
	return listHandler(h.log, h.links.ListMusicLinks)
}

func (h *LinkHandler) CreateSocial() http.HandlerFunc {
	return createHandler(h.log, h.links.CreateSocialLink)
}

func (h *LinkHandler) UpdateSocial() http.HandlerFunc {
	return updateHandler(h.log, h.links.UpdateSocialLink)
}

func (h *LinkHandler) ListSocial() http.HandlerFunc {
	return listHandler(h.log, h.links.ListSocialLinks)
}

func (h *LinkHandler) CreateMerch() http.HandlerFunc {
	return createHandler(h.log, h.links.CreateMerchLink)
}

func (h *LinkHandler) UpdateMerch() http.HandlerFunc {
	return updateHandler(h.log, h.links.UpdateMerchLink)
}

func (h *LinkHandler) ListMerch() http.HandlerFunc {
	return listHandler(h.log, h.links.ListMerchLinks)
}

func (h *LinkHandler) CreateTour() http.HandlerFunc {
	return createHandler(h.log, h.links.CreateTourDate)
}

func (h *LinkHandler) UpdateTour() http.HandlerFunc {
	return updateHandler(h.log, h.links.UpdateTourDate)
}

func (h *LinkHandler) ListTour() http.HandlerFunc {
	return listHandler(h.log, h.links.ListTourDates)
}

// UploadCoverArt stores the "cover_art" form field as a music link's artwork.
func (h *LinkHandler) UploadCoverArt(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	file, ok := formFile(w, r, "cover_art", media.CoverArtMaxBytes)
	if !ok {
		return
	}
	defer file.Close()

	url, err := h.links.UpdateCoverArt(r.Context(), OwnerID(r.Context()), id, file)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func createHandler[In, Out any](log *zap.Logger, create func(context.Context, uuid.UUID, In) (Out, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in In
		if !decodeJSON(w, r, &in) {
			return
		}
		out, err := create(r.Context(), OwnerID(r.Context()), in)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusCreated, out)
	}
}

func updateHandler[In, Out any](log *zap.Logger, update func(context.Context, uuid.UUID, uuid.UUID, In) (Out, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}
		var in In
		if !decodeJSON(w, r, &in) {
			return
		}
		out, err := update(r.Context(), OwnerID(r.Context()), id, in)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func listHandler[Out any](log *zap.Logger, list func(context.Context, uuid.UUID) ([]Out, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := list(r.Context(), OwnerID(r.Context()))
		if err != nil {
			writeError(w, log, err)
			return
		}
		if items == nil {
			items = []Out{}
		}
		writeJSON(w, http.StatusOK, items)
	}
}
