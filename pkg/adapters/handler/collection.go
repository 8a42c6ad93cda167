package handler

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
	"github.com/wadjakorntonsri/artistus/pkg/ports"
)

// collectionPaths maps each link kind to its URL segment.
var collectionPaths = map[domain.LinkKind]string{
	domain.KindMusic:  "music-links",
	domain.KindSocial: "social-links",
	domain.KindMerch:  "merch-links",
	domain.KindTour:   "tour-dates",
}

// CollectionHandler serves the operations every link kind shares.
type CollectionHandler struct {
	links ports.LinkService
	log   *zap.Logger
}

func NewCollectionHandler(links ports.LinkService, log *zap.Logger) *CollectionHandler {
	return &CollectionHandler{links: links, log: log}
}

type visibilityRequest struct {
	IsVisible *bool `json:"is_visible"`
}

type reorderRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

func (h *CollectionHandler) Delete(kind domain.LinkKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}
		if err := h.links.DeleteLink(r.Context(), OwnerID(r.Context()), kind, id); err != nil {
			writeError(w, h.log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *CollectionHandler) SetVisibility(kind domain.LinkKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}
		var req visibilityRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.IsVisible == nil {
			writeJSON(w, http.StatusBadRequest, errorBody{"is_visible is required"})
			return
		}
		if err := h.links.SetVisibility(r.Context(), OwnerID(r.Context()), kind, id, *req.IsVisible); err != nil {
			writeError(w, h.log, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"is_visible": *req.IsVisible})
	}
}

// Reorder takes the full desired order as a list of ids.
func (h *CollectionHandler) Reorder(kind domain.LinkKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reorderRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := h.links.ReorderLinks(r.Context(), OwnerID(r.Context()), kind, req.IDs); err != nil {
			writeError(w, h.log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
