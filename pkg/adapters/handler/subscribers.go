package handler

import (
	"bytes"
	"net/http"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
	"github.com/wadjakorntonsri/artistus/pkg/ports"
)

type SubscriberHandler struct {
	subs ports.SubscriberService
	log  *zap.Logger
}

func NewSubscriberHandler(subs ports.SubscriberService, log *zap.Logger) *SubscriberHandler {
	return &SubscriberHandler{subs: subs, log: log}
}

// Subscribe is the public email signup used by published pages.
func (h *SubscriberHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var in domain.SubscribeInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := h.subs.Subscribe(r.Context(), in); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *SubscriberHandler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.subs.ListSubscribers(r.Context(), OwnerID(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if subs == nil {
		subs = []domain.Subscriber{}
	}
	writeJSON(w, http.StatusOK, subs)
}

func (h *SubscriberHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.subs.Unsubscribe(r.Context(), OwnerID(r.Context()), id); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Export downloads every subscriber as CSV. The body is buffered so a
// failed query still produces a JSON error.
func (h *SubscriberHandler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.subs.ExportCSV(r.Context(), OwnerID(r.Context()), &buf); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=subscribers.csv")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
