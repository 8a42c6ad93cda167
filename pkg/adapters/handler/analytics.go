package handler

import (
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
	"github.com/wadjakorntonsri/artistus/pkg/ports"
)

const maxTrackBody = 16 << 10

type AnalyticsHandler struct {
	stats ports.AnalyticsService
	log   *zap.Logger
}

func NewAnalyticsHandler(stats ports.AnalyticsService, log *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{stats: stats, log: log}
}

// Track records a page view or link click. Browsers send it with
// navigator.sendBeacon, so the body arrives as text/plain JSON.
func (h *AnalyticsHandler) Track(w http.ResponseWriter, r *http.Request) {
	var ev domain.TrackEvent
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxTrackBody)).Decode(&ev); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{"Invalid request body"})
		return
	}

	err := h.stats.Track(r.Context(), ev, requestMeta(r))
	if err != nil {
		if domain.IsValidation(err) {
			writeError(w, h.log, err)
			return
		}
		h.log.Error("track event failed", zap.String("type", ev.Type), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{"Internal error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.stats.Summary(r.Context(), OwnerID(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func requestMeta(r *http.Request) domain.RequestMeta {
	return domain.RequestMeta{
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
		Referrer:  r.Referer(),
		Country:   r.Header.Get("X-Vercel-IP-Country"),
		City:      unescapeHeader(r.Header.Get("X-Vercel-IP-City")),
	}
}

// clientIP prefers the first X-Forwarded-For hop.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

// Edge geo headers are percent-encoded.
func unescapeHeader(v string) string {
	if s, err := url.QueryUnescape(v); err == nil {
		return s
	}
	return v
}
