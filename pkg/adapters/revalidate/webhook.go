// Package revalidate notifies the hosting platform that an owner's public
// page changed.
package revalidate

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Webhook struct {
	url    string
	client *http.Client
	log    *zap.Logger
}

// NewWebhook posts to url. An empty url turns every call into a debug log.
func NewWebhook(url string, log *zap.Logger) *Webhook {
	if log == nil {
		log = zap.NewNop()
	}
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: 2 * time.Second},
		log:    log,
	}
}

type payload struct {
	OwnerID string `json:"owner_id"`
	Scope   string `json:"scope"`
}

// Revalidate never fails the caller; delivery problems are only logged.
func (w *Webhook) Revalidate(ctx context.Context, ownerID uuid.UUID, scope string) {
	log := w.log.With(zap.String("owner_id", ownerID.String()), zap.String("scope", scope))
	if w.url == "" {
		log.Debug("revalidate skipped, no webhook configured")
		return
	}

	body, err := json.Marshal(payload{OwnerID: ownerID.String(), Scope: scope})
	if err != nil {
		log.Error("revalidate encode failed", zap.Error(err))
		return
	}
	// Detached from the request so a finished response does not cancel it
	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		log.Error("revalidate request failed", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		log.Warn("revalidate webhook unreachable", zap.Error(err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		log.Warn("revalidate webhook rejected", zap.Int("status", resp.StatusCode))
	}
}
