package domain

import (
	"time"

	"github.com/google/uuid"
)

// SourcePublicPage marks subscribers collected by the page signup form.
const SourcePublicPage = "public_page"

type Subscriber struct {
	ID           uuid.UUID `json:"id"`
	ProfileID    uuid.UUID `json:"profile_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	Source       string    `json:"source"`
	SubscribedAt time.Time `json:"subscribed_at"`
	IsActive     bool      `json:"is_active"`
}

type SubscribeInput struct {
	ProfileID string `json:"profile_id" label:"Profile" validate:"required,uuid"`
	Email     string `json:"email" label:"Email" validate:"required,email"`
	Name      string `json:"name" label:"Name" validate:"max=100"`
}
