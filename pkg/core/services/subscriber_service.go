package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
	"github.com/wadjakorntonsri/artistus/pkg/core/validation"
	"github.com/wadjakorntonsri/artistus/pkg/ports"
)

type SubscriberService struct {
	subscribers ports.SubscriberRepository
	profiles    ports.ProfileRepository
	log         *zap.Logger
	now         func() time.Time
}

func NewSubscriberService(subscribers ports.SubscriberRepository, profiles ports.ProfileRepository, log *zap.Logger) *SubscriberService {
	return &SubscriberService{
		subscribers: subscribers,
		profiles:    profiles,
		log:         orNop(log),
		now:         time.Now,
	}
}

// Subscribe adds a fan to a published profile's list.
func (s *SubscriberService) Subscribe(ctx context.Context, in domain.SubscribeInput) error {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return err
	}
	profileID, err := uuid.Parse(in.ProfileID)
	if err != nil {
		return domain.Invalid("Invalid profile")
	}

	profile, err := s.profiles.GetProfile(ctx, profileID)
	if err != nil {
		return err
	}
	if !profile.IsPublished {
		return domain.ErrNotFound
	}

	sub := &domain.Subscriber{
		ID:           uuid.New(),
		ProfileID:    profileID,
		Email:        in.Email,
		Name:         in.Name,
		Source:       domain.SourcePublicPage,
		SubscribedAt: s.now(),
	}
	if err := s.subscribers.AddSubscriber(ctx, sub); err != nil {
		return err
	}
	s.log.Debug("subscriber added", zap.String("owner_id", profileID.String()))
	return nil
}

// ListSubscribers returns active and inactive subscribers, newest first.
func (s *SubscriberService) ListSubscribers(ctx context.Context, ownerID uuid.UUID) ([]domain.Subscriber, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.subscribers.ListSubscribers(ctx, ownerID, false)
}

// Unsubscribe soft-deletes; the address can subscribe again later.
func (s *SubscriberService) Unsubscribe(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	return s.subscribers.DeactivateSubscriber(ctx, ownerID, id)
}

// ExportCSV writes active subscribers, newest first.
func (s *SubscriberService) ExportCSV(ctx context.Context, ownerID uuid.UUID, w io.Writer) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	subs, err := s.subscribers.ListSubscribers(ctx, ownerID, true)
	if err != nil {
		return fmt.Errorf("list subscribers: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"email", "name", "subscribed_at", "source"}); err != nil {
		return err
	}
	for _, sub := range subs {
		record := []string{sub.Email, sub.Name, sub.SubscribedAt.UTC().Format(time.RFC3339), sub.Source}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
