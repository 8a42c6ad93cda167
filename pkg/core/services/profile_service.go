package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
	"github.com/wadjakorntonsri/artistus/pkg/core/media"
	"github.com/wadjakorntonsri/artistus/pkg/core/validation"
	"github.com/wadjakorntonsri/artistus/pkg/ports"
)

type ProfileService struct {
	profiles    ports.ProfileRepository
	links       ports.LinkRepository
	subscribers ports.SubscriberRepository
	storage     ports.FileStorage
	reval       ports.Revalidator
	log         *zap.Logger
	now         func() time.Time
}

func NewProfileService(
	profiles ports.ProfileRepository,
	links ports.LinkRepository,
	subscribers ports.SubscriberRepository,
	storage ports.FileStorage,
	reval ports.Revalidator,
	log *zap.Logger,
) *ProfileService {
	return &ProfileService{
		profiles:    profiles,
		links:       links,
		subscribers: subscribers,
		storage:     storage,
		reval:       orNoop(reval),
		log:         orNop(log),
		now:         time.Now,
	}
}

func (s *ProfileService) GetProfile(ctx context.Context, ownerID uuid.UUID) (*domain.Profile, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.profiles.GetProfile(ctx, ownerID)
}

// UpdateProfile replaces the editable fields. Username uniqueness is only
// checked when the username actually changes.
func (s *ProfileService) UpdateProfile(ctx context.Context, ownerID uuid.UUID, in domain.ProfileInput) (*domain.Profile, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	in.Username = strings.TrimSpace(in.Username)
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetProfile(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if in.Username != profile.Username {
		taken, err := s.profiles.UsernameExists(ctx, in.Username)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if taken {
			return nil, domain.ErrUsernameTaken
		}
	}

	profile.Username = in.Username
	profile.DisplayName = in.DisplayName
	profile.Bio = strings.TrimSpace(in.Bio)
	profile.GenreTags = cleanTags(in.GenreTags)
	profile.UpdatedAt = s.now()

	if err := s.profiles.UpdateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	s.reval.Revalidate(ctx, ownerID, ports.ScopeProfile)
	return profile, nil
}

func (s *ProfileService) SetPublished(ctx context.Context, ownerID uuid.UUID, published bool) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	if err := s.profiles.SetPublished(ctx, ownerID, published); err != nil {
		return fmt.Errorf("set published: %w", err)
	}
	s.reval.Revalidate(ctx, ownerID, ports.ScopeProfile)
	return nil
}

// UpdateAvatar resizes and stores a new avatar, returning its URL.
func (s *ProfileService) UpdateAvatar(ctx context.Context, ownerID uuid.UUID, r io.Reader) (string, error) {
	if err := requireOwner(ownerID); err != nil {
		return "", err
	}
	img, err := media.Process(r, media.AvatarMaxBytes, media.AvatarMaxSide)
	if err != nil {
		return "", err
	}

	url, err := s.storage.Put(ctx, "avatars", fmt.Sprintf("%s/avatar.%s", ownerID, img.Ext), img.ContentType, bytes.NewReader(img.Data))
	if err != nil {
		return "", fmt.Errorf("store avatar: %w", err)
	}
	if err := s.profiles.SetAvatarURL(ctx, ownerID, url); err != nil {
		return "", fmt.Errorf("save avatar url: %w", err)
	}
	s.reval.Revalidate(ctx, ownerID, ports.ScopeProfile)
	return url, nil
}

// Overview gathers the dashboard figures concurrently.
func (s *ProfileService) Overview(ctx context.Context, ownerID uuid.UUID) (*domain.DashboardOverview, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	out := &domain.DashboardOverview{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.profiles.GetProfile(gctx, ownerID)
		out.Profile = p
		return err
	})
	counts := map[domain.LinkKind]*int64{
		domain.KindMusic:  &out.MusicLinks,
		domain.KindSocial: &out.SocialLinks,
		domain.KindMerch:  &out.MerchLinks,
		domain.KindTour:   &out.TourDates,
	}
	for kind, dst := range counts {
		g.Go(func() error {
			n, err := s.links.CountLinks(gctx, kind, ownerID)
			*dst = n
			return err
		})
	}
	g.Go(func() error {
		n, err := s.subscribers.CountSubscribers(gctx, ownerID)
		out.Subscribers = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}
