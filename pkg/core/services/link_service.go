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

	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
	"github.com/wadjakorntonsri/artistus/pkg/core/media"
	"github.com/wadjakorntonsri/artistus/pkg/core/validation"
	"github.com/wadjakorntonsri/artistus/pkg/ports"
)

// LinkService manages an owner's four link collections.
type LinkService struct {
	repo    ports.LinkRepository
	storage ports.FileStorage
	reval   ports.Revalidator
	log     *zap.Logger
	now     func() time.Time
}

func NewLinkService(repo ports.LinkRepository, storage ports.FileStorage, reval ports.Revalidator, log *zap.Logger) *LinkService {
	return &LinkService{
		repo:    repo,
		storage: storage,
		reval:   orNoop(reval),
		log:     orNop(log),
		now:     time.Now,
	}
}

func (s *LinkService) changed(ctx context.Context, ownerID uuid.UUID) {
	s.reval.Revalidate(ctx, ownerID, ports.ScopeLinks)
}

// Music

func (s *LinkService) CreateMusicLink(ctx context.Context, ownerID uuid.UUID, in domain.MusicLinkInput) (*domain.MusicLink, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	now := s.now()
	link := musicFromInput(in)
	link.ID = uuid.New()
	link.ProfileID = ownerID
	link.IsVisible = true
	link.CreatedAt = now
	link.UpdatedAt = now

	if err := s.repo.CreateMusicLink(ctx, link); err != nil {
		return nil, fmt.Errorf("create music link: %w", err)
	}
	s.changed(ctx, ownerID)
	return link, nil
}

func (s *LinkService) UpdateMusicLink(ctx context.Context, ownerID, id uuid.UUID, in domain.MusicLinkInput) (*domain.MusicLink, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	link := musicFromInput(in)
	link.ID = id
	link.ProfileID = ownerID
	link.UpdatedAt = s.now()

	if err := s.repo.UpdateMusicLink(ctx, link); err != nil {
		return nil, fmt.Errorf("update music link: %w", err)
	}
	s.changed(ctx, ownerID)
	return link, nil
}

func (s *LinkService) ListMusicLinks(ctx context.Context, ownerID uuid.UUID) ([]domain.MusicLink, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.repo.ListMusicLinks(ctx, ownerID, ports.ListFilter{})
}

// UpdateCoverArt stores a resized cover image for one of the owner's music
// links and returns its URL.
func (s *LinkService) UpdateCoverArt(ctx context.Context, ownerID, id uuid.UUID, r io.Reader) (string, error) {
	if err := requireOwner(ownerID); err != nil {
		return "", err
	}
	if _, err := s.repo.GetMusicLink(ctx, ownerID, id); err != nil {
		return "", err
	}

	img, err := media.Process(r, media.CoverArtMaxBytes, media.CoverArtMaxSide)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s/%s.%s", ownerID, id, img.Ext)
	url, err := s.storage.Put(ctx, "cover-art", name, img.ContentType, bytes.NewReader(img.Data))
	if err != nil {
		return "", fmt.Errorf("store cover art: %w", err)
	}
	if err := s.repo.SetCoverArtURL(ctx, ownerID, id, url); err != nil {
		return "", fmt.Errorf("save cover art url: %w", err)
	}
	s.changed(ctx, ownerID)
	return url, nil
}

func musicFromInput(in domain.MusicLinkInput) *domain.MusicLink {
	return &domain.MusicLink{
		Title:          strings.TrimSpace(in.Title),
		Type:           in.Type,
		ReleaseDate:    in.ReleaseDate,
		SpotifyURL:     in.SpotifyURL,
		AppleMusicURL:  in.AppleMusicURL,
		YouTubeMusic:   in.YouTubeMusic,
		SoundCloudURL:  in.SoundCloudURL,
		TidalURL:       in.TidalURL,
		AmazonMusicURL: in.AmazonMusicURL,
		DeezerURL:      in.DeezerURL,
		CustomURL:      in.CustomURL,
		CustomURLLabel: in.CustomURLLabel,
		EmbedURL:       domain.EmbedURL(in),
		EmbedPlatform:  in.EmbedPlatform,
	}
}

// Social

func (s *LinkService) CreateSocialLink(ctx context.Context, ownerID uuid.UUID, in domain.SocialLinkInput) (*domain.SocialLink, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	link := &domain.SocialLink{
		ID:        uuid.New(),
		ProfileID: ownerID,
		Platform:  in.Platform,
		URL:       in.URL,
		Label:     in.Label,
		IsVisible: true,
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateSocialLink(ctx, link); err != nil {
		return nil, fmt.Errorf("create social link: %w", err)
	}
	s.changed(ctx, ownerID)
	return link, nil
}

func (s *LinkService) UpdateSocialLink(ctx context.Context, ownerID, id uuid.UUID, in domain.SocialLinkInput) (*domain.SocialLink, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	link := &domain.SocialLink{
		ID:        id,
		ProfileID: ownerID,
		Platform:  in.Platform,
		URL:       in.URL,
		Label:     in.Label,
	}
	if err := s.repo.UpdateSocialLink(ctx, link); err != nil {
		return nil, fmt.Errorf("update social link: %w", err)
	}
	s.changed(ctx, ownerID)
	return link, nil
}

func (s *LinkService) ListSocialLinks(ctx context.Context, ownerID uuid.UUID) ([]domain.SocialLink, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.repo.ListSocialLinks(ctx, ownerID, ports.ListFilter{})
}

// Merch

func (s *LinkService) CreateMerchLink(ctx context.Context, ownerID uuid.UUID, in domain.MerchLinkInput) (*domain.MerchLink, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	link := &domain.MerchLink{
		ID:        uuid.New(),
		ProfileID: ownerID,
		Title:     strings.TrimSpace(in.Title),
		URL:       in.URL,
		Platform:  in.Platform,
		Price:     in.Price,
		IsVisible: true,
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateMerchLink(ctx, link); err != nil {
		return nil, fmt.Errorf("create merch link: %w", err)
	}
	s.changed(ctx, ownerID)
	return link, nil
}

func (s *LinkService) UpdateMerchLink(ctx context.Context, ownerID, id uuid.UUID, in domain.MerchLinkInput) (*domain.MerchLink, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	link := &domain.MerchLink{
		ID:        id,
		ProfileID: ownerID,
		Title:     strings.TrimSpace(in.Title),
		URL:       in.URL,
		Platform:  in.Platform,
		Price:     in.Price,
	}
	if err := s.repo.UpdateMerchLink(ctx, link); err != nil {
		return nil, fmt.Errorf("update merch link: %w", err)
	}
	s.changed(ctx, ownerID)
	return link, nil
}

func (s *LinkService) ListMerchLinks(ctx context.Context, ownerID uuid.UUID) ([]domain.MerchLink, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.repo.ListMerchLinks(ctx, ownerID, ports.ListFilter{})
}

// Tour

func (s *LinkService) CreateTourDate(ctx context.Context, ownerID uuid.UUID, in domain.TourDateInput) (*domain.TourDate, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	date, err := tourFromInput(in)
	if err != nil {
		return nil, err
	}
	date.ID = uuid.New()
	date.ProfileID = ownerID
	date.IsVisible = true
	date.CreatedAt = s.now()

	if err := s.repo.CreateTourDate(ctx, date); err != nil {
		return nil, fmt.Errorf("create tour date: %w", err)
	}
	s.changed(ctx, ownerID)
	return date, nil
}

func (s *LinkService) UpdateTourDate(ctx context.Context, ownerID, id uuid.UUID, in domain.TourDateInput) (*domain.TourDate, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	date, err := tourFromInput(in)
	if err != nil {
		return nil, err
	}
	date.ID = id
	date.ProfileID = ownerID

	if err := s.repo.UpdateTourDate(ctx, date); err != nil {
		return nil, fmt.Errorf("update tour date: %w", err)
	}
	s.changed(ctx, ownerID)
	return date, nil
}

// ListTourDates returns every date, past and hidden ones included, by
// event date.
func (s *LinkService) ListTourDates(ctx context.Context, ownerID uuid.UUID) ([]domain.TourDate, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.repo.ListTourDates(ctx, ownerID, ports.ListFilter{})
}

func tourFromInput(in domain.TourDateInput) (*domain.TourDate, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	when, err := domain.ParseEventDate(strings.TrimSpace(in.EventDate))
	if err != nil {
		return nil, domain.Invalid("Invalid date")
	}
	return &domain.TourDate{
		EventName:   strings.TrimSpace(in.EventName),
		Venue:       strings.TrimSpace(in.Venue),
		City:        strings.TrimSpace(in.City),
		CountryCode: strings.ToUpper(in.CountryCode),
		EventDate:   when,
		TicketURL:   in.TicketURL,
		IsSoldOut:   in.IsSoldOut,
		IsCancelled: in.IsCancelled,
	}, nil
}
