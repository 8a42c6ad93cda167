package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
	"github.com/wadjakorntonsri/artistus/pkg/core/theme"
	"github.com/wadjakorntonsri/artistus/pkg/ports"
)

// PageService assembles the read-only public view of a profile.
type PageService struct {
	profiles ports.ProfileRepository
	settings ports.SettingsRepository
	links    ports.LinkRepository
	now      func() time.Time
}

func NewPageService(profiles ports.ProfileRepository, settings ports.SettingsRepository, links ports.LinkRepository) *PageService {
	return &PageService{
		profiles: profiles,
		settings: settings,
		links:    links,
		now:      time.Now,
	}
}

// GetPublicPage returns domain.ErrNotFound for unknown and unpublished
// usernames alike.
func (s *PageService) GetPublicPage(ctx context.Context, username string) (*domain.PublicPage, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, domain.ErrNotFound
	}
	profile, err := s.profiles.GetProfileByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !profile.IsPublished {
		return nil, domain.ErrNotFound
	}

	page := &domain.PublicPage{Profile: profile, GeneratedAt: s.now()}
	visible := ports.ListFilter{VisibleOnly: true}
	owner := profile.ID

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		st, err := s.settings.GetSettings(gctx, owner)
		if errors.Is(err, domain.ErrNotFound) {
			def := theme.DefaultSettings()
			def.ProfileID = owner
			st, err = &def, nil
		}
		page.Settings = st
		return err
	})
	g.Go(func() (err error) {
		page.MusicLinks, err = s.links.ListMusicLinks(gctx, owner, visible)
		return err
	})
	g.Go(func() (err error) {
		page.SocialLinks, err = s.links.ListSocialLinks(gctx, owner, visible)
		return err
	})
	g.Go(func() (err error) {
		page.MerchLinks, err = s.links.ListMerchLinks(gctx, owner, visible)
		return err
	})
	g.Go(func() (err error) {
		page.TourDates, err = s.links.ListTourDates(gctx, owner, visible)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	page.TourDates = domain.UpcomingDates(page.TourDates, page.GeneratedAt)
	page.Featured = domain.FeaturedLink(page.MusicLinks)
	return page, nil
}
