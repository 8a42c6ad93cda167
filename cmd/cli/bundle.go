package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
	"github.com/wadjakorntonsri/artistus/pkg/ports"
)

const bundleVersion = 1

// bundle is the export file format. Collections keep their stored order
// and include hidden entries.
type bundle struct {
	Version     int                  `json:"version"`
	ExportedAt  time.Time            `json:"exported_at"`
	Profile     *domain.Profile      `json:"profile"`
	Settings    *domain.PageSettings `json:"settings,omitempty"`
	MusicLinks  []domain.MusicLink   `json:"music_links"`
	SocialLinks []domain.SocialLink  `json:"social_links"`
	MerchLinks  []domain.MerchLink   `json:"merch_links"`
	TourDates   []domain.TourDate    `json:"tour_dates"`
}

type bundleStore interface {
	ports.ProfileRepository
	ports.SettingsRepository
	ports.LinkRepository
}

func exportBundle(ctx context.Context, store bundleStore, username string, w io.Writer) error {
	p, err := store.GetProfileByUsername(ctx, normalizeUsername(username))
	if err != nil {
		return fmt.Errorf("find %s: %w", username, err)
	}

	b := bundle{Version: bundleVersion, ExportedAt: time.Now().UTC(), Profile: p}
	b.Settings, err = store.GetSettings(ctx, p.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("load settings: %w", err)
	}

	all := ports.ListFilter{}
	if b.MusicLinks, err = store.ListMusicLinks(ctx, p.ID, all); err != nil {
		return fmt.Errorf("list music links: %w", err)
	}
	if b.SocialLinks, err = store.ListSocialLinks(ctx, p.ID, all); err != nil {
		return fmt.Errorf("list social links: %w", err)
	}
	if b.MerchLinks, err = store.ListMerchLinks(ctx, p.ID, all); err != nil {
		return fmt.Errorf("list merch links: %w", err)
	}
	if b.TourDates, err = store.ListTourDates(ctx, p.ID, all); err != nil {
		return fmt.Errorf("list tour dates: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(b)
}

// importBundle appends the bundle's collections to username's profile
// under fresh ids. Social platforms the profile already has are skipped.
func importBundle(ctx context.Context, store bundleStore, username string, r io.Reader, log *zap.Logger) (int, error) {
	var b bundle
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return 0, fmt.Errorf("decode bundle: %w", err)
	}
	if b.Version != bundleVersion {
		return 0, fmt.Errorf("unsupported bundle version %d", b.Version)
	}

	p, err := store.GetProfileByUsername(ctx, normalizeUsername(username))
	if err != nil {
		return 0, fmt.Errorf("find %s: %w", username, err)
	}
	owner := p.ID
	now := time.Now().UTC()
	count := 0

	for _, l := range b.MusicLinks {
		l.ID, l.ProfileID = uuid.New(), owner
		l.CreatedAt, l.UpdatedAt = stamp(l.CreatedAt, now), now
		if err := store.CreateMusicLink(ctx, &l); err != nil {
			return count, fmt.Errorf("import music link %q: %w", l.Title, err)
		}
		count++
	}
	for _, l := range b.SocialLinks {
		l.ID, l.ProfileID = uuid.New(), owner
		l.CreatedAt = stamp(l.CreatedAt, now)
		err := store.CreateSocialLink(ctx, &l)
		if errors.Is(err, domain.ErrDuplicatePlatform) {
			log.Warn("skipping social link, platform already linked", zap.String("platform", l.Platform))
			continue
		}
		if err != nil {
			return count, fmt.Errorf("import social link %q: %w", l.Platform, err)
		}
		count++
	}
	for _, l := range b.MerchLinks {
		l.ID, l.ProfileID = uuid.New(), owner
		l.CreatedAt = stamp(l.CreatedAt, now)
		if err := store.CreateMerchLink(ctx, &l); err != nil {
			return count, fmt.Errorf("import merch link %q: %w", l.Title, err)
		}
		count++
	}
	for _, d := range b.TourDates {
		d.ID, d.ProfileID = uuid.New(), owner
		d.CreatedAt = stamp(d.CreatedAt, now)
		if err := store.CreateTourDate(ctx, &d); err != nil {
			return count, fmt.Errorf("import tour date %q: %w", d.Venue, err)
		}
		count++
	}
	return count, nil
}

func stamp(t, fallback time.Time) time.Time {
	if t.IsZero() {
		return fallback
	}
	return t
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
