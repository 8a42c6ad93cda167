package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
	"github.com/wadjakorntonsri/artistus/pkg/core/theme"
	"github.com/wadjakorntonsri/artistus/pkg/core/validation"
	"github.com/wadjakorntonsri/artistus/pkg/ports"
)

// SettingsService manages page appearance.
type SettingsService struct {
	repo  ports.SettingsRepository
	reval ports.Revalidator
	now   func() time.Time
}

func NewSettingsService(repo ports.SettingsRepository, reval ports.Revalidator) *SettingsService {
	return &SettingsService{repo: repo, reval: orNoop(reval), now: time.Now}
}

func (s *SettingsService) GetSettings(ctx context.Context, ownerID uuid.UUID) (*domain.PageSettings, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	st, err := s.repo.GetSettings(ctx, ownerID)
	if errors.Is(err, domain.ErrNotFound) {
		def := theme.DefaultSettings()
		def.ProfileID = ownerID
		return &def, nil
	}
	return st, err
}

func (s *SettingsService) UpdateSettings(ctx context.Context, ownerID uuid.UUID, in domain.PageSettingsInput) (*domain.PageSettings, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.BackgroundType == "gradient" && in.BackgroundGradient == "" {
		return nil, domain.Invalid("Background gradient is required")
	}

	st := &domain.PageSettings{
		ProfileID:          ownerID,
		ThemePreset:        in.ThemePreset,
		PrimaryColor:       in.PrimaryColor,
		SecondaryColor:     in.SecondaryColor,
		BackgroundColor:    in.BackgroundColor,
		TextColor:          in.TextColor,
		BackgroundType:     in.BackgroundType,
		BackgroundGradient: in.BackgroundGradient,
		FontFamily:         in.FontFamily,
		ButtonStyle:        in.ButtonStyle,
		ButtonColor:        in.ButtonColor,
		ButtonTextColor:    in.ButtonTextColor,
		LayoutStyle:        in.LayoutStyle,
		ShowPoweredBy:      in.ShowPoweredBy,
		UpdatedAt:          s.now(),
	}
	if err := s.repo.UpdateSettings(ctx, st); err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	s.reval.Revalidate(ctx, ownerID, ports.ScopeAppearance)
	return st, nil
}

// ApplyPreset copies a preset palette over the current settings.
func (s *SettingsService) ApplyPreset(ctx context.Context, ownerID uuid.UUID, key string) (*domain.PageSettings, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	preset, ok := theme.Lookup(key)
	if !ok {
		return nil, domain.ErrNotFound
	}

	st, err := s.GetSettings(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	preset.Apply(st)
	st.UpdatedAt = s.now()
	if err := s.repo.UpdateSettings(ctx, st); err != nil {
		return nil, fmt.Errorf("apply preset: %w", err)
	}
	s.reval.Revalidate(ctx, ownerID, ports.ScopeAppearance)
	return st, nil
}
