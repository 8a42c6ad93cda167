package sqlite

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
)

func insertSettings(ctx context.Context, tx *sql.Tx, s *domain.PageSettings) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO page_settings (profile_id, theme_preset, primary_color, secondary_color, background_color,
			text_color, background_type, background_gradient, font_family, button_style, button_color,
			button_text_color, layout_style, show_powered_by, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ProfileID, s.ThemePreset, s.PrimaryColor, s.SecondaryColor, s.BackgroundColor,
		s.TextColor, s.BackgroundType, s.BackgroundGradient, s.FontFamily, s.ButtonStyle, s.ButtonColor,
		s.ButtonTextColor, s.LayoutStyle, s.ShowPoweredBy, formatTime(s.UpdatedAt))
	return err
}

func (r *SQLiteRepository) GetSettings(ctx context.Context, ownerID uuid.UUID) (*domain.PageSettings, error) {
	var s domain.PageSettings
	var updatedAt string
	err := r.db.QueryRowContext(ctx, `
		SELECT profile_id, theme_preset, primary_color, secondary_color, background_color, text_color,
			background_type, background_gradient, font_family, button_style, button_color,
			button_text_color, layout_style, show_powered_by, updated_at
		FROM page_settings WHERE profile_id = ?`, ownerID).Scan(
		&s.ProfileID, &s.ThemePreset, &s.PrimaryColor, &s.SecondaryColor, &s.BackgroundColor, &s.TextColor,
		&s.BackgroundType, &s.BackgroundGradient, &s.FontFamily, &s.ButtonStyle, &s.ButtonColor,
		&s.ButtonTextColor, &s.LayoutStyle, &s.ShowPoweredBy, &updatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	if s.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateSettings writes the owner's settings, creating the row when the
// profile has none. An unknown profile reports domain.ErrNotFound.
func (r *SQLiteRepository) UpdateSettings(ctx context.Context, s *domain.PageSettings) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO page_settings (profile_id, theme_preset, primary_color, secondary_color, background_color,
			text_color, background_type, background_gradient, font_family, button_style,
			button_color, button_text_color, layout_style, show_powered_by, updated_at)
		SELECT id, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ? FROM profiles WHERE id = ?
		ON CONFLICT(profile_id) DO UPDATE SET
			theme_preset = excluded.theme_preset, primary_color = excluded.primary_color,
			secondary_color = excluded.secondary_color, background_color = excluded.background_color,
			text_color = excluded.text_color, background_type = excluded.background_type,
			background_gradient = excluded.background_gradient, font_family = excluded.font_family,
			button_style = excluded.button_style, button_color = excluded.button_color,
			button_text_color = excluded.button_text_color, layout_style = excluded.layout_style,
			show_powered_by = excluded.show_powered_by, updated_at = excluded.updated_at`,
		s.ThemePreset, s.PrimaryColor, s.SecondaryColor, s.BackgroundColor,
		s.TextColor, s.BackgroundType, s.BackgroundGradient, s.FontFamily, s.ButtonStyle,
		s.ButtonColor, s.ButtonTextColor, s.LayoutStyle, s.ShowPoweredBy, formatTime(s.UpdatedAt),
		s.ProfileID)
	if err != nil {
		return err
	}
	return requireRow(res)
}
