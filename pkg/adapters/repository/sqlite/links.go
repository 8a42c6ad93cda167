package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
	"github.com/wadjakorntonsri/artistus/pkg/ports"
)

var linkTables = map[domain.LinkKind]string{
	domain.KindMusic:  "music_links",
	domain.KindSocial: "social_links",
	domain.KindMerch:  "merch_links",
	domain.KindTour:   "tour_dates",
}

func tableFor(kind domain.LinkKind) (string, error) {
	t, ok := linkTables[kind]
	if !ok {
		return "", domain.Invalid(fmt.Sprintf("unknown link kind %q", kind))
	}
	return t, nil
}

// nextSortOrder is evaluated inside the INSERT so the position is taken
// atomically with the write.
func nextSortOrder(table string) string {
	return `(SELECT COALESCE(MAX(sort_order), -1) + 1 FROM ` + table + ` WHERE profile_id = ?)`
}

func visibleClause(f ports.ListFilter) string {
	if f.VisibleOnly {
		return ` AND is_visible = 1`
	}
	return ""
}

// Music

const musicColumns = `id, profile_id, title, type, cover_art_url, release_date, spotify_url, apple_music_url,
	youtube_music_url, soundcloud_url, tidal_url, amazon_music_url, deezer_url, custom_url, custom_url_label,
	embed_url, embed_platform, sort_order, is_visible, created_at, updated_at`

func (r *SQLiteRepository) CreateMusicLink(ctx context.Context, l *domain.MusicLink) error {
	query := `INSERT INTO music_links (` + musicColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ` + nextSortOrder("music_links") + `, ?, ?, ?)
		RETURNING sort_order`
	return r.db.QueryRowContext(ctx, query,
		l.ID, l.ProfileID, l.Title, l.Type, l.CoverArtURL, l.ReleaseDate, l.SpotifyURL, l.AppleMusicURL,
		l.YouTubeMusic, l.SoundCloudURL, l.TidalURL, l.AmazonMusicURL, l.DeezerURL, l.CustomURL, l.CustomURLLabel,
		l.EmbedURL, l.EmbedPlatform, l.ProfileID, l.IsVisible, formatTime(l.CreatedAt), formatTime(l.UpdatedAt),
	).Scan(&l.SortOrder)
}

// UpdateMusicLink rewrites the editable fields and reads back the ones it
// does not own (cover art, position, visibility, creation time).
func (r *SQLiteRepository) UpdateMusicLink(ctx context.Context, l *domain.MusicLink) error {
	var createdAt string
	err := r.db.QueryRowContext(ctx, `
		UPDATE music_links SET title = ?, type = ?, release_date = ?, spotify_url = ?, apple_music_url = ?,
			youtube_music_url = ?, soundcloud_url = ?, tidal_url = ?, amazon_music_url = ?, deezer_url = ?,
			custom_url = ?, custom_url_label = ?, embed_url = ?, embed_platform = ?, updated_at = ?
		WHERE id = ? AND profile_id = ?
		RETURNING cover_art_url, sort_order, is_visible, created_at`,
		l.Title, l.Type, l.ReleaseDate, l.SpotifyURL, l.AppleMusicURL,
		l.YouTubeMusic, l.SoundCloudURL, l.TidalURL, l.AmazonMusicURL, l.DeezerURL,
		l.CustomURL, l.CustomURLLabel, l.EmbedURL, l.EmbedPlatform, formatTime(l.UpdatedAt),
		l.ID, l.ProfileID,
	).Scan(&l.CoverArtURL, &l.SortOrder, &l.IsVisible, &createdAt)
	if err != nil {
		return notFound(err)
	}
	l.CreatedAt, err = parseTime(createdAt)
	return err
}

func (r *SQLiteRepository) ListMusicLinks(ctx context.Context, ownerID uuid.UUID, f ports.ListFilter) ([]domain.MusicLink, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+musicColumns+` FROM music_links WHERE profile_id = ?`+visibleClause(f)+` ORDER BY sort_order, created_at`,
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := []domain.MusicLink{}
	for rows.Next() {
		l, err := scanMusic(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, *l)
	}
	return links, rows.Err()
}

func (r *SQLiteRepository) GetMusicLink(ctx context.Context, ownerID, id uuid.UUID) (*domain.MusicLink, error) {
	l, err := scanMusic(r.db.QueryRowContext(ctx,
		`SELECT `+musicColumns+` FROM music_links WHERE id = ? AND profile_id = ?`, id, ownerID))
	return l, notFound(err)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMusic(row scanner) (*domain.MusicLink, error) {
	var l domain.MusicLink
	var createdAt, updatedAt string
	err := row.Scan(&l.ID, &l.ProfileID, &l.Title, &l.Type, &l.CoverArtURL, &l.ReleaseDate,
		&l.SpotifyURL, &l.AppleMusicURL, &l.YouTubeMusic, &l.SoundCloudURL, &l.TidalURL,
		&l.AmazonMusicURL, &l.DeezerURL, &l.CustomURL, &l.CustomURLLabel, &l.EmbedURL,
		&l.EmbedPlatform, &l.SortOrder, &l.IsVisible, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if l.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if l.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *SQLiteRepository) SetCoverArtURL(ctx context.Context, ownerID, linkID uuid.UUID, url string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE music_links SET cover_art_url = ?, updated_at = ? WHERE id = ? AND profile_id = ?`,
		url, formatTime(time.Now()), linkID, ownerID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Social

const socialColumns = `id, profile_id, platform, url, label, sort_order, is_visible, created_at`

func (r *SQLiteRepository) CreateSocialLink(ctx context.Context, l *domain.SocialLink) error {
	query := `INSERT INTO social_links (` + socialColumns + `)
		VALUES (?, ?, ?, ?, ?, ` + nextSortOrder("social_links") + `, ?, ?)
		RETURNING sort_order`
	err := r.db.QueryRowContext(ctx, query,
		l.ID, l.ProfileID, l.Platform, l.URL, l.Label, l.ProfileID, l.IsVisible, formatTime(l.CreatedAt),
	).Scan(&l.SortOrder)
	if _, ok := uniqueViolation(err); ok {
		return domain.ErrDuplicatePlatform
	}
	return err
}

func (r *SQLiteRepository) UpdateSocialLink(ctx context.Context, l *domain.SocialLink) error {
	var createdAt string
	err := r.db.QueryRowContext(ctx, `
		UPDATE social_links SET platform = ?, url = ?, label = ?
		WHERE id = ? AND profile_id = ?
		RETURNING sort_order, is_visible, created_at`,
		l.Platform, l.URL, l.Label, l.ID, l.ProfileID,
	).Scan(&l.SortOrder, &l.IsVisible, &createdAt)
	if _, ok := uniqueViolation(err); ok {
		return domain.ErrDuplicatePlatform
	}
	if err != nil {
		return notFound(err)
	}
	l.CreatedAt, err = parseTime(createdAt)
	return err
}

func (r *SQLiteRepository) ListSocialLinks(ctx context.Context, ownerID uuid.UUID, f ports.ListFilter) ([]domain.SocialLink, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+socialColumns+` FROM social_links WHERE profile_id = ?`+visibleClause(f)+` ORDER BY sort_order, created_at`,
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := []domain.SocialLink{}
	for rows.Next() {
		var l domain.SocialLink
		var createdAt string
		if err := rows.Scan(&l.ID, &l.ProfileID, &l.Platform, &l.URL, &l.Label, &l.SortOrder,
			&l.IsVisible, &createdAt); err != nil {
			return nil, err
		}
		if l.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// Merch

const merchColumns = `id, profile_id, title, url, platform, image_url, price, sort_order, is_visible, created_at`

func (r *SQLiteRepository) CreateMerchLink(ctx context.Context, l *domain.MerchLink) error {
	query := `INSERT INTO merch_links (` + merchColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ` + nextSortOrder("merch_links") + `, ?, ?)
		RETURNING sort_order`
	return r.db.QueryRowContext(ctx, query,
		l.ID, l.ProfileID, l.Title, l.URL, l.Platform, l.ImageURL, l.Price, l.ProfileID, l.IsVisible,
		formatTime(l.CreatedAt),
	).Scan(&l.SortOrder)
}

func (r *SQLiteRepository) UpdateMerchLink(ctx context.Context, l *domain.MerchLink) error {
	var createdAt string
	err := r.db.QueryRowContext(ctx, `
		UPDATE merch_links SET title = ?, url = ?, platform = ?, price = ?
		WHERE id = ? AND profile_id = ?
		RETURNING image_url, sort_order, is_visible, created_at`,
		l.Title, l.URL, l.Platform, l.Price, l.ID, l.ProfileID,
	).Scan(&l.ImageURL, &l.SortOrder, &l.IsVisible, &createdAt)
	if err != nil {
		return notFound(err)
	}
	l.CreatedAt, err = parseTime(createdAt)
	return err
}

func (r *SQLiteRepository) ListMerchLinks(ctx context.Context, ownerID uuid.UUID, f ports.ListFilter) ([]domain.MerchLink, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+merchColumns+` FROM merch_links WHERE profile_id = ?`+visibleClause(f)+` ORDER BY sort_order, created_at`,
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := []domain.MerchLink{}
	for rows.Next() {
		var l domain.MerchLink
		var createdAt string
		if err := rows.Scan(&l.ID, &l.ProfileID, &l.Title, &l.URL, &l.Platform, &l.ImageURL, &l.Price,
			&l.SortOrder, &l.IsVisible, &createdAt); err != nil {
			return nil, err
		}
		if l.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// Tour

const tourColumns = `id, profile_id, event_name, venue, city, country_code, event_date, ticket_url,
	is_sold_out, is_cancelled, sort_order, is_visible, created_at`

func (r *SQLiteRepository) CreateTourDate(ctx context.Context, t *domain.TourDate) error {
	query := `INSERT INTO tour_dates (` + tourColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ` + nextSortOrder("tour_dates") + `, ?, ?)
		RETURNING sort_order`
	return r.db.QueryRowContext(ctx, query,
		t.ID, t.ProfileID, t.EventName, t.Venue, t.City, t.CountryCode, formatTime(t.EventDate), t.TicketURL,
		t.IsSoldOut, t.IsCancelled, t.ProfileID, t.IsVisible, formatTime(t.CreatedAt),
	).Scan(&t.SortOrder)
}

func (r *SQLiteRepository) UpdateTourDate(ctx context.Context, t *domain.TourDate) error {
	var createdAt string
	err := r.db.QueryRowContext(ctx, `
		UPDATE tour_dates SET event_name = ?, venue = ?, city = ?, country_code = ?, event_date = ?,
			ticket_url = ?, is_sold_out = ?, is_cancelled = ?
		WHERE id = ? AND profile_id = ?
		RETURNING sort_order, is_visible, created_at`,
		t.EventName, t.Venue, t.City, t.CountryCode, formatTime(t.EventDate),
		t.TicketURL, t.IsSoldOut, t.IsCancelled, t.ID, t.ProfileID,
	).Scan(&t.SortOrder, &t.IsVisible, &createdAt)
	if err != nil {
		return notFound(err)
	}
	t.CreatedAt, err = parseTime(createdAt)
	return err
}

// ListTourDates orders by event date, not by sort_order.
func (r *SQLiteRepository) ListTourDates(ctx context.Context, ownerID uuid.UUID, f ports.ListFilter) ([]domain.TourDate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+tourColumns+` FROM tour_dates WHERE profile_id = ?`+visibleClause(f)+` ORDER BY event_date, sort_order`,
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dates := []domain.TourDate{}
	for rows.Next() {
		var t domain.TourDate
		var eventDate, createdAt string
		if err := rows.Scan(&t.ID, &t.ProfileID, &t.EventName, &t.Venue, &t.City, &t.CountryCode,
			&eventDate, &t.TicketURL, &t.IsSoldOut, &t.IsCancelled, &t.SortOrder, &t.IsVisible,
			&createdAt); err != nil {
			return nil, err
		}
		if t.EventDate, err = parseTime(eventDate); err != nil {
			return nil, err
		}
		if t.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		dates = append(dates, t)
	}
	return dates, rows.Err()
}

// Shared

// DeleteLink removes the row if the owner has it. Missing rows are not an
// error.
func (r *SQLiteRepository) DeleteLink(ctx context.Context, kind domain.LinkKind, ownerID, id uuid.UUID) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ? AND profile_id = ?`, id, ownerID)
	return err
}

func (r *SQLiteRepository) SetLinkVisibility(ctx context.Context, kind domain.LinkKind, ownerID, id uuid.UUID, visible bool) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE `+table+` SET is_visible = ? WHERE id = ? AND profile_id = ?`, visible, id, ownerID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ReorderLinks sets sort_order to each id's index in one transaction. Any
// id the owner does not have rolls the whole batch back, as does a list
// that leaves out part of the collection.
func (r *SQLiteRepository) ReorderLinks(ctx context.Context, kind domain.LinkKind, ownerID uuid.UUID, ids []uuid.UUID) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}
	return r.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `UPDATE `+table+` SET sort_order = ? WHERE id = ? AND profile_id = ?`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, id := range ids {
			res, err := stmt.ExecContext(ctx, i, id, ownerID)
			if err != nil {
				return err
			}
			if err := requireRow(res); err != nil {
				return err
			}
		}

		var total int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table+` WHERE profile_id = ?`, ownerID).Scan(&total); err != nil {
			return err
		}
		if total != len(ids) {
			return domain.Invalid("Reorder must list every item in the collection")
		}
		return nil
	})
}

func (r *SQLiteRepository) CountLinks(ctx context.Context, kind domain.LinkKind, ownerID uuid.UUID) (int64, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}
	var n int64
	err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table+` WHERE profile_id = ?`, ownerID).Scan(&n)
	return n, err
}
