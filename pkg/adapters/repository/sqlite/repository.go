package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	"go.uber.org/zap"
	msqlite "modernc.org/sqlite" // Local SQLite driver
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
)

// SQLiteRepository implements every storage port on one database handle.
type SQLiteRepository struct {
	db  *sql.DB
	log *zap.Logger
}

func NewSQLiteRepository(dbURL string, log *zap.Logger) (*SQLiteRepository, error) {
	if log == nil {
		log = zap.NewNop()
	}
	driverName := "sqlite"
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driverName, err)
	}
	if driverName == "sqlite" {
		// A single connection keeps in-memory databases shared and
		// serialises writers.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if driverName == "sqlite" {
		if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Debug("database ready", zap.String("driver", driverName))
	return &SQLiteRepository{db: db, log: log}, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY REFERENCES accounts(id) ON DELETE CASCADE,
		username TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL,
		bio TEXT NOT NULL DEFAULT '',
		avatar_url TEXT NOT NULL DEFAULT '',
		genre_tags TEXT NOT NULL DEFAULT '[]',
		is_published INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS page_settings (
		profile_id TEXT PRIMARY KEY REFERENCES profiles(id) ON DELETE CASCADE,
		theme_preset TEXT NOT NULL,
		primary_color TEXT NOT NULL,
		secondary_color TEXT NOT NULL,
		background_color TEXT NOT NULL,
		text_color TEXT NOT NULL,
		background_type TEXT NOT NULL,
		background_gradient TEXT NOT NULL DEFAULT '',
		font_family TEXT NOT NULL,
		button_style TEXT NOT NULL,
		button_color TEXT NOT NULL,
		button_text_color TEXT NOT NULL,
		layout_style TEXT NOT NULL,
		show_powered_by INTEGER NOT NULL DEFAULT 1,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS music_links (
		id TEXT PRIMARY KEY,
		profile_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		type TEXT NOT NULL,
		cover_art_url TEXT NOT NULL DEFAULT '',
		release_date TEXT NOT NULL DEFAULT '',
		spotify_url TEXT NOT NULL DEFAULT '',
		apple_music_url TEXT NOT NULL DEFAULT '',
		youtube_music_url TEXT NOT NULL DEFAULT '',
		soundcloud_url TEXT NOT NULL DEFAULT '',
		tidal_url TEXT NOT NULL DEFAULT '',
		amazon_music_url TEXT NOT NULL DEFAULT '',
		deezer_url TEXT NOT NULL DEFAULT '',
		custom_url TEXT NOT NULL DEFAULT '',
		custom_url_label TEXT NOT NULL DEFAULT '',
		embed_url TEXT NOT NULL DEFAULT '',
		embed_platform TEXT NOT NULL DEFAULT '',
		sort_order INTEGER NOT NULL DEFAULT 0,
		is_visible INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_music_links_profile ON music_links(profile_id, sort_order);

	CREATE TABLE IF NOT EXISTS social_links (
		id TEXT PRIMARY KEY,
		profile_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		platform TEXT NOT NULL,
		url TEXT NOT NULL,
		label TEXT NOT NULL DEFAULT '',
		sort_order INTEGER NOT NULL DEFAULT 0,
		is_visible INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		UNIQUE(profile_id, platform)
	);
	CREATE INDEX IF NOT EXISTS idx_social_links_profile ON social_links(profile_id, sort_order);

	CREATE TABLE IF NOT EXISTS merch_links (
		id TEXT PRIMARY KEY,
		profile_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		platform TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		price TEXT NOT NULL DEFAULT '',
		sort_order INTEGER NOT NULL DEFAULT 0,
		is_visible INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_merch_links_profile ON merch_links(profile_id, sort_order);

	CREATE TABLE IF NOT EXISTS tour_dates (
		id TEXT PRIMARY KEY,
		profile_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		event_name TEXT NOT NULL,
		venue TEXT NOT NULL,
		city TEXT NOT NULL,
		country_code TEXT NOT NULL DEFAULT '',
		event_date TEXT NOT NULL,
		ticket_url TEXT NOT NULL DEFAULT '',
		is_sold_out INTEGER NOT NULL DEFAULT 0,
		is_cancelled INTEGER NOT NULL DEFAULT 0,
		sort_order INTEGER NOT NULL DEFAULT 0,
		is_visible INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_tour_dates_profile ON tour_dates(profile_id, event_date);

	CREATE TABLE IF NOT EXISTS subscribers (
		id TEXT PRIMARY KEY,
		profile_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		email TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT 'public_page',
		subscribed_at TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		UNIQUE(profile_id, email)
	);

	CREATE TABLE IF NOT EXISTS page_views (
		id TEXT PRIMARY KEY,
		profile_id TEXT NOT NULL,
		visitor_id TEXT NOT NULL,
		referrer TEXT NOT NULL DEFAULT '',
		country TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		device_type TEXT NOT NULL,
		browser TEXT NOT NULL,
		utm_source TEXT NOT NULL DEFAULT '',
		utm_medium TEXT NOT NULL DEFAULT '',
		utm_campaign TEXT NOT NULL DEFAULT '',
		viewed_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_page_views_profile ON page_views(profile_id, viewed_at);

	CREATE TABLE IF NOT EXISTS link_clicks (
		id TEXT PRIMARY KEY,
		profile_id TEXT NOT NULL,
		link_type TEXT NOT NULL,
		link_id TEXT NOT NULL DEFAULT '',
		platform TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL DEFAULT '',
		referrer TEXT NOT NULL DEFAULT '',
		country TEXT NOT NULL DEFAULT '',
		device_type TEXT NOT NULL,
		clicked_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_link_clicks_profile ON link_clicks(profile_id, clicked_at);
	`
	_, err := db.Exec(query)
	return err
}

// Times are stored as fixed-width UTC text so that string comparison
// orders them chronologically.
const timeLayout = "2006-01-02 15:04:05.000000000"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t, nil
}

// uniqueViolation reports whether err is a UNIQUE constraint failure and
// returns the driver message, which names the offending table.column.
func uniqueViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	var se *msqlite.Error
	if errors.As(err, &se) {
		return se.Error(), se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	// libsql reports constraint failures as plain text
	msg := err.Error()
	return msg, strings.Contains(msg, "UNIQUE constraint failed")
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// withTx runs fn inside a transaction and commits when it returns nil.
func (r *SQLiteRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
