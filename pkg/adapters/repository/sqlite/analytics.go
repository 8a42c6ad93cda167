package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
)

func (r *SQLiteRepository) RecordPageView(ctx context.Context, v *domain.PageView) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO page_views (id, profile_id, visitor_id, referrer, country, city, device_type, browser,
			utm_source, utm_medium, utm_campaign, viewed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.ProfileID, v.VisitorID, v.Referrer, v.Country, v.City, v.DeviceType, v.Browser,
		v.UTMSource, v.UTMMedium, v.UTMCampaign, formatTime(v.ViewedAt))
	return err
}

func (r *SQLiteRepository) RecordLinkClick(ctx context.Context, c *domain.LinkClick) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO link_clicks (id, profile_id, link_type, link_id, platform, url, referrer, country,
			device_type, clicked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.ProfileID, c.LinkType, c.LinkID, c.Platform, c.URL, c.Referrer, c.Country,
		c.DeviceType, formatTime(c.ClickedAt))
	return err
}

// GetAnalyticsSummary aggregates events of one owner. Windowed figures
// cover events at or after since.
func (r *SQLiteRepository) GetAnalyticsSummary(ctx context.Context, ownerID uuid.UUID, since time.Time) (*domain.AnalyticsSummary, error) {
	s := &domain.AnalyticsSummary{
		DailyViews:   []domain.DailyCount{},
		Referrers:    make(map[string]int64),
		Devices:      make(map[string]int64),
		ClicksByType: make(map[string]int64),
	}
	from := formatTime(since)

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&s.TotalPageViews, `SELECT COUNT(*) FROM page_views WHERE profile_id = ?`, []any{ownerID}},
		{&s.TotalLinkClicks, `SELECT COUNT(*) FROM link_clicks WHERE profile_id = ?`, []any{ownerID}},
		{&s.PageViews30d, `SELECT COUNT(*) FROM page_views WHERE profile_id = ? AND viewed_at >= ?`, []any{ownerID, from}},
		{&s.LinkClicks30d, `SELECT COUNT(*) FROM link_clicks WHERE profile_id = ? AND clicked_at >= ?`, []any{ownerID, from}},
		{&s.UniqueVisitors, `SELECT COUNT(DISTINCT visitor_id) FROM page_views WHERE profile_id = ? AND viewed_at >= ?`, []any{ownerID, from}},
	}
	for _, c := range counts {
		if err := r.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, err
		}
	}

	// Daily views, oldest first
	err := r.eachRow(ctx, func(rows *sql.Rows) error {
		var dc domain.DailyCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return err
		}
		s.DailyViews = append(s.DailyViews, dc)
		return nil
	}, `
		SELECT substr(viewed_at, 1, 10) AS date, COUNT(*)
		FROM page_views
		WHERE profile_id = ? AND viewed_at >= ?
		GROUP BY date
		ORDER BY date`, ownerID, from)
	if err != nil {
		return nil, err
	}

	err = r.eachRow(ctx, func(rows *sql.Rows) error {
		var ref string
		var count int64
		if err := rows.Scan(&ref, &count); err != nil {
			return err
		}
		if ref == "" {
			ref = "Direct"
		}
		s.Referrers[ref] = count
		return nil
	}, `
		SELECT referrer, COUNT(*) AS c
		FROM page_views
		WHERE profile_id = ? AND viewed_at >= ?
		GROUP BY referrer
		ORDER BY c DESC
		LIMIT 10`, ownerID, from)
	if err != nil {
		return nil, err
	}

	err = r.eachRow(ctx, countInto(s.Devices), `
		SELECT device_type, COUNT(*) FROM page_views
		WHERE profile_id = ? AND viewed_at >= ?
		GROUP BY device_type`, ownerID, from)
	if err != nil {
		return nil, err
	}

	err = r.eachRow(ctx, countInto(s.ClicksByType), `
		SELECT link_type, COUNT(*) FROM link_clicks
		WHERE profile_id = ? AND clicked_at >= ?
		GROUP BY link_type`, ownerID, from)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// eachRow runs query and calls fn per row, closing the rows before it
// returns so the next query can take the connection.
func (r *SQLiteRepository) eachRow(ctx context.Context, fn func(*sql.Rows) error, query string, args ...any) error {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func countInto(m map[string]int64) func(*sql.Rows) error {
	return func(rows *sql.Rows) error {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		m[key] = count
		return nil
	}
}
