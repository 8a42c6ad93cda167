package sqlite

import (
	"context"

	"github.com/google/uuid"

	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
)

// AddSubscriber inserts a new subscriber or reactivates an inactive one.
// An active duplicate leaves the row untouched and reports
// domain.ErrAlreadySubscribed.
func (r *SQLiteRepository) AddSubscriber(ctx context.Context, s *domain.Subscriber) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO subscribers (id, profile_id, email, name, source, subscribed_at, is_active)
		VALUES (?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT(profile_id, email) DO UPDATE SET
			is_active = 1,
			name = CASE WHEN excluded.name <> '' THEN excluded.name ELSE subscribers.name END,
			subscribed_at = excluded.subscribed_at
		WHERE subscribers.is_active = 0`,
		s.ID, s.ProfileID, s.Email, s.Name, s.Source, formatTime(s.SubscribedAt))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrAlreadySubscribed
	}
	s.IsActive = true
	return nil
}

// ListSubscribers returns subscribers newest first.
func (r *SQLiteRepository) ListSubscribers(ctx context.Context, ownerID uuid.UUID, activeOnly bool) ([]domain.Subscriber, error) {
	query := `SELECT id, profile_id, email, name, source, subscribed_at, is_active FROM subscribers WHERE profile_id = ?`
	if activeOnly {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY subscribed_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := []domain.Subscriber{}
	for rows.Next() {
		var s domain.Subscriber
		var subscribedAt string
		if err := rows.Scan(&s.ID, &s.ProfileID, &s.Email, &s.Name, &s.Source, &subscribedAt, &s.IsActive); err != nil {
			return nil, err
		}
		if s.SubscribedAt, err = parseTime(subscribedAt); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func (r *SQLiteRepository) DeactivateSubscriber(ctx context.Context, ownerID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE subscribers SET is_active = 0 WHERE id = ? AND profile_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *SQLiteRepository) CountSubscribers(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subscribers WHERE profile_id = ? AND is_active = 1`, ownerID).Scan(&n)
	return n, err
}
