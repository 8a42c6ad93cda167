package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
)

const profileColumns = `id, username, display_name, bio, avatar_url, genre_tags, is_published, created_at, updated_at`

func (r *SQLiteRepository) GetProfile(ctx context.Context, ownerID uuid.UUID) (*domain.Profile, error) {
	return scanProfile(r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = ?`, ownerID))
}

func (r *SQLiteRepository) GetProfileByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	return scanProfile(r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE username = ?`, username))
}

func scanProfile(row *sql.Row) (*domain.Profile, error) {
	var p domain.Profile
	var tags, createdAt, updatedAt string
	err := row.Scan(&p.ID, &p.Username, &p.DisplayName, &p.Bio, &p.AvatarURL, &tags,
		&p.IsPublished, &createdAt, &updatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	if err := json.Unmarshal([]byte(tags), &p.GenreTags); err != nil {
		return nil, fmt.Errorf("decode genre tags: %w", err)
	}
	p.GenreTags = nonNilTags(p.GenreTags)
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SQLiteRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM profiles WHERE username = ?)`, username).Scan(&exists)
	return exists, err
}

// UpdateProfile rewrites the editable profile fields.
func (r *SQLiteRepository) UpdateProfile(ctx context.Context, p *domain.Profile) error {
	tags, err := json.Marshal(nonNilTags(p.GenreTags))
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET username = ?, display_name = ?, bio = ?, genre_tags = ?, updated_at = ? WHERE id = ?`,
		p.Username, p.DisplayName, p.Bio, string(tags), formatTime(p.UpdatedAt), p.ID)
	if _, ok := uniqueViolation(err); ok {
		return domain.ErrUsernameTaken
	}
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *SQLiteRepository) SetPublished(ctx context.Context, ownerID uuid.UUID, published bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET is_published = ?, updated_at = ? WHERE id = ?`,
		published, formatTime(time.Now()), ownerID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *SQLiteRepository) SetAvatarURL(ctx context.Context, ownerID uuid.UUID, url string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET avatar_url = ?, updated_at = ? WHERE id = ?`,
		url, formatTime(time.Now()), ownerID)
	if err != nil {
		return err
	}
	return requireRow(res)
}
