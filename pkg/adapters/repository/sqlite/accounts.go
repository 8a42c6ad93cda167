package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
)

// CreateAccount writes the account, its profile and default page settings.
// All three share acct.ID.
func (r *SQLiteRepository) CreateAccount(ctx context.Context, acct *domain.Account, profile *domain.Profile, settings *domain.PageSettings) error {
	tags, err := json.Marshal(nonNilTags(profile.GenreTags))
	if err != nil {
		return err
	}

	err = r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO accounts (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
			acct.ID, acct.Email, acct.PasswordHash, formatTime(acct.CreatedAt),
		); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO profiles (id, username, display_name, bio, avatar_url, genre_tags, is_published, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			profile.ID, profile.Username, profile.DisplayName, profile.Bio, profile.AvatarURL, string(tags),
			profile.IsPublished, formatTime(profile.CreatedAt), formatTime(profile.UpdatedAt),
		); err != nil {
			return err
		}

		return insertSettings(ctx, tx, settings)
	})

	if msg, ok := uniqueViolation(err); ok {
		if strings.Contains(msg, "profiles.username") {
			return domain.ErrUsernameTaken
		}
		return domain.ErrEmailTaken
	}
	return err
}

func (r *SQLiteRepository) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.scanAccount(r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM accounts WHERE email = ?`, email))
}

func (r *SQLiteRepository) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return r.scanAccount(r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM accounts WHERE id = ?`, id))
}

func (r *SQLiteRepository) scanAccount(row *sql.Row) (*domain.Account, error) {
	var acct domain.Account
	var createdAt string
	if err := row.Scan(&acct.ID, &acct.Email, &acct.PasswordHash, &createdAt); err != nil {
		return nil, notFound(err)
	}
	var err error
	if acct.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &acct, nil
}

func (r *SQLiteRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE accounts SET password_hash = ? WHERE id = ?`, hash, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
