package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
	"github.com/wadjakorntonsri/artistus/pkg/core/theme"
	"github.com/wadjakorntonsri/artistus/pkg/core/validation"
	"github.com/wadjakorntonsri/artistus/pkg/ports"
)

type AccountService struct {
	accounts ports.AccountRepository
	profiles ports.ProfileRepository
	log      *zap.Logger
	cost     int
	now      func() time.Time
}

func NewAccountService(accounts ports.AccountRepository, profiles ports.ProfileRepository, log *zap.Logger) *AccountService {
	return &AccountService{
		accounts: accounts,
		profiles: profiles,
		log:      orNop(log),
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
	}
}

// Signup creates the account with its profile and default appearance.
func (s *AccountService) Signup(ctx context.Context, in domain.SignupInput) (*domain.Account, error) {
	in.Email = normalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	taken, err := s.profiles.UsernameExists(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, domain.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.create(ctx, in.Email, string(hash), in.Username, in.DisplayName)
}

func (s *AccountService) create(ctx context.Context, email, hash, username, displayName string) (*domain.Account, error) {
	now := s.now()
	acct := &domain.Account{ID: uuid.New(), Email: email, PasswordHash: hash, CreatedAt: now}
	profile := &domain.Profile{
		ID:          acct.ID,
		Username:    username,
		DisplayName: displayName,
		GenreTags:   []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	settings := theme.DefaultSettings()
	settings.ProfileID = acct.ID
	settings.UpdatedAt = now

	if err := s.accounts.CreateAccount(ctx, acct, profile, &settings); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	s.log.Info("account created", zap.String("owner_id", acct.ID.String()), zap.String("username", username))
	return acct, nil
}

func (s *AccountService) Login(ctx context.Context, in domain.LoginInput) (*domain.Account, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	acct, err := s.accounts.GetAccountByEmail(ctx, in.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	// Accounts created through Google have no password
	if acct.PasswordHash == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return acct, nil
}

// LoginWithGoogle returns the account for a verified Google email, creating
// one with a username derived from the address when none exists.
func (s *AccountService) LoginWithGoogle(ctx context.Context, email, name string) (*domain.Account, error) {
	email = normalizeEmail(email)
	acct, err := s.accounts.GetAccountByEmail(ctx, email)
	if err == nil {
		return acct, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("find account: %w", err)
	}

	local, _, _ := strings.Cut(email, "@")
	username, err := s.freeUsername(ctx, usernameFrom(local))
	if err != nil {
		return nil, err
	}
	displayName := strings.TrimSpace(name)
	if displayName == "" {
		displayName = local
	}
	if r := []rune(displayName); len(r) > 100 {
		displayName = string(r[:100])
	}
	return s.create(ctx, email, "", username, displayName)
}

func (s *AccountService) ChangePassword(ctx context.Context, ownerID uuid.UUID, in domain.PasswordInput) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	if err := validation.Struct(in); err != nil {
		return err
	}
	if in.Password != in.ConfirmPassword {
		return domain.Invalid("Passwords do not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.accounts.UpdatePassword(ctx, ownerID, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

var usernameStrip = regexp.MustCompile(`[^a-z0-9]+`)

// usernameFrom turns an email local part into a valid username candidate.
func usernameFrom(local string) string {
	u := strings.Trim(usernameStrip.ReplaceAllString(strings.ToLower(local), "-"), "-")
	if len(u) > 24 {
		u = strings.TrimRight(u[:24], "-")
	}
	if len(u) < 3 || domain.IsReservedUsername(u) {
		u = strings.TrimLeft(u+"-artist", "-")
	}
	return u
}

// freeUsername appends -2, -3, ... to base until the name is unused.
func (s *AccountService) freeUsername(ctx context.Context, base string) (string, error) {
	candidate := base
	for n := 2; ; n++ {
		taken, err := s.profiles.UsernameExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check username: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
