package ports

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
)

// AccountRepository stores identities and creates their profile bundle
type AccountRepository interface {
	// CreateAccount inserts account, profile and settings atomically.
	CreateAccount(ctx context.Context, acct *domain.Account, profile *domain.Profile, settings *domain.PageSettings) error
	GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
}

// ProfileRepository defines storage operations for profiles
type ProfileRepository interface {
	GetProfile(ctx context.Context, ownerID uuid.UUID) (*domain.Profile, error)
	GetProfileByUsername(ctx context.Context, username string) (*domain.Profile, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UpdateProfile(ctx context.Context, profile *domain.Profile) error
	SetPublished(ctx context.Context, ownerID uuid.UUID, published bool) error
	SetAvatarURL(ctx context.Context, ownerID uuid.UUID, url string) error
}

// ListFilter narrows collection reads
type ListFilter struct {
	VisibleOnly bool
}

// LinkRepository stores the four owner-scoped link collections. Every
// mutation is scoped by owner id; mutations that match no row return
// domain.ErrNotFound.
type LinkRepository interface {
	CreateMusicLink(ctx context.Context, link *domain.MusicLink) error
	UpdateMusicLink(ctx context.Context, link *domain.MusicLink) error
	ListMusicLinks(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]domain.MusicLink, error)
	GetMusicLink(ctx context.Context, ownerID, id uuid.UUID) (*domain.MusicLink, error)
	SetCoverArtURL(ctx context.Context, ownerID, linkID uuid.UUID, url string) error

	CreateSocialLink(ctx context.Context, link *domain.SocialLink) error
	UpdateSocialLink(ctx context.Context, link *domain.SocialLink) error
	ListSocialLinks(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]domain.SocialLink, error)

	CreateMerchLink(ctx context.Context, link *domain.MerchLink) error
	UpdateMerchLink(ctx context.Context, link *domain.MerchLink) error
	ListMerchLinks(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]domain.MerchLink, error)

	CreateTourDate(ctx context.Context, date *domain.TourDate) error
	UpdateTourDate(ctx context.Context, date *domain.TourDate) error
	ListTourDates(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]domain.TourDate, error)

	// Shared across kinds
	DeleteLink(ctx context.Context, kind domain.LinkKind, ownerID, id uuid.UUID) error
	SetLinkVisibility(ctx context.Context, kind domain.LinkKind, ownerID, id uuid.UUID, visible bool) error
	ReorderLinks(ctx context.Context, kind domain.LinkKind, ownerID uuid.UUID, ids []uuid.UUID) error
	CountLinks(ctx context.Context, kind domain.LinkKind, ownerID uuid.UUID) (int64, error)
}

// SubscriberRepository stores fan email signups
type SubscriberRepository interface {
	// AddSubscriber inserts or reactivates; domain.ErrAlreadySubscribed if active.
	AddSubscriber(ctx context.Context, sub *domain.Subscriber) error
	ListSubscribers(ctx context.Context, ownerID uuid.UUID, activeOnly bool) ([]domain.Subscriber, error)
	DeactivateSubscriber(ctx context.Context, ownerID, id uuid.UUID) error
	CountSubscribers(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

type SettingsRepository interface {
	GetSettings(ctx context.Context, ownerID uuid.UUID) (*domain.PageSettings, error)
	UpdateSettings(ctx context.Context, settings *domain.PageSettings) error
}

// AnalyticsRepository appends events and aggregates them
type AnalyticsRepository interface {
	RecordPageView(ctx context.Context, view *domain.PageView) error
	RecordLinkClick(ctx context.Context, click *domain.LinkClick) error
	GetAnalyticsSummary(ctx context.Context, ownerID uuid.UUID, since time.Time) (*domain.AnalyticsSummary, error)
}

// FileStorage keeps uploaded files and hands back their public URL
type FileStorage interface {
	Put(ctx context.Context, bucket, path, contentType string, data io.Reader) (string, error)
}

// Revalidation scopes
const (
	ScopeProfile    = "profile"
	ScopeLinks      = "links"
	ScopeAppearance = "appearance"
)

// Revalidator is told when an owner's pages changed so that any cached
// rendering can be refreshed. Implementations must not fail the caller.
type Revalidator interface {
	Revalidate(ctx context.Context, ownerID uuid.UUID, scope string)
}

// AccountService defines signup, login and password operations
type AccountService interface {
	Signup(ctx context.Context, in domain.SignupInput) (*domain.Account, error)
	Login(ctx context.Context, in domain.LoginInput) (*domain.Account, error)
	LoginWithGoogle(ctx context.Context, email, name string) (*domain.Account, error)
	ChangePassword(ctx context.Context, ownerID uuid.UUID, in domain.PasswordInput) error
}

// ProfileService defines the owner's profile operations
type ProfileService interface {
	GetProfile(ctx context.Context, ownerID uuid.UUID) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, ownerID uuid.UUID, in domain.ProfileInput) (*domain.Profile, error)
	SetPublished(ctx context.Context, ownerID uuid.UUID, published bool) error
	UpdateAvatar(ctx context.Context, ownerID uuid.UUID, r io.Reader) (string, error)
	Overview(ctx context.Context, ownerID uuid.UUID) (*domain.DashboardOverview, error)
}

// LinkService defines the link collection operations
type LinkService interface {
	CreateMusicLink(ctx context.Context, ownerID uuid.UUID, in domain.MusicLinkInput) (*domain.MusicLink, error)
	UpdateMusicLink(ctx context.Context, ownerID, id uuid.UUID, in domain.MusicLinkInput) (*domain.MusicLink, error)
	ListMusicLinks(ctx context.Context, ownerID uuid.UUID) ([]domain.MusicLink, error)
	UpdateCoverArt(ctx context.Context, ownerID, id uuid.UUID, r io.Reader) (string, error)

	CreateSocialLink(ctx context.Context, ownerID uuid.UUID, in domain.SocialLinkInput) (*domain.SocialLink, error)
	UpdateSocialLink(ctx context.Context, ownerID, id uuid.UUID, in domain.SocialLinkInput) (*domain.SocialLink, error)
	ListSocialLinks(ctx context.Context, ownerID uuid.UUID) ([]domain.SocialLink, error)

	CreateMerchLink(ctx context.Context, ownerID uuid.UUID, in domain.MerchLinkInput) (*domain.MerchLink, error)
	UpdateMerchLink(ctx context.Context, ownerID, id uuid.UUID, in domain.MerchLinkInput) (*domain.MerchLink, error)
	ListMerchLinks(ctx context.Context, ownerID uuid.UUID) ([]domain.MerchLink, error)

	CreateTourDate(ctx context.Context, ownerID uuid.UUID, in domain.TourDateInput) (*domain.TourDate, error)
	UpdateTourDate(ctx context.Context, ownerID, id uuid.UUID, in domain.TourDateInput) (*domain.TourDate, error)
	ListTourDates(ctx context.Context, ownerID uuid.UUID) ([]domain.TourDate, error)

	DeleteLink(ctx context.Context, ownerID uuid.UUID, kind domain.LinkKind, id uuid.UUID) error
	SetVisibility(ctx context.Context, ownerID uuid.UUID, kind domain.LinkKind, id uuid.UUID, visible bool) error
	ReorderLinks(ctx context.Context, ownerID uuid.UUID, kind domain.LinkKind, ids []uuid.UUID) error
}

// PageService assembles public pages
type PageService interface {
	GetPublicPage(ctx context.Context, username string) (*domain.PublicPage, error)
}

type SettingsService interface {
	GetSettings(ctx context.Context, ownerID uuid.UUID) (*domain.PageSettings, error)
	UpdateSettings(ctx context.Context, ownerID uuid.UUID, in domain.PageSettingsInput) (*domain.PageSettings, error)
	ApplyPreset(ctx context.Context, ownerID uuid.UUID, key string) (*domain.PageSettings, error)
}

type SubscriberService interface {
	Subscribe(ctx context.Context, in domain.SubscribeInput) error
	ListSubscribers(ctx context.Context, ownerID uuid.UUID) ([]domain.Subscriber, error)
	Unsubscribe(ctx context.Context, ownerID, id uuid.UUID) error
	ExportCSV(ctx context.Context, ownerID uuid.UUID, w io.Writer) error
}

// AnalyticsService records visitor events and summarises them
type AnalyticsService interface {
	Track(ctx context.Context, ev domain.TrackEvent, meta domain.RequestMeta) error
	Summary(ctx context.Context, ownerID uuid.UUID) (*domain.AnalyticsSummary, error)
}
