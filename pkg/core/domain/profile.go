package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account is the identity behind a profile. Its ID is the owner id and
// doubles as the profile id.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is the public face of an owner
type Profile struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	GenreTags   []string  `json:"genre_tags"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProfileInput struct {
	Username    string   `json:"username" label:"Username" validate:"required,min=3,max=30,username,notreserved"`
	DisplayName string   `json:"display_name" label:"Display name" validate:"required,max=100"`
	Bio         string   `json:"bio" label:"Bio" validate:"max=500"`
	GenreTags   []string `json:"genre_tags" label:"Genre tags" validate:"max=5,dive,required,max=40"`
}

type SignupInput struct {
	Email       string `json:"email" label:"Email" validate:"required,email"`
	Password    string `json:"password" label:"Password" validate:"required,min=8"`
	Username    string `json:"username" label:"Username" validate:"required,min=3,max=30,username,notreserved"`
	DisplayName string `json:"display_name" label:"Display name" validate:"required,max=100"`
}

type LoginInput struct {
	Email    string `json:"email" label:"Email" validate:"required,email"`
	Password string `json:"password" label:"Password" validate:"required,min=8"`
}

type PasswordInput struct {
	Password        string `json:"password" label:"Password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" label:"Confirm password" validate:"required"`
}

// ReservedUsernames cannot be registered; they collide with app routes.
var ReservedUsernames = map[string]struct{}{
	"dashboard": {}, "login": {}, "signup": {}, "forgot-password": {},
	"reset-password": {}, "callback": {}, "api": {}, "admin": {},
	"settings": {}, "profile": {}, "help": {}, "about": {}, "terms": {},
	"privacy": {}, "pricing": {}, "blog": {}, "contact": {}, "support": {},
	"status": {}, "docs": {}, "app": {}, "www": {}, "mail": {}, "ftp": {},
	"auth": {}, "media": {}, "healthz": {}, "u": {},
}

// IsReservedUsername reports whether name is taken by the application.
func IsReservedUsername(name string) bool {
	_, ok := ReservedUsernames[name]
	return ok
}

// DashboardOverview is the owner's landing view.
type DashboardOverview struct {
	Profile     *Profile `json:"profile"`
	MusicLinks  int64    `json:"music_links"`
	SocialLinks int64    `json:"social_links"`
	MerchLinks  int64    `json:"merch_links"`
	TourDates   int64    `json:"tour_dates"`
	Subscribers int64    `json:"subscribers"`
}
