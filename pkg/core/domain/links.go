package domain

import (
	"time"

	"github.com/google/uuid"
)

// LinkKind names one of the four ordered collections an owner manages.
type LinkKind string

const (
	KindMusic  LinkKind = "music"
	KindSocial LinkKind = "social"
	KindMerch  LinkKind = "merch"
	KindTour   LinkKind = "tour"
)

// LinkKinds lists every collection kind in display order.
var LinkKinds = []LinkKind{KindMusic, KindSocial, KindMerch, KindTour}

// Valid reports whether k is one of the known collection kinds.
func (k LinkKind) Valid() bool {
	switch k {
	case KindMusic, KindSocial, KindMerch, KindTour:
		return true
	}
	return false
}

// MusicLink is a release (track, album, ...) with per-platform URLs
type MusicLink struct {
	ID             uuid.UUID `json:"id"`
	ProfileID      uuid.UUID `json:"profile_id"`
	Title          string    `json:"title"`
	Type           string    `json:"type"`
	CoverArtURL    string    `json:"cover_art_url,omitempty"`
	ReleaseDate    string    `json:"release_date,omitempty"`
	SpotifyURL     string    `json:"spotify_url,omitempty"`
	AppleMusicURL  string    `json:"apple_music_url,omitempty"`
	YouTubeMusic   string    `json:"youtube_music_url,omitempty"`
	SoundCloudURL  string    `json:"soundcloud_url,omitempty"`
	TidalURL       string    `json:"tidal_url,omitempty"`
	AmazonMusicURL string    `json:"amazon_music_url,omitempty"`
	DeezerURL      string    `json:"deezer_url,omitempty"`
	CustomURL      string    `json:"custom_url,omitempty"`
	CustomURLLabel string    `json:"custom_url_label,omitempty"`
	EmbedURL       string    `json:"embed_url,omitempty"`
	EmbedPlatform  string    `json:"embed_platform,omitempty"`
	SortOrder      int       `json:"sort_order"`
	IsVisible      bool      `json:"is_visible"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Embeddable reports whether the link can drive the featured player.
func (m MusicLink) Embeddable() bool {
	return m.EmbedURL != "" && m.EmbedPlatform != ""
}

// SocialLink points at one social platform; one per platform per profile.
type SocialLink struct {
	ID        uuid.UUID `json:"id"`
	ProfileID uuid.UUID `json:"profile_id"`
	Platform  string    `json:"platform"`
	URL       string    `json:"url"`
	Label     string    `json:"label,omitempty"`
	SortOrder int       `json:"sort_order"`
	IsVisible bool      `json:"is_visible"`
	CreatedAt time.Time `json:"created_at"`
}

type MerchLink struct {
	ID        uuid.UUID `json:"id"`
	ProfileID uuid.UUID `json:"profile_id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Platform  string    `json:"platform,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	Price     string    `json:"price,omitempty"`
	SortOrder int       `json:"sort_order"`
	IsVisible bool      `json:"is_visible"`
	CreatedAt time.Time `json:"created_at"`
}

type TourDate struct {
	ID          uuid.UUID `json:"id"`
	ProfileID   uuid.UUID `json:"profile_id"`
	EventName   string    `json:"event_name"`
	Venue       string    `json:"venue"`
	City        string    `json:"city"`
	CountryCode string    `json:"country_code,omitempty"`
	EventDate   time.Time `json:"event_date"`
	TicketURL   string    `json:"ticket_url,omitempty"`
	IsSoldOut   bool      `json:"is_sold_out"`
	IsCancelled bool      `json:"is_cancelled"`
	SortOrder   int       `json:"sort_order"`
	IsVisible   bool      `json:"is_visible"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsPast reports whether the event started strictly before now.
func (t TourDate) IsPast(now time.Time) bool {
	return t.EventDate.Before(now)
}

// MusicLinkInput is the full, re-validated field set of a music link.
type MusicLinkInput struct {
	Title          string `json:"title" label:"Title" validate:"required,max=200"`
	Type           string `json:"type" label:"Type" validate:"required,oneof=track album ep playlist"`
	ReleaseDate    string `json:"release_date" label:"Release date" validate:"omitempty,datetime=2006-01-02"`
	SpotifyURL     string `json:"spotify_url" label:"Spotify URL" validate:"omitempty,url"`
	AppleMusicURL  string `json:"apple_music_url" label:"Apple Music URL" validate:"omitempty,url"`
	YouTubeMusic   string `json:"youtube_music_url" label:"YouTube Music URL" validate:"omitempty,url"`
	SoundCloudURL  string `json:"soundcloud_url" label:"SoundCloud URL" validate:"omitempty,url"`
	TidalURL       string `json:"tidal_url" label:"Tidal URL" validate:"omitempty,url"`
	AmazonMusicURL string `json:"amazon_music_url" label:"Amazon Music URL" validate:"omitempty,url"`
	DeezerURL      string `json:"deezer_url" label:"Deezer URL" validate:"omitempty,url"`
	CustomURL      string `json:"custom_url" label:"Custom URL" validate:"omitempty,url"`
	CustomURLLabel string `json:"custom_url_label" label:"Custom URL label" validate:"max=50"`
	EmbedPlatform  string `json:"embed_platform" label:"Embed platform" validate:"omitempty,oneof=spotify apple_music soundcloud"`
}

type SocialLinkInput struct {
	Platform string `json:"platform" label:"Platform" validate:"required,oneof=instagram tiktok twitter youtube facebook snapchat threads discord twitch website other"`
	URL      string `json:"url" label:"URL" validate:"required,url"`
	Label    string `json:"label" label:"Label" validate:"max=50"`
}

type MerchLinkInput struct {
	Title    string `json:"title" label:"Title" validate:"required,max=200"`
	URL      string `json:"url" label:"URL" validate:"required,url"`
	Platform string `json:"platform" label:"Platform" validate:"omitempty,oneof=shopify bigcartel bandcamp etsy custom"`
	Price    string `json:"price" label:"Price" validate:"max=20"`
}

// TourDateInput carries event_date as text; ParseEventDate turns it into a time.
type TourDateInput struct {
	EventName   string `json:"event_name" label:"Event name" validate:"required,max=200"`
	Venue       string `json:"venue" label:"Venue" validate:"required,max=200"`
	City        string `json:"city" label:"City" validate:"required,max=100"`
	CountryCode string `json:"country_code" label:"Country code" validate:"omitempty,len=2"`
	EventDate   string `json:"event_date" label:"Date" validate:"required"`
	TicketURL   string `json:"ticket_url" label:"Ticket URL" validate:"omitempty,url"`
	IsSoldOut   bool   `json:"is_sold_out"`
	IsCancelled bool   `json:"is_cancelled"`
}

// Accepted event_date layouts: RFC 3339, the HTML datetime-local value, and a bare date.
var eventDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseEventDate parses the event date in any accepted layout. Values
// without a zone are read as UTC.
func ParseEventDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range eventDateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
