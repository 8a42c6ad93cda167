package domain

import (
	"net/url"
	"strings"
)

// Embed platforms supported by the featured player.
const (
	EmbedSpotify    = "spotify"
	EmbedAppleMusic = "apple_music"
	EmbedSoundCloud = "soundcloud"
)

type embedRule struct {
	source func(MusicLinkInput) string
	derive func(raw string) string
}

var embedRules = map[string]embedRule{
	EmbedSpotify: {
		source: func(in MusicLinkInput) string { return in.SpotifyURL },
		derive: SpotifyEmbedURL,
	},
	EmbedAppleMusic: {
		source: func(in MusicLinkInput) string { return in.AppleMusicURL },
		derive: AppleMusicEmbedURL,
	},
	EmbedSoundCloud: {
		source: func(in MusicLinkInput) string { return in.SoundCloudURL },
		derive: SoundCloudEmbedURL,
	},
}

// EmbedURL derives the stored embed URL for the chosen platform. It is empty
// when no platform is chosen or the platform's URL field is empty.
func EmbedURL(in MusicLinkInput) string {
	rule, ok := embedRules[in.EmbedPlatform]
	if !ok {
		return ""
	}
	raw := rule.source(in)
	if raw == "" {
		return ""
	}
	return rule.derive(raw)
}

func SpotifyEmbedURL(raw string) string {
	return strings.Replace(raw, "open.spotify.com", "open.spotify.com/embed", 1)
}

func AppleMusicEmbedURL(raw string) string {
	return strings.Replace(raw, "music.apple.com", "embed.music.apple.com", 1)
}

// SoundCloudEmbedURL stores the raw track URL; the widget wraps it at render time.
func SoundCloudEmbedURL(raw string) string {
	return raw
}

// SoundCloudPlayerURL wraps a stored SoundCloud URL in the widget player.
func SoundCloudPlayerURL(embedURL string) string {
	return "https://w.soundcloud.com/player/?url=" + url.QueryEscape(embedURL) +
		"&color=%23ff5500&auto_play=false&hide_related=true&show_comments=false" +
		"&show_user=true&show_reposts=false&show_teaser=false"
}

// PlayerURL is the iframe src for a featured link. Stored URLs that are
// already embed URLs pass through unchanged.
func PlayerURL(m MusicLink) string {
	switch m.EmbedPlatform {
	case EmbedSpotify:
		if strings.Contains(m.EmbedURL, "/embed/") {
			return m.EmbedURL
		}
		return SpotifyEmbedURL(m.EmbedURL)
	case EmbedAppleMusic:
		if strings.Contains(m.EmbedURL, "embed.music.apple.com") {
			return m.EmbedURL
		}
		return AppleMusicEmbedURL(m.EmbedURL)
	case EmbedSoundCloud:
		return SoundCloudPlayerURL(m.EmbedURL)
	}
	return ""
}
