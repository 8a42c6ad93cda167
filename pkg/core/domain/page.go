package domain

import "time"

// PublicPage is everything a visitor sees on a published profile.
type PublicPage struct {
	Profile     *Profile      `json:"profile"`
	Settings    *PageSettings `json:"settings"`
	MusicLinks  []MusicLink   `json:"music_links"`
	SocialLinks []SocialLink  `json:"social_links"`
	MerchLinks  []MerchLink   `json:"merch_links"`
	TourDates   []TourDate    `json:"tour_dates"`
	Featured    *MusicLink    `json:"featured,omitempty"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// FeaturedLink returns the first embeddable link in sort order, or nil.
func FeaturedLink(links []MusicLink) *MusicLink {
	for i := range links {
		if links[i].Embeddable() {
			return &links[i]
		}
	}
	return nil
}

// UpcomingDates drops dates that started strictly before now.
func UpcomingDates(dates []TourDate, now time.Time) []TourDate {
	out := make([]TourDate, 0, len(dates))
	for _, d := range dates {
		if !d.IsPast(now) {
			out = append(out, d)
		}
	}
	return out
}
