package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
)

const (
	uaIPad    = "Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	uaAndroid = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Mobile Safari/537.36"
	uaEdge    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36 Edg/120.0"
	uaFirefox = "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"
	uaSafari  = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15"
)

func TestClassifyUserAgent(t *testing.T) {
	tests := []struct {
		name    string
		ua      string
		device  string
		browser string
	}{
		{"ipad is a tablet", uaIPad, "tablet", "Safari"},
		{"android phone", uaAndroid, "mobile", "Chrome"},
		{"edge before chrome", uaEdge, "desktop", "Edge"},
		{"firefox", uaFirefox, "desktop", "Firefox"},
		{"desktop safari", uaSafari, "desktop", "Safari"},
		{"empty", "", "desktop", "Other"},
		{"curl", "curl/8.4.0", "desktop", "Other"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.device, DeviceType(tt.ua))
			assert.Equal(t, tt.browser, Browser(tt.ua))
		})
	}
}

func TestVisitorID(t *testing.T) {
	id := VisitorID("203.0.113.9", uaFirefox)
	assert.Len(t, id, 32)
	assert.Equal(t, id, VisitorID("203.0.113.9", uaFirefox))
	assert.NotEqual(t, id, VisitorID("203.0.113.10", uaFirefox))
}

func TestTrackAndSummary(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	owner := env.signup(t, "tracked")
	now := time.Date(2030, 3, 10, 15, 0, 0, 0, time.UTC)
	env.stats.now = fixedClock(now)

	meta := domain.RequestMeta{IP: "198.51.100.1", UserAgent: uaAndroid, Referrer: "https://instagram.com/", Country: "US"}
	require.NoError(t, env.stats.Track(ctx, domain.TrackEvent{Type: domain.EventPageView, ProfileID: owner.String(), UTMSource: "ig"}, meta))
	require.NoError(t, env.stats.Track(ctx, domain.TrackEvent{Type: domain.EventPageView, ProfileID: owner.String()}, domain.RequestMeta{IP: "1.1.1.1", UserAgent: uaSafari}))
	require.NoError(t, env.stats.Track(ctx, domain.TrackEvent{Type: domain.EventLinkClick, ProfileID: owner.String(), URL: "https://open.spotify.com/x"}, meta))
	require.NoError(t, env.stats.Track(ctx, domain.TrackEvent{Type: domain.EventLinkClick, ProfileID: owner.String(), LinkType: "merch", URL: "https://shop"}, meta))

	// Events outside the window count only towards totals
	env.stats.now = fixedClock(now.AddDate(0, 0, -45))
	require.NoError(t, env.stats.Track(ctx, domain.TrackEvent{Type: domain.EventPageView, ProfileID: owner.String()}, meta))
	env.stats.now = fixedClock(now)

	s, err := env.stats.Summary(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(3), s.TotalPageViews)
	assert.Equal(t, int64(2), s.PageViews30d)
	assert.Equal(t, int64(2), s.UniqueVisitors)
	assert.Equal(t, int64(2), s.LinkClicks30d)
	assert.Equal(t, map[string]int64{"music": 1, "merch": 1}, s.ClicksByType)
	assert.Equal(t, map[string]int64{"mobile": 1, "desktop": 1}, s.Devices)
	assert.Equal(t, map[string]int64{"https://instagram.com/": 1, "Direct": 1}, s.Referrers)
	assert.Equal(t, []domain.DailyCount{{Date: "2030-03-10", Count: 2}}, s.DailyViews)
}

func TestTrackRejectsBadEvents(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	err := env.stats.Track(ctx, domain.TrackEvent{Type: "scroll", ProfileID: "7d3f3c39-52f5-4c38-9b76-7d84b3f0e1a1"}, domain.RequestMeta{})
	assert.True(t, domain.IsValidation(err))

	err = env.stats.Track(ctx, domain.TrackEvent{Type: domain.EventPageView}, domain.RequestMeta{})
	assert.True(t, domain.IsValidation(err))
}
