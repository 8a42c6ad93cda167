package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wadjakorntonsri/artistus/pkg/app"
	"github.com/wadjakorntonsri/artistus/pkg/config"
)

type e2eClient struct {
	t      *testing.T
	base   string
	client *http.Client
}

func (c *e2eClient) do(method, path, contentType string, body io.Reader) *http.Response {
	c.t.Helper()
	req, err := http.NewRequest(method, c.base+path, body)
	require.NoError(c.t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := c.client.Do(req)
	require.NoError(c.t, err)
	c.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (c *e2eClient) json(method, path string, payload any) *http.Response {
	c.t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(c.t, err)
		body = bytes.NewReader(raw)
	}
	return c.do(method, path, "application/json", body)
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

type linkBody struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	SortOrder int    `json:"sort_order"`
	IsVisible bool   `json:"is_visible"`
}

func TestIntegration(t *testing.T) {
	// 1. Setup app on an in-memory database
	cfg := &config.Config{
		DatabaseURL: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		AppEnv:      "test",
		BaseURL:     "http://artist.test",
		FrontendURL: "http://artist.test/dashboard",
		JWTSecret:   "e2e-secret",
		MediaDir:    t.TempDir(),
	}
	application, err := app.New(cfg, zap.NewNop())
	require.NoError(t, err)
	defer application.Close()

	server := httptest.NewServer(application.Handler)
	defer server.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	c := &e2eClient{t: t, base: server.URL, client: &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}}

	// TEST 1: Signup starts a session
	resp := c.json("POST", "/auth/signup", map[string]string{
		"email":        "nova@example.com",
		"password":     "correct-horse",
		"username":     "nova",
		"display_name": "Nova",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = c.json("POST", "/auth/signup", map[string]string{
		"email":        "other@example.com",
		"password":     "correct-horse",
		"username":     "nova",
		"display_name": "Impostor",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Unpublished pages are hidden
	resp = c.do("GET", "/u/nova", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = c.json("PUT", "/api/v1/profile/published", map[string]bool{"is_published": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// TEST 2: Music links get sequential positions and can be reordered
	var ids []string
	for _, title := range []string{"First", "Second", "Third"} {
		resp = c.json("POST", "/api/v1/music-links", map[string]string{
			"title":          title,
			"type":           "track",
			"spotify_url":    "https://open.spotify.com/track/" + strings.ToLower(title),
			"embed_platform": "spotify",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		created := decode[linkBody](t, resp)
		assert.Equal(t, len(ids), created.SortOrder)
		ids = append(ids, created.ID)
	}

	resp = c.json("PUT", "/api/v1/music-links/order", map[string][]string{"ids": {ids[2], ids[1], ids[0]}})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = c.do("GET", "/api/v1/music-links", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listed := decode[[]linkBody](t, resp)
	require.Len(t, listed, 3)
	for i, l := range listed {
		assert.Equal(t, ids[2-i], l.ID)
		assert.Equal(t, i, l.SortOrder)
	}

	// TEST 3: Hidden links stay in the dashboard but leave the public page
	resp = c.json("PUT", "/api/v1/music-links/"+ids[0]+"/visibility", map[string]bool{"is_visible": false})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// TEST 4: One social link per platform
	social := map[string]string{"platform": "instagram", "url": "https://instagram.com/nova"}
	resp = c.json("POST", "/api/v1/social-links", social)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = c.json("POST", "/api/v1/social-links", social)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "You already have a link for this platform", decode[map[string]string](t, resp)["error"])

	// TEST 5: Past tour dates are dropped from the public page
	for _, date := range []string{"2020-01-01", "2099-06-01T20:00"} {
		resp = c.json("POST", "/api/v1/tour-dates", map[string]string{
			"event_name": "Tour",
			"venue":      "The Roxy",
			"city":       "Los Angeles",
			"event_date": date,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp = c.do("GET", "/u/NOVA", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page struct {
		Profile struct {
			ID string `json:"id"`
		} `json:"profile"`
		MusicLinks  []linkBody        `json:"music_links"`
		SocialLinks []json.RawMessage `json:"social_links"`
		TourDates   []json.RawMessage `json:"tour_dates"`
		Featured    *linkBody         `json:"featured"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Len(t, page.MusicLinks, 2)
	assert.Len(t, page.SocialLinks, 1)
	assert.Len(t, page.TourDates, 1)
	require.NotNil(t, page.Featured)
	assert.Equal(t, ids[2], page.Featured.ID)

	resp = c.do("GET", "/api/v1/music-links", "", nil)
	assert.Len(t, decode[[]linkBody](t, resp), 3)

	resp = c.do("GET", "/nova", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	html, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(html), "https://open.spotify.com/embed/track/third")

	// TEST 6: Fans subscribe once
	sub := map[string]string{"profile_id": page.Profile.ID, "email": "fan@example.com"}
	resp = c.json("POST", "/api/subscribe", sub)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = c.json("POST", "/api/subscribe", sub)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = c.do("GET", "/api/export/subscribers", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	csv, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.HasPrefix(string(csv), "email,name,subscribed_at,source\nfan@example.com,"))

	// TEST 7: Beacon events show up in the summary
	beacon := `{"type":"page_view","profile_id":"` + page.Profile.ID + `"}`
	resp = c.do("POST", "/api/analytics/track", "text/plain;charset=UTF-8", strings.NewReader(beacon))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = c.do("GET", "/api/v1/analytics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summary := decode[map[string]any](t, resp)
	assert.EqualValues(t, 1, summary["total_page_views"])

	resp = c.do("GET", "/api/v1/dashboard", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	overview := decode[map[string]any](t, resp)
	assert.EqualValues(t, 3, overview["music_links"])
	assert.EqualValues(t, 1, overview["subscribers"])

	// TEST 8: Avatar upload is served back from /media/
	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	part, err := mw.CreateFormFile("avatar", "me.png")
	require.NoError(t, err)
	require.NoError(t, png.Encode(part, image.NewRGBA(image.Rect(0, 0, 40, 40))))
	require.NoError(t, mw.Close())

	resp = c.do("POST", "/api/v1/profile/avatar", mw.FormDataContentType(), &form)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	avatarURL, err := url.Parse(decode[map[string]string](t, resp)["url"])
	require.NoError(t, err)
	assert.Equal(t, "/media/avatars/"+page.Profile.ID+"/avatar.png", avatarURL.Path)

	resp = c.do("GET", avatarURL.Path, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// TEST 9: Logout ends the session
	resp = c.do("GET", "/auth/logout", "", nil)
	assert.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	resp = c.do("GET", "/api/v1/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// TEST 10: Password login starts a new one
	resp = c.json("POST", "/auth/login", map[string]string{"email": "nova@example.com", "password": "wrong-horse"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp = c.json("POST", "/auth/login", map[string]string{"email": "nova@example.com", "password": "correct-horse"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = c.do("GET", "/api/v1/profile", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
