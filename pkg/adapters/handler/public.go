package handler

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
	"github.com/wadjakorntonsri/artistus/pkg/ports"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.New("").Funcs(template.FuncMap{
	"player":    domain.PlayerURL,
	"platforms": musicPlatforms,
	"eventDate": func(t time.Time) string { return t.Format("Mon, Jan 2 2006") },
	"monthDay":  func(t time.Time) string { return t.Format("Jan 2") },
}).ParseFS(templateFS, "templates/*.html"))

type PublicHandler struct {
	pages   ports.PageService
	baseURL string
	log     *zap.Logger
}

func NewPublicHandler(pages ports.PageService, baseURL string, log *zap.Logger) *PublicHandler {
	return &PublicHandler{pages: pages, baseURL: baseURL, log: log}
}

// publicView is what templates/public.html renders.
type publicView struct {
	Page        *domain.PublicPage
	ProfileID   string
	Title       string
	Style       template.CSS
	ButtonClass string
	LayoutClass string
	PageURL     string
}

// Page renders a published profile as HTML.
func (h *PublicHandler) Page(w http.ResponseWriter, r *http.Request) {
	page, err := h.pages.GetPublicPage(r.Context(), r.PathValue("username"))
	if errors.Is(err, domain.ErrNotFound) {
		h.render(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err != nil {
		h.log.Error("public page failed", zap.String("username", r.PathValue("username")), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	view := publicView{
		Page:        page,
		ProfileID:   page.Profile.ID.String(),
		Title:       page.Profile.DisplayName + " | Artistus",
		Style:       pageStyle(page.Settings),
		ButtonClass: page.Settings.ButtonClass(),
		LayoutClass: "layout-" + page.Settings.LayoutStyle,
		PageURL:     h.baseURL + "/" + page.Profile.Username,
	}
	w.Header().Set("Cache-Control", "public, max-age=60")
	h.render(w, http.StatusOK, "public", view)
}

// PageJSON returns the assembled page for clients that render it
// themselves.
func (h *PublicHandler) PageJSON(w http.ResponseWriter, r *http.Request) {
	page, err := h.pages.GetPublicPage(r.Context(), r.PathValue("username"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *PublicHandler) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		h.log.Error("render template", zap.String("template", name), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// pageStyle builds the body style from settings. Colors and gradients are
// validated on write; the font name is filtered here.
func pageStyle(s *domain.PageSettings) template.CSS {
	return template.CSS(fmt.Sprintf(
		"%s; color: %s; --primary: %s; --secondary: %s; --btn-bg: %s; --btn-text: %s; font-family: '%s', system-ui, sans-serif",
		s.Background(), s.TextColor, s.PrimaryColor, s.SecondaryColor,
		s.ButtonColor, s.ButtonTextColor, cssIdent(s.FontFamily),
	))
}

func cssIdent(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' {
			return r
		}
		return -1
	}, s)
}

type platformLink struct {
	Key   string
	Label string
	URL   string
}

func musicPlatforms(m domain.MusicLink) []platformLink {
	all := []platformLink{
		{"spotify", "Spotify", m.SpotifyURL},
		{"apple_music", "Apple Music", m.AppleMusicURL},
		{"youtube_music", "YouTube Music", m.YouTubeMusic},
		{"soundcloud", "SoundCloud", m.SoundCloudURL},
		{"tidal", "Tidal", m.TidalURL},
		{"amazon_music", "Amazon Music", m.AmazonMusicURL},
		{"deezer", "Deezer", m.DeezerURL},
	}
	if m.CustomURL != "" {
		label := m.CustomURLLabel
		if label == "" {
			label = "Listen"
		}
		all = append(all, platformLink{"custom", label, m.CustomURL})
	}

	out := all[:0]
	for _, p := range all {
		if p.URL != "" {
			out = append(out, p)
		}
	}
	return out
}
