package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/artistus/pkg/config"
	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
	"github.com/wadjakorntonsri/artistus/pkg/ports"
)

// Services are the application services the router dispatches to.
type Services struct {
	Accounts    ports.AccountService
	Profiles    ports.ProfileService
	Links       ports.LinkService
	Pages       ports.PageService
	Settings    ports.SettingsService
	Subscribers ports.SubscriberService
	Analytics   ports.AnalyticsService
}

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, svc Services, log *zap.Logger) http.Handler {
	// Initialize Handlers
	lh := NewLinkHandler(svc.Links, log)
	ch := NewCollectionHandler(svc.Links, log)
	ph := NewProfileHandler(svc.Profiles, log)
	sh := NewSettingsHandler(svc.Settings, log)
	subs := NewSubscriberHandler(svc.Subscribers, log)
	stats := NewAnalyticsHandler(svc.Analytics, log)
	pub := NewPublicHandler(svc.Pages, cfg.BaseURL, log)
	authHandler := NewAuthHandler(cfg, svc.Accounts, log)

	mw := NewMiddleware(cfg, log)

	mux := http.NewServeMux()

	// Public Routes
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	})
	mux.Handle("GET /media/", mediaServer(cfg.MediaDir))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, cfg.FrontendURL, http.StatusTemporaryRedirect)
	})
	mux.HandleFunc("GET /{username}", pub.Page)
	mux.HandleFunc("GET /u/{username}", pub.PageJSON)
	mux.HandleFunc("POST /api/subscribe", subs.Subscribe)
	mux.HandleFunc("POST /api/analytics/track", stats.Track)

	mux.HandleFunc("POST /auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /auth/login", authHandler.LoginPassword)
	mux.HandleFunc("GET /auth/google/login", authHandler.Login)
	mux.HandleFunc("GET /auth/google/callback", authHandler.Callback)
	mux.HandleFunc("GET /auth/logout", authHandler.Logout)

	// Protected Routes
	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("GET /api/v1/dashboard", ph.Dashboard)
	protectedMux.HandleFunc("GET /api/v1/profile", ph.Get)
	protectedMux.HandleFunc("PUT /api/v1/profile", ph.Update)
	protectedMux.HandleFunc("PUT /api/v1/profile/published", ph.SetPublished)
	protectedMux.HandleFunc("POST /api/v1/profile/avatar", ph.UploadAvatar)
	protectedMux.HandleFunc("PUT /api/v1/account/password", authHandler.ChangePassword)

	protectedMux.HandleFunc("GET /api/v1/appearance", sh.Get)
	protectedMux.HandleFunc("PUT /api/v1/appearance", sh.Update)
	protectedMux.HandleFunc("GET /api/v1/appearance/presets", sh.Presets)
	protectedMux.HandleFunc("POST /api/v1/appearance/presets/{name}", sh.ApplyPreset)

	protectedMux.HandleFunc("GET /api/v1/music-links", lh.ListMusic())
	protectedMux.HandleFunc("POST /api/v1/music-links", lh.CreateMusic())
	protectedMux.HandleFunc("PUT /api/v1/music-links/{id}", lh.UpdateMusic())
	protectedMux.HandleFunc("POST /api/v1/music-links/{id}/cover-art", lh.UploadCoverArt)
	protectedMux.HandleFunc("GET /api/v1/social-links", lh.ListSocial())
	protectedMux.HandleFunc("POST /api/v1/social-links", lh.CreateSocial())
	protectedMux.HandleFunc("PUT /api/v1/social-links/{id}", lh.UpdateSocial())
	protectedMux.HandleFunc("GET /api/v1/merch-links", lh.ListMerch())
	protectedMux.HandleFunc("POST /api/v1/merch-links", lh.CreateMerch())
	protectedMux.HandleFunc("PUT /api/v1/merch-links/{id}", lh.UpdateMerch())
	protectedMux.HandleFunc("GET /api/v1/tour-dates", lh.ListTour())
	protectedMux.HandleFunc("POST /api/v1/tour-dates", lh.CreateTour())
	protectedMux.HandleFunc("PUT /api/v1/tour-dates/{id}", lh.UpdateTour())

	for _, kind := range domain.LinkKinds {
		base := "/api/v1/" + collectionPaths[kind]
		protectedMux.HandleFunc("DELETE "+base+"/{id}", ch.Delete(kind))
		protectedMux.HandleFunc("PUT "+base+"/{id}/visibility", ch.SetVisibility(kind))
		protectedMux.HandleFunc("PUT "+base+"/order", ch.Reorder(kind))
	}

	protectedMux.HandleFunc("GET /api/v1/subscribers", subs.List)
	protectedMux.HandleFunc("DELETE /api/v1/subscribers/{id}", subs.Unsubscribe)
	protectedMux.HandleFunc("GET /api/export/subscribers", subs.Export)
	protectedMux.HandleFunc("GET /api/v1/analytics", stats.Summary)

	// The protected mux holds full paths, so both prefixes dispatch into it.
	mux.Handle("/api/v1/", mw.AuthMiddleware(protectedMux))
	mux.Handle("/api/export/", mw.AuthMiddleware(protectedMux))

	return mw.RequestLogger(mux)
}

// mediaServer serves uploaded files without directory listings.
func mediaServer(root string) http.Handler {
	files := http.StripPrefix("/media/", http.FileServer(http.Dir(root)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}
