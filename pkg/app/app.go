// Package app wires configuration, storage and services into the HTTP
// handler shared by the server binary and the serverless entrypoint.
package app

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/artistus/pkg/adapters/handler"
	"github.com/wadjakorntonsri/artistus/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/artistus/pkg/adapters/revalidate"
	"github.com/wadjakorntonsri/artistus/pkg/adapters/storage/local"
	"github.com/wadjakorntonsri/artistus/pkg/config"
	"github.com/wadjakorntonsri/artistus/pkg/core/services"
)

type App struct {
	Handler  http.Handler
	Repo     *sqlite.SQLiteRepository
	Services handler.Services
}

func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL, log.Named("sqlite"))
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	storage := local.New(cfg.MediaDir, cfg.BaseURL, log.Named("storage"))
	reval := revalidate.NewWebhook(cfg.RevalidateURL, log.Named("revalidate"))
	svcLog := log.Named("services")

	svc := handler.Services{
		Accounts:    services.NewAccountService(repo, repo, svcLog),
		Profiles:    services.NewProfileService(repo, repo, repo, storage, reval, svcLog),
		Links:       services.NewLinkService(repo, storage, reval, svcLog),
		Pages:       services.NewPageService(repo, repo, repo),
		Settings:    services.NewSettingsService(repo, reval),
		Subscribers: services.NewSubscriberService(repo, repo, svcLog),
		Analytics:   services.NewAnalyticsService(repo, svcLog),
	}

	return &App{
		Handler:  handler.NewRouter(cfg, svc, log.Named("http")),
		Repo:     repo,
		Services: svc,
	}, nil
}

func (a *App) Close() error {
	return a.Repo.Close()
}
