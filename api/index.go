package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/artistus/pkg/app"
	"github.com/wadjakorntonsri/artistus/pkg/config"
	"github.com/wadjakorntonsri/artistus/pkg/logger"
)

var mux http.Handler

func init() {
	cfg := config.Load()

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		panic(err)
	}

	// On Vercel the filesystem is ephemeral; DATABASE_URL should point at
	// Turso (libsql://) in production.
	application, err := app.New(cfg, log)
	if err != nil {
		panic(err)
	}
	mux = application.Handler
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
