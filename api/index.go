// Package handler exposes the storefront as a single serverless function.
package handler

import (
	"net/http"
	"os"
	"sync"

	"etalase/internal/app"
	"etalase/internal/config"
	"etalase/internal/services"
	"etalase/pkg/logx"
)

var (
	once    sync.Once
	engine  http.Handler
	initErr error
)

// build creates the app once per instance. Without an explicit
// STORAGE_BACKEND the catalog lives in memory, since the function
// filesystem is not writable. Expiry runs on each request instead of a ticker.
func build() {
	cfg, err := config.Load()
	if err != nil {
		initErr = err
		return
	}
	if os.Getenv("STORAGE_BACKEND") == "" {
		cfg.Storage.Backend = config.BackendMemory
	}
	logx.Init(logx.LoggerOpts{Production: true})

	a, err := app.New(cfg, app.Deps{Audit: services.NewSecurityLoggerTo(os.Stderr)})
	if err != nil {
		initErr = err
		return
	}
	engine = a.Engine
}

func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(build)
	if initErr != nil {
		logx.Error().Err(initErr).Msg("storefront could not be initialised")
		http.Error(w, "layanan tidak tersedia", http.StatusServiceUnavailable)
		return
	}
	engine.ServeHTTP(w, r)
}
