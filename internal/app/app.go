// Package app wires the storefront services into a gin engine.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"etalase/internal/config"
	"etalase/internal/database"
	"etalase/internal/handlers"
	"etalase/internal/live"
	"etalase/internal/services"
	"etalase/pkg/logx"

	"github.com/gin-gonic/gin"
	"github.com/philippgille/gokv"
)

// Deps overrides the pieces tests want to control. Zero values use the defaults.
type Deps struct {
	Store gokv.Store
	Audit *services.SecurityLogger
	Now   func() time.Time
}

// App holds every long-lived component of the storefront.
type App struct {
	Config  *config.Config
	Engine  *gin.Engine
	DB      *database.KVDatabase
	Catalog *services.Catalog
	Clock   *services.Clock
	Timers  *services.TimerEngine
	Hub     *live.Hub
	Audit   *services.SecurityLogger

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// New opens storage, loads the catalog and builds the router.
func New(cfg *config.Config, deps Deps) (*App, error) {
	switch cfg.Environment() {
	case config.Production:
		gin.SetMode(gin.ReleaseMode)
	case config.Testing:
		gin.SetMode(gin.TestMode)
	}

	store := deps.Store
	if store == nil {
		var err error
		store, err = database.NewStore(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Backend, err)
		}
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	audit := deps.Audit
	if audit == nil {
		audit = services.NewSecurityLogger(cfg.Admin.SecurityLog)
	}

	db := database.NewDatabase(store, database.Options{
		CatalogKey: cfg.Storage.CatalogKey,
		OffsetKey:  cfg.Storage.OffsetKey,
		Now:        now,
	})
	hub := live.NewHub()
	catalog := services.NewCatalog(db, now)
	catalog.SetNotifier(hub)
	clock := services.NewClock(db, hub, nil, now)
	timers := services.NewTimerEngine(catalog, hub, cfg.TickInterval, now)

	gate, err := services.NewAdminGate(cfg.Admin, audit)
	if err != nil {
		db.Close()
		return nil, err
	}

	renderer, err := handlers.LoadTemplates()
	if err != nil {
		db.Close()
		return nil, err
	}

	h := handlers.NewHandler(catalog, clock, gate, hub, handlers.Options{
		OrderRecipient: cfg.OrderRecipient,
		SecureCookie:   cfg.TLSEnabled,
		Now:            now,
	})

	r := gin.New()
	r.Use(handlers.RequestLogger())
	r.Use(gin.Recovery())
	r.SetTrustedProxies([]string{"127.0.0.1", "::1"})
	r.HTMLRender = renderer
	h.RegisterRoutes(r)

	return &App{
		Config:  cfg,
		Engine:  r,
		DB:      db,
		Catalog: catalog,
		Clock:   clock,
		Timers:  timers,
		Hub:     hub,
		Audit:   audit,
	}, nil
}

// Start launches the timer engine and the clock loop.
func (a *App) Start(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)
	a.Timers.Start(ctx)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.Clock.Run(ctx, a.Config.TickInterval)
	}()
	logx.Info().Int("products", a.Catalog.Len()).Int("offset", a.Clock.Offset()).Msg("storefront ready")
}

// Close stops the loops and releases storage.
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	a.Timers.Stop()
	a.wg.Wait()
	a.Hub.Close()
	a.Audit.Close()
	if err := a.DB.Close(); err != nil {
		logx.Error().Err(err).Msg("storage close failed")
	}
}
