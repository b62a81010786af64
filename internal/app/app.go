// Package app wires configuration, storage and the asset store into the
// server and the maintenance commands.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	"github.com/tarmuz-dev/tarmuz/db"
	"github.com/tarmuz-dev/tarmuz/internal/assets"
	"github.com/tarmuz-dev/tarmuz/internal/auth"
	"github.com/tarmuz-dev/tarmuz/internal/config"
	"github.com/tarmuz-dev/tarmuz/internal/handlers"
	"github.com/tarmuz-dev/tarmuz/internal/logging"
	"github.com/tarmuz-dev/tarmuz/internal/mailer"
	"github.com/tarmuz-dev/tarmuz/internal/middleware"
	"github.com/tarmuz-dev/tarmuz/internal/repository"
	"github.com/tarmuz-dev/tarmuz/internal/router"
	"github.com/tarmuz-dev/tarmuz/internal/types"
	"github.com/tarmuz-dev/tarmuz/internal/upload"
)

// App holds the long lived dependencies. The caller must call Close.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       *gorm.DB
	Store    *repository.Store
	Registry *prometheus.Registry

	mu     sync.Mutex
	assets assets.Store
}

// New connects to the database and migrates the schema.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	conn, err := db.ConnectDatabase(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := db.MigrateDatabase(conn); err != nil {
		closeDB(conn)
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &App{
		Config:   cfg,
		Logger:   logger,
		DB:       conn,
		Store:    repository.New(conn),
		Registry: registry,
	}, nil
}

// AssetStore builds the configured asset store on first use. Commands and
// routes that never touch images run without asset credentials. A failed
// build is retried on the next call.
func (a *App) AssetStore(ctx context.Context) (assets.Store, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.assets != nil {
		return a.assets, nil
	}

	store, err := assets.NewStore(ctx, assets.Options{
		Backend:    a.Config.Assets.Backend,
		Cloudinary: a.Config.Assets.Cloudinary,
		S3:         a.Config.Assets.S3,
	})
	if err != nil {
		return nil, fmt.Errorf("creating asset store: %w", err)
	}

	observer, err := assets.NewPrometheusObserver("tarmuz", a.Registry)
	if err != nil {
		return nil, fmt.Errorf("registering asset metrics: %w", err)
	}

	a.assets = assets.WithObserver(store, observer)
	return a.assets, nil
}

func (a *App) Mailer() *mailer.SMTPSender {
	return mailer.NewSMTPSender(mailer.SMTPOptions{
		Host:     a.Config.Email.Host,
		Port:     a.Config.Email.Port,
		User:     a.Config.Email.User,
		Password: a.Config.Email.Password,
		From:     a.Config.Email.From,
	})
}

// Router builds the HTTP engine with every endpoint mounted. The asset store
// is built by the first request that uploads or destroys an image.
func (a *App) Router(ctx context.Context) (*gin.Engine, error) {
	issuer, err := auth.NewIssuer(a.Config.JWTSecret)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(a.Config.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}

	gin.SetMode(a.Config.GinMode)

	origins := types.AllowedOrigins(a.Config.ClientURL, a.Config.Origins)

	h := handlers.New(handlers.Deps{
		Store:            a.Store,
		Intake:           upload.NewIntake(a.Config.UploadDir),
		Uploader:         upload.NewLazyUploader(a.AssetStore, a.Config.Assets.BaseFolder, a.Logger),
		Mailer:           a.Mailer(),
		Issuer:           issuer,
		Hub:              handlers.NewHub(origins, a.Logger),
		Logger:           a.Logger,
		DefaultRecipient: a.Config.Email.To,
	})

	return router.NewRouter(router.Options{
		Handler:       h,
		Auth:          middleware.AuthMiddleware(issuer, a.Store.Users),
		Origins:       origins,
		Gatherer:      a.Registry,
		RequestLogger: middleware.RequestLogger(a.Logger),
	}), nil
}

func (a *App) Close() {
	closeDB(a.DB)
}

func closeDB(conn *gorm.DB) {
	if sqlDB, err := conn.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
