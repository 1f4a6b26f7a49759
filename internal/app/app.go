package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"mangabook/catalog-api/internal/audit"
	"mangabook/catalog-api/internal/auth"
	"mangabook/catalog-api/internal/catalog"
	"mangabook/catalog-api/internal/config"
	"mangabook/catalog-api/internal/httpserver"
	"mangabook/catalog-api/internal/kvstore"
	"mangabook/catalog-api/internal/observability"
	"mangabook/catalog-api/internal/remote"
)

type App struct {
	cfg       config.Config
	log       *slog.Logger
	store     kvstore.Store
	inventory *catalog.Inventory
	server    *httpserver.Server
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger := observability.NewLogger(cfg.Log)
	metrics := observability.NewMetrics()

	raw, err := kvstore.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	store := kvstore.Instrument(raw, cfg.Store.Backend, metrics.StoreOps)
	logger.Info("store opened", "backend", cfg.Store.Backend)

	users := auth.NewDirectory(store, logger)
	admin := auth.User{
		Nombre:   cfg.Auth.BootstrapName,
		Usuario:  cfg.Auth.BootstrapUsername,
		Email:    cfg.Auth.BootstrapEmail,
		Password: cfg.Auth.BootstrapPassword,
		Tipo:     auth.RoleAdmin,
	}
	sessions, err := auth.NewManager(ctx, store, users, admin, logger)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("create session manager: %w", err)
	}
	accounts, err := auth.NewService(users, sessions)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("create account service: %w", err)
	}

	remoteClient, err := remote.NewClient(remote.Config{
		DollarURL:   cfg.Remote.DollarURL,
		ProductsURL: cfg.Remote.ProductsURL,
		Timeout:     cfg.Remote.Timeout,
	}, remote.WithObserver(metrics.ObserveRemote))
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("create remote client: %w", err)
	}
	inventory := catalog.NewInventory(store, remoteClient, logger)

	var pinger httpserver.Pinger
	if p, ok := store.(kvstore.Pinger); ok {
		pinger = p
	}

	server := httpserver.New(cfg.HTTP, httpserver.Deps{
		Accounts:        accounts,
		Sessions:        sessions,
		Inventory:       inventory,
		Quotes:          remoteClient,
		Audit:           audit.NewLogger(cfg.AuditLogFile),
		Store:           pinger,
		Metrics:         metrics,
		Logger:          logger,
		FrontendDistDir: cfg.FrontendDistDir,
		AllowedOrigins:  cfg.HTTP.AllowedOrigins,
	})

	return &App{
		cfg:       cfg,
		log:       logger,
		store:     store,
		inventory: inventory,
		server:    server,
	}, nil
}

// warmInventory fills the product list from the remote seed when the store
// has none yet, so the first catalog page is not empty.
func (a *App) warmInventory(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Remote.Timeout+5*time.Second)
	defer cancel()
	list, err := a.inventory.LoadOrSeed(ctx)
	if err != nil {
		a.log.Warn("inventory warm-up failed", "error", err)
		return
	}
	a.log.Info("inventory ready", "products", len(list))
}

func (a *App) Run(ctx context.Context) error {
	defer func() {
		if err := a.store.Close(); err != nil {
			a.log.Warn("close store", "error", err)
		}
	}()

	go a.warmInventory(ctx)

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("http server starting", "addr", a.cfg.HTTP.Addr)
		errCh <- a.server.Start()
	}()

	select {
	case <-ctx.Done():
		a.log.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server exited: %w", err)
	}
}
