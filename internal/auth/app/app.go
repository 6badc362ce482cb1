// Package app wires configuration, storage, services and the HTTP surface
// into a runnable application.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/inkpress/draftgate/internal/auth/httpapi"
	"github.com/inkpress/draftgate/internal/auth/service"
	"github.com/inkpress/draftgate/internal/auth/store/drivers/file"
	"github.com/inkpress/draftgate/internal/platform"
	"github.com/inkpress/draftgate/pkg/httpx"
	"github.com/inkpress/draftgate/pkg/jwtx"
	"github.com/inkpress/draftgate/pkg/slogx"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// signingKeyFile lives in the storage directory next to the JSON stores.
const signingKeyFile = "signing.key"

// Application is the assembled service.
type Application struct {
	cfg    Config
	log    *slog.Logger
	store  *file.Store
	server *http.Server
}

// New assembles the application from its configuration.
func New(cfg Config) (*Application, error) {
	log := slogx.New(slogx.Config{
		Service: "draftgate",
		Version: Version,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})

	st, err := file.New(cfg.StorageDir)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	signer, err := jwtx.LoadOrCreateSigner(filepath.Join(cfg.StorageDir, signingKeyFile))
	if err != nil {
		return nil, fmt.Errorf("load signing key: %w", err)
	}

	clients := service.NewClientService(st.Clients())
	codes := service.NewCodeIssuer(cfg.AuthCodeTTL)
	authorize := service.NewAuthorizeService(clients, codes)
	tokens := service.NewTokenService(st.Tokens(), signer, service.TokenConfig{
		Issuer:         cfg.Issuer,
		AccessTTL:      cfg.AccessTokenTTL,
		RefreshTTL:     cfg.RefreshTokenTTL,
		StrictResource: cfg.StrictResource,
	})

	var publisher *platform.Client
	if cfg.PlatformConfigured() {
		publisher = platform.NewClient(cfg.Platform)
	} else {
		log.Warn("content platform not configured, article endpoints will answer 503")
	}

	handler := httpapi.NewHandler(httpapi.Deps{
		Clients:   clients,
		Authorize: authorize,
		Codes:     codes,
		Tokens:    tokens,
		Publisher: publisher,
		Signer:    signer,
		Store:     st,
		Issuer:    cfg.Issuer,
		Version:   Version,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           httpx.Chain(handler.Routes(), slogx.HTTPMiddleware(log)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Application{
		cfg:    cfg,
		log:    log,
		store:  st,
		server: server,
	}, nil
}

// Run serves until SIGINT/SIGTERM, then shuts down within the configured
// grace period.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("listening",
			"addr", a.server.Addr,
			"issuer", a.cfg.Issuer,
			"storage_dir", a.cfg.StorageDir,
			"strict_resource", a.cfg.StrictResource,
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	a.log.Info("shutting down", "grace_period", a.cfg.ShutdownGracePeriod)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := a.store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}

	a.log.Info("stopped")
	return nil
}
