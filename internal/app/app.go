package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sistema-tareas/internal/config"
	"sistema-tareas/internal/handler"
	"sistema-tareas/internal/logger"
	"sistema-tareas/internal/middleware"
	"sistema-tareas/internal/router"
	"sistema-tareas/internal/service"
	"sistema-tareas/internal/storage"
)

type App struct {
	server *http.Server
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Replace the bootstrap logger with the configured one as soon as the
	// config is known.
	slog.SetDefault(slog.New(logger.New(os.Stdout, cfg.LogFormat, logger.ParseLevel(cfg.LogLevel))))

	store, err := storage.New(cfg.UsuariosFile, cfg.TareasFile, cfg.FinalizadasFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	keys, err := service.NewKeyManager()
	if err != nil {
		return nil, fmt.Errorf("failed to generate signing keys: %w", err)
	}
	slog.Info("signing key pair generated", "bits", keys.Private().N.BitLen())

	tokens := service.NewTokenService(keys, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	gestor := service.NewGestorSistema(store)

	if err := bootstrapAdmin(gestor, cfg); err != nil {
		return nil, err
	}

	authMiddleware := middleware.NewAuthMiddleware(tokens)
	authHandler := handler.NewAuthHandler(gestor, tokens)
	usuarioHandler := handler.NewUsuarioHandler(gestor)
	tareaHandler := handler.NewTareaHandler(gestor)
	statsHandler := handler.NewStatsHandler(gestor)

	appRouter := router.New(cfg, authMiddleware, authHandler, usuarioHandler, tareaHandler, statsHandler)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      appRouter,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return &App{server: server}, nil
}

// bootstrapAdmin seeds the first admin account from the environment. It
// only acts when no admin exists at all, so a configured bootstrap admin
// never overwrites or duplicates live accounts.
func bootstrapAdmin(gestor *service.GestorSistema, cfg *config.Config) error {
	if cfg.BootstrapAdmin == "" {
		return nil
	}

	existe, err := gestor.ExisteAdmin()
	if err != nil {
		return fmt.Errorf("check for existing admin: %w", err)
	}
	if existe {
		slog.Debug("admin already present, skipping bootstrap")
		return nil
	}

	if _, err := gestor.CrearAdmin(cfg.BootstrapAdmin, cfg.BootstrapAdminPassword); err != nil {
		return fmt.Errorf("bootstrap admin %q: %w", cfg.BootstrapAdmin, err)
	}
	slog.Info("bootstrap admin created", "usuario", cfg.BootstrapAdmin)

	return nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
