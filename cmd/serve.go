package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"github.com/suflam/usersvc/internal/handlers"
	"github.com/suflam/usersvc/internal/repository"
	"github.com/suflam/usersvc/internal/service"
	"github.com/suflam/usersvc/pkg/config"
	"github.com/suflam/usersvc/pkg/database"
	"github.com/suflam/usersvc/pkg/events"
	"github.com/suflam/usersvc/pkg/logger"
	mw "github.com/suflam/usersvc/pkg/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	var bus events.Publisher = events.NoopPublisher{}
	if cfg.NATS.URL != "" {
		natsBus, err := events.NewNATSPublisher(cfg.NATS.URL)
		if err != nil {
			return err
		}
		bus = natsBus
	}
	defer bus.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool)
	tokenRepo := repository.NewTokenRepository(pool)

	// Initialize services
	authService := service.NewAuthService(userRepo, tokenRepo, bus, cfg)
	userService := service.NewUserService(userRepo, authService, bus)

	// Initialize handlers
	h := handlers.New(authService, userService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(mw.CORS)

	// Routes
	h.Routes(r)

	// Expired tokens accumulate forever otherwise; reap on an interval.
	reapDone := make(chan struct{})
	if cfg.Auth.TokenReapInterval > 0 {
		go func() {
			ticker := time.NewTicker(cfg.Auth.TokenReapInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					n, err := authService.ReapExpired(context.Background())
					if err != nil {
						logger.Error("Failed to reap expired tokens", "error", err)
						continue
					}
					if n > 0 {
						logger.Info("Reaped expired tokens", "count", n)
					}
				case <-reapDone:
					return
				}
			}
		}()
	}
	defer close(reapDone)

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down user service...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	}()

	logger.Info("Starting user service", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
