package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	internalhttp "github.com/5G-MAG/m1-dashboard/internal/api/http"
	"github.com/5G-MAG/m1-dashboard/internal/api/http/handler"
	"github.com/5G-MAG/m1-dashboard/internal/auth"
	"github.com/5G-MAG/m1-dashboard/internal/cert"
	"github.com/5G-MAG/m1-dashboard/internal/dashboard"
	"github.com/5G-MAG/m1-dashboard/internal/state"
)

const (
	shutdownTimeout = 10 * time.Second
	cleanupInterval = time.Minute
)

func (app *application) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard web server and the connectivity poller",
		Args:  cobra.NoArgs,
		RunE:  app.runServe,
	}
}

func (app *application) runServe(cmd *cobra.Command, _ []string) error {
	config := app.config
	slog.Info("M1 Dashboard", "version", AppVersion)

	client, err := app.newClient()
	if err != nil {
		return err
	}

	appState := state.New(state.DefaultMaxAlerts, state.DefaultAlertTTL)
	var opts []dashboard.Option
	if config.Backend.ProxyViews {
		opts = append(opts, dashboard.WithViewBase("/view/"))
	}
	controller := dashboard.NewController(client, appState, appState, opts...)

	authService := auth.NewService(config.Auth)
	if !authService.Enabled() && config.Http.AdminAPIKey == "" {
		slog.Warn("Dashboard authentication is not configured, every request is accepted")
	}

	tokenTTL := config.Auth.TokenTTL
	if tokenTTL <= 0 {
		tokenTTL = auth.DefaultTokenTTL
	}

	stateFeed := handler.NewStateHandler(appState)
	services := &internalhttp.Services{
		Controller:  controller,
		State:       appState,
		StateFeed:   stateFeed,
		Auth:        authService,
		TokenTTL:    int(tokenTTL.Seconds()),
		AdminAPIKey: config.Http.AdminAPIKey,
	}
	if config.Backend.ProxyViews {
		services.Views = client
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-API-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(gin.Recovery())
	internalhttp.SetupRoute(engine, services)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.Http.Port),
		Handler: engine,
	}

	if config.Http.TLS.Enabled {
		if err := cert.EnsureServerCertificate(config.Http.TLS.CertFile, config.Http.TLS.KeyFile, config.Http.TLS.Hosts); err != nil {
			return fmt.Errorf("dashboard certificate: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// The table starts from what the backend knows.
	if res := controller.LoadAllSessions(ctx); res.Alert != nil {
		appState.Notify(*res.Alert)
	}

	var workers sync.WaitGroup
	workers.Add(3)
	go func() {
		defer workers.Done()
		dashboard.NewPoller(controller, config.Backend.PollInterval).Run(ctx)
	}()
	go func() {
		defer workers.Done()
		appState.StartCleanup(ctx, cleanupInterval)
	}()
	go func() {
		defer workers.Done()
		stateFeed.Run(ctx)
	}()

	errChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "address", httpServer.Addr, "tls", config.Http.TLS.Enabled)
		var err error
		if config.Http.TLS.Enabled {
			err = httpServer.ListenAndServeTLS(config.Http.TLS.CertFile, config.Http.TLS.KeyFile)
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var serveErr error
	select {
	case serveErr = <-errChan:
		slog.Error("Server error", "error", serveErr)
	case sig := <-sigChan:
		slog.Info("Received shutdown signal", "signal", sig)
	case <-ctx.Done():
	}

	slog.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	cancel()
	workers.Wait()
	slog.Info("Shutdown complete")
	return serveErr
}
