package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"showgrounds/paddock/internal/app"
	"showgrounds/paddock/internal/config"
	"showgrounds/paddock/internal/logging"
	"showgrounds/paddock/internal/routes"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	if err := logging.Init(cfg.AppEnv, cfg.LogLevel); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Paddock starting up",
		"environment", cfg.AppEnv,
		"farm", cfg.Showgrounds.FarmName,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	a, err := app.Open(cfg, prometheus.DefaultRegisterer)
	if err != nil {
		logging.Fatal("Failed to start", "error", err.Error())
	}
	defer a.Close()

	if err := a.Migrate(); err != nil {
		logging.Fatal("Failed to migrate database", "error", err.Error())
	}
	logging.Info("Database schema up to date")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Deps.Jobs.Start(ctx, cfg.Jobs, cfg.VenueLocation()); err != nil {
		logging.Fatal("Failed to start jobs", "error", err.Error())
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           routes.RegisterRoutes(a.Deps, a.SQL, time.Now()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info("Server starting", "port", cfg.HTTPPort, "environment", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server stopped unexpectedly", "error", err.Error())
			stop()
		}
	}()

	<-ctx.Done()
	logging.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err.Error())
	}
	a.Deps.Jobs.Stop()
}
