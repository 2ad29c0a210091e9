package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleetdash-backend/internal/config"
	"fleetdash-backend/internal/handlers"
	"fleetdash-backend/internal/models"
	"fleetdash-backend/internal/services"
	"fleetdash-backend/internal/store"
	"fleetdash-backend/internal/websocket"

	"github.com/zoobzio/clockz"
)

func main() {
	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("🚀 FLEETDASH BACKEND SERVER STARTING")
	log.Println("═══════════════════════════════════════════════════════════════════")

	cfg, err := config.Load()
	if err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Invalid configuration")
		log.Printf("   Error: %v", err)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
	log.Println("✅ Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Seed driver registry
	var drivers []models.DriverRecord
	if cfg.SeedDrivers {
		log.Println("🌱 Seeding driver registry with demo roster...")
		drivers = store.SeedDrivers(store.NewRand(cfg.SeedRandom), clockz.RealClock.Now())
	} else {
		log.Println("⚠️  SEED_DRIVERS=false, starting with an empty registry")
	}

	registry := store.NewRegistry(drivers,
		store.WithClock(clockz.RealClock),
		store.WithRefreshInterval(cfg.FatigueRefreshInterval),
	)
	projector := store.NewProjector(registry, store.DefaultJobTemplates(), store.DefaultVehicleCatalog())
	defer projector.Close()
	log.Printf("✅ Registry ready: %d driver(s), %d vehicle(s)", registry.Len(), len(projector.Vehicles()))

	// Initialize Firebase Cloud Messaging
	// Supports both file path and base64-encoded credentials
	var notifier services.Notifier
	if cfg.FirebaseCredentialsBase64 != "" {
		fcmService, err := services.NewFCMServiceFromBase64(cfg.FirebaseCredentialsBase64)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from base64: %v (push notifications disabled)", err)
		} else {
			notifier = fcmService
			log.Println("✅ Firebase Cloud Messaging initialized from base64 credentials")
		}
	} else {
		credentialsFile := cfg.FirebaseCredentialsFile
		if credentialsFile == "" {
			credentialsFile = "./firebase-service-account.json"
		}

		fcmService, err := services.NewFCMService(credentialsFile)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from file: %v (push notifications disabled)", err)
		} else {
			notifier = fcmService
			log.Println("✅ Firebase Cloud Messaging initialized from file")
		}
	}

	// Initialize WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run(ctx)
	log.Println("✅ WebSocket hub started")

	tokens := services.NewTokenStore()
	alerts := services.NewAlertService(registry, notifier, wsHub, tokens)
	defer alerts.Close()

	feed := services.NewLiveFeed(wsHub, registry, projector)
	defer feed.Close()

	registry.Start(ctx)
	defer registry.Stop()

	router := handlers.NewRouter(handlers.Deps{
		Registry:       registry,
		Projector:      projector,
		Alerts:         alerts,
		Tokens:         tokens,
		Hub:            wsHub,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("✅ ALL INITIALIZATION COMPLETE")
	log.Printf("🚀 Server starting on http://localhost:%s", cfg.Port)
	log.Println("🔌 Ready to accept requests!")
	log.Println("═══════════════════════════════════════════════════════════════════")

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
			log.Println("❌ FATAL ERROR: Server failed to start")
			log.Printf("   Error: %v", err)
			log.Printf("   Port: %s", cfg.Port)
			log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
			log.Fatal(err)
		}
	case <-ctx.Done():
		log.Printf("🛑 Shutdown signal received, draining connections (%d websocket client(s))...", wsHub.GetClientCount())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("⚠️  Graceful shutdown failed: %v", err)
		}
	}

	log.Println("👋 Server stopped")
}
