// Package main is the entry point for the curator portal server.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/curator-portal/backend/internal/api"
	"github.com/curator-portal/backend/internal/calendar"
	"github.com/curator-portal/backend/internal/config"
	"github.com/curator-portal/backend/internal/lifecycle"
	"github.com/curator-portal/backend/internal/reminder"
	"github.com/curator-portal/backend/internal/storage"
	"github.com/curator-portal/backend/internal/websocket"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
// Defaults to "dev" when not provided.
var version = "dev"

func main() {
	healthCheck := flag.Bool("health-check", false, "Run health check and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Health check mode for Docker HEALTHCHECK
	if *healthCheck {
		if err := runHealthCheck(cfg.Addr); err != nil {
			log.Fatalf("Health check failed: %v", err)
		}
		os.Exit(0)
	}

	if envVer := os.Getenv("VERSION"); envVer != "" {
		version = envVer
	}

	log.Printf("Starting curator portal (version: %s)...", version)

	// Initialize database
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatalf("Failed to create data directory %q: %v", cfg.DataDir, err)
	}
	db, err := storage.NewDB(cfg.DataDir + "/curator-portal.db")
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := storage.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations complete")

	// Initialize WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize repositories
	eventRepo := storage.NewEventRepository(db)
	reportRepo := storage.NewReportRepository(db)
	studentRepo := storage.NewStudentRepository(db)

	// Lifecycle controller over the event repository
	controller := lifecycle.NewController(eventRepo)

	// Calendar reconciliation engine with the annotation table
	fixedDates := calendar.DefaultFixedDates()
	if cfg.FixedDatesPath != "" {
		fixedDates, err = calendar.LoadFixedDates(cfg.FixedDatesPath)
		if err != nil {
			log.Fatalf("Failed to load fixed dates from %q: %v", cfg.FixedDatesPath, err)
		}
		log.Printf("Loaded %d fixed dates from %s", len(fixedDates), cfg.FixedDatesPath)
	}
	engine := calendar.NewEngine(eventRepo, fixedDates)

	// Overdue-event reminder sweep
	reminderScheduler := reminder.NewScheduler(eventRepo, hub, cfg.ReminderSpec)
	if err := reminderScheduler.Start(); err != nil {
		log.Printf("Warning: Failed to start reminder scheduler: %v", err)
	}

	router := api.NewRouter(api.Deps{
		DB:        db,
		Hub:       hub,
		StaticDir: cfg.StaticDir,
		Events:    eventRepo,
		Reports:   reportRepo,
		Students:  studentRepo,
		Lifecycle: controller,
		Calendar:  engine,
	})

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		log.Printf("Server listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	reminderScheduler.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// runHealthCheck performs a health check against the running server.
func runHealthCheck(addr string) error {
	url := "http://localhost" + addr + "/api/health"
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return http.ErrAbortHandler
	}
	return nil
}
