package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xelth-com/storesync/internal/buildinfo"
	"github.com/xelth-com/storesync/internal/catalog"
	"github.com/xelth-com/storesync/internal/config"
	"github.com/xelth-com/storesync/internal/database"
	"github.com/xelth-com/storesync/internal/handlers"
	"github.com/xelth-com/storesync/internal/sync"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Build the entity catalog; a broken catalog must stop startup
	cat, err := catalog.NewRetail()
	if err != nil {
		log.Fatalf("Invalid entity catalog: %v", err)
	}
	log.Printf("📚 Entity catalog ready: %d types", len(cat.Types()))

	// 3. Initialize database (Detects Embedded vs External automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in shutdown handler below

	// 4. Auto-Migrate Schema
	if cfg.AutoMigrate {
		log.Println("🚀 Synchronizing database schema...")
		if err := db.Migrate(); err != nil {
			log.Printf("⚠️ Migration warning: %v\n", err)
		}
	}

	// 5. Sync service
	svc, err := sync.NewService(db.DB, cat, sync.OptionsFromConfig(cfg.Sync))
	if err != nil {
		_ = db.Close()
		log.Fatalf("Failed to initialize sync service: %v", err)
	}

	// 6. Set up HTTP router
	router := handlers.NewRouter(db, cfg, svc)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Sync server %s starting on port %s (%s)\n", buildinfo.Version(), cfg.Port, cfg.NodeEnv)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	// In-flight pushes finish their transaction before the server stops
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Sync.PushTimeout+5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Close database (this also stops embedded PostgreSQL)
	log.Println("🛑 Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
