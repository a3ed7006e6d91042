// Package app wires configuration, storage, cache, realtime push and the
// HTTP API together and manages the process lifecycle.
package app

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salesboard/api"
	"salesboard/cache"
	"salesboard/config"
	"salesboard/database"
	"salesboard/realtime"
)

// App represents the main application
type App struct {
	config  *config.Config
	db      *database.Database
	bulkDB  *database.BulkDB
	repo    *database.DealRepository
	redis   *cache.RedisClient
	reports *cache.ReportCache
	broker  *realtime.Broker
	hub     *realtime.Hub
}

// New creates a new application instance
func New(cfg *config.Config) *App {
	return &App{config: cfg}
}

// Start starts the application and blocks until shutdown.
func (a *App) Start() error {
	// 1. Database connections
	fmt.Println("🗄️  Connecting to database...")

	db, err := database.Connect(
		a.config.DatabaseHost,
		a.config.DatabasePort,
		a.config.DatabaseName,
		a.config.DatabaseUser,
		a.config.DatabasePassword,
	)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	a.db = db

	bulkDB, err := database.NewBulkConnection(database.Config{
		Host:     a.config.DatabaseHost,
		Port:     a.config.DatabasePort,
		User:     a.config.DatabaseUser,
		Password: a.config.DatabasePassword,
		DBName:   a.config.DatabaseName,
	})
	if err != nil {
		return fmt.Errorf("bulk-ingest connection failed: %w", err)
	}
	a.bulkDB = bulkDB

	a.repo = database.NewDealRepository(a.db)
	if err := a.repo.InitSchema(); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}

	// 2. Redis connection (optional)
	fmt.Println("🧠 Connecting to Redis...")
	a.redis = cache.NewRedisClient(
		a.config.RedisHost,
		a.config.RedisPort,
		a.config.RedisPassword,
	)
	if a.redis == nil {
		fmt.Println("⚠️  Redis connection failed. Report memoization disabled.")
	}
	ttl := time.Duration(a.config.Analytics.ReportCacheTTLMinutes) * time.Minute
	a.reports = cache.NewReportCache(a.redis, ttl)

	// 3. Realtime push
	a.broker = realtime.NewBroker()
	go a.broker.Run()
	a.hub = realtime.NewHub()
	go a.hub.Run()

	// 4. API server
	server := api.NewServer(a.repo, a.bulkDB, a.reports, a.broker, a.hub, a.config.Analytics)
	go func() {
		if err := server.Start(a.config.ServerPort); err != nil {
			log.Fatalf("❌ API server failed: %v", err)
		}
	}()

	// 5. Block until shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("📡 Shutting down...")
	a.shutdown()
	return nil
}

func (a *App) shutdown() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Printf("⚠️  Error closing Redis: %v", err)
		}
	}
	if a.bulkDB != nil {
		if err := a.bulkDB.Close(); err != nil {
			log.Printf("⚠️  Error closing bulk-ingest connection: %v", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Printf("⚠️  Error closing database: %v", err)
		}
	}
	log.Println("✅ Shutdown complete")
}
