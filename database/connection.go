package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// BulkDB wraps a raw database/sql connection over lib/pq. It exists next to
// the GORM connection because COPY-based bulk ingest (pq.CopyIn) requires
// the lib/pq driver; everything else goes through GORM.
type BulkDB struct {
	conn *sql.DB
}

// Config holds database configuration
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// NewBulkConnection opens the raw connection used for bulk ingest.
func NewBulkConnection(cfg Config) (*BulkDB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName,
	)

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Ingest is bursty: a handful of connections suffices.
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(5 * time.Minute)
	conn.SetConnMaxIdleTime(2 * time.Minute)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Bulk-ingest database connection established")

	return &BulkDB{conn: conn}, nil
}

// Close closes the raw connection.
func (db *BulkDB) Close() error {
	if db.conn != nil {
		log.Println("📡 Closing bulk-ingest database connection...")
		return db.conn.Close()
	}
	return nil
}

// Ping checks if the connection is alive.
func (db *BulkDB) Ping() error {
	return db.conn.Ping()
}
