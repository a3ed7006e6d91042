// Package database persists uploaded deal tables. Datasets and their deal
// records are the only durable state of the system; every report is
// recomputed from them per query.
//
// Two connections are held against the same PostgreSQL instance: GORM for
// schema management and queries, and a raw lib/pq connection used solely for
// COPY-based bulk ingest (see bulk.go).
package database

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"salesboard/analytics"
)

// Database holds the GORM database connection.
type Database struct {
	db *gorm.DB
}

// Connect establishes the GORM connection.
func Connect(host, port, dbname, user, password string) (*Database, error) {
	dsn := fmt.Sprintf("host=%s port=%s dbname=%s user=%s password=%s sslmode=disable",
		host, port, dbname, user, password)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Database{db: db}, nil
}

// Close closes the underlying connection pool.
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DealRepository handles dataset and deal persistence.
type DealRepository struct {
	db *Database
}

// NewDealRepository creates a new deal repository
func NewDealRepository(db *Database) *DealRepository {
	return &DealRepository{db: db}
}

// InitSchema performs auto-migration for datasets and deal records.
func (r *DealRepository) InitSchema() error {
	log.Println("🔄 Starting database schema initialization...")

	if err := r.db.db.AutoMigrate(&Dataset{}, &DealRecord{}); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	log.Println("✅ Database schema ready")
	return nil
}

// CreateDataset stores the dataset header row.
func (r *DealRepository) CreateDataset(ds *Dataset) error {
	if err := r.db.db.Create(ds).Error; err != nil {
		return fmt.Errorf("failed to create dataset %s: %w", ds.ID, err)
	}
	return nil
}

// ListDatasets returns dataset headers, newest upload first.
func (r *DealRepository) ListDatasets(limit int) ([]Dataset, error) {
	var datasets []Dataset
	q := r.db.db.Order("uploaded_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&datasets).Error; err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	return datasets, nil
}

// GetDataset fetches one dataset header by ID.
func (r *DealRepository) GetDataset(id string) (*Dataset, error) {
	var ds Dataset
	if err := r.db.db.First(&ds, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ds, nil
}

// DeleteDataset removes a dataset and all its deal records.
func (r *DealRepository) DeleteDataset(id string) error {
	if err := r.db.db.Where("dataset_id = ?", id).Delete(&DealRecord{}).Error; err != nil {
		return fmt.Errorf("failed to delete deals of dataset %s: %w", id, err)
	}
	if err := r.db.db.Delete(&Dataset{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete dataset %s: %w", id, err)
	}
	return nil
}

// GetDeals loads the full deal table of a dataset ordered ascending by deal
// date, the ordering the engine's time-series rollups expect.
func (r *DealRepository) GetDeals(datasetID string) ([]analytics.Deal, error) {
	var records []DealRecord
	err := r.db.db.
		Where("dataset_id = ?", datasetID).
		Order("deal_date ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load deals of dataset %s: %w", datasetID, err)
	}

	deals := make([]analytics.Deal, len(records))
	for i, rec := range records {
		deals[i] = rec.ToDeal()
	}
	return deals, nil
}

// IsNotFound reports whether err is the gorm record-not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
