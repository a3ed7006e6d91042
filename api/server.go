package api

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"salesboard/analytics"
	"salesboard/cache"
	"salesboard/config"
	"salesboard/database"
	"salesboard/realtime"
)

// Server handles HTTP API requests
type Server struct {
	store   DealStore
	bulk    BulkInserter
	reports *cache.ReportCache
	broker  *realtime.Broker
	hub     *realtime.Hub
	cfg     config.AnalyticsConfig
}

// DealStore is the dataset persistence surface the handlers need.
type DealStore interface {
	CreateDataset(ds *database.Dataset) error
	ListDatasets(limit int) ([]database.Dataset, error)
	GetDataset(id string) (*database.Dataset, error)
	DeleteDataset(id string) error
	GetDeals(datasetID string) ([]analytics.Deal, error)
}

// BulkInserter streams enriched deals into storage and reports whether the
// ingest connection is alive.
type BulkInserter interface {
	BulkInsertDeals(datasetID string, deals []analytics.Deal) error
	Ping() error
}

// NewServer creates a new API server instance
func NewServer(store DealStore, bulk BulkInserter, reports *cache.ReportCache, broker *realtime.Broker, hub *realtime.Hub, cfg config.AnalyticsConfig) *Server {
	return &Server{
		store:   store,
		bulk:    bulk,
		reports: reports,
		broker:  broker,
		hub:     hub,
		cfg:     cfg,
	}
}

// Start starts the HTTP server on the specified port
func (s *Server) Start(port int) error {
	serverAddr := fmt.Sprintf("0.0.0.0:%d", port)
	log.Printf("🚀 API Server starting on %s", serverAddr)
	return http.ListenAndServe(serverAddr, s.Handler())
}

// Handler builds the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Realtime endpoints
	mux.Handle("GET /api/events", s.broker) // SSE
	mux.HandleFunc("GET /api/live", s.hub.HandleWS)

	// Dataset lifecycle
	mux.HandleFunc("POST /api/datasets", s.handleUploadDataset)
	mux.HandleFunc("GET /api/datasets", s.handleListDatasets)
	mux.HandleFunc("GET /api/datasets/{id}", s.handleGetDataset)
	mux.HandleFunc("DELETE /api/datasets/{id}", s.handleDeleteDataset)
	mux.HandleFunc("GET /api/datasets/{id}/export", s.handleExportDataset)

	// Reports
	mux.HandleFunc("GET /api/datasets/{id}/kpis", s.handleGetKPIs)
	mux.HandleFunc("GET /api/datasets/{id}/rollups/{dimension}", s.handleGetRollup)
	mux.HandleFunc("GET /api/datasets/{id}/insights", s.handleGetInsights)

	mux.HandleFunc("GET /health", s.handleHealth)

	return s.corsMiddleware(s.loggingMiddleware(mux))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := s.bulk.Ping(); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintf(w, `{"status":"degraded","error":%q}`, err.Error())
		return
	}
	fmt.Fprintf(w, `{"status":"ok"}`)
}

// Middleware
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}
