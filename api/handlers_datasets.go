package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"salesboard/analytics"
	"salesboard/database"
	"salesboard/ingest"
	"salesboard/realtime"
)

// handleUploadDataset ingests a CSV upload: parse, normalize, enrich,
// persist as a new immutable dataset, then announce it to live dashboards.
//
// A schema defect (missing required columns) is fatal to the upload and is
// reported with the missing column names; row-level defects only drop the
// affected rows.
func (s *Server) handleUploadDataset(w http.ResponseWriter, r *http.Request) {
	body, name, err := uploadBody(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer body.Close()

	table, err := ingest.ParseCSV(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	deals, droppedRows, err := analytics.Normalize(table)
	if err != nil {
		var schemaErr *analytics.SchemaError
		if errors.As(err, &schemaErr) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error":           "missing required columns",
				"missing_columns": schemaErr.Missing,
			})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	deals = analytics.Enrich(deals, s.cfg.DefaultOpenProbability)

	ds := &database.Dataset{
		ID:          uuid.NewString(),
		Name:        name,
		UploadedAt:  time.Now().UTC(),
		RowCount:    len(deals),
		DroppedRows: droppedRows,
	}
	if err := s.store.CreateDataset(ds); err != nil {
		log.Printf("❌ Failed to create dataset: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := s.bulk.BulkInsertDeals(ds.ID, deals); err != nil {
		log.Printf("❌ Failed to persist deals for dataset %s: %v", ds.ID, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Dataset %s ingested: %d rows (%d dropped)", ds.ID, ds.RowCount, ds.DroppedRows)

	// Push the fresh headline numbers to connected dashboards.
	snapshot := analytics.Aggregate(deals)
	payload := map[string]interface{}{"dataset": ds, "snapshot": snapshot}
	s.broker.Broadcast(realtime.EventDatasetIngested, payload)
	s.hub.Broadcast(realtime.EventDatasetIngested, payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"dataset":  ds,
		"snapshot": snapshot,
	})
}

// uploadBody accepts either a multipart form with a "file" field or a raw
// CSV request body.
func uploadBody(r *http.Request) (io.ReadCloser, string, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", fmt.Errorf("multipart upload requires a 'file' field: %w", err)
		}
		return file, header.Filename, nil
	}
	return r.Body, "upload.csv", nil
}

func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		fmt.Sscanf(l, "%d", &limit)
	}

	datasets, err := s.store.ListDatasets(limit)
	if err != nil {
		log.Printf("❌ Failed to list datasets: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"datasets": datasets,
		"count":    len(datasets),
	})
}

func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	ds, err := s.store.GetDataset(id)
	if err != nil {
		if database.IsNotFound(err) {
			http.Error(w, "dataset not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ds)
}

func (s *Server) handleDeleteDataset(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if _, err := s.store.GetDataset(id); err != nil {
		if database.IsNotFound(err) {
			http.Error(w, "dataset not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := s.store.DeleteDataset(id); err != nil {
		log.Printf("❌ Failed to delete dataset %s: %v", id, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := s.reports.Invalidate(r.Context(), id); err != nil {
		log.Printf("⚠️  Failed to purge memoized reports for dataset %s: %v", id, err)
	}

	log.Printf("🗑️  Dataset %s deleted", id)
	s.broker.Broadcast(realtime.EventDatasetDeleted, map[string]string{"id": id})
	s.hub.Broadcast(realtime.EventDatasetDeleted, map[string]string{"id": id})

	w.WriteHeader(http.StatusNoContent)
}

// handleExportDataset streams the filtered, enriched deal table as CSV.
func (s *Server) handleExportDataset(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	criteria, err := parseCriteria(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	deals, ok := s.loadDeals(w, id)
	if !ok {
		return
	}
	deals = analytics.Filter(deals, criteria)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "deals-"+id+".csv"))
	if err := analytics.WriteCSV(w, deals); err != nil {
		log.Printf("❌ Failed to export dataset %s: %v", id, err)
	}
}

// loadDeals fetches a dataset's deal table, writing the HTTP error itself
// when the dataset is missing or the read fails.
func (s *Server) loadDeals(w http.ResponseWriter, id string) ([]analytics.Deal, bool) {
	if _, err := s.store.GetDataset(id); err != nil {
		if database.IsNotFound(err) {
			http.Error(w, "dataset not found", http.StatusNotFound)
			return nil, false
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}

	deals, err := s.store.GetDeals(id)
	if err != nil {
		log.Printf("❌ Failed to load deals for dataset %s: %v", id, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return deals, true
}
