package database

import (
	"fmt"

	"github.com/lib/pq"

	"salesboard/analytics"
)

// BulkInsertDeals streams an enriched deal table into deal_records using
// PostgreSQL COPY. Uploads routinely carry tens of thousands of rows, which
// row-by-row inserts handle poorly.
func (db *BulkDB) BulkInsertDeals(datasetID string, deals []analytics.Deal) error {
	if len(deals) == 0 {
		return nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin bulk insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(pq.CopyIn("deal_records",
		"dataset_id",
		"deal_date",
		"manager",
		"client",
		"product",
		"stage_label",
		"plan_amount",
		"fact_amount",
		"status",
		"stage_probability",
		"potential_value",
		"realized_value",
		"open_pipeline_value",
		"weighted_forecast_value",
	))
	if err != nil {
		return fmt.Errorf("failed to prepare COPY: %w", err)
	}

	for _, d := range deals {
		_, err := stmt.Exec(
			datasetID,
			d.Date,
			d.Manager,
			d.Client,
			d.Product,
			d.StageLabel,
			d.PlanAmount,
			d.FactAmount,
			string(d.Status),
			d.StageProbability,
			d.PotentialValue,
			d.RealizedValue,
			d.OpenPipelineValue,
			d.WeightedForecastValue,
		)
		if err != nil {
			stmt.Close()
			return fmt.Errorf("failed to buffer deal row: %w", err)
		}
	}

	// Flush the COPY buffer.
	if _, err := stmt.Exec(); err != nil {
		stmt.Close()
		return fmt.Errorf("failed to flush COPY: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return fmt.Errorf("failed to close COPY statement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bulk insert: %w", err)
	}
	return nil
}
