package database

import (
	"time"

	"salesboard/analytics"
)

// Dataset is one immutable uploaded deal table. Re-uploading produces a new
// dataset with a new ID, which is what keeps memoized reports valid without
// invalidation.
type Dataset struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:255" json:"name"`
	UploadedAt  time.Time `gorm:"index" json:"uploaded_at"`
	RowCount    int       `json:"row_count"`
	DroppedRows int       `json:"dropped_rows"`
}

// DealRecord is the persisted form of an enriched deal. Derived fields are
// stored as computed at ingest time; they are pure functions of the base
// fields, so re-deriving on read would yield the same values.
type DealRecord struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	DatasetID string `gorm:"index;size:36" json:"dataset_id"`

	DealDate   time.Time `gorm:"index" json:"deal_date"`
	Manager    string    `gorm:"size:255;index" json:"manager"`
	Client     string    `gorm:"size:255" json:"client"`
	Product    string    `gorm:"size:255" json:"product"`
	StageLabel string    `gorm:"size:255" json:"stage_label"`
	PlanAmount float64   `json:"plan_amount"`
	FactAmount float64   `json:"fact_amount"`

	Status                string  `gorm:"size:10" json:"status"`
	StageProbability      float64 `json:"stage_probability"`
	PotentialValue        float64 `json:"potential_value"`
	RealizedValue         float64 `json:"realized_value"`
	OpenPipelineValue     float64 `json:"open_pipeline_value"`
	WeightedForecastValue float64 `json:"weighted_forecast_value"`
}

// ToDeal converts a stored record back into the engine's deal type.
func (r DealRecord) ToDeal() analytics.Deal {
	return analytics.Deal{
		Date:                  r.DealDate,
		Manager:               r.Manager,
		Client:                r.Client,
		Product:               r.Product,
		StageLabel:            r.StageLabel,
		PlanAmount:            r.PlanAmount,
		FactAmount:            r.FactAmount,
		Status:                analytics.Status(r.Status),
		StageProbability:      r.StageProbability,
		PotentialValue:        r.PotentialValue,
		RealizedValue:         r.RealizedValue,
		OpenPipelineValue:     r.OpenPipelineValue,
		WeightedForecastValue: r.WeightedForecastValue,
	}
}
