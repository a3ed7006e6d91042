// Package analytics implements the sales-performance analytics engine:
// normalization of raw deal tables, stage classification, per-deal
// enrichment, filtering, KPI aggregation, grouped rollups and insight rules.
//
// Every function in this package is a pure transformation over immutable
// inputs. No function mutates a slice it did not allocate itself, so results
// for identical inputs are always identical and may be memoized by callers.
package analytics

import (
	"fmt"
	"strings"
	"time"
)

// Status is the closed classification of a deal derived from its stage label.
type Status string

const (
	StatusWon  Status = "won"
	StatusOpen Status = "open"
	StatusLost Status = "lost"
)

// Unspecified is the sentinel stored in place of blank or missing text
// fields so that downstream grouping never sees an empty key.
const Unspecified = "unspecified"

// Required column names of the raw deal table.
const (
	ColDealDate   = "deal_date"
	ColManager    = "manager"
	ColClientName = "client_name"
	ColProduct    = "product"
	ColStageLabel = "stage_label"
	ColPlanAmount = "plan_amount"
	ColFactAmount = "fact_amount"
)

// RequiredColumns lists every column Normalize expects to find in a raw table.
var RequiredColumns = []string{
	ColDealDate,
	ColManager,
	ColClientName,
	ColProduct,
	ColStageLabel,
	ColPlanAmount,
	ColFactAmount,
}

// RawTable is an untyped row table as produced by the ingestion boundary.
// Rows shorter than Columns are padded with empty strings during lookup.
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// SchemaError reports required columns absent from a raw table. It is fatal
// to the query: callers must surface it distinctly from "no rows matched".
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("raw table is missing required columns: %s", strings.Join(e.Missing, ", "))
}

// Deal is one normalized, enriched sales opportunity snapshot.
// The derived fields (Status through WeightedForecastValue) are pure
// functions of StageLabel, PlanAmount and FactAmount and are never patched
// in place; re-running Enrich recomputes all of them.
type Deal struct {
	Date       time.Time `json:"deal_date"`
	Manager    string    `json:"manager"`
	Client     string    `json:"client_name"`
	Product    string    `json:"product"`
	StageLabel string    `json:"stage_label"`
	PlanAmount float64   `json:"plan_amount"`
	FactAmount float64   `json:"fact_amount"`

	Status                Status  `json:"status"`
	StageProbability      float64 `json:"stage_probability"`
	PotentialValue        float64 `json:"potential_value"`
	RealizedValue         float64 `json:"realized_value"`
	OpenPipelineValue     float64 `json:"open_pipeline_value"`
	WeightedForecastValue float64 `json:"weighted_forecast_value"`
}

// Snapshot is the fixed set of scalar KPIs over a deal subset.
// All rate fields follow the zero-denominator policy: a rate whose
// denominator is zero is exactly 0, never NaN and never an error.
type Snapshot struct {
	PlanSum             float64 `json:"plan_sum"`
	RealizedSum         float64 `json:"realized_sum"`
	OpenPipelineSum     float64 `json:"open_pipeline_sum"`
	WeightedPipelineSum float64 `json:"weighted_pipeline_sum"`
	ForecastSum         float64 `json:"forecast_sum"`

	TotalCount int `json:"total_count"`
	WonCount   int `json:"won_count"`
	LostCount  int `json:"lost_count"`
	OpenCount  int `json:"open_count"`

	PlanAttainmentPct     float64 `json:"plan_attainment_pct"`
	ForecastAttainmentPct float64 `json:"forecast_attainment_pct"`
	ConversionPct         float64 `json:"conversion_pct"`
	WinRatePct            float64 `json:"win_rate_pct"`
	AvgRealizedPerWon     float64 `json:"avg_realized_per_won"`
}

// Dimension identifies a grouping axis for Rollup.
type Dimension string

const (
	DimManager Dimension = "manager"
	DimClient  Dimension = "client"
	DimProduct Dimension = "product"
	DimStage   Dimension = "stage"
	DimMonth   Dimension = "month"
	DimDay     Dimension = "day"
)

// ParseDimension validates a dimension name from an external caller.
func ParseDimension(s string) (Dimension, error) {
	switch Dimension(strings.ToLower(strings.TrimSpace(s))) {
	case DimManager:
		return DimManager, nil
	case DimClient:
		return DimClient, nil
	case DimProduct:
		return DimProduct, nil
	case DimStage:
		return DimStage, nil
	case DimMonth:
		return DimMonth, nil
	case DimDay:
		return DimDay, nil
	}
	return "", fmt.Errorf("unknown rollup dimension %q", s)
}

// GroupRow is one rollup row per distinct dimension value.
// StageProbability and FunnelConversionPct are only meaningful for the
// stage dimension; they are zero elsewhere.
type GroupRow struct {
	Key string `json:"key"`

	PlanSum             float64 `json:"plan_sum"`
	RealizedSum         float64 `json:"realized_sum"`
	OpenPipelineSum     float64 `json:"open_pipeline_sum"`
	WeightedPipelineSum float64 `json:"weighted_pipeline_sum"`
	ForecastSum         float64 `json:"forecast_sum"`

	DealCount int `json:"deal_count"`
	WonCount  int `json:"won_count"`
	LostCount int `json:"lost_count"`
	OpenCount int `json:"open_count"`

	ConversionPct float64 `json:"conversion_pct"`
	WinRatePct    float64 `json:"win_rate_pct"`

	StageProbability    float64 `json:"stage_probability,omitempty"`
	FunnelConversionPct float64 `json:"funnel_conversion_pct,omitempty"`
}

// Severity grades an insight message.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Insight is one qualitative finding produced by EvaluateInsights.
type Insight struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}
