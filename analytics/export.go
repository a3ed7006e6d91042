package analytics

import (
	"encoding/csv"
	"io"
	"strconv"
)

var exportHeader = []string{
	ColDealDate,
	ColManager,
	ColClientName,
	ColProduct,
	ColStageLabel,
	ColPlanAmount,
	ColFactAmount,
	"status",
	"stage_probability",
	"potential_value",
	"realized_value",
	"open_pipeline_value",
	"weighted_forecast_value",
}

// WriteCSV serializes an enriched deal table as CSV: ISO calendar dates and
// plain decimal numbers, one row per deal, header first.
func WriteCSV(w io.Writer, deals []Deal) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(exportHeader); err != nil {
		return err
	}

	for _, d := range deals {
		record := []string{
			d.Date.Format("2006-01-02"),
			d.Manager,
			d.Client,
			d.Product,
			d.StageLabel,
			formatNumber(d.PlanAmount),
			formatNumber(d.FactAmount),
			string(d.Status),
			formatNumber(d.StageProbability),
			formatNumber(d.PotentialValue),
			formatNumber(d.RealizedValue),
			formatNumber(d.OpenPipelineValue),
			formatNumber(d.WeightedForecastValue),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
