package analytics

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Date layouts accepted for the deal_date column, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02.01.2006",
	"02.01.2006 15:04:05",
	"02/01/2006",
}

// Normalize cleans a raw row table into typed deals.
//
// Column names are trimmed and matched case-insensitively. If any required
// column is absent the whole table is rejected with a *SchemaError. Row-level
// defects are recovered instead: a row whose date does not parse is dropped
// (counted in the second return value), an amount that does not parse
// coerces to 0, and blank text fields become the Unspecified sentinel.
//
// The returned slice is sorted ascending by deal date, which time-series
// rollups rely on. The input table is never mutated.
func Normalize(table RawTable) ([]Deal, int, error) {
	index := make(map[string]int, len(table.Columns))
	for i, col := range table.Columns {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, 0, &SchemaError{Missing: missing}
	}

	deals := make([]Deal, 0, len(table.Rows))
	dropped := 0
	for _, row := range table.Rows {
		cell := func(col string) string {
			i := index[col]
			if i >= len(row) {
				return ""
			}
			return row[i]
		}

		date, ok := parseDate(cell(ColDealDate))
		if !ok {
			dropped++
			continue
		}

		deals = append(deals, Deal{
			Date:       date,
			Manager:    textOrSentinel(cell(ColManager)),
			Client:     textOrSentinel(cell(ColClientName)),
			Product:    textOrSentinel(cell(ColProduct)),
			StageLabel: textOrSentinel(cell(ColStageLabel)),
			PlanAmount: parseAmount(cell(ColPlanAmount)),
			FactAmount: parseAmount(cell(ColFactAmount)),
		})
	}

	sort.SliceStable(deals, func(i, j int) bool {
		return deals[i].Date.Before(deals[j].Date)
	})

	return deals, dropped, nil
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseAmount cleans a stringly numeric cell: every character except digits,
// comma, dot and minus is stripped, a lone comma acts as decimal separator,
// remaining commas are treated as thousands separators. Unparseable or
// negative results coerce to 0.
func parseAmount(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0
	}

	if strings.Contains(cleaned, ",") {
		if !strings.Contains(cleaned, ".") && strings.Count(cleaned, ",") == 1 {
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func textOrSentinel(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unspecified
	}
	return s
}
