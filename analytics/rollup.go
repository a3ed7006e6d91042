package analytics

import "sort"

// Rollup groups deals by a dimension and computes per-group aggregates.
// Only dimension values present in the input appear; absent categories are
// never zero-filled.
//
// Ordering: realized value descending with key ascending as tie-break. The
// stage dimension instead sorts by stage probability ascending, then deal
// count descending, then key (the funnel sequencing) and additionally
// carries per-stage funnel conversion: this stage's count over the previous
// stage's count, defined as 100 for the first stage and for any stage whose
// predecessor has zero deals.
func Rollup(deals []Deal, dim Dimension) []GroupRow {
	order := make([]string, 0)
	groups := make(map[string][]Deal)

	for _, d := range deals {
		key := dimensionKey(d, dim)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], d)
	}

	rows := make([]GroupRow, 0, len(order))
	for _, key := range order {
		members := groups[key]
		s := Aggregate(members)

		row := GroupRow{
			Key:                 key,
			PlanSum:             s.PlanSum,
			RealizedSum:         s.RealizedSum,
			OpenPipelineSum:     s.OpenPipelineSum,
			WeightedPipelineSum: s.WeightedPipelineSum,
			ForecastSum:         s.ForecastSum,
			DealCount:           s.TotalCount,
			WonCount:            s.WonCount,
			LostCount:           s.LostCount,
			OpenCount:           s.OpenCount,
			ConversionPct:       s.ConversionPct,
			WinRatePct:          s.WinRatePct,
		}
		if dim == DimStage {
			// Probability is a pure function of the label, so every
			// member of a stage group shares it.
			row.StageProbability = members[0].StageProbability
		}
		rows = append(rows, row)
	}

	if dim == DimStage {
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].StageProbability != rows[j].StageProbability {
				return rows[i].StageProbability < rows[j].StageProbability
			}
			if rows[i].DealCount != rows[j].DealCount {
				return rows[i].DealCount > rows[j].DealCount
			}
			return rows[i].Key < rows[j].Key
		})
		applyFunnelConversion(rows)
	} else {
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].RealizedSum != rows[j].RealizedSum {
				return rows[i].RealizedSum > rows[j].RealizedSum
			}
			return rows[i].Key < rows[j].Key
		})
	}

	return rows
}

func dimensionKey(d Deal, dim Dimension) string {
	switch dim {
	case DimManager:
		return d.Manager
	case DimClient:
		return d.Client
	case DimProduct:
		return d.Product
	case DimStage:
		return d.StageLabel
	case DimMonth:
		return d.Date.Format("2006-01")
	case DimDay:
		return d.Date.Format("2006-01-02")
	}
	return Unspecified
}

func applyFunnelConversion(rows []GroupRow) {
	for i := range rows {
		if i == 0 || rows[i-1].DealCount == 0 {
			rows[i].FunnelConversionPct = 100
			continue
		}
		rows[i].FunnelConversionPct = float64(rows[i].DealCount) / float64(rows[i-1].DealCount) * 100
	}
}
