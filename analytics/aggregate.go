package analytics

import "time"

// Aggregate reduces a deal subset to its KPI snapshot. Sums are plain
// arithmetic over the enriched derived fields; classification is never
// recomputed here. Aggregating an empty subset returns a snapshot with all
// sums and rates equal to 0.
func Aggregate(deals []Deal) Snapshot {
	var s Snapshot
	for _, d := range deals {
		s.PlanSum += d.PlanAmount
		s.RealizedSum += d.RealizedValue
		s.OpenPipelineSum += d.OpenPipelineValue
		s.WeightedPipelineSum += d.WeightedForecastValue

		s.TotalCount++
		switch d.Status {
		case StatusWon:
			s.WonCount++
		case StatusLost:
			s.LostCount++
		case StatusOpen:
			s.OpenCount++
		}
	}

	s.ForecastSum = s.RealizedSum + s.WeightedPipelineSum

	s.PlanAttainmentPct = safeRate(s.RealizedSum, s.PlanSum) * 100
	s.ForecastAttainmentPct = safeRate(s.ForecastSum, s.PlanSum) * 100
	s.ConversionPct = safeRate(float64(s.WonCount), float64(s.TotalCount)) * 100
	s.WinRatePct = safeRate(float64(s.WonCount), float64(s.WonCount+s.LostCount)) * 100
	s.AvgRealizedPerWon = safeRate(s.RealizedSum, float64(s.WonCount))

	return s
}

// RunRate is a linear extrapolation of realized revenue over a horizon.
type RunRate struct {
	DaysElapsed            int     `json:"days_elapsed"`
	HorizonDays            int     `json:"horizon_days"`
	DailyAverage           float64 `json:"daily_average"`
	Projected              float64 `json:"projected"`
	ProjectedAttainmentPct float64 `json:"projected_attainment_pct"`
}

// ProjectRunRate extrapolates the snapshot's realized sum across the
// selected period: realized / days-in-period × horizonDays. Degenerate
// inputs (inverted range, zero horizon, zero plan) produce zeros rather
// than errors, matching the engine's zero-denominator policy.
func ProjectRunRate(s Snapshot, start, end time.Time, horizonDays int) RunRate {
	rr := RunRate{HorizonDays: horizonDays}

	days := int(dateOnly(end).Sub(dateOnly(start)).Hours()/24) + 1
	if days <= 0 || horizonDays <= 0 {
		return rr
	}

	rr.DaysElapsed = days
	rr.DailyAverage = s.RealizedSum / float64(days)
	rr.Projected = rr.DailyAverage * float64(horizonDays)
	rr.ProjectedAttainmentPct = safeRate(rr.Projected, s.PlanSum) * 100
	return rr
}

// safeRate divides num by den, yielding exactly 0 when den is 0. The zero
// result is contractual for every rate the engine reports.
func safeRate(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
