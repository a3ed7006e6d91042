package analytics

import (
	"fmt"

	"salesboard/helpers"
)

// Thresholds holds the tunable limits of the insight rules. The defaults
// are heuristics, not derived values, so they live in configuration rather
// than in the rule bodies.
type Thresholds struct {
	PlanAttainmentWarnPct float64 `json:"plan_attainment_warn_pct"`
	WinRateWarnPct        float64 `json:"win_rate_warn_pct"`
	TopManagerSharePct    float64 `json:"top_manager_share_pct"`
	TopClientSharePct     float64 `json:"top_client_share_pct"`
}

// DefaultThresholds returns the stock rule limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		PlanAttainmentWarnPct: 80,
		WinRateWarnPct:        25,
		TopManagerSharePct:    55,
		TopClientSharePct:     35,
	}
}

// EvaluateInsights runs the fixed ordered rule list over a KPI snapshot and
// the manager/client rollups. Every rule whose condition holds contributes a
// finding; rules are independent and never short-circuit each other. When no
// rule fires, a single informational "no critical deviations" finding is
// returned so callers always have something to display.
func EvaluateInsights(s Snapshot, managers, clients []GroupRow, t Thresholds) []Insight {
	var out []Insight

	if s.PlanSum > 0 && s.PlanAttainmentPct < t.PlanAttainmentWarnPct {
		out = append(out, Insight{
			Severity: SeverityWarning,
			Message: fmt.Sprintf("plan at risk: attainment is %.1f%% (below %.0f%%)",
				s.PlanAttainmentPct, t.PlanAttainmentWarnPct),
		})
	}

	if s.PlanSum > 0 && s.ForecastAttainmentPct < 100 {
		shortfall := s.PlanSum - s.ForecastSum
		out = append(out, Insight{
			Severity: SeverityWarning,
			Message: fmt.Sprintf("forecast does not cover the plan: %.1f%% attainment, shortfall of %s",
				s.ForecastAttainmentPct, helpers.FormatAmount(shortfall)),
		})
	}

	if s.WonCount+s.LostCount > 0 && s.WinRatePct < t.WinRateWarnPct {
		out = append(out, Insight{
			Severity: SeverityWarning,
			Message: fmt.Sprintf("low win rate: %.1f%% of closed deals won (below %.0f%%)",
				s.WinRatePct, t.WinRateWarnPct),
		})
	}

	if s.PlanSum > 0 && s.OpenPipelineSum == 0 && s.RealizedSum < s.PlanSum {
		out = append(out, Insight{
			Severity: SeverityCritical,
			Message:  "open pipeline is empty while the plan is not yet met",
		})
	}

	if share, key, ok := topShare(managers, s.RealizedSum); ok && share > t.TopManagerSharePct {
		out = append(out, Insight{
			Severity: SeverityWarning,
			Message: fmt.Sprintf("revenue concentration: manager %q holds %.1f%% of realized revenue (above %.0f%%)",
				key, share, t.TopManagerSharePct),
		})
	}

	if share, key, ok := topShare(clients, s.RealizedSum); ok && share > t.TopClientSharePct {
		out = append(out, Insight{
			Severity: SeverityWarning,
			Message: fmt.Sprintf("revenue concentration: client %q holds %.1f%% of realized revenue (above %.0f%%)",
				key, share, t.TopClientSharePct),
		})
	}

	if len(out) == 0 {
		out = append(out, Insight{
			Severity: SeverityInfo,
			Message:  "no critical deviations detected",
		})
	}

	return out
}

// topShare returns the realized-revenue share of the largest group. Rollups
// are sorted by realized value descending, so the first row is the top one.
func topShare(rows []GroupRow, realizedTotal float64) (float64, string, bool) {
	if len(rows) == 0 || realizedTotal <= 0 {
		return 0, "", false
	}
	top := rows[0]
	return top.RealizedSum / realizedTotal * 100, top.Key, true
}
