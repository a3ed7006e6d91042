package api

import (
	"encoding/json"
	"log"
	"net/http"

	"salesboard/analytics"
	"salesboard/cache"
)

// handleGetKPIs computes the KPI snapshot over the filtered deal subset.
// With compare=true and an explicit date range it also reports the snapshot
// of the immediately preceding period of equal length; with a date range it
// reports the linear run-rate projection.
func (s *Server) handleGetKPIs(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	criteria, err := parseCriteria(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	paramsHash := cache.ParamsHash(criteria)

	response := map[string]interface{}{}

	snapshot, hit := s.reports.GetSnapshot(ctx, id, paramsHash)
	var deals []analytics.Deal
	if !hit {
		var ok bool
		deals, ok = s.loadDeals(w, id)
		if !ok {
			return
		}
		fresh := analytics.Aggregate(analytics.Filter(deals, criteria))
		snapshot = &fresh
		if err := s.reports.SetSnapshot(ctx, id, paramsHash, fresh); err == nil {
			log.Printf("💾 Cached KPI snapshot for dataset %s", id)
		}
	}
	response["snapshot"] = snapshot

	hasRange := !criteria.From.IsZero() && !criteria.To.IsZero()
	if hasRange {
		response["run_rate"] = analytics.ProjectRunRate(*snapshot, criteria.From, criteria.To, s.cfg.RunRateHorizonDays)
	}

	if getBoolParam(r, "compare") {
		if !hasRange {
			http.Error(w, "compare=true requires both 'from' and 'to' dates", http.StatusBadRequest)
			return
		}
		if deals == nil {
			var ok bool
			deals, ok = s.loadDeals(w, id)
			if !ok {
				return
			}
		}

		prevCriteria := criteria
		prevCriteria.From, prevCriteria.To = analytics.PreviousPeriod(criteria.From, criteria.To)
		previous := analytics.Aggregate(analytics.Filter(deals, prevCriteria))

		response["previous"] = previous
		response["previous_period"] = map[string]string{
			"from": prevCriteria.From.Format(queryDateLayout),
			"to":   prevCriteria.To.Format(queryDateLayout),
		}
		response["delta"] = map[string]float64{
			"plan_sum":      snapshot.PlanSum - previous.PlanSum,
			"realized_sum":  snapshot.RealizedSum - previous.RealizedSum,
			"forecast_sum":  snapshot.ForecastSum - previous.ForecastSum,
			"conversion_pp": snapshot.ConversionPct - previous.ConversionPct,
			"win_rate_pp":   snapshot.WinRatePct - previous.WinRatePct,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleGetRollup groups the filtered subset by the requested dimension.
func (s *Server) handleGetRollup(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	dim, err := analytics.ParseDimension(r.PathValue("dimension"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	criteria, err := parseCriteria(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	paramsHash := cache.ParamsHash(criteria)

	rows, hit := s.reports.GetRollup(ctx, id, dim, paramsHash)
	if !hit {
		deals, ok := s.loadDeals(w, id)
		if !ok {
			return
		}
		rows = analytics.Rollup(analytics.Filter(deals, criteria), dim)
		s.reports.SetRollup(ctx, id, dim, paramsHash, rows)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"dimension": dim,
		"rows":      rows,
		"count":     len(rows),
	})
}

// handleGetInsights evaluates the qualitative rule list over the filtered
// subset's KPIs and its manager/client rollups.
func (s *Server) handleGetInsights(w http.ResponseWriter, r *http.Request) {
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
	filtered := analytics.Filter(deals, criteria)

	snapshot := analytics.Aggregate(filtered)
	managers := analytics.Rollup(filtered, analytics.DimManager)
	clients := analytics.Rollup(filtered, analytics.DimClient)

	insights := analytics.EvaluateInsights(snapshot, managers, clients, s.cfg.Thresholds)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"insights": insights,
		"count":    len(insights),
	})
}
