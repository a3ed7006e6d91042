package analytics

import (
	"math"
	"testing"
)

func TestAggregateEmpty(t *testing.T) {
	s := Aggregate(nil)

	if s.PlanSum != 0 || s.RealizedSum != 0 || s.OpenPipelineSum != 0 ||
		s.WeightedPipelineSum != 0 || s.ForecastSum != 0 {
		t.Errorf("sums over empty set are not zero: %+v", s)
	}
	if s.TotalCount != 0 || s.WonCount != 0 || s.LostCount != 0 || s.OpenCount != 0 {
		t.Errorf("counts over empty set are not zero: %+v", s)
	}

	rates := []float64{
		s.PlanAttainmentPct, s.ForecastAttainmentPct,
		s.ConversionPct, s.WinRatePct, s.AvgRealizedPerWon,
	}
	for i, r := range rates {
		if r != 0 || math.IsNaN(r) {
			t.Errorf("rate %d over empty set = %v, want exactly 0", i, r)
		}
	}
}

func TestAggregateKPIs(t *testing.T) {
	// One won deal (realized 50000), one lost, plan sums to 100000.
	deals := Enrich([]Deal{
		{StageLabel: "Сделка", PlanAmount: 60000, FactAmount: 50000},
		{StageLabel: "Проигрыш", PlanAmount: 40000, FactAmount: 0},
	}, DefaultOpenProbability)

	s := Aggregate(deals)

	if s.PlanSum != 100000 {
		t.Errorf("plan sum = %v, want 100000", s.PlanSum)
	}
	if s.RealizedSum != 50000 {
		t.Errorf("realized sum = %v, want 50000", s.RealizedSum)
	}
	if s.PlanAttainmentPct != 50.0 {
		t.Errorf("plan attainment = %v, want 50.0", s.PlanAttainmentPct)
	}
	if s.WinRatePct != 100.0 {
		t.Errorf("win rate = %v, want 100.0", s.WinRatePct)
	}
	if s.ConversionPct != 50.0 {
		t.Errorf("conversion = %v, want 50.0", s.ConversionPct)
	}
	if s.AvgRealizedPerWon != 50000 {
		t.Errorf("avg realized per won = %v, want 50000", s.AvgRealizedPerWon)
	}
}

func TestAggregateForecastIncludesWeightedPipeline(t *testing.T) {
	deals := Enrich([]Deal{
		{StageLabel: "Сделка", PlanAmount: 0, FactAmount: 30000},
		{StageLabel: "Переговоры", PlanAmount: 100000, FactAmount: 0},
	}, DefaultOpenProbability)

	s := Aggregate(deals)

	if s.OpenPipelineSum != 100000 {
		t.Errorf("open pipeline = %v, want 100000", s.OpenPipelineSum)
	}
	if s.WeightedPipelineSum != 65000 {
		t.Errorf("weighted pipeline = %v, want 65000", s.WeightedPipelineSum)
	}
	if s.ForecastSum != 95000 {
		t.Errorf("forecast = %v, want 95000 (realized + weighted)", s.ForecastSum)
	}
}

func TestProjectRunRate(t *testing.T) {
	s := Snapshot{RealizedSum: 30000, PlanSum: 120000}

	rr := ProjectRunRate(s, date(2024, 1, 1), date(2024, 1, 10), 30)

	if rr.DaysElapsed != 10 {
		t.Errorf("days elapsed = %d, want 10", rr.DaysElapsed)
	}
	if rr.DailyAverage != 3000 {
		t.Errorf("daily average = %v, want 3000", rr.DailyAverage)
	}
	if rr.Projected != 90000 {
		t.Errorf("projected = %v, want 90000", rr.Projected)
	}
	if rr.ProjectedAttainmentPct != 75.0 {
		t.Errorf("projected attainment = %v, want 75.0", rr.ProjectedAttainmentPct)
	}
}

func TestProjectRunRateDegenerateInputs(t *testing.T) {
	s := Snapshot{RealizedSum: 1000, PlanSum: 0}

	// Inverted range.
	rr := ProjectRunRate(s, date(2024, 2, 1), date(2024, 1, 1), 30)
	if rr.Projected != 0 || rr.DailyAverage != 0 {
		t.Errorf("inverted range should project 0, got %+v", rr)
	}

	// Zero plan: attainment stays 0 rather than dividing by zero.
	rr = ProjectRunRate(s, date(2024, 1, 1), date(2024, 1, 10), 30)
	if rr.ProjectedAttainmentPct != 0 {
		t.Errorf("attainment with zero plan = %v, want 0", rr.ProjectedAttainmentPct)
	}
}
