package analytics

import (
	"testing"
	"time"
)

func TestEnrichOpenDeal(t *testing.T) {
	d := EnrichDeal(Deal{
		Date:       time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		StageLabel: "Переговоры",
		PlanAmount: 100000,
		FactAmount: 0,
	}, DefaultOpenProbability)

	if d.Status != StatusOpen {
		t.Errorf("status = %s, want open", d.Status)
	}
	if d.StageProbability != 0.65 {
		t.Errorf("probability = %v, want 0.65", d.StageProbability)
	}
	if d.PotentialValue != 100000 {
		t.Errorf("potential = %v, want 100000", d.PotentialValue)
	}
	if d.OpenPipelineValue != 100000 {
		t.Errorf("open pipeline = %v, want 100000", d.OpenPipelineValue)
	}
	if d.WeightedForecastValue != 65000 {
		t.Errorf("weighted forecast = %v, want 65000", d.WeightedForecastValue)
	}
	if d.RealizedValue != 0 {
		t.Errorf("realized = %v, want 0", d.RealizedValue)
	}
}

func TestEnrichWonFallback(t *testing.T) {
	// A won deal with no fact amount realizes its potential value.
	d := EnrichDeal(Deal{
		StageLabel: "Сделка",
		PlanAmount: 50000,
		FactAmount: 0,
	}, DefaultOpenProbability)

	if d.Status != StatusWon {
		t.Errorf("status = %s, want won", d.Status)
	}
	if d.StageProbability != 1.0 {
		t.Errorf("probability = %v, want 1.0", d.StageProbability)
	}
	if d.RealizedValue != 50000 {
		t.Errorf("realized = %v, want 50000 (fallback)", d.RealizedValue)
	}
	if d.OpenPipelineValue != 0 {
		t.Errorf("open pipeline = %v, want 0", d.OpenPipelineValue)
	}
	if d.WeightedForecastValue != 0 {
		t.Errorf("weighted forecast = %v, want 0", d.WeightedForecastValue)
	}
}

func TestEnrichDerivedFieldInvariants(t *testing.T) {
	deals := []Deal{
		{StageLabel: "Сделка", PlanAmount: 1000, FactAmount: 900},
		{StageLabel: "Сделка", PlanAmount: 1000, FactAmount: 0},
		{StageLabel: "Переговоры", PlanAmount: 0, FactAmount: 700},
		{StageLabel: "Проигрыш", PlanAmount: 2000, FactAmount: 0},
		{StageLabel: "", PlanAmount: 0, FactAmount: 0},
	}

	for i, d := range Enrich(deals, DefaultOpenProbability) {
		if d.Status != StatusWon && d.Status != StatusOpen && d.Status != StatusLost {
			t.Errorf("deal %d: invalid status %q", i, d.Status)
		}
		if d.OpenPipelineValue > 0 && d.Status != StatusOpen {
			t.Errorf("deal %d: open pipeline %v on non-open deal", i, d.OpenPipelineValue)
		}
		if d.Status == StatusWon && d.PotentialValue > 0 && d.RealizedValue <= 0 {
			t.Errorf("deal %d: won deal with potential %v has no realized value", i, d.PotentialValue)
		}
		if d.StageProbability < 0 || d.StageProbability > 1 {
			t.Errorf("deal %d: probability %v out of [0,1]", i, d.StageProbability)
		}
	}
}

func TestEnrichDoesNotMutateInput(t *testing.T) {
	in := []Deal{{StageLabel: "Сделка", PlanAmount: 100}}
	Enrich(in, DefaultOpenProbability)

	if in[0].Status != "" || in[0].RealizedValue != 0 {
		t.Error("Enrich mutated its input slice")
	}
}

func TestEnrichUsesFactWhenPlanMissing(t *testing.T) {
	d := EnrichDeal(Deal{StageLabel: "Переговоры", PlanAmount: 0, FactAmount: 700}, DefaultOpenProbability)
	if d.PotentialValue != 700 {
		t.Errorf("potential = %v, want 700 (fact fallback)", d.PotentialValue)
	}
}
