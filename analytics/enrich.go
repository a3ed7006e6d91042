package analytics

// Enrich computes the derived fields of every deal and returns a new slice;
// the input is left untouched. Fields are derived in a fixed order because
// later ones depend on earlier ones: status, probability, potential value,
// realized value, open pipeline value, weighted forecast value.
//
// defaultOpenProb is the probability fallback for unrecognized open stages
// (see DefaultOpenProbability).
func Enrich(deals []Deal, defaultOpenProb float64) []Deal {
	out := make([]Deal, len(deals))
	for i, d := range deals {
		out[i] = EnrichDeal(d, defaultOpenProb)
	}
	return out
}

// EnrichDeal derives the computed fields of a single deal.
func EnrichDeal(d Deal, defaultOpenProb float64) Deal {
	d.Status = ClassifyStage(d.StageLabel)
	d.StageProbability = StageProbability(d.StageLabel, d.Status, defaultOpenProb)

	// Best available estimate of deal size regardless of outcome.
	switch {
	case d.PlanAmount > 0:
		d.PotentialValue = d.PlanAmount
	case d.FactAmount > 0:
		d.PotentialValue = d.FactAmount
	default:
		d.PotentialValue = 0
	}

	// Won deals with no recorded fact amount fall back to the potential
	// value, so every won deal with any known value contributes revenue.
	d.RealizedValue = 0
	if d.Status == StatusWon {
		if d.FactAmount > 0 {
			d.RealizedValue = d.FactAmount
		} else {
			d.RealizedValue = d.PotentialValue
		}
	}

	d.OpenPipelineValue = 0
	d.WeightedForecastValue = 0
	if d.Status == StatusOpen {
		d.OpenPipelineValue = d.PotentialValue
		d.WeightedForecastValue = d.PotentialValue * d.StageProbability
	}

	return d
}
