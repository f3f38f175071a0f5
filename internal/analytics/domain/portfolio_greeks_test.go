package domain

import "testing"

func samplePositions() []Position {
	return []Position{
		{
			Symbol:          "AAPL",
			Quantity:        2,
			Greeks:          Greeks{Delta: Float(0.6), Gamma: Float(0.03), Theta: Float(-0.12), Vega: Float(0.25)},
			Beta:            Float(1.2),
			UnderlyingPrice: 100,
			Multiplier:      100,
		},
		{
			Symbol:          "XYZ",
			Quantity:        -1,
			Greeks:          Greeks{Delta: Float(-0.4), Gamma: Float(0.02), Theta: Float(-0.08), Vega: Float(0.10)},
			Beta:            Float(0.8),
			UnderlyingPrice: 50,
			// Multiplier 缺省取 100
		},
	}
}

func TestAggregateGreeksTotals(t *testing.T) {
	summary := AggregateGreeks(samplePositions(), nil)

	if !almostEqual(summary.TotalDelta, 0.6*2*100+(-0.4)*(-1)*100, 1e-9) {
		t.Errorf("total delta = %v", summary.TotalDelta)
	}
	if !almostEqual(summary.TotalGamma, 0.03*200+0.02*(-100), 1e-9) {
		t.Errorf("total gamma = %v", summary.TotalGamma)
	}
	if !almostEqual(summary.TotalTheta, -0.12*200+(-0.08)*(-100), 1e-9) {
		t.Errorf("total theta = %v", summary.TotalTheta)
	}
	if !almostEqual(summary.TotalVega, 0.25*200+0.10*(-100), 1e-9) {
		t.Errorf("total vega = %v", summary.TotalVega)
	}

	dollars, _ := summary.DeltaDollars.Float64()
	if !almostEqual(dollars, 0.6*100*200+(-0.4)*50*(-100), 1e-6) {
		t.Errorf("delta dollars = %v, want 14000", dollars)
	}

	if summary.BetaWeightedDelta != nil {
		t.Error("beta-weighted delta requires a benchmark price")
	}
}

func TestAggregateGreeksBetaWeighted(t *testing.T) {
	benchmark := 400.0
	summary := AggregateGreeks(samplePositions(), &benchmark)

	if summary.BetaWeightedDelta == nil {
		t.Fatal("beta-weighted delta should be defined")
	}
	got, _ := summary.BetaWeightedDelta.Float64()
	// (0.6*200*100*1.2 + (-0.4)*(-100)*50*0.8) / 400 = 40
	if !almostEqual(got, 40, 1e-6) {
		t.Errorf("beta-weighted delta = %v, want 40", got)
	}
}

func TestAggregateGreeksMissingBeta(t *testing.T) {
	positions := samplePositions()
	positions[1].Beta = nil
	benchmark := 400.0

	summary := AggregateGreeks(positions, &benchmark)
	if summary.BetaWeightedDelta != nil {
		t.Error("beta-weighted delta should be undefined when any beta is missing")
	}
}

func TestAggregateGreeksMissingGreeksContributeNothing(t *testing.T) {
	positions := []Position{
		{Symbol: "A", Quantity: 1, Greeks: Greeks{Delta: Float(0.5)}, UnderlyingPrice: 10},
		{Symbol: "B", Quantity: 1, Greeks: Greeks{}, UnderlyingPrice: 10},
	}

	summary := AggregateGreeks(positions, nil)
	if !almostEqual(summary.TotalDelta, 0.5*100, 1e-9) {
		t.Errorf("total delta = %v, want 50", summary.TotalDelta)
	}
	if summary.TotalGamma != 0 || summary.TotalTheta != 0 || summary.TotalVega != 0 {
		t.Error("absent greeks must not contribute to totals")
	}
}
