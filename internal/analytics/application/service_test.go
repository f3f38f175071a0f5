package application

import (
	"context"
	"errors"
	"testing"

	"github.com/wyfcoding/optionanalytics/internal/analytics/domain"
)

func TestPriceOption(t *testing.T) {
	svc := NewAnalyticsService(16)

	result, err := svc.PriceOption(context.Background(), OptionQuery{
		OptionType: "call",
		Spot:       100,
		Strike:     100,
		Rate:       0.05,
		Vol:        0.20,
		Expiry:     1.0,
	})
	if err != nil {
		t.Fatalf("PriceOption: %v", err)
	}
	if result.TheoreticalPrice <= 10 || result.TheoreticalPrice >= 11 {
		t.Errorf("price = %v, want in (10, 11)", result.TheoreticalPrice)
	}
	if result.ExerciseProbability <= 0 || result.ExerciseProbability >= 1 {
		t.Errorf("exercise probability = %v, want in (0, 1)", result.ExerciseProbability)
	}
}

func TestPriceOptionInvalidType(t *testing.T) {
	svc := NewAnalyticsService(16)

	_, err := svc.PriceOption(context.Background(), OptionQuery{OptionType: "straddle", Spot: 100, Strike: 100, Vol: 0.2, Expiry: 1})
	if !errors.Is(err, ErrInvalidOptionType) {
		t.Errorf("expected ErrInvalidOptionType, got %v", err)
	}
}

func TestPriceOptionUndefined(t *testing.T) {
	svc := NewAnalyticsService(16)

	_, err := svc.PriceOption(context.Background(), OptionQuery{OptionType: "put", Spot: -1, Strike: 100, Vol: 0.2, Expiry: 1})
	if !errors.Is(err, ErrUndefinedResult) {
		t.Errorf("expected ErrUndefinedResult, got %v", err)
	}
}

func TestOptionGreeksConventionalUnits(t *testing.T) {
	svc := NewAnalyticsService(16)
	query := OptionQuery{OptionType: "CALL", Spot: 100, Strike: 100, Rate: 0.05, Vol: 0.20, Expiry: 1.0}

	result, err := svc.OptionGreeks(context.Background(), query)
	if err != nil {
		t.Fatalf("OptionGreeks: %v", err)
	}

	params := domain.PricingParams{Spot: 100, Strike: 100, Rate: 0.05, Vol: 0.20, Expiry: 1.0, Type: domain.OptionTypeCall}
	rawVega, _ := domain.Vega(params)
	if result.Vega != rawVega/100 {
		t.Errorf("DTO vega = %v, want per-percentage-point %v", result.Vega, rawVega/100)
	}
	rawTheta, _ := domain.Theta(params)
	if result.Theta != rawTheta/365 {
		t.Errorf("DTO theta = %v, want per-day %v", result.Theta, rawTheta/365)
	}
}

func TestAnalyzeStrategyShortPut(t *testing.T) {
	svc := NewAnalyticsService(16)
	dte := 30

	result, err := svc.AnalyzeStrategy(context.Background(), StrategyQuery{
		Strategy:     "short_put",
		Spot:         580,
		Vol:          0.20,
		DaysToExpiry: &dte, // expiry 由 dte/365 推导
		Strike:       550,
		Premium:      6.5,
	})
	if err != nil {
		t.Fatalf("AnalyzeStrategy: %v", err)
	}
	if result.MaxProfit != 6.5 || result.MaxLoss != 543.5 {
		t.Errorf("max profit/loss = %v/%v, want 6.5/543.5", result.MaxProfit, result.MaxLoss)
	}
	if result.WinProbability <= 0.5 || result.WinProbability >= 1 {
		t.Errorf("win probability = %v, want in (0.5, 1)", result.WinProbability)
	}
	if result.ROC == nil {
		t.Error("ROC should be defined when dte is set")
	}
}

func TestAnalyzeStrategyUnknown(t *testing.T) {
	svc := NewAnalyticsService(16)

	_, err := svc.AnalyzeStrategy(context.Background(), StrategyQuery{
		Strategy: "iron_condor",
		Spot:     100, Vol: 0.2, Expiry: 0.1,
	})
	if !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("expected ErrUnknownStrategy, got %v", err)
	}
}

func TestAnalyzeStrategyValidation(t *testing.T) {
	svc := NewAnalyticsService(16)

	_, err := svc.AnalyzeStrategy(context.Background(), StrategyQuery{
		Strategy: "short_put",
		Spot:     0, Vol: 0.2, Expiry: 0.1,
		Strike: 95, Premium: 1,
	})
	if !errors.Is(err, domain.ErrInvalidSpot) {
		t.Errorf("expected ErrInvalidSpot, got %v", err)
	}
}

func TestAggregatePortfolio(t *testing.T) {
	svc := NewAnalyticsService(16)
	benchmark := 400.0

	result, err := svc.AggregatePortfolio(context.Background(), []PositionInput{
		{Symbol: "AAPL", Quantity: 2, Delta: domain.Float(0.6), Beta: domain.Float(1.2), UnderlyingPrice: 100, Multiplier: 100},
		{Symbol: "XYZ", Quantity: -1, Delta: domain.Float(-0.4), Beta: domain.Float(0.8), UnderlyingPrice: 50},
	}, &benchmark)
	if err != nil {
		t.Fatalf("AggregatePortfolio: %v", err)
	}
	if result.TotalDelta != 0.6*200+(-0.4)*(-100) {
		t.Errorf("total delta = %v", result.TotalDelta)
	}
	if result.BetaWeightedDelta == nil {
		t.Error("beta-weighted delta should be defined")
	}

	if _, err := svc.AggregatePortfolio(context.Background(), nil, nil); err == nil {
		t.Error("empty portfolio should be rejected")
	}
}

func TestCacheStatsAndClear(t *testing.T) {
	svc := NewAnalyticsService(16)
	query := OptionQuery{OptionType: "PUT", Spot: 100, Strike: 95, Rate: 0.035, Vol: 0.25, Expiry: 0.25}

	if _, err := svc.OptionGreeks(context.Background(), query); err != nil {
		t.Fatalf("OptionGreeks: %v", err)
	}
	if _, err := svc.OptionGreeks(context.Background(), query); err != nil {
		t.Fatalf("OptionGreeks: %v", err)
	}

	hits, misses, entries := svc.CacheStats()
	if hits != 1 || misses != 1 || entries != 1 {
		t.Errorf("cache stats = %d/%d/%d, want 1/1/1", hits, misses, entries)
	}

	svc.ClearCache()
	hits, misses, entries = svc.CacheStats()
	if hits != 0 || misses != 0 || entries != 0 {
		t.Errorf("cache stats after clear = %d/%d/%d, want 0/0/0", hits, misses, entries)
	}
}
