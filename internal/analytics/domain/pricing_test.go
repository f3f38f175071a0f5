package domain

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestTheoreticalPriceATM(t *testing.T) {
	p := PricingParams{Spot: 100, Strike: 100, Rate: 0.05, Vol: 0.20, Expiry: 1.0, Type: OptionTypeCall}

	d1, ok := p.D1()
	if !ok {
		t.Fatal("d1 should be defined for valid params")
	}
	if !almostEqual(d1, 0.35, 1e-9) {
		t.Errorf("d1 = %v, want 0.35", d1)
	}

	d2, _ := p.D2()
	if !almostEqual(d2, 0.15, 1e-9) {
		t.Errorf("d2 = %v, want 0.15", d2)
	}

	call, ok := p.TheoreticalPrice()
	if !ok {
		t.Fatal("call price should be defined")
	}
	if call <= 10 || call >= 11 {
		t.Errorf("ATM call price = %v, want in (10, 11)", call)
	}
}

func TestPutCallParity(t *testing.T) {
	cases := []struct {
		spot, strike, rate, vol, expiry float64
	}{
		{100, 100, 0.05, 0.20, 1.0},
		{580, 550, 0.035, 0.20, 30.0 / 365},
		{50, 120, 0.01, 0.60, 2.0},
		{100, 95, 0.035, 0.25, 30.0 / 365},
	}

	for _, c := range cases {
		base := PricingParams{Spot: c.spot, Strike: c.strike, Rate: c.rate, Vol: c.vol, Expiry: c.expiry}
		call, ok1 := base.WithType(OptionTypeCall).TheoreticalPrice()
		put, ok2 := base.WithType(OptionTypePut).TheoreticalPrice()
		if !ok1 || !ok2 {
			t.Fatalf("prices undefined for %+v", c)
		}

		want := c.spot - c.strike*math.Exp(-c.rate*c.expiry)
		if !almostEqual(call-put, want, 1e-6) {
			t.Errorf("parity violated for %+v: C-P = %v, want %v", c, call-put, want)
		}
	}
}

func TestInvalidParamsReturnUndefined(t *testing.T) {
	cases := []PricingParams{
		{Spot: 0, Strike: 100, Vol: 0.2, Expiry: 1, Type: OptionTypeCall},
		{Spot: 100, Strike: -1, Vol: 0.2, Expiry: 1, Type: OptionTypeCall},
		{Spot: 100, Strike: 100, Vol: 0, Expiry: 1, Type: OptionTypePut},
		{Spot: 100, Strike: 100, Vol: 0.2, Expiry: 0, Type: OptionTypePut},
	}

	for _, p := range cases {
		if p.Valid() {
			t.Errorf("params %+v should be invalid", p)
		}
		if _, ok := p.TheoreticalPrice(); ok {
			t.Errorf("price should be undefined for %+v", p)
		}
		if _, ok := p.D1(); ok {
			t.Errorf("d1 should be undefined for %+v", p)
		}
		if _, ok := ExerciseProbability(p); ok {
			t.Errorf("exercise probability should be undefined for %+v", p)
		}
	}
}

func TestPricingParamsImmutable(t *testing.T) {
	p := PricingParams{Spot: 100, Strike: 100, Rate: 0.05, Vol: 0.20, Expiry: 1.0, Type: OptionTypeCall}

	q := p.WithSpot(120).WithVol(0.3).WithType(OptionTypePut)
	if p.Spot != 100 || p.Vol != 0.20 || p.Type != OptionTypeCall {
		t.Errorf("original params mutated: %+v", p)
	}
	if q.Spot != 120 || q.Vol != 0.3 || q.Type != OptionTypePut {
		t.Errorf("derived params wrong: %+v", q)
	}
}

func TestMoneyness(t *testing.T) {
	p := PricingParams{Spot: 110, Strike: 100, Vol: 0.2, Expiry: 1, Type: OptionTypeCall}

	m, ok := p.Moneyness()
	if !ok || !almostEqual(m, 1.1, 1e-12) {
		t.Errorf("moneyness = %v (%v), want 1.1", m, ok)
	}

	itm, ok := p.InTheMoney()
	if !ok || !itm {
		t.Error("call with S>K should be ITM")
	}

	itm, ok = p.WithType(OptionTypePut).InTheMoney()
	if !ok || itm {
		t.Error("put with S>K should be OTM")
	}
}

func TestD3Relation(t *testing.T) {
	p := PricingParams{Spot: 100, Strike: 95, Rate: 0.035, Vol: 0.25, Expiry: 0.5, Type: OptionTypePut}

	d2, _ := p.D2()
	d3, ok := p.D3()
	if !ok {
		t.Fatal("d3 should be defined")
	}
	want := d2 + 2*p.Vol*math.Sqrt(p.Expiry)
	if !almostEqual(d3, want, 1e-12) {
		t.Errorf("d3 = %v, want %v", d3, want)
	}
}

func TestPricingIdempotent(t *testing.T) {
	p := PricingParams{Spot: 580, Strike: 550, Rate: 0.035, Vol: 0.20, Expiry: 30.0 / 365, Type: OptionTypePut}

	first, _ := p.TheoreticalPrice()
	second, _ := p.TheoreticalPrice()
	if first != second {
		t.Errorf("price drifted between identical calls: %v vs %v", first, second)
	}
}

func TestImpliedVolatilityRoundTrip(t *testing.T) {
	p := PricingParams{Spot: 100, Strike: 105, Rate: 0.035, Vol: 0.33, Expiry: 0.25, Type: OptionTypeCall}

	price, ok := p.TheoreticalPrice()
	if !ok {
		t.Fatal("price should be defined")
	}

	iv, err := ImpliedVolatility(p.WithVol(0), price)
	if err != nil {
		t.Fatalf("implied vol failed: %v", err)
	}
	if !almostEqual(iv, 0.33, 1e-4) {
		t.Errorf("implied vol = %v, want 0.33", iv)
	}
}

func TestImpliedVolatilityInvalidInputs(t *testing.T) {
	p := PricingParams{Spot: 100, Strike: 100, Rate: 0.035, Expiry: 0.25, Type: OptionTypeCall}

	if _, err := ImpliedVolatility(p.WithExpiry(0), 5); err == nil {
		t.Error("expected error for zero expiry")
	}
	if _, err := ImpliedVolatility(p, -1); err == nil {
		t.Error("expected error for negative market price")
	}
}
