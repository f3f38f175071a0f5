package domain

import "math"

// ShortPutStrategy 卖出看跌（现金担保卖权）。单腿，收取权利金，
// 承担 S_T 跌破执行价后的接货义务。
type ShortPutStrategy struct {
	params StrategyParams
	leg    OptionLeg
}

// NewShortPut 创建卖出看跌策略，并用本引擎补全腿级希腊字母
func NewShortPut(params StrategyParams, strike, premium float64) *ShortPutStrategy {
	leg := OptionLeg{
		Type:    OptionTypePut,
		Side:    SideShort,
		Strike:  strike,
		Premium: premium,
		Quantity: 1,
	}
	leg.Greeks = legGreeks(params, leg)
	return &ShortPutStrategy{params: params, leg: leg}
}

func (s *ShortPutStrategy) Name() string           { return "short_put" }
func (s *ShortPutStrategy) Legs() []OptionLeg      { return []OptionLeg{s.leg} }
func (s *ShortPutStrategy) Params() StrategyParams { return s.params }

func (s *ShortPutStrategy) valid() bool {
	return s.params.Valid() && s.leg.Strike > 0 && s.leg.Premium > 0
}

// ExpectedReturn 期望收益 = 权利金 - E[(K - S_T)^+]
func (s *ShortPutStrategy) ExpectedReturn() (float64, bool) {
	if !s.valid() {
		return 0, false
	}
	payoff, ok := expectedPutPayoff(s.params.Spot, s.leg.Strike, s.params.Rate, s.params.Vol, s.params.Expiry)
	if !ok {
		return 0, false
	}
	return s.leg.Premium - payoff, true
}

// ReturnVariance 闭式方差。收益按执行价 K 分两个区域：
// S_T >= K 时 pi = p（概率 N(d2)）；S_T < K 时 pi = p - K + S_T，
// 二阶矩用下尾截断对数正态的部分矩展开：
//
//	E[pi^2] = p^2*N(d2) + (p-K)^2*N(-d2) + 2(p-K)*S*e^{rT}*N(-d1) + S^2*e^{(2r+sigma^2)T}*N(-d3)
func (s *ShortPutStrategy) ReturnVariance() (float64, bool) {
	if !s.valid() {
		return 0, false
	}
	tail, ok := lowerTail(s.params.Spot, s.leg.Strike, s.params.Rate, s.params.Vol, s.params.Expiry)
	if !ok {
		return 0, false
	}

	p := s.leg.Premium
	k := s.leg.Strike
	secondMoment := p*p*(1-tail.prob) +
		(p-k)*(p-k)*tail.prob +
		2*(p-k)*tail.first +
		tail.second

	expected := p - (k*tail.prob - tail.first)
	return clampVariance(secondMoment - expected*expected), true
}

// MaxProfit 最大收益即权利金
func (s *ShortPutStrategy) MaxProfit() (float64, bool) {
	if !s.valid() {
		return 0, false
	}
	return s.leg.Premium, true
}

// MaxLoss 标的归零时亏损 K - p
func (s *ShortPutStrategy) MaxLoss() (float64, bool) {
	if !s.valid() {
		return 0, false
	}
	return s.leg.Strike - s.leg.Premium, true
}

// Breakeven 盈亏平衡点 K - p
func (s *ShortPutStrategy) Breakeven() ([]float64, bool) {
	if !s.valid() {
		return nil, false
	}
	return []float64{s.leg.Strike - s.leg.Premium}, true
}

// WinProbability 卖方胜率 N(d2) = P(S_T >= K)
func (s *ShortPutStrategy) WinProbability() (float64, bool) {
	if !s.valid() {
		return 0, false
	}
	return SellerWinProbability(s.pricingParams())
}

// MarginRequirement 裸卖看跌经纪商规则:
// premium + max(20%*S - 价外额, 10%*K)，价外额 = max(0, S-K)
func (s *ShortPutStrategy) MarginRequirement() (float64, bool) {
	if !s.valid() {
		return 0, false
	}
	otm := math.Max(0, s.params.Spot-s.leg.Strike)
	return s.leg.Premium + math.Max(0.20*s.params.Spot-otm, 0.10*s.leg.Strike), true
}

func (s *ShortPutStrategy) pricingParams() PricingParams {
	return PricingParams{
		Spot:   s.params.Spot,
		Strike: s.leg.Strike,
		Rate:   s.params.Rate,
		Vol:    s.params.Vol,
		Expiry: s.params.Expiry,
		Type:   OptionTypePut,
	}
}
