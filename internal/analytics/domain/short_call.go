package domain

import "math"

// DefaultLossCapMultiple 裸卖看涨“无界亏损”的有界近似：
// 假设标的最多涨至执行价的该倍数。这是一个占位近似而非风险上界，
// 用于保持下游聚合有限，可按需调整。
const DefaultLossCapMultiple = 10.0

// ShortCallStrategy 裸卖看涨。上行风险无界，
// 最大亏损按 LossCapMultiple*K 的有界启发式表示。
type ShortCallStrategy struct {
	params          StrategyParams
	leg             OptionLeg
	lossCapMultiple float64
}

// NewShortCall 创建裸卖看涨策略
func NewShortCall(params StrategyParams, strike, premium float64) *ShortCallStrategy {
	leg := OptionLeg{
		Type:    OptionTypeCall,
		Side:    SideShort,
		Strike:  strike,
		Premium: premium,
		Quantity: 1,
	}
	leg.Greeks = legGreeks(params, leg)
	return &ShortCallStrategy{params: params, leg: leg, lossCapMultiple: DefaultLossCapMultiple}
}

// SetLossCapMultiple 调整亏损上界倍数（必须 > 1）
func (s *ShortCallStrategy) SetLossCapMultiple(m float64) {
	if m > 1 {
		s.lossCapMultiple = m
	}
}

func (s *ShortCallStrategy) Name() string           { return "short_call" }
func (s *ShortCallStrategy) Legs() []OptionLeg      { return []OptionLeg{s.leg} }
func (s *ShortCallStrategy) Params() StrategyParams { return s.params }

func (s *ShortCallStrategy) valid() bool {
	return s.params.Valid() && s.leg.Strike > 0 && s.leg.Premium > 0
}

// ExpectedReturn 期望收益 = 权利金 - E[(S_T - K)^+]
func (s *ShortCallStrategy) ExpectedReturn() (float64, bool) {
	if !s.valid() {
		return 0, false
	}
	payoff, ok := expectedCallPayoff(s.params.Spot, s.leg.Strike, s.params.Rate, s.params.Vol, s.params.Expiry)
	if !ok {
		return 0, false
	}
	return s.leg.Premium - payoff, true
}

// ReturnVariance 卖出看跌的镜像：上尾区域 pi = p + K - S_T:
//
//	E[pi^2] = p^2*N(-d2) + (p+K)^2*N(d2) - 2(p+K)*S*e^{rT}*N(d1) + S^2*e^{(2r+sigma^2)T}*N(d3)
func (s *ShortCallStrategy) ReturnVariance() (float64, bool) {
	expected, ok := s.ExpectedReturn()
	if !ok {
		return 0, false
	}
	tail, ok := upperTail(s.params.Spot, s.leg.Strike, s.params.Rate, s.params.Vol, s.params.Expiry)
	if !ok {
		return 0, false
	}

	p := s.leg.Premium
	k := s.leg.Strike
	secondMoment := p*p*(1-tail.prob) +
		(p+k)*(p+k)*tail.prob -
		2*(p+k)*tail.first +
		tail.second

	return clampVariance(secondMoment - expected*expected), true
}

// MaxProfit 最大收益即权利金
func (s *ShortCallStrategy) MaxProfit() (float64, bool) {
	if !s.valid() {
		return 0, false
	}
	return s.leg.Premium, true
}

// MaxLoss 有界启发式 LossCapMultiple*K - p，真实上行风险无界
func (s *ShortCallStrategy) MaxLoss() (float64, bool) {
	if !s.valid() {
		return 0, false
	}
	return s.lossCapMultiple*s.leg.Strike - s.leg.Premium, true
}

// Breakeven 盈亏平衡点 K + p
func (s *ShortCallStrategy) Breakeven() ([]float64, bool) {
	if !s.valid() {
		return nil, false
	}
	return []float64{s.leg.Strike + s.leg.Premium}, true
}

// WinProbability 卖方胜率 N(-d2) = P(S_T <= K)
func (s *ShortCallStrategy) WinProbability() (float64, bool) {
	if !s.valid() {
		return 0, false
	}
	return SellerWinProbability(s.pricingParams())
}

// MarginRequirement 裸卖看涨经纪商规则:
// premium + max(20%*S - 价外额, 10%*S)，价外额 = max(0, K-S)
func (s *ShortCallStrategy) MarginRequirement() (float64, bool) {
	if !s.valid() {
		return 0, false
	}
	otm := math.Max(0, s.leg.Strike-s.params.Spot)
	return s.leg.Premium + math.Max(0.20*s.params.Spot-otm, 0.10*s.params.Spot), true
}

func (s *ShortCallStrategy) pricingParams() PricingParams {
	return PricingParams{
		Spot:   s.params.Spot,
		Strike: s.leg.Strike,
		Rate:   s.params.Rate,
		Vol:    s.params.Vol,
		Expiry: s.params.Expiry,
		Type:   OptionTypeCall,
	}
}
