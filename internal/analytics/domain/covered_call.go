package domain

// CoveredCallStrategy 备兑开仓：持有正股（成本价默认现价）+ 卖出看涨。
// 完全备兑假设下保证金仅为权利金；部分备兑不在本组件范围内，
// 需由外部拆解为备兑 + 裸卖两部分。
type CoveredCallStrategy struct {
	params    StrategyParams
	leg       OptionLeg
	costBasis float64
}

// NewCoveredCall 创建备兑开仓策略，正股成本价默认取当前现价
func NewCoveredCall(params StrategyParams, strike, premium float64) *CoveredCallStrategy {
	leg := OptionLeg{
		Type:    OptionTypeCall,
		Side:    SideShort,
		Strike:  strike,
		Premium: premium,
		Quantity: 1,
	}
	leg.Greeks = legGreeks(params, leg)
	return &CoveredCallStrategy{params: params, leg: leg, costBasis: params.Spot}
}

// SetCostBasis 覆盖正股成本价（历史建仓成本与现价不同时）
func (s *CoveredCallStrategy) SetCostBasis(basis float64) {
	if basis > 0 {
		s.costBasis = basis
	}
}

func (s *CoveredCallStrategy) Name() string           { return "covered_call" }
func (s *CoveredCallStrategy) Legs() []OptionLeg      { return []OptionLeg{s.leg} }
func (s *CoveredCallStrategy) Params() StrategyParams { return s.params }

func (s *CoveredCallStrategy) valid() bool {
	return s.params.Valid() && s.leg.Strike > 0 && s.leg.Premium > 0 && s.costBasis > 0
}

// ExpectedReturn 期望收益 = 正股预期增值 + 被封顶的权利金收入:
//
//	E[pi] = (K-C+p)*N(d2) + (p-C)*N(-d2) + S*e^{rT}*N(-d1)
//
// C 为成本价。S_T >= K 区域收益固定为 K-C+p（被行权接走），
// S_T < K 区域收益为 S_T-C+p。
func (s *CoveredCallStrategy) ExpectedReturn() (float64, bool) {
	if !s.valid() {
		return 0, false
	}
	tail, ok := lowerTail(s.params.Spot, s.leg.Strike, s.params.Rate, s.params.Vol, s.params.Expiry)
	if !ok {
		return 0, false
	}
	p := s.leg.Premium
	capped := s.leg.Strike - s.costBasis + p
	return capped*(1-tail.prob) + (p-s.costBasis)*tail.prob + tail.first, true
}

// ReturnVariance 两区域闭式方差：被行权区收益固定，留股区为截断对数正态:
//
//	E[pi^2] = (K-C+p)^2*N(d2) + (p-C)^2*N(-d2) + 2(p-C)*S*e^{rT}*N(-d1) + S^2*e^{(2r+sigma^2)T}*N(-d3)
func (s *CoveredCallStrategy) ReturnVariance() (float64, bool) {
	expected, ok := s.ExpectedReturn()
	if !ok {
		return 0, false
	}
	tail, ok := lowerTail(s.params.Spot, s.leg.Strike, s.params.Rate, s.params.Vol, s.params.Expiry)
	if !ok {
		return 0, false
	}

	p := s.leg.Premium
	capped := s.leg.Strike - s.costBasis + p
	kept := p - s.costBasis
	secondMoment := capped*capped*(1-tail.prob) +
		kept*kept*tail.prob +
		2*kept*tail.first +
		tail.second

	return clampVariance(secondMoment - expected*expected), true
}

// MaxProfit (K - C) + p，被行权接走时实现
func (s *CoveredCallStrategy) MaxProfit() (float64, bool) {
	if !s.valid() {
		return 0, false
	}
	return (s.leg.Strike - s.costBasis) + s.leg.Premium, true
}

// MaxLoss 标的归零时亏损 C - p
func (s *CoveredCallStrategy) MaxLoss() (float64, bool) {
	if !s.valid() {
		return 0, false
	}
	return s.costBasis - s.leg.Premium, true
}

// Breakeven 盈亏平衡点 C - p
func (s *CoveredCallStrategy) Breakeven() ([]float64, bool) {
	if !s.valid() {
		return nil, false
	}
	return []float64{s.costBasis - s.leg.Premium}, true
}

// WinProbability 以盈亏平衡点为执行价计算 N(d2) = P(S_T >= C-p)
func (s *CoveredCallStrategy) WinProbability() (float64, bool) {
	if !s.valid() {
		return 0, false
	}
	breakeven := s.costBasis - s.leg.Premium
	if breakeven <= 0 {
		// 权利金已覆盖全部成本，必然不亏
		return 1, true
	}
	tail, ok := upperTail(s.params.Spot, breakeven, s.params.Rate, s.params.Vol, s.params.Expiry)
	if !ok {
		return 0, false
	}
	return tail.prob, true
}

// MarginRequirement 完全备兑假设下仅占用权利金
func (s *CoveredCallStrategy) MarginRequirement() (float64, bool) {
	if !s.valid() {
		return 0, false
	}
	return s.leg.Premium, true
}
