package domain

import "math"

// ShortStrangleStrategy 卖出宽跨式：卖出低执行价看跌 + 卖出高执行价看涨
// （put_strike < spot < call_strike）。两腿可各自覆盖波动率以表达偏斜。
type ShortStrangleStrategy struct {
	params  StrategyParams
	putLeg  OptionLeg
	callLeg OptionLeg
}

// NewShortStrangle 创建卖出宽跨式策略
func NewShortStrangle(params StrategyParams, putStrike, putPremium, callStrike, callPremium float64) *ShortStrangleStrategy {
	putLeg := OptionLeg{
		Type:    OptionTypePut,
		Side:    SideShort,
		Strike:  putStrike,
		Premium: putPremium,
		Quantity: 1,
	}
	callLeg := OptionLeg{
		Type:    OptionTypeCall,
		Side:    SideShort,
		Strike:  callStrike,
		Premium: callPremium,
		Quantity: 1,
	}
	putLeg.Greeks = legGreeks(params, putLeg)
	callLeg.Greeks = legGreeks(params, callLeg)
	return &ShortStrangleStrategy{params: params, putLeg: putLeg, callLeg: callLeg}
}

// SetVolSkew 为两腿分别指定波动率并重算腿级希腊字母
func (s *ShortStrangleStrategy) SetVolSkew(putVol, callVol float64) {
	if putVol > 0 {
		s.putLeg.Vol = Float(putVol)
	}
	if callVol > 0 {
		s.callLeg.Vol = Float(callVol)
	}
	s.putLeg.Greeks = legGreeks(s.params, s.putLeg)
	s.callLeg.Greeks = legGreeks(s.params, s.callLeg)
}

func (s *ShortStrangleStrategy) Name() string           { return "short_strangle" }
func (s *ShortStrangleStrategy) Legs() []OptionLeg      { return []OptionLeg{s.putLeg, s.callLeg} }
func (s *ShortStrangleStrategy) Params() StrategyParams { return s.params }

func (s *ShortStrangleStrategy) valid() bool {
	return s.params.Valid() &&
		s.putLeg.Strike > 0 && s.putLeg.Premium > 0 &&
		s.callLeg.Strike > 0 && s.callLeg.Premium > 0 &&
		s.putLeg.Strike < s.callLeg.Strike
}

func (s *ShortStrangleStrategy) putVol() float64 {
	if s.putLeg.Vol != nil {
		return *s.putLeg.Vol
	}
	return s.params.Vol
}

func (s *ShortStrangleStrategy) callVol() float64 {
	if s.callLeg.Vol != nil {
		return *s.callLeg.Vol
	}
	return s.params.Vol
}

func (s *ShortStrangleStrategy) totalPremium() float64 {
	return s.putLeg.Premium + s.callLeg.Premium
}

// ExpectedReturn 两腿各自独立期望收益之和，每腿用自身波动率
func (s *ShortStrangleStrategy) ExpectedReturn() (float64, bool) {
	if !s.valid() {
		return 0, false
	}
	putPayoff, ok := expectedPutPayoff(s.params.Spot, s.putLeg.Strike, s.params.Rate, s.putVol(), s.params.Expiry)
	if !ok {
		return 0, false
	}
	callPayoff, ok := expectedCallPayoff(s.params.Spot, s.callLeg.Strike, s.params.Rate, s.callVol(), s.params.Expiry)
	if !ok {
		return 0, false
	}
	return s.totalPremium() - putPayoff - callPayoff, true
}

// ReturnVariance 三区域分解。总收益 pi = P - (Kp - S_T)^+ - (S_T - Kc)^+，
// P 为总权利金：
//
//	S_T < Kp:       pi = P - Kp + S_T   （下尾用看跌腿波动率的截断二阶矩）
//	Kp <= S_T <= Kc: pi = P             （中间区域概率取两尾补集，偏斜下截断为非负）
//	S_T > Kc:       pi = P - S_T + Kc   （上尾用看涨腿波动率的截断二阶矩）
func (s *ShortStrangleStrategy) ReturnVariance() (float64, bool) {
	expected, ok := s.ExpectedReturn()
	if !ok {
		return 0, false
	}
	lower, ok := lowerTail(s.params.Spot, s.putLeg.Strike, s.params.Rate, s.putVol(), s.params.Expiry)
	if !ok {
		return 0, false
	}
	upper, ok := upperTail(s.params.Spot, s.callLeg.Strike, s.params.Rate, s.callVol(), s.params.Expiry)
	if !ok {
		return 0, false
	}

	total := s.totalPremium()
	kp := s.putLeg.Strike
	kc := s.callLeg.Strike

	below := (total-kp)*(total-kp)*lower.prob +
		2*(total-kp)*lower.first +
		lower.second
	above := (total+kc)*(total+kc)*upper.prob -
		2*(total+kc)*upper.first +
		upper.second
	middleProb := math.Max(0, 1-lower.prob-upper.prob)
	middle := total * total * middleProb

	secondMoment := below + middle + above
	return clampVariance(secondMoment - expected*expected), true
}

// MaxProfit 两腿权利金之和
func (s *ShortStrangleStrategy) MaxProfit() (float64, bool) {
	if !s.valid() {
		return 0, false
	}
	return s.totalPremium(), true
}

// MaxLoss 仅建模下行: put_strike - 总权利金。上行亏损无界，不单独建模。
func (s *ShortStrangleStrategy) MaxLoss() (float64, bool) {
	if !s.valid() {
		return 0, false
	}
	return s.putLeg.Strike - s.totalPremium(), true
}

// Breakeven 双平衡点: [put_strike - 总权利金, call_strike + 总权利金]
func (s *ShortStrangleStrategy) Breakeven() ([]float64, bool) {
	if !s.valid() {
		return nil, false
	}
	total := s.totalPremium()
	return []float64{s.putLeg.Strike - total, s.callLeg.Strike + total}, true
}

// WinProbability 以两个盈亏平衡点计 N(d2_lower) - N(d2_upper)，
// 下沿用看跌腿波动率，上沿用看涨腿波动率
func (s *ShortStrangleStrategy) WinProbability() (float64, bool) {
	if !s.valid() {
		return 0, false
	}
	total := s.totalPremium()
	lowerBE := s.putLeg.Strike - total
	upperBE := s.callLeg.Strike + total

	aboveLower := 1.0
	if lowerBE > 0 {
		tail, ok := upperTail(s.params.Spot, lowerBE, s.params.Rate, s.putVol(), s.params.Expiry)
		if !ok {
			return 0, false
		}
		aboveLower = tail.prob
	}
	tail, ok := upperTail(s.params.Spot, upperBE, s.params.Rate, s.callVol(), s.params.Expiry)
	if !ok {
		return 0, false
	}
	return aboveLower - tail.prob, true
}

// MarginRequirement 宽跨式规则：两腿裸卖保证金取大者，加另一腿权利金
func (s *ShortStrangleStrategy) MarginRequirement() (float64, bool) {
	if !s.valid() {
		return 0, false
	}
	spot := s.params.Spot
	putMargin := s.putLeg.Premium + math.Max(0.20*spot-math.Max(0, spot-s.putLeg.Strike), 0.10*s.putLeg.Strike)
	callMargin := s.callLeg.Premium + math.Max(0.20*spot-math.Max(0, s.callLeg.Strike-spot), 0.10*spot)

	if putMargin >= callMargin {
		return putMargin + s.callLeg.Premium, true
	}
	return callMargin + s.putLeg.Premium, true
}
