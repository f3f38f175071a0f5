package domain

import "math"

// DefaultContractMultiplier 每张合约对应股数
const DefaultContractMultiplier = 100

// Position 风险指标输入与组合聚合单元。
// 也作为 ComputeMetrics 内部临时构造的轻量载体复用 PREI/TGR 公式。
type Position struct {
	Symbol          string
	Quantity        float64
	Greeks          Greeks
	Beta            *float64
	MarketValue     float64
	UnderlyingPrice float64
	Multiplier      float64 // 每张合约股数，0 视为 100
	Margin          *float64
	DTE             *int
}

// multiplier 合约乘数，默认 100
func (p Position) multiplier() float64 {
	if p.Multiplier <= 0 {
		return DefaultContractMultiplier
	}
	return p.Multiplier
}

// PREI 组合权重，默认 gamma 0.4 / vega 0.3 / dte 0.3
const (
	preiGammaWeight = 0.4
	preiVegaWeight  = 0.3
	preiDTEWeight   = 0.3
)

// PREI 头寸风险暴露指数 (0-100)。
// 三个分量各自做有界归一化后加权：
//
//	gamma_risk = |gamma| / (|gamma| + 1.0)
//	vega_risk  = |vega|  / (|vega| + 100.0)
//	dte_risk   = sqrt(1 / max(1, dte))
//
// gamma/vega/dte 任一缺失时不可计算。
func PREI(pos Position) (float64, bool) {
	if pos.Greeks.Gamma == nil || pos.Greeks.Vega == nil || pos.DTE == nil {
		return 0, false
	}

	gamma := math.Abs(*pos.Greeks.Gamma)
	vega := math.Abs(*pos.Greeks.Vega)
	dte := *pos.DTE
	if dte < 1 {
		dte = 1
	}

	gammaRisk := gamma / (gamma + 1.0)
	vegaRisk := vega / (vega + 100.0)
	dteRisk := math.Sqrt(1 / float64(dte))

	score := (preiGammaWeight*gammaRisk + preiVegaWeight*vegaRisk + preiDTEWeight*dteRisk) * 100
	return score, true
}

// TGR Theta/Gamma 比率 = |theta| / |gamma|，单位凸性风险换得的时间价值收入。
// gamma 为零时不可计算。
func TGR(theta, gamma float64) (float64, bool) {
	if gamma == 0 {
		return 0, false
	}
	return math.Abs(theta) / math.Abs(gamma), true
}

// PositionTGR 从头寸希腊字母计算 TGR，theta/gamma 任一缺失时不可计算
func PositionTGR(pos Position) (float64, bool) {
	if pos.Greeks.Theta == nil || pos.Greeks.Gamma == nil {
		return 0, false
	}
	return TGR(*pos.Greeks.Theta, *pos.Greeks.Gamma)
}

// SAS 组合权重与上限
const (
	sasIVHVWeight   = 0.35
	sasSharpeWeight = 0.35
	sasWinWeight    = 0.30
	sasIVHVCap      = 2.0
	sasSharpeCap    = 3.0
)

// SAS 策略吸引力评分 (0-100)：IV/HV 比值（上限 2.0 倍）、
// Sharpe（限制在 [0, 3.0]）、胜率三项的加权组合。
// 历史波动率非正或胜率超出 [0,1] 时不可计算。
func SAS(impliedVol, historicalVol, sharpe, winProbability float64) (float64, bool) {
	if historicalVol <= 0 {
		return 0, false
	}
	if winProbability < 0 || winProbability > 1 {
		return 0, false
	}

	ivhvScore := math.Min(impliedVol/historicalVol, sasIVHVCap) / sasIVHVCap * 100
	sharpeScore := math.Min(math.Max(sharpe, 0), sasSharpeCap) / sasSharpeCap * 100
	winScore := winProbability * 100

	return sasIVHVWeight*ivhvScore + sasSharpeWeight*sharpeScore + sasWinWeight*winScore, true
}
