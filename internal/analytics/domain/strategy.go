// 变更说明：以接口 + 独立变体替代早期的策略基类继承，
// 派生指标（Sharpe/Kelly/PREI/SAS/TGR/ROC）只针对接口实现一次。
package domain

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidSpot       = errors.New("spot price must be positive")
	ErrInvalidStrike     = errors.New("strike price must be positive")
	ErrInvalidVolatility = errors.New("volatility must be positive")
	ErrInvalidExpiry     = errors.New("time to expiry must be positive")
	ErrInvalidPremium    = errors.New("premium must be positive")
	ErrStrategyUndefined = errors.New("strategy metrics undefined for given parameters")
)

// OptionSide 持仓方向
type OptionSide string

const (
	SideLong  OptionSide = "LONG"
	SideShort OptionSide = "SHORT"
)

// OptionLeg 策略腿。策略独占其腿，不与其他实体共享。
type OptionLeg struct {
	Type     OptionType
	Side     OptionSide
	Strike   float64
	Premium  float64  // 每股权利金
	Quantity int      // 合约数，0 视为 1
	Vol      *float64 // 腿级波动率覆盖（支持两腿间的偏斜）
	Greeks   *Greeks  // 每股希腊字母，theta 按天、vega 按 1 个百分点
}

// contracts 合约数，默认 1
func (l OptionLeg) contracts() float64 {
	if l.Quantity <= 0 {
		return 1
	}
	return float64(l.Quantity)
}

// sign 多头 +1，空头 -1
func (l OptionLeg) sign() float64 {
	if l.Side == SideShort {
		return -1
	}
	return 1
}

// StrategyParams 策略级输入。已解析的市场输入由调用方提供。
type StrategyParams struct {
	Spot          float64
	Vol           float64  // 默认波动率（腿未覆盖时使用）
	Expiry        float64  // 到期时间 (年)
	Rate          float64  // 无风险利率
	HistoricalVol *float64 // 历史波动率，SAS 需要
	DaysToExpiry  *int     // 剩余天数，PREI/ROC 需要
}

// NewStrategyParams 创建策略参数，利率取默认值
func NewStrategyParams(spot, vol, expiry float64) StrategyParams {
	return StrategyParams{Spot: spot, Vol: vol, Expiry: expiry, Rate: DefaultRiskFreeRate}
}

// Valid 有效性不变量: spot>0 且 vol>0 且 expiry>0
func (p StrategyParams) Valid() bool {
	return p.Spot > 0 && p.Vol > 0 && p.Expiry > 0
}

// Validate 显式校验，返回指明被违反不变量的错误。
// 与静默传播 undefined 相对，供需要 fail-fast 的调用方在构造期使用。
func (p StrategyParams) Validate() error {
	if p.Spot <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidSpot, p.Spot)
	}
	if p.Vol <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidVolatility, p.Vol)
	}
	if p.Expiry <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidExpiry, p.Expiry)
	}
	return nil
}

// Strategy 策略契约。每个变体提供这组原语，派生指标由 ComputeMetrics 统一推导。
type Strategy interface {
	Name() string
	Legs() []OptionLeg
	Params() StrategyParams

	ExpectedReturn() (float64, bool)
	ReturnVariance() (float64, bool)
	MaxProfit() (float64, bool)
	MaxLoss() (float64, bool)
	Breakeven() ([]float64, bool)
	WinProbability() (float64, bool)
	MarginRequirement() (float64, bool)
}

// StrategyMetrics 策略指标结果，每次请求重新计算，参数变化间不缓存。
// 可选指标缺少必需输入时为 nil（“不可计算”），调用方不得当作零处理。
type StrategyMetrics struct {
	Strategy       string
	ExpectedReturn float64
	ReturnStd      float64
	ReturnVariance float64
	MaxProfit      float64
	MaxLoss        float64
	Breakeven      []float64
	WinProbability float64

	SharpeRatio           *float64
	SharpeRatioAnnualized *float64
	KellyFraction         float64
	PREI                  *float64
	SAS                   *float64
	TGR                   *float64
	ROC                   *float64
	ExpectedROC           *float64
}

// ComputeMetrics 从策略原语推导完整指标集。
// 原语本身不可计算（参数无效）时返回 ErrStrategyUndefined。
func ComputeMetrics(s Strategy) (*StrategyMetrics, error) {
	params := s.Params()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	expected, ok1 := s.ExpectedReturn()
	variance, ok2 := s.ReturnVariance()
	maxProfit, ok3 := s.MaxProfit()
	maxLoss, ok4 := s.MaxLoss()
	breakeven, ok5 := s.Breakeven()
	winProb, ok6 := s.WinProbability()
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
		return nil, fmt.Errorf("%w: %s", ErrStrategyUndefined, s.Name())
	}

	variance = clampVariance(variance)
	m := &StrategyMetrics{
		Strategy:       s.Name(),
		ExpectedReturn: expected,
		ReturnVariance: variance,
		ReturnStd:      math.Sqrt(variance),
		MaxProfit:      maxProfit,
		MaxLoss:        maxLoss,
		Breakeven:      breakeven,
		WinProbability: winProb,
	}

	// 保证金，失败时退化为风险资本估计（最大亏损）
	margin, ok := s.MarginRequirement()
	if !ok || margin <= 0 {
		margin = maxLoss
	}

	// Sharpe: 超出保证金无风险收益的部分 / 收益波动；收益波动为零时不可计算
	if m.ReturnStd > 0 {
		riskFree := margin * (math.Exp(params.Rate*params.Expiry) - 1)
		sharpe := (expected - riskFree) / m.ReturnStd
		m.SharpeRatio = Float(sharpe)
		m.SharpeRatioAnnualized = Float(sharpe / math.Sqrt(params.Expiry))
	}

	// Kelly: 仅在期望与方差同时为正时非零
	if expected > 0 && variance > 0 {
		m.KellyFraction = math.Max(0, expected/variance)
	}

	legs := s.Legs()
	gamma, vega, theta := aggregateLegGreeks(legs)

	// PREI: 需要全部腿的 gamma/vega 与剩余天数
	if gamma != nil && vega != nil && params.DaysToExpiry != nil {
		carrier := Position{
			Greeks: Greeks{Gamma: gamma, Vega: vega},
			DTE:    params.DaysToExpiry,
		}
		if prei, ok := PREI(carrier); ok {
			m.PREI = Float(prei)
		}
	}

	// TGR: 需要全部腿的 theta/gamma
	if theta != nil && gamma != nil {
		if tgr, ok := TGR(*theta, *gamma); ok {
			m.TGR = Float(tgr)
		}
	}

	// SAS: 需要历史波动率与可用的 Sharpe
	if params.HistoricalVol != nil && m.SharpeRatio != nil {
		if sas, ok := SAS(params.Vol, *params.HistoricalVol, *m.SharpeRatio, winProb); ok {
			m.SAS = Float(sas)
		}
	}

	// ROC: 以首腿权利金为已实现收入，按 365/dte 年化
	if params.DaysToExpiry != nil && *params.DaysToExpiry > 0 && margin > 0 && len(legs) > 0 {
		annualize := 365 / float64(*params.DaysToExpiry)
		m.ROC = Float(legs[0].Premium / margin * annualize)
		m.ExpectedROC = Float(expected / margin * annualize)
	}

	return m, nil
}

// aggregateLegGreeks 按方向符号加总各腿的 gamma/vega/theta。
// 任一腿缺少某项时，该项整体不可用。
func aggregateLegGreeks(legs []OptionLeg) (gamma, vega, theta *float64) {
	if len(legs) == 0 {
		return nil, nil, nil
	}

	var g, v, t float64
	haveGamma, haveVega, haveTheta := true, true, true
	for _, leg := range legs {
		if leg.Greeks == nil {
			return nil, nil, nil
		}
		scale := leg.sign() * leg.contracts()
		if leg.Greeks.Gamma != nil {
			g += scale * *leg.Greeks.Gamma
		} else {
			haveGamma = false
		}
		if leg.Greeks.Vega != nil {
			v += scale * *leg.Greeks.Vega
		} else {
			haveVega = false
		}
		if leg.Greeks.Theta != nil {
			t += scale * *leg.Greeks.Theta
		} else {
			haveTheta = false
		}
	}

	if haveGamma {
		gamma = Float(g)
	}
	if haveVega {
		vega = Float(v)
	}
	if haveTheta {
		theta = Float(t)
	}
	return gamma, vega, theta
}

// legGreeks 用本引擎为策略腿生成每股希腊字母（theta 按天、vega 按 1 个百分点），
// 调用方外部提供的原始希腊字母可直接覆盖。
func legGreeks(params StrategyParams, leg OptionLeg) *Greeks {
	vol := params.Vol
	if leg.Vol != nil {
		vol = *leg.Vol
	}
	p := PricingParams{
		Spot:   params.Spot,
		Strike: leg.Strike,
		Rate:   params.Rate,
		Vol:    vol,
		Expiry: params.Expiry,
		Type:   leg.Type,
	}
	g, ok := ComputeGreeks(p)
	if !ok {
		return nil
	}
	scaled := g.Conventional()
	return &scaled
}
