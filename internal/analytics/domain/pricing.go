package domain

import (
	"fmt"
	"math"
)

// OptionType 期权类型
type OptionType string

const (
	OptionTypeCall OptionType = "CALL"
	OptionTypePut  OptionType = "PUT"
)

// DefaultRiskFreeRate 默认无风险利率
const DefaultRiskFreeRate = 0.035

// PricingParams Black-Scholes 定价参数，不可变值对象。
// 所有 WithXxx 方法返回新实例，不修改原值。
type PricingParams struct {
	Spot   float64    // 标的资产价格 S
	Strike float64    // 执行价格 K
	Rate   float64    // 无风险利率 r
	Vol    float64    // 年化波动率 sigma
	Expiry float64    // 到期时间 T (年)
	Type   OptionType // 期权类型
}

// Valid 判断参数是否处于有效的定价域内。
// S/K/sigma/T 任一非正时所有定价函数均返回 undefined，而非报错，
// 便于调用方链式传播无效状态。
func (p PricingParams) Valid() bool {
	return p.Spot > 0 && p.Strike > 0 && p.Vol > 0 && p.Expiry > 0
}

// Moneyness 价值状态 S/K
func (p PricingParams) Moneyness() (float64, bool) {
	if p.Strike <= 0 || p.Spot <= 0 {
		return 0, false
	}
	return p.Spot / p.Strike, true
}

// InTheMoney 是否处于价内
func (p PricingParams) InTheMoney() (bool, bool) {
	if p.Strike <= 0 || p.Spot <= 0 {
		return false, false
	}
	if p.Type == OptionTypeCall {
		return p.Spot > p.Strike, true
	}
	return p.Spot < p.Strike, true
}

// WithSpot 返回替换标的价格后的新参数
func (p PricingParams) WithSpot(spot float64) PricingParams {
	p.Spot = spot
	return p
}

// WithStrike 返回替换执行价后的新参数
func (p PricingParams) WithStrike(strike float64) PricingParams {
	p.Strike = strike
	return p
}

// WithVol 返回替换波动率后的新参数
func (p PricingParams) WithVol(vol float64) PricingParams {
	p.Vol = vol
	return p
}

// WithExpiry 返回替换到期时间后的新参数
func (p PricingParams) WithExpiry(expiry float64) PricingParams {
	p.Expiry = expiry
	return p
}

// WithType 返回替换期权类型后的新参数
func (p PricingParams) WithType(t OptionType) PricingParams {
	p.Type = t
	return p
}

// D1 Black-Scholes d1 = [ln(S/K) + (r + sigma^2/2)T] / (sigma*sqrt(T))
func (p PricingParams) D1() (float64, bool) {
	if !p.Valid() {
		return 0, false
	}
	d1 := (math.Log(p.Spot/p.Strike) + (p.Rate+0.5*p.Vol*p.Vol)*p.Expiry) / (p.Vol * math.Sqrt(p.Expiry))
	return d1, true
}

// D2 d2 = d1 - sigma*sqrt(T)
func (p PricingParams) D2() (float64, bool) {
	d1, ok := p.D1()
	if !ok {
		return 0, false
	}
	return d1 - p.Vol*math.Sqrt(p.Expiry), true
}

// D3 d3 = d2 + 2*sigma*sqrt(T)。
// 仅用于截断对数正态二阶矩: E[S_T^2 * 1{S_T<K}] = S^2 * e^{(2r+sigma^2)T} * N(-d3)。
func (p PricingParams) D3() (float64, bool) {
	d2, ok := p.D2()
	if !ok {
		return 0, false
	}
	return d2 + 2*p.Vol*math.Sqrt(p.Expiry), true
}

// TheoreticalPrice 欧式期权理论价格。
// Call = S*N(d1) - K*e^{-rT}*N(d2); Put = K*e^{-rT}*N(-d2) - S*N(-d1)。
func (p PricingParams) TheoreticalPrice() (float64, bool) {
	d1, ok := p.D1()
	if !ok {
		return 0, false
	}
	d2 := d1 - p.Vol*math.Sqrt(p.Expiry)
	discount := math.Exp(-p.Rate * p.Expiry)

	if p.Type == OptionTypeCall {
		return p.Spot*NormCDF(d1) - p.Strike*discount*NormCDF(d2), true
	}
	return p.Strike*discount*NormCDF(-d2) - p.Spot*NormCDF(-d1), true
}

// NormCDF 标准正态分布累积分布函数
func NormCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// NormPDF 标准正态分布概率密度函数
func NormPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}

// ImpliedVolatility 用 Newton-Raphson 法从市场价格反解隐含波动率。
// 初值 20%，以 vega 为导数迭代，sigma 被约束在 (0, 5] 内。
func ImpliedVolatility(p PricingParams, marketPrice float64) (float64, error) {
	if p.Spot <= 0 || p.Strike <= 0 || p.Expiry <= 0 {
		return 0, fmt.Errorf("implied volatility: invalid parameters: spot=%v strike=%v expiry=%v", p.Spot, p.Strike, p.Expiry)
	}
	if marketPrice <= 0 {
		return 0, fmt.Errorf("implied volatility: market price must be positive, got %v", marketPrice)
	}

	const (
		maxIter = 100
		tol     = 1e-6
	)

	sigma := 0.20
	for i := 0; i < maxIter; i++ {
		trial := p.WithVol(sigma)

		price, ok := trial.TheoreticalPrice()
		if !ok {
			break
		}
		diff := price - marketPrice
		if math.Abs(diff) < tol {
			return sigma, nil
		}

		d1, _ := trial.D1()
		vega := trial.Spot * NormPDF(d1) * math.Sqrt(trial.Expiry)
		if vega < 1e-8 {
			break
		}

		sigma -= diff / vega
		if sigma <= 0 {
			sigma = 1e-4
		}
		if sigma > 5 {
			sigma = 5
		}
	}

	return 0, fmt.Errorf("implied volatility did not converge for spot=%v strike=%v", p.Spot, p.Strike)
}
