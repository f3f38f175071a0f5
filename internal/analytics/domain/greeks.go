// 变更说明：解析式希腊字母计算，替代早期基于属性探测的动态分支。
// 每个希腊字母都是独立的可选值，调用方需显式判空。
package domain

import "math"

// Greeks 希腊字母集合。每项独立可选（nil 表示不可用），
// 代表每股敏感度。theta 按天计，vega/rho 按波动率/利率变动 1 个百分点计
// （原始解析值的换算见 Conventional）。
type Greeks struct {
	Delta *float64
	Gamma *float64
	Theta *float64
	Vega  *float64
	Rho   *float64
}

// Float 构造可选字段的辅助函数
func Float(v float64) *float64 { return &v }

// Complete 五个希腊字母是否全部可用
func (g Greeks) Complete() bool {
	return g.Delta != nil && g.Gamma != nil && g.Theta != nil && g.Vega != nil && g.Rho != nil
}

// Conventional 将解析原始值换算为市场惯用单位：
// theta 年化 -> 每日 (/365)，vega/rho 每 1.00 -> 每 1 个百分点 (/100)。
// delta/gamma 无量纲换算。
func (g Greeks) Conventional() Greeks {
	out := Greeks{}
	if g.Delta != nil {
		out.Delta = Float(*g.Delta)
	}
	if g.Gamma != nil {
		out.Gamma = Float(*g.Gamma)
	}
	if g.Theta != nil {
		out.Theta = Float(*g.Theta / 365)
	}
	if g.Vega != nil {
		out.Vega = Float(*g.Vega / 100)
	}
	if g.Rho != nil {
		out.Rho = Float(*g.Rho / 100)
	}
	return out
}

// Delta Call: N(d1); Put: N(d1)-1
func Delta(p PricingParams) (float64, bool) {
	d1, ok := p.D1()
	if !ok {
		return 0, false
	}
	if p.Type == OptionTypeCall {
		return NormCDF(d1), true
	}
	return NormCDF(d1) - 1, true
}

// Gamma n(d1) / (S*sigma*sqrt(T))，看涨看跌相同
func Gamma(p PricingParams) (float64, bool) {
	d1, ok := p.D1()
	if !ok {
		return 0, false
	}
	return NormPDF(d1) / (p.Spot * p.Vol * math.Sqrt(p.Expiry)), true
}

// Theta 年化时间衰减。与 T 同单位，按日报告由调用方 /365（见 Conventional）。
// Call: -S*n(d1)*sigma/(2*sqrt(T)) - r*K*e^{-rT}*N(d2)
// Put:  -S*n(d1)*sigma/(2*sqrt(T)) + r*K*e^{-rT}*N(-d2)
func Theta(p PricingParams) (float64, bool) {
	d1, ok := p.D1()
	if !ok {
		return 0, false
	}
	d2 := d1 - p.Vol*math.Sqrt(p.Expiry)
	decay := -p.Spot * NormPDF(d1) * p.Vol / (2 * math.Sqrt(p.Expiry))
	carry := p.Rate * p.Strike * math.Exp(-p.Rate*p.Expiry)

	if p.Type == OptionTypeCall {
		return decay - carry*NormCDF(d2), true
	}
	return decay + carry*NormCDF(-d2), true
}

// Vega S*n(d1)*sqrt(T)，按波动率变动 1.00 计，看涨看跌相同
func Vega(p PricingParams) (float64, bool) {
	d1, ok := p.D1()
	if !ok {
		return 0, false
	}
	return p.Spot * NormPDF(d1) * math.Sqrt(p.Expiry), true
}

// Rho Call: K*T*e^{-rT}*N(d2); Put: -K*T*e^{-rT}*N(-d2)
func Rho(p PricingParams) (float64, bool) {
	d2, ok := p.D2()
	if !ok {
		return 0, false
	}
	discounted := p.Strike * p.Expiry * math.Exp(-p.Rate*p.Expiry)
	if p.Type == OptionTypeCall {
		return discounted * NormCDF(d2), true
	}
	return -discounted * NormCDF(-d2), true
}

// ComputeGreeks 一次性计算全部五个希腊字母（解析原始单位）。
// 参数无效时返回零值 Greeks 与 false。
func ComputeGreeks(p PricingParams) (Greeks, bool) {
	if !p.Valid() {
		return Greeks{}, false
	}
	delta, _ := Delta(p)
	gamma, _ := Gamma(p)
	theta, _ := Theta(p)
	vega, _ := Vega(p)
	rho, _ := Rho(p)
	return Greeks{
		Delta: Float(delta),
		Gamma: Float(gamma),
		Theta: Float(theta),
		Vega:  Float(vega),
		Rho:   Float(rho),
	}, true
}
