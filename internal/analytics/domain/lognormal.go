package domain

import "math"

// 截断对数正态条件矩。风险中性测度下 S_T = S*exp((r-sigma^2/2)T + sigma*sqrt(T)*Z)，
// 各策略的闭式方差按区域拆分 E[pi^2]，每个尾部区域需要 S_T 在该区域内的
// 概率、一阶部分矩与二阶部分矩：
//
//	P(S_T < K)           = N(-d2)
//	E[S_T * 1{S_T < K}]  = S * e^{rT} * N(-d1)
//	E[S_T^2 * 1{S_T<K}]  = S^2 * e^{(2r+sigma^2)T} * N(-d3)
//
// 上尾区域取相应的 N(d2)/N(d1)/N(d3)。d3 = d2 + 2*sigma*sqrt(T)。

// tailMoments 单侧尾部区域的概率与部分矩
type tailMoments struct {
	prob   float64 // P(S_T 落在区域内)
	first  float64 // E[S_T * 1{区域}]
	second float64 // E[S_T^2 * 1{区域}]
}

// lowerTail S_T < barrier 区域的矩
func lowerTail(spot, barrier, rate, vol, expiry float64) (tailMoments, bool) {
	p := PricingParams{Spot: spot, Strike: barrier, Rate: rate, Vol: vol, Expiry: expiry}
	d1, ok := p.D1()
	if !ok {
		return tailMoments{}, false
	}
	sqrtT := vol * math.Sqrt(expiry)
	d2 := d1 - sqrtT
	d3 := d2 + 2*sqrtT

	return tailMoments{
		prob:   NormCDF(-d2),
		first:  spot * math.Exp(rate*expiry) * NormCDF(-d1),
		second: spot * spot * math.Exp((2*rate+vol*vol)*expiry) * NormCDF(-d3),
	}, true
}

// upperTail S_T > barrier 区域的矩
func upperTail(spot, barrier, rate, vol, expiry float64) (tailMoments, bool) {
	p := PricingParams{Spot: spot, Strike: barrier, Rate: rate, Vol: vol, Expiry: expiry}
	d1, ok := p.D1()
	if !ok {
		return tailMoments{}, false
	}
	sqrtT := vol * math.Sqrt(expiry)
	d2 := d1 - sqrtT
	d3 := d2 + 2*sqrtT

	return tailMoments{
		prob:   NormCDF(d2),
		first:  spot * math.Exp(rate*expiry) * NormCDF(d1),
		second: spot * spot * math.Exp((2*rate+vol*vol)*expiry) * NormCDF(d3),
	}, true
}

// expectedPutPayoff 到期看跌内在价值期望（未贴现）:
// E[(K - S_T)^+] = K*N(-d2) - S*e^{rT}*N(-d1)
func expectedPutPayoff(spot, strike, rate, vol, expiry float64) (float64, bool) {
	tail, ok := lowerTail(spot, strike, rate, vol, expiry)
	if !ok {
		return 0, false
	}
	return strike*tail.prob - tail.first, true
}

// expectedCallPayoff 到期看涨内在价值期望（未贴现）:
// E[(S_T - K)^+] = S*e^{rT}*N(d1) - K*N(d2)
func expectedCallPayoff(spot, strike, rate, vol, expiry float64) (float64, bool) {
	tail, ok := upperTail(spot, strike, rate, vol, expiry)
	if !ok {
		return 0, false
	}
	return tail.first - strike*tail.prob, true
}

// clampVariance E[pi^2]-E[pi]^2 的数值残差截断，保证方差非负
func clampVariance(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
