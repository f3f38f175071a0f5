package domain

// 行权概率模块。欧式、无红利假设下，行权概率与到期价内概率相等：
// Put 为 N(-d2)，Call 为 N(d2)，两者对同一组参数严格互补。

// ExerciseProbability 到期被行权的风险中性概率
func ExerciseProbability(p PricingParams) (float64, bool) {
	d2, ok := p.D2()
	if !ok {
		return 0, false
	}
	if p.Type == OptionTypePut {
		return NormCDF(-d2), true
	}
	return NormCDF(d2), true
}

// ITMProbability 到期处于价内的概率，等同于行权概率
func ITMProbability(p PricingParams) (float64, bool) {
	return ExerciseProbability(p)
}

// SellerWinProbability 卖方胜率 = 1 - 行权概率
func SellerWinProbability(p PricingParams) (float64, bool) {
	exercise, ok := ExerciseProbability(p)
	if !ok {
		return 0, false
	}
	return 1 - exercise, true
}
