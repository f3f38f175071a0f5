package domain

import "github.com/shopspring/decimal"

// PortfolioGreeksSummary 组合级希腊字母汇总。
// delta 无量纲；gamma/theta/vega 以各头寸自身货币计价，
// 跨币种头寸需由调用方先行折算再聚合。
type PortfolioGreeksSummary struct {
	TotalDelta float64
	TotalGamma float64
	TotalTheta float64
	TotalVega  float64

	// DeltaDollars = sum(delta * 标的价 * 乘数 * 数量)
	DeltaDollars decimal.Decimal
	// BetaWeightedDelta 以基准价格归一的 beta 加权 delta 敞口。
	// 需要基准价与每个头寸的 beta，缺任一项时为 nil。
	BetaWeightedDelta *decimal.Decimal
}

// AggregateGreeks 将头寸级希腊字母加总为组合敞口。
// 每项按 greek * quantity * multiplier 计，缺失的希腊字母按不贡献处理。
// benchmarkPrice 为 nil 时不计算 beta 加权 delta。
func AggregateGreeks(positions []Position, benchmarkPrice *float64) PortfolioGreeksSummary {
	summary := PortfolioGreeksSummary{}

	deltaDollars := 0.0
	betaWeighted := 0.0
	betaComplete := benchmarkPrice != nil && *benchmarkPrice > 0 && len(positions) > 0

	for _, pos := range positions {
		scale := pos.Quantity * pos.multiplier()

		if pos.Greeks.Delta != nil {
			delta := *pos.Greeks.Delta
			summary.TotalDelta += delta * scale
			deltaDollars += delta * pos.UnderlyingPrice * scale

			if betaComplete {
				if pos.Beta == nil {
					betaComplete = false
				} else {
					betaWeighted += delta * scale * pos.UnderlyingPrice * *pos.Beta
				}
			}
		} else if betaComplete {
			// delta 缺失的头寸无法计入 beta 加权敞口
			betaComplete = false
		}

		if pos.Greeks.Gamma != nil {
			summary.TotalGamma += *pos.Greeks.Gamma * scale
		}
		if pos.Greeks.Theta != nil {
			summary.TotalTheta += *pos.Greeks.Theta * scale
		}
		if pos.Greeks.Vega != nil {
			summary.TotalVega += *pos.Greeks.Vega * scale
		}
	}

	summary.DeltaDollars = decimal.NewFromFloat(deltaDollars)
	if betaComplete {
		weighted := decimal.NewFromFloat(betaWeighted / *benchmarkPrice)
		summary.BetaWeightedDelta = &weighted
	}
	return summary
}
