package application

import "github.com/shopspring/decimal"

// OptionPriceDTO 期权定价结果
type OptionPriceDTO struct {
	TheoreticalPrice    float64 `json:"theoretical_price"`
	D1                  float64 `json:"d1"`
	D2                  float64 `json:"d2"`
	Moneyness           float64 `json:"moneyness"`
	InTheMoney          bool    `json:"in_the_money"`
	ExerciseProbability float64 `json:"exercise_probability"`
	WinProbability      float64 `json:"win_probability"`
}

// GreeksDTO 希腊字母结果（市场惯用单位：theta 每日，vega/rho 每 1 个百分点）
type GreeksDTO struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
	Rho   float64 `json:"rho"`
}

// StrategyMetricsDTO 策略指标结果。可选指标不可计算时为 null，调用方不得按零处理。
type StrategyMetricsDTO struct {
	Strategy       string    `json:"strategy"`
	ExpectedReturn float64   `json:"expected_return"`
	ReturnStd      float64   `json:"return_std"`
	ReturnVariance float64   `json:"return_variance"`
	MaxProfit      float64   `json:"max_profit"`
	MaxLoss        float64   `json:"max_loss"`
	Breakeven      []float64 `json:"breakeven"`
	WinProbability float64   `json:"win_probability"`

	SharpeRatio           *float64 `json:"sharpe_ratio,omitempty"`
	SharpeRatioAnnualized *float64 `json:"sharpe_ratio_annualized,omitempty"`
	KellyFraction         float64  `json:"kelly_fraction"`
	PREI                  *float64 `json:"prei,omitempty"`
	SAS                   *float64 `json:"sas,omitempty"`
	TGR                   *float64 `json:"tgr,omitempty"`
	ROC                   *float64 `json:"roc,omitempty"`
	ExpectedROC           *float64 `json:"expected_roc,omitempty"`
}

// PortfolioGreeksDTO 组合希腊字母汇总
type PortfolioGreeksDTO struct {
	TotalDelta        float64          `json:"total_delta"`
	TotalGamma        float64          `json:"total_gamma"`
	TotalTheta        float64          `json:"total_theta"`
	TotalVega         float64          `json:"total_vega"`
	DeltaDollars      decimal.Decimal  `json:"delta_dollars"`
	BetaWeightedDelta *decimal.Decimal `json:"beta_weighted_delta,omitempty"`
}

// ImpliedVolDTO 隐含波动率反解结果
type ImpliedVolDTO struct {
	ImpliedVolatility float64 `json:"implied_volatility"`
}
