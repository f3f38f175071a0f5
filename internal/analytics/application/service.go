package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wyfcoding/optionanalytics/internal/analytics/domain"
	"github.com/wyfcoding/pkg/logging"
)

var (
	ErrInvalidOptionType = errors.New("option type must be CALL or PUT")
	ErrUnknownStrategy   = errors.New("unknown strategy")
	ErrUndefinedResult   = errors.New("result undefined for given parameters")
)

// AnalyticsService 期权策略分析应用服务。
// 领域计算纯同步无状态，唯一共享资源是注入的希腊字母缓存。
type AnalyticsService struct {
	greeks *domain.CachedGreeksCalculator
}

// NewAnalyticsService 创建应用服务，cacheSize<=0 时使用默认缓存上限
func NewAnalyticsService(cacheSize int) *AnalyticsService {
	return &AnalyticsService{greeks: domain.NewCachedGreeksCalculator(cacheSize)}
}

// OptionQuery 单一期权定价/希腊字母查询
type OptionQuery struct {
	OptionType string
	Spot       float64
	Strike     float64
	Rate       float64
	Vol        float64
	Expiry     float64 // 年
}

func (q OptionQuery) pricingParams() (domain.PricingParams, error) {
	var optType domain.OptionType
	switch strings.ToUpper(q.OptionType) {
	case "CALL":
		optType = domain.OptionTypeCall
	case "PUT":
		optType = domain.OptionTypePut
	default:
		return domain.PricingParams{}, fmt.Errorf("%w: got %q", ErrInvalidOptionType, q.OptionType)
	}
	return domain.PricingParams{
		Spot:   q.Spot,
		Strike: q.Strike,
		Rate:   q.Rate,
		Vol:    q.Vol,
		Expiry: q.Expiry,
		Type:   optType,
	}, nil
}

// PriceOption 理论价格与行权/胜率概率
func (s *AnalyticsService) PriceOption(ctx context.Context, q OptionQuery) (*OptionPriceDTO, error) {
	params, err := q.pricingParams()
	if err != nil {
		return nil, err
	}

	price, ok := params.TheoreticalPrice()
	if !ok {
		return nil, fmt.Errorf("%w: spot=%v strike=%v vol=%v expiry=%v", ErrUndefinedResult, q.Spot, q.Strike, q.Vol, q.Expiry)
	}
	d1, _ := params.D1()
	d2, _ := params.D2()
	moneyness, _ := params.Moneyness()
	itm, _ := params.InTheMoney()
	exercise, _ := domain.ExerciseProbability(params)
	win, _ := domain.SellerWinProbability(params)

	return &OptionPriceDTO{
		TheoreticalPrice:    price,
		D1:                  d1,
		D2:                  d2,
		Moneyness:           moneyness,
		InTheMoney:          itm,
		ExerciseProbability: exercise,
		WinProbability:      win,
	}, nil
}

// OptionGreeks 全量希腊字母（经缓存），按市场惯用单位报告
func (s *AnalyticsService) OptionGreeks(ctx context.Context, q OptionQuery) (*GreeksDTO, error) {
	params, err := q.pricingParams()
	if err != nil {
		return nil, err
	}

	g, ok := s.greeks.Greeks(params)
	if !ok {
		return nil, fmt.Errorf("%w: spot=%v strike=%v vol=%v expiry=%v", ErrUndefinedResult, q.Spot, q.Strike, q.Vol, q.Expiry)
	}
	scaled := g.Conventional()
	return &GreeksDTO{
		Delta: *scaled.Delta,
		Gamma: *scaled.Gamma,
		Theta: *scaled.Theta,
		Vega:  *scaled.Vega,
		Rho:   *scaled.Rho,
	}, nil
}

// ImpliedVolatility 从市场价格反解隐含波动率
func (s *AnalyticsService) ImpliedVolatility(ctx context.Context, q OptionQuery, marketPrice float64) (*ImpliedVolDTO, error) {
	params, err := q.pricingParams()
	if err != nil {
		return nil, err
	}
	iv, err := domain.ImpliedVolatility(params, marketPrice)
	if err != nil {
		return nil, err
	}
	return &ImpliedVolDTO{ImpliedVolatility: iv}, nil
}

// StrategyQuery 策略分析查询。按 Strategy 标签选择变体，
// 单腿策略用 Strike/Premium，宽跨式用 Put*/Call* 字段。
type StrategyQuery struct {
	Strategy string

	Spot          float64
	Vol           float64
	Expiry        float64 // 年；为零且给出 DaysToExpiry 时按 dte/365 推导
	Rate          float64
	HistoricalVol *float64
	DaysToExpiry  *int

	Strike    float64
	Premium   float64
	CostBasis *float64 // covered_call 正股成本价，缺省取现价

	PutStrike   float64
	PutPremium  float64
	CallStrike  float64
	CallPremium float64
	PutVol      *float64 // 宽跨式腿级波动率覆盖
	CallVol     *float64

	LossCapMultiple *float64 // short_call 亏损上界倍数覆盖
}

func (q StrategyQuery) strategyParams() domain.StrategyParams {
	expiry := q.Expiry
	if expiry <= 0 && q.DaysToExpiry != nil && *q.DaysToExpiry > 0 {
		expiry = float64(*q.DaysToExpiry) / 365
	}
	rate := q.Rate
	if rate == 0 {
		rate = domain.DefaultRiskFreeRate
	}
	return domain.StrategyParams{
		Spot:          q.Spot,
		Vol:           q.Vol,
		Expiry:        expiry,
		Rate:          rate,
		HistoricalVol: q.HistoricalVol,
		DaysToExpiry:  q.DaysToExpiry,
	}
}

func buildStrategy(q StrategyQuery) (domain.Strategy, error) {
	params := q.strategyParams()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	switch strings.ToLower(q.Strategy) {
	case "short_put":
		return domain.NewShortPut(params, q.Strike, q.Premium), nil
	case "covered_call":
		s := domain.NewCoveredCall(params, q.Strike, q.Premium)
		if q.CostBasis != nil {
			s.SetCostBasis(*q.CostBasis)
		}
		return s, nil
	case "short_call":
		s := domain.NewShortCall(params, q.Strike, q.Premium)
		if q.LossCapMultiple != nil {
			s.SetLossCapMultiple(*q.LossCapMultiple)
		}
		return s, nil
	case "short_strangle":
		s := domain.NewShortStrangle(params, q.PutStrike, q.PutPremium, q.CallStrike, q.CallPremium)
		if q.PutVol != nil || q.CallVol != nil {
			putVol, callVol := 0.0, 0.0
			if q.PutVol != nil {
				putVol = *q.PutVol
			}
			if q.CallVol != nil {
				callVol = *q.CallVol
			}
			s.SetVolSkew(putVol, callVol)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, q.Strategy)
	}
}

// AnalyzeStrategy 计算一个策略变体的完整指标集
func (s *AnalyticsService) AnalyzeStrategy(ctx context.Context, q StrategyQuery) (*StrategyMetricsDTO, error) {
	strategy, err := buildStrategy(q)
	if err != nil {
		return nil, err
	}

	metrics, err := domain.ComputeMetrics(strategy)
	if err != nil {
		return nil, err
	}

	logging.Debug(ctx, "strategy analyzed",
		"strategy", metrics.Strategy,
		"expected_return", metrics.ExpectedReturn,
		"win_probability", metrics.WinProbability,
	)

	return &StrategyMetricsDTO{
		Strategy:              metrics.Strategy,
		ExpectedReturn:        metrics.ExpectedReturn,
		ReturnStd:             metrics.ReturnStd,
		ReturnVariance:        metrics.ReturnVariance,
		MaxProfit:             metrics.MaxProfit,
		MaxLoss:               metrics.MaxLoss,
		Breakeven:             metrics.Breakeven,
		WinProbability:        metrics.WinProbability,
		SharpeRatio:           metrics.SharpeRatio,
		SharpeRatioAnnualized: metrics.SharpeRatioAnnualized,
		KellyFraction:         metrics.KellyFraction,
		PREI:                  metrics.PREI,
		SAS:                   metrics.SAS,
		TGR:                   metrics.TGR,
		ROC:                   metrics.ROC,
		ExpectedROC:           metrics.ExpectedROC,
	}, nil
}

// PositionInput 组合聚合的头寸输入。希腊字母逐项可选，
// 跨币种 gamma/theta/vega 需由调用方先行折算。
type PositionInput struct {
	Symbol          string
	Quantity        float64
	Delta           *float64
	Gamma           *float64
	Theta           *float64
	Vega            *float64
	Beta            *float64
	UnderlyingPrice float64
	Multiplier      float64
}

// AggregatePortfolio 头寸级希腊字母聚合为组合敞口
func (s *AnalyticsService) AggregatePortfolio(ctx context.Context, inputs []PositionInput, benchmarkPrice *float64) (*PortfolioGreeksDTO, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: empty portfolio", ErrUndefinedResult)
	}

	positions := make([]domain.Position, 0, len(inputs))
	for _, in := range inputs {
		positions = append(positions, domain.Position{
			Symbol:   in.Symbol,
			Quantity: in.Quantity,
			Greeks: domain.Greeks{
				Delta: in.Delta,
				Gamma: in.Gamma,
				Theta: in.Theta,
				Vega:  in.Vega,
			},
			Beta:            in.Beta,
			UnderlyingPrice: in.UnderlyingPrice,
			Multiplier:      in.Multiplier,
		})
	}

	summary := domain.AggregateGreeks(positions, benchmarkPrice)
	return &PortfolioGreeksDTO{
		TotalDelta:        summary.TotalDelta,
		TotalGamma:        summary.TotalGamma,
		TotalTheta:        summary.TotalTheta,
		TotalVega:         summary.TotalVega,
		DeltaDollars:      summary.DeltaDollars,
		BetaWeightedDelta: summary.BetaWeightedDelta,
	}, nil
}

// CacheStats 希腊字母缓存命中统计
func (s *AnalyticsService) CacheStats() (hits, misses uint64, entries int) {
	return s.greeks.Hits(), s.greeks.Misses(), s.greeks.Len()
}

// ClearCache 显式清空希腊字母缓存
func (s *AnalyticsService) ClearCache() {
	s.greeks.Clear()
}
