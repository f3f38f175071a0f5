package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/optionanalytics/internal/analytics/application"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
)

// HTTP 处理器
// 负责处理期权分析相关的 HTTP 请求；序列化由本层负责，领域层不持有任何线格式
type AnalyticsHandler struct {
	svc *application.AnalyticsService
}

// 创建 HTTP 处理器实例
func NewAnalyticsHandler(svc *application.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// 注册路由
func (h *AnalyticsHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/analytics")
	{
		api.POST("/option/price", h.PriceOption)
		api.POST("/option/greeks", h.OptionGreeks)
		api.POST("/option/implied-vol", h.ImpliedVol)
		api.POST("/strategy/analyze", h.AnalyzeStrategy)
		api.POST("/portfolio/greeks", h.PortfolioGreeks)
		api.GET("/cache/stats", h.CacheStats)
		api.POST("/cache/clear", h.ClearCache)
	}
}

// OptionRequest 单一期权请求
type OptionRequest struct {
	OptionType string  `json:"option_type" binding:"required,oneof=CALL PUT call put"`
	Spot       float64 `json:"spot" binding:"required,gt=0"`
	Strike     float64 `json:"strike" binding:"required,gt=0"`
	Rate       float64 `json:"rate"`
	Volatility float64 `json:"volatility" binding:"required,gt=0"`
	Expiry     float64 `json:"expiry" binding:"required,gt=0"`
}

func (r OptionRequest) toQuery() application.OptionQuery {
	return application.OptionQuery{
		OptionType: r.OptionType,
		Spot:       r.Spot,
		Strike:     r.Strike,
		Rate:       r.Rate,
		Vol:        r.Volatility,
		Expiry:     r.Expiry,
	}
}

// PriceOption 理论价格与概率
func (h *AnalyticsHandler) PriceOption(c *gin.Context) {
	var req OptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	result, err := h.svc.PriceOption(c.Request.Context(), req.toQuery())
	if err != nil {
		response.ErrorWithStatus(c, http.StatusUnprocessableEntity, err.Error(), "")
		return
	}
	response.Success(c, result)
}

// OptionGreeks 希腊字母
func (h *AnalyticsHandler) OptionGreeks(c *gin.Context) {
	var req OptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	result, err := h.svc.OptionGreeks(c.Request.Context(), req.toQuery())
	if err != nil {
		response.ErrorWithStatus(c, http.StatusUnprocessableEntity, err.Error(), "")
		return
	}
	response.Success(c, result)
}

// ImpliedVolRequest 隐含波动率请求。波动率由市场价格反解，无需输入。
type ImpliedVolRequest struct {
	OptionType  string  `json:"option_type" binding:"required,oneof=CALL PUT call put"`
	Spot        float64 `json:"spot" binding:"required,gt=0"`
	Strike      float64 `json:"strike" binding:"required,gt=0"`
	Rate        float64 `json:"rate"`
	Expiry      float64 `json:"expiry" binding:"required,gt=0"`
	MarketPrice float64 `json:"market_price" binding:"required,gt=0"`
}

// ImpliedVol 从市场价格反解隐含波动率
func (h *AnalyticsHandler) ImpliedVol(c *gin.Context) {
	var req ImpliedVolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	query := application.OptionQuery{
		OptionType: req.OptionType,
		Spot:       req.Spot,
		Strike:     req.Strike,
		Rate:       req.Rate,
		Expiry:     req.Expiry,
	}
	result, err := h.svc.ImpliedVolatility(c.Request.Context(), query, req.MarketPrice)
	if err != nil {
		logging.Warn(c.Request.Context(), "implied volatility failed", "error", err)
		response.ErrorWithStatus(c, http.StatusUnprocessableEntity, err.Error(), "")
		return
	}
	response.Success(c, result)
}

// StrategyRequest 策略分析请求
type StrategyRequest struct {
	Strategy string `json:"strategy" binding:"required,oneof=short_put covered_call short_call short_strangle"`

	Spot          float64  `json:"spot" binding:"required,gt=0"`
	Volatility    float64  `json:"volatility" binding:"required,gt=0"`
	Expiry        float64  `json:"expiry"`
	Rate          float64  `json:"rate"`
	HistoricalVol *float64 `json:"historical_vol,omitempty"`
	DaysToExpiry  *int     `json:"days_to_expiry,omitempty"`

	Strike    float64  `json:"strike"`
	Premium   float64  `json:"premium"`
	CostBasis *float64 `json:"cost_basis,omitempty"`

	PutStrike   float64  `json:"put_strike"`
	PutPremium  float64  `json:"put_premium"`
	CallStrike  float64  `json:"call_strike"`
	CallPremium float64  `json:"call_premium"`
	PutVol      *float64 `json:"put_vol,omitempty"`
	CallVol     *float64 `json:"call_vol,omitempty"`

	LossCapMultiple *float64 `json:"loss_cap_multiple,omitempty"`
}

// AnalyzeStrategy 策略指标分析
func (h *AnalyticsHandler) AnalyzeStrategy(c *gin.Context) {
	var req StrategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	query := application.StrategyQuery{
		Strategy:        req.Strategy,
		Spot:            req.Spot,
		Vol:             req.Volatility,
		Expiry:          req.Expiry,
		Rate:            req.Rate,
		HistoricalVol:   req.HistoricalVol,
		DaysToExpiry:    req.DaysToExpiry,
		Strike:          req.Strike,
		Premium:         req.Premium,
		CostBasis:       req.CostBasis,
		PutStrike:       req.PutStrike,
		PutPremium:      req.PutPremium,
		CallStrike:      req.CallStrike,
		CallPremium:     req.CallPremium,
		PutVol:          req.PutVol,
		CallVol:         req.CallVol,
		LossCapMultiple: req.LossCapMultiple,
	}

	result, err := h.svc.AnalyzeStrategy(c.Request.Context(), query)
	if err != nil {
		logging.Warn(c.Request.Context(), "strategy analysis failed", "strategy", req.Strategy, "error", err)
		response.ErrorWithStatus(c, http.StatusUnprocessableEntity, err.Error(), "")
		return
	}
	response.Success(c, result)
}

// PositionRequest 组合聚合的单个头寸
type PositionRequest struct {
	Symbol          string   `json:"symbol" binding:"required"`
	Quantity        float64  `json:"quantity" binding:"required"`
	Delta           *float64 `json:"delta,omitempty"`
	Gamma           *float64 `json:"gamma,omitempty"`
	Theta           *float64 `json:"theta,omitempty"`
	Vega            *float64 `json:"vega,omitempty"`
	Beta            *float64 `json:"beta,omitempty"`
	UnderlyingPrice float64  `json:"underlying_price"`
	Multiplier      float64  `json:"multiplier"`
}

// PortfolioRequest 组合聚合请求
type PortfolioRequest struct {
	Positions      []PositionRequest `json:"positions" binding:"required,min=1,dive"`
	BenchmarkPrice *float64          `json:"benchmark_price,omitempty"`
}

// PortfolioGreeks 组合希腊字母聚合
func (h *AnalyticsHandler) PortfolioGreeks(c *gin.Context) {
	var req PortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	inputs := make([]application.PositionInput, 0, len(req.Positions))
	for _, p := range req.Positions {
		inputs = append(inputs, application.PositionInput{
			Symbol:          p.Symbol,
			Quantity:        p.Quantity,
			Delta:           p.Delta,
			Gamma:           p.Gamma,
			Theta:           p.Theta,
			Vega:            p.Vega,
			Beta:            p.Beta,
			UnderlyingPrice: p.UnderlyingPrice,
			Multiplier:      p.Multiplier,
		})
	}

	result, err := h.svc.AggregatePortfolio(c.Request.Context(), inputs, req.BenchmarkPrice)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusUnprocessableEntity, err.Error(), "")
		return
	}
	response.Success(c, result)
}

// CacheStats 希腊字母缓存命中统计
func (h *AnalyticsHandler) CacheStats(c *gin.Context) {
	hits, misses, entries := h.svc.CacheStats()
	response.Success(c, gin.H{
		"hits":    hits,
		"misses":  misses,
		"entries": entries,
	})
}

// ClearCache 显式清空希腊字母缓存
func (h *AnalyticsHandler) ClearCache(c *gin.Context) {
	h.svc.ClearCache()
	response.Success(c, gin.H{"cleared": true})
}
