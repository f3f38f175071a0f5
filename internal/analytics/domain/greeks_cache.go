package domain

import (
	"strconv"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	greeksCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "greeks_cache_hits_total",
		Help: "The total number of greeks cache hits",
	})
	greeksCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "greeks_cache_misses_total",
		Help: "The total number of greeks cache misses",
	})
)

func init() {
	prometheus.MustRegister(greeksCacheHits, greeksCacheMisses)
}

// DefaultGreeksCacheSize 默认缓存条目上限
const DefaultGreeksCacheSize = 4096

// CachedGreeksCalculator 带 LRU 上限的希腊字母计算器，用于回测等重复求值场景。
// 键按固定精度取整（价格 4 位有效数字，利率/波动率/时间 6 位），
// 吸收重复求值之间的浮点抖动；命中结果与直接计算逐位一致。
// 底层 LRU 自身线程安全，可并发读写。
type CachedGreeksCalculator struct {
	cache  *lru.Cache[string, Greeks]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCachedGreeksCalculator 创建缓存计算器。size<=0 时使用默认上限。
// 缓存按调用方显式持有，替代早期的包级单例，避免跨测试的隐藏状态。
func NewCachedGreeksCalculator(size int) *CachedGreeksCalculator {
	if size <= 0 {
		size = DefaultGreeksCacheSize
	}
	cache, err := lru.New[string, Greeks](size)
	if err != nil {
		// lru.New 仅在 size<=0 时报错，上面已兜底
		panic(err)
	}
	return &CachedGreeksCalculator{cache: cache}
}

// Greeks 计算（或命中缓存）全部五个希腊字母
func (c *CachedGreeksCalculator) Greeks(p PricingParams) (Greeks, bool) {
	if !p.Valid() {
		return Greeks{}, false
	}

	key := cacheKey(p)
	if g, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		greeksCacheHits.Inc()
		return g, true
	}

	g, ok := ComputeGreeks(p)
	if !ok {
		return Greeks{}, false
	}

	c.misses.Add(1)
	greeksCacheMisses.Inc()
	c.cache.Add(key, g)
	return g, true
}

// Hits 命中次数
func (c *CachedGreeksCalculator) Hits() uint64 { return c.hits.Load() }

// Misses 未命中次数
func (c *CachedGreeksCalculator) Misses() uint64 { return c.misses.Load() }

// Len 当前缓存条目数
func (c *CachedGreeksCalculator) Len() int { return c.cache.Len() }

// Clear 清空缓存并重置计数器
func (c *CachedGreeksCalculator) Clear() {
	c.cache.Purge()
	c.hits.Store(0)
	c.misses.Store(0)
}

// cacheKey 价格类输入 4 位有效数字，利率/波动率/时间 6 位
func cacheKey(p PricingParams) string {
	return string(p.Type) + "|" +
		strconv.FormatFloat(p.Spot, 'g', 4, 64) + "|" +
		strconv.FormatFloat(p.Strike, 'g', 4, 64) + "|" +
		strconv.FormatFloat(p.Rate, 'g', 6, 64) + "|" +
		strconv.FormatFloat(p.Vol, 'g', 6, 64) + "|" +
		strconv.FormatFloat(p.Expiry, 'g', 6, 64)
}
