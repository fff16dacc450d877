// Package metrics 提供基于Prometheus的指标收集
//
// 指标分三类：
// 1. HTTP请求指标：请求总数、耗时分布、处理中请求数
// 2. 图书业务指标：创建/删除总数、详情浏览总数
// 3. 旁路副作用指标：缓存快照/推荐索引/库存登记等尽力而为操作的失败计数
//    （副作用失败不会影响主流程结果，指标是唯一的聚合观测手段）
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initialized 标记是否已初始化（防止重复注册）
	initialized bool

	// HTTP请求指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method（GET/POST）、path（/api/books）、status（200/404/500）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// 图书业务指标

	// BooksCreatedTotal 图书创建总数（Counter）
	BooksCreatedTotal prometheus.Counter

	// BooksDeletedTotal 图书删除总数（Counter）
	BooksDeletedTotal prometheus.Counter

	// BookViewsTotal 图书详情浏览总数（Counter）
	BookViewsTotal prometheus.Counter

	// 旁路副作用指标

	// SideEffectFailuresTotal 尽力而为副作用失败总数（Counter）
	// 标签：effect（cache/recommendation/inventory/view_count/notify）
	SideEffectFailuresTotal *prometheus.CounterVec

	// EnrichmentFallbacksTotal 元数据补全降级总数（Counter）
	// 外部补全失败、使用默认genre/description时递增
	EnrichmentFallbacksTotal prometheus.Counter

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（Gauge）
	// 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数（Counter）
	// 标签：name（熔断器名称）、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
// 必须在程序启动时调用一次，将指标注册到默认Registry
func InitMetrics() {
	if initialized {
		return
	}
	initialized = true

	// HTTP请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP请求耗时（秒）",
			// 桶设置：1ms、10ms、100ms、500ms、1s、5s、10s
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	// 图书业务指标
	BooksCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "books_created_total",
			Help: "图书创建总数",
		},
	)

	BooksDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "books_deleted_total",
			Help: "图书删除总数",
		},
	)

	BookViewsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "book_views_total",
			Help: "图书详情浏览总数",
		},
	)

	// 旁路副作用指标
	SideEffectFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "side_effect_failures_total",
			Help: "尽力而为副作用失败总数",
		},
		[]string{"effect"},
	)

	EnrichmentFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "enrichment_fallbacks_total",
			Help: "元数据补全降级总数",
		},
	)

	// 熔断器指标
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)
}

// =========================================
// 辅助函数：统一的指标操作入口
// =========================================

// IncCounter 递增Counter
func IncCounter(counter prometheus.Counter) {
	if counter != nil {
		counter.Inc()
	}
}

// IncCounterVec 递增带标签的Counter
func IncCounterVec(counterVec *prometheus.CounterVec, labels map[string]string) {
	if counterVec != nil {
		counterVec.With(labels).Inc()
	}
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	if gauge != nil {
		gauge.Inc()
	}
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	if gauge != nil {
		gauge.Dec()
	}
}

// SetGauge 设置Gauge值
func SetGauge(gauge prometheus.Gauge, value float64) {
	if gauge != nil {
		gauge.Set(value)
	}
}

// SetGaugeVec 设置带标签的Gauge值
func SetGaugeVec(gaugeVec *prometheus.GaugeVec, labels map[string]string, value float64) {
	if gaugeVec != nil {
		gaugeVec.With(labels).Set(value)
	}
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	if histogram != nil {
		histogram.Observe(value)
	}
}

// ObserveHistogramVec 记录带标签的Histogram观测值
func ObserveHistogramVec(histogramVec *prometheus.HistogramVec, labels map[string]string, value float64) {
	if histogramVec != nil {
		histogramVec.With(labels).Observe(value)
	}
}
