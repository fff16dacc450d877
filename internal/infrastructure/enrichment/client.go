package enrichment

import (
	"context"
	"time"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
)

// stubClient 元数据补全客户端(桩实现)
// 模拟对外部图书元数据服务的调用：固定延迟约50ms，返回固定的分类和描述。
// 接入真实服务时替换此实现即可，熔断层保持不变。
type stubClient struct {
	delay time.Duration
}

// Enrich 查询ISBN对应的分类和描述
func (c *stubClient) Enrich(ctx context.Context, isbn string) (string, string, error) {
	select {
	case <-time.After(c.delay):
	case <-ctx.Done():
		return "", "", apperrors.Wrap(ctx.Err(), "元数据查询被取消")
	}
	return "Fiction", "A fascinating book about...", nil
}

// breakerEnricher 带熔断的补全客户端
// 外部元数据服务不稳定时快速失败，调用方回落到默认元数据
type breakerEnricher struct {
	inner   book.Enricher
	breaker *circuitbreaker.CircuitBreaker
}

// NewEnricher 创建带熔断保护的元数据补全客户端
func NewEnricher() book.Enricher {
	cb := circuitbreaker.NewCircuitBreaker("enrichment", circuitbreaker.Config{
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.Requests >= 5 && counts.FailureRate() >= 0.6
		},
	})

	cb.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
	})

	return &breakerEnricher{
		inner:   &stubClient{delay: 50 * time.Millisecond},
		breaker: cb,
	}
}

// Enrich 熔断包装后的元数据查询
func (e *breakerEnricher) Enrich(ctx context.Context, isbn string) (string, string, error) {
	var genre, description string

	err := e.breaker.Execute(func() error {
		var innerErr error
		genre, description, innerErr = e.inner.Enrich(ctx, isbn)
		return innerErr
	})
	if err != nil {
		return "", "", err
	}

	return genre, description, nil
}
