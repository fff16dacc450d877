package book

import (
	"context"
	"log"
	"time"

	"github.com/xiebiao/bookcatalog/internal/domain/author"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
)

const (
	// DefaultInventoryQuantity 创建图书时登记的初始库存数量
	DefaultInventoryQuantity = 10

	// MaxRelatedBooks 推荐索引中记录的同作者图书上限
	MaxRelatedBooks = 3
)

// Service 图书工作流服务接口
// 设计说明:
// 1. 系统中唯一编排多步策略的组件：校验、作者台账、持久化、旁路副作用
// 2. 旁路副作用(缓存快照、推荐索引、库存登记、浏览计数、事件通知)
//    全部是尽力而为：失败只记日志和指标，不改变主操作结果
// 3. 元数据补全失败时回落到默认genre/description，不向上传播
type Service interface {
	// ListBooks 查询全部图书(按书名升序)并补全元数据
	// 旁路操作: 整体覆写快照缓存。不修改浏览计数
	ListBooks(ctx context.Context) ([]*Book, error)

	// GetBookByID 查询单本图书并补全元数据
	// id非正数或图书不存在时返回ErrBookNotFound
	// 旁路操作: 浏览次数+1(返回的是递增前的计数)
	GetBookByID(ctx context.Context, id uint) (*Book, error)

	// CreateBook 创建图书
	// 校验字段，确保作者台账条目存在，生成内部编码与ISBN，持久化
	// 旁路操作: 库存登记(默认数量)、推荐索引、创建事件
	CreateBook(ctx context.Context, title, authorName string, price float64) (*Book, error)

	// UpdateBook 部分更新
	// 空书名/空作者/非正价格视为"未提供"，保留现有值；合并后整体校验
	// 旁路操作: 快照缓存失效
	UpdateBook(ctx context.Context, id uint, title, authorName string, price float64) (*Book, error)

	// DeleteBook 删除图书
	// 不存在时返回ErrBookNotFound；作者台账图书数减1
	// 旁路操作: 快照缓存失效、移除推荐索引条目、删除事件
	DeleteBook(ctx context.Context, id uint) error
}

// service 工作流服务实现
// 所有依赖显式注入，不使用包级单例
type service struct {
	repo      Repository
	ledger    author.Ledger
	cache     SnapshotCache
	recommend RecommendationIndex
	inventory Inventory
	enricher  Enricher
	notifier  Notifier
}

// NewService 创建图书工作流服务
func NewService(
	repo Repository,
	ledger author.Ledger,
	cache SnapshotCache,
	recommend RecommendationIndex,
	inventory Inventory,
	enricher Enricher,
	notifier Notifier,
) Service {
	return &service{
		repo:      repo,
		ledger:    ledger,
		cache:     cache,
		recommend: recommend,
		inventory: inventory,
		enricher:  enricher,
		notifier:  notifier,
	}
}

// ListBooks 查询全部图书
func (s *service) ListBooks(ctx context.Context) ([]*Book, error) {
	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	// 旁路: 整体覆写快照缓存
	if err := s.cache.Write(ctx, books); err != nil {
		s.logSideEffectFailure("cache", err)
	}

	// 逐本补全元数据
	for _, b := range books {
		s.enrich(ctx, b)
	}

	return books, nil
}

// GetBookByID 查询单本图书
func (s *service) GetBookByID(ctx context.Context, id uint) (*Book, error) {
	// 非法ID视为不存在，不作为参数错误上报
	if id == 0 {
		return nil, ErrBookNotFound
	}

	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.enrich(ctx, b)

	// 旁路: 浏览次数+1，失败不影响返回结果
	if err := s.repo.IncrViewCount(ctx, id); err != nil {
		s.logSideEffectFailure("view_count", err)
	}
	metrics.IncCounter(metrics.BookViewsTotal)

	return b, nil
}

// CreateBook 创建图书
func (s *service) CreateBook(ctx context.Context, title, authorName string, price float64) (*Book, error) {
	b := NewBook(title, authorName, price)
	if err := b.Validate(); err != nil {
		return nil, err
	}

	// 确保作者台账条目存在(检查后插入，非upsert)
	exists, err := s.ledger.Exists(ctx, b.Author)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := s.ledger.Create(ctx, b.Author); err != nil {
			return nil, err
		}
	}

	// 生成内部编码与ISBN(均为时间衍生值)
	now := time.Now()
	b.InternalCode = b.GenerateInternalCode(now)
	b.ISBN = GenerateISBN(now)

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	// 旁路: 登记初始库存
	if err := s.inventory.Record(ctx, b.ID, DefaultInventoryQuantity); err != nil {
		s.logSideEffectFailure("inventory", err)
	}

	// 旁路: 写入推荐索引(同作者，先到先得，非排序)
	if related, err := s.findRelatedBooks(ctx, b); err != nil {
		s.logSideEffectFailure("recommendation", err)
	} else if err := s.recommend.Put(ctx, b.ID, related); err != nil {
		s.logSideEffectFailure("recommendation", err)
	}

	// 旁路: 发布创建事件
	if err := s.notifier.BookCreated(ctx, b); err != nil {
		s.logSideEffectFailure("notify", err)
	}

	metrics.IncCounter(metrics.BooksCreatedTotal)
	return b, nil
}

// UpdateBook 部分更新
func (s *service) UpdateBook(ctx context.Context, id uint, title, authorName string, price float64) (*Book, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Merge(title, authorName, price)
	if err := existing.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	// 旁路: 快照缓存失效
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logSideEffectFailure("cache", err)
	}

	return existing, nil
}

// DeleteBook 删除图书
func (s *service) DeleteBook(ctx context.Context, id uint) error {
	// 直接走仓储查询，不复用GetBookByID
	// (避免给即将删除的图书递增浏览计数)
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.ledger.Decrement(ctx, b.Author); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	// 旁路: 快照缓存失效
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logSideEffectFailure("cache", err)
	}

	// 旁路: 移除推荐索引条目
	if err := s.recommend.Remove(ctx, id); err != nil {
		s.logSideEffectFailure("recommendation", err)
	}

	// 旁路: 发布删除事件
	if err := s.notifier.BookDeleted(ctx, b); err != nil {
		s.logSideEffectFailure("notify", err)
	}

	metrics.IncCounter(metrics.BooksDeletedTotal)
	return nil
}

// enrich 补全单本图书的元数据
// 补全服务任何错误都回落到默认值，不向上传播
func (s *service) enrich(ctx context.Context, b *Book) {
	genre, description, err := s.enricher.Enrich(ctx, b.ISBN)
	if err != nil {
		b.ApplyEnrichmentFallback()
		metrics.IncCounter(metrics.EnrichmentFallbacksTotal)
		return
	}
	b.ApplyEnrichment(genre, description)
}

// findRelatedBooks 查找同作者的其他图书ID(最多MaxRelatedBooks本)
// 全表线性扫描，先到先得，非相似度排序(占位实现)
func (s *service) findRelatedBooks(ctx context.Context, b *Book) ([]uint, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	related := make([]uint, 0, MaxRelatedBooks)
	for _, other := range all {
		if other.ID == b.ID || other.Author != b.Author {
			continue
		}
		related = append(related, other.ID)
		if len(related) == MaxRelatedBooks {
			break
		}
	}
	return related, nil
}

// logSideEffectFailure 记录旁路副作用失败
// 只进日志和指标，调用方继续执行主流程
func (s *service) logSideEffectFailure(effect string, err error) {
	log.Printf("[WARN] 旁路操作失败 effect=%s: %v", effect, err)
	metrics.IncCounterVec(metrics.SideEffectFailuresTotal, map[string]string{"effect": effect})
}
