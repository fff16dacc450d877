package book

import (
	"context"
)

// 旁路能力接口
// 设计说明:
// 1. 缓存快照、推荐索引、库存登记、元数据补全、事件通知
//    都是工作流的旁路副作用，通过接口注入，便于替换实现与测试
// 2. 除Enricher外，所有接口的失败都由工作流捕获并记录，
//    永远不改变主操作的结果(尽力而为语义)

// SnapshotCache 图书快照缓存
// 列表查询时整体覆写，写操作后失效
type SnapshotCache interface {
	// Write 整体覆写快照
	Write(ctx context.Context, books []*Book) error

	// Invalidate 删除快照
	Invalidate(ctx context.Context) error
}

// RecommendationIndex 推荐索引
// 按图书ID记录同作者的关联图书(占位实现，非排序推荐算法)
type RecommendationIndex interface {
	// Put 记录一本图书的关联图书ID列表
	Put(ctx context.Context, bookID uint, relatedIDs []uint) error

	// Remove 移除一本图书的索引条目
	Remove(ctx context.Context, bookID uint) error
}

// Inventory 库存登记
// 图书创建时登记初始库存(固定默认数量)，存储在独立的库存库
type Inventory interface {
	Record(ctx context.Context, bookID uint, quantity int) error
}

// Enricher 元数据补全
// 对接外部图书元数据服务，返回genre与description
// 调用失败时由工作流回落到默认值
type Enricher interface {
	Enrich(ctx context.Context, isbn string) (genre, description string, err error)
}

// Notifier 目录变更通知
// 图书创建/删除后发布事件，供下游通知与审计消费
type Notifier interface {
	BookCreated(ctx context.Context, book *Book) error
	BookDeleted(ctx context.Context, book *Book) error
}
