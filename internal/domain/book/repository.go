package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口，infrastructure层实现
// 2. 每个方法都是独立的原子操作，不跨语句开启事务
// 3. 便于Mock测试，不依赖具体数据库实现
type Repository interface {
	// List 查询全部图书，按书名升序
	// 无分页，结果集不设上限
	List(ctx context.Context) ([]*Book, error)

	// FindByID 根据ID查找图书，不存在时返回ErrBookNotFound
	FindByID(ctx context.Context, id uint) (*Book, error)

	// Create 创建图书，回填仓储分配的ID
	// 影响0行时返回持久化错误
	Create(ctx context.Context, book *Book) error

	// Update 持久化title/author/price三个可变字段
	// ID不存在(影响0行)时返回ErrBookNotFound
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书，ID不存在时返回ErrBookNotFound
	Delete(ctx context.Context, id uint) error

	// IncrViewCount 浏览次数+1(原子UPDATE)
	IncrViewCount(ctx context.Context, id uint) error
}
