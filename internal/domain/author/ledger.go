package author

import (
	"context"
)

// Entry 作者台账条目(反规范化的按作者聚合)
// 设计说明:
// 1. 以作者名为唯一键(与图书之间是字符串关联，非外键)
// 2. BookCount为该作者在目录中现存图书数:
//    首本图书创建时置1，图书删除时减1(下限为0)
type Entry struct {
	Name      string // 作者名，唯一键
	BookCount int    // 现存图书数
}

// Ledger 作者台账接口
// 设计说明:
// 1. Exists+Create是检查后插入，不是upsert；对同一作者
//    重复Create由唯一索引拒绝。并发创建同名新作者存在竞态，
//    属于已知脆弱点(各操作不跨语句加锁)
// 2. Decrement对不存在的作者影响0行，不报错
type Ledger interface {
	// Exists 作者是否已有台账条目
	Exists(ctx context.Context, name string) (bool, error)

	// Create 新建台账条目，BookCount=1
	// 调用方需先调用Exists检查
	Create(ctx context.Context, name string) error

	// Decrement 图书数减1，下限为0
	// 作者不存在时为无操作，不报错
	Decrement(ctx context.Context, name string) error
}
