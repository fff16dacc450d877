package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookcatalog/internal/domain/author"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// authorLedger 作者台账实现(MySQL)
// 作者名是业务主键，台账按名字精确匹配（区分大小写和空白）
type authorLedger struct {
	db *gorm.DB
}

// NewAuthorLedger 创建作者台账
func NewAuthorLedger(db *gorm.DB) author.Ledger {
	return &authorLedger{db: db}
}

// Exists 判断作者条目是否存在
func (l *authorLedger) Exists(ctx context.Context, name string) (bool, error) {
	var model AuthorModel
	err := l.db.WithContext(ctx).Where("name = ?", name).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, apperrors.Wrap(err, "查询作者台账失败")
	}
	return true, nil
}

// Create 创建作者条目，计数为1
// 并发下唯一索引可能冲突，冲突视为条目已存在
func (l *authorLedger) Create(ctx context.Context, name string) error {
	model := &AuthorModel{Name: name, BookCount: 1}
	if err := l.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return nil
		}
		return apperrors.Wrap(err, "创建作者台账失败")
	}
	return nil
}

// Decrement 作者计数减1，不会减为负数
// UPDATE authors SET book_count = book_count - 1 WHERE name = ? AND book_count > 0
// 作者不存在时静默跳过
func (l *authorLedger) Decrement(ctx context.Context, name string) error {
	err := l.db.WithContext(ctx).Model(&AuthorModel{}).
		Where("name = ?", name).
		Where("book_count > 0").
		Update("book_count", gorm.Expr("book_count - 1")).Error

	if err != nil {
		return apperrors.Wrap(err, "更新作者台账失败")
	}

	return nil
}
