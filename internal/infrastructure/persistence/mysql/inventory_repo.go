package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// inventoryRepository 库存登记实现
// 写入独立的库存库句柄，与目录主库不共享事务
type inventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository 创建库存登记仓储
func NewInventoryRepository(db *gorm.DB) book.Inventory {
	return &inventoryRepository{db: db}
}

// Record 登记图书的初始库存
func (r *inventoryRepository) Record(ctx context.Context, bookID uint, quantity int) error {
	model := &InventoryModel{BookID: bookID, Quantity: quantity}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "登记库存失败")
	}
	return nil
}
