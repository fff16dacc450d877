package book

import (
	"context"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// UpdateBookUseCase 图书更新用例
type UpdateBookUseCase struct {
	bookService book.Service
}

// NewUpdateBookUseCase 创建更新用例
func NewUpdateBookUseCase(bookService book.Service) *UpdateBookUseCase {
	return &UpdateBookUseCase{bookService: bookService}
}

// UpdateBookRequest 更新请求DTO
// 部分更新语义：空书名/作者、非正价格视为未提供，保留原值
type UpdateBookRequest struct {
	ID     uint
	Title  string
	Author string
	Price  float64
}

// Execute 执行更新用例
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) (*BookView, error) {
	b, err := uc.bookService.UpdateBook(ctx, req.ID, req.Title, req.Author, req.Price)
	if err != nil {
		return nil, err
	}
	return toView(b), nil
}
