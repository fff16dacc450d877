package book

import (
	"context"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// ListBooksUseCase 图书列表用例
// 设计说明:
// 1. 应用层负责用例编排,协调领域服务完成业务流程
// 2. 展示折扣在这一层计算，领域层对折扣无感知
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{bookService: bookService}
}

// Execute 执行列表用例
func (uc *ListBooksUseCase) Execute(ctx context.Context) ([]*BookView, error) {
	books, err := uc.bookService.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*BookView, len(books))
	for i, b := range books {
		views[i] = toDiscountedView(b)
	}
	return views, nil
}
