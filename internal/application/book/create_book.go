package book

import (
	"context"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// CreateBookUseCase 图书创建用例
type CreateBookUseCase struct {
	bookService book.Service
}

// NewCreateBookUseCase 创建用例
func NewCreateBookUseCase(bookService book.Service) *CreateBookUseCase {
	return &CreateBookUseCase{bookService: bookService}
}

// CreateBookRequest 创建请求DTO
// 只接受书名、作者、价格，ISBN和内部编码由系统生成
type CreateBookRequest struct {
	Title  string
	Author string
	Price  float64
}

// Execute 执行创建用例
// 业务规则校验（非空书名作者、正价格）由领域服务负责
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (*BookView, error) {
	b, err := uc.bookService.CreateBook(ctx, req.Title, req.Author, req.Price)
	if err != nil {
		return nil, err
	}
	return toView(b), nil
}
