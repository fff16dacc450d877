package book

import (
	"context"
	"strings"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// SearchBooksUseCase 图书搜索用例
// 设计说明:
// 1. 大小写不敏感的子串匹配，命中书名或作者即返回
// 2. 在内存中对全量列表线性过滤，无索引，目录规模小时足够
// 3. 搜索结果不计算展示折扣
type SearchBooksUseCase struct {
	bookService book.Service
}

// NewSearchBooksUseCase 创建搜索用例
func NewSearchBooksUseCase(bookService book.Service) *SearchBooksUseCase {
	return &SearchBooksUseCase{bookService: bookService}
}

// Execute 执行搜索用例
func (uc *SearchBooksUseCase) Execute(ctx context.Context, query string) ([]*BookView, error) {
	books, err := uc.bookService.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)

	views := make([]*BookView, 0)
	for _, b := range books {
		if strings.Contains(strings.ToLower(b.Title), needle) ||
			strings.Contains(strings.ToLower(b.Author), needle) {
			views = append(views, toView(b))
		}
	}
	return views, nil
}
