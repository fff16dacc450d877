package book

import (
	"context"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// SalesReportUseCase 销售报表用例
// 设计说明:
// 1. 全部指标从当前目录即时重算，不依赖作者台账
// 2. 收入估算公式：每本书贡献 价格 × 浏览次数 × 0.1
type SalesReportUseCase struct {
	bookService book.Service
}

// NewSalesReportUseCase 创建报表用例
func NewSalesReportUseCase(bookService book.Service) *SalesReportUseCase {
	return &SalesReportUseCase{bookService: bookService}
}

// SalesReport 销售报表DTO
type SalesReport struct {
	TotalRevenue float64        `json:"totalRevenue"`
	TotalBooks   int            `json:"totalBooks"`
	AveragePrice float64        `json:"averagePrice"`
	TopAuthors   map[string]int `json:"topAuthors"`
}

// 浏览量转化为销量的估算系数
const revenueViewFactor = 0.1

// Execute 执行报表用例
// 目录为空时averagePrice返回0而不是NaN
func (uc *SalesReportUseCase) Execute(ctx context.Context) (*SalesReport, error) {
	books, err := uc.bookService.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	report := &SalesReport{
		TotalBooks: len(books),
		TopAuthors: make(map[string]int),
	}

	for _, b := range books {
		report.TotalRevenue += b.Price * float64(b.ViewCount) * revenueViewFactor
		report.TopAuthors[b.Author]++
	}

	if report.TotalBooks > 0 {
		report.AveragePrice = report.TotalRevenue / float64(report.TotalBooks)
	}

	return report, nil
}
