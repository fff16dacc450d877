package book

import (
	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// BookView 图书响应DTO
// 设计说明:
// 1. 应用层的输出模型，与HTTP层解耦
// 2. 字段名使用camelCase，与对外契约保持一致
// 3. discountApplied/discountedPrice是展示期字段，只在列表接口计算，从不落库
type BookView struct {
	ID              uint    `json:"id"`
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	Price           float64 `json:"price"`
	ISBN            string  `json:"isbn"`
	InternalCode    string  `json:"internalCode"`
	ViewCount       int     `json:"viewCount"`
	Genre           string  `json:"genre"`
	Description     string  `json:"description"`
	DiscountApplied bool    `json:"discountApplied"`
	DiscountedPrice float64 `json:"discountedPrice"`
}

// 展示期折扣规则：价格超过50打9折
const (
	discountThreshold = 50.0
	discountRate      = 0.9
)

// toView 领域实体 → 响应DTO
func toView(b *book.Book) *BookView {
	return &BookView{
		ID:           b.ID,
		Title:        b.Title,
		Author:       b.Author,
		Price:        b.Price,
		ISBN:         b.ISBN,
		InternalCode: b.InternalCode,
		ViewCount:    b.ViewCount,
		Genre:        b.Genre,
		Description:  b.Description,
	}
}

// toDiscountedView 领域实体 → 带展示折扣的响应DTO
// 每次列表调用重新计算，结果不回写任何存储
func toDiscountedView(b *book.Book) *BookView {
	v := toView(b)
	if v.Price > discountThreshold {
		v.DiscountApplied = true
		v.DiscountedPrice = v.Price * discountRate
	}
	return v
}
