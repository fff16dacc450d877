package dto

// CreateBookRequest HTTP创建图书请求
// ISBN和内部编码由服务端生成，请求中即使携带也会被忽略
type CreateBookRequest struct {
	Title  string  `json:"title" binding:"required" example:"Go语言实战"`
	Author string  `json:"author" binding:"required" example:"威廉·肯尼迪"`
	Price  float64 `json:"price" binding:"required" example:"59.0"`
}

// UpdateBookRequest HTTP更新图书请求
// 部分更新：省略的字段保留原值，非正价格同样视为未提供
type UpdateBookRequest struct {
	Title  string  `json:"title" example:"Go语言实战(第2版)"`
	Author string  `json:"author" example:"威廉·肯尼迪"`
	Price  float64 `json:"price" example:"69.0"`
}

// BookResponse HTTP图书响应
// discountApplied/discountedPrice只在列表接口有意义，详情接口恒为零值
type BookResponse struct {
	ID              uint    `json:"id" example:"1"`
	Title           string  `json:"title" example:"Go语言实战"`
	Author          string  `json:"author" example:"威廉·肯尼迪"`
	Price           float64 `json:"price" example:"59.0"`
	ISBN            string  `json:"isbn" example:"ISBN-1718000000000"`
	InternalCode    string  `json:"internalCode" example:"威·GO1234"`
	ViewCount       int     `json:"viewCount" example:"7"`
	Genre           string  `json:"genre" example:"Fiction"`
	Description     string  `json:"description" example:"A fascinating book about..."`
	DiscountApplied bool    `json:"discountApplied" example:"true"`
	DiscountedPrice float64 `json:"discountedPrice" example:"53.1"`
}

// SalesReportResponse HTTP销售报表响应
type SalesReportResponse struct {
	TotalRevenue float64        `json:"totalRevenue" example:"70.0"`
	TotalBooks   int            `json:"totalBooks" example:"2"`
	AveragePrice float64        `json:"averagePrice" example:"35.0"`
	TopAuthors   map[string]int `json:"topAuthors"`
}
