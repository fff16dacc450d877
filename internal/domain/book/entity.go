package book

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Book 图书实体(聚合根)
// 设计说明:
// 1. ID由仓储在创建时分配，此后不可变
// 2. ISBN与InternalCode均为系统生成，不接受调用方传入
// 3. ViewCount在单本查询时递增(旁路操作，失败不影响查询结果)
// 4. Genre/Description由外部补全服务填充，失败时回落到默认值
// 5. DiscountApplied/DiscountedPrice仅在列表响应时临时计算，不落库
type Book struct {
	ID           uint    // 主键，仓储分配
	Title        string  // 书名(必填，非空白)
	Author       string  // 作者名(必填，非空白；纯字符串关联，非外键)
	Price        float64 // 价格，必须>0
	ISBN         string  // 系统生成的ISBN
	InternalCode string  // 系统生成的内部编码(作者/书名前缀+时间后缀)
	ViewCount    int     // 浏览次数
	Genre        string  // 类型(补全服务填充)
	Description  string  // 描述(补全服务填充)

	// 展示期字段，仅列表接口临时计算，永不持久化
	DiscountApplied bool
	DiscountedPrice float64
}

// NewBook 创建新图书(工厂方法)
// 只接收调用方可指定的三个字段，其余由工作流生成
func NewBook(title, author string, price float64) *Book {
	return &Book{
		Title:  title,
		Author: author,
		Price:  price,
	}
}

// Validate 业务规则校验
// 规则: 书名非空白、作者非空白、价格>0
// 返回的错误指明具体违规字段
func (b *Book) Validate() error {
	if b == nil {
		return ErrNilBook
	}
	if strings.TrimSpace(b.Title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(b.Author) == "" {
		return ErrAuthorRequired
	}
	if b.Price <= 0 {
		return ErrInvalidPrice
	}
	return nil
}

// ApplyEnrichment 填充补全元数据
func (b *Book) ApplyEnrichment(genre, description string) {
	b.Genre = genre
	b.Description = description
}

// ApplyEnrichmentFallback 补全失败时的默认值
func (b *Book) ApplyEnrichmentFallback() {
	b.Genre = DefaultGenre
	b.Description = DefaultDescription
}

// Merge 部分更新合并
// 规则: 传入字段非空(书名/作者)或>0(价格)时才覆盖现有值
func (b *Book) Merge(title, author string, price float64) {
	if title != "" {
		b.Title = title
	}
	if author != "" {
		b.Author = author
	}
	if price > 0 {
		b.Price = price
	}
}

// 补全失败的默认元数据
const (
	DefaultGenre       = "Unknown"
	DefaultDescription = "No description available"
)

// GenerateInternalCode 生成内部编码
// 规则: 作者前2字符 + 书名前2字符(均大写) + 时间毫秒数模10000
// 不足2字符时取全部，避免越界
func (b *Book) GenerateInternalCode(now time.Time) string {
	suffix := now.UnixMilli() % 10000
	return upperPrefix(b.Author, 2) + upperPrefix(b.Title, 2) + strconv.FormatInt(suffix, 10)
}

// GenerateISBN 生成ISBN
// 规则: "ISBN-" + 时间毫秒数
func GenerateISBN(now time.Time) string {
	return "ISBN-" + strconv.FormatInt(now.UnixMilli(), 10)
}

// upperPrefix 取字符串前n个字符并大写(按rune截取，兼容多字节字符)
func upperPrefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		runes = runes[:n]
	}
	for i, r := range runes {
		runes[i] = unicode.ToUpper(r)
	}
	return string(runes)
}
