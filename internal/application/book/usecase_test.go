package book

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// stubService 领域服务替身，返回固定的图书列表
type stubService struct {
	books []*book.Book
}

func (s *stubService) ListBooks(ctx context.Context) ([]*book.Book, error) {
	return s.books, nil
}

func (s *stubService) GetBookByID(ctx context.Context, id uint) (*book.Book, error) {
	for _, b := range s.books {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, book.ErrBookNotFound
}

func (s *stubService) CreateBook(ctx context.Context, title, author string, price float64) (*book.Book, error) {
	b := book.NewBook(title, author, price)
	b.ID = uint(len(s.books) + 1)
	s.books = append(s.books, b)
	return b, nil
}

func (s *stubService) UpdateBook(ctx context.Context, id uint, title, author string, price float64) (*book.Book, error) {
	return s.GetBookByID(ctx, id)
}

func (s *stubService) DeleteBook(ctx context.Context, id uint) error {
	return nil
}

func TestListBooksDiscount(t *testing.T) {
	ctx := context.Background()
	svc := &stubService{books: []*book.Book{
		{ID: 1, Title: "平价书", Author: "甲", Price: 50.0},
		{ID: 2, Title: "高价书", Author: "乙", Price: 100.0},
		{ID: 3, Title: "临界书", Author: "丙", Price: 50.01},
	}}

	views, err := NewListBooksUseCase(svc).Execute(ctx)
	require.NoError(t, err)
	require.Len(t, views, 3)

	// 价格不超过50不打折
	assert.False(t, views[0].DiscountApplied)
	assert.Zero(t, views[0].DiscountedPrice)

	// 价格超过50打9折
	assert.True(t, views[1].DiscountApplied)
	assert.InDelta(t, 90.0, views[1].DiscountedPrice, 1e-9)

	assert.True(t, views[2].DiscountApplied)
	assert.InDelta(t, 50.01*0.9, views[2].DiscountedPrice, 1e-9)
}

func TestSearchBooks(t *testing.T) {
	ctx := context.Background()
	svc := &stubService{books: []*book.Book{
		{ID: 1, Title: "Science Fiction Primer", Author: "Asimov"},
		{ID: 2, Title: "Cooking Basics", Author: "Fickle Fran"},
		{ID: 3, Title: "Go In Action", Author: "Kennedy"},
	}}
	uc := NewSearchBooksUseCase(svc)

	t.Run("大小写不敏感匹配书名或作者", func(t *testing.T) {
		views, err := uc.Execute(ctx, "fic")
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, uint(1), views[0].ID, "书名Fiction命中")
		assert.Equal(t, uint(2), views[1].ID, "作者Fickle命中")
	})

	t.Run("无命中返回空列表", func(t *testing.T) {
		views, err := uc.Execute(ctx, "不存在的关键词")
		require.NoError(t, err)
		assert.NotNil(t, views)
		assert.Empty(t, views)
	})

	t.Run("空查询匹配全部", func(t *testing.T) {
		views, err := uc.Execute(ctx, "")
		require.NoError(t, err)
		assert.Len(t, views, 3)
	})
}

func TestSalesReport(t *testing.T) {
	ctx := context.Background()

	t.Run("报表公式", func(t *testing.T) {
		svc := &stubService{books: []*book.Book{
			{ID: 1, Title: "a", Author: "张三", Price: 20, ViewCount: 10},
			{ID: 2, Title: "b", Author: "李四", Price: 100, ViewCount: 5},
		}}

		report, err := NewSalesReportUseCase(svc).Execute(ctx)
		require.NoError(t, err)

		// 20×10×0.1 + 100×5×0.1 = 20 + 50 = 70
		assert.InDelta(t, 70.0, report.TotalRevenue, 1e-9)
		assert.Equal(t, 2, report.TotalBooks)
		assert.InDelta(t, 35.0, report.AveragePrice, 1e-9)
		assert.Equal(t, map[string]int{"张三": 1, "李四": 1}, report.TopAuthors)
	})

	t.Run("作者计数从目录重算", func(t *testing.T) {
		svc := &stubService{books: []*book.Book{
			{ID: 1, Title: "a", Author: "张三", Price: 10},
			{ID: 2, Title: "b", Author: "张三", Price: 10},
			{ID: 3, Title: "c", Author: "李四", Price: 10},
		}}

		report, err := NewSalesReportUseCase(svc).Execute(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, report.TopAuthors["张三"])
		assert.Equal(t, 1, report.TopAuthors["李四"])
	})

	t.Run("空目录平均价格为0", func(t *testing.T) {
		report, err := NewSalesReportUseCase(&stubService{}).Execute(ctx)
		require.NoError(t, err)
		assert.Zero(t, report.TotalBooks)
		assert.Zero(t, report.AveragePrice)
		assert.Empty(t, report.TopAuthors)
	})
}

func TestGetBookNoDiscountFields(t *testing.T) {
	ctx := context.Background()
	svc := &stubService{books: []*book.Book{
		{ID: 1, Title: "高价书", Author: "甲", Price: 100},
	}}

	view, err := NewGetBookUseCase(svc).Execute(ctx, 1)
	require.NoError(t, err)
	assert.False(t, view.DiscountApplied, "详情接口不计算展示折扣")
	assert.Zero(t, view.DiscountedPrice)
}
