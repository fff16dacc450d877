package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// stubService 领域服务替身
type stubService struct {
	books  []*book.Book
	nextID uint
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
	if err := b.Validate(); err != nil {
		return nil, err
	}
	s.nextID++
	b.ID = s.nextID
	b.ISBN = "ISBN-1718000000000"
	b.InternalCode = "TEST0001"
	s.books = append(s.books, b)
	return b, nil
}

func (s *stubService) UpdateBook(ctx context.Context, id uint, title, author string, price float64) (*book.Book, error) {
	b, err := s.GetBookByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Merge(title, author, price)
	return b, nil
}

func (s *stubService) DeleteBook(ctx context.Context, id uint) error {
	for i, b := range s.books {
		if b.ID == id {
			s.books = append(s.books[:i], s.books[i+1:]...)
			return nil
		}
	}
	return book.ErrBookNotFound
}

func newTestRouter(svc book.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewBookHandler(
		appbook.NewListBooksUseCase(svc),
		appbook.NewGetBookUseCase(svc),
		appbook.NewCreateBookUseCase(svc),
		appbook.NewUpdateBookUseCase(svc),
		appbook.NewDeleteBookUseCase(svc),
		appbook.NewSearchBooksUseCase(svc),
		appbook.NewSalesReportUseCase(svc),
	)

	r := gin.New()
	books := r.Group("/api/books")
	{
		books.GET("", h.ListBooks)
		books.GET("/search", h.SearchBooks)
		books.GET("/reports/sales", h.SalesReport)
		books.GET("/:id", h.GetBook)
		books.POST("", h.CreateBook)
		books.PUT("/:id", h.UpdateBook)
		books.DELETE("/:id", h.DeleteBook)
	}
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestListBooksEndpoint(t *testing.T) {
	svc := &stubService{books: []*book.Book{
		{ID: 1, Title: "平价书", Author: "甲", Price: 30},
		{ID: 2, Title: "高价书", Author: "乙", Price: 100},
	}}
	r := newTestRouter(svc)

	w, resp := doRequest(t, r, http.MethodGet, "/api/books", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, resp.Code)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)

	var views []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &views))
	require.Len(t, views, 2)

	assert.Equal(t, false, views[0]["discountApplied"])
	assert.Equal(t, true, views[1]["discountApplied"])
	assert.InDelta(t, 90.0, views[1]["discountedPrice"].(float64), 1e-9)
}

func TestGetBookEndpoint(t *testing.T) {
	svc := &stubService{books: []*book.Book{
		{ID: 1, Title: "书", Author: "甲", Price: 30, ViewCount: 7},
	}}
	r := newTestRouter(svc)

	t.Run("正常查询", func(t *testing.T) {
		w, resp := doRequest(t, r, http.MethodGet, "/api/books/1", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Zero(t, resp.Code)
	})

	t.Run("未知ID返回404", func(t *testing.T) {
		w, resp := doRequest(t, r, http.MethodGet, "/api/books/999", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.NotZero(t, resp.Code)
	})

	t.Run("非数字ID按不存在处理", func(t *testing.T) {
		w, _ := doRequest(t, r, http.MethodGet, "/api/books/abc", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("ID为0按不存在处理", func(t *testing.T) {
		w, _ := doRequest(t, r, http.MethodGet, "/api/books/0", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCreateBookEndpoint(t *testing.T) {
	t.Run("正常创建", func(t *testing.T) {
		r := newTestRouter(&stubService{})
		w, resp := doRequest(t, r, http.MethodPost, "/api/books",
			`{"title":"Go语言实战","author":"威廉","price":59.0}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Zero(t, resp.Code)

		data, err := json.Marshal(resp.Data)
		require.NoError(t, err)
		var view map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &view))
		assert.NotEmpty(t, view["isbn"])
		assert.NotEmpty(t, view["internalCode"])
	})

	t.Run("缺少必填字段返回400", func(t *testing.T) {
		r := newTestRouter(&stubService{})
		w, _ := doRequest(t, r, http.MethodPost, "/api/books", `{"title":"只有书名"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("校验失败返回400", func(t *testing.T) {
		r := newTestRouter(&stubService{})
		w, _ := doRequest(t, r, http.MethodPost, "/api/books",
			`{"title":"   ","author":"甲","price":10}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteBookEndpoint(t *testing.T) {
	svc := &stubService{books: []*book.Book{
		{ID: 1, Title: "书", Author: "甲", Price: 30},
	}}
	r := newTestRouter(svc)

	t.Run("删除成功返回空数据", func(t *testing.T) {
		w, resp := doRequest(t, r, http.MethodDelete, "/api/books/1", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Zero(t, resp.Code)
		assert.Nil(t, resp.Data)
	})

	t.Run("再次删除返回404", func(t *testing.T) {
		w, _ := doRequest(t, r, http.MethodDelete, "/api/books/1", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSearchBooksEndpoint(t *testing.T) {
	svc := &stubService{books: []*book.Book{
		{ID: 1, Title: "Science Fiction Primer", Author: "Asimov", Price: 10},
		{ID: 2, Title: "Cooking Basics", Author: "Fran", Price: 10},
	}}
	r := newTestRouter(svc)

	w, resp := doRequest(t, r, http.MethodGet, "/api/books/search?query=FIC", "")
	assert.Equal(t, http.StatusOK, w.Code)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var views []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &views))
	require.Len(t, views, 1)
	assert.Equal(t, "Science Fiction Primer", views[0]["title"])
}

func TestSalesReportEndpoint(t *testing.T) {
	svc := &stubService{books: []*book.Book{
		{ID: 1, Title: "a", Author: "张三", Price: 20, ViewCount: 10},
		{ID: 2, Title: "b", Author: "李四", Price: 100, ViewCount: 5},
	}}
	r := newTestRouter(svc)

	w, resp := doRequest(t, r, http.MethodGet, "/api/books/reports/sales", "")
	assert.Equal(t, http.StatusOK, w.Code)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var report map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &report))

	assert.InDelta(t, 70.0, report["totalRevenue"].(float64), 1e-9)
	assert.InDelta(t, 2, report["totalBooks"].(float64), 1e-9)
	assert.InDelta(t, 35.0, report["averagePrice"].(float64), 1e-9)
}
