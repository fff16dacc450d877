package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	listBooksUseCase   *appbook.ListBooksUseCase
	getBookUseCase     *appbook.GetBookUseCase
	createBookUseCase  *appbook.CreateBookUseCase
	updateBookUseCase  *appbook.UpdateBookUseCase
	deleteBookUseCase  *appbook.DeleteBookUseCase
	searchBooksUseCase *appbook.SearchBooksUseCase
	salesReportUseCase *appbook.SalesReportUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	listBooksUseCase *appbook.ListBooksUseCase,
	getBookUseCase *appbook.GetBookUseCase,
	createBookUseCase *appbook.CreateBookUseCase,
	updateBookUseCase *appbook.UpdateBookUseCase,
	deleteBookUseCase *appbook.DeleteBookUseCase,
	searchBooksUseCase *appbook.SearchBooksUseCase,
	salesReportUseCase *appbook.SalesReportUseCase,
) *BookHandler {
	return &BookHandler{
		listBooksUseCase:   listBooksUseCase,
		getBookUseCase:     getBookUseCase,
		createBookUseCase:  createBookUseCase,
		updateBookUseCase:  updateBookUseCase,
		deleteBookUseCase:  deleteBookUseCase,
		searchBooksUseCase: searchBooksUseCase,
		salesReportUseCase: salesReportUseCase,
	}
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  返回全部图书，价格超过50的带展示折扣
// @Tags         图书
// @Produce      json
// @Success      200 {object} response.Response{data=[]dto.BookResponse}
// @Router       /api/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	views, err := h.listBooksUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toBookResponses(views))
}

// GetBook 图书详情
// @Summary      图书详情
// @Description  按ID查询图书，浏览计数加1
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	view, err := h.getBookUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toBookResponse(view))
}

// CreateBook 创建图书
// @Summary      创建图书
// @Description  创建图书，ISBN和内部编码由系统生成
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	view, err := h.createBookUseCase.Execute(c.Request.Context(), appbook.CreateBookRequest{
		Title:  req.Title,
		Author: req.Author,
		Price:  req.Price,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toBookResponse(view))
}

// UpdateBook 更新图书
// @Summary      更新图书
// @Description  部分更新书名、作者、价格
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        id path int true "图书ID"
// @Param        request body dto.UpdateBookRequest true "更新字段"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	view, err := h.updateBookUseCase.Execute(c.Request.Context(), appbook.UpdateBookRequest{
		ID:     id,
		Title:  req.Title,
		Author: req.Author,
		Price:  req.Price,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toBookResponse(view))
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Description  删除图书并同步作者台账
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.deleteBookUseCase.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SearchBooks 图书搜索
// @Summary      图书搜索
// @Description  按书名或作者做大小写不敏感的子串匹配
// @Tags         图书
// @Produce      json
// @Param        query query string false "搜索关键词"
// @Success      200 {object} response.Response{data=[]dto.BookResponse}
// @Router       /api/books/search [get]
func (h *BookHandler) SearchBooks(c *gin.Context) {
	query := c.Query("query")

	views, err := h.searchBooksUseCase.Execute(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toBookResponses(views))
}

// SalesReport 销售报表
// @Summary      销售报表
// @Description  从当前目录即时重算收入估算和作者分布
// @Tags         图书
// @Produce      json
// @Success      200 {object} response.Response{data=dto.SalesReportResponse}
// @Router       /api/books/reports/sales [get]
func (h *BookHandler) SalesReport(c *gin.Context) {
	report, err := h.salesReportUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.SalesReportResponse{
		TotalRevenue: report.TotalRevenue,
		TotalBooks:   report.TotalBooks,
		AveragePrice: report.AveragePrice,
		TopAuthors:   report.TopAuthors,
	})
}

// parseID 解析路径中的图书ID
// 非数字或非正数按"图书不存在"处理，不区分为参数错误
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		response.Error(c, book.ErrBookNotFound)
		return 0, false
	}
	return uint(id), true
}

func toBookResponse(v *appbook.BookView) *dto.BookResponse {
	return &dto.BookResponse{
		ID:              v.ID,
		Title:           v.Title,
		Author:          v.Author,
		Price:           v.Price,
		ISBN:            v.ISBN,
		InternalCode:    v.InternalCode,
		ViewCount:       v.ViewCount,
		Genre:           v.Genre,
		Description:     v.Description,
		DiscountApplied: v.DiscountApplied,
		DiscountedPrice: v.DiscountedPrice,
	}
}

func toBookResponses(views []*appbook.BookView) []*dto.BookResponse {
	out := make([]*dto.BookResponse, len(views))
	for i, v := range views {
		out[i] = toBookResponse(v)
	}
	return out
}
