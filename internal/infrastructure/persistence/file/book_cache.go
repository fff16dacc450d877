package file

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// bookCache 图书快照缓存实现(本地文件)
// 行格式: "id,title,author"，每次全量覆盖
type bookCache struct {
	path string
}

// NewBookCache 创建文件快照缓存
func NewBookCache(path string) book.SnapshotCache {
	return &bookCache{path: path}
}

// Write 覆盖写入全量快照
func (c *bookCache) Write(ctx context.Context, books []*book.Book) error {
	var sb strings.Builder
	for _, b := range books {
		sb.WriteString(strconv.FormatUint(uint64(b.ID), 10))
		sb.WriteString(",")
		sb.WriteString(b.Title)
		sb.WriteString(",")
		sb.WriteString(b.Author)
		sb.WriteString("\n")
	}

	if err := os.WriteFile(c.path, []byte(sb.String()), 0644); err != nil {
		return apperrors.Wrap(err, "写入快照文件失败")
	}
	return nil
}

// Invalidate 删除快照文件
// 文件本就不存在时视为成功
func (c *bookCache) Invalidate(ctx context.Context) error {
	if err := os.Remove(c.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return apperrors.Wrap(err, "删除快照文件失败")
	}
	return nil
}
