package file

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// recommendationIndex 推荐索引实现(本地文件)
// 行格式: "id:a,b,"，每个关联ID后都带逗号
// Put追加一行，Remove重写文件去掉对应行
type recommendationIndex struct {
	path string
	mu   sync.Mutex // 追加和重写互斥
}

// NewRecommendationIndex 创建文件推荐索引
func NewRecommendationIndex(path string) book.RecommendationIndex {
	return &recommendationIndex{path: path}
}

// Put 追加图书的关联推荐行
func (r *recommendationIndex) Put(ctx context.Context, bookID uint, relatedIDs []uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sb strings.Builder
	sb.WriteString(strconv.FormatUint(uint64(bookID), 10))
	sb.WriteString(":")
	for _, id := range relatedIDs {
		sb.WriteString(strconv.FormatUint(uint64(id), 10))
		sb.WriteString(",")
	}
	sb.WriteString("\n")

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return apperrors.Wrap(err, "打开推荐索引文件失败")
	}
	defer f.Close()

	if _, err := f.WriteString(sb.String()); err != nil {
		return apperrors.Wrap(err, "写入推荐索引失败")
	}
	return nil
}

// Remove 重写文件，去掉指定图书的推荐行
func (r *recommendationIndex) Remove(ctx context.Context, bookID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return apperrors.Wrap(err, "读取推荐索引文件失败")
	}

	prefix := strconv.FormatUint(uint64(bookID), 10) + ":"

	var sb strings.Builder
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" || strings.HasPrefix(line, prefix) {
			continue
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	if err := os.WriteFile(r.path, []byte(sb.String()), 0644); err != nil {
		return apperrors.Wrap(err, "重写推荐索引文件失败")
	}
	return nil
}
