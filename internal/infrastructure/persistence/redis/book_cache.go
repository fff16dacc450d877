package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// bookCache 图书快照缓存实现(Redis)
// 设计说明:
// 1. 与文件后端保持相同的行格式"id,title,author"，整个快照存在一个key里
// 2. 快照是旁路产物，读路径不回源，只有Write和Invalidate
type bookCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewBookCache 创建Redis快照缓存
func NewBookCache(client *redis.Client, keyPrefix string) book.SnapshotCache {
	return &bookCache{client: client, keyPrefix: keyPrefix}
}

func (c *bookCache) snapshotKey() string {
	return c.keyPrefix + ":books:snapshot"
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

	if err := c.client.Set(ctx, c.snapshotKey(), sb.String(), 0).Err(); err != nil {
		return apperrors.Wrap(err, "写入快照缓存失败")
	}
	return nil
}

// Invalidate 删除快照
func (c *bookCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.snapshotKey()).Err(); err != nil {
		return apperrors.Wrap(err, "删除快照缓存失败")
	}
	return nil
}

// recommendationIndex 推荐索引实现(Redis)
// 每本图书一个key，值为逗号分隔的关联图书ID
type recommendationIndex struct {
	client    *redis.Client
	keyPrefix string
}

// NewRecommendationIndex 创建Redis推荐索引
func NewRecommendationIndex(client *redis.Client, keyPrefix string) book.RecommendationIndex {
	return &recommendationIndex{client: client, keyPrefix: keyPrefix}
}

func (r *recommendationIndex) key(bookID uint) string {
	return fmt.Sprintf("%s:books:related:%d", r.keyPrefix, bookID)
}

// Put 记录图书的关联推荐
func (r *recommendationIndex) Put(ctx context.Context, bookID uint, relatedIDs []uint) error {
	ids := make([]string, len(relatedIDs))
	for i, id := range relatedIDs {
		ids[i] = strconv.FormatUint(uint64(id), 10)
	}

	if err := r.client.Set(ctx, r.key(bookID), strings.Join(ids, ","), 0).Err(); err != nil {
		return apperrors.Wrap(err, "写入推荐索引失败")
	}
	return nil
}

// Remove 移除图书的推荐条目
func (r *recommendationIndex) Remove(ctx context.Context, bookID uint) error {
	if err := r.client.Del(ctx, r.key(bookID)).Err(); err != nil {
		return apperrors.Wrap(err, "删除推荐索引失败")
	}
	return nil
}
