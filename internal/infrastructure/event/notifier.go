package event

import (
	"context"
	"log"
	"time"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/pkg/mq"
)

// Routing keys
const (
	RoutingKeyBookCreated = "book.created"
	RoutingKeyBookDeleted = "book.deleted"
)

// BookEvent 图书事件消息体
type BookEvent struct {
	BookID     uint      `json:"bookId"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	Price      float64   `json:"price"`
	ISBN       string    `json:"isbn"`
	OccurredAt time.Time `json:"occurredAt"`
}

// mqNotifier 图书事件通知实现(RabbitMQ)
// 创建和删除各发一条消息，下游（如通知服务、审计服务）自行订阅
type mqNotifier struct {
	publisher *mq.Publisher
}

// NewNotifier 创建MQ事件通知器
func NewNotifier(publisher *mq.Publisher) book.Notifier {
	return &mqNotifier{publisher: publisher}
}

func (n *mqNotifier) BookCreated(ctx context.Context, b *book.Book) error {
	return n.publisher.Publish(ctx, RoutingKeyBookCreated, toEvent(b))
}

func (n *mqNotifier) BookDeleted(ctx context.Context, b *book.Book) error {
	return n.publisher.Publish(ctx, RoutingKeyBookDeleted, toEvent(b))
}

func toEvent(b *book.Book) BookEvent {
	return BookEvent{
		BookID:     b.ID,
		Title:      b.Title,
		Author:     b.Author,
		Price:      b.Price,
		ISBN:       b.ISBN,
		OccurredAt: time.Now(),
	}
}

// logNotifier MQ未启用时的降级实现，事件只写日志
type logNotifier struct{}

// NewLogNotifier 创建日志事件通知器
func NewLogNotifier() book.Notifier {
	return &logNotifier{}
}

func (n *logNotifier) BookCreated(ctx context.Context, b *book.Book) error {
	log.Printf("[EVENT] book.created id=%d title=%q author=%q", b.ID, b.Title, b.Author)
	return nil
}

func (n *logNotifier) BookDeleted(ctx context.Context, b *book.Book) error {
	log.Printf("[EVENT] book.deleted id=%d title=%q author=%q", b.ID, b.Title, b.Author)
	return nil
}
