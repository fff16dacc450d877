//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 设计说明：
// 1. Wire在编译期生成依赖组装代码，零运行时开销
// 2. 运行 `wire gen ./cmd/api` 生成wire_gen.go
// 3. main.go当前使用手动注入，两者组装的依赖链一致

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/enrichment"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/event"
	filestore "github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/file"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookcatalog/internal/interface/http/handler"
	"github.com/xiebiao/bookcatalog/internal/interface/http/middleware"
	"github.com/xiebiao/bookcatalog/pkg/mq"
)

// infrastructureSet 基础设施层依赖
var infrastructureSet = wire.NewSet(
	config.Load,
	mysql.NewDB,
	provideInventoryRepository,
	provideSnapshotCache,
	provideRecommendationIndex,
	provideNotifier,
	enrichment.NewEnricher,
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewBookRepository,
	mysql.NewAuthorLedger,
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	book.NewService,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appbook.NewListBooksUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewCreateBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
	appbook.NewSearchBooksUseCase,
	appbook.NewSalesReportUseCase,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewBookHandler,
)

// provideInventoryRepository 库存登记走独立的数据库句柄
func provideInventoryRepository(cfg *config.Config) (book.Inventory, error) {
	inventoryDB, err := mysql.NewInventoryDB(cfg)
	if err != nil {
		return nil, err
	}
	return mysql.NewInventoryRepository(inventoryDB), nil
}

// provideSnapshotCache 按配置选择快照缓存后端
func provideSnapshotCache(cfg *config.Config) (book.SnapshotCache, error) {
	if cfg.Cache.Backend == "redis" {
		client, err := redis.NewClient(cfg)
		if err != nil {
			return nil, err
		}
		return redis.NewBookCache(client, cfg.Cache.KeyPrefix), nil
	}
	return filestore.NewBookCache(cfg.Cache.SnapshotFile), nil
}

// provideRecommendationIndex 按配置选择推荐索引后端
func provideRecommendationIndex(cfg *config.Config) (book.RecommendationIndex, error) {
	if cfg.Cache.Backend == "redis" {
		client, err := redis.NewClient(cfg)
		if err != nil {
			return nil, err
		}
		return redis.NewRecommendationIndex(client, cfg.Cache.KeyPrefix), nil
	}
	return filestore.NewRecommendationIndex(cfg.Cache.RecommendationFile), nil
}

// provideNotifier MQ未启用时降级为日志输出
func provideNotifier(cfg *config.Config) (book.Notifier, error) {
	if !cfg.MQ.Enabled {
		return event.NewLogNotifier(), nil
	}
	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
	if err != nil {
		return nil, err
	}
	return event.NewNotifier(publisher), nil
}

// provideGinEngine 创建Gin引擎并注册路由
func provideGinEngine(cfg *config.Config, bookHandler *handler.BookHandler) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}

	registerRoutes(r, bookHandler, nil)
	return r
}

// InitializeApp 初始化整个应用
// Wire会在wire_gen.go中生成实际的组装代码，这里的返回值是占位符
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		handlerSet,
		provideGinEngine,
	)
	return nil, nil
}
