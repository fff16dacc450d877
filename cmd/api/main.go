package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

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
	"github.com/xiebiao/bookcatalog/pkg/jwt"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
	"github.com/xiebiao/bookcatalog/pkg/mq"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// main 主程序入口
// 依赖注入链：Repository ← Service ← UseCase ← Handler
func main() {
	// 0. 加载.env（本地开发用，文件不存在时忽略）
	_ = godotenv.Load()

	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 目录库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - 库存库: %s:%d/%s\n", cfg.Inventory.Host, cfg.Inventory.Port, cfg.Inventory.DBName)
	fmt.Printf("  - 缓存后端: %s\n", cfg.Cache.Backend)

	// 2. 初始化Prometheus指标
	metrics.InitMetrics()

	// 3. 初始化数据库连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化目录数据库失败: %v", err)
	}

	inventoryDB, err := mysql.NewInventoryDB(cfg)
	if err != nil {
		log.Fatalf("初始化库存数据库失败: %v", err)
	}

	// 4. 快照缓存与推荐索引
	// 文件后端是默认值，redis后端用于多实例部署
	var snapshotCache book.SnapshotCache
	var recommendIndex book.RecommendationIndex
	if cfg.Cache.Backend == "redis" {
		redisClient, err := redis.NewClient(cfg)
		if err != nil {
			log.Fatalf("初始化Redis失败: %v", err)
		}
		snapshotCache = redis.NewBookCache(redisClient, cfg.Cache.KeyPrefix)
		recommendIndex = redis.NewRecommendationIndex(redisClient, cfg.Cache.KeyPrefix)
	} else {
		snapshotCache = filestore.NewBookCache(cfg.Cache.SnapshotFile)
		recommendIndex = filestore.NewRecommendationIndex(cfg.Cache.RecommendationFile)
	}

	// 5. 图书事件通知
	// MQ未启用时降级为日志输出
	var notifier book.Notifier
	if cfg.MQ.Enabled {
		publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
		if err != nil {
			log.Fatalf("初始化MQ失败: %v", err)
		}
		defer publisher.Close()
		notifier = event.NewNotifier(publisher)
	} else {
		notifier = event.NewLogNotifier()
	}

	// 6. 依赖注入（手动组装）

	// 基础设施层
	bookRepo := mysql.NewBookRepository(db)
	authorLedger := mysql.NewAuthorLedger(db)
	inventoryRepo := mysql.NewInventoryRepository(inventoryDB)
	enricher := enrichment.NewEnricher()

	// 领域层
	bookService := book.NewService(
		bookRepo,
		authorLedger,
		snapshotCache,
		recommendIndex,
		inventoryRepo,
		enricher,
		notifier,
	)

	// 应用层
	listBooksUseCase := appbook.NewListBooksUseCase(bookService)
	getBookUseCase := appbook.NewGetBookUseCase(bookService)
	createBookUseCase := appbook.NewCreateBookUseCase(bookService)
	updateBookUseCase := appbook.NewUpdateBookUseCase(bookService)
	deleteBookUseCase := appbook.NewDeleteBookUseCase(bookService)
	searchBooksUseCase := appbook.NewSearchBooksUseCase(bookService)
	salesReportUseCase := appbook.NewSalesReportUseCase(bookService)

	// 接口层
	bookHandler := handler.NewBookHandler(
		listBooksUseCase,
		getBookUseCase,
		createBookUseCase,
		updateBookUseCase,
		deleteBookUseCase,
		searchBooksUseCase,
		salesReportUseCase,
	)

	var authMiddleware *middleware.AuthMiddleware
	if cfg.Auth.Enabled {
		jwtManager := jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenExpire)
		authMiddleware = middleware.NewAuthMiddleware(jwtManager)
	}

	// 7. 初始化Gin引擎
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

	// 8. 注册路由
	registerRoutes(r, bookHandler, authMiddleware)

	// 9. 启动服务
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	fmt.Printf("\n🚀 服务启动成功！\n")
	fmt.Printf("   访问地址: http://localhost%s\n", addr)
	fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
	fmt.Printf("   图书列表: GET http://localhost%s/api/books\n", addr)
	fmt.Printf("   API文档:  http://localhost%s/swagger/index.html\n", addr)
	fmt.Printf("\n按Ctrl+C停止服务\n\n")

	if err := r.Run(addr); err != nil {
		log.Fatalf("启动服务失败: %v", err)
	}
}

// registerRoutes 注册路由
// authMiddleware为nil时全部接口开放访问
func registerRoutes(r *gin.Engine, bookHandler *handler.BookHandler, authMiddleware *middleware.AuthMiddleware) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档
	// 访问 http://localhost:8080/swagger/index.html 查看API文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 写操作可选保护
	guard := func(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
		if authMiddleware == nil {
			return handlers
		}
		return append([]gin.HandlerFunc{authMiddleware.RequireAuth()}, handlers...)
	}

	// 图书模块
	books := r.Group("/api/books")
	{
		books.GET("", bookHandler.ListBooks)
		books.GET("/search", bookHandler.SearchBooks)
		books.GET("/reports/sales", bookHandler.SalesReport)
		books.GET("/:id", bookHandler.GetBook)

		books.POST("", guard(bookHandler.CreateBook)...)
		books.PUT("/:id", guard(bookHandler.UpdateBook)...)
		books.DELETE("/:id", guard(bookHandler.DeleteBook)...)
	}
}
