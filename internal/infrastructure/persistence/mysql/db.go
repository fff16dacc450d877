package mysql

import (
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
)

// NewDB 创建目录主库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := open(cfg.Database, cfg.Server.Mode)
	if err != nil {
		return nil, err
	}

	log.Println("✓ 目录数据库连接成功")

	// 自动迁移表结构（开发环境）
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := db.AutoMigrate(&BookModel{}, &AuthorModel{}); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// NewInventoryDB 创建库存库连接
// 库存登记走独立的数据库句柄，与目录主库解耦
func NewInventoryDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := open(cfg.Inventory, cfg.Server.Mode)
	if err != nil {
		return nil, err
	}

	log.Println("✓ 库存数据库连接成功")

	if err := db.AutoMigrate(&InventoryModel{}); err != nil {
		return nil, fmt.Errorf("库存数据库迁移失败: %w", err)
	}

	return db, nil
}

func open(dbCfg config.DatabaseConfig, mode string) (*gorm.DB, error) {
	logLevel := logger.Silent
	if mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(mysql.Open(dbCfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(dbCfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(dbCfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(dbCfg.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	return db, nil
}

// BookModel GORM图书模型
// 设计说明:
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/book/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
// 4. 不使用软删除，删除即物理删除
type BookModel struct {
	ID           uint    `gorm:"primaryKey"`
	Title        string  `gorm:"index:idx_search;size:200;not null;comment:书名"` // 搜索索引
	Author       string  `gorm:"index:idx_search;size:100;not null;comment:作者"` // 搜索索引
	Price        float64 `gorm:"not null;comment:价格(元)"`
	ISBN         string  `gorm:"size:32;comment:系统生成的ISBN"`
	InternalCode string  `gorm:"size:32;comment:内部编码"`
	ViewCount    int     `gorm:"default:0;comment:浏览次数"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// AuthorModel GORM作者台账模型
// 作者名是业务主键，有唯一索引
type AuthorModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;size:100;not null;comment:作者名"`
	BookCount int    `gorm:"default:0;comment:在库图书数"`
}

// TableName 指定表名
func (AuthorModel) TableName() string {
	return "authors"
}

// InventoryModel GORM库存登记模型
// 存放在独立的库存库中
type InventoryModel struct {
	ID       uint `gorm:"primaryKey"`
	BookID   uint `gorm:"index;not null;comment:图书ID"`
	Quantity int  `gorm:"not null;comment:初始库存数量"`
}

// TableName 指定表名
func (InventoryModel) TableName() string {
	return "inventory"
}
