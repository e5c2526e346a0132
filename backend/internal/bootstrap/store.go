// Package bootstrap 按配置组装存储后端，供 HTTP 服务与命令行工具共用。
package bootstrap

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"team-planner/backend/config"
	"team-planner/backend/internal/repository"
	"team-planner/backend/pkg/database"
	"team-planner/backend/pkg/redis"
)

// Backend 已打开的存储后端
// Redis 在 store.driver=postgres 且连接失败时为 nil
type Backend struct {
	Store repository.KVStore
	Redis *redis.Client
	DB    *gorm.DB
}

// Open 按 store.driver 打开键值存储
// redis: Redis 为必需；postgres: 执行迁移，Redis 可选（仅用于黑名单与限流）
func Open(cfg *config.Config, logger *zap.Logger) (*Backend, error) {
	b := &Backend{}

	switch cfg.Store.Driver {
	case config.StoreDriverRedis:
		rdb, err := redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			return nil, err
		}
		b.Redis = rdb
		b.Store = repository.NewRedisStore(rdb)

	case config.StoreDriverPostgres:
		db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
		}
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		b.DB = db
		b.Store = repository.NewPostgresStore(db)

		// Redis 可选：连接失败时降级为进程内黑名单与限流
		rdb, err := redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，Token 黑名单与限流将使用进程内实现", zap.Error(err))
		} else {
			b.Redis = rdb
		}

	default:
		return nil, fmt.Errorf("未知存储驱动: %s", cfg.Store.Driver)
	}

	return b, nil
}

// Close 关闭所有连接
func (b *Backend) Close() {
	if b.DB != nil {
		if sqlDB, err := b.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if b.Redis != nil {
		_ = b.Redis.Close()
	}
}
