package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationsTable 版本记录表
// kv_store 可能与其他应用共用一个库，不使用默认的 schema_migrations
const MigrationsTable = "planner_schema_migrations"

// RunMigrations 创建或升级 kv_store 表
// 迁移后版本必须等于内嵌的最新版本，dirty 状态返回错误
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	want, err := latestVersion(migrationsFS)
	if err != nil {
		return err
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("加载迁移文件失败: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: MigrationsTable})
	if err != nil {
		return fmt.Errorf("创建迁移驱动失败: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("初始化迁移实例失败: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("执行迁移失败: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("读取迁移版本失败: %w", err)
	}
	if dirty {
		return fmt.Errorf("kv_store 迁移处于 dirty 状态 (version=%d)，请手动修复 %s", version, MigrationsTable)
	}
	if version != want {
		return fmt.Errorf("kv_store 版本 %d 与内嵌迁移 %d 不一致", version, want)
	}

	logger.Info("kv_store 已就绪", zap.Uint("version", version), zap.String("table", MigrationsTable))
	return nil
}

// latestVersion 从文件名前缀（000001_xxx.up.sql）解析最新的 up 迁移版本
func latestVersion(fsys fs.FS) (uint, error) {
	entries, err := fs.ReadDir(fsys, "migrations")
	if err != nil {
		return 0, fmt.Errorf("读取迁移目录失败: %w", err)
	}

	var latest uint
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".up.sql") {
			continue
		}
		prefix, _, ok := strings.Cut(e.Name(), "_")
		if !ok {
			return 0, fmt.Errorf("迁移文件名无效: %s", e.Name())
		}
		v, err := strconv.ParseUint(prefix, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("迁移文件名无效: %s", e.Name())
		}
		if uint(v) > latest {
			latest = uint(v)
		}
	}
	if latest == 0 {
		return 0, errors.New("未找到 up 迁移")
	}
	return latest, nil
}
