package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"team-planner/backend/internal/model"
)

// postgresStore KVStore 的 PostgreSQL 实现（kv_store 表）
type postgresStore struct {
	db *gorm.DB
}

// NewPostgresStore 创建基于 PostgreSQL 的 KVStore
func NewPostgresStore(db *gorm.DB) KVStore {
	return &postgresStore{db: db}
}

func (s *postgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var rec model.KVRecord
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, upstream("postgres get", err)
	}
	return rec.Value, nil
}

func (s *postgresStore) Set(ctx context.Context, key string, value []byte) error {
	if err := upsertKV(s.db.WithContext(ctx), key, value); err != nil {
		return upstream("postgres upsert", err)
	}
	return nil
}

func (s *postgresStore) SetIfAbsent(ctx context.Context, key string, value []byte) (bool, error) {
	rec := model.KVRecord{Key: key, Value: model.JSONValue(value), UpdatedAt: time.Now()}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rec)
	if res.Error != nil {
		return false, upstream("postgres insert", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// SetMany 在单个事务内逐条 upsert
// 逐条执行而非多行 INSERT：同一语句内重复键会触发 ON CONFLICT 错误
func (s *postgresStore) SetMany(ctx context.Context, items []KV) error {
	if len(items) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, it := range items {
			if err := upsertKV(tx, it.Key, it.Value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return upstream("postgres tx", err)
	}
	return nil
}

func (s *postgresStore) GetByPrefix(ctx context.Context, prefix string) ([]KV, error) {
	var recs []model.KVRecord
	err := s.db.WithContext(ctx).
		Where(`key LIKE ? ESCAPE '\'`, escapeLike(prefix)+"%").
		Find(&recs).Error
	if err != nil {
		return nil, upstream("postgres scan", err)
	}
	items := make([]KV, len(recs))
	for i, r := range recs {
		items[i] = KV{Key: r.Key, Value: r.Value}
	}
	return items, nil
}

func (s *postgresStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return upstream("postgres ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return upstream("postgres ping", err)
	}
	return nil
}

func upsertKV(tx *gorm.DB, key string, value []byte) error {
	rec := model.KVRecord{Key: key, Value: model.JSONValue(value), UpdatedAt: time.Now()}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
}

// escapeLike 转义 LIKE 通配符，使 prefix 按字面匹配
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
