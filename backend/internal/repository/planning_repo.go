package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"team-planner/backend/internal/model"
)

// PlanningRepository 排期条目数据访问接口
// 列表方法返回无序结果，过滤与分组由调用方在内存中完成
type PlanningRepository interface {
	Get(ctx context.Context, userID, date, period string) (*model.PlanningEntry, error)
	// Put 按组合键 upsert，按输入顺序写入
	Put(ctx context.Context, entries []model.PlanningEntry) error
	ListByUser(ctx context.Context, userID string) ([]model.PlanningEntry, error)
	ListAll(ctx context.Context) ([]model.PlanningEntry, error)
}

type planningRepo struct {
	store  KVStore
	logger *zap.Logger
}

// NewPlanningRepo 创建 PlanningRepository 实例
func NewPlanningRepo(store KVStore, logger *zap.Logger) PlanningRepository {
	return &planningRepo{store: store, logger: logger}
}

func (r *planningRepo) Get(ctx context.Context, userID, date, period string) (*model.PlanningEntry, error) {
	var entry model.PlanningEntry
	if err := getJSON(ctx, r.store, model.PlanningKey(userID, date, period), &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *planningRepo) Put(ctx context.Context, entries []model.PlanningEntry) error {
	items := make([]KV, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		e.ID = e.Key()
		b, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("序列化排期条目失败: %w", err)
		}
		items = append(items, KV{Key: e.ID, Value: b})
	}
	return r.store.SetMany(ctx, items)
}

func (r *planningRepo) ListByUser(ctx context.Context, userID string) ([]model.PlanningEntry, error) {
	return listJSON[model.PlanningEntry](ctx, r.store, model.UserPlanningPrefix(userID), r.logger)
}

func (r *planningRepo) ListAll(ctx context.Context) ([]model.PlanningEntry, error) {
	return listJSON[model.PlanningEntry](ctx, r.store, model.PlanningKeyPrefix, r.logger)
}
