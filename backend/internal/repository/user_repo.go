package repository

import (
	"context"

	"go.uber.org/zap"

	"team-planner/backend/internal/model"
)

// UserRepository 用户档案数据访问接口
type UserRepository interface {
	Get(ctx context.Context, id string) (*model.User, error)
	Put(ctx context.Context, user *model.User) error
	List(ctx context.Context) ([]model.User, error)
}

// userRepo UserRepository 的 KVStore 实现
type userRepo struct {
	store  KVStore
	logger *zap.Logger
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(store KVStore, logger *zap.Logger) UserRepository {
	return &userRepo{store: store, logger: logger}
}

func (r *userRepo) Get(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := getJSON(ctx, r.store, model.UserKey(id), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) Put(ctx context.Context, user *model.User) error {
	return putJSON(ctx, r.store, model.UserKey(user.ID), user)
}

func (r *userRepo) List(ctx context.Context) ([]model.User, error) {
	return listJSON[model.User](ctx, r.store, model.UserKeyPrefix, r.logger)
}
