package repository

import "go.uber.org/zap"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Store    KVStore
	User     UserRepository
	Planning PlanningRepository
	Account  AccountRepository
}

// NewRepository 基于同一个 KVStore 创建 Repository 聚合
func NewRepository(store KVStore, logger *zap.Logger) *Repository {
	return &Repository{
		Store:    store,
		User:     NewUserRepo(store, logger),
		Planning: NewPlanningRepo(store, logger),
		Account:  NewAccountRepo(store),
	}
}
