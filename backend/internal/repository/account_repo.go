package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"team-planner/backend/internal/model"
)

// AccountRepository 内置身份提供方的凭据存取
type AccountRepository interface {
	// Create 邮箱已被注册时返回 ErrKeyExists
	Create(ctx context.Context, account *model.Account) error
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
}

type accountRepo struct {
	store KVStore
}

// NewAccountRepo 创建 AccountRepository 实例
func NewAccountRepo(store KVStore) AccountRepository {
	return &accountRepo{store: store}
}

func (r *accountRepo) Create(ctx context.Context, account *model.Account) error {
	account.Email = model.NormalizeEmail(account.Email)
	b, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("序列化账号失败: %w", err)
	}
	ok, err := r.store.SetIfAbsent(ctx, model.AccountKey(account.Email), b)
	if err != nil {
		return err
	}
	if !ok {
		return ErrKeyExists
	}
	return nil
}

func (r *accountRepo) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	if err := getJSON(ctx, r.store, model.AccountKey(email), &account); err != nil {
		return nil, err
	}
	return &account, nil
}
