package repository

import (
	"context"
	"errors"
	"fmt"

	apperrors "team-planner/backend/pkg/errors"
)

// ErrNotFound 键不存在
var ErrNotFound = fmt.Errorf("%w: 记录不存在", apperrors.ErrNotFound)

// ErrKeyExists SetIfAbsent 时键已存在
var ErrKeyExists = errors.New("键已存在")

// KV 键值对，Value 为 JSON 文本
type KV struct {
	Key   string
	Value []byte
}

// KVStore 通用键值存储：点读写 + 前缀扫描
// 除 ErrNotFound 外的错误均包装为 apperrors.ErrUpstreamUnavailable
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetIfAbsent 键不存在时写入，返回是否写入
	SetIfAbsent(ctx context.Context, key string, value []byte) (bool, error)
	// SetMany 按顺序原子写入，重复键以最后一次为准
	SetMany(ctx context.Context, items []KV) error
	// GetByPrefix 返回所有以 prefix 开头的记录，顺序不保证
	GetByPrefix(ctx context.Context, prefix string) ([]KV, error)
	Ping(ctx context.Context) error
}

// upstream 将存储层错误归类为上游不可用
func upstream(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", apperrors.ErrUpstreamUnavailable, op, err)
}
