package repository

import (
	"context"
	"errors"

	"team-planner/backend/pkg/redis"
)

// redisStore KVStore 的 Redis 实现
type redisStore struct {
	client *redis.Client
}

// NewRedisStore 创建基于 Redis 的 KVStore
func NewRedisStore(client *redis.Client) KVStore {
	return &redisStore{client: client}
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, upstream("redis get", err)
	}
	return b, nil
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value); err != nil {
		return upstream("redis set", err)
	}
	return nil
}

func (s *redisStore) SetIfAbsent(ctx context.Context, key string, value []byte) (bool, error) {
	ok, err := s.client.SetNX(ctx, key, value)
	if err != nil {
		return false, upstream("redis setnx", err)
	}
	return ok, nil
}

func (s *redisStore) SetMany(ctx context.Context, items []KV) error {
	pairs := make([]redis.Pair, len(items))
	for i, it := range items {
		pairs[i] = redis.Pair{Key: it.Key, Value: it.Value}
	}
	if err := s.client.SetBatch(ctx, pairs); err != nil {
		return upstream("redis multi", err)
	}
	return nil
}

func (s *redisStore) GetByPrefix(ctx context.Context, prefix string) ([]KV, error) {
	pairs, err := s.client.ScanPrefix(ctx, prefix)
	if err != nil {
		return nil, upstream("redis scan", err)
	}
	items := make([]KV, len(pairs))
	for i, p := range pairs {
		items[i] = KV{Key: p.Key, Value: p.Value}
	}
	return items, nil
}

func (s *redisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx); err != nil {
		return upstream("redis ping", err)
	}
	return nil
}
