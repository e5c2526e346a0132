package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

func getJSON(ctx context.Context, store KVStore, key string, dst interface{}) error {
	b, err := store.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("解析 %s 失败: %w", key, err)
	}
	return nil
}

func putJSON(ctx context.Context, store KVStore, key string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("序列化 %s 失败: %w", key, err)
	}
	return store.Set(ctx, key, b)
}

// listJSON 扫描前缀并逐条解码，无法解码的记录记录告警后跳过
func listJSON[T any](ctx context.Context, store KVStore, prefix string, logger *zap.Logger) ([]T, error) {
	items, err := store.GetByPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		var v T
		if err := json.Unmarshal(it.Value, &v); err != nil {
			logger.Warn("跳过无法解析的记录", zap.String("key", it.Key), zap.Error(err))
			continue
		}
		out = append(out, v)
	}
	return out, nil
}
