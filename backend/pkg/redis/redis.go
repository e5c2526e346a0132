package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"team-planner/backend/config"
)

// ErrKeyNotFound 键不存在
var ErrKeyNotFound = errors.New("redis: 键不存在")

// scanCount 每次 SCAN 的建议数量，mgetChunk 每次 MGET 的键数
const (
	scanCount = 200
	mgetChunk = 500
)

// Client Redis 客户端封装
// 用作键值存储后端，同时承担 Token 黑名单与限流计数
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// Pair 键值对
type Pair struct {
	Key   string
	Value []byte
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// Ping 健康检查
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}

// ── 键值操作 ──

// Get 读取单个键，不存在时返回 ErrKeyNotFound
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrKeyNotFound
	}
	return b, err
}

// Set 写入单个键（不过期）
func (c *Client) Set(ctx context.Context, key string, value []byte) error {
	return c.rdb.Set(ctx, key, value, 0).Err()
}

// SetNX 仅在键不存在时写入，返回是否写入成功
func (c *Client) SetNX(ctx context.Context, key string, value []byte) (bool, error) {
	return c.rdb.SetNX(ctx, key, value, 0).Result()
}

// SetBatch 在一个 MULTI/EXEC 事务中按顺序写入
// 同一键出现多次时，以最后一次为准
func (c *Client) SetBatch(ctx context.Context, pairs []Pair) error {
	if len(pairs) == 0 {
		return nil
	}
	_, err := c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		for _, p := range pairs {
			pipe.Set(ctx, p.Key, p.Value, 0)
		}
		return nil
	})
	return err
}

// ScanPrefix 返回所有以 prefix 开头的键值，顺序不保证
func (c *Client) ScanPrefix(ctx context.Context, prefix string) ([]Pair, error) {
	var keys []string
	iter := c.rdb.Scan(ctx, 0, escapePattern(prefix)+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	// SCAN 可能重复返回同一个键
	seen := make(map[string]struct{}, len(keys))
	unique := keys[:0]
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, k)
	}

	pairs := make([]Pair, 0, len(unique))
	for start := 0; start < len(unique); start += mgetChunk {
		end := min(start+mgetChunk, len(unique))
		chunk := unique[start:end]
		vals, err := c.rdb.MGet(ctx, chunk...).Result()
		if err != nil {
			return nil, err
		}
		for i, v := range vals {
			s, ok := v.(string)
			if !ok {
				continue // SCAN 与 MGET 之间被删除
			}
			pairs = append(pairs, Pair{Key: chunk[i], Value: []byte(s)})
		}
	}
	return pairs, nil
}

// escapePattern 转义 glob 元字符，使 prefix 按字面匹配
func escapePattern(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ── Token 黑名单 ──

const blacklistPrefix = "token:blacklist:"

// BlacklistToken 将 JWT ID 加入黑名单，TTL 与 Token 剩余有效期一致
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // Token 已过期，无需加入黑名单
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted 检查 JWT ID 是否在黑名单中
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── 限流 ──

// CheckRateLimit 基于有序集合的滑动窗口计数
// 返回 true 表示本次请求在限额内
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	windowStart := now.Add(-window).UnixMicro()

	var card *goredis.IntCmd
	_, err := c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(windowStart, 10))
		card = pipe.ZCard(ctx, key)
		pipe.ZAdd(ctx, key, goredis.Z{Score: float64(now.UnixMicro()), Member: uuid.NewString()})
		pipe.Expire(ctx, key, window)
		return nil
	})
	if err != nil {
		return false, err
	}

	return card.Val() < int64(limit), nil
}
