// Package ratelimit 提供按键（通常为 IP + 路由）的请求限流。
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"team-planner/backend/pkg/redis"
)

// Limiter 限流器接口
type Limiter interface {
	// Allow 返回本次请求是否在限额内
	Allow(ctx context.Context, key string) (bool, error)
}

// ── Redis 滑动窗口 ──

// RedisLimiter 多实例部署时共享计数
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRedisLimiter 创建基于 Redis 的限流器
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return l.client.CheckRateLimit(ctx, "rate_limit:"+key, l.limit, l.window)
}

// ── 进程内令牌桶 ──

type entry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// MemoryLimiter 单实例部署（无 Redis）时使用
// 每个键一个令牌桶：容量 limit，每 window 补满
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	rate    rate.Limit
	burst   int
	ttl     time.Duration
	stopCh  chan struct{}
	done    chan struct{}
}

// NewMemoryLimiter 创建进程内限流器，并启动过期条目清理
// 调用方负责在退出前调用 Stop
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	l := &MemoryLimiter{
		entries: make(map[string]*entry),
		rate:    rate.Limit(float64(limit) / window.Seconds()),
		burst:   limit,
		ttl:     window,
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
	go l.cleanupLoop(window)
	return l
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.entries[key] = e
	}
	e.lastAccess = time.Now()
	return e.limiter.Allow(), nil
}

// Stop 停止后台清理协程
func (l *MemoryLimiter) Stop() {
	close(l.stopCh)
	<-l.done
}

func (l *MemoryLimiter) cleanupLoop(interval time.Duration) {
	defer close(l.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stopCh:
			return
		}
	}
}

// cleanup 移除超过一个窗口未访问的键，此时其令牌桶必然已补满
func (l *MemoryLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-l.ttl)
	for k, e := range l.entries {
		if e.lastAccess.Before(cutoff) {
			delete(l.entries, k)
		}
	}
}

func (l *MemoryLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
