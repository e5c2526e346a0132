package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"team-planner/backend/config"
	"team-planner/backend/pkg/redis"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// go-redis 连接池在 Close 后异步退出
		goleak.IgnoreTopFunction("github.com/redis/go-redis/v9/internal/pool.(*ConnPool).reaper"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

func TestMemoryLimiter_Allow(t *testing.T) {
	l := NewMemoryLimiter(2, time.Hour)
	defer l.Stop()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "1.2.3.4:/signup")
		if err != nil || !ok {
			t.Fatalf("第 %d 次请求应放行: ok=%v err=%v", i+1, ok, err)
		}
	}
	if ok, _ := l.Allow(ctx, "1.2.3.4:/signup"); ok {
		t.Error("超出限额的请求应被拒绝")
	}
	if ok, _ := l.Allow(ctx, "5.6.7.8:/signup"); !ok {
		t.Error("不同键应独立计数")
	}
}

func TestMemoryLimiter_Cleanup(t *testing.T) {
	l := NewMemoryLimiter(1, time.Hour)
	defer l.Stop()

	_, _ = l.Allow(context.Background(), "k")
	if l.size() != 1 {
		t.Fatalf("期望 1 个条目，实际 %d", l.size())
	}

	l.mu.Lock()
	l.entries["k"].lastAccess = time.Now().Add(-2 * time.Hour)
	l.mu.Unlock()

	l.cleanup()
	if l.size() != 0 {
		t.Errorf("过期条目应被清理，剩余 %d", l.size())
	}
}

func TestMemoryLimiter_StopTerminatesGoroutine(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	l := NewMemoryLimiter(1, 10*time.Millisecond)
	l.Stop()
}

func TestRedisLimiter_Allow(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := redis.NewClient(&config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	if err != nil {
		t.Fatalf("连接 miniredis 失败: %v", err)
	}
	defer client.Close()

	l := NewRedisLimiter(client, 1, time.Minute)
	ctx := context.Background()

	if ok, err := l.Allow(ctx, "ip:/login"); err != nil || !ok {
		t.Fatalf("首次请求应放行: ok=%v err=%v", ok, err)
	}
	if ok, _ := l.Allow(ctx, "ip:/login"); ok {
		t.Error("第二次请求应被拒绝")
	}
	if !mr.Exists("rate_limit:ip:/login") {
		t.Error("期望 Redis 中存在限流键")
	}
}
