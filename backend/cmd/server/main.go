package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"team-planner/backend/config"
	"team-planner/backend/internal/api/handler"
	"team-planner/backend/internal/api/router"
	"team-planner/backend/internal/bootstrap"
	"team-planner/backend/internal/repository"
	"team-planner/backend/internal/service"
	"team-planner/backend/pkg/jwt"
	applogger "team-planner/backend/pkg/logger"
	"team-planner/backend/pkg/metrics"
	"team-planner/backend/pkg/ratelimit"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（默认 ./config/config.yaml）")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("store", cfg.Store.Driver),
		zap.String("timezone", cfg.Server.Timezone),
		zap.Bool("split_periods", cfg.Planning.SplitPeriods),
	)

	// 3. 打开存储后端
	backend, err := bootstrap.Open(cfg, logger)
	if err != nil {
		logger.Fatal("存储初始化失败", zap.Error(err))
	}
	defer backend.Close()

	// 4. 黑名单与限流：有 Redis 用 Redis，否则进程内实现
	var blacklist service.TokenBlacklist
	var limiter ratelimit.Limiter
	var memLimiter *ratelimit.MemoryLimiter
	if backend.Redis != nil {
		blacklist = backend.Redis
		if cfg.RateLimit.Enabled {
			limiter = ratelimit.NewRedisLimiter(backend.Redis, cfg.RateLimit.Limit, cfg.RateLimit.Window)
		}
	} else if cfg.RateLimit.Enabled {
		memLimiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.Limit, cfg.RateLimit.Window)
		limiter = memLimiter
	}

	// 5. 指标
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	// 6. 依赖注入: Repository → Service → Handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(backend.Store, logger)
	svc := service.NewService(cfg, repo, jwtMgr, blacklist, collector, logger)
	h := handler.NewHandler(svc)

	// 7. 初始化路由
	engine := router.Setup(cfg, h, svc, limiter, collector, reg, logger)

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	if memLimiter != nil {
		memLimiter.Stop()
	}

	logger.Info("服务器已关闭")
}
