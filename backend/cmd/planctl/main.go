// planctl 团队排期运维命令行：提升管理者、导出周视图、列出用户。
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"team-planner/backend/config"
	"team-planner/backend/internal/bootstrap"
	"team-planner/backend/internal/repository"
	"team-planner/backend/internal/service"
	"team-planner/backend/pkg/jwt"
	applogger "team-planner/backend/pkg/logger"
	"team-planner/backend/pkg/metrics"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "planctl",
	Short:         "团队排期运维工具",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径（默认 ./config/config.yaml）")
	rootCmd.AddCommand(promoteCmd, exportWeekCmd, usersCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

// app 命令执行所需的依赖
type app struct {
	svc     *service.Service
	logger  *zap.Logger
	backend *bootstrap.Backend
}

// openApp 加载配置并组装 Service，调用方负责 close
func openApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}

	backend, err := bootstrap.Open(cfg, logger)
	if err != nil {
		return nil, err
	}

	var blacklist service.TokenBlacklist
	if backend.Redis != nil {
		blacklist = backend.Redis
	}

	repo := repository.NewRepository(backend.Store, logger)
	svc := service.NewService(cfg, repo, jwt.NewManager(&cfg.Auth), blacklist, metrics.Nop{}, logger)

	return &app{svc: svc, logger: logger, backend: backend}, nil
}

func (a *app) close() {
	a.backend.Close()
	_ = a.logger.Sync()
}
