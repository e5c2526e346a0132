package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"team-planner/backend/config"
	"team-planner/backend/internal/planning"
	"team-planner/backend/internal/repository"
)

// SummaryService 管理者汇总
//
// 窗口为今天起连续 summary_days 个自然日（默认 7），滚动而非按周对齐；
// 角色校验由路由层的 RequireManager 完成。
type SummaryService interface {
	ManagerSummary(ctx context.Context) (*planning.Summary, error)
}

type summaryService struct {
	repo   *repository.Repository
	days   int
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewSummaryService 创建 SummaryService 实例
func NewSummaryService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) SummaryService {
	return &summaryService{
		repo:   repo,
		days:   cfg.Planning.SummaryDays,
		loc:    cfg.Server.Location(),
		now:    time.Now,
		logger: logger,
	}
}

func (s *summaryService) ManagerSummary(ctx context.Context) (*planning.Summary, error) {
	entries, users, err := loadEntriesAndUsers(ctx, s.repo)
	if err != nil {
		s.logger.Error("查询汇总数据失败", zap.Error(err))
		return nil, err
	}

	window := planning.DaysFrom(s.now().In(s.loc), s.days)
	summary := planning.BuildSummary(window, entries, len(users))
	return &summary, nil
}
