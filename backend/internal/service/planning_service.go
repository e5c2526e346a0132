package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"team-planner/backend/config"
	"team-planner/backend/internal/dto"
	"team-planner/backend/internal/model"
	"team-planner/backend/internal/planning"
	"team-planner/backend/internal/repository"
	apperrors "team-planner/backend/pkg/errors"
	"team-planner/backend/pkg/metrics"
)

// ── 排期模块业务错误 ──

var (
	ErrInvalidPlanning = fmt.Errorf("%w: planning invalide", apperrors.ErrInvalidInput)
	ErrInvalidDate     = fmt.Errorf("%w: date attendue au format YYYY-MM-DD", apperrors.ErrInvalidInput)
	ErrInvalidStatus   = fmt.Errorf("%w: statut inconnu", apperrors.ErrInvalidInput)
)

// PlanningService 排期业务接口
type PlanningService interface {
	// MyPlanning 当前用户的排期，可按 [start, end] 过滤
	MyPlanning(ctx context.Context, userID string, q *dto.DateRangeQuery) ([]dto.MyPlanningItem, error)
	// Save 批量写入当前用户的排期，同一键以最后一条为准
	Save(ctx context.Context, userID string, req *dto.SavePlanningRequest) (*dto.SavePlanningResponse, error)
	// Global 全部用户的排期，附带用户信息
	Global(ctx context.Context, q *dto.DateRangeQuery) ([]dto.GlobalPlanningItem, error)
	// Week 全局周视图（周一至周五）
	Week(ctx context.Context, q *dto.WeekQuery) (*planning.WeekView, error)
}

type planningService struct {
	repo     *repository.Repository
	cfg      config.PlanningConfig
	loc      *time.Location
	recorder metrics.Recorder
	now      func() time.Time
	logger   *zap.Logger
}

// NewPlanningService 创建 PlanningService 实例
func NewPlanningService(
	cfg *config.Config,
	repo *repository.Repository,
	recorder metrics.Recorder,
	logger *zap.Logger,
) PlanningService {
	return &planningService{
		repo:     repo,
		cfg:      cfg.Planning,
		loc:      cfg.Server.Location(),
		recorder: recorder,
		now:      time.Now,
		logger:   logger,
	}
}

// ────────────────────── MyPlanning ──────────────────────

func (s *planningService) MyPlanning(ctx context.Context, userID string, q *dto.DateRangeQuery) ([]dto.MyPlanningItem, error) {
	start, end, err := s.parseRange(q)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.Planning.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询个人排期失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	entries = filterRange(entries, start, end)
	sortEntries(entries)

	result := make([]dto.MyPlanningItem, 0, len(entries))
	for _, e := range entries {
		result = append(result, dto.MyPlanningItem{
			ID:        e.ID,
			Date:      e.Date,
			Period:    e.Period,
			Status:    e.Status,
			UpdatedAt: e.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	return result, nil
}

// ────────────────────── Save ──────────────────────

func (s *planningService) Save(ctx context.Context, userID string, req *dto.SavePlanningRequest) (*dto.SavePlanningResponse, error) {
	now := s.now().UTC()

	entries := make([]model.PlanningEntry, 0, len(req.Plannings))
	for i, item := range req.Plannings {
		if err := s.validateItem(item); err != nil {
			return nil, fmt.Errorf("élément %d: %w", i+1, err)
		}
		e := model.PlanningEntry{
			UserID:    userID,
			Date:      item.Date,
			Period:    item.Period,
			Status:    item.Status,
			UpdatedAt: now,
		}
		e.ID = e.Key()
		entries = append(entries, e)
	}

	if err := s.repo.Planning.Put(ctx, entries); err != nil {
		s.logger.Error("保存排期失败", zap.String("user_id", userID), zap.Int("count", len(entries)), zap.Error(err))
		return nil, err
	}

	s.recorder.RecordEntriesSaved(len(entries))
	return &dto.SavePlanningResponse{
		Message: "Planning sauvegardé avec succès",
		Saved:   len(entries),
	}, nil
}

// validateItem 日期须为合法的 YYYY-MM-DD；未开启上午/下午拆分时只接受整天记录
func (s *planningService) validateItem(item dto.PlanningItem) error {
	if _, err := planning.ParseDate(item.Date, s.loc); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, item.Date)
	}
	if !item.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, item.Status)
	}
	if !model.ValidPeriod(item.Period) {
		return fmt.Errorf("%w: période %q inconnue", ErrInvalidPlanning, item.Period)
	}
	if !s.cfg.SplitPeriods && item.Period != model.PeriodNone {
		return fmt.Errorf("%w: découpage matin/après-midi désactivé", ErrInvalidPlanning)
	}
	return nil
}

// ────────────────────── Global ──────────────────────

func (s *planningService) Global(ctx context.Context, q *dto.DateRangeQuery) ([]dto.GlobalPlanningItem, error) {
	start, end, err := s.parseRange(q)
	if err != nil {
		return nil, err
	}

	entries, users, err := loadEntriesAndUsers(ctx, s.repo)
	if err != nil {
		s.logger.Error("查询全局排期失败", zap.Error(err))
		return nil, err
	}

	byID := make(map[string]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	entries = filterRange(entries, start, end)
	sortEntries(entries)

	result := make([]dto.GlobalPlanningItem, 0, len(entries))
	for _, e := range entries {
		pu := dto.PlanningUser{Name: model.UnknownUserName, Email: ""}
		if u, ok := byID[e.UserID]; ok {
			pu = dto.PlanningUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
		}
		result = append(result, dto.GlobalPlanningItem{
			ID:     e.ID,
			UserID: e.UserID,
			Date:   e.Date,
			Period: e.Period,
			Status: e.Status,
			User:   pu,
		})
	}
	return result, nil
}

// ────────────────────── Week ──────────────────────

func (s *planningService) Week(ctx context.Context, q *dto.WeekQuery) (*planning.WeekView, error) {
	ref := s.now().In(s.loc)
	if q.Date != "" {
		d, err := planning.ParseDate(q.Date, s.loc)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDate, q.Date)
		}
		ref = d
	}

	filter := planning.Filter{UserID: q.UserID}
	if q.Status != "" {
		st := model.Status(q.Status)
		if !st.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, q.Status)
		}
		filter.Status = st
	}

	entries, users, err := loadEntriesAndUsers(ctx, s.repo)
	if err != nil {
		s.logger.Error("查询周视图数据失败", zap.Error(err))
		return nil, err
	}

	var periods []string
	if s.cfg.SplitPeriods {
		periods = model.Periods
	}

	view := planning.BuildWeekView(planning.WeekRange(ref), entries, users, periods, filter)
	return &view, nil
}

// ── 辅助函数 ──

// parseRange 校验可选的日期区间；start 晚于 end 视为无效
func (s *planningService) parseRange(q *dto.DateRangeQuery) (string, string, error) {
	if q == nil {
		return "", "", nil
	}
	for _, d := range []string{q.Start, q.End} {
		if d == "" {
			continue
		}
		if _, err := planning.ParseDate(d, s.loc); err != nil {
			return "", "", fmt.Errorf("%w: %q", ErrInvalidDate, d)
		}
	}
	if q.Start != "" && q.End != "" && q.Start > q.End {
		return "", "", fmt.Errorf("%w: start postérieur à end", apperrors.ErrInvalidInput)
	}
	return q.Start, q.End, nil
}

// loadEntriesAndUsers 并行读取全部排期与全部用户
func loadEntriesAndUsers(ctx context.Context, repo *repository.Repository) ([]model.PlanningEntry, []model.User, error) {
	var (
		entries []model.PlanningEntry
		users   []model.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = repo.Planning.ListAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = repo.User.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return entries, users, nil
}

func filterRange(entries []model.PlanningEntry, start, end string) []model.PlanningEntry {
	if start == "" && end == "" {
		return entries
	}
	out := entries[:0:0]
	for _, e := range entries {
		if e.InRange(start, end) {
			out = append(out, e)
		}
	}
	return out
}

// sortEntries 按日期、用户、时段排序（上午在下午之前）
func sortEntries(entries []model.PlanningEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.UserID != b.UserID {
			return a.UserID < b.UserID
		}
		return periodRank(a.Period) < periodRank(b.Period)
	})
}

func periodRank(p string) int {
	switch p {
	case model.PeriodMorning:
		return 1
	case model.PeriodAfternoon:
		return 2
	default:
		return 0
	}
}
