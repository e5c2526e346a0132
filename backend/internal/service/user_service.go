package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"team-planner/backend/internal/dto"
	"team-planner/backend/internal/model"
	"team-planner/backend/internal/repository"
	apperrors "team-planner/backend/pkg/errors"
)

// ── 用户模块业务错误 ──

var (
	ErrUserNotFound = fmt.Errorf("%w: profil utilisateur introuvable", apperrors.ErrNotFound)
	ErrNotManager   = fmt.Errorf("%w: droits manager requis", apperrors.ErrForbidden)
)

// defaultProfileName 元数据与邮箱都无法提供名称时使用
const defaultProfileName = "Utilisateur"

// UserService 用户业务接口
type UserService interface {
	// Profile 返回当前用户档案，首次访问时自动创建 employee 档案
	Profile(ctx context.Context, identity *Identity) (*dto.ProfileResponse, error)
	List(ctx context.Context) ([]dto.UserResponse, error)
	// PromoteManager 将已有档案提升为 manager；档案不存在返回 ErrUserNotFound
	PromoteManager(ctx context.Context, userID string) (*dto.PromoteResponse, error)
	// RequireManager 按存储中的档案校验角色，不信任 Token 中的任何声明
	RequireManager(ctx context.Context, userID string) error
}

type userService struct {
	repo   *repository.Repository
	now    func() time.Time
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, now: time.Now, logger: logger}
}

// ────────────────────── Profile ──────────────────────

func (s *userService) Profile(ctx context.Context, identity *Identity) (*dto.ProfileResponse, error) {
	user, err := ensureProfile(ctx, s.repo.User, identity, s.now)
	if err != nil {
		s.logger.Error("获取用户档案失败", zap.String("user_id", identity.ID), zap.Error(err))
		return nil, err
	}
	return toProfileResponse(user), nil
}

// ensureProfile 读取档案，不存在时按身份信息创建默认 employee 档案
func ensureProfile(ctx context.Context, users repository.UserRepository, identity *Identity, now func() time.Time) (*model.User, error) {
	user, err := users.Get(ctx, identity.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	user = &model.User{
		ID:        identity.ID,
		Name:      profileName(identity),
		Email:     identity.Email,
		Role:      model.RoleEmployee,
		CreatedAt: now().UTC(),
	}
	if err := users.Put(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// profileName 名称优先级：身份元数据 > 邮箱本地部分 > 默认值
func profileName(identity *Identity) string {
	if n := strings.TrimSpace(identity.Name); n != "" {
		return n
	}
	if local, _, _ := strings.Cut(identity.Email, "@"); local != "" {
		return local
	}
	return defaultProfileName
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.User.List(ctx)
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, err
	}
	sortUsers(users)

	result := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		result = append(result, dto.UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
	}
	return result, nil
}

// ────────────────────── PromoteManager ──────────────────────

func (s *userService) PromoteManager(ctx context.Context, userID string) (*dto.PromoteResponse, error) {
	user, err := s.repo.User.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	if !user.IsManager() {
		user.Role = model.RoleManager
		if err := s.repo.User.Put(ctx, user); err != nil {
			s.logger.Error("更新用户角色失败", zap.String("user_id", userID), zap.Error(err))
			return nil, err
		}
		s.logger.Info("用户已提升为管理者", zap.String("user_id", userID))
	}

	return &dto.PromoteResponse{
		Message: "Utilisateur promu manager avec succès",
		User:    *toProfileResponse(user),
	}, nil
}

// ────────────────────── RequireManager ──────────────────────

func (s *userService) RequireManager(ctx context.Context, userID string) error {
	user, err := s.repo.User.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotManager
		}
		return err
	}
	if !user.IsManager() {
		return ErrNotManager
	}
	return nil
}

// ── 辅助函数 ──

func toProfileResponse(u *model.User) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// sortUsers 按姓名、ID 排序，保证列表输出稳定
func sortUsers(users []model.User) {
	sort.SliceStable(users, func(i, j int) bool {
		if users[i].Name != users[j].Name {
			return users[i].Name < users[j].Name
		}
		return users[i].ID < users[j].ID
	})
}
