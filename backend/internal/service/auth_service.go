package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"team-planner/backend/internal/dto"
	"team-planner/backend/internal/model"
	"team-planner/backend/internal/repository"
	"team-planner/backend/pkg/metrics"
)

// AuthService 认证业务接口
type AuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.SignupResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, accessToken string) error
}

type authService struct {
	idp      IdentityProvider
	repo     *repository.Repository
	recorder metrics.Recorder
	now      func() time.Time
	logger   *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	idp IdentityProvider,
	repo *repository.Repository,
	recorder metrics.Recorder,
	logger *zap.Logger,
) AuthService {
	return &authService{
		idp:      idp,
		repo:     repo,
		recorder: recorder,
		now:      time.Now,
		logger:   logger,
	}
}

func (s *authService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.SignupResponse, error) {
	// 1. 在身份提供方创建身份
	identity, err := s.idp.CreateIdentity(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		s.logger.Warn("创建身份失败", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}

	// 2. 写入业务档案，角色默认为 employee
	user := &model.User{
		ID:        identity.ID,
		Name:      profileName(identity),
		Email:     identity.Email,
		Role:      model.RoleEmployee,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.User.Put(ctx, user); err != nil {
		// 身份已创建，档案会在首次 /profile 时补建
		s.logger.Error("写入用户档案失败", zap.String("user_id", identity.ID), zap.Error(err))
		return nil, err
	}

	s.recorder.RecordSignup()
	s.logger.Info("新用户注册", zap.String("user_id", user.ID))

	return &dto.SignupResponse{
		Message: "Utilisateur créé avec succès",
		User:    dto.UserResponse{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role},
	}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 校验凭据
	identity, err := s.idp.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	// 2. 生成 Token 对
	pair, err := s.idp.IssueTokens(identity)
	if err != nil {
		s.logger.Error("签发 Token 失败", zap.Error(err))
		return nil, err
	}

	return s.tokenResponse(ctx, identity, pair)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	identity, pair, err := s.idp.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	return s.tokenResponse(ctx, identity, pair)
}

func (s *authService) Logout(ctx context.Context, accessToken string) error {
	return s.idp.Revoke(ctx, accessToken)
}

// tokenResponse 附带存储中的档案（不存在时自动创建）
func (s *authService) tokenResponse(ctx context.Context, identity *Identity, pair *TokenPair) (*dto.TokenResponse, error) {
	user, err := ensureProfile(ctx, s.repo.User, identity, s.now)
	if err != nil {
		s.logger.Error("获取用户档案失败", zap.String("user_id", identity.ID), zap.Error(err))
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		User:         dto.UserResponse{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role},
	}, nil
}
