package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"team-planner/backend/internal/dto"
	"team-planner/backend/internal/model"
	apperrors "team-planner/backend/pkg/errors"
)

// ── 测试辅助 ──

func setupTestAuthService() (AuthService, *testEnv, *localIdentityProvider) {
	env := newTestEnv()
	idp := setupTestIdentityProvider(env)
	svc := NewAuthService(idp, env.repo, env.recorder, nopLogger).(*authService)
	svc.now = fixedClock(time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC))
	return svc, env, idp
}

// ── Signup 测试 ──

func TestAuthService_Signup_Success(t *testing.T) {
	svc, env, _ := setupTestAuthService()

	resp, err := svc.Signup(context.Background(), &dto.SignupRequest{
		Email: "alice@example.com", Password: "secret123", Name: "Alice",
	})
	if err != nil {
		t.Fatalf("期望成功，实际错误: %v", err)
	}
	if resp.Message != "Utilisateur créé avec succès" {
		t.Errorf("Message = %q", resp.Message)
	}
	if resp.User.Role != model.RoleEmployee || resp.User.Name != "Alice" {
		t.Errorf("用户信息不正确: %+v", resp.User)
	}

	stored, ok := env.users.users[resp.User.ID]
	if !ok {
		t.Fatal("期望写入 user:<id> 档案")
	}
	if stored.Role != model.RoleEmployee || stored.Email != "alice@example.com" {
		t.Errorf("档案不正确: %+v", stored)
	}
	if !stored.CreatedAt.Equal(time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("CreatedAt = %v", stored.CreatedAt)
	}
	if env.recorder.signups != 1 {
		t.Errorf("期望记录 1 次注册，实际 %d", env.recorder.signups)
	}
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	svc, env, _ := setupTestAuthService()
	req := &dto.SignupRequest{Email: "bob@example.com", Password: "secret123", Name: "Bob"}

	_, _ = svc.Signup(context.Background(), req)
	_, err := svc.Signup(context.Background(), req)
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("期望 ErrEmailTaken，实际: %v", err)
	}
	if len(env.users.users) != 1 {
		t.Errorf("重复注册不应创建新档案，实际 %d 个", len(env.users.users))
	}
}

func TestAuthService_Signup_BlankNameFallsBackToEmail(t *testing.T) {
	svc, env, _ := setupTestAuthService()

	resp, err := svc.Signup(context.Background(), &dto.SignupRequest{
		Email: "jean.dupont@example.com", Password: "secret123", Name: "   ",
	})
	if err != nil {
		t.Fatalf("期望成功，实际错误: %v", err)
	}
	if resp.User.Name != "jean.dupont" {
		t.Errorf("期望使用邮箱前缀作为名称，实际 %q", resp.User.Name)
	}
	if stored := env.users.users[resp.User.ID]; stored == nil || stored.Name != "jean.dupont" {
		t.Errorf("档案名称不正确: %+v", stored)
	}
}

func TestAuthService_Signup_StoreDown(t *testing.T) {
	svc, env, _ := setupTestAuthService()
	env.users.err = apperrors.ErrUpstreamUnavailable

	_, err := svc.Signup(context.Background(), &dto.SignupRequest{Email: "c@example.com", Password: "secret123", Name: "C"})
	if !errors.Is(err, apperrors.ErrUpstreamUnavailable) {
		t.Errorf("期望 ErrUpstreamUnavailable，实际: %v", err)
	}
	if env.recorder.signups != 0 {
		t.Error("失败的注册不应计数")
	}
}

// ── Login 测试 ──

func TestAuthService_Login_Success(t *testing.T) {
	svc, env, idp := setupTestAuthService()
	ctx := context.Background()

	signup, _ := svc.Signup(ctx, &dto.SignupRequest{Email: "dave@example.com", Password: "secret123", Name: "Dave"})
	env.users.users[signup.User.ID].Role = model.RoleManager

	result, err := svc.Login(ctx, &dto.LoginRequest{Email: "dave@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("期望成功，实际错误: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("期望返回 Token 对")
	}
	if result.User.Role != model.RoleManager {
		t.Errorf("角色应取自存储档案，实际 %s", result.User.Role)
	}

	identity, err := idp.VerifyAccessToken(ctx, result.AccessToken)
	if err != nil || identity.ID != signup.User.ID {
		t.Errorf("签发的 Token 无法验证: %v", err)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _, _ := setupTestAuthService()
	ctx := context.Background()
	_, _ = svc.Signup(ctx, &dto.SignupRequest{Email: "erin@example.com", Password: "secret123", Name: "Erin"})

	_, err := svc.Login(ctx, &dto.LoginRequest{Email: "erin@example.com", Password: "nope"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_RecreatesMissingProfile(t *testing.T) {
	svc, env, idp := setupTestAuthService()
	ctx := context.Background()

	// 仅有身份，没有档案
	identity, _ := idp.CreateIdentity(ctx, "frank@example.com", "secret123", "")

	result, err := svc.Login(ctx, &dto.LoginRequest{Email: "frank@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("期望成功，实际错误: %v", err)
	}
	if result.User.Name != "frank" || result.User.Role != model.RoleEmployee {
		t.Errorf("默认档案不正确: %+v", result.User)
	}
	if _, ok := env.users.users[identity.ID]; !ok {
		t.Error("期望补建档案")
	}
}

// ── Refresh / Logout 测试 ──

func TestAuthService_RefreshAndLogout(t *testing.T) {
	svc, _, idp := setupTestAuthService()
	ctx := context.Background()
	_, _ = svc.Signup(ctx, &dto.SignupRequest{Email: "gina@example.com", Password: "secret123", Name: "Gina"})
	login, _ := svc.Login(ctx, &dto.LoginRequest{Email: "gina@example.com", Password: "secret123"})

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh 失败: %v", err)
	}
	if refreshed.User.Name != "Gina" {
		t.Errorf("User = %+v", refreshed.User)
	}

	if err := svc.Logout(ctx, refreshed.AccessToken); err != nil {
		t.Fatalf("Logout 失败: %v", err)
	}
	if _, err := idp.VerifyAccessToken(ctx, refreshed.AccessToken); !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Errorf("登出后 Token 应失效，实际: %v", err)
	}
}
