package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"team-planner/backend/internal/model"
	"team-planner/backend/internal/repository"
	apperrors "team-planner/backend/pkg/errors"
	"team-planner/backend/pkg/jwt"
)

// ── 身份认证错误 ──

var (
	ErrInvalidCredentials = fmt.Errorf("%w: email ou mot de passe incorrect", apperrors.ErrUnauthenticated)
	ErrTokenInvalid       = fmt.Errorf("%w: token invalide ou expiré", apperrors.ErrUnauthenticated)
	ErrTokenRevoked       = fmt.Errorf("%w: token révoqué", apperrors.ErrUnauthenticated)
	ErrEmailTaken         = errors.New("un compte existe déjà pour cet email")
)

// Identity 身份提供方确认的调用者
type Identity struct {
	ID    string
	Email string
	Name  string
}

// TokenPair 签发的 Token 对
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int // 秒
}

// IdentityProvider 身份提供方
//
// 业务层只依赖该接口：注册、校验凭据、签发与验证 Bearer Token。
// 验证失败统一返回包装 apperrors.ErrUnauthenticated 的错误，
// 后端不可用时返回包装 apperrors.ErrUpstreamUnavailable 的错误。
type IdentityProvider interface {
	CreateIdentity(ctx context.Context, email, password, name string) (*Identity, error)
	Authenticate(ctx context.Context, email, password string) (*Identity, error)
	IssueTokens(identity *Identity) (*TokenPair, error)
	// VerifyAccessToken 解析 Access Token 并检查是否已注销
	VerifyAccessToken(ctx context.Context, token string) (*Identity, error)
	Refresh(ctx context.Context, refreshToken string) (*Identity, *TokenPair, error)
	// Revoke 注销 Token 直至其自然过期
	Revoke(ctx context.Context, token string) error
}

// TokenBlacklist Token 黑名单存储，*redis.Client 满足该接口
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// ════════════════════════════════════════════════════════════
// localIdentityProvider：内置实现：bcrypt 凭据 + HS256 JWT
// ════════════════════════════════════════════════════════════

type localIdentityProvider struct {
	accounts   repository.AccountRepository
	jwtMgr     *jwt.Manager
	blacklist  TokenBlacklist
	bcryptCost int
	now        func() time.Time
	logger     *zap.Logger
}

// NewLocalIdentityProvider 创建内置身份提供方
// blacklist 为 nil 时使用进程内黑名单（仅对单实例部署有效）
func NewLocalIdentityProvider(
	accounts repository.AccountRepository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) IdentityProvider {
	if blacklist == nil {
		logger.Warn("未配置 Redis，Token 黑名单仅在本进程内生效")
		blacklist = newMemoryBlacklist(time.Now)
	}
	return &localIdentityProvider{
		accounts:   accounts,
		jwtMgr:     jwtMgr,
		blacklist:  blacklist,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
		logger:     logger,
	}
}

func (p *localIdentityProvider) CreateIdentity(ctx context.Context, email, password, name string) (*Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("密码哈希失败: %w", err)
	}

	account := &model.Account{
		UserID:       uuid.New().String(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
		CreatedAt:    p.now().UTC(),
	}
	if err := p.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrKeyExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return &Identity{ID: account.UserID, Email: account.Email, Name: account.Name}, nil
}

func (p *localIdentityProvider) Authenticate(ctx context.Context, email, password string) (*Identity, error) {
	account, err := p.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &Identity{ID: account.UserID, Email: account.Email, Name: account.Name}, nil
}

func (p *localIdentityProvider) IssueTokens(identity *Identity) (*TokenPair, error) {
	access, err := p.jwtMgr.GenerateAccessToken(identity.ID, identity.Email, identity.Name)
	if err != nil {
		return nil, fmt.Errorf("生成 AccessToken 失败: %w", err)
	}
	refresh, err := p.jwtMgr.GenerateRefreshToken(identity.ID, identity.Email, identity.Name)
	if err != nil {
		return nil, fmt.Errorf("生成 RefreshToken 失败: %w", err)
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(p.jwtMgr.AccessTokenTTL().Seconds()),
	}, nil
}

func (p *localIdentityProvider) VerifyAccessToken(ctx context.Context, token string) (*Identity, error) {
	claims, err := p.parse(ctx, token, jwt.TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	return &Identity{ID: claims.UserID, Email: claims.Email, Name: claims.Name}, nil
}

// Refresh 校验 Refresh Token 并轮换：旧 Refresh Token 立即注销
func (p *localIdentityProvider) Refresh(ctx context.Context, refreshToken string) (*Identity, *TokenPair, error) {
	claims, err := p.parse(ctx, refreshToken, jwt.TokenTypeRefresh)
	if err != nil {
		return nil, nil, err
	}
	if err := p.revokeClaims(ctx, claims); err != nil {
		return nil, nil, err
	}

	identity := &Identity{ID: claims.UserID, Email: claims.Email, Name: claims.Name}
	pair, err := p.IssueTokens(identity)
	if err != nil {
		return nil, nil, err
	}
	return identity, pair, nil
}

func (p *localIdentityProvider) Revoke(ctx context.Context, token string) error {
	claims, err := p.jwtMgr.ParseToken(token)
	if err != nil {
		// 已过期或无效的 Token 无需注销
		return nil
	}
	return p.revokeClaims(ctx, claims)
}

func (p *localIdentityProvider) parse(ctx context.Context, token, tokenType string) (*jwt.Claims, error) {
	claims, err := p.jwtMgr.ParseToken(token)
	if err != nil || claims.TokenType != tokenType {
		return nil, ErrTokenInvalid
	}
	revoked, err := p.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		p.logger.Error("查询 Token 黑名单失败", zap.Error(err))
		return nil, fmt.Errorf("%w: lecture de la liste de révocation: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

func (p *localIdentityProvider) revokeClaims(ctx context.Context, claims *jwt.Claims) error {
	if claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Time.Sub(p.now())
	if ttl <= 0 {
		return nil
	}
	if err := p.blacklist.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		p.logger.Error("写入 Token 黑名单失败", zap.Error(err))
		return fmt.Errorf("%w: écriture de la liste de révocation: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	return nil
}

// ── 进程内黑名单 ──

type memoryBlacklist struct {
	mu      sync.Mutex
	entries map[string]time.Time // jti → 过期时间
	now     func() time.Time
}

func newMemoryBlacklist(now func() time.Time) *memoryBlacklist {
	return &memoryBlacklist{entries: make(map[string]time.Time), now: now}
}

func (b *memoryBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	for k, exp := range b.entries {
		if !exp.After(now) {
			delete(b.entries, k)
		}
	}
	b.entries[jti] = now.Add(ttl)
	return nil
}

func (b *memoryBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	exp, ok := b.entries[jti]
	return ok && exp.After(b.now()), nil
}
