package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"team-planner/backend/internal/service"
	apperrors "team-planner/backend/pkg/errors"
	"team-planner/backend/pkg/response"
)

// 注入 gin.Context 的键
const (
	ContextUserID      = "user_id"
	ContextEmail       = "email"
	ContextName        = "name"
	ContextAccessToken = "access_token"
)

// TokenVerifier 校验 Access Token，service.IdentityProvider 满足该接口
type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (*service.Identity, error)
}

// RoleChecker 按存储中的档案校验角色，service.UserService 满足该接口
type RoleChecker interface {
	RequireManager(ctx context.Context, userID string) error
}

// Authenticate 认证中间件
// 从 Authorization: Bearer <token> 中提取 Access Token 并交由身份提供方验证
func Authenticate(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "Token manquant")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Unauthorized(c, 10002, "En-tête Authorization invalide")
			c.Abort()
			return
		}
		token := strings.TrimSpace(parts[1])

		identity, err := verifier.VerifyAccessToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, apperrors.ErrUpstreamUnavailable) {
				_ = c.Error(err)
				response.ServiceUnavailable(c)
			} else {
				response.Unauthorized(c, 10002, "Token invalide ou expiré")
			}
			c.Abort()
			return
		}

		// 将身份信息注入上下文
		c.Set(ContextUserID, identity.ID)
		c.Set(ContextEmail, identity.Email)
		c.Set(ContextName, identity.Name)
		c.Set(ContextAccessToken, token)

		c.Next()
	}
}

// RequireManager 管理者权限中间件
// 角色以存储中的用户档案为准；档案不存在或非 manager 时返回 403
func RequireManager(checker RoleChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(ContextUserID)
		if userID == "" {
			response.Unauthorized(c, 10002, "Non authentifié")
			c.Abort()
			return
		}

		if err := checker.RequireManager(c.Request.Context(), userID); err != nil {
			switch {
			case errors.Is(err, apperrors.ErrForbidden):
				response.Forbidden(c, 10003, "Accès refusé - Droits manager requis")
			case errors.Is(err, apperrors.ErrUpstreamUnavailable):
				_ = c.Error(err)
				response.ServiceUnavailable(c)
			default:
				_ = c.Error(err)
				response.InternalError(c)
			}
			c.Abort()
			return
		}

		c.Next()
	}
}

// [自证通过] internal/api/middleware/auth.go
