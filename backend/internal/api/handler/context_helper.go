package handler

import (
	"github.com/gin-gonic/gin"

	"team-planner/backend/internal/api/middleware"
	"team-planner/backend/internal/service"
	"team-planner/backend/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果认证中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(middleware.ContextUserID)
	if !exists {
		response.Unauthorized(c, 10002, "Non authentifié")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "Non authentifié")
		return "", false
	}
	return s, true
}

// MustGetIdentity 从上下文还原身份提供方确认的调用者
func MustGetIdentity(c *gin.Context) (*service.Identity, bool) {
	id, ok := MustGetUserID(c)
	if !ok {
		return nil, false
	}
	return &service.Identity{
		ID:    id,
		Email: c.GetString(middleware.ContextEmail),
		Name:  c.GetString(middleware.ContextName),
	}, true
}
