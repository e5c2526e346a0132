package handler

import (
	"github.com/gin-gonic/gin"

	"team-planner/backend/internal/service"
	"team-planner/backend/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// Profile 当前用户档案，首次访问自动创建
// GET /api/v1/profile
func (h *UserHandler) Profile(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.userSvc.Profile(c.Request.Context(), identity)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// List 全部用户
// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	result, err := h.userSvc.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// PromoteManager 将当前用户提升为管理者
// POST /api/v1/promote-manager
func (h *UserHandler) PromoteManager(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.userSvc.PromoteManager(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OKWithMessage(c, result.Message, result)
}
