package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"team-planner/backend/config"
	"team-planner/backend/internal/api/handler"
	"team-planner/backend/internal/api/middleware"
	"team-planner/backend/internal/service"
	"team-planner/backend/pkg/metrics"
	"team-planner/backend/pkg/ratelimit"
)

// Setup 初始化并返回 Gin 路由引擎
// limiter 为 nil 时注册/登录不限流
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	svc *service.Service,
	limiter ratelimit.Limiter,
	collector *metrics.Collector,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))
	r.Use(middleware.Metrics(collector))

	// ── 健康检查与指标 ──
	r.GET("/health", handler.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler(gatherer)))

	// ── API ──
	api := r.Group(cfg.Server.APIPrefix)
	{
		api.GET("/health", handler.Health)
		api.GET("/statuses", h.Planning.Statuses)

		// 认证模块（无需认证）
		limited := api.Group("")
		limited.Use(middleware.RateLimit(limiter, logger))
		{
			limited.POST("/signup", h.Auth.Signup)
			limited.POST("/login", h.Auth.Login)
		}
		api.POST("/refresh", h.Auth.Refresh)

		// 需要认证的路由
		authorized := api.Group("")
		authorized.Use(middleware.Authenticate(svc.Identity))
		{
			authorized.POST("/logout", h.Auth.Logout)

			// 用户模块
			authorized.GET("/profile", h.User.Profile)
			authorized.GET("/users", h.User.List)
			authorized.POST("/promote-manager", h.User.PromoteManager)

			// 排期模块
			authorized.GET("/my-planning", h.Planning.MyPlanning)
			authorized.GET("/my-planning/ics", h.Planning.MyCalendar)
			authorized.POST("/save-planning", h.Planning.SavePlanning)
			authorized.GET("/global-planning", h.Planning.GlobalPlanning)
			authorized.GET("/global-planning/week", h.Planning.Week)

			// 管理者模块
			manager := authorized.Group("")
			manager.Use(middleware.RequireManager(svc.User))
			{
				manager.GET("/manager-summary", h.Summary.ManagerSummary)
				manager.GET("/export/global-planning", h.Export.ExportWeek)
			}
		}
	}

	return r
}
