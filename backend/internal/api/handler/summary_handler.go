package handler

import (
	"github.com/gin-gonic/gin"

	"team-planner/backend/internal/service"
	"team-planner/backend/pkg/response"
)

// SummaryHandler 管理者汇总 HTTP 处理器
type SummaryHandler struct {
	summarySvc service.SummaryService
}

// NewSummaryHandler 创建 SummaryHandler
func NewSummaryHandler(summarySvc service.SummaryService) *SummaryHandler {
	return &SummaryHandler{summarySvc: summarySvc}
}

// ManagerSummary 未来 7 天汇总（需 RequireManager）
// GET /api/v1/manager-summary
func (h *SummaryHandler) ManagerSummary(c *gin.Context) {
	result, err := h.summarySvc.ManagerSummary(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}
