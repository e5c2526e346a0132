package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"team-planner/backend/internal/dto"
	"team-planner/backend/internal/model"
	"team-planner/backend/internal/service"
	"team-planner/backend/pkg/response"
)

// PlanningHandler 排期模块 HTTP 处理器
type PlanningHandler struct {
	planningSvc service.PlanningService
	exportSvc   service.ExportService
}

// NewPlanningHandler 创建 PlanningHandler
func NewPlanningHandler(planningSvc service.PlanningService, exportSvc service.ExportService) *PlanningHandler {
	return &PlanningHandler{planningSvc: planningSvc, exportSvc: exportSvc}
}

// MyPlanning 当前用户的排期
// GET /api/v1/my-planning?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *PlanningHandler) MyPlanning(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var q dto.DateRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "Paramètres de requête invalides")
		return
	}

	result, err := h.planningSvc.MyPlanning(c.Request.Context(), userID, &q)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// MyCalendar 当前用户的排期导出为 iCalendar
// GET /api/v1/my-planning/ics?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *PlanningHandler) MyCalendar(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var q dto.DateRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "Paramètres de requête invalides")
		return
	}

	buf, filename, err := h.exportSvc.ExportCalendar(c.Request.Context(), userID, &q)
	if err != nil {
		handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
}

// SavePlanning 批量保存当前用户的排期
// POST /api/v1/save-planning
func (h *PlanningHandler) SavePlanning(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SavePlanningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 30001, "Format de données invalide", err.Error())
		return
	}

	result, err := h.planningSvc.Save(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OKWithMessage(c, result.Message, result)
}

// GlobalPlanning 全部用户的排期
// GET /api/v1/global-planning?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *PlanningHandler) GlobalPlanning(c *gin.Context) {
	var q dto.DateRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "Paramètres de requête invalides")
		return
	}

	result, err := h.planningSvc.Global(c.Request.Context(), &q)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// Week 全局周视图
// GET /api/v1/global-planning/week?date=YYYY-MM-DD&user_id=xxx&status=office
func (h *PlanningHandler) Week(c *gin.Context) {
	var q dto.WeekQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "Paramètres de requête invalides")
		return
	}

	result, err := h.planningSvc.Week(c.Request.Context(), &q)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// Statuses 状态元数据表（标签、图标、颜色）
// GET /api/v1/statuses
func (h *PlanningHandler) Statuses(c *gin.Context) {
	response.OK(c, model.StatusTable())
}
