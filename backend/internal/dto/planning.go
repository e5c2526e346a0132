package dto

import "team-planner/backend/internal/model"

// ── 排期模块 DTO ──

// PlanningItem 保存请求中的单条记录
type PlanningItem struct {
	Date   string       `json:"date"   binding:"required"`
	Period string       `json:"period"`
	Status model.Status `json:"status" binding:"required"`
}

// SavePlanningRequest POST /save-planning
// Plannings 必须是数组；空数组合法，不写入任何记录
type SavePlanningRequest struct {
	Plannings []PlanningItem `json:"plannings" binding:"required,dive"`
}

// DateRangeQuery 可选的日期区间过滤（闭区间，YYYY-MM-DD）
type DateRangeQuery struct {
	Start string `form:"start"`
	End   string `form:"end"`
}

// WeekQuery GET /global-planning/week
type WeekQuery struct {
	Date   string `form:"date"`
	UserID string `form:"user_id"`
	Status string `form:"status"`
}

// ── 排期模块响应 ──

// MyPlanningItem 个人排期列表项
type MyPlanningItem struct {
	ID        string       `json:"id"`
	Date      string       `json:"date"`
	Period    string       `json:"period,omitempty"`
	Status    model.Status `json:"status"`
	UpdatedAt string       `json:"updated_at"`
}

// SavePlanningResponse 保存结果
type SavePlanningResponse struct {
	Message string `json:"message"`
	Saved   int    `json:"saved"`
}

// PlanningUser 全局排期中附带的用户信息
type PlanningUser struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// GlobalPlanningItem 全局排期列表项
type GlobalPlanningItem struct {
	ID     string       `json:"id"`
	UserID string       `json:"user_id"`
	Date   string       `json:"date"`
	Period string       `json:"period,omitempty"`
	Status model.Status `json:"status"`
	User   PlanningUser `json:"user"`
}
