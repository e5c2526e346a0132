package model

import (
	"strings"
	"time"
)

// DateLayout 排期日期格式
const DateLayout = "2006-01-02"

// 半天时段；空字符串表示整天（旧版数据结构）
const (
	PeriodNone      = ""
	PeriodMorning   = "morning"
	PeriodAfternoon = "afternoon"
)

// Periods 拆分模式下每天的时段顺序
var Periods = []string{PeriodMorning, PeriodAfternoon}

// ValidPeriod 是否为合法时段（含整天）
func ValidPeriod(p string) bool {
	return p == PeriodNone || p == PeriodMorning || p == PeriodAfternoon
}

// PlanningEntry 单个用户某天（某时段）的工作状态
// 存储键 planning:<user_id>:<date>[:<period>]，ID 与键相同
type PlanningEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Date      string    `json:"date"`
	Period    string    `json:"period,omitempty"`
	Status    Status    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlanningKeyPrefix 所有排期条目的键前缀
const PlanningKeyPrefix = "planning:"

// PlanningKey 组合键：同一键最多一条记录，后写覆盖
func PlanningKey(userID, date, period string) string {
	parts := []string{"planning", userID, date}
	if period != PeriodNone {
		parts = append(parts, period)
	}
	return strings.Join(parts, ":")
}

// UserPlanningPrefix 某个用户全部排期条目的键前缀
func UserPlanningPrefix(userID string) string {
	return PlanningKeyPrefix + userID + ":"
}

// Key 条目自身的组合键
func (e *PlanningEntry) Key() string {
	return PlanningKey(e.UserID, e.Date, e.Period)
}

// InRange 日期是否落在 [start, end] 闭区间；空边界表示不限
// 日期均为 YYYY-MM-DD，可直接按字典序比较
func (e *PlanningEntry) InRange(start, end string) bool {
	if start != "" && e.Date < start {
		return false
	}
	if end != "" && e.Date > end {
		return false
	}
	return true
}
