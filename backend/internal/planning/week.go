package planning

import (
	"time"

	"team-planner/backend/internal/model"
)

// WorkDays 一周展示的工作日数量（周一至周五）
const WorkDays = 5

// WeekRange 返回 ref 所在周的周一至周五日期（YYYY-MM-DD）
// 周日视为上一周的最后一天，回退 6 天到周一
func WeekRange(ref time.Time) []string {
	offset := int(ref.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset = 6
	}
	monday := ref.AddDate(0, 0, -offset)

	days := make([]string, WorkDays)
	for i := range days {
		days[i] = monday.AddDate(0, 0, i).Format(model.DateLayout)
	}
	return days
}

// DaysFrom 从 start 起连续 n 个自然日（含 start）
func DaysFrom(start time.Time, n int) []string {
	days := make([]string, 0, n)
	for i := 0; i < n; i++ {
		days = append(days, start.AddDate(0, 0, i).Format(model.DateLayout))
	}
	return days
}

// IsWeekend 判断 YYYY-MM-DD 是否为周六或周日；无法解析时返回 false
func IsWeekend(date string) bool {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return false
	}
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// ParseDate 严格解析 YYYY-MM-DD，结果位于 loc 时区的零点
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(model.DateLayout, s, loc)
}
