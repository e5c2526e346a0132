package planning

import (
	"sort"

	"team-planner/backend/internal/model"
)

// Filter 周视图的可选过滤条件，零值表示不过滤
type Filter struct {
	UserID string
	// Status 仅保留至少有一条该状态记录的用户（在全部记录中判断）
	Status model.Status
}

// UserRef 周视图行首的用户信息
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Cell 某用户某天（某时段）的状态，没有记录时为 undefined
type Cell struct {
	Date    string       `json:"date"`
	Period  string       `json:"period,omitempty"`
	Status  model.Status `json:"status"`
	EntryID string       `json:"entry_id,omitempty"`
}

// Row 一个用户的一周
type Row struct {
	User  UserRef `json:"user"`
	Cells []Cell  `json:"cells"`
}

// DayStats 某天按状态计数
type DayStats struct {
	Date   string `json:"date"`
	Office int    `json:"office"`
	Remote int    `json:"remote"`
	Absent int    `json:"absent"`
}

// WeekView 全局周视图
// 单元格总数恒为 len(Rows) × len(Days) × len(Periods)
type WeekView struct {
	Days    []string   `json:"days"`
	Periods []string   `json:"periods"`
	Rows    []Row      `json:"rows"`
	Stats   []DayStats `json:"stats"`
}

type cellKey struct {
	userID, date, period string
}

// BuildWeekView 按用户 × 日期 × 时段构建周视图
//
// 匹配规则为 (user_id, date, period) 完全相等；periods 为空时按整天处理。
// 用户按姓名、再按 ID 排序。Stats 按日期统计全部记录，不受过滤条件影响。
func BuildWeekView(days []string, entries []model.PlanningEntry, users []model.User, periods []string, f Filter) WeekView {
	if len(periods) == 0 {
		periods = []string{model.PeriodNone}
	}

	index := make(map[cellKey]model.PlanningEntry, len(entries))
	withStatus := make(map[string]bool)
	for _, e := range entries {
		index[cellKey{e.UserID, e.Date, e.Period}] = e
		if f.Status != "" && e.Status == f.Status {
			withStatus[e.UserID] = true
		}
	}

	sorted := make([]model.User, len(users))
	copy(sorted, users)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].ID < sorted[j].ID
	})

	rows := make([]Row, 0, len(sorted))
	for _, u := range sorted {
		if f.UserID != "" && u.ID != f.UserID {
			continue
		}
		if f.Status != "" && !withStatus[u.ID] {
			continue
		}

		cells := make([]Cell, 0, len(days)*len(periods))
		for _, d := range days {
			for _, p := range periods {
				c := Cell{Date: d, Period: p, Status: model.StatusUndefined}
				if e, ok := index[cellKey{u.ID, d, p}]; ok {
					c.Status = e.Status
					c.EntryID = e.ID
				}
				cells = append(cells, c)
			}
		}
		rows = append(rows, Row{
			User:  UserRef{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role},
			Cells: cells,
		})
	}

	return WeekView{
		Days:    append([]string(nil), days...),
		Periods: append([]string(nil), periods...),
		Rows:    rows,
		Stats:   dayStats(days, entries),
	}
}

func dayStats(days []string, entries []model.PlanningEntry) []DayStats {
	pos := make(map[string]int, len(days))
	stats := make([]DayStats, len(days))
	for i, d := range days {
		pos[d] = i
		stats[i].Date = d
	}
	for _, e := range entries {
		i, ok := pos[e.Date]
		if !ok {
			continue
		}
		switch e.Status {
		case model.StatusOffice:
			stats[i].Office++
		case model.StatusRemote:
			stats[i].Remote++
		case model.StatusAbsent:
			stats[i].Absent++
		}
	}
	return stats
}
