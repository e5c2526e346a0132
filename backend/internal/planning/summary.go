package planning

import (
	"math"

	"team-planner/backend/internal/model"
)

// DaySummary 单日统计，Total 为当天全部记录数
type DaySummary struct {
	Date   string `json:"date"`
	Office int    `json:"office"`
	Remote int    `json:"remote"`
	Absent int    `json:"absent"`
	Total  int    `json:"total"`
}

// WorkingDays 窗口内非周末日期的合计
// Office/Remote/Absent 以人日计：同一用户同一天最多计 1，半天记录计 1/len(model.Periods)
type WorkingDays struct {
	Days      int     `json:"days"`
	Office    float64 `json:"office"`
	Remote    float64 `json:"remote"`
	Absent    float64 `json:"absent"`
	AvgRemote int     `json:"avg_remote"` // 每个工作日平均远程人数，四舍五入
	AvgAbsent int     `json:"avg_absent"`
	// OccupancyRate office 人日 / (工作日数 × 用户总数) × 100，保留一位小数
	OccupancyRate float64 `json:"occupancy_rate"`
}

// Summary 管理者汇总
type Summary struct {
	Days        []DaySummary `json:"summary"`
	TotalUsers  int          `json:"totalUsers"`
	WorkingDays WorkingDays  `json:"working_days"`
}

// BuildSummary 统计 window 中每一天的记录
// window 通常为 DaysFrom(today, 7)：从今天起滚动 7 天，不按周对齐
func BuildSummary(window []string, entries []model.PlanningEntry, totalUsers int) Summary {
	pos := make(map[string]int, len(window))
	days := make([]DaySummary, len(window))
	for i, d := range window {
		pos[d] = i
		days[i].Date = d
	}

	for _, e := range entries {
		i, ok := pos[e.Date]
		if !ok {
			continue
		}
		days[i].Total++
		switch e.Status {
		case model.StatusOffice:
			days[i].Office++
		case model.StatusRemote:
			days[i].Remote++
		case model.StatusAbsent:
			days[i].Absent++
		}
	}

	wd := workingDays(days, entries)
	if wd.Days > 0 {
		wd.AvgRemote = int(math.Round(wd.Remote / float64(wd.Days)))
		wd.AvgAbsent = int(math.Round(wd.Absent / float64(wd.Days)))
		if totalUsers > 0 {
			// 孤立记录的用户不计入 totalUsers，比例上限为 100
			rate := min(wd.Office/float64(wd.Days*totalUsers)*100, 100)
			wd.OccupancyRate = math.Round(rate*10) / 10
		}
	}

	return Summary{Days: days, TotalUsers: totalUsers, WorkingDays: wd}
}

// userDay 一名用户一天内的记录
type userDay struct {
	whole  model.Status
	halves map[string]model.Status
}

// workingDays 将工作日内的记录折算为人日
// 显式的半天记录优先，整天记录补齐未声明的半天；没有半天记录时整天记录计 1
func workingDays(days []DaySummary, entries []model.PlanningEntry) WorkingDays {
	var wd WorkingDays
	weekday := make(map[string]bool, len(days))
	for _, d := range days {
		if !IsWeekend(d.Date) {
			weekday[d.Date] = true
			wd.Days++
		}
	}

	byUserDay := make(map[[2]string]*userDay)
	for _, e := range entries {
		if !weekday[e.Date] {
			continue
		}
		k := [2]string{e.UserID, e.Date}
		ud, ok := byUserDay[k]
		if !ok {
			ud = &userDay{halves: make(map[string]model.Status)}
			byUserDay[k] = ud
		}
		if e.Period == model.PeriodNone {
			ud.whole = e.Status
		} else {
			ud.halves[e.Period] = e.Status
		}
	}

	add := func(st model.Status, share float64) {
		switch st {
		case model.StatusOffice:
			wd.Office += share
		case model.StatusRemote:
			wd.Remote += share
		case model.StatusAbsent:
			wd.Absent += share
		}
	}

	half := 1 / float64(len(model.Periods))
	for _, ud := range byUserDay {
		if len(ud.halves) == 0 {
			add(ud.whole, 1)
			continue
		}
		for _, p := range model.Periods {
			st, ok := ud.halves[p]
			if !ok {
				st = ud.whole
			}
			add(st, half)
		}
	}
	return wd
}
