package planning

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"team-planner/backend/internal/model"
)

func TestBuildSummary(t *testing.T) {
	// 2024-01-12 为周五：窗口为 周五..下周四，含一个周末
	window := DaysFrom(time.Date(2024, 1, 12, 15, 0, 0, 0, time.UTC), 7)
	entries := []model.PlanningEntry{
		entry("u1", "2024-01-12", model.PeriodNone, model.StatusOffice),
		entry("u2", "2024-01-12", model.PeriodNone, model.StatusRemote),
		entry("u3", "2024-01-12", model.PeriodNone, model.StatusAbsent),
		entry("u1", "2024-01-13", model.PeriodNone, model.StatusOffice), // 周六
		entry("u1", "2024-01-15", model.PeriodNone, model.StatusOffice),
		entry("u2", "2024-01-15", model.PeriodNone, model.StatusOffice),
		entry("u1", "2024-01-11", model.PeriodNone, model.StatusOffice), // 窗口外（昨天）
		entry("u1", "2024-01-19", model.PeriodNone, model.StatusOffice), // 窗口外
	}

	s := BuildSummary(window, entries, 3)

	want := []DaySummary{
		{Date: "2024-01-12", Office: 1, Remote: 1, Absent: 1, Total: 3},
		{Date: "2024-01-13", Office: 1, Total: 1},
		{Date: "2024-01-14"},
		{Date: "2024-01-15", Office: 2, Total: 2},
		{Date: "2024-01-16"},
		{Date: "2024-01-17"},
		{Date: "2024-01-18"},
	}
	if diff := cmp.Diff(want, s.Days); diff != "" {
		t.Errorf("每日统计不匹配 (-want +got):\n%s", diff)
	}
	for _, d := range s.Days {
		if d.Total != d.Office+d.Remote+d.Absent {
			t.Errorf("%s: total %d != office+remote+absent", d.Date, d.Total)
		}
	}
	if s.TotalUsers != 3 {
		t.Errorf("TotalUsers = %d", s.TotalUsers)
	}

	// 工作日：12、15、16、17、18 共 5 天；office 3 人日 / (5 × 3) = 20%
	wantWD := WorkingDays{Days: 5, Office: 3, Remote: 1, Absent: 1, AvgRemote: 0, AvgAbsent: 0, OccupancyRate: 20}
	if diff := cmp.Diff(wantWD, s.WorkingDays); diff != "" {
		t.Errorf("工作日合计不匹配 (-want +got):\n%s", diff)
	}
}

func TestBuildSummary_NoUsers(t *testing.T) {
	window := DaysFrom(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), 7)
	s := BuildSummary(window, nil, 0)
	if len(s.Days) != 7 {
		t.Fatalf("期望 7 天，实际 %d", len(s.Days))
	}
	if s.WorkingDays.OccupancyRate != 0 {
		t.Errorf("无用户时出勤率应为 0，实际 %v", s.WorkingDays.OccupancyRate)
	}
}

func TestBuildSummary_OnlyWeekend(t *testing.T) {
	window := DaysFrom(time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC), 2)
	s := BuildSummary(window, []model.PlanningEntry{entry("u1", "2024-01-13", "", model.StatusOffice)}, 2)
	if s.WorkingDays.Days != 0 || s.WorkingDays.OccupancyRate != 0 {
		t.Errorf("仅周末时工作日合计应为零值，实际 %+v", s.WorkingDays)
	}
}

func TestBuildSummary_OccupancyRounding(t *testing.T) {
	window := []string{"2024-01-08", "2024-01-09", "2024-01-10"}
	entries := []model.PlanningEntry{
		entry("u1", "2024-01-08", "", model.StatusOffice),
	}
	// 1 / (3 × 1) × 100 = 33.33… → 33.3
	if got := BuildSummary(window, entries, 1).WorkingDays.OccupancyRate; got != 33.3 {
		t.Errorf("OccupancyRate = %v，期望 33.3", got)
	}
}

func TestBuildSummary_SplitPeriods(t *testing.T) {
	week := WeekRange(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC))

	t.Run("上午与下午均在办公室计为一个人日", func(t *testing.T) {
		var entries []model.PlanningEntry
		for _, d := range week {
			entries = append(entries,
				entry("u1", d, model.PeriodMorning, model.StatusOffice),
				entry("u1", d, model.PeriodAfternoon, model.StatusOffice),
			)
		}

		s := BuildSummary(week, entries, 1)

		if s.WorkingDays.OccupancyRate != 100 {
			t.Errorf("OccupancyRate = %v，期望 100", s.WorkingDays.OccupancyRate)
		}
		if s.WorkingDays.Office != 5 {
			t.Errorf("Office = %v 人日，期望 5", s.WorkingDays.Office)
		}
		if s.Days[0].Office != 2 || s.Days[0].Total != 2 {
			t.Errorf("每日统计仍按记录计数，实际 %+v", s.Days[0])
		}
	})

	t.Run("半天远程半天办公", func(t *testing.T) {
		entries := []model.PlanningEntry{
			entry("u1", "2024-01-08", model.PeriodMorning, model.StatusRemote),
			entry("u1", "2024-01-08", model.PeriodAfternoon, model.StatusOffice),
		}

		wd := BuildSummary(week[:1], entries, 1).WorkingDays

		want := WorkingDays{Days: 1, Office: 0.5, Remote: 0.5, AvgRemote: 1, OccupancyRate: 50}
		if diff := cmp.Diff(want, wd); diff != "" {
			t.Errorf("工作日合计不匹配 (-want +got):\n%s", diff)
		}
	})

	t.Run("整天记录补齐未声明的半天", func(t *testing.T) {
		entries := []model.PlanningEntry{
			entry("u1", "2024-01-08", model.PeriodNone, model.StatusOffice),
			entry("u1", "2024-01-08", model.PeriodMorning, model.StatusAbsent),
			entry("u2", "2024-01-08", model.PeriodNone, model.StatusOffice),
		}

		wd := BuildSummary(week[:1], entries, 2).WorkingDays

		// u1: 上午 absent + 下午 office（整天补齐），u2: 整天 office
		if wd.Office != 1.5 || wd.Absent != 0.5 {
			t.Errorf("期望 office=1.5 absent=0.5，实际 %+v", wd)
		}
		if wd.OccupancyRate != 75 {
			t.Errorf("OccupancyRate = %v，期望 75", wd.OccupancyRate)
		}
	})

	t.Run("孤立记录不会使比例超过 100", func(t *testing.T) {
		entries := []model.PlanningEntry{
			entry("u1", "2024-01-08", model.PeriodNone, model.StatusOffice),
			entry("ghost", "2024-01-08", model.PeriodNone, model.StatusOffice),
		}
		if got := BuildSummary(week[:1], entries, 1).WorkingDays.OccupancyRate; got != 100 {
			t.Errorf("OccupancyRate = %v，期望 100", got)
		}
	})
}
