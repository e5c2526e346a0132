package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"

	"team-planner/backend/internal/dto"
	"team-planner/backend/internal/model"
	apperrors "team-planner/backend/pkg/errors"
)

// ── 测试辅助 ──

func setupTestExportService() (ExportService, *testEnv) {
	env := newTestEnv()
	planningSvc := NewPlanningService(env.cfg, env.repo, env.recorder, nopLogger).(*planningService)
	planningSvc.now = fixedClock(testNow)
	svc := NewExportService(env.cfg, planningSvc, nopLogger).(*exportService)
	svc.now = fixedClock(testNow)
	return svc, env
}

// ── ExportWeek 测试 ──

func TestExportService_ExportWeek(t *testing.T) {
	svc, env := setupTestExportService()
	env.addUser("u1", "Alice", model.RoleEmployee)
	env.addUser("u2", "Bob", model.RoleEmployee)
	env.planning.seed(
		model.PlanningEntry{UserID: "u1", Date: "2024-01-08", Period: model.PeriodMorning, Status: model.StatusOffice},
		model.PlanningEntry{UserID: "u2", Date: "2024-01-08", Period: model.PeriodAfternoon, Status: model.StatusRemote},
	)

	buf, filename, err := svc.ExportWeek(context.Background(), &dto.WeekQuery{Date: "2024-01-10"})
	if err != nil {
		t.Fatalf("期望成功，实际错误: %v", err)
	}
	if filename != "planning_2024-01-08.xlsx" {
		t.Errorf("filename = %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("无法打开生成的 Excel: %v", err)
	}
	defer f.Close()

	checks := map[string]string{
		"A1": "Planning semaine du 2024-01-08",
		"A2": "Collaborateur",
		"B2": "lun. 08/01 matin",
		"C2": "lun. 08/01 après-midi",
		"A3": "Alice",
		"B3": "Présentiel",
		"C3": "Non renseigné",
		"A4": "Bob",
		"C4": "Télétravail",
	}
	for ref, want := range checks {
		got, err := f.GetCellValue("Planning", ref)
		if err != nil {
			t.Fatalf("读取 %s 失败: %v", ref, err)
		}
		if got != want {
			t.Errorf("%s: 期望 %q，实际 %q", ref, want, got)
		}
	}

	// 合计行：空一行后依次为 office / remote / absent
	if got, _ := f.GetCellValue("Planning", "A6"); got != "Présentiel" {
		t.Errorf("A6 = %q", got)
	}
	if got, _ := f.GetCellValue("Planning", "B6"); got != "1" {
		t.Errorf("周一 office 合计期望 1，实际 %q", got)
	}
}

func TestExportService_ExportWeek_InvalidDate(t *testing.T) {
	svc, _ := setupTestExportService()

	_, _, err := svc.ExportWeek(context.Background(), &dto.WeekQuery{Date: "not-a-date"})
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("期望 InvalidInput，实际: %v", err)
	}
}

// ── ExportCalendar 测试 ──

func TestExportService_ExportCalendar(t *testing.T) {
	svc, env := setupTestExportService()
	env.planning.seed(
		model.PlanningEntry{UserID: "u1", Date: "2024-01-08", Status: model.StatusRemote},
		model.PlanningEntry{UserID: "u1", Date: "2024-01-09", Period: model.PeriodMorning, Status: model.StatusOffice},
		model.PlanningEntry{UserID: "u2", Date: "2024-01-09", Status: model.StatusAbsent},
	)

	buf, filename, err := svc.ExportCalendar(context.Background(), "u1", nil)
	if err != nil {
		t.Fatalf("期望成功，实际错误: %v", err)
	}
	if filename != "planning.ics" {
		t.Errorf("filename = %s", filename)
	}

	cal, err := ics.ParseCalendar(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("生成的 ICS 无法解析: %v", err)
	}
	events := cal.Events()
	if len(events) != 2 {
		t.Fatalf("期望 2 个事件（仅当前用户），实际 %d", len(events))
	}

	summaries := map[string]bool{}
	for _, e := range events {
		if p := e.GetProperty(ics.ComponentPropertySummary); p != nil {
			summaries[p.Value] = true
		}
	}
	if !summaries["Télétravail"] || !summaries["Présentiel"] {
		t.Errorf("事件标题不正确: %v", summaries)
	}

	half := events[1]
	start, err := half.GetStartAt()
	if err != nil {
		t.Fatalf("GetStartAt 失败: %v", err)
	}
	if start.UTC().Hour() != 9 {
		t.Errorf("上午事件应从 09:00 开始，实际 %v", start)
	}
}

func TestExportService_ExportCalendar_DSTDay(t *testing.T) {
	env := newTestEnv()
	env.cfg.Server.Timezone = "Europe/Paris"
	planningSvc := NewPlanningService(env.cfg, env.repo, env.recorder, nopLogger)
	svc := NewExportService(env.cfg, planningSvc, nopLogger).(*exportService)
	svc.now = fixedClock(testNow)

	// 2024-03-31 巴黎切换夏令时，当天零点 + 9h 会落在 10:00
	env.planning.seed(
		model.PlanningEntry{UserID: "u1", Date: "2024-03-31", Period: model.PeriodMorning, Status: model.StatusOffice},
		model.PlanningEntry{UserID: "u1", Date: "2024-10-27", Period: model.PeriodAfternoon, Status: model.StatusRemote},
	)

	buf, _, err := svc.ExportCalendar(context.Background(), "u1", nil)
	if err != nil {
		t.Fatalf("期望成功，实际错误: %v", err)
	}

	cal, err := ics.ParseCalendar(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("生成的 ICS 无法解析: %v", err)
	}

	paris, _ := time.LoadLocation("Europe/Paris")
	want := map[string][2]int{
		"2024-03-31": {9, 12},
		"2024-10-27": {14, 18},
	}
	events := cal.Events()
	if len(events) != 2 {
		t.Fatalf("期望 2 个事件，实际 %d", len(events))
	}
	for _, e := range events {
		start, err := e.GetStartAt()
		if err != nil {
			t.Fatalf("GetStartAt 失败: %v", err)
		}
		end, err := e.GetEndAt()
		if err != nil {
			t.Fatalf("GetEndAt 失败: %v", err)
		}
		start, end = start.In(paris), end.In(paris)
		hours, ok := want[start.Format(model.DateLayout)]
		if !ok {
			t.Fatalf("意外的事件日期 %v", start)
		}
		if start.Hour() != hours[0] || end.Hour() != hours[1] {
			t.Errorf("%s: 期望本地 %02d:00-%02d:00，实际 %s-%s",
				start.Format(model.DateLayout), hours[0], hours[1], start.Format("15:04"), end.Format("15:04"))
		}
	}
}
