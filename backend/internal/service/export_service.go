package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"team-planner/backend/config"
	"team-planner/backend/internal/dto"
	"team-planner/backend/internal/model"
	"team-planner/backend/internal/planning"
)

// ── 导出模块业务错误 ──

var ErrExportGenerateFail = errors.New("échec de génération du fichier")

// ExportService 导出业务接口
//
// 设计说明：
//   - 周视图导出为 Excel (.xlsx)，行为用户，列为 日期 × 时段，单元格按状态着色
//   - 个人排期导出为 iCalendar (.ics)，整天记录为全天事件，半天记录带起止时间
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportWeek 导出 date 所在周的全局周视图
	ExportWeek(ctx context.Context, q *dto.WeekQuery) (*bytes.Buffer, string, error)
	// ExportCalendar 导出当前用户的排期
	ExportCalendar(ctx context.Context, userID string, q *dto.DateRangeQuery) (*bytes.Buffer, string, error)
}

type exportService struct {
	planning PlanningService
	loc      *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(cfg *config.Config, planningSvc PlanningService, logger *zap.Logger) ExportService {
	return &exportService{
		planning: planningSvc,
		loc:      cfg.Server.Location(),
		now:      time.Now,
		logger:   logger,
	}
}

// ═══════════════════════════════════════════════════════════
// ExportWeek：周视图导出为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 第 1 行：标题 "Planning semaine du <周一>"
//   - 第 2 行：Collaborateur | lun. 08/01 [matin/après-midi] | ...
//   - 数据行：每个用户一行，单元格为状态标签并按状态填充底色
//   - 末尾：每天 office/remote/absent 合计

var weekdayLabels = map[time.Weekday]string{
	time.Monday:    "lun.",
	time.Tuesday:   "mar.",
	time.Wednesday: "mer.",
	time.Thursday:  "jeu.",
	time.Friday:    "ven.",
}

var periodLabels = map[string]string{
	model.PeriodMorning:   "matin",
	model.PeriodAfternoon: "après-midi",
}

func (s *exportService) ExportWeek(ctx context.Context, q *dto.WeekQuery) (*bytes.Buffer, string, error) {
	view, err := s.planning.Week(ctx, q)
	if err != nil {
		return nil, "", err
	}

	buf, err := renderWeekXLSX(view)
	if err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("planning_%s.xlsx", view.Days[0])
	return buf, filename, nil
}

func renderWeekXLSX(view *planning.WeekView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Planning"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	nCols := len(view.Days) * len(view.Periods)
	f.SetColWidth(sheet, "A", "A", 24)
	if nCols > 0 {
		f.SetColWidth(sheet, colName(1), colName(nCols), 16)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	statusStyles := make(map[model.Status]int, len(model.Statuses)+1)
	for _, m := range model.StatusTable() {
		id, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{m.FillColor}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center"},
			Border: []excelize.Border{
				{Type: "left", Color: "#D1D5DB", Style: 1},
				{Type: "right", Color: "#D1D5DB", Style: 1},
				{Type: "top", Color: "#D1D5DB", Style: 1},
				{Type: "bottom", Color: "#D1D5DB", Style: 1},
			},
		})
		if err != nil {
			return nil, err
		}
		statusStyles[m.Status] = id
	}

	// 标题行
	f.SetCellValue(sheet, "A1", "Planning semaine du "+view.Days[0])
	if nCols > 0 {
		f.MergeCell(sheet, "A1", cell(colName(nCols), 1))
	}
	f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	// 表头
	row := 2
	f.SetCellValue(sheet, cell("A", row), "Collaborateur")
	col := 1
	for _, d := range view.Days {
		for _, p := range view.Periods {
			f.SetCellValue(sheet, cell(colName(col), row), columnLabel(d, p))
			col++
		}
	}
	f.SetCellStyle(sheet, cell("A", row), cell(colName(nCols), row), headerStyle)

	// 数据行
	row = 3
	for _, r := range view.Rows {
		f.SetCellValue(sheet, cell("A", row), r.User.Name)
		for i, c := range r.Cells {
			ref := cell(colName(i+1), row)
			f.SetCellValue(sheet, ref, c.Status.Meta().Label)
			f.SetCellStyle(sheet, ref, ref, statusStyles[c.Status.Meta().Status])
		}
		row++
	}

	// 每日合计
	row++
	for _, st := range model.Statuses {
		f.SetCellValue(sheet, cell("A", row), st.Meta().Label)
		for i, ds := range view.Stats {
			ref := cell(colName(i*len(view.Periods)+1), row)
			f.SetCellValue(sheet, ref, statOf(ds, st))
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func columnLabel(date, period string) string {
	label := date
	if t, err := time.Parse(model.DateLayout, date); err == nil {
		label = weekdayLabels[t.Weekday()] + " " + t.Format("02/01")
	}
	if p, ok := periodLabels[period]; ok {
		label += " " + p
	}
	return label
}

func statOf(ds planning.DayStats, st model.Status) int {
	switch st {
	case model.StatusOffice:
		return ds.Office
	case model.StatusRemote:
		return ds.Remote
	case model.StatusAbsent:
		return ds.Absent
	}
	return 0
}

// ═══════════════════════════════════════════════════════════
// ExportCalendar：个人排期导出为 iCalendar
// ═══════════════════════════════════════════════════════════

// 半天记录在日历中的时间段（本地时区）
var periodHours = map[string][2]int{
	model.PeriodMorning:   {9, 12},
	model.PeriodAfternoon: {14, 18},
}

func (s *exportService) ExportCalendar(ctx context.Context, userID string, q *dto.DateRangeQuery) (*bytes.Buffer, string, error) {
	items, err := s.planning.MyPlanning(ctx, userID, q)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//team-planner//planning//FR")
	cal.SetXWRCalName("Mon planning")

	stamp := s.now().UTC()
	for _, it := range items {
		day, err := planning.ParseDate(it.Date, s.loc)
		if err != nil {
			s.logger.Warn("跳过日期无效的排期", zap.String("id", it.ID), zap.String("date", it.Date))
			continue
		}

		evt := cal.AddEvent(strings.ReplaceAll(it.ID, ":", "-") + "@team-planner")
		evt.SetDtStampTime(stamp)
		if t, err := time.Parse(time.RFC3339, it.UpdatedAt); err == nil {
			evt.SetModifiedAt(t)
		}
		evt.SetSummary(it.Status.Meta().Label)
		evt.SetProperty(ics.ComponentPropertyCategories, string(it.Status))

		if hours, ok := periodHours[it.Period]; ok {
			y, m, d := day.Date()
			evt.SetStartAt(time.Date(y, m, d, hours[0], 0, 0, 0, s.loc))
			evt.SetEndAt(time.Date(y, m, d, hours[1], 0, 0, 0, s.loc))
		} else {
			evt.SetAllDayStartAt(day)
			evt.SetAllDayEndAt(day.AddDate(0, 0, 1))
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	return buf, "planning.ics", nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
