package planning

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestWeekRange(t *testing.T) {
	want := []string{"2024-01-08", "2024-01-09", "2024-01-10", "2024-01-11", "2024-01-12"}

	tests := []struct {
		name string
		ref  time.Time
	}{
		{"周一", time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)},
		{"周三", time.Date(2024, 1, 10, 23, 59, 0, 0, time.UTC)},
		{"周五", time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)},
		{"周六", time.Date(2024, 1, 13, 12, 0, 0, 0, time.UTC)},
		{"周日回退 6 天", time.Date(2024, 1, 14, 12, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(want, WeekRange(tt.ref)); diff != "" {
				t.Errorf("WeekRange 不匹配 (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWeekRange_NeverIncludesWeekend(t *testing.T) {
	start := time.Date(2024, 2, 26, 0, 0, 0, 0, time.UTC) // 跨月、闰年
	for i := 0; i < 14; i++ {
		days := WeekRange(start.AddDate(0, 0, i))
		if len(days) != WorkDays {
			t.Fatalf("期望 %d 天，实际 %d", WorkDays, len(days))
		}
		for _, d := range days {
			if IsWeekend(d) {
				t.Errorf("WeekRange 包含周末: %s", d)
			}
		}
	}
}

func TestWeekRange_UsesLocation(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skip("缺少时区数据")
	}
	// UTC 周日 23:30 在巴黎已是周一
	ref := time.Date(2024, 1, 14, 23, 30, 0, 0, time.UTC).In(paris)
	if got := WeekRange(ref)[0]; got != "2024-01-15" {
		t.Errorf("期望周一 2024-01-15，实际 %s", got)
	}
}

func TestDaysFrom(t *testing.T) {
	got := DaysFrom(time.Date(2024, 12, 29, 0, 0, 0, 0, time.UTC), 7)
	want := []string{"2024-12-29", "2024-12-30", "2024-12-31", "2025-01-01", "2025-01-02", "2025-01-03", "2025-01-04"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DaysFrom 不匹配 (-want +got):\n%s", diff)
	}
}

func TestIsWeekend(t *testing.T) {
	cases := map[string]bool{
		"2024-01-13": true,
		"2024-01-14": true,
		"2024-01-15": false,
		"not-a-date": false,
	}
	for in, want := range cases {
		if got := IsWeekend(in); got != want {
			t.Errorf("IsWeekend(%q) = %v，期望 %v", in, got, want)
		}
	}
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2024-01-08", time.UTC); err != nil {
		t.Errorf("合法日期解析失败: %v", err)
	}
	for _, bad := range []string{"2024-1-8", "08/01/2024", "2024-02-30", ""} {
		if _, err := ParseDate(bad, time.UTC); err == nil {
			t.Errorf("ParseDate(%q) 应失败", bad)
		}
	}
}
