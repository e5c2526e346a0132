package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordEntriesSaved(3)
	c.RecordEntriesSaved(2)
	c.RecordSignup()

	if got := testutil.ToFloat64(c.entriesSaved); got != 5 {
		t.Errorf("期望 entriesSaved=5，实际=%v", got)
	}
	if got := testutil.ToFloat64(c.signups); got != 1 {
		t.Errorf("期望 signups=1，实际=%v", got)
	}
}

func TestCollector_RecordRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequest("GET", "/api/v1/profile", 200, 10*time.Millisecond)
	c.RecordRequest("GET", "/api/v1/profile", 200, 20*time.Millisecond)
	c.RecordRequest("GET", "", 404, time.Millisecond)

	if got := testutil.ToFloat64(c.requests.WithLabelValues("GET", "/api/v1/profile", "200")); got != 2 {
		t.Errorf("期望 2 次请求，实际=%v", got)
	}
	if got := testutil.ToFloat64(c.requests.WithLabelValues("GET", "unmatched", "404")); got != 1 {
		t.Errorf("未匹配路由应归入 unmatched，实际=%v", got)
	}
}

func TestHandler_Exposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordSignup()

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("请求 /metrics 失败: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), "planner_signups_total 1") {
		t.Errorf("指标输出中缺少 planner_signups_total:\n%s", body)
	}
}
