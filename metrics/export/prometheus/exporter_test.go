package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	goCredStore "github.com/MrEthical07/goCredStore"
)

type fakeSource struct {
	snapshot goCredStore.MetricsSnapshot
	dropped  uint64
}

func (f fakeSource) MetricsSnapshot() goCredStore.MetricsSnapshot { return f.snapshot }
func (f fakeSource) AuditDropped() uint64                         { return f.dropped }

func TestRenderEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goCredStore.MetricsSnapshot{
			Counters:   map[goCredStore.MetricID]uint64{},
			Histograms: map[goCredStore.MetricID][]uint64{},
		},
		dropped: 0,
	})

	if got := exp.Render(); got != "" {
		t.Fatalf("expected empty output for disabled metrics, got:\n%s", got)
	}
}

func TestRenderDeterministicIncludesCounterAndHistogram(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goCredStore.MetricsSnapshot{
			Counters: map[goCredStore.MetricID]uint64{
				goCredStore.MetricLoadAccepted: 7,
			},
			Histograms: map[goCredStore.MetricID][]uint64{
				goCredStore.MetricBackendLatency: {1, 2, 3, 4, 5, 6, 7, 8},
			},
		},
		dropped: 2,
	})

	out := exp.Render()
	if !strings.Contains(out, "credstore_load_accepted_total 7") {
		t.Fatalf("expected load_accepted counter in output, got:\n%s", out)
	}
	if !strings.Contains(out, "credstore_backend_latency_seconds_bucket{le=\"0.005\"} 1") {
		t.Fatalf("expected first histogram bucket in output, got:\n%s", out)
	}
	if !strings.Contains(out, "credstore_backend_latency_seconds_bucket{le=\"+Inf\"} 36") {
		t.Fatalf("expected +Inf cumulative bucket in output, got:\n%s", out)
	}
	if !strings.Contains(out, "credstore_audit_dropped_total 2") {
		t.Fatalf("expected audit dropped counter in output, got:\n%s", out)
	}
}

func TestHandlerWritesPrometheusContentType(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goCredStore.MetricsSnapshot{
			Counters:   map[goCredStore.MetricID]uint64{goCredStore.MetricLoadAccepted: 1},
			Histograms: map[goCredStore.MetricID][]uint64{},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "text/plain") {
		t.Fatalf("expected prometheus content type, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func BenchmarkRender(b *testing.B) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goCredStore.MetricsSnapshot{
			Counters: map[goCredStore.MetricID]uint64{
				goCredStore.MetricLoadAccepted:       1000,
				goCredStore.MetricStoreAccepted:      800,
				goCredStore.MetricClearAccepted:      40,
				goCredStore.MetricOperationSucceeded: 1800,
				goCredStore.MetricOperationFailed:    10,
				goCredStore.MetricRejectionBusy:      20,
			},
			Histograms: map[goCredStore.MetricID][]uint64{
				goCredStore.MetricBackendLatency: {10, 20, 30, 40, 50, 60, 70, 80},
			},
		},
		dropped: 0,
	})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = exp.Render()
	}
}
