package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("scrape status %d", rec.Code)
	}
	return rec.Body.String()
}

func TestMetricsCounters(t *testing.T) {
	m := &Metrics{
		Namespace: "winsec",
		Labels:    map[string]string{"host": "test"},
	}
	m.Init()

	m.OnDescriptorRead(nil, false)
	m.OnDescriptorRead(nil, true)
	m.OnDescriptorRead(errors.New("denied"), false)
	m.OnElevation(nil)
	m.OnElevation(errors.New("not held"))
	m.OnLookup(nil)
	m.OnLookup(errors.New("none mapped"))
	m.OnScanObject(nil)
	m.OnScanObject(errors.New("denied"))
	m.OnScanDone(1500 * time.Millisecond)

	body := scrape(t, m.Handler())
	expected := []string{
		`winsec_descriptor_reads_total{host="test"} 3`,
		`winsec_descriptor_read_errors_total{host="test"} 1`,
		`winsec_descriptor_sacl_reads_total{host="test"} 1`,
		`winsec_privilege_elevations_total{host="test"} 1`,
		`winsec_privilege_elevation_failures_total{host="test"} 1`,
		`winsec_account_lookups_total{host="test"} 2`,
		`winsec_account_lookup_failures_total{host="test"} 1`,
		`winsec_scan_objects_total{host="test"} 2`,
		`winsec_scan_errors_total{host="test"} 1`,
		`winsec_scan_last_duration_seconds{host="test"} 1.5`,
	}
	for _, line := range expected {
		if !strings.Contains(body, line) {
			t.Errorf("missing metric line %q", line)
		}
	}
}
