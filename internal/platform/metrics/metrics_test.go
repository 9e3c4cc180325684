package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	b, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	return string(b)
}

func TestExtractionStarted(t *testing.T) {
	m := New()
	done := m.ExtractionStarted()
	if out := scrape(t, m); !strings.Contains(out, "hlgrab_extractions_in_flight 1") {
		t.Fatalf("expected one in flight:\n%s", out)
	}
	done("probe_failed")

	out := scrape(t, m)
	for _, want := range []string{
		"hlgrab_extractions_in_flight 0",
		`hlgrab_extractions_total{result="probe_failed"} 1`,
		"hlgrab_extraction_duration_seconds_count 1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}

func TestRequestMiddleware(t *testing.T) {
	m := New()
	h := RequestMiddleware(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	for _, p := range []string{"/ok", "/bad", "/ok"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	out := scrape(t, m)
	if !strings.Contains(out, "hlgrab_http_requests_total 3") {
		t.Fatalf("expected 3 requests:\n%s", out)
	}
	if !strings.Contains(out, "hlgrab_http_errors_total 1") {
		t.Fatalf("expected 1 error:\n%s", out)
	}
}

func TestAddSwept(t *testing.T) {
	m := New()
	m.AddSwept(4)
	if out := scrape(t, m); !strings.Contains(out, "hlgrab_retention_removed_files_total 4") {
		t.Fatalf("expected swept counter:\n%s", out)
	}
}
