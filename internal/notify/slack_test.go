package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hamed0406/perfprobe/internal/domain"
)

func TestSlack_OK(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		got = payload["text"]
		w.WriteHeader(200)
	}))
	defer ts.Close()

	s := NewSlack(ts.URL)
	if s == nil {
		t.Fatal("expected slack client")
	}
	err := s.Send(context.Background(), "Title", "Hello")
	if err != nil {
		t.Fatalf("send err: %v", err)
	}
	if got != "*Title*\nHello" {
		t.Fatalf("payload not as expected: %q", got)
	}
}

func TestSlack_Non2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer ts.Close()

	s := NewSlack(ts.URL)
	err := s.Send(context.Background(), "X", "Y")
	if err == nil {
		t.Fatalf("expected error on non-2xx")
	}
}

func TestSlack_Disabled(t *testing.T) {
	s := NewSlack("")
	if s != nil {
		t.Fatalf("expected nil client for empty webhook")
	}
	if err := s.Send(context.Background(), "X", "Y"); !errors.Is(err, ErrSlackDisabled) {
		t.Fatalf("want ErrSlackDisabled, got %v", err)
	}
}

type recorder struct {
	titles []string
	err    error
}

func (r *recorder) Send(_ context.Context, title, _ string) error {
	r.titles = append(r.titles, title)
	return r.err
}

func TestMulti_SendsToAllAndJoinsErrors(t *testing.T) {
	a := &recorder{err: errors.New("a down")}
	b := &recorder{}
	c := &recorder{err: errors.New("c down")}

	err := Multi{a, nil, b, c}.Send(context.Background(), "T", "x")
	if err == nil {
		t.Fatalf("expected joined error")
	}
	if !strings.Contains(err.Error(), "a down") || !strings.Contains(err.Error(), "c down") {
		t.Fatalf("missing errors in %q", err)
	}
	for i, r := range []*recorder{a, b, c} {
		if len(r.titles) != 1 {
			t.Fatalf("notifier %d called %d times", i, len(r.titles))
		}
	}
}

func report(failed int, concurrentAvg *float64) *domain.RunReport {
	r := domain.NewRunReport("run-7", "https://shop.example", time.Date(2025, 5, 4, 3, 2, 1, 0, time.UTC))
	avg := 21.5
	r.ResponseTimeTests["homepage"] = domain.EndpointStats{
		Endpoint: "/", TotalRequests: 10, Successful: 10 - failed, Failed: failed, AvgMS: &avg,
	}
	r.ResponseTimeTests["api_health"] = domain.EndpointStats{
		Endpoint: "/api/health", TotalRequests: 10, Failed: 10, Error: domain.AllRequestsFailed,
	}
	if failed == 0 {
		r.ResponseTimeTests["api_health"] = domain.EndpointStats{
			Endpoint: "/api/health", TotalRequests: 10, Successful: 10, AvgMS: &avg,
		}
	}
	r.ConcurrentTests = &domain.ConcurrentStats{
		EndpointStats: domain.EndpointStats{Endpoint: "/", TotalRequests: 15, Successful: 15, AvgMS: concurrentAvg},
	}
	return r
}

func TestRunMessage_Titles(t *testing.T) {
	healthy := &domain.RunSummary{Failed: 0}
	broken := &domain.RunSummary{Failed: 4}

	cases := []struct {
		name   string
		failed int
		prev   *domain.RunSummary
		want   string
	}{
		{"first healthy", 0, nil, "✅ Performance run complete"},
		{"still healthy", 0, healthy, "✅ Performance run complete"},
		{"first failing", 2, nil, "🔴 Performance run DEGRADED"},
		{"degraded", 2, healthy, "🔴 Performance run DEGRADED"},
		{"still failing", 2, broken, "🟠 Performance run still failing"},
		{"recovered", 0, broken, "🟢 Performance run RECOVERED"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			title, _ := RunMessage(report(tc.failed, nil), tc.prev)
			if title != tc.want {
				t.Fatalf("want %q got %q", tc.want, title)
			}
		})
	}
}

func TestRunMessage_Text(t *testing.T) {
	cur, prev := 48.0, 40.25
	_, text := RunMessage(report(2, &cur), &domain.RunSummary{ConcurrentAvgMS: &prev})

	for _, want := range []string{
		"Target: https://shop.example",
		"Run: run-7",
		"Requests: 35 (12 failed)",
		"api_health: All requests failed",
		"homepage: avg 21.50 ms, 8/10 ok",
		"Concurrent avg: 48.00 ms (previous 40.25 ms)",
		"Checked: 2025-05-04T03:02:01Z",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("text missing %q:\n%s", want, text)
		}
	}
}
