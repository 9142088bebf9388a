package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestAssetResult_ErrorOmitsMetadata(t *testing.T) {
	b, err := json.Marshal(AssetResult{Path: "/logo.png", Error: "dial tcp: connection refused"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(b)
	want := `{"path":"/logo.png","error":"dial tcp: connection refused"}`
	if got != want {
		t.Fatalf("want %s, got %s", want, got)
	}
}

func TestAssetResult_SuccessKeepsZeroSize(t *testing.T) {
	r := AssetResult{Path: "/", AssetInfo: &AssetInfo{
		StatusCode:   204,
		ContentType:  NotAvailable,
		CacheControl: NotSet,
		ETag:         NotSet,
		LastModified: NotSet,
		Server:       NotAvailable,
	}}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, frag := range []string{`"size_bytes":0`, `"etag":"Not Set"`, `"server":"N/A"`} {
		if !strings.Contains(string(b), frag) {
			t.Fatalf("want %s in %s", frag, b)
		}
	}
	if strings.Contains(string(b), `"error"`) {
		t.Fatalf("success record must not carry error: %s", b)
	}
}

func TestJSONKeys_Marshal(t *testing.T) {
	cases := []struct {
		name string
		in   *JSONKeys
		want string
	}{
		{"object", &JSONKeys{Keys: []string{"status", "version"}, Object: true}, `"json_keys":["status","version"]`},
		{"empty object", &JSONKeys{Object: true}, `"json_keys":[]`},
		{"array", &JSONKeys{}, `"json_keys":"Array response"`},
	}
	for _, c := range cases {
		b, err := json.Marshal(APIInfo{IsJSON: true, JSONKeys: c.in})
		if err != nil {
			t.Fatalf("%s: marshal: %v", c.name, err)
		}
		if !strings.Contains(string(b), c.want) {
			t.Fatalf("%s: want %s in %s", c.name, c.want, b)
		}
	}

	b, _ := json.Marshal(APIInfo{IsJSON: false})
	if strings.Contains(string(b), "json_keys") {
		t.Fatalf("non-JSON body must omit json_keys: %s", b)
	}
}

func TestRunReport_JSONRoundTrip(t *testing.T) {
	avg := 42.5
	want := NewRunReport("run-1", "https://example.com", time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC))
	want.ResponseTimeTests["homepage"] = EndpointStats{Endpoint: "/", TotalRequests: 2, Successful: 2, AvgMS: &avg}
	want.APIResponseSizes = append(want.APIResponseSizes, APIResult{
		Endpoint: "/api/items",
		APIInfo:  &APIInfo{StatusCode: 200, IsJSON: true, JSONKeys: &JSONKeys{}},
	})
	want.ConcurrentTests = &ConcurrentStats{EndpointStats: EndpointStats{Endpoint: "/", TotalRequests: 15}, ConcurrentLevel: 5, Rounds: 3}

	b, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got RunReport
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.RunID != want.RunID || got.BaseURL != want.BaseURL || !got.Timestamp.Equal(want.Timestamp) {
		t.Fatalf("mismatch after round-trip:\nwant=%+v\ngot =%+v", want, got)
	}
	hp := got.ResponseTimeTests["homepage"]
	if hp.AvgMS == nil || *hp.AvgMS != avg {
		t.Fatalf("avg lost: %+v", hp)
	}
	if got.APIResponseSizes[0].JSONKeys == nil || got.APIResponseSizes[0].JSONKeys.Object {
		t.Fatalf("array marker lost: %+v", got.APIResponseSizes[0].APIInfo)
	}
	if got.ConcurrentTests.ConcurrentLevel != 5 || got.ConcurrentTests.TotalRequests != 15 {
		t.Fatalf("concurrent stats lost: %+v", got.ConcurrentTests)
	}
}

func TestRunReport_Summary(t *testing.T) {
	avg := 80.0
	r := NewRunReport("run-2", "https://example.com", time.Now().UTC())
	r.ResponseTimeTests["homepage"] = EndpointStats{TotalRequests: 10, Successful: 9, Failed: 1}
	r.ResponseTimeTests["api_health"] = EndpointStats{TotalRequests: 10, Failed: 10}
	r.ConcurrentTests = &ConcurrentStats{EndpointStats: EndpointStats{TotalRequests: 15, Successful: 15, AvgMS: &avg}}

	s := r.Summary()
	if s.TotalRequests != 35 || s.Failed != 11 {
		t.Fatalf("want 35 total / 11 failed, got %+v", s)
	}
	if s.ConcurrentAvgMS == nil || *s.ConcurrentAvgMS != 80 {
		t.Fatalf("want concurrent avg 80, got %v", s.ConcurrentAvgMS)
	}
}
