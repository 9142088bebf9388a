package domain

import (
	"encoding/json"
	"net"
	"time"
)

// Header sentinels used when a response omits the header.
const (
	NotAvailable = "N/A"
	NotSet       = "Not Set"
	NoEncoding   = "None"

	// ArrayResponse replaces the key list for JSON bodies that are not objects.
	ArrayResponse = "Array response"

	AllRequestsFailed           = "All requests failed"
	AllConcurrentRequestsFailed = "All concurrent requests failed"
)

// EndpointStats aggregates the measurements taken for one endpoint.
// Timing fields are nil when no round trip completed.
type EndpointStats struct {
	Endpoint      string   `json:"endpoint"`
	TotalRequests int      `json:"total_requests"`
	Successful    int      `json:"successful"`
	Failed        int      `json:"failed"`
	MinMS         *float64 `json:"min_ms,omitempty"`
	MaxMS         *float64 `json:"max_ms,omitempty"`
	AvgMS         *float64 `json:"avg_ms,omitempty"`
	MedianMS      *float64 `json:"median_ms,omitempty"`
	StdDevMS      *float64 `json:"std_dev_ms,omitempty"`
	StatusCodes   []int    `json:"status_codes,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// ConcurrentStats is EndpointStats over every round of the concurrent phase.
type ConcurrentStats struct {
	EndpointStats
	ConcurrentLevel  int       `json:"concurrent_level"`
	Rounds           int       `json:"rounds"`
	RoundDurationsMS []float64 `json:"round_durations_ms"`
}

// AssetInfo is the response metadata of one static asset.
type AssetInfo struct {
	StatusCode     int     `json:"status_code"`
	ResponseTimeMS float64 `json:"response_time_ms"`
	SizeBytes      int     `json:"size_bytes"`
	SizeKB         float64 `json:"size_kb"`
	ContentType    string  `json:"content_type"`
	CacheControl   string  `json:"cache_control"`
	ETag           string  `json:"etag"`
	LastModified   string  `json:"last_modified"`
	Server         string  `json:"server"`
}

// AssetResult is one record of the asset phase: either *AssetInfo or Error.
type AssetResult struct {
	Path string `json:"path"`
	*AssetInfo
	Error string `json:"error,omitempty"`
}

// APIInfo is the response metadata and body shape of one API endpoint.
type APIInfo struct {
	StatusCode      int       `json:"status_code"`
	ResponseTimeMS  float64   `json:"response_time_ms"`
	SizeBytes       int       `json:"size_bytes"`
	SizeKB          float64   `json:"size_kb"`
	ContentType     string    `json:"content_type"`
	ContentEncoding string    `json:"content_encoding"`
	IsJSON          bool      `json:"is_json"`
	JSONKeys        *JSONKeys `json:"json_keys,omitempty"`
}

// APIResult is one record of the API phase: either *APIInfo or Error.
type APIResult struct {
	Endpoint string `json:"endpoint"`
	*APIInfo
	Error string `json:"error,omitempty"`
}

// JSONKeys is the top-level shape of a JSON body. Objects marshal as their
// key list, anything else as the ArrayResponse marker.
type JSONKeys struct {
	Keys   []string
	Object bool
}

func (k JSONKeys) MarshalJSON() ([]byte, error) {
	if !k.Object {
		return json.Marshal(ArrayResponse)
	}
	keys := k.Keys
	if keys == nil {
		keys = []string{}
	}
	return json.Marshal(keys)
}

func (k *JSONKeys) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*k = JSONKeys{}
		return nil
	}
	var keys []string
	if err := json.Unmarshal(b, &keys); err != nil {
		return err
	}
	*k = JSONKeys{Keys: keys, Object: true}
	return nil
}

// DNSStatus classifies how the target host resolves.
type DNSStatus struct {
	Domain        string   `json:"domain"`
	HasAOrAAAA    bool     `json:"has_a_or_aaaa"`
	IPs           []net.IP `json:"ips,omitempty"`
	CNAME         string   `json:"cname,omitempty"`
	HasNS         bool     `json:"has_ns"`
	Nameservers   []string `json:"nameservers,omitempty"`
	Class         string   `json:"class"` // "NXDOMAIN" | "NO_A_RECORD" | "RESOLVES" | "SERVFAIL_or_TIMEOUT" | "INVALID_NAME"
	ResolverError string   `json:"resolver_error,omitempty"`
}

// RunReport is everything one invocation measured.
type RunReport struct {
	RunID             string                   `json:"run_id"`
	Timestamp         time.Time                `json:"timestamp"`
	BaseURL           string                   `json:"base_url"`
	TargetDNS         *DNSStatus               `json:"target_dns,omitempty"`
	ResponseTimeTests map[string]EndpointStats `json:"response_time_tests"`
	AssetLoading      []AssetResult            `json:"asset_loading"`
	APIResponseSizes  []APIResult              `json:"api_response_sizes"`
	ConcurrentTests   *ConcurrentStats         `json:"concurrent_tests"`
}

// NewRunReport starts an empty report for baseURL.
func NewRunReport(runID, baseURL string, now time.Time) *RunReport {
	return &RunReport{
		RunID:             runID,
		Timestamp:         now,
		BaseURL:           baseURL,
		ResponseTimeTests: make(map[string]EndpointStats),
		AssetLoading:      []AssetResult{},
		APIResponseSizes:  []APIResult{},
	}
}

// Summary condenses the report for history listings.
func (r *RunReport) Summary() RunSummary {
	s := RunSummary{
		RunID:     r.RunID,
		Timestamp: r.Timestamp,
		BaseURL:   r.BaseURL,
	}
	for _, es := range r.ResponseTimeTests {
		s.TotalRequests += es.TotalRequests
		s.Failed += es.Failed
	}
	if c := r.ConcurrentTests; c != nil {
		s.TotalRequests += c.TotalRequests
		s.Failed += c.Failed
		if c.AvgMS != nil {
			v := *c.AvgMS
			s.ConcurrentAvgMS = &v
		}
	}
	return s
}
