package domain

import "time"

// Measurement is the outcome of one HTTP request attempt.
//
// Success reports whether the round trip completed. A completed request
// with a 4xx/5xx status is still Success=true; callers that need the
// status split use StatusOK.
type Measurement struct {
	Endpoint   string  `json:"endpoint"`
	RequestID  int     `json:"request_id"`
	ElapsedMS  float64 `json:"elapsed_ms"`
	Success    bool    `json:"success"`
	StatusCode int     `json:"status_code,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// StatusOK is true for a completed round trip with a status below 400.
func (m Measurement) StatusOK() bool {
	return m.Success && m.StatusCode < 400
}

// RunSummary is the short form of a stored run, used for listings.
type RunSummary struct {
	RunID           string    `json:"run_id"`
	Timestamp       time.Time `json:"timestamp"`
	BaseURL         string    `json:"base_url"`
	TotalRequests   int       `json:"total_requests"`
	Failed          int       `json:"failed"`
	ConcurrentAvgMS *float64  `json:"concurrent_avg_ms"` // nil when the concurrent phase had no samples
}
