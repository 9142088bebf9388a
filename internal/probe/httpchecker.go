package probe

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"time"
)

type HTTPChecker struct {
	Client *http.Client
}

// NewHTTPChecker builds a checker whose client follows redirects and gives
// up after timeout. insecureSkipVerify disables TLS certificate checks.
// Without keepAlive every request dials a fresh connection, so each sample
// includes connection setup.
func NewHTTPChecker(timeout time.Duration, insecureSkipVerify, keepAlive bool) *HTTPChecker {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: insecureSkipVerify} //nolint:gosec // opt-in test posture
	tr.DisableKeepAlives = !keepAlive
	return &HTTPChecker{
		Client: &http.Client{Timeout: timeout, Transport: tr},
	}
}

// Fetch issues a GET and reads the whole body. Elapsed time covers the body
// download. Any status code counts as a completed round trip.
func (h *HTTPChecker) Fetch(ctx context.Context, target string) Response {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return failed(err, 0)
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		return failed(err, sinceMS(start))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	latency := sinceMS(start)
	if err != nil {
		return failed(err, latency)
	}

	out := Response{
		Header:       resp.Header,
		Body:         body,
		Decompressed: resp.Uncompressed,
	}
	out.Success = true
	out.StatusCode = resp.StatusCode
	out.ElapsedMS = latency
	return out
}

// CloseIdle drops pooled connections.
func (h *HTTPChecker) CloseIdle() {
	h.Client.CloseIdleConnections()
}

func failed(err error, latency float64) Response {
	var out Response
	out.Success = false
	out.ElapsedMS = latency
	out.Error = err.Error()
	return out
}

func sinceMS(start time.Time) float64 {
	return time.Since(start).Seconds() * 1000 // ms
}
