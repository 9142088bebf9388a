package probe

import (
	"context"
	"net/http"
	"strings"

	"github.com/hamed0406/perfprobe/internal/domain"
)

// Response is the outcome of one GET. When Success is false only the
// embedded Measurement (elapsed time and error text) is meaningful.
type Response struct {
	domain.Measurement
	Header http.Header
	Body   []byte
	// Decompressed is set when the transport transparently gunzipped the
	// body and dropped the Content-Encoding header.
	Decompressed bool
}

// HeaderOr returns the header value, or fallback when the header is absent.
// A header sent with an empty value yields "". Repeated headers are joined
// with ", ".
func (r Response) HeaderOr(key, fallback string) string {
	vs := r.Header.Values(key)
	if len(vs) == 0 {
		return fallback
	}
	return strings.Join(vs, ", ")
}

// Fetcher performs one timed GET against target.
type Fetcher interface {
	Fetch(ctx context.Context, target string) Response
}

// IdleCloser is implemented by fetchers that pool connections.
type IdleCloser interface {
	CloseIdle()
}
