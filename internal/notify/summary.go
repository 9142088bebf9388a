package notify

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hamed0406/perfprobe/internal/domain"
)

// RunMessage builds the notification for a finished run. previous is the
// summary of the run before it, if any; the title reports whether the
// target degraded, recovered or stayed the same.
func RunMessage(r *domain.RunReport, previous *domain.RunSummary) (title, text string) {
	cur := r.Summary()
	failing := cur.Failed > 0
	wasFailing := previous != nil && previous.Failed > 0

	switch {
	case failing && !wasFailing:
		title = "🔴 Performance run DEGRADED"
	case failing:
		title = "🟠 Performance run still failing"
	case wasFailing:
		title = "🟢 Performance run RECOVERED"
	default:
		title = "✅ Performance run complete"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Target: %s\n", cur.BaseURL)
	fmt.Fprintf(&b, "Run: %s\n", cur.RunID)
	fmt.Fprintf(&b, "Requests: %d (%d failed)\n", cur.TotalRequests, cur.Failed)

	names := make([]string, 0, len(r.ResponseTimeTests))
	for name := range r.ResponseTimeTests {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		es := r.ResponseTimeTests[name]
		if es.AvgMS == nil {
			fmt.Fprintf(&b, "%s: %s\n", name, es.Error)
			continue
		}
		fmt.Fprintf(&b, "%s: avg %.2f ms, %d/%d ok\n", name, *es.AvgMS, es.Successful, es.TotalRequests)
	}

	concurrent := "n/a"
	if cur.ConcurrentAvgMS != nil {
		concurrent = fmt.Sprintf("%.2f ms", *cur.ConcurrentAvgMS)
		if previous != nil && previous.ConcurrentAvgMS != nil {
			concurrent += fmt.Sprintf(" (previous %.2f ms)", *previous.ConcurrentAvgMS)
		}
	}
	fmt.Fprintf(&b, "Concurrent avg: %s\n", concurrent)
	fmt.Fprintf(&b, "Checked: %s", cur.Timestamp.Format(time.RFC3339))
	return title, b.String()
}
