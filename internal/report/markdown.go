package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/nao1215/markdown"

	"github.com/hamed0406/perfprobe/internal/domain"
)

// MarkdownWriter outputs a human-readable summary of the run, one table
// per phase.
type MarkdownWriter struct {
	baseWriter
}

func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

func (w *MarkdownWriter) Write(report *domain.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeResponseTimes(md, report)
	w.writeAssets(md, report)
	w.writeAPIs(md, report)
	w.writeConcurrent(md, report)
	w.writeVerdict(md, report)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *domain.RunReport) {
	md.H1("Performance Report")
	md.PlainText("")

	dns := "-"
	if report.TargetDNS != nil {
		dns = report.TargetDNS.Class
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + report.RunID + "`"},
			{"Target", report.BaseURL},
			{"Timestamp", report.Timestamp.Format(time.RFC3339)},
			{"DNS", dns},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeResponseTimes(md *markdown.Markdown, report *domain.RunReport) {
	md.H2("Response Times")
	md.PlainText("")

	names := make([]string, 0, len(report.ResponseTimeTests))
	for name := range report.ResponseTimeTests {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, append([]string{name}, statsRow(report.ResponseTimeTests[name])...))
	}
	md.Table(markdown.TableSet{
		Header: append([]string{"Name"}, statsHeader...),
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeAssets(md *markdown.Markdown, report *domain.RunReport) {
	md.H2("Assets")
	md.PlainText("")
	if len(report.AssetLoading) == 0 {
		md.PlainText("No assets inspected.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(report.AssetLoading))
	for _, a := range report.AssetLoading {
		if a.AssetInfo == nil {
			rows = append(rows, []string{a.Path, "error", "-", "-", "-", a.Error})
			continue
		}
		rows = append(rows, []string{
			a.Path,
			strconv.Itoa(a.StatusCode),
			humanize.Bytes(uint64(a.SizeBytes)),
			ms(a.ResponseTimeMS),
			a.ContentType,
			a.CacheControl,
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Path", "Status", "Size", "Time", "Content-Type", "Cache-Control"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeAPIs(md *markdown.Markdown, report *domain.RunReport) {
	md.H2("API Endpoints")
	md.PlainText("")
	if len(report.APIResponseSizes) == 0 {
		md.PlainText("No API endpoints inspected.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(report.APIResponseSizes))
	for _, a := range report.APIResponseSizes {
		if a.APIInfo == nil {
			rows = append(rows, []string{a.Endpoint, "error", "-", "-", "-", a.Error})
			continue
		}
		rows = append(rows, []string{
			a.Endpoint,
			strconv.Itoa(a.StatusCode),
			humanize.Bytes(uint64(a.SizeBytes)),
			a.ContentEncoding,
			strconv.FormatBool(a.IsJSON),
			shape(a.JSONKeys),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Endpoint", "Status", "Size", "Encoding", "JSON", "Keys"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeConcurrent(md *markdown.Markdown, report *domain.RunReport) {
	md.H2("Concurrent Load")
	md.PlainText("")
	c := report.ConcurrentTests
	if c == nil {
		md.PlainText("Concurrent phase did not run.")
		md.PlainText("")
		return
	}

	md.PlainTextf("%d rounds of %d simultaneous requests.", c.Rounds, c.ConcurrentLevel)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: statsHeader,
		Rows:   [][]string{statsRow(c.EndpointStats)},
	})
	md.PlainText("")

	if len(c.RoundDurationsMS) > 0 {
		rounds := make([]string, len(c.RoundDurationsMS))
		for i, d := range c.RoundDurationsMS {
			rounds[i] = fmt.Sprintf("round %d: %s", i+1, ms(d))
		}
		md.BulletList(rounds...)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeVerdict(md *markdown.Markdown, report *domain.RunReport) {
	s := report.Summary()
	switch {
	case s.TotalRequests > 0 && s.Failed == s.TotalRequests:
		md.Cautionf("Every timed request failed (%d of %d).", s.Failed, s.TotalRequests)
	case s.Failed > 0:
		md.Warningf("%d of %d timed requests failed.", s.Failed, s.TotalRequests)
	default:
		md.Tip("All timed requests succeeded.")
	}
	md.PlainText("")
}

var statsHeader = []string{"Endpoint", "OK", "Failed", "Min", "Avg", "Median", "Max", "Std Dev"}

func statsRow(es domain.EndpointStats) []string {
	row := []string{es.Endpoint, strconv.Itoa(es.Successful), strconv.Itoa(es.Failed)}
	if es.Error != "" {
		return append(row, es.Error, "-", "-", "-", "-")
	}
	return append(row, msp(es.MinMS), msp(es.AvgMS), msp(es.MedianMS), msp(es.MaxMS), msp(es.StdDevMS))
}

func ms(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + " ms"
}

func msp(v *float64) string {
	if v == nil {
		return "-"
	}
	return ms(*v)
}

func shape(k *domain.JSONKeys) string {
	switch {
	case k == nil:
		return "-"
	case !k.Object:
		return domain.ArrayResponse
	case len(k.Keys) == 0:
		return "(empty object)"
	default:
		return strings.Join(k.Keys, ", ")
	}
}
