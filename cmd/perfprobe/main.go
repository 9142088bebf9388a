// Package main is the perfprobe CLI.
//
// perfprobe measures how a web deployment responds: sequential response
// times, asset and API response metadata, and latency under a burst of
// concurrent requests. Each run is written as a JSON report.
//
// Usage:
//
//	perfprobe                  # same as perfprobe run
//	perfprobe run -u https://example.com -n 20
//	perfprobe history --history runs.db
//	perfprobe show latest --history runs.db
//	perfprobe preflight
package main

func main() {
	Execute()
}
