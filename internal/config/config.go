package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Defaults for a run. They mirror the fixed constants the probe was first
// written with; every one of them can be overridden by file, env or flag.
const (
	DefaultBaseURL            = "https://wms.alexandratechlab.com"
	DefaultRequestCount       = 10
	DefaultConcurrentEndpoint = "/"
	DefaultConcurrency        = 5
	DefaultRounds             = 3
	DefaultTimingTimeout      = 30 * time.Second
	DefaultInspectTimeout     = 10 * time.Second
	DefaultRequestDelay       = 100 * time.Millisecond
	DefaultRoundDelay         = 500 * time.Millisecond
	DefaultOutputPath         = "performance_test_results.json"
	DefaultLogDir             = "logs"
	DefaultAPIAddr            = "127.0.0.1:8080"
	DefaultAPIRateLimit       = 120
	DefaultAPIRateBurst       = 60
)

// DefaultAssetPaths are inspected once each, in order.
var DefaultAssetPaths = []string{
	"/",
	"/static/css/main.css",
	"/static/js/main.js",
	"/favicon.ico",
	"/logo.png",
	"/assets/index.js",
	"/assets/index.css",
}

// DefaultAPIPaths are inspected once each, in order.
var DefaultAPIPaths = []string{
	"/api/health",
	"/api/v1/health",
	"/api/auth/login",
	"/api/products",
	"/api/inventory",
	"/api/orders",
	"/api/users",
}

// DefaultEndpoints are timed sequentially, in order, as name=path.
var DefaultEndpoints = []string{
	"homepage=/",
	"api_health=/api/health",
}

type Config struct {
	BaseURL            string        `yaml:"base_url" env:"PERFPROBE_BASE_URL"`
	RequestCount       int           `yaml:"requests" env:"PERFPROBE_REQUESTS"`
	Endpoints          []string      `yaml:"endpoints" env:"PERFPROBE_ENDPOINTS"` // name=path
	AssetPaths         []string      `yaml:"asset_paths" env:"PERFPROBE_ASSET_PATHS"`
	APIPaths           []string      `yaml:"api_paths" env:"PERFPROBE_API_PATHS"`
	ConcurrentEndpoint string        `yaml:"concurrent_endpoint" env:"PERFPROBE_CONCURRENT_ENDPOINT"`
	Concurrency        int           `yaml:"concurrency" env:"PERFPROBE_CONCURRENCY"`
	Rounds             int           `yaml:"rounds" env:"PERFPROBE_ROUNDS"`
	TimingTimeout      time.Duration `yaml:"timing_timeout" env:"PERFPROBE_TIMING_TIMEOUT"`   // sequential + concurrent phases
	InspectTimeout     time.Duration `yaml:"inspect_timeout" env:"PERFPROBE_INSPECT_TIMEOUT"` // asset + API phases
	RequestDelay       time.Duration `yaml:"request_delay" env:"PERFPROBE_REQUEST_DELAY"`
	RoundDelay         time.Duration `yaml:"round_delay" env:"PERFPROBE_ROUND_DELAY"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify" env:"PERFPROBE_INSECURE_SKIP_VERIFY"`
	KeepAlive          bool          `yaml:"keep_alive" env:"PERFPROBE_KEEP_ALIVE"`
	OutputPath         string        `yaml:"output" env:"PERFPROBE_OUTPUT"`
	MarkdownPath       string        `yaml:"markdown" env:"PERFPROBE_MARKDOWN"`
	Verbose            bool          `yaml:"verbose" env:"PERFPROBE_VERBOSE"`
	// Every repeats the run on this interval; zero runs once.
	Every time.Duration `yaml:"every" env:"PERFPROBE_EVERY"`
	Times int           `yaml:"times" env:"PERFPROBE_TIMES"` // cap on repeated runs, 0 is unlimited

	LogDir string `yaml:"log_dir" env:"LOG_DIR"`
	// HistoryDSN selects the run history store: empty keeps runs in memory,
	// postgres:// URLs use Postgres, anything else is a SQLite file path.
	HistoryDSN   string `yaml:"history_dsn" env:"HISTORY_DSN"`
	SlackWebhook string `yaml:"slack_webhook" env:"SLACK_WEBHOOK_URL"`
	APIAddr      string `yaml:"api_addr" env:"API_ADDR"`
	// APIKeys guard the history API when set; empty leaves it open.
	APIKeys      []string `yaml:"api_keys" env:"API_KEYS"`
	APIRateLimit int      `yaml:"api_rate_limit" env:"API_RATE_LIMIT"` // requests per minute per client, 0 disables
	APIRateBurst int      `yaml:"api_rate_burst" env:"API_RATE_BURST"`
}

// Default returns a Config populated with the built-in constants.
func Default() Config {
	return Config{
		BaseURL:            DefaultBaseURL,
		RequestCount:       DefaultRequestCount,
		Endpoints:          append([]string(nil), DefaultEndpoints...),
		AssetPaths:         append([]string(nil), DefaultAssetPaths...),
		APIPaths:           append([]string(nil), DefaultAPIPaths...),
		ConcurrentEndpoint: DefaultConcurrentEndpoint,
		Concurrency:        DefaultConcurrency,
		Rounds:             DefaultRounds,
		TimingTimeout:      DefaultTimingTimeout,
		InspectTimeout:     DefaultInspectTimeout,
		RequestDelay:       DefaultRequestDelay,
		RoundDelay:         DefaultRoundDelay,
		InsecureSkipVerify: true,
		OutputPath:         DefaultOutputPath,
		LogDir:             DefaultLogDir,
		APIAddr:            DefaultAPIAddr,
		APIRateLimit:       DefaultAPIRateLimit,
		APIRateBurst:       DefaultAPIRateBurst,
	}
}

// Validate reports the first problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return ErrNoBaseURL
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.BaseURL)
	}
	if c.RequestCount < 1 {
		return ErrInvalidRequestCount
	}
	if c.Concurrency < 1 {
		return ErrInvalidConcurrency
	}
	if c.Rounds < 1 {
		return ErrInvalidRounds
	}
	if c.TimingTimeout <= 0 || c.InspectTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.RequestDelay < 0 || c.RoundDelay < 0 {
		return ErrInvalidDelay
	}
	if c.Every < 0 || c.Times < 0 {
		return ErrInvalidSchedule
	}
	if strings.TrimSpace(c.OutputPath) == "" {
		return ErrNoOutputPath
	}
	if _, err := c.NamedEndpoints(); err != nil {
		return err
	}
	return nil
}

// URL joins the base URL and an endpoint path the way the probe requests it.
func (c *Config) URL(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + path
}
