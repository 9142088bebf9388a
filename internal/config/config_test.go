package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault_MatchesBuiltInConstants(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.RequestCount != 10 || cfg.Concurrency != 5 || cfg.Rounds != 3 {
		t.Fatalf("count/concurrency/rounds wrong: %+v", cfg)
	}
	if cfg.TimingTimeout != 30*time.Second || cfg.InspectTimeout != 10*time.Second {
		t.Fatalf("timeouts wrong: %v %v", cfg.TimingTimeout, cfg.InspectTimeout)
	}
	if cfg.RequestDelay != 100*time.Millisecond || cfg.RoundDelay != 500*time.Millisecond {
		t.Fatalf("delays wrong: %v %v", cfg.RequestDelay, cfg.RoundDelay)
	}
	if !cfg.InsecureSkipVerify {
		t.Fatalf("insecure transport must be on by default")
	}
	if len(cfg.AssetPaths) != 7 || len(cfg.APIPaths) != 7 {
		t.Fatalf("want 7 asset and 7 api paths, got %d/%d", len(cfg.AssetPaths), len(cfg.APIPaths))
	}

	// Default must not alias the package-level lists.
	cfg.AssetPaths[0] = "/changed"
	if DefaultAssetPaths[0] != "/" {
		t.Fatalf("Default() leaked the shared asset list")
	}
}

func TestFromEnv_ParsesAndDefaults(t *testing.T) {
	t.Setenv("PERFPROBE_BASE_URL", "http://127.0.0.1:9000")
	t.Setenv("PERFPROBE_REQUESTS", "3")
	t.Setenv("PERFPROBE_ENDPOINTS", "root=/,health=/healthz")
	t.Setenv("PERFPROBE_API_PATHS", "/a,/b")
	t.Setenv("PERFPROBE_ROUND_DELAY", "0s")
	t.Setenv("PERFPROBE_INSECURE_SKIP_VERIFY", "false")
	t.Setenv("HISTORY_DSN", "runs.db")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.BaseURL != "http://127.0.0.1:9000" || cfg.RequestCount != 3 {
		t.Fatalf("base/requests wrong: %+v", cfg)
	}
	eps, err := cfg.NamedEndpoints()
	if err != nil {
		t.Fatalf("NamedEndpoints: %v", err)
	}
	if len(eps) != 2 || eps[1].Name != "health" || eps[1].Path != "/healthz" {
		t.Fatalf("endpoints wrong: %+v", eps)
	}
	if len(cfg.APIPaths) != 2 || cfg.APIPaths[1] != "/b" {
		t.Fatalf("api paths wrong: %+v", cfg.APIPaths)
	}
	if cfg.RoundDelay != 0 || cfg.InsecureSkipVerify {
		t.Fatalf("round delay / insecure wrong: %+v", cfg)
	}
	if cfg.HistoryDSN != "runs.db" {
		t.Fatalf("history dsn wrong: %q", cfg.HistoryDSN)
	}
	// untouched values keep their defaults
	if cfg.Concurrency != DefaultConcurrency || len(cfg.AssetPaths) != len(DefaultAssetPaths) {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "probe.yaml")
	body := `
base_url: https://staging.example.com
requests: 4
endpoints:
  - homepage=/
asset_paths: ["/", "/app.js"]
timing_timeout: 5s
rounds: 2
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("PERFPROBE_ROUNDS", "7")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "https://staging.example.com" || cfg.RequestCount != 4 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.TimingTimeout != 5*time.Second {
		t.Fatalf("want 5s timing timeout, got %v", cfg.TimingTimeout)
	}
	if len(cfg.Endpoints) != 1 || len(cfg.AssetPaths) != 2 {
		t.Fatalf("lists not applied: %+v", cfg)
	}
	if cfg.Rounds != 7 {
		t.Fatalf("env must override file, got rounds=%d", cfg.Rounds)
	}
	if cfg.InspectTimeout != DefaultInspectTimeout {
		t.Fatalf("missing keys must keep defaults, got %v", cfg.InspectTimeout)
	}
}

func TestForService_EnvOnlyWithoutPath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(DefaultConfigFile, []byte("requests: 4\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("PERFPROBE_ROUNDS", "6")

	cfg, err := ForService("")
	if err != nil {
		t.Fatalf("ForService: %v", err)
	}
	if cfg.RequestCount != DefaultRequestCount {
		t.Fatalf("working-directory file must be ignored, got requests=%d", cfg.RequestCount)
	}
	if cfg.Rounds != 6 {
		t.Fatalf("env not applied, got rounds=%d", cfg.Rounds)
	}

	cfg, err = ForService(DefaultConfigFile)
	if err != nil {
		t.Fatalf("ForService(path): %v", err)
	}
	if cfg.RequestCount != 4 {
		t.Fatalf("named file not applied, got requests=%d", cfg.RequestCount)
	}
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("want ErrConfigNotFound, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"no base", func(c *Config) { c.BaseURL = " " }, ErrNoBaseURL},
		{"bad scheme", func(c *Config) { c.BaseURL = "ftp://x" }, ErrInvalidBaseURL},
		{"no host", func(c *Config) { c.BaseURL = "https://" }, ErrInvalidBaseURL},
		{"zero requests", func(c *Config) { c.RequestCount = 0 }, ErrInvalidRequestCount},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, ErrInvalidConcurrency},
		{"zero rounds", func(c *Config) { c.Rounds = 0 }, ErrInvalidRounds},
		{"zero timeout", func(c *Config) { c.InspectTimeout = 0 }, ErrInvalidTimeout},
		{"negative delay", func(c *Config) { c.RequestDelay = -time.Second }, ErrInvalidDelay},
		{"negative interval", func(c *Config) { c.Every = -time.Minute }, ErrInvalidSchedule},
		{"negative times", func(c *Config) { c.Times = -1 }, ErrInvalidSchedule},
		{"no output", func(c *Config) { c.OutputPath = "" }, ErrNoOutputPath},
		{"bad endpoint", func(c *Config) { c.Endpoints = []string{"homepage"} }, ErrInvalidEndpoint},
		{"duplicate endpoint", func(c *Config) { c.Endpoints = []string{"a=/", "a=/x"} }, ErrInvalidEndpoint},
	}
	for _, c := range cases {
		cfg := Default()
		c.mutate(&cfg)
		if err := cfg.Validate(); !errors.Is(err, c.want) {
			t.Fatalf("%s: want %v, got %v", c.name, c.want, err)
		}
	}
}

func TestURL_JoinsWithoutDoubleSlash(t *testing.T) {
	cfg := Default()
	cfg.BaseURL = "https://example.com/"
	if got := cfg.URL("/api/health"); got != "https://example.com/api/health" {
		t.Fatalf("URL=%q", got)
	}
}
