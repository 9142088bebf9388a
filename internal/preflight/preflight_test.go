package preflight

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hamed0406/perfprobe/internal/config"
	"github.com/hamed0406/perfprobe/internal/domain"
	"github.com/hamed0406/perfprobe/internal/probe"
	"github.com/hamed0406/perfprobe/internal/repo"
)

func checker(out *bytes.Buffer, class string) *Checker {
	c := New(out)
	c.Resolve = func(_ context.Context, host string) domain.DNSStatus {
		return domain.DNSStatus{Domain: host, Class: class}
	}
	return c
}

func TestRun_AllGood(t *testing.T) {
	var out bytes.Buffer
	cfg := config.Default()
	cfg.InsecureSkipVerify = false
	cfg.HistoryDSN = filepath.Join(t.TempDir(), "history.db")
	cfg.SlackWebhook = "https://hooks.slack.example/T000"
	cfg.APIKeys = []string{"k"}

	res := checker(&out, probe.DNSResolves).Run(context.Background(), cfg)
	assert.True(t, res.OK(), out.String())
	assert.Zero(t, res.Warnings, out.String())
	assert.Contains(t, out.String(), "✔ preflight passed")
	assert.Contains(t, out.String(), "✔ history store reachable")
}

func TestRun_InvalidConfigFails(t *testing.T) {
	var out bytes.Buffer
	cfg := config.Default()
	cfg.BaseURL = "ftp://nope"

	res := checker(&out, probe.DNSResolves).Run(context.Background(), cfg)
	assert.False(t, res.OK())
	assert.Contains(t, out.String(), "✖ configuration invalid")
	assert.NotContains(t, out.String(), "preflight passed")
}

func TestRun_WarningsDoNotFail(t *testing.T) {
	var out bytes.Buffer
	cfg := config.Default()

	res := checker(&out, probe.DNSNXDomain).Run(context.Background(), cfg)
	assert.True(t, res.OK())
	// dns, insecure TLS, history, slack, api keys
	assert.Equal(t, 5, res.Warnings, out.String())
	assert.Contains(t, out.String(), "⚠ DNS")
}

func TestRun_StoreFailureFails(t *testing.T) {
	var out bytes.Buffer
	cfg := config.Default()
	cfg.HistoryDSN = "postgres://nowhere/db"

	c := checker(&out, probe.DNSResolves)
	c.OpenStore = func(context.Context, string, *zap.Logger) (repo.ReportStore, error) {
		return nil, errors.New("connection refused")
	}
	res := c.Run(context.Background(), cfg)
	require.Equal(t, 1, res.Failures, out.String())
	assert.Contains(t, out.String(), "✖ history store unavailable: connection refused")
}
