package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hamed0406/perfprobe/internal/domain"
	"github.com/hamed0406/perfprobe/internal/repo"
)

// Client reads run history from a running history API.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) List(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	var out []domain.RunSummary
	err := c.get(ctx, "/api/runs?limit="+strconv.Itoa(repo.ClampLimit(limit)), &out)
	return out, err
}

func (c *Client) Get(ctx context.Context, runID string) (*domain.RunReport, error) {
	var out domain.RunReport
	if err := c.get(ctx, "/api/runs/"+url.PathEscape(runID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Latest(ctx context.Context) (*domain.RunReport, error) {
	var out domain.RunReport
	if err := c.get(ctx, "/api/runs/latest", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("contact history API: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return repo.ErrNotFound
	case resp.StatusCode/100 != 2:
		return fmt.Errorf("history API returned %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
