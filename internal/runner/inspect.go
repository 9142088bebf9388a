package runner

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/hamed0406/perfprobe/internal/domain"
	"github.com/hamed0406/perfprobe/internal/stats"
)

// InspectAssets fetches each path once and records size and caching
// headers. There is exactly one result per path, in order.
func (r *Runner) InspectAssets(ctx context.Context, paths []string) []domain.AssetResult {
	out := make([]domain.AssetResult, 0, len(paths))
	for _, p := range paths {
		resp := r.Inspect.Fetch(ctx, r.Config.URL(p))
		if !resp.Success {
			out = append(out, domain.AssetResult{Path: p, Error: resp.Error})
			r.Logger.Warn("asset_failed", zap.String("path", p), zap.String("error", resp.Error))
			continue
		}

		info := &domain.AssetInfo{
			StatusCode:     resp.StatusCode,
			ResponseTimeMS: stats.Round2(resp.ElapsedMS),
			SizeBytes:      len(resp.Body),
			SizeKB:         sizeKB(len(resp.Body)),
			ContentType:    resp.HeaderOr("Content-Type", domain.NotAvailable),
			CacheControl:   resp.HeaderOr("Cache-Control", domain.NotSet),
			ETag:           resp.HeaderOr("ETag", domain.NotSet),
			LastModified:   resp.HeaderOr("Last-Modified", domain.NotSet),
			Server:         resp.HeaderOr("Server", domain.NotAvailable),
		}
		out = append(out, domain.AssetResult{Path: p, AssetInfo: info})
		r.Logger.Info("asset_done",
			zap.String("path", p),
			zap.Int("status", info.StatusCode),
			zap.String("size", humanize.Bytes(uint64(info.SizeBytes))),
			zap.Float64("ms", info.ResponseTimeMS),
			zap.String("content_type", info.ContentType),
			zap.String("cache_control", info.CacheControl),
			zap.String("etag", info.ETag),
		)
	}
	return out
}

// InspectAPIs fetches each path once and records size, encoding and the
// top-level JSON shape of the body. There is exactly one result per path,
// in order.
func (r *Runner) InspectAPIs(ctx context.Context, paths []string) []domain.APIResult {
	out := make([]domain.APIResult, 0, len(paths))
	for _, p := range paths {
		resp := r.Inspect.Fetch(ctx, r.Config.URL(p))
		if !resp.Success {
			out = append(out, domain.APIResult{Endpoint: p, Error: resp.Error})
			r.Logger.Warn("api_failed", zap.String("endpoint", p), zap.String("error", resp.Error))
			continue
		}

		encoding := resp.HeaderOr("Content-Encoding", domain.NoEncoding)
		if resp.Decompressed {
			encoding = "gzip"
		}
		keys, isJSON := ShapeOf(resp.Body)
		info := &domain.APIInfo{
			StatusCode:      resp.StatusCode,
			ResponseTimeMS:  stats.Round2(resp.ElapsedMS),
			SizeBytes:       len(resp.Body),
			SizeKB:          sizeKB(len(resp.Body)),
			ContentType:     resp.HeaderOr("Content-Type", domain.NotAvailable),
			ContentEncoding: encoding,
			IsJSON:          isJSON,
			JSONKeys:        keys,
		}
		out = append(out, domain.APIResult{Endpoint: p, APIInfo: info})

		fields := []zap.Field{
			zap.String("endpoint", p),
			zap.Int("status", info.StatusCode),
			zap.String("size", humanize.Bytes(uint64(info.SizeBytes))),
			zap.Float64("ms", info.ResponseTimeMS),
			zap.String("content_type", info.ContentType),
			zap.Bool("is_json", isJSON),
		}
		if keys != nil {
			if keys.Object {
				fields = append(fields, zap.Strings("json_keys", keys.Keys))
			} else {
				fields = append(fields, zap.String("json_keys", domain.ArrayResponse))
			}
		}
		r.Logger.Info("api_done", fields...)
	}
	return out
}

// ShapeOf classifies body as JSON. Objects yield their top-level keys in
// document order, first occurrence wins for duplicates; any other JSON
// value yields the array marker. Invalid JSON yields (nil, false).
func ShapeOf(body []byte) (*domain.JSONKeys, bool) {
	if !json.Valid(body) {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	tok, err := dec.Token()
	if err != nil {
		return nil, false
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return &domain.JSONKeys{}, true
	}

	keys := []string{}
	seen := make(map[string]bool)
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, _ := kt.(string)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, false
		}
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return &domain.JSONKeys{Keys: keys, Object: true}, true
}

func sizeKB(n int) float64 {
	return stats.Round2(float64(n) / 1024)
}
