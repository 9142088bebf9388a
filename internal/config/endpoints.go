package config

import (
	"fmt"
	"strings"
)

// Endpoint is a named path timed by the sequential phase. Name is the key
// the stats are stored under in the report.
type Endpoint struct {
	Name string
	Path string
}

// ParseEndpoint parses "name=path".
func ParseEndpoint(s string) (Endpoint, error) {
	name, path, ok := strings.Cut(strings.TrimSpace(s), "=")
	name, path = strings.TrimSpace(name), strings.TrimSpace(path)
	if !ok || name == "" || path == "" {
		return Endpoint{}, fmt.Errorf("%w: %q", ErrInvalidEndpoint, s)
	}
	return Endpoint{Name: name, Path: path}, nil
}

// NamedEndpoints parses Endpoints in order. Duplicate names are rejected
// because each name keys one entry of the report.
func (c *Config) NamedEndpoints() ([]Endpoint, error) {
	out := make([]Endpoint, 0, len(c.Endpoints))
	seen := make(map[string]bool, len(c.Endpoints))
	for _, raw := range c.Endpoints {
		e, err := ParseEndpoint(raw)
		if err != nil {
			return nil, err
		}
		if seen[e.Name] {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidEndpoint, e.Name)
		}
		seen[e.Name] = true
		out = append(out, e)
	}
	return out, nil
}
