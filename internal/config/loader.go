package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is picked up from the working directory when no
// explicit path is given.
const DefaultConfigFile = "perfprobe.yaml"

// DotEnvFiles are loaded, when present, before the environment is read.
var DotEnvFiles = []string{".env", ".env.local"}

// Load builds a Config from the defaults, then the YAML file, then .env
// files and the process environment. An empty path looks for
// DefaultConfigFile and silently skips it when absent; an explicit path
// must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	if err := LoadFile(path, &cfg); err != nil {
		if !errors.Is(err, ErrConfigNotFound) || explicit {
			return cfg, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ForService is how the long-running commands load configuration: the file
// at path when one is named, otherwise the environment alone. Services do
// not pick up a perfprobe.yaml from their working directory.
func ForService(path string) (Config, error) {
	if path == "" {
		return FromEnv()
	}
	return Load(path)
}

// FromEnv builds a Config from the defaults and the environment only.
func FromEnv() (Config, error) {
	cfg := Default()
	err := applyEnv(&cfg)
	return cfg, err
}

// LoadFile overlays the YAML file at path onto cfg. Keys missing from the
// file keep their current values.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return ErrConfigNotFound
		}
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func applyEnv(cfg *Config) error {
	if _, err := loadDotEnv(DotEnvFiles); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// loadDotEnv loads the files that exist; variables already set win.
func loadDotEnv(files []string) (int, error) {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}
