package config

import "errors"

// Validation errors returned by Config.Validate. Wrapped values keep the
// sentinel reachable through errors.Is.
var (
	ErrNoBaseURL           = errors.New("no base URL configured")
	ErrInvalidBaseURL      = errors.New("invalid base URL: want http(s)://host")
	ErrInvalidRequestCount = errors.New("invalid request count: must be at least 1")
	ErrInvalidConcurrency  = errors.New("invalid concurrency: must be at least 1")
	ErrInvalidRounds       = errors.New("invalid rounds: must be at least 1")
	ErrInvalidTimeout      = errors.New("invalid timeout: must be positive")
	ErrInvalidDelay        = errors.New("invalid delay: must be non-negative")
	ErrInvalidSchedule     = errors.New("invalid schedule: interval and times must be non-negative")
	ErrNoOutputPath        = errors.New("no output path configured")
	ErrInvalidEndpoint     = errors.New("invalid endpoint: want name=path")

	// ErrConfigNotFound is returned when an explicitly named config file is missing.
	ErrConfigNotFound = errors.New("configuration file not found")
)
