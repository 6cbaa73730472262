// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// JobQueueSize bounds the in-memory ingestion queue.
	JobQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of report processing workers.
	WorkerCount int `koanf:"worker_count"`

	// ShardCount configures the number of shards in the store.
	ShardCount int `koanf:"shard_count"`

	// MinMatchMinutes is the playing time a match needs to feed a game model.
	MinMatchMinutes float64 `koanf:"min_match_minutes"`

	// MaxRecentMatches caps how many recent matches feed a game model.
	MaxRecentMatches int `koanf:"max_recent_matches"`

	// RecomputeConcurrency bounds the team recompute fan-out.
	RecomputeConcurrency int `koanf:"recompute_concurrency"`

	// WarningCap bounds per-dataset warning lists.
	WarningCap int `koanf:"warning_cap"`

	// Heuristic column classification bands for headerless tables.
	HeuristicDistanceMin float64 `koanf:"heuristic_distance_min"`
	HeuristicDistanceMax float64 `koanf:"heuristic_distance_max"`
	HeuristicSpeedMin    float64 `koanf:"heuristic_speed_min"`
	HeuristicSpeedMax    float64 `koanf:"heuristic_speed_max"`
	HeuristicPercentMin  float64 `koanf:"heuristic_percent_min"`
	HeuristicPercentMax  float64 `koanf:"heuristic_percent_max"`
}

// New creates a Config using provided options. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use (e.g.,
// loading from env/files) and is currently unused.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:             "info",
		Addr:                 ":9080",
		JobQueueSize:         100_000,
		WorkerCount:          runtime.NumCPU() * 4,
		ShardCount:           16,
		MinMatchMinutes:      60,
		MaxRecentMatches:     10,
		RecomputeConcurrency: 4,
		WarningCap:           100,
		HeuristicDistanceMin: 100,
		HeuristicDistanceMax: 50_000,
		HeuristicSpeedMin:    10,
		HeuristicSpeedMax:    50,
		HeuristicPercentMin:  0,
		HeuristicPercentMax:  100,
	}
	return c
}
