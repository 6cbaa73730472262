package gamemodel

import (
	"time"

	"github.com/okian/gpscanon/pkg/logger"
)

// Defaults for the rolling baseline window.
const (
	defaultMinMinutes  = 60.0
	defaultMaxMatches  = 10
	defaultConcurrency = 4
)

// Option configures a Calculator instance.
type Option func(*Calculator)

// WithMinMinutes overrides the playing time a match needs to qualify.
func WithMinMinutes(minutes float64) Option {
	return func(c *Calculator) {
		if minutes > 0 {
			c.minMinutes = minutes
		}
	}
}

// WithMaxMatches overrides how many recent matches feed the model.
func WithMaxMatches(n int) Option {
	return func(c *Calculator) {
		if n > 0 {
			c.maxMatches = n
		}
	}
}

// WithConcurrency overrides the team recompute fan-out width.
func WithConcurrency(n int) Option {
	return func(c *Calculator) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithLogger overrides the calculator's logger.
func WithLogger(log logger.Logger) Option {
	return func(c *Calculator) {
		if log != nil {
			c.log = log
		}
	}
}

// WithClock overrides the time source. Intended for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) {
		if now != nil {
			c.now = now
		}
	}
}
