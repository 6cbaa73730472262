// Package registry holds the canonical metric reference data: every metric's
// stable key, physical dimension, canonical unit, plausibility bounds, and
// averageability flag. The registry is immutable once built and is injected
// into the mapper and calculator as configuration.
package registry

import (
	"fmt"
)

// Dimension is the physical category of a metric.
type Dimension string

// Known physical dimensions.
const (
	Distance  Dimension = "distance"
	Time      Dimension = "time"
	Speed     Dimension = "speed"
	Ratio     Dimension = "ratio"
	Count     Dimension = "count"
	Energy    Dimension = "energy"
	Mass      Dimension = "mass"
	HeartRate Dimension = "bpm"
	Load      Dimension = "au" // arbitrary vendor load units
	Text      Dimension = "text"
	Identity  Dimension = "identity"
)

// canonicalUnits maps each dimension to its canonical unit.
var canonicalUnits = map[Dimension]string{ //nolint:gochecknoglobals // static reference data
	Distance:  "m",
	Time:      "s",
	Speed:     "m/s",
	Ratio:     "ratio",
	Count:     "count",
	Energy:    "kcal",
	Mass:      "kg",
	HeartRate: "bpm",
	Load:      "au",
	Text:      "text",
	Identity:  "text",
}

// MetricDefinition describes one canonical metric.
type MetricDefinition struct {
	// Key is the stable identifier, e.g. "total_distance_m".
	Key string
	// Label is the human-readable name.
	Label string
	// Dimension is the physical category.
	Dimension Dimension
	// Unit is the canonical unit values are stored in. Usually the
	// dimension's canonical unit, but some metrics override it
	// (e.g. max_speed_kmh is stored in km/h, minutes_played in min).
	Unit string
	// PlausibleMin and PlausibleMax bound physically believable values.
	// Only consulted for numeric dimensions.
	PlausibleMin float64
	PlausibleMax float64
	// Averageable marks volume metrics that participate in per-minute
	// game model averaging.
	Averageable bool
}

// IsIdentity reports whether the metric carries athlete identity rather
// than a measurement.
func (m MetricDefinition) IsIdentity() bool {
	return m.Dimension == Identity
}

// IsNumeric reports whether values of the metric are numbers.
func (m MetricDefinition) IsNumeric() bool {
	return m.Dimension != Text && m.Dimension != Identity
}

// Registry is an immutable, read-only lookup table of metric definitions.
type Registry struct {
	version string
	metrics []MetricDefinition
	byKey   map[string]MetricDefinition
}

// New builds a Registry from a versioned definition list. Duplicate keys and
// unknown dimensions are configuration defects and fail construction.
func New(version string, defs []MetricDefinition) (*Registry, error) {
	if version == "" {
		return nil, ErrNoVersion
	}
	r := &Registry{
		version: version,
		metrics: make([]MetricDefinition, 0, len(defs)),
		byKey:   make(map[string]MetricDefinition, len(defs)),
	}
	for _, d := range defs {
		if d.Key == "" {
			return nil, fmt.Errorf("%w: metric with empty key", ErrBadDefinition)
		}
		if _, ok := canonicalUnits[d.Dimension]; !ok {
			return nil, fmt.Errorf("%w: metric %q has unknown dimension %q", ErrBadDefinition, d.Key, d.Dimension)
		}
		if _, dup := r.byKey[d.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate metric key %q", ErrBadDefinition, d.Key)
		}
		if d.Unit == "" {
			d.Unit = canonicalUnits[d.Dimension]
		}
		r.metrics = append(r.metrics, d)
		r.byKey[d.Key] = d
	}
	return r, nil
}

// Version returns the registry version string.
func (r *Registry) Version() string {
	return r.version
}

// Len returns the number of registered metrics.
func (r *Registry) Len() int {
	return len(r.metrics)
}

// Lookup returns the definition for key.
func (r *Registry) Lookup(key string) (MetricDefinition, bool) {
	m, ok := r.byKey[key]
	return m, ok
}

// All returns a copy of the definition list in registration order.
func (r *Registry) All() []MetricDefinition {
	out := make([]MetricDefinition, len(r.metrics))
	copy(out, r.metrics)
	return out
}

// AverageableKeys returns the keys of all averageable metrics.
func (r *Registry) AverageableKeys() []string {
	keys := make([]string, 0, len(r.metrics))
	for _, m := range r.metrics {
		if m.Averageable {
			keys = append(keys, m.Key)
		}
	}
	return keys
}

// CanonicalUnits returns the dimension -> canonical unit map reported in
// dataset metadata.
func (r *Registry) CanonicalUnits() map[string]string {
	out := make(map[string]string, len(canonicalUnits))
	for dim, unit := range canonicalUnits {
		out[string(dim)] = unit
	}
	return out
}

// CanonicalUnitFor returns the canonical unit of a dimension.
func CanonicalUnitFor(dim Dimension) (string, bool) {
	u, ok := canonicalUnits[dim]
	return u, ok
}
