// Package units converts vendor measurement units to canonical ones and
// parses the loose numeric formats GPS exports use (comma decimals, clock
// time strings, units embedded in column headers).
package units

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/okian/gpscanon/internal/domain/registry"
)

// factors maps each dimension's units to its canonical base unit. A value is
// converted by multiplying into the base and dividing out of the target.
var factors = map[registry.Dimension]map[string]float64{ //nolint:gochecknoglobals // static conversion tables
	registry.Distance: {
		"m":     1,
		"km":    1000,
		"yd":    0.9144,
		"yards": 0.9144,
		"miles": 1609.34,
		"feet":  0.3048,
	},
	registry.Time: {
		"s":   1,
		"ms":  0.001,
		"min": 60,
		"h":   3600,
	},
	registry.Speed: {
		"m/s":   1,
		"km/h":  1.0 / 3.6,
		"m/min": 1.0 / 60.0,
		"mph":   0.44704,
		"knots": 0.514444,
	},
	registry.Ratio: {
		"ratio": 1,
		"%":     0.01,
	},
	registry.Energy: {
		"kcal": 1,
		"kj":   1.0 / 4.184,
		"j":    1.0 / 4184.0,
	},
	registry.Mass: {
		"kg":  1,
		"g":   0.001,
		"lbs": 0.453592,
	},
	registry.HeartRate: {
		"bpm": 1,
	},
	registry.Load: {
		"au": 1,
	},
	registry.Count: {
		"count": 1,
	},
}

// Convert converts value between two units of one dimension via the
// dimension's base unit. Unknown units fail with ErrUnsupportedUnit so the
// caller can fall back to the raw value.
func Convert(value float64, from, to string, dim registry.Dimension) (float64, error) {
	if from == to {
		return value, nil
	}
	table, ok := factors[dim]
	if !ok {
		return 0, fmt.Errorf("%w: dimension %q", ErrUnsupportedUnit, dim)
	}
	fromFactor, ok := table[normalizeUnit(from)]
	if !ok {
		return 0, fmt.Errorf("%w: %q for dimension %q", ErrUnsupportedUnit, from, dim)
	}
	toFactor, ok := table[normalizeUnit(to)]
	if !ok {
		return 0, fmt.Errorf("%w: %q for dimension %q", ErrUnsupportedUnit, to, dim)
	}
	return value * fromFactor / toFactor, nil
}

func normalizeUnit(u string) string {
	return strings.ToLower(strings.TrimSpace(u))
}

// ParseNumber parses a loosely formatted numeric cell. Comma decimal
// separators and embedded spaces are tolerated. Returns ok=false for empty
// or non-numeric input.
func ParseNumber(v string) (float64, bool) {
	s := strings.TrimSpace(v)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.Join(strings.Fields(s), "")
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)

// ParseClockMinutes parses an "H:MM" or "H:MM:SS" clock string into minutes.
// Plain numeric input is returned as-is (already minutes). Returns ok=false
// when the input is neither.
func ParseClockMinutes(v string) (float64, bool) {
	s := strings.Join(strings.Fields(strings.TrimSpace(v)), "")
	if s == "" {
		return 0, false
	}
	if m := clockPattern.FindStringSubmatch(s); m != nil {
		hours, _ := strconv.Atoi(m[1])
		minutes, _ := strconv.Atoi(m[2])
		seconds := 0
		if m[3] != "" {
			seconds, _ = strconv.Atoi(m[3])
		}
		return float64(hours)*60 + float64(minutes) + float64(seconds)/60, true
	}
	return ParseNumber(s)
}

var parenUnitPattern = regexp.MustCompile(`\(([^)]+)\)\s*$`)

// GuessFromHeader extracts a source unit hint from a column header:
// "Max Speed (km/h)" -> "km/h", "HSR%" -> "%". Returns "" when the header
// carries no unit.
func GuessFromHeader(header string) string {
	trimmed := strings.TrimSpace(header)
	if trimmed == "" {
		return ""
	}
	if strings.HasSuffix(trimmed, "%") {
		return "%"
	}
	if m := parenUnitPattern.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
