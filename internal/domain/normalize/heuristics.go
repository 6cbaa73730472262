package normalize

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/okian/gpscanon/internal/domain/units"
)

// Inferred column labels. Stable across runs so downstream mappings can be
// authored against them.
const (
	labelPlayer   = "Player"
	labelTime     = "Time"
	labelDistance = "Distance_m"
	labelSpeed    = "Speed_kmh"
	labelPercent  = "Percent"
)

// inferHeaders assigns labels to positional columns by inspecting their
// values. The first letter-bearing text column becomes the player name;
// all-numeric columns are classified by the configured bands. Columns that
// match nothing get a positional "Column_N" label. Returns nil when the
// input has no columns at all.
func (n *Normalizer) inferHeaders(rows [][]any) []string {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	if width == 0 {
		return nil
	}

	labels := make([]string, width)
	used := make(map[string]bool, width)
	playerAssigned := false

	for col := 0; col < width; col++ {
		label := ""
		switch n.classifyColumn(rows, col) {
		case columnText:
			if !playerAssigned {
				label = labelPlayer
				playerAssigned = true
			}
		case columnClock:
			label = labelTime
		case columnDistance:
			label = labelDistance
		case columnSpeed:
			label = labelSpeed
		case columnPercent:
			label = labelPercent
		}
		if label == "" || used[label] {
			label = fmt.Sprintf("Column_%d", col+1)
		}
		used[label] = true
		labels[col] = label
	}
	return labels
}

type columnKind int

const (
	columnUnknown columnKind = iota
	columnText
	columnClock
	columnDistance
	columnSpeed
	columnPercent
)

// classifyColumn scans every non-null value down one column. A kind is
// assigned only when the values agree: all clock strings make a time
// column, and all numbers inside one band make that band's column. Any
// letter-bearing cell in a column that is not uniformly clock or numeric
// marks it as text.
func (n *Normalizer) classifyColumn(rows [][]any, col int) columnKind {
	var (
		total   int
		clocks  int
		letters int
		numbers []float64
	)

	for _, r := range rows {
		if col >= len(r) || r[col] == nil {
			continue
		}
		switch c := r[col].(type) {
		case string:
			s := strings.TrimSpace(c)
			if s == "" {
				continue
			}
			total++
			switch {
			case isNumberString(s):
				num, _ := units.ParseNumber(s)
				numbers = append(numbers, num)
			case isClockString(s):
				clocks++
			case hasLetter(s):
				letters++
			}
		case float64:
			total++
			numbers = append(numbers, c)
		case float32:
			total++
			numbers = append(numbers, float64(c))
		case int:
			total++
			numbers = append(numbers, float64(c))
		case int64:
			total++
			numbers = append(numbers, float64(c))
		default:
			total++
		}
	}

	switch {
	case total == 0:
		return columnUnknown
	case clocks == total:
		return columnClock
	case len(numbers) == total:
		return n.classifyNumbers(numbers)
	case letters > 0:
		return columnText
	default:
		return columnUnknown
	}
}

// classifyNumbers picks the first band, in distance, speed, percent order,
// that contains every value.
func (n *Normalizer) classifyNumbers(values []float64) columnKind {
	candidates := []struct {
		band Band
		kind columnKind
	}{
		{n.bands.Distance, columnDistance},
		{n.bands.Speed, columnSpeed},
		{n.bands.Percent, columnPercent},
	}
	for _, c := range candidates {
		inside := true
		for _, v := range values {
			if !c.band.Contains(v) {
				inside = false
				break
			}
		}
		if inside {
			return c.kind
		}
	}
	return columnUnknown
}

func isNumberString(s string) bool {
	_, ok := units.ParseNumber(s)
	return ok
}

// isClockString accepts clock notation only, not the plain numeric strings
// ParseClockMinutes also tolerates.
func isClockString(s string) bool {
	if !strings.Contains(s, ":") {
		return false
	}
	_, ok := units.ParseClockMinutes(s)
	return ok
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
