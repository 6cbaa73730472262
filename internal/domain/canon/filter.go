package canon

import "strings"

// athleteNameKey is the identity metric inspected for summary-row markers.
const athleteNameKey = "athlete_name"

// defaultSummaryMarkers lists the substrings that mark aggregate footer rows
// in vendor exports, in English and Russian.
func defaultSummaryMarkers() []string {
	return []string{"average", "total", "sum", "средн", "сумм", "итог"}
}

// isSummaryRow reports whether a mapped row is a vendor aggregate footer
// (a "Total" or "Average" line) rather than an athlete.
func (m *Mapper) isSummaryRow(row map[string]any) bool {
	name, ok := row[athleteNameKey].(string)
	if !ok {
		return false
	}
	lowered := strings.ToLower(strings.TrimSpace(name))
	if lowered == "" {
		return false
	}
	for _, marker := range m.markers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}
