package registry

import "fmt"

// ReferenceRow is the export shape consumed by external audit tooling.
type ReferenceRow struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	Dimension string `json:"dimension"`
	Unit      string `json:"unit"`
}

// ExportedRegistry is the versioned reference list handed to audit tooling.
type ExportedRegistry struct {
	Version string         `json:"version"`
	Metrics []ReferenceRow `json:"metrics"`
}

// Export renders the registry for external consumption.
func (r *Registry) Export() ExportedRegistry {
	rows := make([]ReferenceRow, 0, len(r.metrics))
	for _, m := range r.metrics {
		rows = append(rows, ReferenceRow{
			Key:       m.Key,
			Label:     m.Label,
			Dimension: string(m.Dimension),
			Unit:      m.Unit,
		})
	}
	return ExportedRegistry{Version: r.version, Metrics: rows}
}

// Mismatch records a key present in both registries with differing fields.
type Mismatch struct {
	Key         string       `json:"key"`
	Expected    ReferenceRow `json:"expected"`
	Actual      ReferenceRow `json:"actual"`
	Differences []string     `json:"differences"`
}

// Duplicate records a key that appears more than once in the live registry.
type Duplicate struct {
	Key     string         `json:"key"`
	Count   int            `json:"count"`
	Entries []ReferenceRow `json:"entries"`
}

// AuditReport classifies the difference between this reference registry and
// a live registry.
type AuditReport struct {
	OK         []ReferenceRow `json:"ok"`
	Mismatches []Mismatch     `json:"mismatches"`
	Missing    []ReferenceRow `json:"missing"`
	Extra      []ReferenceRow `json:"extra"`
	Duplicates []Duplicate    `json:"duplicates"`
}

// Audit diffs a live registry against this reference registry. Every
// reference key is classified as ok, mismatch, or missing; live keys not in
// the reference are extra; repeated live keys are reported as duplicates
// with their occurrence count.
func (r *Registry) Audit(live []ReferenceRow) AuditReport {
	report := AuditReport{
		OK:         []ReferenceRow{},
		Mismatches: []Mismatch{},
		Missing:    []ReferenceRow{},
		Extra:      []ReferenceRow{},
		Duplicates: []Duplicate{},
	}

	liveByKey := make(map[string]ReferenceRow, len(live))
	liveEntries := make(map[string][]ReferenceRow, len(live))
	for _, row := range live {
		if _, seen := liveByKey[row.Key]; !seen {
			liveByKey[row.Key] = row
		}
		liveEntries[row.Key] = append(liveEntries[row.Key], row)
	}

	for _, m := range r.metrics {
		expected := ReferenceRow{Key: m.Key, Label: m.Label, Dimension: string(m.Dimension), Unit: m.Unit}
		actual, ok := liveByKey[m.Key]
		if !ok {
			report.Missing = append(report.Missing, expected)
			continue
		}
		diffs := diffRows(expected, actual)
		if len(diffs) == 0 {
			report.OK = append(report.OK, actual)
		} else {
			report.Mismatches = append(report.Mismatches, Mismatch{
				Key:         m.Key,
				Expected:    expected,
				Actual:      actual,
				Differences: diffs,
			})
		}
	}

	// Preserve live order for extras and duplicates.
	seenExtra := make(map[string]bool)
	seenDup := make(map[string]bool)
	for _, row := range live {
		if _, known := r.byKey[row.Key]; !known && !seenExtra[row.Key] {
			seenExtra[row.Key] = true
			report.Extra = append(report.Extra, row)
		}
		if entries := liveEntries[row.Key]; len(entries) > 1 && !seenDup[row.Key] {
			seenDup[row.Key] = true
			report.Duplicates = append(report.Duplicates, Duplicate{
				Key:     row.Key,
				Count:   len(entries),
				Entries: entries,
			})
		}
	}

	return report
}

func diffRows(expected, actual ReferenceRow) []string {
	var diffs []string
	if actual.Label != expected.Label {
		diffs = append(diffs, fmt.Sprintf("label: %q != %q", actual.Label, expected.Label))
	}
	if actual.Dimension != expected.Dimension {
		diffs = append(diffs, fmt.Sprintf("dimension: %q != %q", actual.Dimension, expected.Dimension))
	}
	if actual.Unit != expected.Unit {
		diffs = append(diffs, fmt.Sprintf("unit: %q != %q", actual.Unit, expected.Unit))
	}
	return diffs
}
