// Package canon maps normalized source rows onto canonical metric keys,
// converting declared or guessed vendor units to each metric's canonical
// unit and recording data-quality warnings along the way.
package canon

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/gpscanon/internal/domain/model"
	"github.com/okian/gpscanon/internal/domain/registry"
	"github.com/okian/gpscanon/internal/domain/units"
	"github.com/okian/gpscanon/pkg/metrics"
)

// Warning issued when a mapping snapshot carries no usable columns.
const WarnNoMapping = "NO_COLUMN_MAPPING"

// canonColumn is one resolved source-to-canonical binding.
type canonColumn struct {
	sourceHeader string
	sourceUnit   string
	def          registry.MetricDefinition
}

// Mapper converts normalized rows into canonical datasets against one
// metric registry.
type Mapper struct {
	registry   *registry.Registry
	warningCap int
	markers    []string
}

// New creates a Mapper bound to a registry.
func New(reg *registry.Registry, opts ...Option) *Mapper {
	m := &Mapper{
		registry:   reg,
		warningCap: DefaultWarningCap,
		markers:    defaultSummaryMarkers(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Map converts normalized rows into a canonical dataset using the snapshot's
// column mappings. Mapping never fails: bad cells are skipped or passed
// through with warnings, and an unusable snapshot yields an empty dataset.
func (m *Mapper) Map(rows []map[string]any, snapshot model.ProfileSnapshot) model.CanonicalDataset {
	started := time.Now()
	defer func() {
		metrics.RecordMappingLatency(float64(time.Since(started).Milliseconds()))
	}()

	warnings := newWarningSet(m.warningCap)
	columns := m.resolveColumns(snapshot, warnings)

	counts := model.RowCounts{Input: len(rows)}
	canonical := make([]model.CanonicalRow, 0, len(rows))

	if len(columns) == 0 {
		warnings.add(WarnNoMapping)
	} else {
		for _, row := range rows {
			out := make(model.CanonicalRow, len(columns))
			for _, col := range columns {
				cell, ok := lookupCell(row, col.sourceHeader)
				if !ok || cell == nil {
					continue
				}
				value, ok := m.convertCell(cell, col, warnings)
				if !ok {
					continue
				}
				out[col.def.Key] = value
			}
			if m.isSummaryRow(out) {
				counts.Filtered++
				continue
			}
			if len(out) == 0 {
				continue
			}
			canonical = append(canonical, out)
		}
	}
	counts.Canonical = len(canonical)

	metrics.RecordRowCounts(counts.Input, counts.Filtered, counts.Canonical)
	metrics.RecordDatasetWarnings(warnings.len())

	return model.CanonicalDataset{
		Rows: canonical,
		Meta: model.DatasetMeta{
			CanonVersion: m.registry.Version(),
			Units:        m.registry.CanonicalUnits(),
			Warnings:     warnings.list(),
			Counts:       counts,
		},
	}
}

// resolveColumns turns snapshot mappings into canonical bindings. Mappings
// without a canonical key or pointing at unregistered metrics are dropped.
// A missing declared unit is guessed from the source header.
func (m *Mapper) resolveColumns(snapshot model.ProfileSnapshot, warnings *warningSet) []canonColumn {
	columns := make([]canonColumn, 0, len(snapshot.Columns))
	for _, c := range snapshot.Columns {
		if c.CanonicalKey == "" {
			continue
		}
		def, ok := m.registry.Lookup(c.CanonicalKey)
		if !ok {
			warnings.add("unknown-metric:" + c.CanonicalKey)
			continue
		}
		unit := strings.TrimSpace(c.Unit)
		if unit == "" {
			unit = units.GuessFromHeader(c.SourceHeader)
		}
		columns = append(columns, canonColumn{
			sourceHeader: c.SourceHeader,
			sourceUnit:   unit,
			def:          def,
		})
	}
	return columns
}

// lookupCell finds a cell by header with progressively looser matching:
// exact, trimmed, then whitespace-collapsed.
func lookupCell(row map[string]any, header string) (any, bool) {
	if v, ok := row[header]; ok {
		return v, true
	}
	trimmed := strings.TrimSpace(header)
	if v, ok := row[trimmed]; ok {
		return v, true
	}
	want := collapseWhitespace(trimmed)
	for k, v := range row {
		if collapseWhitespace(strings.TrimSpace(k)) == want {
			return v, true
		}
	}
	return nil, false
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// convertCell converts one raw cell to its canonical representation.
// Non-numeric cells for numeric metrics are skipped rather than failing the
// row. Implausible values are retained with a warning so downstream
// consumers can decide their own policy.
func (m *Mapper) convertCell(cell any, col canonColumn, warnings *warningSet) (any, bool) {
	if !col.def.IsNumeric() {
		s := strings.TrimSpace(stringify(cell))
		if s == "" {
			return nil, false
		}
		return s, true
	}

	raw, ok := numeric(cell, col.def)
	if !ok {
		return nil, false
	}

	value := m.convertNumeric(raw, col, warnings)

	if min, max := col.def.PlausibleMin, col.def.PlausibleMax; max > min {
		switch {
		case value < min:
			warnings.add(fmt.Sprintf("%s:below-min:%v", col.def.Key, value))
			metrics.RecordPlausibilityWarning("below-min")
		case value > max:
			warnings.add(fmt.Sprintf("%s:above-max:%v", col.def.Key, value))
			metrics.RecordPlausibilityWarning("above-max")
		}
	}
	return value, true
}

func stringify(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case fmt.Stringer:
		return c.String()
	default:
		return fmt.Sprintf("%v", c)
	}
}

// numeric extracts a float from a raw cell. String cells tolerate comma
// decimals; playing-time metrics additionally accept clock notation.
func numeric(cell any, def registry.MetricDefinition) (float64, bool) {
	switch c := cell.(type) {
	case float64:
		return c, true
	case float32:
		return float64(c), true
	case int:
		return float64(c), true
	case int64:
		return float64(c), true
	case string:
		if isPlayingTime(def.Key) {
			return units.ParseClockMinutes(c)
		}
		return units.ParseNumber(c)
	default:
		return 0, false
	}
}

func isPlayingTime(key string) bool {
	return key == "minutes_played" || key == "time_played"
}
