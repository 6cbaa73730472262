// Package model contains domain models passed between layers.
package model

import "time"

// ParsedTable is the loosely typed table an upstream file decoder yields.
// Each element of Rows is either a named-field record (map[string]any) or a
// positional array ([]any); the row shape normalizer sorts that out.
type ParsedTable struct {
	Headers []string `json:"headers"`
	Rows    []any    `json:"rows"`
}

// ColumnMapping links one source column to a canonical metric.
type ColumnMapping struct {
	SourceHeader string `json:"sourceHeader"`
	CanonicalKey string `json:"canonicalKey"`
	// SourceIndex is the positional column index for headerless exports.
	// nil when the vendor export carries headers.
	SourceIndex *int   `json:"sourceIndex,omitempty"`
	Unit        string `json:"unit,omitempty"`
	DisplayName string `json:"displayName"`
	Order       int    `json:"order"`
	IsVisible   bool   `json:"isVisible"`
}

// ProfileSnapshot is an immutable, point-in-time copy of a column-mapping
// configuration, captured when a report is processed so reprocessing stays
// deterministic even if the live configuration changes later.
type ProfileSnapshot struct {
	Columns        []ColumnMapping `json:"columns"`
	GPSSystem      string          `json:"gpsSystem"`
	Sport          string          `json:"sport"`
	ProfileVersion int             `json:"profileVersion"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// CanonicalRow maps canonical metric keys to a number, string (identity or
// text metrics), or nil.
type CanonicalRow map[string]any

// RowCounts reports how many input rows were seen, dropped, and kept.
type RowCounts struct {
	Input     int `json:"input"`
	Filtered  int `json:"filtered"`
	Canonical int `json:"canonical"`
}

// DatasetMeta carries data-quality context alongside canonical rows.
type DatasetMeta struct {
	CanonVersion string            `json:"canonVersion"`
	Units        map[string]string `json:"units"`
	Warnings     []string          `json:"warnings"`
	Counts       RowCounts         `json:"counts"`
}

// CanonicalDataset is the unit-normalized output of one ingested report.
// It is created once per report and immutable unless the report is
// reprocessed.
type CanonicalDataset struct {
	Rows []CanonicalRow `json:"rows"`
	Meta DatasetMeta    `json:"meta"`
}

// Report is one ingested GPS session export.
type Report struct {
	ID        string           `json:"id"`
	ClubID    string           `json:"clubId"`
	EventID   string           `json:"eventId"`
	EventType string           `json:"eventType"` // "match" or "training"
	Snapshot  ProfileSnapshot  `json:"snapshot"`
	Dataset   CanonicalDataset `json:"dataset"`
	CreatedAt time.Time        `json:"createdAt"`
}

// EventTypeMatch marks reports that contribute to game models.
const EventTypeMatch = "match"
