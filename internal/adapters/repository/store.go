// Package repository defines the persistence interfaces and errors for
// reports, player match records, and game models.
package repository

import (
	"context"

	"github.com/okian/gpscanon/internal/domain/gamemodel"
	"github.com/okian/gpscanon/internal/domain/model"
)

// ReportStore provides access to ingested reports and their canonical
// datasets.
type ReportStore interface {
	// SaveReport stores a report, replacing any previous report with the
	// same ID.
	SaveReport(ctx context.Context, report model.Report) error
	// Report returns a stored report by ID.
	// Returns ErrNotFound if the report is unknown.
	Report(ctx context.Context, id string) (model.Report, error)
	// ListReportsByClub returns all of a club's reports, newest first.
	ListReportsByClub(ctx context.Context, clubID string) ([]model.Report, error)
}

// MatchRecordStore persists the per-player match records game models are
// computed from.
type MatchRecordStore interface {
	gamemodel.MatchSource

	// SaveMatchRecords stores records, replacing any existing record with
	// the same (playerID, clubID, matchID) triple.
	SaveMatchRecords(ctx context.Context, records []model.PlayerMatchRecord) error
	// DeleteMatchRecordsByReport removes every record derived from one
	// report and returns how many were removed.
	DeleteMatchRecordsByReport(ctx context.Context, reportID string) (int, error)
}

// Store is the full persistence surface the service depends on.
type Store interface {
	ReportStore
	MatchRecordStore
	gamemodel.ModelStore
	gamemodel.Roster

	// Close releases background resources.
	Close() error
}
