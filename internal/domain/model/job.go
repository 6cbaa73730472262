package model

import "time"

// IngestJob is one submitted report waiting to flow through the pipeline:
// normalize, map to canonical metrics, persist, then refresh game models.
type IngestJob struct {
	ReportID    string          `json:"reportId"`
	ClubID      string          `json:"clubId"`
	EventID     string          `json:"eventId"`
	EventType   string          `json:"eventType"`
	Table       ParsedTable     `json:"table"`
	Snapshot    ProfileSnapshot `json:"snapshot"`
	SubmittedAt time.Time       `json:"submittedAt"`
}
