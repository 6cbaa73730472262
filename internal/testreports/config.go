package testreports

import "time"

// Config holds configuration for the report ingestion test
type Config struct {
	BaseURL    string        // Base URL of the service
	ClubID     string        // Club the synthetic reports belong to
	NumReports int           // Number of match reports to generate
	NumPlayers int           // Number of players per report
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Output file for generated reports
	LogFile    string        // Log file for test output
	Verbose    bool          // Enable verbose logging
}

// ReportPayload mirrors the POST /reports request body.
type ReportPayload struct {
	ClubID    string   `json:"club_id"`
	EventID   string   `json:"event_id"`
	EventType string   `json:"event_type"`
	Table     Table    `json:"table"`
	Snapshot  Snapshot `json:"snapshot"`
}

// Table mirrors the parsed table schema.
type Table struct {
	Headers []string `json:"headers"`
	Rows    [][]any  `json:"rows"`
}

// Column mirrors one column mapping.
type Column struct {
	SourceHeader string `json:"sourceHeader"`
	CanonicalKey string `json:"canonicalKey"`
	Unit         string `json:"unit,omitempty"`
	DisplayName  string `json:"displayName"`
	Order        int    `json:"order"`
	IsVisible    bool   `json:"isVisible"`
}

// Snapshot mirrors the profile snapshot schema.
type Snapshot struct {
	Columns        []Column `json:"columns"`
	GPSSystem      string   `json:"gpsSystem"`
	Sport          string   `json:"sport"`
	ProfileVersion int      `json:"profileVersion"`
}

// AckResponse represents the response from report submission
type AckResponse struct {
	Status   string `json:"status"`
	ReportID string `json:"report_id"`
}

// GameModel mirrors the game model read shape.
type GameModel struct {
	PlayerID     string             `json:"playerId"`
	ClubID       string             `json:"clubId"`
	MatchesCount int                `json:"matchesCount"`
	TotalMinutes int                `json:"totalMinutes"`
	Metrics      map[string]float64 `json:"metrics"`
	MatchIDs     []string           `json:"matchIds"`
	Version      int                `json:"version"`
}

// Stats holds test statistics
type Stats struct {
	ReportsGenerated  int
	ReportsSubmitted  int
	ReportsSuccessful int
	ReportsFailed     int
	ModelsRetrieved   int
	ModelsMissing     int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
