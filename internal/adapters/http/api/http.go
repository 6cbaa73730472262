// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/gpscanon/internal/domain/gamemodel"
	"github.com/okian/gpscanon/internal/domain/model"
	"github.com/okian/gpscanon/internal/domain/registry"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// SubmitReport enqueues a parsed table for async processing and
	// returns the minted report ID.
	SubmitReport(ctx context.Context, clubID, eventID, eventType string, table model.ParsedTable, snapshot model.ProfileSnapshot) (string, error)

	// Read operations expose processed reports and game models.
	Report(ctx context.Context, id string) (model.Report, error)
	GameModel(ctx context.Context, playerID, clubID string) (model.PlayerGameModel, bool, error)

	// Recompute operations.
	RecomputeGameModel(ctx context.Context, playerID, clubID string) (model.PlayerGameModel, error)
	RecomputeTeam(ctx context.Context, clubID string) (model.TeamRecomputeResult, error)
	CleanupClub(ctx context.Context, clubID string) (gamemodel.CleanupResult, error)

	// Registry operations.
	Registry(ctx context.Context) registry.ExportedRegistry
	AuditRegistry(ctx context.Context, live []registry.ReferenceRow) registry.AuditReport
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	reportsHandler   *ReportsHandler
	gameModelHandler *GameModelHandler
	registryHandler  *RegistryHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		reportsHandler:   NewReportsHandler(deps),
		gameModelHandler: NewGameModelHandler(deps),
		registryHandler:  NewRegistryHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/reports", MetricsMiddleware(s.reportsHandler.HandlePostReport, "reports"))
	mux.HandleFunc("/reports/", MetricsMiddleware(s.reportsHandler.HandleGetReport, "reports"))
	mux.HandleFunc("/game-model/", MetricsMiddleware(s.gameModelHandler.HandleGameModel, "game_model"))
	mux.HandleFunc("/team-recompute", MetricsMiddleware(s.gameModelHandler.HandleTeamRecompute, "team_recompute"))
	mux.HandleFunc("/cleanup", MetricsMiddleware(s.gameModelHandler.HandleCleanup, "cleanup"))
	mux.HandleFunc("/registry", MetricsMiddleware(s.registryHandler.HandleGetRegistry, "registry"))
	mux.HandleFunc("/registry/audit", MetricsMiddleware(s.registryHandler.HandleAudit, "registry_audit"))
}

// reportRequest mirrors the OpenAPI schema for POST /reports.
type reportRequest struct {
	ClubID    string                `json:"club_id"`
	EventID   string                `json:"event_id"`
	EventType string                `json:"event_type"`
	Table     model.ParsedTable     `json:"table"`
	Snapshot  model.ProfileSnapshot `json:"snapshot"`
}

func (r reportRequest) validate() error {
	switch {
	case strings.TrimSpace(r.ClubID) == "":
		return errors.New("missing club_id")
	case strings.TrimSpace(r.EventID) == "":
		return errors.New("missing event_id")
	case r.EventType != model.EventTypeMatch && r.EventType != "training":
		return errors.New("event_type must be match or training")
	}
	return nil
}

type ackResponse struct {
	Status   string `json:"status"`
	ReportID string `json:"report_id"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
