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
)

// GameModelDependencies defines the interface for game model operations.
type GameModelDependencies interface {
	GameModel(ctx context.Context, playerID, clubID string) (model.PlayerGameModel, bool, error)
	RecomputeGameModel(ctx context.Context, playerID, clubID string) (model.PlayerGameModel, error)
	RecomputeTeam(ctx context.Context, clubID string) (model.TeamRecomputeResult, error)
	CleanupClub(ctx context.Context, clubID string) (gamemodel.CleanupResult, error)
}

// GameModelHandler handles game model requests.
type GameModelHandler struct {
	deps GameModelDependencies
}

// NewGameModelHandler creates a new game model handler.
func NewGameModelHandler(deps GameModelDependencies) *GameModelHandler {
	return &GameModelHandler{deps: deps}
}

// clubRequest is the body shared by the club-wide operations.
type clubRequest struct {
	ClubID string `json:"club_id"`
}

// HandleGameModel routes GET /game-model/{player_id}?club_id=X and
// POST /game-model/{player_id}/recompute?club_id=X requests.
func (h *GameModelHandler) HandleGameModel(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/game-model/")
	clubID := r.URL.Query().Get("club_id")
	if clubID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing club_id"))
		return
	}

	switch {
	case r.Method == http.MethodGet && path != "" && !strings.Contains(path, "/"):
		h.handleGet(w, r, path, clubID)
	case r.Method == http.MethodPost && strings.HasSuffix(path, "/recompute"):
		playerID := strings.TrimSuffix(path, "/recompute")
		if playerID == "" || strings.Contains(playerID, "/") {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		h.handleRecompute(w, r, playerID, clubID)
	default:
		http.NotFound(w, r)
	}
}

func (h *GameModelHandler) handleGet(w http.ResponseWriter, r *http.Request, playerID, clubID string) {
	gm, found, err := h.deps.GameModel(r.Context(), playerID, clubID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "not_found", errors.New("no game model for player"))
		return
	}
	writeJSON(w, http.StatusOK, gm)
}

func (h *GameModelHandler) handleRecompute(w http.ResponseWriter, r *http.Request, playerID, clubID string) {
	gm, err := h.deps.RecomputeGameModel(r.Context(), playerID, clubID)
	if err != nil {
		if errors.Is(err, gamemodel.ErrNoQualifyingMatches) {
			writeError(w, http.StatusNotFound, "no_qualifying_matches", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, gm)
}

// HandleTeamRecompute handles POST /team-recompute requests.
func (h *GameModelHandler) HandleTeamRecompute(w http.ResponseWriter, r *http.Request) {
	const op = "api.team_recompute"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req clubRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.ClubID) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	result, err := h.deps.RecomputeTeam(r.Context(), req.ClubID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleCleanup handles POST /cleanup requests.
func (h *GameModelHandler) HandleCleanup(w http.ResponseWriter, r *http.Request) {
	const op = "api.cleanup"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req clubRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.ClubID) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	result, err := h.deps.CleanupClub(r.Context(), req.ClubID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
