// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/gpscanon/internal/domain/registry"
)

// RegistryDependencies defines the interface for registry operations.
type RegistryDependencies interface {
	Registry(ctx context.Context) registry.ExportedRegistry
	AuditRegistry(ctx context.Context, live []registry.ReferenceRow) registry.AuditReport
}

// RegistryHandler handles metric registry requests.
type RegistryHandler struct {
	deps RegistryDependencies
}

// NewRegistryHandler creates a new registry handler.
func NewRegistryHandler(deps RegistryDependencies) *RegistryHandler {
	return &RegistryHandler{deps: deps}
}

// HandleGetRegistry handles GET /registry requests.
func (h *RegistryHandler) HandleGetRegistry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Registry(r.Context()))
}

// auditRequest mirrors the OpenAPI schema for POST /registry/audit.
type auditRequest struct {
	Metrics []registry.ReferenceRow `json:"metrics"`
}

// HandleAudit handles POST /registry/audit requests. The body carries a live
// metric list to classify against the reference registry.
func (h *RegistryHandler) HandleAudit(w http.ResponseWriter, r *http.Request) {
	const op = "api.registry_audit"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req auditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.AuditRegistry(r.Context(), req.Metrics))
}
