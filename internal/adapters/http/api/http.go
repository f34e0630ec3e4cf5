// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/courtside/proptracker/internal/domain/filter"
	"github.com/courtside/proptracker/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Props returns the current board filtered and ranked by spec.
	Props(ctx context.Context, spec filter.Spec) []model.PropRecord

	// Slip operations back the tracked-wager endpoints.
	Track(ctx context.Context, snap model.TrackedParlaySnapshot) (model.TrackedParlaySnapshot, error)
	Untrack(ctx context.Context, parlayID string) error
	Slips(ctx context.Context) []model.TrackedParlaySnapshot
}

// defaultMaxLimit caps GET /props responses when no cap is configured.
const defaultMaxLimit = 500

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	propsHandler  *PropsHandler
	slipsHandler  *SlipsHandler
}

// NewServer creates a new API server with all handlers. maxProps caps how
// many board rows one request may ask for; zero means the default cap.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxProps int) *Server {
	if maxProps <= 0 {
		maxProps = defaultMaxLimit
	}
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		propsHandler:  NewPropsHandler(deps, maxProps),
		slipsHandler:  NewSlipsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/props", MetricsMiddleware(s.propsHandler.HandleGetProps, "props"))
	mux.HandleFunc("/slips", MetricsMiddleware(s.slipsHandler.HandleSlips, "slips"))
	mux.HandleFunc("/slips/", MetricsMiddleware(s.slipsHandler.HandleSlipByID, "slip"))
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
