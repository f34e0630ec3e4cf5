package feedsim

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/courtside/proptracker/pkg/logger"
)

// Server serves the simulator over the feed wire contract: GET /props with
// limit/offset paging and GET /live.
type Server struct {
	sim    *Sim
	logger logger.Logger
}

// NewServer wraps a simulator for HTTP serving.
func NewServer(sim *Sim) *Server {
	return &Server{
		sim:    sim,
		logger: logger.Get().Named("feedsim"),
	}
}

// Register attaches the feed routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/props", s.handleProps)
	mux.HandleFunc("/live", s.handleLive)
}

// Run advances the simulation every tick until ctx is cancelled.
func (s *Server) Run(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sim.Advance()
		}
	}
}

func (s *Server) handleProps(w http.ResponseWriter, r *http.Request) {
	rows := s.sim.Rows()

	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", len(rows))
	if offset > len(rows) {
		offset = len(rows)
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}

	writeJSON(w, rows[offset:end])
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.sim.Live())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
