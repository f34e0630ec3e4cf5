// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/courtside/proptracker/internal/domain/filter"
	"github.com/courtside/proptracker/internal/domain/model"
)

// PropsHandler handles prop board requests.
type PropsHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewPropsHandler creates a new props handler.
func NewPropsHandler(deps Dependencies, maxLimit int) *PropsHandler {
	return &PropsHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetProps handles GET /props requests. Query parameters map onto the
// filter spec: market, window, hit_rate_window, min_hit_rate, min_odds,
// max_odds, limit.
func (h *PropsHandler) HandleGetProps(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_props"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	spec, limit, err := parsePropsQuery(r, h.maxLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	records := h.deps.Props(r.Context(), spec)
	if len(records) > limit {
		records = records[:limit]
	}
	writeJSON(w, http.StatusOK, records)
}

func parsePropsQuery(r *http.Request, maxLimit int) (filter.Spec, int, error) {
	q := r.URL.Query()
	var spec filter.Spec

	if v := q.Get("market"); v != "" {
		spec.Market = model.Market(v)
	}
	if v := q.Get("window"); v != "" {
		win := model.Window(v)
		spec.Window = &win
	}
	if v := q.Get("hit_rate_window"); v != "" {
		switch model.HitRateWindow(v) {
		case model.HitRateL5, model.HitRateL10, model.HitRateL20:
			spec.HitRateWindow = model.HitRateWindow(v)
		default:
			return spec, 0, errors.New("invalid hit_rate_window")
		}
	}
	if v := q.Get("min_hit_rate"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > 100 {
			return spec, 0, errors.New("invalid min_hit_rate")
		}
		spec.MinHitRate = f
	}
	if v := q.Get("min_odds"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return spec, 0, errors.New("invalid min_odds")
		}
		spec.MinOdds = &n
	}
	if v := q.Get("max_odds"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return spec, 0, errors.New("invalid max_odds")
		}
		spec.MaxOdds = &n
	}

	limit := maxLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return spec, 0, errors.New("invalid limit")
		}
		if n < limit {
			limit = n
		}
	}
	return spec, limit, nil
}
