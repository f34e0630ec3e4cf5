// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/courtside/proptracker/internal/adapters/repository/ledger"
	"github.com/courtside/proptracker/internal/domain/model"
)

// SlipsHandler handles tracked-slip requests.
type SlipsHandler struct {
	deps Dependencies
}

// NewSlipsHandler creates a new slips handler.
func NewSlipsHandler(deps Dependencies) *SlipsHandler {
	return &SlipsHandler{deps: deps}
}

// HandleSlips handles GET /slips and POST /slips requests.
func (h *SlipsHandler) HandleSlips(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.deps.Slips(r.Context()))
	case http.MethodPost:
		h.handleTrack(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *SlipsHandler) handleTrack(w http.ResponseWriter, r *http.Request) {
	const op = "api.track_slip"

	var snap model.TrackedParlaySnapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validateSlip(&snap); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	tracked, err := h.deps.Track(r.Context(), snap)
	if err != nil {
		if errors.Is(err, ledger.ErrNoLegs) {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, tracked)
}

// HandleSlipByID handles DELETE /slips/{id} requests.
func (h *SlipsHandler) HandleSlipByID(w http.ResponseWriter, r *http.Request) {
	const op = "api.untrack_slip"
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/slips/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	if err := h.deps.Untrack(r.Context(), id); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func validateSlip(snap *model.TrackedParlaySnapshot) error {
	if len(snap.Legs) == 0 {
		return errors.New("missing legs")
	}
	for i := range snap.Legs {
		leg := &snap.Legs[i]
		switch {
		case leg.Market == "":
			return errors.New("leg missing market")
		case !model.LiveMarkets[leg.Market]:
			return errors.New("leg market is not live-trackable")
		case leg.Side != model.SideOver && leg.Side != model.SideUnder && leg.Side != model.SideYes:
			return errors.New("leg side must be over, under or yes")
		case leg.PlayerID == 0 && strings.TrimSpace(leg.PlayerName) == "":
			return errors.New("leg missing player")
		}
	}
	return nil
}
