package ledger

import (
	"github.com/courtside/proptracker/internal/domain/model"
	"github.com/courtside/proptracker/internal/domain/settle"
)

// reconcileSnapshots is the pure reconciliation transform: it derives the
// next ledger state from the current one plus the live snapshots, without
// mutating its input. Callers detect "did anything change" by the returned
// flag, backed by a structural compare.
func reconcileSnapshots(current []model.TrackedParlaySnapshot, liveByPlayer map[int64]model.LiveSnapshot) ([]model.TrackedParlaySnapshot, bool) {
	next := make([]model.TrackedParlaySnapshot, len(current))
	for i := range current {
		next[i] = current[i]
		legs := make([]model.TrackedParlayLeg, len(current[i].Legs))
		for j := range current[i].Legs {
			legs[j] = reconcileLeg(current[i].Legs[j], liveByPlayer)
		}
		next[i].Legs = legs
	}
	return next, !equalState(current, next)
}

// reconcileLeg advances one leg. A leg whose player has no live snapshot is
// returned unchanged; that is the common case before its game starts
// reporting.
func reconcileLeg(leg model.TrackedParlayLeg, liveByPlayer map[int64]model.LiveSnapshot) model.TrackedParlayLeg {
	live, ok := liveByPlayer[leg.PlayerID]
	if !ok {
		return leg
	}

	if v, ok := live.Stat(leg.Market); ok {
		current := v
		leg.Current = &current
	}
	leg.Period = live.Period
	leg.Clock = live.Clock
	leg.GameStatus = resolveGameStatus(live.GameStatus, leg.GameStatus)

	leg.Status = settle.Status(settle.Input{
		Side:       leg.Side,
		Line:       leg.Line,
		Current:    leg.Current,
		GameStatus: leg.GameStatus,
	})
	leg.IsFinal = leg.GameStatus == model.GameFinal
	return leg
}

// resolveGameStatus prefers the live feed's view, falls back to the leg's
// previous state, and defaults to live when neither is known: a player who
// is producing stats is in a running game.
func resolveGameStatus(fromLive, previous model.GameStatus) model.GameStatus {
	if fromLive != "" {
		return fromLive
	}
	if previous != "" {
		return previous
	}
	return model.GameLive
}
