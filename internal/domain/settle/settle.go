// Package settle computes the settlement status of a tracked leg from its
// terms and the live stat value, as a pure function over an enumerated
// state.
//
// The comparison rules differ between in-progress and final games on
// purpose. While a game is running an over leg exactly on the line counts
// as winning (the stat can still increase, the leg is on pace), so the
// non-final branch uses >= and <=. Once the game is final, exactly on the
// line is definitively a push, so the final branch uses strict > and <
// with an explicit push case.
package settle

import "github.com/courtside/proptracker/internal/domain/model"

// Input is everything the state machine is allowed to look at. Leg status
// must never be derived from anything else.
type Input struct {
	Side       model.Side
	Line       float64
	Current    *float64
	GameStatus model.GameStatus
}

// Status returns the settlement status for in. With no live value yet the
// leg stays pending regardless of game state.
func Status(in Input) model.LegStatus {
	if in.Current == nil {
		return model.LegPending
	}
	current := *in.Current

	if in.GameStatus == model.GameFinal {
		return finalStatus(in.Side, in.Line, current)
	}
	return liveStatus(in.Side, in.Line, current)
}

func liveStatus(side model.Side, line, current float64) model.LegStatus {
	switch side {
	case model.SideOver, model.SideYes:
		if current >= line {
			return model.LegWinning
		}
	case model.SideUnder:
		if current <= line {
			return model.LegWinning
		}
	}
	return model.LegPending
}

func finalStatus(side model.Side, line, current float64) model.LegStatus {
	if current == line {
		return model.LegPushed
	}
	switch side {
	case model.SideOver, model.SideYes:
		if current > line {
			return model.LegWinning
		}
		return model.LegLosing
	case model.SideUnder:
		if current < line {
			return model.LegWinning
		}
		return model.LegLosing
	}
	return model.LegPending
}
