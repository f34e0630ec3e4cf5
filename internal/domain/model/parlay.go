package model

// TrackedParlayLeg is one wager line inside a tracked slip. The static terms
// are immutable once created; the live-derived fields change only through
// ledger reconciliation.
type TrackedParlayLeg struct {
	LegID      string  `json:"leg_id"`
	PlayerID   int64   `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Market     Market  `json:"market"`
	Side       Side    `json:"side"`
	Line       float64 `json:"line"`
	Odds       int     `json:"odds"`

	// Live-derived, reconciliation-owned.
	Current    *float64   `json:"current,omitempty"`
	Period     string     `json:"period,omitempty"`
	Clock      string     `json:"clock,omitempty"`
	GameStatus GameStatus `json:"game_status,omitempty"`
	Status     LegStatus  `json:"status"`
	IsFinal    bool       `json:"is_final"`
}

// TrackedParlaySnapshot is one saved wager slip. Stake, odds, and payout are
// computed upstream and treated as opaque here.
type TrackedParlaySnapshot struct {
	ParlayID   string             `json:"parlay_id"`
	CreatedAt  int64              `json:"created_at"`
	Source     string             `json:"source,omitempty"`
	Legs       []TrackedParlayLeg `json:"legs"`
	Stake      *float64           `json:"stake,omitempty"`
	ParlayOdds *int               `json:"parlay_odds,omitempty"`
	Payout     *float64           `json:"payout,omitempty"`
}

// Resolved reports whether every leg has reached a terminal state. A parlay
// is only resolved when fully resolved.
func (s *TrackedParlaySnapshot) Resolved() bool {
	if len(s.Legs) == 0 {
		return false
	}
	for i := range s.Legs {
		if !s.Legs[i].IsFinal {
			return false
		}
	}
	return true
}
