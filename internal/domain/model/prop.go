package model

// PropRecord is one normalized betting line. Records are rebuilt from the
// feed on every fetch and never mutated in place.
type PropRecord struct {
	// PropID is stable across re-fetches: the feed's native id when one
	// exists, otherwise a deterministic composite key.
	PropID string `json:"prop_id"`
	// ID is PropID plus a positional suffix so that duplicate quotes of the
	// same logical line still carry unique list keys.
	ID string `json:"id"`

	PlayerID   *int64 `json:"player_id,omitempty"`
	PlayerName string `json:"player_name,omitempty"`

	Market Market `json:"market"`
	Window Window `json:"window"`

	Line      float64 `json:"line"`
	Side      Side    `json:"side,omitempty"`
	Odds      int     `json:"odds"` // American odds
	Bookmaker string  `json:"bookmaker,omitempty"`

	HomeTeam       string `json:"home_team,omitempty"`
	AwayTeam       string `json:"away_team,omitempty"`
	PlayerTeamAbbr string `json:"player_team_abbr,omitempty"`
	OpponentAbbr   string `json:"opponent_team_abbr,omitempty"`
	StartTimeMs    *int64 `json:"start_time_ms,omitempty"`

	// Rolling hit rates in [0,1], when the feed precomputes them.
	HitRateL5  *float64 `json:"hit_rate_l5,omitempty"`
	HitRateL10 *float64 `json:"hit_rate_l10,omitempty"`
	HitRateL20 *float64 `json:"hit_rate_l20,omitempty"`
}

// HitRate returns the hit rate for the selected window, if present.
func (p *PropRecord) HitRate(w HitRateWindow) *float64 {
	switch w {
	case HitRateL5:
		return p.HitRateL5
	case HitRateL20:
		return p.HitRateL20
	default:
		return p.HitRateL10
	}
}
