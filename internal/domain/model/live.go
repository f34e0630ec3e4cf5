package model

// LiveSnapshot is the polled live state for one subject (player). It exists
// only for the duration of a reconciliation pass and is never persisted.
type LiveSnapshot struct {
	GameID     string     `json:"game_id"`
	PlayerID   int64      `json:"player_id"`
	Period     string     `json:"period,omitempty"`
	Clock      string     `json:"clock,omitempty"`
	GameStatus GameStatus `json:"game_status,omitempty"`

	// Current counting stats, keyed by canonical market.
	Stats map[Market]float64 `json:"stats"`
}

// Stat returns the live value for a market, if the snapshot carries one.
func (s *LiveSnapshot) Stat(m Market) (float64, bool) {
	v, ok := s.Stats[m]
	return v, ok
}

// LiveGame is the current state of one game in the live store.
type LiveGame struct {
	GameID     string     `json:"game_id"`
	HomeTeam   string     `json:"home_team"`
	AwayTeam   string     `json:"away_team"`
	HomeScore  int        `json:"home_score"`
	AwayScore  int        `json:"away_score"`
	Period     string     `json:"period,omitempty"`
	Clock      string     `json:"clock,omitempty"`
	GameStatus GameStatus `json:"game_status"`
}

// LivePlayer is one player's current box-score line within a game.
type LivePlayer struct {
	GameID     string             `json:"game_id"`
	PlayerID   int64              `json:"player_id"`
	PlayerName string             `json:"player_name,omitempty"`
	TeamAbbr   string             `json:"team_abbr,omitempty"`
	Stats      map[Market]float64 `json:"stats"`
}

// LiveOdds is one current odds quote keyed by prop identity.
type LiveOdds struct {
	PropID    string  `json:"prop_id"`
	Odds      int     `json:"odds"`
	Line      float64 `json:"line"`
	Bookmaker string  `json:"bookmaker,omitempty"`
}

// PropMarket is the live state of one prop market for a player in a game.
type PropMarket struct {
	GameID   string  `json:"game_id"`
	PlayerID int64   `json:"player_id"`
	Market   Market  `json:"market"`
	Line     float64 `json:"line"`
	Odds     int     `json:"odds"`
}
