package model

// EngineStats is a point-in-time snapshot of the engine's working set,
// served by the stats endpoint. Live entity counts are zero until the
// service has started its pollers.
type EngineStats struct {
	Started         bool   `json:"started"`
	BoardSize       int    `json:"board_size"`
	PropsInterval   string `json:"props_interval"`
	LiveInterval    string `json:"live_interval"`
	LiveGames       int    `json:"live_games"`
	LiveOdds        int    `json:"live_odds"`
	LivePlayers     int    `json:"live_players"`
	LivePropMarkets int    `json:"live_prop_markets"`
	TrackedSlips    int    `json:"tracked_slips"`
}
