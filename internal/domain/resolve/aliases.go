package resolve

import "github.com/courtside/proptracker/internal/domain/model"

// Logical feed fields. Each maps to an ordered list of historical aliases;
// earlier aliases belong to newer backend schema versions and win over
// later ones when a row carries several.
const (
	FieldPropID     = "prop_id"
	FieldEventID    = "event_id"
	FieldPlayerID   = "player_id"
	FieldPlayerName = "player_name"
	FieldMarket     = "market"
	FieldWindow     = "window"
	FieldLine       = "line"
	FieldOdds       = "odds"
	FieldSide       = "side"
	FieldBookmaker  = "bookmaker"
	FieldHomeTeam   = "home_team"
	FieldAwayTeam   = "away_team"
	FieldPlayerTeam = "player_team"
	FieldOpponent   = "opponent"
	FieldMatchup    = "matchup"
	FieldStartTime  = "start_time"
	FieldHitRateL5  = "hit_rate_l5"
	FieldHitRateL10 = "hit_rate_l10"
	FieldHitRateL20 = "hit_rate_l20"
)

// fieldAliases is the full alias vocabulary, auditable in one place. Adding
// support for a new backend schema version means extending a list here, not
// touching call sites.
var fieldAliases = map[string][]string{
	FieldPropID:     {"propId", "prop_id", "id", "uuid"},
	FieldEventID:    {"eventId", "event_id", "gameId", "game_id", "game_uuid"},
	FieldPlayerID:   {"playerId", "player_id", "athleteId", "athlete_id", "subjectId"},
	FieldPlayerName: {"playerName", "player_name", "player", "athlete", "name", "description"},
	FieldMarket:     {"marketKey", "market_key", "market", "statType", "stat_type", "propType", "prop_type", "category"},
	FieldWindow:     {"window", "marketWindow", "market_window", "segment"},
	FieldLine:       {"line", "point", "handicap", "threshold", "value"},
	FieldOdds:       {"odds", "price", "americanOdds", "american_odds", "american"},
	FieldSide:       {"side", "outcome", "outcomeName", "outcome_name", "selection", "label"},
	FieldBookmaker:  {"bookmaker", "book", "bookKey", "book_key", "sportsbook"},
	FieldHomeTeam:   {"homeTeam", "home_team", "home"},
	FieldAwayTeam:   {"awayTeam", "away_team", "away"},
	FieldPlayerTeam: {"teamAbbr", "team_abbr", "playerTeam", "player_team", "team"},
	FieldOpponent:   {"opponentAbbr", "opponent_abbr", "opponent", "opp"},
	FieldMatchup:    {"matchup", "game", "eventName", "event_name"},
	FieldStartTime:  {"startTimeMs", "start_time_ms", "startTime", "start_time", "commenceTime", "commence_time", "gameTime"},
	FieldHitRateL5:  {"hitRateL5", "hit_rate_l5", "l5HitRate", "l5"},
	FieldHitRateL10: {"hitRateL10", "hit_rate_l10", "l10HitRate", "l10"},
	FieldHitRateL20: {"hitRateL20", "hit_rate_l20", "l20HitRate", "l20"},
}

// marketAliases maps cleaned market spellings (lower-cased, whitespace and
// underscores stripped) onto the canonical vocabulary.
var marketAliases = map[string]model.Market{
	"points":                      model.MarketPoints,
	"playerpoints":                model.MarketPoints,
	"playerpointsalternate":       model.MarketPoints,
	"pointsalternate":             model.MarketPoints,
	"pts":                         model.MarketPoints,
	"rebounds":                    model.MarketRebounds,
	"playerrebounds":              model.MarketRebounds,
	"playerreboundsalternate":     model.MarketRebounds,
	"totalrebounds":               model.MarketRebounds,
	"reb":                         model.MarketRebounds,
	"rebs":                        model.MarketRebounds,
	"assists":                     model.MarketAssists,
	"playerassists":               model.MarketAssists,
	"playerassistsalternate":      model.MarketAssists,
	"ast":                         model.MarketAssists,
	"steals":                      model.MarketSteals,
	"playersteals":                model.MarketSteals,
	"stl":                         model.MarketSteals,
	"blocks":                      model.MarketBlocks,
	"playerblocks":                model.MarketBlocks,
	"blk":                         model.MarketBlocks,
	"threesmade":                  model.MarketThreesMade,
	"threes":                      model.MarketThreesMade,
	"threepointersmade":           model.MarketThreesMade,
	"playerthrees":                model.MarketThreesMade,
	"playerthreesalternate":       model.MarketThreesMade,
	"3pm":                         model.MarketThreesMade,
	"3ptm":                        model.MarketThreesMade,
	"turnovers":                   model.MarketTurnovers,
	"playerturnovers":             model.MarketTurnovers,
	"tov":                         model.MarketTurnovers,
	"pointsrebounds":              model.MarketPointsRebounds,
	"playerpointsrebounds":        model.MarketPointsRebounds,
	"ptsreb":                      model.MarketPointsRebounds,
	"pointsassists":               model.MarketPointsAssists,
	"playerpointsassists":         model.MarketPointsAssists,
	"ptsast":                      model.MarketPointsAssists,
	"reboundsassists":             model.MarketReboundsAssists,
	"playerreboundsassists":       model.MarketReboundsAssists,
	"rebast":                      model.MarketReboundsAssists,
	"pointsreboundsassists":       model.MarketPointsReboundsAssists,
	"playerpointsreboundsassists": model.MarketPointsReboundsAssists,
	"ptsrebast":                   model.MarketPointsReboundsAssists,
	"pra":                         model.MarketPointsReboundsAssists,
	"doubledouble":                model.MarketDoubleDouble,
	"playerdoubledouble":          model.MarketDoubleDouble,
	"tripledouble":                model.MarketTripleDouble,
	"playertripledouble":          model.MarketTripleDouble,
}

// windowAliases maps cleaned window spellings onto canonical windows.
var windowAliases = map[string]model.Window{
	"fullgame":          model.WindowFullGame,
	"game":              model.WindowFullGame,
	"full":              model.WindowFullGame,
	"firstquarter":      model.WindowFirstQuarter,
	"1q":                model.WindowFirstQuarter,
	"q1":                model.WindowFirstQuarter,
	"1stquarter":        model.WindowFirstQuarter,
	"firstthreeminutes": model.WindowFirstThree,
	"first3minutes":     model.WindowFirstThree,
	"first3":            model.WindowFirstThree,
	"f3m":               model.WindowFirstThree,
}

// teamCodes is the fixed set of valid 2-3 letter team codes.
var teamCodes = map[string]bool{
	"ATL": true, "BOS": true, "BKN": true, "CHA": true, "CHI": true,
	"CLE": true, "DAL": true, "DEN": true, "DET": true, "GSW": true,
	"HOU": true, "IND": true, "LAC": true, "LAL": true, "MEM": true,
	"MIA": true, "MIL": true, "MIN": true, "NOP": true, "NYK": true,
	"OKC": true, "ORL": true, "PHI": true, "PHX": true, "POR": true,
	"SAC": true, "SAS": true, "TOR": true, "UTA": true, "WAS": true,
}

// teamNames maps squashed full franchise names onto codes. Keys are
// lower-cased with all non-alphanumerics removed.
var teamNames = map[string]string{
	"atlantahawks":          "ATL",
	"bostonceltics":         "BOS",
	"brooklynnets":          "BKN",
	"charlottehornets":      "CHA",
	"chicagobulls":          "CHI",
	"clevelandcavaliers":    "CLE",
	"dallasmavericks":       "DAL",
	"denvernuggets":         "DEN",
	"detroitpistons":        "DET",
	"goldenstatewarriors":   "GSW",
	"houstonrockets":        "HOU",
	"indianapacers":         "IND",
	"losangelesclippers":    "LAC",
	"laclippers":            "LAC",
	"losangeleslakers":      "LAL",
	"lalakers":              "LAL",
	"memphisgrizzlies":      "MEM",
	"miamiheat":             "MIA",
	"milwaukeebucks":        "MIL",
	"minnesotatimberwolves": "MIN",
	"neworleanspelicans":    "NOP",
	"newyorkknicks":         "NYK",
	"oklahomacitythunder":   "OKC",
	"orlandomagic":          "ORL",
	"philadelphia76ers":     "PHI",
	"phoenixsuns":           "PHX",
	"portlandtrailblazers":  "POR",
	"sacramentokings":       "SAC",
	"sanantoniospurs":       "SAS",
	"torontoraptors":        "TOR",
	"utahjazz":              "UTA",
	"washingtonwizards":     "WAS",
}
