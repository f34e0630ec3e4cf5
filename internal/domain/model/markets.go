// Package model contains domain models passed between layers.
package model

// Market identifies a stat category in the canonical, de-aliased vocabulary.
type Market string

// Canonical market keys. Feed rows arrive under many historical spellings;
// the resolve package maps all of them onto these values.
const (
	MarketPoints                Market = "points"
	MarketRebounds              Market = "rebounds"
	MarketAssists               Market = "assists"
	MarketSteals                Market = "steals"
	MarketBlocks                Market = "blocks"
	MarketThreesMade            Market = "threes_made"
	MarketTurnovers             Market = "turnovers"
	MarketPointsRebounds        Market = "points_rebounds"
	MarketPointsAssists         Market = "points_assists"
	MarketReboundsAssists       Market = "rebounds_assists"
	MarketPointsReboundsAssists Market = "points_rebounds_assists"
	MarketDoubleDouble          Market = "double_double"
	MarketTripleDouble          Market = "triple_double"
)

// MarketAll is the filter sentinel meaning "any market".
const MarketAll Market = "ALL"

// Window identifies the game segment a prop line covers.
type Window string

const (
	WindowFullGame     Window = "full_game"
	WindowFirstQuarter Window = "first_quarter"
	WindowFirstThree   Window = "first_three_minutes"
)

// Side is the outcome side of a prop line.
type Side string

const (
	SideOver  Side = "over"
	SideUnder Side = "under"
	SideYes   Side = "yes"
)

// GameStatus is the live state of the game a leg belongs to.
type GameStatus string

const (
	GamePregame GameStatus = "pregame"
	GameLive    GameStatus = "live"
	GameFinal   GameStatus = "final"
)

// LegStatus is the settlement state of a tracked leg.
type LegStatus string

const (
	LegPending LegStatus = "pending"
	LegWinning LegStatus = "winning"
	LegLosing  LegStatus = "losing"
	LegPushed  LegStatus = "pushed"
)

// HitRateWindow selects which rolling hit-rate sample a filter evaluates.
type HitRateWindow string

const (
	HitRateL5  HitRateWindow = "l5"
	HitRateL10 HitRateWindow = "l10"
	HitRateL20 HitRateWindow = "l20"
)

// LiveMarkets is the subset of markets tracked against live box scores.
// Combination and milestone markets have no single live counter to follow.
var LiveMarkets = map[Market]bool{
	MarketPoints:     true,
	MarketRebounds:   true,
	MarketAssists:    true,
	MarketThreesMade: true,
}
