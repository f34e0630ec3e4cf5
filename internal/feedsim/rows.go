package feedsim

import (
	"fmt"
	"strconv"
	"time"
)

// Rows generates one prop row per player, market and book, rotating through
// the three schema shapes real backends have shipped over the years.
func (s *Sim) Rows() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]map[string]any, 0, len(roster)*3)
	for i, p := range roster {
		book := bookmakers[i%len(bookmakers)]
		line := 20.5 + float64(s.rng.Intn(10))
		odds := -(101 + s.rng.Intn(40))
		rebLine := 5.5 + float64(s.rng.Intn(5))

		switch i % 3 {
		case 0:
			rows = append(rows, s.modernRow(p, book, line, odds))
		case 1:
			rows = append(rows, s.legacyRow(p, book, line, odds))
		default:
			rows = append(rows, s.vendorRow(p, book, line, odds))
		}
		// Every player also gets one rebounds line in the modern shape.
		rows = append(rows, s.modernRebRow(p, book, rebLine))
	}
	return rows
}

// modernRow is the current backend schema: typed ids, flat fields.
func (s *Sim) modernRow(p player, book string, line float64, odds int) map[string]any {
	home, away := matchupTeams(p)
	return map[string]any{
		"propId":     fmt.Sprintf("%s-%d-points-%s", book, p.id, strconv.FormatFloat(line, 'f', 1, 64)),
		"playerId":   p.id,
		"player":     p.name,
		"market":     "points",
		"window":     "full_game",
		"line":       line,
		"odds":       odds,
		"side":       "over",
		"bookmaker":  book,
		"homeTeam":   home,
		"awayTeam":   away,
		"team":       p.team,
		"opponent":   p.opp,
		"startTime":  time.Now().Add(time.Hour).UnixMilli(),
		"hitRateL5":  s.hitRate(),
		"hitRateL10": s.hitRate(),
		"hitRateL20": s.hitRate(),
	}
}

func (s *Sim) modernRebRow(p player, book string, line float64) map[string]any {
	home, away := matchupTeams(p)
	return map[string]any{
		"playerId":   p.id,
		"player":     p.name,
		"market":     "rebounds",
		"line":       line,
		"odds":       -110,
		"side":       "over",
		"bookmaker":  book,
		"homeTeam":   home,
		"awayTeam":   away,
		"hitRateL10": s.hitRate(),
	}
}

// legacyRow is the old backend schema: aliased field names, matchup string,
// epoch-seconds start time, stringly odds.
func (s *Sim) legacyRow(p player, book string, line float64, odds int) map[string]any {
	home, away := matchupTeams(p)
	return map[string]any{
		"id":         fmt.Sprintf("legacy-%d", p.id),
		"name":       p.name,
		"statType":   "player_points_alternate",
		"point":      line,
		"price":      strconv.Itoa(odds),
		"selection":  "Over",
		"book":       book,
		"matchup":    away + " @ " + home,
		"startTime":  time.Now().Add(time.Hour).Unix(),
		"l10HitRate": s.hitRate() * 100,
	}
}

// vendorRow is a third-party shape: snake case, handicap/american naming.
func (s *Sim) vendorRow(p player, book string, line float64, odds int) map[string]any {
	home, away := matchupTeams(p)
	return map[string]any{
		"player_name":   p.name,
		"player_id":     p.id,
		"market_key":    "player_points",
		"handicap":      line,
		"american_odds": odds,
		"outcome":       "over",
		"sportsbook":    book,
		"home_team":     home,
		"away_team":     away,
	}
}

// Live returns the current live line per player, in the live wire shape.
func (s *Sim) Live() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]map[string]any, 0, len(roster))
	for _, p := range roster {
		st := s.stats[p.id]
		status := "live"
		if st.final {
			status = "final"
		} else if st.period == 0 {
			status = "pregame"
		}
		home, away := matchupTeams(p)
		out = append(out, map[string]any{
			"gameId":     away + "@" + home,
			"playerId":   p.id,
			"period":     st.period,
			"clock":      fmt.Sprintf("%d:%02d", s.rng.Intn(12), s.rng.Intn(60)),
			"gameStatus": status,
			"stats": map[string]any{
				"points":            st.points,
				"rebounds":          st.reb,
				"assists":           st.ast,
				"threePointersMade": st.threes,
			},
		})
	}
	return out
}

func (s *Sim) hitRate() float64 {
	return float64(s.rng.Intn(101)) / 100
}

func matchupTeams(p player) (home, away string) {
	if p.home {
		return p.team, p.opp
	}
	return p.opp, p.team
}
