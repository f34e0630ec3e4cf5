// Package feedsim generates raw prop rows and drifting live stat lines for
// exercising the engine without a real feed backend. Rows come out in the
// historical schema shapes the resolver copes with, on purpose.
package feedsim

import (
	"math/rand"
	"sync"
	"time"
)

// player is one roster entry the simulator emits rows for.
type player struct {
	id   int64
	name string
	team string
	opp  string
	home bool
}

// roster is a fixed slate of two games worth of players.
var roster = []player{
	{id: 101, name: "Jalen Brunson", team: "NYK", opp: "BOS", home: true},
	{id: 102, name: "Josh Hart", team: "NYK", opp: "BOS", home: true},
	{id: 103, name: "Mikal Bridges", team: "NYK", opp: "BOS", home: true},
	{id: 104, name: "Jayson Tatum", team: "BOS", opp: "NYK", home: false},
	{id: 105, name: "Jaylen Brown", team: "BOS", opp: "NYK", home: false},
	{id: 106, name: "Derrick White", team: "BOS", opp: "NYK", home: false},
	{id: 201, name: "Luka Doncic", team: "LAL", opp: "DEN", home: true},
	{id: 202, name: "Austin Reaves", team: "LAL", opp: "DEN", home: true},
	{id: 203, name: "Nikola Jokic", team: "DEN", opp: "LAL", home: false},
	{id: 204, name: "Jamal Murray", team: "DEN", opp: "LAL", home: false},
}

var bookmakers = []string{"draftkings", "fanduel", "betmgm"}

// Sim produces prop rows and a drifting live state for the roster.
type Sim struct {
	mu   sync.Mutex
	rng  *rand.Rand
	tick int

	// live state per player id
	stats map[int64]*liveState
}

type liveState struct {
	points float64
	reb    float64
	ast    float64
	threes float64
	period int
	final  bool
}

// Option configures the Sim.
type Option func(*Sim)

// WithSeed makes the simulator deterministic.
func WithSeed(seed int64) Option {
	return func(s *Sim) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// New creates a simulator with fresh pregame state.
func New(opts ...Option) *Sim {
	s := &Sim{
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		stats: make(map[int64]*liveState, len(roster)),
	}
	for _, p := range roster {
		s.stats[p.id] = &liveState{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Advance moves every game forward one tick: stats drift upward and games
// march through four periods to final.
func (s *Sim) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tick++
	for _, st := range s.stats {
		if st.final {
			continue
		}
		if st.period == 0 {
			st.period = 1
		}
		st.points += float64(s.rng.Intn(4))
		if s.rng.Intn(3) == 0 {
			st.reb++
		}
		if s.rng.Intn(3) == 0 {
			st.ast++
		}
		if s.rng.Intn(5) == 0 {
			st.threes++
		}
		// Roughly six ticks per period.
		if s.tick%6 == 0 {
			st.period++
			if st.period > 4 {
				st.period = 4
				st.final = true
			}
		}
	}
}
