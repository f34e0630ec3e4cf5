// Package livestore keeps the current live entities (games, odds, players,
// prop markets) in memory, rebuilt continuously from the polled feed.
//
// Upserts replace the stored value for a key wholesale. Merging two
// versions of an entity field-by-field invites stale-field bugs when a
// feed omits a field one tick and restores it the next, so conflicts are
// resolved by replacement only.
package livestore

import (
	"context"
	"strconv"
	"sync"

	"github.com/courtside/proptracker/internal/domain/model"
)

// Store is an in-memory keyed repository of live entities. One writer (the
// poll pipeline) and any number of readers.
type Store struct {
	mu          sync.RWMutex
	games       map[string]model.LiveGame
	odds        map[string]model.LiveOdds
	players     map[string]model.LivePlayer
	propMarkets map[string]model.PropMarket
}

// New creates an empty store.
func New() *Store {
	return &Store{
		games:       make(map[string]model.LiveGame),
		odds:        make(map[string]model.LiveOdds),
		players:     make(map[string]model.LivePlayer),
		propMarkets: make(map[string]model.PropMarket),
	}
}

// PlayerKey builds the composite key for a live player. Player ids are only
// unique within a game feed, so the game id is part of the key.
func PlayerKey(gameID string, playerID int64) string {
	return gameID + ":" + strconv.FormatInt(playerID, 10)
}

// PropMarketKey builds the composite key for a prop market.
func PropMarketKey(gameID string, playerID int64, market model.Market) string {
	return PlayerKey(gameID, playerID) + ":" + string(market)
}

// UpsertGames merges incoming games by game id, replacing on conflict.
func (s *Store) UpsertGames(ctx context.Context, games []model.LiveGame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range games {
		if g.GameID == "" {
			continue
		}
		s.games[g.GameID] = g
	}
}

// UpsertOdds merges incoming odds quotes by prop id, replacing on conflict.
func (s *Store) UpsertOdds(ctx context.Context, odds []model.LiveOdds) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range odds {
		if o.PropID == "" {
			continue
		}
		s.odds[o.PropID] = o
	}
}

// UpsertPlayers merges incoming player lines by game:player key.
func (s *Store) UpsertPlayers(ctx context.Context, players []model.LivePlayer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range players {
		if p.GameID == "" || p.PlayerID == 0 {
			continue
		}
		s.players[PlayerKey(p.GameID, p.PlayerID)] = p
	}
}

// UpsertPropMarkets merges incoming prop markets by game:player:market key.
func (s *Store) UpsertPropMarkets(ctx context.Context, markets []model.PropMarket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range markets {
		if m.GameID == "" || m.PlayerID == 0 || m.Market == "" {
			continue
		}
		s.propMarkets[PropMarketKey(m.GameID, m.PlayerID, m.Market)] = m
	}
}

// Game returns the stored game for id.
func (s *Store) Game(ctx context.Context, gameID string) (model.LiveGame, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[gameID]
	return g, ok
}

// Games returns a copy of all stored games.
func (s *Store) Games(ctx context.Context) []model.LiveGame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.LiveGame, 0, len(s.games))
	for _, g := range s.games {
		out = append(out, g)
	}
	return out
}

// Odds returns the stored odds quote for a prop id.
func (s *Store) Odds(ctx context.Context, propID string) (model.LiveOdds, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.odds[propID]
	return o, ok
}

// Player returns the stored live player line.
func (s *Store) Player(ctx context.Context, gameID string, playerID int64) (model.LivePlayer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[PlayerKey(gameID, playerID)]
	return p, ok
}

// PropMarket returns the stored prop market.
func (s *Store) PropMarket(ctx context.Context, gameID string, playerID int64, market model.Market) (model.PropMarket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.propMarkets[PropMarketKey(gameID, playerID, market)]
	return m, ok
}

// Counts reports entity counts for stats and metrics.
func (s *Store) Counts(ctx context.Context) (games, odds, players, propMarkets int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games), len(s.odds), len(s.players), len(s.propMarkets)
}
