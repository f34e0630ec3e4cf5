// Package app wires the feed client, normalizer, stores and pollers into
// the running service that backs the HTTP API.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/courtside/proptracker/internal/adapters/poller"
	"github.com/courtside/proptracker/internal/adapters/repository/ledger"
	"github.com/courtside/proptracker/internal/adapters/repository/livestore"
	"github.com/courtside/proptracker/internal/adapters/storage"
	"github.com/courtside/proptracker/internal/domain/filter"
	"github.com/courtside/proptracker/internal/domain/model"
	"github.com/courtside/proptracker/internal/domain/normalize"
	"github.com/courtside/proptracker/internal/domain/resolve"
	"github.com/courtside/proptracker/pkg/logger"
	"github.com/courtside/proptracker/pkg/metrics"
)

// propsResource is the feed resource polled for the prop board.
const propsResource = "props"

// FeedSource is what the service consumes from the feed backend.
type FeedSource interface {
	Rows(ctx context.Context, resource string, limit, offset int) ([]map[string]any, error)
	LiveSnapshots(ctx context.Context) (map[int64]model.LiveSnapshot, error)
}

// Service owns the prop board, the live store and the tracked-wager ledger,
// and keeps them current through two pollers.
type Service struct {
	mu sync.RWMutex

	// Core components
	feed   FeedSource
	live   *livestore.Store
	ledger *ledger.Ledger
	store  storage.KV

	// Latest normalized prop board, replaced wholesale on each changed fetch.
	board []model.PropRecord

	// Last applied live snapshots. New slips reconcile against these right
	// away instead of waiting for the next changed live tick.
	lastSnaps map[int64]model.LiveSnapshot

	pollers []*poller.Poller

	// Configuration
	propsInterval     time.Duration
	liveInterval      time.Duration
	degradedThreshold int
	pageSize          int
	maxProps          int
	storagePath       string

	// State
	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithFeed sets the feed source.
func WithFeed(f FeedSource) Option {
	return func(s *Service) {
		if f != nil {
			s.feed = f
		}
	}
}

// WithStorage sets the durable KV backing the ledger. When unset, Start
// opens a sqlite store at the configured path.
func WithStorage(kv storage.KV) Option {
	return func(s *Service) {
		if kv != nil {
			s.store = kv
		}
	}
}

// WithStoragePath sets the sqlite path used when no KV is injected.
func WithStoragePath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.storagePath = path
		}
	}
}

// WithPropsInterval sets the prop-board poll interval.
func WithPropsInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.propsInterval = d
		}
	}
}

// WithLiveInterval sets the live-stat poll interval.
func WithLiveInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.liveInterval = d
		}
	}
}

// WithDegradedThreshold sets how many consecutive poll failures mark a feed degraded.
func WithDegradedThreshold(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.degradedThreshold = n
		}
	}
}

// WithPageSize sets the feed paging size.
func WithPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithMaxProps caps how many rows one board fetch will accumulate.
func WithMaxProps(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxProps = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(lg logger.Logger) Option {
	return func(s *Service) {
		if lg != nil {
			s.logger = lg
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		propsInterval:     30 * time.Second,
		liveInterval:      15 * time.Second,
		degradedThreshold: 3,
		pageSize:          500,
		maxProps:          500,
		storagePath:       "proptracker.db",
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the stores and starts both pollers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.feed == nil {
		return fmt.Errorf("app: no feed source configured")
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("app")
	}

	s.logger.Info(ctx, "starting prop tracker service...")

	if s.store == nil {
		kv, err := storage.NewSQLiteStore(ctx, s.storagePath)
		if err != nil {
			return fmt.Errorf("app: open storage: %w", err)
		}
		s.store = kv
	}

	s.live = livestore.New()
	s.ledger = ledger.New(ctx, s.store,
		ledger.WithLogger(s.logger.Named("ledger")),
	)
	metrics.UpdateLedgerSize(s.ledger.Len(ctx))

	propsPoller := poller.New(propsResource, s.fetchProps, s.applyProps,
		poller.WithInterval(s.propsInterval),
		poller.WithDegradedThreshold(s.degradedThreshold),
		poller.WithLogger(s.logger.Named("poll.props")),
	)
	livePoller := poller.New("live", s.fetchLive, s.applyLive,
		poller.WithInterval(s.liveInterval),
		poller.WithDegradedThreshold(s.degradedThreshold),
		poller.WithLogger(s.logger.Named("poll.live")),
	)

	s.pollers = []*poller.Poller{propsPoller, livePoller}
	for _, p := range s.pollers {
		p.Start(ctx)
	}

	s.started = true
	s.logger.Info(ctx, "prop tracker service started",
		logger.Duration("propsInterval", s.propsInterval),
		logger.Duration("liveInterval", s.liveInterval),
		logger.Int("pageSize", s.pageSize),
	)

	return nil
}

// Stop cancels the pollers and closes the durable store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping prop tracker service...")

	for _, p := range s.pollers {
		p.Stop()
	}
	for _, p := range s.pollers {
		<-p.Done()
	}

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(ctx, "closing storage", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(ctx, "prop tracker service stopped")
}

// fetchProps pages through the props resource until a short page, the
// configured cap, or an error.
func (s *Service) fetchProps(ctx context.Context) (any, error) {
	var rows []map[string]any
	for offset := 0; ; offset += s.pageSize {
		page, err := s.feed.Rows(ctx, propsResource, s.pageSize, offset)
		if err != nil {
			return nil, err
		}
		rows = append(rows, page...)
		if len(page) < s.pageSize || len(rows) >= s.maxProps {
			break
		}
	}
	if len(rows) > s.maxProps {
		rows = rows[:s.maxProps]
	}
	return rows, nil
}

// applyProps normalizes a changed fetch and replaces the board plus the
// odds/market projections in the live store.
func (s *Service) applyProps(ctx context.Context, payload any) {
	rows, ok := payload.([]map[string]any)
	if !ok {
		s.logger.Warn(ctx, "unexpected props payload type")
		return
	}

	raws := make([]resolve.Raw, 0, len(rows))
	for _, r := range rows {
		raws = append(raws, resolve.Raw(r))
	}

	records, drops := normalize.Batch(raws)
	metrics.RecordRowsNormalized(len(records))
	for reason, n := range drops {
		metrics.RecordRowsDropped(string(reason), n)
	}

	s.mu.Lock()
	s.board = records
	s.mu.Unlock()

	s.live.UpsertOdds(ctx, oddsOf(records))
	s.live.UpsertPropMarkets(ctx, marketsOf(records))
	s.updateLiveGauges(ctx)

	s.logger.Info(ctx, "prop board replaced",
		logger.Int("records", len(records)),
		logger.Int("dropped", len(rows)-len(records)),
	)
}

func (s *Service) fetchLive(ctx context.Context) (any, error) {
	return s.feed.LiveSnapshots(ctx)
}

// applyLive projects snapshots into the live store, reconciles the ledger
// and sweeps fully-final slips.
func (s *Service) applyLive(ctx context.Context, payload any) {
	snaps, ok := payload.(map[int64]model.LiveSnapshot)
	if !ok {
		s.logger.Warn(ctx, "unexpected live payload type")
		return
	}

	s.mu.Lock()
	s.lastSnaps = snaps
	s.mu.Unlock()

	s.live.UpsertPlayers(ctx, playersOf(snaps))
	s.live.UpsertGames(ctx, gamesOf(snaps))
	s.updateLiveGauges(ctx)

	changed := s.ledger.Reconcile(ctx, snaps)
	metrics.RecordReconcilePass()
	if changed {
		metrics.RecordReconcileChange()
	}

	if swept := s.ledger.SweepExpired(ctx); swept > 0 {
		metrics.RecordSlipsSwept(swept)
		s.logger.Info(ctx, "swept resolved slips", logger.Int("count", swept))
	}
	metrics.UpdateLedgerSize(s.ledger.Len(ctx))
}

// Normalize converts one raw row, for callers that submit rows directly.
func (s *Service) Normalize(row map[string]any) (*model.PropRecord, normalize.DropReason) {
	return normalize.Normalize(resolve.Raw(row), 0)
}

// Props returns the current board filtered and ranked by spec.
func (s *Service) Props(ctx context.Context, spec filter.Spec) []model.PropRecord {
	s.mu.RLock()
	board := s.board
	s.mu.RUnlock()
	return filter.Apply(board, spec)
}

// Track adds a parlay snapshot to the ledger and returns it with ids assigned.
func (s *Service) Track(ctx context.Context, snap model.TrackedParlaySnapshot) (model.TrackedParlaySnapshot, error) {
	tracked, err := s.ledger.Track(ctx, snap)
	if err != nil {
		return model.TrackedParlaySnapshot{}, err
	}
	metrics.RecordSlipTracked()
	metrics.UpdateLedgerSize(s.ledger.Len(ctx))

	s.mu.RLock()
	snaps := s.lastSnaps
	s.mu.RUnlock()
	if len(snaps) > 0 {
		s.ledger.Reconcile(ctx, snaps)
	}

	return tracked, nil
}

// Untrack removes a tracked parlay by id.
func (s *Service) Untrack(ctx context.Context, parlayID string) error {
	if err := s.ledger.Untrack(ctx, parlayID); err != nil {
		return err
	}
	metrics.UpdateLedgerSize(s.ledger.Len(ctx))
	return nil
}

// Slips returns all tracked parlays with their latest reconciled state.
func (s *Service) Slips(ctx context.Context) []model.TrackedParlaySnapshot {
	return s.ledger.List(ctx)
}

// Reconcile advances every tracked leg against the given snapshots. The
// live poller calls this on its own cadence; it is exposed for callers
// that bring their own snapshot source.
func (s *Service) Reconcile(ctx context.Context, snaps map[int64]model.LiveSnapshot) bool {
	return s.ledger.Reconcile(ctx, snaps)
}

// SweepExpired removes slips whose legs are all final.
func (s *Service) SweepExpired(ctx context.Context) int {
	return s.ledger.SweepExpired(ctx)
}

// GetStats returns a snapshot of the engine's working set for monitoring.
func (s *Service) GetStats() model.EngineStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := model.EngineStats{
		Started:       s.started,
		BoardSize:     len(s.board),
		PropsInterval: s.propsInterval.String(),
		LiveInterval:  s.liveInterval.String(),
	}

	if s.started {
		ctx := context.Background()
		stats.LiveGames, stats.LiveOdds, stats.LivePlayers, stats.LivePropMarkets = s.live.Counts(ctx)
		stats.TrackedSlips = s.ledger.Len(ctx)
	}

	return stats
}

func (s *Service) updateLiveGauges(ctx context.Context) {
	games, odds, players, propMarkets := s.live.Counts(ctx)
	metrics.UpdateLiveEntities("games", games)
	metrics.UpdateLiveEntities("odds", odds)
	metrics.UpdateLiveEntities("players", players)
	metrics.UpdateLiveEntities("prop_markets", propMarkets)
}

// oddsOf projects the board's quotes for the live store.
func oddsOf(records []model.PropRecord) []model.LiveOdds {
	out := make([]model.LiveOdds, 0, len(records))
	for _, r := range records {
		out = append(out, model.LiveOdds{
			PropID:    r.PropID,
			Odds:      r.Odds,
			Line:      r.Line,
			Bookmaker: r.Bookmaker,
		})
	}
	return out
}

// marketsOf projects board rows that carry full game/player identity.
func marketsOf(records []model.PropRecord) []model.PropMarket {
	out := make([]model.PropMarket, 0, len(records))
	for _, r := range records {
		if r.PlayerID == nil || r.HomeTeam == "" || r.AwayTeam == "" {
			continue
		}
		out = append(out, model.PropMarket{
			GameID:   gameID(r.AwayTeam, r.HomeTeam),
			PlayerID: *r.PlayerID,
			Market:   r.Market,
			Line:     r.Line,
			Odds:     r.Odds,
		})
	}
	return out
}

func playersOf(snaps map[int64]model.LiveSnapshot) []model.LivePlayer {
	out := make([]model.LivePlayer, 0, len(snaps))
	for _, snap := range snaps {
		stats := make(map[model.Market]float64, len(snap.Stats))
		for k, v := range snap.Stats {
			stats[k] = v
		}
		out = append(out, model.LivePlayer{
			GameID:   snap.GameID,
			PlayerID: snap.PlayerID,
			Stats:    stats,
		})
	}
	return out
}

func gamesOf(snaps map[int64]model.LiveSnapshot) []model.LiveGame {
	byGame := make(map[string]model.LiveGame)
	for _, snap := range snaps {
		if snap.GameID == "" {
			continue
		}
		byGame[snap.GameID] = model.LiveGame{
			GameID:     snap.GameID,
			Period:     snap.Period,
			Clock:      snap.Clock,
			GameStatus: snap.GameStatus,
		}
	}
	out := make([]model.LiveGame, 0, len(byGame))
	for _, g := range byGame {
		out = append(out, g)
	}
	return out
}

func gameID(away, home string) string {
	return away + "@" + home
}
