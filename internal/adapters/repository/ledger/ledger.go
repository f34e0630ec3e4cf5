// Package ledger holds the user's tracked parlays, persists them across
// restarts, and advances leg settlement from polled live snapshots.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/courtside/proptracker/internal/adapters/storage"
	"github.com/courtside/proptracker/internal/domain/model"
	"github.com/courtside/proptracker/pkg/logger"
	"github.com/courtside/proptracker/pkg/metrics"
)

// defaultStorageKey namespaces all ledger state under one durable key.
const defaultStorageKey = "proptracker:tracked-parlays"

// Sentinel kinds for ledger errors.
var (
	ErrNotFound = errors.New("parlay not found")
	ErrNoLegs   = errors.New("parlay has no legs")
)

// Ledger is the durable, user-scoped collection of tracked parlays.
// Reconciliation is the only writer of leg settlement state.
type Ledger struct {
	mu        sync.RWMutex
	snapshots []model.TrackedParlaySnapshot
	store     storage.KV
	key       string
	dirty     bool // last persist failed; retry on next mutation
	logger    logger.Logger
	now       func() time.Time
}

// Option applies a configuration option to the Ledger.
type Option func(*Ledger)

// WithStorageKey overrides the durable key the ledger persists under.
func WithStorageKey(key string) Option {
	return func(l *Ledger) {
		if key != "" {
			l.key = key
		}
	}
}

// WithLogger sets a custom logger for the ledger.
func WithLogger(lg logger.Logger) Option {
	return func(l *Ledger) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// New creates a Ledger backed by store and loads any persisted state. A
// storage read failure degrades to an empty in-memory ledger rather than
// failing the caller.
func New(ctx context.Context, store storage.KV, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		key:    defaultStorageKey,
		logger: logger.Get().Named("ledger"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.load(ctx)
	return l
}

func (l *Ledger) load(ctx context.Context) {
	raw, err := l.store.Get(ctx, l.key)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		metrics.RecordStorageError()
		l.logger.Warn(ctx, "ledger read failed; starting empty", logger.Error(err))
		return
	}
	var snapshots []model.TrackedParlaySnapshot
	if err := json.Unmarshal(raw, &snapshots); err != nil {
		l.logger.Warn(ctx, "ledger state unreadable; starting empty", logger.Error(err))
		return
	}
	l.snapshots = snapshots
}

// persist writes the current state. On failure the ledger stays usable and
// the write is retried on the next mutating operation. Must be called with
// l.mu held.
func (l *Ledger) persist(ctx context.Context) {
	raw, err := json.Marshal(l.snapshots)
	if err != nil {
		l.logger.Error(ctx, "ledger marshal failed", logger.Error(err))
		l.dirty = true
		return
	}
	if err := l.store.Set(ctx, l.key, raw); err != nil {
		metrics.RecordStorageError()
		l.logger.Warn(ctx, "ledger write failed; will retry", logger.Error(err))
		l.dirty = true
		return
	}
	l.dirty = false
}

// Track adds a parlay snapshot to the ledger. A missing parlay id is
// assigned; legs start pending with settlement state cleared, since leg
// status is owned by reconciliation alone.
func (l *Ledger) Track(ctx context.Context, snapshot model.TrackedParlaySnapshot) (model.TrackedParlaySnapshot, error) {
	if len(snapshot.Legs) == 0 {
		return model.TrackedParlaySnapshot{}, ErrNoLegs
	}
	if snapshot.ParlayID == "" {
		snapshot.ParlayID = uuid.NewString()
	}
	if snapshot.CreatedAt == 0 {
		snapshot.CreatedAt = l.now().UnixMilli()
	}
	for i := range snapshot.Legs {
		leg := &snapshot.Legs[i]
		if leg.LegID == "" {
			leg.LegID = fmt.Sprintf("%s:%d", snapshot.ParlayID, i)
		}
		leg.Status = model.LegPending
		leg.Current = nil
		leg.IsFinal = false
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.snapshots = append(l.snapshots, snapshot)
	l.persist(ctx)
	return snapshot, nil
}

// Untrack removes a parlay by id.
func (l *Ledger) Untrack(ctx context.Context, parlayID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.snapshots {
		if l.snapshots[i].ParlayID == parlayID {
			l.snapshots = append(l.snapshots[:i], l.snapshots[i+1:]...)
			l.persist(ctx)
			return nil
		}
	}
	return ErrNotFound
}

// List returns a copy of all tracked parlays in tracking order.
func (l *Ledger) List(ctx context.Context) []model.TrackedParlaySnapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.TrackedParlaySnapshot, len(l.snapshots))
	copy(out, l.snapshots)
	for i := range out {
		legs := make([]model.TrackedParlayLeg, len(l.snapshots[i].Legs))
		copy(legs, l.snapshots[i].Legs)
		out[i].Legs = legs
	}
	return out
}

// Len returns the number of tracked parlays.
func (l *Ledger) Len(ctx context.Context) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.snapshots)
}

// Reconcile advances every leg's settlement state from the live snapshots,
// keyed by player id. The transformation is pure over the current state;
// the ledger only swaps and persists when something actually changed, so
// observers can treat "no write" as "nothing changed". It reports whether
// a change occurred.
func (l *Ledger) Reconcile(ctx context.Context, liveByPlayer map[int64]model.LiveSnapshot) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	next, changed := reconcileSnapshots(l.snapshots, liveByPlayer)
	if !changed && !l.dirty {
		return false
	}
	if changed {
		l.snapshots = next
	}
	l.persist(ctx)
	return changed
}

// SweepExpired removes parlays whose every leg is final and returns how
// many were removed. A parlay with any non-final leg stays, no matter how
// many of its legs already settled.
func (l *Ledger) SweepExpired(ctx context.Context) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.snapshots[:0:0]
	removed := 0
	for i := range l.snapshots {
		if l.snapshots[i].Resolved() {
			removed++
			continue
		}
		kept = append(kept, l.snapshots[i])
	}
	if removed == 0 {
		return 0
	}
	l.snapshots = kept
	l.persist(ctx)
	return removed
}

// equalState compares ledger states structurally.
func equalState(a, b []model.TrackedParlaySnapshot) bool {
	return reflect.DeepEqual(a, b)
}
