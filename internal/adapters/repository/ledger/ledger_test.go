package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/courtside/proptracker/internal/adapters/repository/ledger"
	"github.com/courtside/proptracker/internal/adapters/storage"
	"github.com/courtside/proptracker/internal/domain/model"
	"github.com/courtside/proptracker/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

// fakeKV is an in-memory KV with injectable failures.
type fakeKV struct {
	mu      sync.Mutex
	data    map[string][]byte
	sets    int
	failGet bool
	failSet bool
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string][]byte)}
}

func (f *fakeKV) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet {
		return nil, errors.New("disk on fire")
	}
	v, ok := f.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return v, nil
}

func (f *fakeKV) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	if f.failSet {
		return errors.New("disk still on fire")
	}
	f.data[key] = value
	return nil
}

func (f *fakeKV) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func (f *fakeKV) Close() error { return nil }

func (f *fakeKV) setCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets
}

func slip(playerID int64, side model.Side, line float64) model.TrackedParlaySnapshot {
	return model.TrackedParlaySnapshot{
		Source: "test",
		Legs: []model.TrackedParlayLeg{
			{PlayerID: playerID, PlayerName: "Player", Market: model.MarketPoints, Side: side, Line: line, Odds: -110},
		},
	}
}

func liveFor(playerID int64, points float64, gs model.GameStatus) map[int64]model.LiveSnapshot {
	return map[int64]model.LiveSnapshot{
		playerID: {
			GameID:     "g1",
			PlayerID:   playerID,
			GameStatus: gs,
			Period:     "Q3",
			Clock:      "4:12",
			Stats:      map[model.Market]float64{model.MarketPoints: points},
		},
	}
}

func TestTrackUntrack(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty ledger", t, func() {
		kv := newFakeKV()
		l := ledger.New(ctx, kv)

		Convey("When tracking a slip without an id", func() {
			saved, err := l.Track(ctx, slip(42, model.SideOver, 24.5))
			So(err, ShouldBeNil)

			Convey("Then an id is assigned and the slip persisted", func() {
				So(saved.ParlayID, ShouldNotBeEmpty)
				So(saved.CreatedAt, ShouldBeGreaterThan, 0)
				So(l.Len(ctx), ShouldEqual, 1)
				So(kv.setCount(), ShouldEqual, 1)
			})

			Convey("And legs start pending with settlement state cleared", func() {
				So(saved.Legs[0].Status, ShouldEqual, model.LegPending)
				So(saved.Legs[0].Current, ShouldBeNil)
				So(saved.Legs[0].IsFinal, ShouldBeFalse)
			})
		})

		Convey("When tracking a slip with no legs", func() {
			_, err := l.Track(ctx, model.TrackedParlaySnapshot{})
			So(err, ShouldEqual, ledger.ErrNoLegs)
		})

		Convey("When untracking", func() {
			saved, _ := l.Track(ctx, slip(42, model.SideOver, 24.5))
			So(l.Untrack(ctx, saved.ParlayID), ShouldBeNil)
			So(l.Len(ctx), ShouldEqual, 0)

			Convey("Then untracking an unknown id errors", func() {
				So(l.Untrack(ctx, "nope"), ShouldEqual, ledger.ErrNotFound)
			})
		})
	})

	Convey("Given persisted state", t, func() {
		kv := newFakeKV()
		first := ledger.New(ctx, kv)
		saved, _ := first.Track(ctx, slip(42, model.SideOver, 24.5))

		Convey("When a new ledger loads from the same store", func() {
			second := ledger.New(ctx, kv)

			Convey("Then the tracked slips survive the restart", func() {
				slips := second.List(ctx)
				So(len(slips), ShouldEqual, 1)
				So(slips[0].ParlayID, ShouldEqual, saved.ParlayID)
			})
		})
	})

	Convey("Given a store that fails reads", t, func() {
		kv := newFakeKV()
		kv.failGet = true

		Convey("Then the ledger starts empty instead of failing", func() {
			l := ledger.New(ctx, kv)
			So(l.Len(ctx), ShouldEqual, 0)
		})
	})
}

func TestReconcile(t *testing.T) {
	ctx := context.Background()

	Convey("Given a tracked over 24.5 points leg", t, func() {
		kv := newFakeKV()
		l := ledger.New(ctx, kv)
		_, _ = l.Track(ctx, slip(42, model.SideOver, 24.5))

		Convey("When there is no live snapshot for the player", func() {
			changed := l.Reconcile(ctx, map[int64]model.LiveSnapshot{})

			Convey("Then the leg is left untouched and nothing is written", func() {
				So(changed, ShouldBeFalse)
				leg := l.List(ctx)[0].Legs[0]
				So(leg.Status, ShouldEqual, model.LegPending)
				So(leg.Current, ShouldBeNil)
			})
		})

		Convey("When the player reaches the line in a live game", func() {
			changed := l.Reconcile(ctx, liveFor(42, 24.5, model.GameLive))

			Convey("Then the leg is winning (live over uses >=)", func() {
				So(changed, ShouldBeTrue)
				leg := l.List(ctx)[0].Legs[0]
				So(leg.Status, ShouldEqual, model.LegWinning)
				So(*leg.Current, ShouldEqual, 24.5)
				So(leg.GameStatus, ShouldEqual, model.GameLive)
				So(leg.IsFinal, ShouldBeFalse)
				So(leg.Period, ShouldEqual, "Q3")
			})
		})

		Convey("When the game finalizes exactly on the line", func() {
			l.Reconcile(ctx, liveFor(42, 24.5, model.GameLive))
			changed := l.Reconcile(ctx, liveFor(42, 24.5, model.GameFinal))

			Convey("Then the leg pushes and becomes final", func() {
				So(changed, ShouldBeTrue)
				leg := l.List(ctx)[0].Legs[0]
				So(leg.Status, ShouldEqual, model.LegPushed)
				So(leg.IsFinal, ShouldBeTrue)
			})
		})

		Convey("When the live feed omits game status", func() {
			l.Reconcile(ctx, liveFor(42, 10, model.GameLive))
			live := liveFor(42, 12, "")
			l.Reconcile(ctx, live)

			Convey("Then the leg's previous status carries over", func() {
				leg := l.List(ctx)[0].Legs[0]
				So(leg.GameStatus, ShouldEqual, model.GameLive)
			})
		})

		Convey("When the status goes unknown after the game finalized", func() {
			l.Reconcile(ctx, liveFor(42, 30, model.GameFinal))
			l.Reconcile(ctx, liveFor(42, 30, ""))

			Convey("Then the leg stays final and the slip stays sweepable", func() {
				leg := l.List(ctx)[0].Legs[0]
				So(leg.GameStatus, ShouldEqual, model.GameFinal)
				So(leg.IsFinal, ShouldBeTrue)
				So(l.SweepExpired(ctx), ShouldEqual, 1)
			})
		})

		Convey("When reconciling the same snapshot twice", func() {
			l.Reconcile(ctx, liveFor(42, 20, model.GameLive))
			before := kv.setCount()
			changed := l.Reconcile(ctx, liveFor(42, 20, model.GameLive))

			Convey("Then the second pass is a no-op with no write", func() {
				So(changed, ShouldBeFalse)
				So(kv.setCount(), ShouldEqual, before)
			})
		})

		Convey("When a persist fails", func() {
			kv.failSet = true
			l.Reconcile(ctx, liveFor(42, 30, model.GameLive))
			kv.failSet = false

			Convey("Then the next mutating pass retries the write", func() {
				before := kv.setCount()
				changed := l.Reconcile(ctx, liveFor(42, 30, model.GameLive))
				So(changed, ShouldBeFalse) // state identical, but dirty retry writes
				So(kv.setCount(), ShouldEqual, before+1)
			})
		})
	})

	Convey("Given an under leg", t, func() {
		kv := newFakeKV()
		l := ledger.New(ctx, kv)
		_, _ = l.Track(ctx, slip(7, model.SideUnder, 10))

		Convey("When the game finalizes above the line", func() {
			l.Reconcile(ctx, liveFor(7, 11, model.GameFinal))

			Convey("Then the leg is losing", func() {
				So(l.List(ctx)[0].Legs[0].Status, ShouldEqual, model.LegLosing)
			})
		})
	})
}

func TestSweepExpired(t *testing.T) {
	ctx := context.Background()

	Convey("Given a ledger with mixed parlays", t, func() {
		kv := newFakeKV()
		l := ledger.New(ctx, kv)

		done, _ := l.Track(ctx, slip(1, model.SideOver, 10))
		_, _ = l.Track(ctx, model.TrackedParlaySnapshot{
			Legs: []model.TrackedParlayLeg{
				{PlayerID: 2, Market: model.MarketPoints, Side: model.SideOver, Line: 20, Odds: -110},
				{PlayerID: 3, Market: model.MarketPoints, Side: model.SideUnder, Line: 15, Odds: 100},
			},
		})

		// Finalize player 1 and player 2, leave player 3 pregame.
		l.Reconcile(ctx, map[int64]model.LiveSnapshot{
			1: {GameID: "g1", PlayerID: 1, GameStatus: model.GameFinal, Stats: map[model.Market]float64{model.MarketPoints: 12}},
			2: {GameID: "g2", PlayerID: 2, GameStatus: model.GameFinal, Stats: map[model.Market]float64{model.MarketPoints: 25}},
		})

		Convey("When sweeping", func() {
			removed := l.SweepExpired(ctx)

			Convey("Then only the fully-final parlay is removed", func() {
				So(removed, ShouldEqual, 1)
				remaining := l.List(ctx)
				So(len(remaining), ShouldEqual, 1)
				So(remaining[0].ParlayID, ShouldNotEqual, done.ParlayID)
				// The two-leg parlay stays even though one leg is final.
				So(remaining[0].Legs[0].IsFinal, ShouldBeTrue)
				So(remaining[0].Legs[1].IsFinal, ShouldBeFalse)
			})
		})

		Convey("When nothing is resolved", func() {
			fresh := ledger.New(ctx, newFakeKV())
			_, _ = fresh.Track(ctx, slip(9, model.SideOver, 30))
			So(fresh.SweepExpired(ctx), ShouldEqual, 0)
		})
	})
}
