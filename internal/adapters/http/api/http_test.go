package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/courtside/proptracker/internal/adapters/http/api"
	"github.com/courtside/proptracker/internal/adapters/repository/ledger"
	"github.com/courtside/proptracker/internal/domain/filter"
	"github.com/courtside/proptracker/internal/domain/model"
)

// fakeDeps implements api.Dependencies and api.StatsProvider on fixtures.
type fakeDeps struct {
	board    []model.PropRecord
	slips    []model.TrackedParlaySnapshot
	lastSpec filter.Spec
	trackErr error
}

func (f *fakeDeps) Props(ctx context.Context, spec filter.Spec) []model.PropRecord {
	f.lastSpec = spec
	return filter.Apply(f.board, spec)
}

func (f *fakeDeps) Track(ctx context.Context, snap model.TrackedParlaySnapshot) (model.TrackedParlaySnapshot, error) {
	if f.trackErr != nil {
		return model.TrackedParlaySnapshot{}, f.trackErr
	}
	snap.ParlayID = "slip-1"
	f.slips = append(f.slips, snap)
	return snap, nil
}

func (f *fakeDeps) Untrack(ctx context.Context, parlayID string) error {
	for i := range f.slips {
		if f.slips[i].ParlayID == parlayID {
			f.slips = append(f.slips[:i], f.slips[i+1:]...)
			return nil
		}
	}
	return ledger.ErrNotFound
}

func (f *fakeDeps) Slips(ctx context.Context) []model.TrackedParlaySnapshot {
	return f.slips
}

func (f *fakeDeps) GetStats() model.EngineStats {
	return model.EngineStats{Started: true, BoardSize: len(f.board)}
}

func newMux(deps *fakeDeps) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, deps, 100).Register(context.Background(), mux)
	return mux
}

func ptr[T any](v T) *T { return &v }

func TestGetProps(t *testing.T) {
	Convey("Given a board with two records", t, func() {
		deps := &fakeDeps{
			board: []model.PropRecord{
				{PropID: "a", PlayerName: "Jalen Brunson", Market: model.MarketPoints, Window: model.WindowFullGame, Line: 24.5, Odds: -110, HitRateL10: ptr(0.8)},
				{PropID: "b", PlayerName: "Josh Hart", Market: model.MarketRebounds, Window: model.WindowFullGame, Line: 8.5, Odds: 105, HitRateL10: ptr(0.6)},
			},
		}
		mux := newMux(deps)

		Convey("When fetching the full board", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/props", nil))

			Convey("Then both records return ranked", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var got []model.PropRecord
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got, ShouldHaveLength, 2)
				So(got[0].PropID, ShouldEqual, "a")
			})
		})

		Convey("When filtering by market", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/props?market=rebounds", nil))

			Convey("Then only matching records return", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var got []model.PropRecord
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got, ShouldHaveLength, 1)
				So(got[0].PropID, ShouldEqual, "b")
			})
		})

		Convey("When passing filter params", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/props?min_hit_rate=70&hit_rate_window=l10&min_odds=-120&limit=1", nil))

			Convey("Then the spec reaches the service", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.lastSpec.MinHitRate, ShouldEqual, 70)
				So(deps.lastSpec.HitRateWindow, ShouldEqual, model.HitRateL10)
				So(*deps.lastSpec.MinOdds, ShouldEqual, -120)
			})
		})

		Convey("When a param is malformed", func() {
			for _, q := range []string{"min_hit_rate=abc", "min_hit_rate=120", "limit=0", "hit_rate_window=l99", "min_odds=x"} {
				rec := httptest.NewRecorder()
				mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/props?"+q, nil))
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When using a non-GET method", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/props", nil))
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestSlips(t *testing.T) {
	Convey("Given a slips API", t, func() {
		deps := &fakeDeps{}
		mux := newMux(deps)

		body := `{"source":"manual","legs":[
			{"player_id":42,"player_name":"Mikal Bridges","market":"points","side":"over","line":24.5,"odds":-110}
		]}`

		Convey("When posting a valid slip", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/slips", strings.NewReader(body)))

			Convey("Then it is created with an id", func() {
				So(rec.Code, ShouldEqual, http.StatusCreated)
				var got model.TrackedParlaySnapshot
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got.ParlayID, ShouldEqual, "slip-1")
			})

			Convey("And it appears in the listing", func() {
				rec = httptest.NewRecorder()
				mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slips", nil))
				So(rec.Code, ShouldEqual, http.StatusOK)
				var got []model.TrackedParlaySnapshot
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got, ShouldHaveLength, 1)
			})

			Convey("And deleting it returns no content", func() {
				rec = httptest.NewRecorder()
				mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/slips/slip-1", nil))
				So(rec.Code, ShouldEqual, http.StatusNoContent)
				So(deps.slips, ShouldHaveLength, 0)
			})
		})

		Convey("When posting a slip without legs", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/slips", strings.NewReader(`{"legs":[]}`)))
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When posting a leg on a market without a live counter", func() {
			for _, market := range []string{"double_double", "points_rebounds_assists", "steals"} {
				bad := `{"legs":[{"player_id":42,"market":"` + market + `","side":"over","line":1.5,"odds":-110}]}`
				rec := httptest.NewRecorder()
				mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/slips", strings.NewReader(bad)))
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When posting a leg with a bad side", func() {
			bad := `{"legs":[{"player_id":42,"market":"points","side":"sideways","line":24.5}]}`
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/slips", strings.NewReader(bad)))
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When posting malformed JSON", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/slips", strings.NewReader(`{nope`)))
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When deleting an unknown slip", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/slips/ghost", nil))
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestStats(t *testing.T) {
	Convey("Given the stats endpoint", t, func() {
		deps := &fakeDeps{board: []model.PropRecord{{PropID: "a"}}}
		mux := newMux(deps)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

		Convey("Then the engine snapshot returns as JSON", func() {
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Header().Get("Cache-Control"), ShouldEqual, "no-store")
			var got model.EngineStats
			So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
			So(got.Started, ShouldBeTrue)
			So(got.BoardSize, ShouldEqual, 1)
		})
	})
}

func TestHealthz(t *testing.T) {
	Convey("Given the health endpoint", t, func() {
		mux := newMux(&fakeDeps{})

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		Convey("Then the Prometheus exposition is served", func() {
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "proptracker")
		})
	})
}
