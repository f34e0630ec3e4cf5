package feedsim_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/courtside/proptracker/internal/domain/normalize"
	"github.com/courtside/proptracker/internal/domain/resolve"
	"github.com/courtside/proptracker/internal/feedsim"
	"github.com/courtside/proptracker/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestRowsNormalize(t *testing.T) {
	Convey("Given simulated rows across all schema shapes", t, func() {
		sim := feedsim.New(feedsim.WithSeed(1))
		rows := sim.Rows()
		So(len(rows), ShouldBeGreaterThan, 0)

		Convey("Then every shape survives normalization", func() {
			raws := make([]resolve.Raw, 0, len(rows))
			for _, r := range rows {
				raws = append(raws, resolve.Raw(r))
			}
			records, drops := normalize.Batch(raws)
			So(records, ShouldHaveLength, len(rows))
			So(drops, ShouldBeEmpty)
		})
	})
}

func TestAdvance(t *testing.T) {
	Convey("Given a fresh simulation", t, func() {
		sim := feedsim.New(feedsim.WithSeed(7))

		Convey("Then games start pregame", func() {
			for _, entry := range sim.Live() {
				So(entry["gameStatus"], ShouldEqual, "pregame")
			}
		})

		Convey("When advanced far enough", func() {
			for i := 0; i < 40; i++ {
				sim.Advance()
			}

			Convey("Then every game reaches final", func() {
				for _, entry := range sim.Live() {
					So(entry["gameStatus"], ShouldEqual, "final")
					So(entry["period"], ShouldEqual, 4)
				}
			})
		})
	})
}

func TestServerEndpoints(t *testing.T) {
	Convey("Given a feedsim server", t, func() {
		srv := feedsim.NewServer(feedsim.New(feedsim.WithSeed(3)))
		mux := http.NewServeMux()
		srv.Register(mux)

		Convey("When paging props", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/props?limit=5&offset=2", nil))

			Convey("Then the page honors limit and offset", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var rows []map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &rows), ShouldBeNil)
				So(rows, ShouldHaveLength, 5)
			})
		})

		Convey("When fetching live lines", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live", nil))

			Convey("Then every roster player has a line", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var entries []map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &entries), ShouldBeNil)
				So(len(entries), ShouldBeGreaterThan, 0)
				So(entries[0]["stats"], ShouldNotBeNil)
			})
		})
	})
}
