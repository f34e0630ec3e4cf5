package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/courtside/proptracker/internal/adapters/feed"
	"github.com/courtside/proptracker/internal/adapters/http/api"
	"github.com/courtside/proptracker/internal/app"
	"github.com/courtside/proptracker/internal/config"
	"github.com/courtside/proptracker/pkg/logger"
)

func init() {
	_ = logger.Init()
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("PROPTRACKER_ADDR", ":8080")
			_ = os.Setenv("PROPTRACKER_FEED_PAGE_SIZE", "100")
			defer func() {
				_ = os.Unsetenv("PROPTRACKER_ADDR")
				_ = os.Unsetenv("PROPTRACKER_FEED_PAGE_SIZE")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.FeedPageSize, convey.ShouldEqual, 100)
			})
		})

		convey.Convey("When testing component wiring", func() {
			client, err := feed.New("http://localhost:8791")
			convey.So(err, convey.ShouldBeNil)

			svc := app.New(app.WithFeed(client))
			convey.So(svc, convey.ShouldNotBeNil)

			convey.Convey("Then routes should register", func() {
				mux := http.NewServeMux()
				server := api.NewServer(svc, svc, 100)
				convey.So(server, convey.ShouldNotBeNil)
				convey.So(func() {
					server.Register(context.Background(), mux)
				}, convey.ShouldNotPanic)
			})
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing the system metrics updater", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.So(func() {
				startSystemMetricsUpdater(ctx)
			}, convey.ShouldNotPanic)
		})

		convey.Convey("When testing a system metrics update", func() {
			convey.So(func() {
				updateSystemMetrics()
			}, convey.ShouldNotPanic)
		})
	})
}
