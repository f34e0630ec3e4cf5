package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/courtside/proptracker/internal/adapters/storage"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSQLiteStore(t *testing.T) {
	Convey("Given a sqlite store in a temp dir", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "kv.db")
		store, err := storage.NewSQLiteStore(ctx, path)
		So(err, ShouldBeNil)
		defer store.Close()

		Convey("When getting a missing key", func() {
			_, err := store.Get(ctx, "absent")
			So(err, ShouldEqual, storage.ErrNotFound)
		})

		Convey("When setting and getting a key", func() {
			So(store.Set(ctx, "ledger", []byte(`{"v":1}`)), ShouldBeNil)
			got, err := store.Get(ctx, "ledger")
			So(err, ShouldBeNil)
			So(string(got), ShouldEqual, `{"v":1}`)
		})

		Convey("When overwriting a key", func() {
			So(store.Set(ctx, "ledger", []byte("old")), ShouldBeNil)
			So(store.Set(ctx, "ledger", []byte("new")), ShouldBeNil)
			got, err := store.Get(ctx, "ledger")
			So(err, ShouldBeNil)
			So(string(got), ShouldEqual, "new")
		})

		Convey("When deleting a key", func() {
			So(store.Set(ctx, "ledger", []byte("x")), ShouldBeNil)
			So(store.Delete(ctx, "ledger"), ShouldBeNil)
			_, err := store.Get(ctx, "ledger")
			So(err, ShouldEqual, storage.ErrNotFound)

			Convey("Then deleting again is not an error", func() {
				So(store.Delete(ctx, "ledger"), ShouldBeNil)
			})
		})

		Convey("When reopening the database", func() {
			So(store.Set(ctx, "ledger", []byte("persisted")), ShouldBeNil)
			So(store.Close(), ShouldBeNil)

			reopened, err := storage.NewSQLiteStore(ctx, path)
			So(err, ShouldBeNil)
			defer reopened.Close()

			got, err := reopened.Get(ctx, "ledger")
			So(err, ShouldBeNil)
			So(string(got), ShouldEqual, "persisted")
		})
	})
}
