package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/okian/runform/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		l, err := logger.New(logger.WithWriter(&buf), logger.WithFormat("json"), logger.WithLevel("debug"))
		So(err, ShouldBeNil)

		Convey("When a named logger writes a record", func() {
			l.Named("api").Info(ctx, "analysis done",
				logger.String("id", "abc"),
				logger.Float64("score", 88.5),
				logger.Error(errors.New("boom")))

			Convey("Then the record carries every field", func() {
				var rec map[string]any
				So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
				So(rec["msg"], ShouldEqual, "analysis done")
				So(rec["logger"], ShouldEqual, "api")
				So(rec["id"], ShouldEqual, "abc")
				So(rec["score"], ShouldEqual, 88.5)
				So(rec["error"], ShouldEqual, "boom")
				So(rec["source"], ShouldContainSubstring, "logger_test.go")
			})
		})
	})

	Convey("Given a logger at warn level", t, func() {
		var buf bytes.Buffer
		l, err := logger.New(logger.WithWriter(&buf), logger.WithLevel("warn"), logger.WithSource(false))
		So(err, ShouldBeNil)

		Convey("Then lower levels are dropped", func() {
			l.Info(ctx, "hidden")
			l.Debug(ctx, "hidden")
			So(buf.Len(), ShouldEqual, 0)
			l.Warn(ctx, "shown")
			So(buf.String(), ShouldContainSubstring, "msg=shown")
			So(buf.String(), ShouldNotContainSubstring, "source=")
		})
	})

	Convey("Given bad settings", t, func() {
		_, err := logger.New(logger.WithFormat("xml"))
		So(err, ShouldNotBeNil)
		_, err = logger.New(logger.WithLevel("loud"))
		So(err, ShouldNotBeNil)
	})
}

func TestGlobal(t *testing.T) {
	Convey("Given the global logger", t, func() {
		var buf bytes.Buffer
		So(logger.Init(logger.WithWriter(&buf)), ShouldBeNil)
		So(logger.Get(), ShouldNotBeNil)
		So(logger.Sync(), ShouldBeNil)

		Convey("When the level is changed at runtime", func() {
			So(logger.SetLevelString("error"), ShouldBeNil)
			logger.Named("test").Info(context.Background(), "hidden")
			So(buf.Len(), ShouldEqual, 0)

			logger.SetLevel(slog.LevelInfo)
			logger.Named("test").Info(context.Background(), "shown")
			So(buf.String(), ShouldContainSubstring, "logger=test")
		})

		Convey("Then unknown levels are rejected", func() {
			So(logger.SetLevelString("verbose"), ShouldNotBeNil)
		})
	})

	Convey("Given the no-op logger", t, func() {
		l := logger.Nop().Named("x")
		l.Info(context.Background(), "ignored")
		So(l, ShouldNotBeNil)
	})
}
