package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/okian/runform/internal/adapters/mq/queue"
	service "github.com/okian/runform/internal/app"
	"github.com/okian/runform/internal/domain/model"
	"github.com/okian/runform/internal/domain/model/modeltest"
	"github.com/okian/runform/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestServiceBatch(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(
			service.WithWorkerCount(2),
			service.WithQueueSize(32),
			service.WithMaxBatchSize(8),
			service.WithBatchTimeout(5*time.Second),
		)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("Then stats report it as running", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, true)
			So(stats["workerCount"], ShouldEqual, 2)
		})

		Convey("When a batch mixes valid and invalid runs", func() {
			invalid := modeltest.Nominal()
			invalid.Trunk.TrunkAngle.Count = 0
			runs := []types.BatchRun{
				{ID: "warmup", Input: modeltest.Nominal()},
				{ID: "tired", Input: asymmetric()},
				{ID: "broken", Input: invalid},
				{Input: modeltest.Nominal()},
			}

			results, err := svc.Batch(ctx, runs)

			Convey("Then results come back in request order", func() {
				So(err, ShouldBeNil)
				So(results, ShouldHaveLength, 4)
				So(results[0].ID, ShouldEqual, "warmup")
				So(results[1].ID, ShouldEqual, "tired")
				So(results[2].ID, ShouldEqual, "broken")
				So(results[3].ID, ShouldNotBeBlank)
			})

			Convey("And invalid runs fail alone", func() {
				So(results[0].Report, ShouldNotBeNil)
				So(results[1].Report.Errors.ErrorCount, ShouldBeGreaterThan, 0)
				So(results[2].Report, ShouldBeNil)
				So(errors.Is(results[2].Err, model.ErrInvalidInput), ShouldBeTrue)
			})
		})

		Convey("When a batch is empty", func() {
			_, err := svc.Batch(ctx, nil)

			So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("When a batch exceeds the maximum size", func() {
			runs := make([]types.BatchRun, 9)
			for i := range runs {
				runs[i] = types.BatchRun{ID: fmt.Sprint(i), Input: modeltest.Nominal()}
			}
			_, err := svc.Batch(ctx, runs)

			So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("When two runs share an id", func() {
			runs := []types.BatchRun{
				{ID: "same", Input: modeltest.Nominal()},
				{ID: "same", Input: modeltest.Nominal()},
			}
			_, err := svc.Batch(ctx, runs)

			var verr *model.ValidationError
			So(errors.As(err, &verr), ShouldBeTrue)
			So(verr.Field, ShouldEqual, "runs[1].id")
		})

		Convey("When the service is stopped", func() {
			svc.Stop()
			_, err := svc.Batch(ctx, []types.BatchRun{{Input: modeltest.Nominal()}})

			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})
	})
}

func TestServiceBatchBackpressure(t *testing.T) {
	Convey("Given a service whose queue holds a single job", t, func() {
		svc := service.New(
			service.WithWorkerCount(1),
			service.WithQueueSize(1),
			service.WithMaxBatchSize(64),
		)
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When a large batch arrives", func() {
			runs := make([]types.BatchRun, 64)
			for i := range runs {
				runs[i] = types.BatchRun{Input: modeltest.Nominal()}
			}
			_, err := svc.Batch(ctx, runs)

			Convey("Then it is rejected as backpressure", func() {
				So(errors.Is(err, queue.ErrFull), ShouldBeTrue)
			})
		})
	})
}
