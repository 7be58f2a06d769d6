package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewManager(t *testing.T) {
	Convey("Given a private registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When a manager is created with custom options", func() {
			m := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 5, 10}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			m.analyses.WithLabelValues("analyze", OutcomeOK).Inc()

			Convey("Then its collectors live on that registry under the namespace", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var found bool
				for _, f := range families {
					So(strings.HasPrefix(f.GetName(), "test_unit_"), ShouldBeTrue)
					if f.GetName() == "test_unit_analyses_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When two managers share a registry", func() {
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then the duplicate registration panics", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

// sampleValue returns the counter or gauge value of the named series on the
// custom registry, or -1 when the series does not exist.
func sampleValue(name string, labels map[string]string) float64 {
	families, err := GetRegistry().Gather()
	if err != nil {
		return -1
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
	next:
		for _, metric := range f.GetMetric() {
			for _, lp := range metric.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue next
				}
			}
			if c := metric.GetCounter(); c != nil {
				return c.GetValue()
			}
			return metric.GetGauge().GetValue()
		}
	}
	return -1
}

func TestRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When an analysis is recorded", func() {
			labels := map[string]string{"operation": "analyze", "outcome": OutcomeOK}
			before := sampleValue("runform_engine_analyses_total", labels)
			if before < 0 {
				before = 0
			}
			RecordAnalysis("analyze", OutcomeOK, 1.5)
			RecordCompositeScore(87.2, "ELITE")

			Convey("Then the counters advance", func() {
				So(sampleValue("runform_engine_analyses_total", labels), ShouldEqual, before+1)
				So(sampleValue("runform_engine_classifications_total", map[string]string{"level": "ELITE"}), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When detected errors and validation failures are recorded", func() {
			RecordDetectedError("ARM_ASYMMETRY", "CRITICAL")
			RecordValidationFailure("left_arm.arm_swing.std")

			So(sampleValue("runform_engine_detected_errors_total",
				map[string]string{"error_type": "ARM_ASYMMETRY", "severity": "CRITICAL"}), ShouldBeGreaterThanOrEqualTo, 1)
			So(sampleValue("runform_engine_validation_failures_total",
				map[string]string{"field": "left_arm.arm_swing.std"}), ShouldBeGreaterThanOrEqualTo, 1)
		})

		Convey("When queue and worker gauges are updated", func() {
			UpdateQueueCapacity(64)
			UpdateQueueSize(16)
			UpdateQueueUtilization(0.25)
			UpdateWorkerCount(4)
			AddWorkerActive(2)
			AddWorkerActive(-1)

			So(sampleValue("runform_engine_queue_capacity", nil), ShouldEqual, 64)
			So(sampleValue("runform_engine_queue_utilization_ratio", nil), ShouldEqual, 0.25)
			So(sampleValue("runform_engine_worker_count", nil), ShouldEqual, 4)
		})

		Convey("Then every other recorder is safe to call", func() {
			So(func() {
				RecordHTTPRequest("/v1/analyze", "POST", "200")
				RecordHTTPRequestDuration("/v1/analyze", "POST", "200", 3.2)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError()
				RecordBatchSize(12)
				RecordWorkerProcessingLatency(0.4)
				RecordWorkerError()
				RecordErrorByComponent("api", "invalid_input")
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.2)
			}, ShouldNotPanic)
		})

		Convey("Then the custom registry gathers without error", func() {
			_, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
		})
	})
}
