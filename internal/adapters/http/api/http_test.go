package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/runform/internal/adapters/http/api"
	"github.com/okian/runform/internal/adapters/mq/queue"
	service "github.com/okian/runform/internal/app"
	"github.com/okian/runform/internal/domain/model"
	"github.com/okian/runform/internal/domain/model/modeltest"
	"github.com/okian/runform/internal/domain/types"
	"github.com/okian/runform/internal/i18n"
	"github.com/okian/runform/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// failingDeps overrides selected operations of a real service.
type failingDeps struct {
	*service.Service
	reportErr error
	batchErr  error
}

func (f *failingDeps) Report(ctx context.Context, in model.RunBiomechanicsInput) (model.Report, error) {
	if f.reportErr != nil {
		return model.Report{}, f.reportErr
	}
	return f.Service.Report(ctx, in)
}

func (f *failingDeps) Batch(ctx context.Context, runs []types.BatchRun) ([]types.BatchResult, error) {
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	return f.Service.Batch(ctx, runs)
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

func asymmetric() model.RunBiomechanicsInput {
	in := modeltest.Nominal()
	in.RightArm.ArmSwing = modeltest.Metric(in.LeftArm.ArmSwing.Mean-32, 3)
	return in
}

func newMux(deps api.Dependencies, opts ...api.Option) *http.ServeMux {
	mux := http.NewServeMux()
	stats := &mockStatsProvider{stats: map[string]interface{}{"started": true}}
	api.NewServer(deps, stats, opts...).Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

// withoutMetricKey encodes in with key removed from one of its metrics.
func withoutMetricKey(in model.RunBiomechanicsInput, group, metric, key string) string {
	var raw map[string]map[string]map[string]any
	if err := json.Unmarshal([]byte(mustJSON(in)), &raw); err != nil {
		panic(err)
	}
	delete(raw[group][metric], key)
	return mustJSON(raw)
}

func decodeBody(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)
	return out
}

func TestServer_Infrastructure(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(service.New())

		Convey("Health reports ok as JSON", func() {
			w := do(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decodeBody(w), ShouldResemble, map[string]any{"status": "ok", "service": "runform"})
		})

		Convey("Stats come from the provider", func() {
			w := do(mux, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decodeBody(w)["started"], ShouldEqual, true)
		})

		Convey("Metrics are served in Prometheus format", func() {
			do(mux, http.MethodGet, "/healthz", "")
			w := do(mux, http.MethodGet, "/metrics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "runform_engine_http_requests_total")
		})

		Convey("Analysis endpoints reject other methods", func() {
			w := do(mux, http.MethodGet, "/v1/analyze", "")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			So(w.Header().Get("Allow"), ShouldEqual, http.MethodPost)
		})

		Convey("Read endpoints reject writes", func() {
			w := do(mux, http.MethodPost, "/stats", "{}")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			So(w.Header().Get("Allow"), ShouldEqual, "GET, HEAD")
		})
	})
}

func TestServer_Analyze(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(service.New(), api.WithDefaultLocale(i18n.English))

		Convey("When a valid run is posted", func() {
			w := do(mux, http.MethodPost, "/v1/analyze", mustJSON(modeltest.Nominal()))

			Convey("Then the analysis comes back with display labels", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				body := decodeBody(w)
				So(body["classification"], ShouldEqual, "ELITE")
				So(body["id"], ShouldNotBeBlank)
				display := body["display"].(map[string]any)
				So(display["locale"], ShouldEqual, "en")
				So(display["levels"].(map[string]any)["ELITE"], ShouldEqual, "Elite")
			})
		})

		Convey("When Russian labels are requested", func() {
			w := do(mux, http.MethodPost, "/v1/analyze?lang=ru", mustJSON(modeltest.Nominal()))

			So(w.Code, ShouldEqual, http.StatusOK)
			display := decodeBody(w)["display"].(map[string]any)
			So(display["levels"].(map[string]any)["ELITE"], ShouldEqual, "Элитный")
		})

		Convey("When an unsupported language is requested", func() {
			w := do(mux, http.MethodPost, "/v1/analyze?lang=fr", mustJSON(modeltest.Nominal()))

			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeBody(w)["code"], ShouldEqual, "bad_request")
		})

		Convey("When the body is not JSON", func() {
			w := do(mux, http.MethodPost, "/v1/analyze", `{"left_arm":`)

			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeBody(w)["code"], ShouldEqual, "bad_request")
		})

		Convey("When a metric fails validation", func() {
			in := modeltest.Nominal()
			in.RightLeg.AnkleAngle.Std = -2
			w := do(mux, http.MethodPost, "/v1/analyze", mustJSON(in))

			Convey("Then it is rejected with the offending field", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				body := decodeBody(w)
				So(body["code"], ShouldEqual, "invalid_input")
				So(body["field"], ShouldEqual, "right_leg.ankle_angle.std")
			})
		})

		Convey("When a field has the wrong JSON type", func() {
			w := do(mux, http.MethodPost, "/v1/analyze", `{"left_arm":{"arm_swing":{"mean":"fast"}}}`)

			Convey("Then the decoder error is reported as invalid input on that field", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				So(decodeBody(w)["field"], ShouldEqual, "left_arm.arm_swing.mean")
			})
		})

		Convey("When a metric omits its mean", func() {
			w := do(mux, http.MethodPost, "/v1/errors", withoutMetricKey(modeltest.Nominal(), "left_arm", "arm_swing", "mean"))

			Convey("Then the missing key is required instead of read as zero", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				body := decodeBody(w)
				So(body["code"], ShouldEqual, "invalid_input")
				So(body["field"], ShouldEqual, "left_arm.arm_swing.mean")
			})
		})

		Convey("When a metric omits its std", func() {
			w := do(mux, http.MethodPost, "/v1/errors", withoutMetricKey(modeltest.Nominal(), "left_arm", "arm_swing", "std"))

			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(decodeBody(w)["field"], ShouldEqual, "left_arm.arm_swing.std")
		})

		Convey("When a metric key is misspelled", func() {
			body := strings.Replace(mustJSON(modeltest.Nominal()), `"mean"`, `"meen"`, 1)
			w := do(mux, http.MethodPost, "/v1/errors", body)

			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeBody(w)["message"], ShouldContainSubstring, "meen")
		})

		Convey("When the body carries an unknown top-level key", func() {
			body := strings.Replace(mustJSON(modeltest.Nominal()), `{`, `{"cadence":180,`, 1)
			w := do(mux, http.MethodPost, "/v1/analyze", body)

			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeBody(w)["code"], ShouldEqual, "bad_request")
		})

		Convey("When the body exceeds the limit", func() {
			small := newMux(service.New(), api.WithMaxBodyBytes(64))
			w := do(small, http.MethodPost, "/v1/analyze", mustJSON(modeltest.Nominal()))

			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When a means-only run is posted", func() {
			w := do(mux, http.MethodPost, "/v1/analyze/simple", `{"height_cm": 160, "weight_kg": 70}`)

			Convey("Then body metrics are reported", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				body := decodeBody(w)
				So(body["recommended_cadence"], ShouldEqual, 184.0)
				So(body["weight_category"], ShouldEqual, "overweight")
			})
		})
	})
}

func TestServer_ErrorsAndCoaching(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		svc := service.New()
		mux := newMux(svc)

		Convey("When errors are detected", func() {
			w := do(mux, http.MethodPost, "/v1/errors?lang=ru", mustJSON(asymmetric()))

			Convey("Then severities are labelled", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				body := decodeBody(w)
				So(body["highest_severity"], ShouldEqual, "CRITICAL")
				severities := body["display"].(map[string]any)["severities"].(map[string]any)
				So(severities["CRITICAL"], ShouldEqual, "Критическая")
			})
		})

		Convey("When recommendations are requested for detected errors", func() {
			detected, err := svc.DetectErrors(context.Background(), asymmetric())
			So(err, ShouldBeNil)
			req := map[string]any{"errors": detected.Errors, "runner_level": "BEGINNER"}
			w := do(mux, http.MethodPost, "/v1/recommendations", mustJSON(req))

			So(w.Code, ShouldEqual, http.StatusOK)
			body := decodeBody(w)
			So(body["recommendations"], ShouldNotBeEmpty)
			So(body["display"].(map[string]any)["levels"].(map[string]any)["BEGINNER"], ShouldEqual, "Beginner")
		})

		Convey("When recommendations name an unknown level", func() {
			w := do(mux, http.MethodPost, "/v1/recommendations", `{"errors": [], "runner_level": "PRO"}`)

			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(decodeBody(w)["field"], ShouldEqual, "runner_level")
		})

		Convey("When focus is requested without an analysis", func() {
			w := do(mux, http.MethodPost, "/v1/focus", `{"errors": []}`)

			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(decodeBody(w)["field"], ShouldEqual, "analysis")
		})

		Convey("When focus is requested with no errors", func() {
			req := map[string]any{"errors": []any{}, "analysis": model.RunAnalysisResult{CompositeScore: 90, Classification: model.LevelElite}}
			w := do(mux, http.MethodPost, "/v1/focus", mustJSON(req))

			So(w.Code, ShouldEqual, http.StatusOK)
			So(decodeBody(w)["estimated_improvement"], ShouldNotBeBlank)
		})
	})
}

func TestServer_ReportAndCompare(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		svc := service.New()
		mux := newMux(svc)
		ctx := context.Background()

		Convey("When a report is requested", func() {
			w := do(mux, http.MethodPost, "/v1/report", mustJSON(asymmetric()))

			Convey("Then every section is present", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				body := decodeBody(w)
				for _, key := range []string{"analysis", "errors", "recommendations", "focus", "display"} {
					So(body, ShouldContainKey, key)
				}
			})
		})

		Convey("When two analyses are compared", func() {
			before, err := svc.Analyze(ctx, asymmetric())
			So(err, ShouldBeNil)
			after, err := svc.Analyze(ctx, modeltest.Nominal())
			So(err, ShouldBeNil)

			w := do(mux, http.MethodPost, "/v1/compare", mustJSON(map[string]any{"before": before, "after": after}))

			So(w.Code, ShouldEqual, http.StatusOK)
			So(decodeBody(w)["improvement_percentage"], ShouldBeGreaterThan, 0)
		})

		Convey("When one side of the comparison is missing", func() {
			w := do(mux, http.MethodPost, "/v1/compare", `{"before": {"composite_score": 50}}`)

			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(decodeBody(w)["field"], ShouldEqual, "after")
		})

		Convey("When the engine fails unexpectedly", func() {
			mux := newMux(&failingDeps{Service: svc, reportErr: errors.New("disk on fire")})
			w := do(mux, http.MethodPost, "/v1/report", mustJSON(modeltest.Nominal()))

			Convey("Then a 500 is returned without internal details", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				body := decodeBody(w)
				So(body["code"], ShouldEqual, "internal")
				So(body["message"], ShouldNotContainSubstring, "disk on fire")
			})
		})
	})
}

func TestServer_Batch(t *testing.T) {
	Convey("Given a started service behind the API", t, func() {
		svc := service.New(service.WithWorkerCount(2), service.WithBatchTimeout(5*time.Second))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		mux := newMux(svc)

		Convey("When a batch mixes valid and invalid runs", func() {
			bad := modeltest.Nominal()
			bad.Head.HeadAngle.Count = 0
			req := map[string]any{"runs": []types.BatchRun{
				{ID: "ok", Input: modeltest.Nominal()},
				{ID: "bad", Input: bad},
			}}
			w := do(mux, http.MethodPost, "/v1/batch", mustJSON(req))

			Convey("Then each run reports its own outcome", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				body := decodeBody(w)
				So(body["succeeded"], ShouldEqual, 1.0)
				So(body["failed"], ShouldEqual, 1.0)

				results := body["results"].([]any)
				first := results[0].(map[string]any)
				second := results[1].(map[string]any)
				So(first["id"], ShouldEqual, "ok")
				So(first, ShouldContainKey, "report")
				So(second["error"].(map[string]any)["field"], ShouldEqual, "head.head_angle.count")
			})
		})

		Convey("When the batch is empty", func() {
			w := do(mux, http.MethodPost, "/v1/batch", `{"runs": []}`)

			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
		})

		Convey("When the queue is full", func() {
			mux := newMux(&failingDeps{Service: svc, batchErr: queue.ErrFull})
			w := do(mux, http.MethodPost, "/v1/batch", mustJSON(map[string]any{"runs": []types.BatchRun{{Input: modeltest.Nominal()}}}))

			So(w.Code, ShouldEqual, http.StatusTooManyRequests)
			body := decodeBody(w)
			So(body["code"], ShouldEqual, "backpressure")
			So(body["message"], ShouldStartWith, "api.batch: backpressure: ")
		})

		Convey("When the batch outlives its deadline", func() {
			timeout := fmt.Errorf("batch: 1 of 1 runs unfinished: %w", context.DeadlineExceeded)
			mux := newMux(&failingDeps{Service: svc, batchErr: timeout})
			w := do(mux, http.MethodPost, "/v1/batch", mustJSON(map[string]any{"runs": []types.BatchRun{{Input: modeltest.Nominal()}}}))

			Convey("Then the service reports itself unavailable", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				body := decodeBody(w)
				So(body["code"], ShouldEqual, "unavailable")
				So(body["message"], ShouldContainSubstring, "runs unfinished")
			})
		})
	})

	Convey("Given a service that was never started", t, func() {
		mux := newMux(service.New())
		w := do(mux, http.MethodPost, "/v1/batch", mustJSON(map[string]any{"runs": []types.BatchRun{{Input: modeltest.Nominal()}}}))

		Convey("Then batches fail as internal errors", func() {
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}

func TestErrorKinds(t *testing.T) {
	Convey("Given op-scoped errors", t, func() {
		cause := errors.New("eof")

		Convey("WrapKind matches both the kind and the cause", func() {
			err := api.WrapKind("api.analyze", api.ErrBadRequest, cause)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.analyze: bad request: eof")
		})

		Convey("NewKind carries only the kind", func() {
			err := api.NewKind("api.batch", api.ErrBackpressure)
			So(errors.Is(err, api.ErrBackpressure), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.batch: backpressure")
		})

		Convey("Wrap keeps the existing classification", func() {
			verr := &model.ValidationError{Field: "runs", Reason: "is required"}
			err := api.Wrap("api.batch", verr)
			So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
			So(api.Wrap("api.batch", nil), ShouldBeNil)
			So(api.WrapKind("api.batch", api.ErrInternal, nil), ShouldBeNil)
		})
	})
}
