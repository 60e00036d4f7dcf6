package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/newsbot/pkg/metrics"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with custom options", func() {
			m := metrics.NewManager(
				metrics.WithNamespace("test"),
				metrics.WithSubsystem("unit"),
				metrics.WithHistogramBuckets([]float64{1, 10, 100}),
				metrics.WithConstLabels(map[string]string{"env": "test"}),
				metrics.WithPrometheusRegistry(registry),
			)
			m.RecordListingPage()

			Convey("Then collectors are registered under the namespace", func() {
				So(m, ShouldNotBeNil)
				n, err := testutil.GatherAndCount(registry, "test_unit_listing_pages_total")
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 1)
			})
		})

		Convey("When two managers share a registry", func() {
			metrics.NewManager(metrics.WithPrometheusRegistry(registry))

			Convey("Then the second registration panics", func() {
				So(func() { metrics.NewManager(metrics.WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestRecording(t *testing.T) {
	Convey("Given a manager on an isolated registry", t, func() {
		registry := prometheus.NewRegistry()
		m := metrics.NewManager(metrics.WithPrometheusRegistry(registry))

		Convey("When recording extraction outcomes", func() {
			m.RecordListingCard("extracted")
			m.RecordListingCard("extracted")
			m.RecordListingCard("dropped")
			m.RecordDetailFieldMissing("code")

			Convey("Then counts are kept per label", func() {
				n, err := testutil.GatherAndCount(registry, "newsbot_listing_cards_total")
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 2)
				n, err = testutil.GatherAndCount(registry, "newsbot_detail_fields_missing_total")
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 1)
			})
		})

		Convey("When recording pipeline and HTTP activity", func() {
			So(func() {
				m.RecordSourceRequest("listing", "2xx", 12)
				m.RecordEvaluation("scored")
				m.RecordSelection("best", "ok")
				m.RecordPipelineRun("ok")
				m.RecordPipelineStage("listing", "ok", 40)
				m.RecordHTTPRequest("/daily_paper", "GET", "200", 55)
				m.RecordErrorByEndpoint("/paper/", "POST", "not_found")
				m.UpdateSystemMemoryUsage(1024)
				m.UpdateSystemGoroutineCount(8)
			}, ShouldNotPanic)

			Convey("Then histogram series exist", func() {
				n, err := testutil.GatherAndCount(registry, "newsbot_pipeline_stage_duration_milliseconds")
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 1)
			})
		})
	})
}

func TestGlobalManager(t *testing.T) {
	Convey("Given the process-wide manager", t, func() {
		Convey("Then package functions record into GetRegistry", func() {
			metrics.RecordPipelineRun("ok")
			n, err := testutil.GatherAndCount(metrics.GetRegistry(), "newsbot_pipeline_runs_total")
			So(err, ShouldBeNil)
			So(n, ShouldBeGreaterThanOrEqualTo, 1)
			So(metrics.Default(), ShouldNotBeNil)
		})

		Convey("Then every package shorthand forwards without panicking", func() {
			So(func() {
				metrics.RecordSourceRequest("listing", "2xx", 3)
				metrics.RecordListingPage()
				metrics.RecordListingCard("extracted")
				metrics.RecordDetailFieldMissing("abstract")
				metrics.RecordEvaluation("scored")
				metrics.RecordSelection("rank", "ok")
				metrics.RecordPipelineStage("detail", "ok", 5)
				metrics.RecordHTTPRequest("/healthz", "GET", "200", 1)
				metrics.RecordErrorByEndpoint("/paper/", "POST", "bad_request")
				metrics.UpdateSystemMemoryUsage(2048)
				metrics.UpdateSystemGoroutineCount(4)
			}, ShouldNotPanic)

			n, err := testutil.GatherAndCount(metrics.GetRegistry(), "newsbot_detail_fields_missing_total")
			So(err, ShouldBeNil)
			So(n, ShouldBeGreaterThanOrEqualTo, 1)
		})
	})
}
