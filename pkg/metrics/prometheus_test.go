package metrics_test

import (
	"testing"

	"github.com/algomate/insights/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		registry := prometheus.NewRegistry()
		m := metrics.NewManager(metrics.WithPrometheusRegistry(registry))
		So(m, ShouldNotBeNil)

		Convey("When gathering", func() {
			families, err := registry.Gather()

			Convey("Then registration should have succeeded without panics", func() {
				So(err, ShouldBeNil)
				// Counters report only after their first increment; gauges and
				// histograms register eagerly.
				So(families, ShouldNotBeEmpty)
			})
		})
	})

	Convey("Given a disabled manager", t, func() {
		registry := prometheus.NewRegistry()
		m := metrics.NewManager(
			metrics.WithPrometheusRegistry(registry),
			metrics.WithMetricsEnabled(false),
		)
		So(m, ShouldNotBeNil)

		Convey("When gathering", func() {
			families, err := registry.Gather()

			Convey("Then nothing should have been registered", func() {
				So(err, ShouldBeNil)
				So(families, ShouldBeEmpty)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording across the pipeline", func() {
			metrics.RecordDerivation(0.01)
			metrics.RecordCalendarBuild(0.001)
			metrics.RecordEventsAggregated(5)
			metrics.RecordEventsOutOfWindow(2)
			metrics.RecordRuleFired("weak_topics")
			metrics.RecordRecommendationsEmitted(3)
			metrics.RecordSnapshotWrite()
			metrics.UpdateSnapshotCount(1)
			metrics.UpdateQueueSize(0)
			metrics.UpdateWorkerCount(4)

			Convey("Then the registry should gather the recorded families", func() {
				families, err := metrics.Registry().Gather()
				So(err, ShouldBeNil)

				names := make(map[string]bool, len(families))
				for _, mf := range families {
					names[mf.GetName()] = true
				}
				So(names["algomate_insights_derivations_total"], ShouldBeTrue)
				So(names["algomate_insights_recommendation_rules_fired_total"], ShouldBeTrue)
				So(names["algomate_insights_snapshot_count"], ShouldBeTrue)
			})
		})
	})
}
