package metrics

import (
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

			Convey("Then it should use the userdir namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "userdir")
				So(manager.subsystem, ShouldEqual, "directory")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.UpdateTotalUsers(7)

			Convey("Then the metrics should carry the custom names and labels", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				var found bool
				for _, mf := range families {
					if mf.GetName() != "test_namespace_test_subsystem_users_total" {
						continue
					}
					found = true
					So(mf.GetMetric()[0].GetGauge().GetValue(), ShouldEqual, 7)
					So(mf.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
					So(mf.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty options are given", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithConstLabels(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then the defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "userdir")
				So(manager.subsystem, ShouldEqual, "directory")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
				So(manager.constLabels, ShouldBeNil)
			})
		})
	})
}

func TestRecordOperation(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("When recording known operations", func() {
			So(manager.RecordOperation(OpCreate, "created"), ShouldBeNil)
			So(manager.RecordOperation(OpCreate, "created"), ShouldBeNil)
			So(manager.RecordOperation(OpCreate, "conflict"), ShouldBeNil)

			Convey("Then each outcome is counted separately", func() {
				So(testutil.ToFloat64(manager.operations.WithLabelValues(OpCreate, "created")), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.operations.WithLabelValues(OpCreate, "conflict")), ShouldEqual, 1)
			})
		})

		Convey("When recording an unknown operation", func() {
			err := manager.RecordOperation("rename", "ok")

			Convey("Then it should be rejected", func() {
				So(err, ShouldEqual, ErrUnknownOperation)
				So(testutil.CollectAndCount(manager.operations), ShouldEqual, 0)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("Then recording should not panic", func() {
			So(func() {
				_ = RecordOperation(OpLookup, "found")
				UpdateTotalUsers(3)
				RecordRepositoryQueryLatency(0.01)
				RecordRepositoryUpdateLatency(0.02)
				RecordHTTPRequest("user", "GET", "200")
				RecordHTTPRequestDuration("user", "GET", "200", 1.5)
				RecordErrorByType("not_found", "medium")
				RecordErrorByEndpoint("user", "GET", "not_found")
				RecordErrorLatency("http", "not_found", 0.4)
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
		})

		Convey("And the custom registry should expose them", func() {
			UpdateTotalUsers(3)
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)

			var names []string
			for _, mf := range families {
				names = append(names, mf.GetName())
			}
			So(strings.Join(names, ","), ShouldContainSubstring, "userdir_directory_users_total")
			So(strings.Join(names, ","), ShouldNotContainSubstring, "go_goroutines")
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent recorders", t, func() {
		manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = manager.RecordOperation(OpDelete, "deleted")
			}()
		}
		wg.Wait()

		Convey("Then no increments should be lost", func() {
			So(testutil.ToFloat64(manager.operations.WithLabelValues(OpDelete, "deleted")), ShouldEqual, 100)
		})
	})
}
