package registry_test

import (
	"testing"

	registry "github.com/okian/gpscanon/internal/domain/registry"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	Convey("Given metric definitions", t, func() {
		defs := []registry.MetricDefinition{
			{Key: "total_distance_m", Label: "Total distance (m)", Dimension: registry.Distance, PlausibleMax: 50000, Averageable: true},
			{Key: "athlete_name", Label: "Athlete name", Dimension: registry.Identity},
		}

		Convey("When building a registry", func() {
			r, err := registry.New("1.0.0", defs)

			Convey("Then it should expose the definitions", func() {
				So(err, ShouldBeNil)
				So(r.Version(), ShouldEqual, "1.0.0")
				So(r.Len(), ShouldEqual, 2)

				def, ok := r.Lookup("total_distance_m")
				So(ok, ShouldBeTrue)
				So(def.Dimension, ShouldEqual, registry.Distance)
				So(def.Averageable, ShouldBeTrue)
			})

			Convey("Then dimension defaults fill missing units", func() {
				def, _ := r.Lookup("total_distance_m")
				So(def.Unit, ShouldEqual, "m")

				name, _ := r.Lookup("athlete_name")
				So(name.Unit, ShouldEqual, "text")
				So(name.IsIdentity(), ShouldBeTrue)
				So(name.IsNumeric(), ShouldBeFalse)
			})
		})

		Convey("When the version is empty", func() {
			_, err := registry.New("", defs)

			Convey("Then construction fails", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When a key is duplicated", func() {
			dup := append(defs, registry.MetricDefinition{Key: "total_distance_m", Dimension: registry.Distance})
			_, err := registry.New("1.0.0", dup)

			Convey("Then construction fails", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When a dimension is unknown", func() {
			bad := []registry.MetricDefinition{{Key: "x", Dimension: registry.Dimension("volume")}}
			_, err := registry.New("1.0.0", bad)

			Convey("Then construction fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestDefault(t *testing.T) {
	Convey("Given the shipped reference registry", t, func() {
		r := registry.Default()

		Convey("Then it carries the expected version", func() {
			So(r.Version(), ShouldEqual, registry.DefaultVersion)
			So(r.Len(), ShouldBeGreaterThan, 50)
		})

		Convey("Then core metrics resolve", func() {
			minutes, ok := r.Lookup("minutes_played")
			So(ok, ShouldBeTrue)
			So(minutes.Unit, ShouldEqual, "min")
			So(minutes.Dimension, ShouldEqual, registry.Time)

			speed, ok := r.Lookup("max_speed_kmh")
			So(ok, ShouldBeTrue)
			So(speed.Unit, ShouldEqual, "km/h")

			ratio, ok := r.Lookup("hsr_ratio")
			So(ok, ShouldBeTrue)
			So(ratio.Dimension, ShouldEqual, registry.Ratio)
		})

		Convey("Then averageable keys cover the volume metrics", func() {
			keys := r.AverageableKeys()
			So(keys, ShouldContain, "total_distance_m")
			So(keys, ShouldContain, "sprint_distance_m")
			So(keys, ShouldNotContain, "athlete_name")
			So(keys, ShouldNotContain, "max_speed_kmh")
		})

		Convey("Then canonical units are reported per dimension", func() {
			units := r.CanonicalUnits()
			So(units["distance"], ShouldEqual, "m")
			So(units["speed"], ShouldEqual, "m/s")
			So(units["ratio"], ShouldEqual, "ratio")
		})
	})
}

func TestAudit(t *testing.T) {
	Convey("Given a small reference registry", t, func() {
		r, err := registry.New("1.0.0", []registry.MetricDefinition{
			{Key: "total_distance_m", Label: "Total distance (m)", Dimension: registry.Distance},
			{Key: "max_speed_ms", Label: "Max speed (m/s)", Dimension: registry.Speed},
			{Key: "minutes_played", Label: "Minutes played", Dimension: registry.Time, Unit: "min"},
		})
		So(err, ShouldBeNil)

		Convey("When exporting", func() {
			exported := r.Export()

			Convey("Then every metric appears in order", func() {
				So(exported.Version, ShouldEqual, "1.0.0")
				So(exported.Metrics, ShouldHaveLength, 3)
				So(exported.Metrics[0].Key, ShouldEqual, "total_distance_m")
				So(exported.Metrics[0].Unit, ShouldEqual, "m")
			})
		})

		Convey("When auditing an identical live registry", func() {
			report := r.Audit(r.Export().Metrics)

			Convey("Then everything is ok", func() {
				So(report.OK, ShouldHaveLength, 3)
				So(report.Mismatches, ShouldBeEmpty)
				So(report.Missing, ShouldBeEmpty)
				So(report.Extra, ShouldBeEmpty)
				So(report.Duplicates, ShouldBeEmpty)
			})
		})

		Convey("When the live registry diverges", func() {
			live := []registry.ReferenceRow{
				{Key: "total_distance_m", Label: "Total distance (m)", Dimension: "distance", Unit: "m"},
				{Key: "max_speed_ms", Label: "Max speed (m/s)", Dimension: "speed", Unit: "km/h"},
				{Key: "sprint_count", Label: "Sprints", Dimension: "count", Unit: "count"},
				{Key: "sprint_count", Label: "Sprints", Dimension: "count", Unit: "count"},
			}
			report := r.Audit(live)

			Convey("Then each key is classified", func() {
				So(report.OK, ShouldHaveLength, 1)
				So(report.OK[0].Key, ShouldEqual, "total_distance_m")

				So(report.Mismatches, ShouldHaveLength, 1)
				So(report.Mismatches[0].Key, ShouldEqual, "max_speed_ms")
				So(report.Mismatches[0].Differences, ShouldHaveLength, 1)

				So(report.Missing, ShouldHaveLength, 1)
				So(report.Missing[0].Key, ShouldEqual, "minutes_played")

				So(report.Extra, ShouldHaveLength, 1)
				So(report.Extra[0].Key, ShouldEqual, "sprint_count")

				So(report.Duplicates, ShouldHaveLength, 1)
				So(report.Duplicates[0].Count, ShouldEqual, 2)
			})
		})
	})
}
