package units_test

import (
	"testing"

	registry "github.com/okian/gpscanon/internal/domain/registry"
	units "github.com/okian/gpscanon/internal/domain/units"
	. "github.com/smartystreets/goconvey/convey"
)

func TestConvert(t *testing.T) {
	Convey("Given the conversion tables", t, func() {
		Convey("When converting speeds", func() {
			v, err := units.Convert(18, "km/h", "m/s", registry.Speed)
			So(err, ShouldBeNil)
			So(v, ShouldAlmostEqual, 5.0, 0.0001)

			v, err = units.Convert(300, "m/min", "m/s", registry.Speed)
			So(err, ShouldBeNil)
			So(v, ShouldAlmostEqual, 5.0, 0.0001)
		})

		Convey("When converting distances", func() {
			v, err := units.Convert(1.5, "km", "m", registry.Distance)
			So(err, ShouldBeNil)
			So(v, ShouldAlmostEqual, 1500.0, 0.0001)

			v, err = units.Convert(100, "yd", "m", registry.Distance)
			So(err, ShouldBeNil)
			So(v, ShouldAlmostEqual, 91.44, 0.0001)
		})

		Convey("When converting times", func() {
			v, err := units.Convert(90, "min", "s", registry.Time)
			So(err, ShouldBeNil)
			So(v, ShouldAlmostEqual, 5400.0, 0.0001)
		})

		Convey("When converting percentages to ratios", func() {
			v, err := units.Convert(85, "%", "ratio", registry.Ratio)
			So(err, ShouldBeNil)
			So(v, ShouldAlmostEqual, 0.85, 0.0001)
		})

		Convey("When units match", func() {
			v, err := units.Convert(42, "m", "m", registry.Distance)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 42.0)
		})

		Convey("When unit casing differs", func() {
			v, err := units.Convert(18, "KM/H", "m/s", registry.Speed)
			So(err, ShouldBeNil)
			So(v, ShouldAlmostEqual, 5.0, 0.0001)
		})

		Convey("When a unit is unknown", func() {
			_, err := units.Convert(10, "furlongs", "m", registry.Distance)
			So(err, ShouldNotBeNil)
		})

		Convey("When a dimension has no table", func() {
			_, err := units.Convert(10, "a", "b", registry.Text)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestParseNumber(t *testing.T) {
	Convey("Given loose numeric cell formats", t, func() {
		Convey("Plain numbers parse", func() {
			v, ok := units.ParseNumber("123.45")
			So(ok, ShouldBeTrue)
			So(v, ShouldAlmostEqual, 123.45, 0.0001)
		})

		Convey("Comma decimal separators parse", func() {
			v, ok := units.ParseNumber("123,45")
			So(ok, ShouldBeTrue)
			So(v, ShouldAlmostEqual, 123.45, 0.0001)
		})

		Convey("Embedded spaces are tolerated", func() {
			v, ok := units.ParseNumber(" 1 234.5 ")
			So(ok, ShouldBeTrue)
			So(v, ShouldAlmostEqual, 1234.5, 0.0001)
		})

		Convey("Empty and non-numeric input fail", func() {
			_, ok := units.ParseNumber("")
			So(ok, ShouldBeFalse)

			_, ok = units.ParseNumber("n/a")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestParseClockMinutes(t *testing.T) {
	Convey("Given playing time cell formats", t, func() {
		Convey("H:MM:SS clock strings parse into minutes", func() {
			v, ok := units.ParseClockMinutes("01:20:00")
			So(ok, ShouldBeTrue)
			So(v, ShouldAlmostEqual, 80.0, 0.0001)

			v, ok = units.ParseClockMinutes("0:45:30")
			So(ok, ShouldBeTrue)
			So(v, ShouldAlmostEqual, 45.5, 0.0001)
		})

		Convey("H:MM clock strings parse into minutes", func() {
			v, ok := units.ParseClockMinutes("1:30")
			So(ok, ShouldBeTrue)
			So(v, ShouldAlmostEqual, 90.0, 0.0001)
		})

		Convey("Plain numbers pass through as minutes", func() {
			v, ok := units.ParseClockMinutes("87.5")
			So(ok, ShouldBeTrue)
			So(v, ShouldAlmostEqual, 87.5, 0.0001)
		})

		Convey("Garbage fails", func() {
			_, ok := units.ParseClockMinutes("full match")
			So(ok, ShouldBeFalse)

			_, ok = units.ParseClockMinutes("")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestGuessFromHeader(t *testing.T) {
	Convey("Given vendor column headers", t, func() {
		Convey("Parenthesized units are extracted", func() {
			So(units.GuessFromHeader("Max Speed (km/h)"), ShouldEqual, "km/h")
			So(units.GuessFromHeader("Total Distance (m)"), ShouldEqual, "m")
		})

		Convey("Percent suffix means percent", func() {
			So(units.GuessFromHeader("HSR%"), ShouldEqual, "%")
		})

		Convey("Headers without units yield nothing", func() {
			So(units.GuessFromHeader("Player"), ShouldEqual, "")
			So(units.GuessFromHeader(""), ShouldEqual, "")
		})
	})
}
