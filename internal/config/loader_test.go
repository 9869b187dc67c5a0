package config

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fbmetrics.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	Convey("Given no config file and no environment overrides", t, func() {
		t.Setenv(EnvConfigPath, "")
		cfg, err := Load("")

		Convey("Defaults are returned", func() {
			So(err, ShouldBeNil)
			So(cfg.CompetitionID, ShouldEqual, 55)
			So(cfg.SeasonID, ShouldEqual, 282)
			So(cfg.MinMinutes, ShouldEqual, 90)
			So(cfg.FinalThirdX, ShouldEqual, 80)
			So(cfg.Grid.Cols, ShouldEqual, 12)
			So(cfg.Grid.Rows, ShouldEqual, 8)
			So(cfg.Progressive.Zones, ShouldHaveLength, 3)
			So(cfg.Progressive.Zones[0], ShouldResemble, ProgressiveZone{UpToX: 40, MinAdvance: 30})
		})
	})

	Convey("Given a YAML file", t, func() {
		path := writeYAML(t, `
min_minutes: 180
grid:
  cols: 6
  rows: 4
progressive:
  zones:
    - up_to_x: 60
      min_advance: 20
    - up_to_x: 120
      min_advance: 8
`)

		Convey("File values override defaults", func() {
			cfg, err := Load(path)
			So(err, ShouldBeNil)
			So(cfg.MinMinutes, ShouldEqual, 180)
			So(cfg.Grid.Cols, ShouldEqual, 6)
			So(cfg.Grid.Rows, ShouldEqual, 4)
			So(cfg.Progressive.Zones, ShouldResemble, []ProgressiveZone{
				{UpToX: 60, MinAdvance: 20},
				{UpToX: 120, MinAdvance: 8},
			})
			So(cfg.Pitch.Length, ShouldEqual, 120)
		})

		Convey("Environment overrides the file", func() {
			t.Setenv("FBM_MIN_MINUTES", "45")
			t.Setenv("FBM_GRID__COLS", "10")
			cfg, err := Load(path)
			So(err, ShouldBeNil)
			So(cfg.MinMinutes, ShouldEqual, 45)
			So(cfg.Grid.Cols, ShouldEqual, 10)
			So(cfg.Grid.Rows, ShouldEqual, 4)
		})

		Convey("FBM_CONFIG is used when no path is given", func() {
			t.Setenv(EnvConfigPath, path)
			cfg, err := Load("")
			So(err, ShouldBeNil)
			So(cfg.MinMinutes, ShouldEqual, 180)
		})
	})

	Convey("Given a missing file", t, func() {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		So(err, ShouldNotBeNil)
	})
}

func TestValidate(t *testing.T) {
	Convey("Validate", t, func() {
		Convey("accepts defaults", func() {
			So(New().Validate(), ShouldBeNil)
		})

		Convey("rejects a zero grid", func() {
			cfg := New()
			cfg.Grid.Cols = 0
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("rejects unordered progressive zones", func() {
			cfg := New()
			cfg.Progressive.Zones = []ProgressiveZone{{UpToX: 80, MinAdvance: 15}, {UpToX: 40, MinAdvance: 30}}
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("rejects a final third outside the pitch", func() {
			cfg := New()
			cfg.FinalThirdX = 130
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("restores a non-positive fetch concurrency", func() {
			cfg := New()
			cfg.FetchConcurrency = 0
			So(cfg.Validate(), ShouldBeNil)
			So(cfg.FetchConcurrency, ShouldEqual, defaultFetchConcurrency)
		})
	})
}
