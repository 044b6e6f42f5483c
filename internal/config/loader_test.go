package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/algomate/insights/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoadDefaults(t *testing.T) {
	Convey("Given no configuration sources", t, func() {
		Convey("When loading", func() {
			cfg, err := config.Load(context.Background())

			Convey("Then the defaults should apply", func() {
				So(err, ShouldBeNil)
				So(cfg.LogLevel, ShouldEqual, "info")
				So(cfg.WindowDays, ShouldEqual, 365)
				So(cfg.RecommendationLimit, ShouldEqual, 6)
				So(cfg.FastRuntimeMS, ShouldEqual, 100)
				So(cfg.QueueSize, ShouldEqual, 1024)
				So(cfg.SnapshotShardCount, ShouldEqual, 8)
				So(cfg.DumpMetrics, ShouldBeFalse)
			})
		})
	})
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ALGOMATE_WINDOW_DAYS", "30")
	t.Setenv("ALGOMATE_LOG_LEVEL", "debug")
	t.Setenv("ALGOMATE_INPUT_PATH", "/tmp/payloads")

	Convey("Given environment overrides", t, func() {
		Convey("When loading", func() {
			cfg, err := config.Load(context.Background())

			Convey("Then the overrides should win over the defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.WindowDays, ShouldEqual, 30)
				So(cfg.LogLevel, ShouldEqual, "debug")
				So(cfg.InputPath, ShouldEqual, "/tmp/payloads")
				So(cfg.RecommendationLimit, ShouldEqual, 6)
			})
		})
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "window_days: 90\nrecommendation_limit: 3\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ALGOMATE_CONFIG", path)

	Convey("Given a YAML config file", t, func() {
		Convey("When loading", func() {
			cfg, err := config.Load(context.Background())

			Convey("Then file values should override the defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.WindowDays, ShouldEqual, 90)
				So(cfg.RecommendationLimit, ShouldEqual, 3)
			})
		})
	})
}

func TestLoadFileWithEnvOnTop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "window_days: 90\nrecommendation_limit: 3\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ALGOMATE_CONFIG", path)
	t.Setenv("ALGOMATE_WINDOW_DAYS", "14")

	Convey("Given a config file and an env var for the same key", t, func() {
		Convey("When loading", func() {
			cfg, err := config.Load(context.Background())

			Convey("Then the env var should win", func() {
				So(err, ShouldBeNil)
				So(cfg.WindowDays, ShouldEqual, 14)
				So(cfg.RecommendationLimit, ShouldEqual, 3)
			})
		})
	})
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("ALGOMATE_WINDOW_DAYS", "0")

	Convey("Given a non-positive window override", t, func() {
		Convey("When loading", func() {
			_, err := config.Load(context.Background())

			Convey("Then loading should fail with an invalid-config error", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("ALGOMATE_CONFIG", "/nonexistent/config.yaml")

	Convey("Given a config file path that does not exist", t, func() {
		Convey("When loading", func() {
			_, err := config.Load(context.Background())

			Convey("Then loading should fail with a load error", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
			})
		})
	})
}
