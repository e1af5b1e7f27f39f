package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"destination-travel-api/config"

	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	"TRAVEL_CONFIG",
	"TRAVEL_ENV_FILE",
	"TRAVEL_PORT",
	"TRAVEL_TEST_MODE",
	"TRAVEL_LOG_LEVEL",
	"TRAVEL_DB_DRIVER",
	"TRAVEL_DB_HOST",
	"TRAVEL_DB_PORT",
	"TRAVEL_DB_USERNAME",
	"TRAVEL_DB_PASSWORD",
	"TRAVEL_DB_NAME",
	"TRAVEL_DB_CONN_MAX_LIFETIME",
	"TRAVEL_CORS_ALLOWED_ORIGINS",
}

func clearConfigEnvVars() {
	for _, key := range configEnvVars {
		_ = os.Unsetenv(key)
	}
}

func writeTempFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		clearConfigEnvVars()
		// keep a stray .env in the working directory out of the way
		_ = os.Setenv("TRAVEL_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load()

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, "80")
				convey.So(cfg.TestMode, convey.ShouldEqual, config.TestModeReal)
				convey.So(cfg.DBDriver, convey.ShouldEqual, config.DriverPostgres)
				convey.So(cfg.DBPort, convey.ShouldEqual, 5432)
				convey.So(cfg.DBConnMaxLifetime, convey.ShouldEqual, 5*time.Minute)
				convey.So(cfg.DatabaseName(), convey.ShouldEqual, "destination_db")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("TRAVEL_PORT", "8080")
			_ = os.Setenv("TRAVEL_TEST_MODE", "test")
			_ = os.Setenv("TRAVEL_DB_DRIVER", "mysql")
			_ = os.Setenv("TRAVEL_DB_PORT", "3306")
			_ = os.Setenv("TRAVEL_DB_CONN_MAX_LIFETIME", "90s")

			cfg, err := config.Load()

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, "8080")
				convey.So(cfg.IsTestMode(), convey.ShouldBeTrue)
				convey.So(cfg.DBDriver, convey.ShouldEqual, config.DriverMySQL)
				convey.So(cfg.DBPort, convey.ShouldEqual, 3306)
				convey.So(cfg.DBConnMaxLifetime, convey.ShouldEqual, 90*time.Second)
				convey.So(cfg.DatabaseName(), convey.ShouldEqual, "destination_db_test")
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			path := writeTempFile(t, "config.yaml", `
port: "9090"
db_driver: sqlite
db_name: ":memory:"
cors_allowed_origins: "http://localhost:4200, http://localhost:3000"
`)
			_ = os.Setenv("TRAVEL_CONFIG", path)

			cfg, err := config.Load()

			convey.Convey("Then it should load from the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, "9090")
				convey.So(cfg.DBDriver, convey.ShouldEqual, config.DriverSQLite)
				convey.So(cfg.DatabaseName(), convey.ShouldEqual, ":memory:")
				convey.So(cfg.AllowedOrigins(), convey.ShouldResemble, []string{"http://localhost:4200", "http://localhost:3000"})
			})

			convey.Convey("And env vars take precedence over the file", func() {
				_ = os.Setenv("TRAVEL_PORT", "7070")

				cfg, err := config.Load()
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, "7070")
			})
		})

		convey.Convey("When a .env file is present", func() {
			path := writeTempFile(t, "test.env", "TRAVEL_DB_USERNAME=traveller\nTRAVEL_DB_PASSWORD=secret\n")
			_ = os.Setenv("TRAVEL_ENV_FILE", path)

			cfg, err := config.Load()

			convey.Convey("Then its values are loaded", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DBUsername, convey.ShouldEqual, "traveller")
				convey.So(cfg.DBPassword, convey.ShouldEqual, "secret")
			})
		})

		convey.Convey("When the test mode is unknown", func() {
			_ = os.Setenv("TRAVEL_TEST_MODE", "staging")

			_, err := config.Load()

			convey.Convey("Then loading fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidTestMode), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the driver is unknown", func() {
			_ = os.Setenv("TRAVEL_DB_DRIVER", "oracle")

			_, err := config.Load()

			convey.Convey("Then loading fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("TRAVEL_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

			_, err := config.Load()

			convey.Convey("Then loading fails", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New()

		convey.Convey("Then it validates", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
			convey.So(cfg.AllowedOrigins(), convey.ShouldResemble, []string{"*"})
		})

		convey.Convey("Then sqlite names are never suffixed", func() {
			cfg.DBDriver = config.DriverSQLite
			cfg.TestMode = config.TestModeTest
			cfg.DBName = "destinations.db"
			convey.So(cfg.DatabaseName(), convey.ShouldEqual, "destinations.db")
		})
	})
}
