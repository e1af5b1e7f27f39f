// Package config holds the process configuration of the API server.
package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"

	TestModeReal = "real"
	TestModeTest = "test"
)

// Config contains process configuration. Keys are flat so that each maps to
// a single TRAVEL_ environment variable.
type Config struct {
	// Port the HTTP server listens on.
	Port string `koanf:"port"`

	// TestMode selects the real or the test database: "real" or "test".
	TestMode string `koanf:"test_mode"`

	LogLevel       string `koanf:"log_level"`
	LogDevelopment bool   `koanf:"log_development"`

	// DBDriver is one of postgres, mysql, sqlite.
	DBDriver          string        `koanf:"db_driver"`
	DBHost            string        `koanf:"db_host"`
	DBPort            int           `koanf:"db_port"`
	DBUsername        string        `koanf:"db_username"`
	DBPassword        string        `koanf:"db_password"`
	DBName            string        `koanf:"db_name"`
	DBSSLMode         string        `koanf:"db_sslmode"`
	DBMaxOpenConns    int           `koanf:"db_max_open_conns"`
	DBMaxIdleConns    int           `koanf:"db_max_idle_conns"`
	DBConnMaxLifetime time.Duration `koanf:"db_conn_max_lifetime"`

	// CORSAllowedOrigins is a comma separated list.
	CORSAllowedOrigins string `koanf:"cors_allowed_origins"`
}

// New returns a Config filled with defaults.
func New() *Config {
	return &Config{
		Port:               "80",
		TestMode:           TestModeReal,
		LogLevel:           "info",
		DBDriver:           DriverPostgres,
		DBHost:             "localhost",
		DBPort:             5432,
		DBName:             "destination_db",
		DBSSLMode:          "disable",
		DBMaxOpenConns:     25,
		DBMaxIdleConns:     25,
		DBConnMaxLifetime:  5 * time.Minute,
		CORSAllowedOrigins: "*",
	}
}

// DatabaseName is the name of the database to connect to. In test mode the
// server works on a separate database with the _test suffix; for sqlite the
// name is a file path and is used as is.
func (c *Config) DatabaseName() string {
	if c.TestMode == TestModeTest && c.DBDriver != DriverSQLite {
		return c.DBName + "_test"
	}
	return c.DBName
}

func (c *Config) IsTestMode() bool {
	return c.TestMode == TestModeTest
}

func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSAllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("%w: port must not be empty", ErrInvalidConfig)
	}
	if c.TestMode != TestModeReal && c.TestMode != TestModeTest {
		return fmt.Errorf("%w: %q", ErrInvalidTestMode, c.TestMode)
	}
	switch c.DBDriver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("%w: unknown db driver %q", ErrInvalidConfig, c.DBDriver)
	}
	if c.DBName == "" {
		return fmt.Errorf("%w: db name must not be empty", ErrInvalidConfig)
	}
	return nil
}
