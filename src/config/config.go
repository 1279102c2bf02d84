// Package config provides configuration management for the findchannel service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported record store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Defaults used when the environment leaves a setting empty.
const (
	DefaultDriver       = DriverSQLite
	DefaultDSN          = "findchannel.db"
	DefaultQueryTimeout = 5 * time.Second
	DefaultDelimiter    = ","
)

// Config holds the application configuration.
type Config struct {
	// SwitchName scopes queries to channels owned by this instance.
	SwitchName string
	// Driver selects the record store backend.
	Driver string
	// DSN is the data source name handed to the driver.
	DSN string
	// QueryTimeout bounds handle acquisition plus the records query.
	QueryTimeout time.Duration
	// Delimiter separates fields of a matched row.
	Delimiter string
	// Verbose enables the per-row Compare trace.
	Verbose bool
	// Brokers lists Redpanda seed brokers. Empty selects the in-memory broker.
	Brokers []string
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		SwitchName:   os.Getenv("FINDCHANNEL_SWITCHNAME"),
		Driver:       envOr("FINDCHANNEL_DB_DRIVER", DefaultDriver),
		DSN:          envOr("FINDCHANNEL_DSN", DefaultDSN),
		QueryTimeout: DefaultQueryTimeout,
		Delimiter:    envOr("FINDCHANNEL_DELIMITER", DefaultDelimiter),
		Brokers:      splitList(os.Getenv("REDPANDA_BROKERS")),
	}

	if cfg.SwitchName == "" {
		host, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("FINDCHANNEL_SWITCHNAME is unset and hostname lookup failed: %w", err)
		}
		cfg.SwitchName = host
	}

	if v := os.Getenv("FINDCHANNEL_QUERY_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid FINDCHANNEL_QUERY_TIMEOUT %q: %w", v, err)
		}
		cfg.QueryTimeout = d
	}

	if v := os.Getenv("FINDCHANNEL_VERBOSE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid FINDCHANNEL_VERBOSE %q: %w", v, err)
		}
		cfg.Verbose = b
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoadFromEnv loads configuration from environment variables and panics on error.
func MustLoadFromEnv() *Config {
	cfg, err := LoadFromEnv()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// Validate checks the settings that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverSQLite, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unsupported FINDCHANNEL_DB_DRIVER %q (want sqlite, postgres or memory)", c.Driver)
	}
	if c.Driver != DriverMemory && c.DSN == "" {
		return fmt.Errorf("FINDCHANNEL_DSN is required for driver %s", c.Driver)
	}
	if c.QueryTimeout <= 0 {
		return fmt.Errorf("query timeout must be positive, got %s", c.QueryTimeout)
	}
	if c.Delimiter == "" {
		return fmt.Errorf("delimiter must not be empty")
	}
	return nil
}

// UseRedpanda reports whether a distributed broker is configured.
func (c *Config) UseRedpanda() bool {
	return len(c.Brokers) > 0
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
