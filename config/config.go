package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/syssam/odbcadapter/dialect"
	"github.com/syssam/odbcadapter/dialect/sql"
)

// Timezones accepted by Config.Timezone.
const (
	TimezoneUTC   = "utc"
	TimezoneLocal = "local"
)

// Config represents the connection configuration.
type Config struct {
	// Driver is the database/sql driver name, e.g. "mysql", "pgx", "sqlite".
	Driver string `mapstructure:"driver" yaml:"driver"`
	// DSN is the driver data source name.
	DSN string `mapstructure:"dsn" yaml:"dsn,omitempty"`
	// Dialect selects the dialect behavior, "dm" or "null".
	Dialect string `mapstructure:"dialect" yaml:"dialect"`
	// PreparedStatements overrides the dialect's prepared statement mode.
	PreparedStatements *bool `mapstructure:"prepared_statements" yaml:"prepared_statements,omitempty"`
	// Timezone is the zone times are quoted in, "utc" or "local".
	Timezone string `mapstructure:"timezone" yaml:"timezone"`
	// Identifiers overrides the identifier metadata of the dialect.
	Identifiers Identifiers `mapstructure:"identifiers" yaml:"identifiers"`
	// Rewrite toggles the statement rewrite rules.
	Rewrite Rewrite `mapstructure:"rewrite" yaml:"rewrite,omitempty"`
	// SlowThreshold is the duration above which statements are logged as slow.
	// Zero disables statistics collection.
	SlowThreshold time.Duration `mapstructure:"slow_threshold" yaml:"slow_threshold"`
	// ColumnCacheTTL is how long migrations remember column lookups.
	// Zero disables the column cache.
	ColumnCacheTTL time.Duration `mapstructure:"column_cache_ttl" yaml:"column_cache_ttl,omitempty"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// Identifiers holds identifier metadata overrides.
type Identifiers struct {
	Quote  *string `mapstructure:"quote" yaml:"quote,omitempty"`
	Upcase *bool   `mapstructure:"upcase" yaml:"upcase,omitempty"`
}

// Rewrite holds the rewrite rule switches. An unset switch leaves its
// rule on.
type Rewrite struct {
	ForUpdateCommit *bool `mapstructure:"for_update_commit" yaml:"for_update_commit,omitempty"`
	IdentityInsert  *bool `mapstructure:"identity_insert" yaml:"identity_insert,omitempty"`
	DecomposeModify *bool `mapstructure:"decompose_modify" yaml:"decompose_modify,omitempty"`
}

// Flags returns the rewrite rules to enable.
func (r Rewrite) Flags() sql.RewriteFlags {
	return sql.RewriteFlags{
		ForUpdateCommit: on(r.ForUpdateCommit),
		IdentityInsert:  on(r.IdentityInsert),
		DecomposeModify: on(r.DecomposeModify),
	}
}

func on(b *bool) bool { return b == nil || *b }

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Dialect:  dialect.Null,
		Timezone: TimezoneUTC,
		LogLevel: "info",
	}
}

// Location returns the time location selected by Timezone.
func (c *Config) Location() (*time.Location, error) {
	switch strings.ToLower(c.Timezone) {
	case "", TimezoneUTC:
		return time.UTC, nil
	case TimezoneLocal:
		return time.Local, nil
	default:
		return nil, fmt.Errorf("config: unknown timezone %q, expect %q or %q", c.Timezone, TimezoneUTC, TimezoneLocal)
	}
}

// Level returns the slog level selected by LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log level: %w", err)
	}
	return l, nil
}

// Validate reports configuration errors.
func (c *Config) Validate() error {
	if c.Driver == "" {
		return fmt.Errorf("config: driver is required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Redacted returns a copy of c safe for display: the DSN is hidden.
func (c *Config) Redacted() *Config {
	cp := *c
	if cp.DSN != "" {
		cp.DSN = "<redacted>"
	}
	return &cp
}
