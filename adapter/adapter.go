// Package adapter wires a dialect/sql Driver and a schema Migrator from a
// configuration.
package adapter

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/syssam/odbcadapter/config"
	"github.com/syssam/odbcadapter/dialect"
	dsql "github.com/syssam/odbcadapter/dialect/sql"
	"github.com/syssam/odbcadapter/dialect/sql/schema"
)

// Adapter is a configured connection: statement execution, quoting and
// migrations for one dialect.
type Adapter struct {
	*dsql.Driver
	Migrator *schema.Migrator
	// Stats is nil unless the configuration sets a slow threshold.
	Stats *dsql.QueryStats
}

// Open opens cfg.Driver with cfg.DSN and returns an Adapter on one of
// its connections.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Adapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, stats, err := Options(cfg, logger)
	if err != nil {
		return nil, err
	}
	drv, err := dsql.Open(ctx, cfg.Driver, cfg.DSN, opts...)
	if err != nil {
		return nil, err
	}
	return newAdapter(drv, cfg, stats, logger), nil
}

// OpenDB is like Open but borrows the connection from db.
func OpenDB(ctx context.Context, db *sql.DB, cfg *config.Config, logger *slog.Logger) (*Adapter, error) {
	opts, stats, err := Options(cfg, logger)
	if err != nil {
		return nil, err
	}
	drv, err := dsql.OpenDB(ctx, db, opts...)
	if err != nil {
		return nil, err
	}
	return newAdapter(drv, cfg, stats, logger), nil
}

func newAdapter(drv *dsql.Driver, cfg *config.Config, stats *dsql.QueryStats, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	opts := []schema.Option{schema.WithLogger(logger)}
	if cfg.ColumnCacheTTL > 0 {
		opts = append(opts, schema.WithColumnCache(schema.NewMemoryCache(), cfg.ColumnCacheTTL))
	}
	return &Adapter{
		Driver:   drv,
		Migrator: schema.NewMigrator(drv, opts...),
		Stats:    stats,
	}
}

// Options translates cfg into Driver options.
func Options(cfg *config.Config, logger *slog.Logger) ([]dsql.Option, *dsql.QueryStats, error) {
	if logger == nil {
		logger = slog.Default()
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}
	opts := []dsql.Option{
		dsql.WithDialect(cfg.Dialect),
		dsql.WithLocation(loc),
		dsql.WithLogger(logger),
		dsql.WithRewriteFlags(cfg.Rewrite.Flags()),
	}
	if cfg.PreparedStatements != nil {
		opts = append(opts, dsql.WithPreparedStatements(*cfg.PreparedStatements))
	}
	if cfg.Identifiers.Quote != nil || cfg.Identifiers.Upcase != nil {
		t := dialect.TraitsOf(cfg.Dialect)
		md := dsql.Metadata{IdentifierQuote: t.IdentifierQuote, UpcaseIdentifiers: t.UpcaseIdentifiers}
		if cfg.Identifiers.Quote != nil {
			md.IdentifierQuote = *cfg.Identifiers.Quote
		}
		if cfg.Identifiers.Upcase != nil {
			md.UpcaseIdentifiers = *cfg.Identifiers.Upcase
		}
		opts = append(opts, dsql.WithMetadata(dsql.StaticMetadata(md)))
	}
	var stats *dsql.QueryStats
	if cfg.SlowThreshold > 0 {
		stats = &dsql.QueryStats{}
		opts = append(opts, dsql.WithStats(stats,
			dsql.WithSlowThreshold(cfg.SlowThreshold),
			dsql.WithSlowQueryLog(logger),
		))
	}
	return opts, stats, nil
}

// Migrate applies migration operations.
func (a *Adapter) Migrate(ctx context.Context, ops ...schema.Op) error {
	return a.Migrator.Apply(ctx, ops...)
}

// SupportsMigrations reports whether the dialect supports migrations.
func (a *Adapter) SupportsMigrations() bool {
	return a.Migrator.Adapter().SupportsMigrations
}

// DefaultSequenceName returns the sequence name used for table.
func (a *Adapter) DefaultSequenceName(table, column string) string {
	return dsql.DefaultSequenceName(table, column)
}
