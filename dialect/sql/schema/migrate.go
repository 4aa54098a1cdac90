package schema

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/syssam/odbcadapter/dialect/sql"
)

// Driver is the connection a Migrator runs statements through.
// *sql.Driver implements it.
type Driver interface {
	Querier
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Dialect() string
	Quoter() *sql.Quoter
	Rewriter() *sql.Rewriter
	CaseConvention() sql.CaseConvention
}

// Migrator applies migration operations with the dialect's DDL.
type Migrator struct {
	drv       Driver
	adapter   *Adapter
	resolver  ColumnResolver
	logger    *slog.Logger
	validates []ValidateOption
	cache     Cache
	cacheTTL  time.Duration
}

// Option configures a Migrator.
type Option func(*Migrator)

// WithAdapter overrides the adapter picked from the driver's dialect.
func WithAdapter(a *Adapter) Option {
	return func(m *Migrator) {
		m.adapter = a
	}
}

// WithResolver sets how existing columns are looked up. Default is an
// InformationSchemaResolver on the driver.
func WithResolver(r ColumnResolver) Option {
	return func(m *Migrator) {
		m.resolver = r
	}
}

// WithColumnCache caches column lookups in c for ttl, 0 meaning until the
// table is changed by the Migrator.
func WithColumnCache(c Cache, ttl time.Duration) Option {
	return func(m *Migrator) {
		m.cache, m.cacheTTL = c, ttl
	}
}

// WithLogger sets the logger receiving validation warnings.
func WithLogger(l *slog.Logger) Option {
	return func(m *Migrator) {
		m.logger = l
	}
}

// WithValidateOptions sets the options used to validate operations.
func WithValidateOptions(opts ...ValidateOption) Option {
	return func(m *Migrator) {
		m.validates = opts
	}
}

// NewMigrator returns a Migrator running statements through drv.
func NewMigrator(drv Driver, opts ...Option) *Migrator {
	m := &Migrator{
		drv:    drv,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.adapter == nil {
		m.adapter = For(drv.Dialect())
	}
	if m.resolver == nil {
		m.resolver = &InformationSchemaResolver{
			Querier: drv,
			Quoter:  drv.Quoter(),
			Case:    drv.CaseConvention(),
		}
	}
	if m.cache != nil {
		m.resolver = &CachedResolver{
			Resolver: m.resolver,
			Cache:    m.cache,
			Dialect:  m.adapter.Name,
			TTL:      m.cacheTTL,
		}
	}
	return m
}

// Adapter returns the dialect adapter in use.
func (m *Migrator) Adapter() *Adapter { return m.adapter }

// Statement renders op for the dialect. Changing a column without a
// default carries the column's current default over, which needs a
// catalog lookup.
func (m *Migrator) Statement(ctx context.Context, op Op) (string, error) {
	if cc, ok := op.(ChangeColumn); ok && m.adapter.IncludesDefault != nil {
		if !m.adapter.IncludesDefault(&cc.Options) {
			col, err := m.resolver.Column(ctx, cc.Table, cc.Column)
			if err != nil {
				return "", fmt.Errorf("dialect/sql/schema: change column %s.%s: %w", cc.Table, cc.Column, err)
			}
			cc.Options = cc.Options.WithDefault(col.Default)
			if cc.Options.NativeType == "" {
				cc.Options.NativeType = col.NativeType
			}
		}
		op = cc
	}
	return m.adapter.Statement(m.drv.Quoter(), op)
}

// Plan returns the statements the driver would execute for ops, after
// rewriting and decomposition, without executing them.
func (m *Migrator) Plan(ctx context.Context, ops ...Op) ([]string, error) {
	if err := m.validate(ctx, ops); err != nil {
		return nil, err
	}
	var plan []string
	for _, op := range ops {
		stmt, err := m.Statement(ctx, op)
		if err != nil {
			return nil, err
		}
		plan = append(plan, m.drv.Rewriter().Rewrite(stmt)...)
	}
	return plan, nil
}

// Apply validates ops and executes them in order. It stops at the first
// failing operation; operations and decomposition steps executed before
// it are not undone.
func (m *Migrator) Apply(ctx context.Context, ops ...Op) error {
	if err := m.validate(ctx, ops); err != nil {
		return err
	}
	for _, op := range ops {
		stmt, err := m.Statement(ctx, op)
		if err != nil {
			return err
		}
		_, err = m.drv.Exec(ctx, stmt)
		if ierr := m.invalidate(ctx, op); err == nil {
			err = ierr
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// invalidate drops cached columns of the tables op changed.
func (m *Migrator) invalidate(ctx context.Context, op Op) error {
	inv, ok := m.resolver.(interface {
		Invalidate(ctx context.Context, table string) error
	})
	if !ok {
		return nil
	}
	tables := []string{op.TableName()}
	if rt, ok := op.(RenameTable); ok {
		tables = append(tables, rt.NewName)
	}
	for _, t := range tables {
		if err := inv.Invalidate(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (m *Migrator) validate(ctx context.Context, ops []Op) error {
	result := ValidateOps(ops, m.validates...)
	for _, w := range result.Warnings {
		m.logger.WarnContext(ctx, "migration warning", "op", w.Op, "table", w.Table, "column", w.Column, "message", w.Message, "breaking", w.Breaking)
	}
	return result.Err()
}
