package sql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/syssam/odbcadapter"
	"github.com/syssam/odbcadapter/dialect"
)

// ExecQuerier wraps the standard Exec and Query methods. It is the generic
// connector this package executes statements through; *sql.DB, *sql.Conn
// and *sql.Tx implement it.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Conn executes statements through an ExecQuerier, rewriting them for the
// dialect on the way in and normalizing results on the way out.
//
// Conn does no locking. A connection must be used by one goroutine at a time.
type Conn struct {
	ExecQuerier
	// Rewriter rewrites statements before execution. Nil applies all rules.
	Rewriter *Rewriter
	// Quoter casts bind values in prepared mode.
	Quoter *Quoter
	// Case folds result column names.
	Case CaseConvention
	// Prepared sends bind values as parameters. When false, statements are
	// sent without parameters and callers embed literals in the SQL text.
	Prepared bool
	// TypeCast converts result values. Nil is the identity.
	TypeCast TypeCastFunc
	// Logger receives a debug record per executed statement. Nil disables logging.
	Logger *slog.Logger
}

var defaultRewriter = NewRewriter(AllRules)

func (c Conn) rewriter() *Rewriter {
	if c.Rewriter == nil {
		return defaultRewriter
	}
	return c.Rewriter
}

// Exec rewrites query, executes the resulting statements in order and
// returns the number of rows affected by the last one. Execution stops at
// the first failing statement and its error is returned as reported by the
// connector; statements that ran before it stay applied.
func (c Conn) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	argv, err := c.binds(args)
	if err != nil {
		return 0, err
	}
	var (
		affected int64
		stmts    = c.rewriter().Rewrite(query)
		batch    = uuid.NewString()
	)
	for i, stmt := range stmts {
		c.log(ctx, "exec", batch, i, len(stmts), stmt, argv)
		res, err := c.ExecContext(ctx, stmt, argv...)
		if err != nil {
			return 0, err
		}
		// Drivers that cannot count affected rows for a statement report 0.
		if n, err := res.RowsAffected(); err == nil {
			affected = n
		} else {
			affected = 0
		}
	}
	return affected, nil
}

// Query executes a row-returning statement and returns its normalized
// result. Only single-statement rewrites apply. The driver cursor is
// closed before Query returns, whether or not reading succeeded.
func (c Conn) Query(ctx context.Context, query string, args ...any) (*ResultSet, error) {
	argv, err := c.binds(args)
	if err != nil {
		return nil, err
	}
	query = c.rewriter().Transform(query)
	c.log(ctx, "query", uuid.NewString(), 0, 1, query, argv)
	rows, err := c.QueryContext(ctx, query, argv...)
	if err != nil {
		return nil, err
	}
	columns, values, err := ScanAll(rows)
	if err != nil {
		return nil, err
	}
	rs := &ResultSet{Columns: columns}
	rs.Names, rs.Rows = Normalize(columns, values, c.Case, c.TypeCast)
	return rs, nil
}

// binds returns the arguments sent to the connector.
func (c Conn) binds(args []any) ([]any, error) {
	if !c.Prepared || len(args) == 0 {
		return nil, nil
	}
	q := c.Quoter
	if q == nil {
		q = &Quoter{}
	}
	argv := make([]any, len(args))
	for i, a := range args {
		v, err := q.TypeCastBind(a)
		if err != nil {
			return nil, fmt.Errorf("dialect/sql: bind %d: %w", i+1, err)
		}
		argv[i] = v
	}
	return argv, nil
}

func (c Conn) log(ctx context.Context, kind, batch string, step, steps int, query string, args []any) {
	if c.Logger == nil {
		return
	}
	c.Logger.DebugContext(ctx, "execute statement",
		"kind", kind,
		"batch", batch,
		"step", step+1,
		"steps", steps,
		"query", query,
		"args", len(args),
	)
}

// ScanAll reads the column metadata and every row of rows, then closes it.
// Rows are always closed, even when reading fails.
func ScanAll(rows ColumnScanner) (columns []ColumnDescriptor, values [][]any, err error) {
	defer func() {
		if cerr := rows.Close(); err == nil {
			err = cerr
		}
	}()
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, nil, err
	}
	columns = make([]ColumnDescriptor, len(types))
	for i, ct := range types {
		columns[i] = DescribeColumn(ct)
	}
	for rows.Next() {
		row := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range row {
			dest[i] = &row[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, nil, err
		}
		values = append(values, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return columns, values, nil
}

// Metadata is what the driver reports about the DBMS's identifiers.
type Metadata struct {
	IdentifierQuote   string
	UpcaseIdentifiers bool
}

// MetadataFunc resolves the DBMS metadata of a new connection.
type MetadataFunc func(ctx context.Context, eq ExecQuerier) (Metadata, error)

// StaticMetadata returns a MetadataFunc that always reports m.
func StaticMetadata(m Metadata) MetadataFunc {
	return func(context.Context, ExecQuerier) (Metadata, error) { return m, nil }
}

// Driver owns a single database connection together with the state fixed
// for its lifetime: dialect traits, the case convention and the prepared
// statement mode. Transactions follow a three-state model: autocommit,
// open after Begin, and back to autocommit after Commit or Rollback.
//
// Driver is not safe for concurrent use.
type Driver struct {
	db       *sql.DB // set when the driver owns the pool
	conn     *sql.Conn
	tx       *sql.Tx
	traits   dialect.Traits
	prepared *bool
	flags    RewriteFlags
	loc      *time.Location
	cast     TypeCastFunc
	logger   *slog.Logger
	metadata MetadataFunc
	wrap     func(ExecQuerier) ExecQuerier

	rewriter *Rewriter
	quoter   *Quoter
	cc       CaseConvention
}

// Option configures a Driver.
type Option func(*Driver)

// WithDialect sets the dialect. Unknown names use the Null dialect.
func WithDialect(name string) Option {
	return func(d *Driver) {
		d.traits = dialect.TraitsOf(name)
	}
}

// WithPreparedStatements overrides the dialect's prepared statement mode.
func WithPreparedStatements(on bool) Option {
	return func(d *Driver) {
		d.prepared = &on
	}
}

// WithRewriteFlags selects the rewrite rules. All rules are on by default.
func WithRewriteFlags(f RewriteFlags) Option {
	return func(d *Driver) {
		d.flags = f
	}
}

// WithLocation sets the zone times are converted to when quoted.
// Default is UTC.
func WithLocation(loc *time.Location) Option {
	return func(d *Driver) {
		d.loc = loc
	}
}

// WithTypeCast sets the hook applied to result rows.
func WithTypeCast(f TypeCastFunc) Option {
	return func(d *Driver) {
		d.cast = f
	}
}

// WithLogger sets the logger receiving per-statement debug records.
// Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = l
	}
}

// WithMetadata sets how DBMS metadata is resolved when the connection
// opens. By default it comes from the dialect traits.
func WithMetadata(f MetadataFunc) Option {
	return func(d *Driver) {
		d.metadata = f
	}
}

// WithInterceptor wraps the connector used for every statement, e.g. to
// collect statistics.
func WithInterceptor(f func(ExecQuerier) ExecQuerier) Option {
	return func(d *Driver) {
		d.wrap = f
	}
}

// Open opens a database with database/sql and returns a Driver holding
// one of its connections. Closing the Driver closes the database.
func Open(ctx context.Context, driverName, source string, opts ...Option) (*Driver, error) {
	db, err := sql.Open(driverName, source)
	if err != nil {
		return nil, err
	}
	drv, err := OpenDB(ctx, db, opts...)
	if err != nil {
		return nil, odbcadapter.NewAggregateError(err, db.Close())
	}
	drv.db = db
	return drv, nil
}

// OpenDB borrows a connection from db and wraps it with a Driver. The
// connection is returned to the pool by Close; db stays open.
func OpenDB(ctx context.Context, db *sql.DB, opts ...Option) (*Driver, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	d := &Driver{
		conn:   conn,
		traits: dialect.TraitsOf(dialect.Null),
		flags:  AllRules,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.metadata == nil {
		d.metadata = StaticMetadata(Metadata{
			IdentifierQuote:   d.traits.IdentifierQuote,
			UpcaseIdentifiers: d.traits.UpcaseIdentifiers,
		})
	}
	md, err := d.metadata(ctx, conn)
	if err != nil {
		return nil, odbcadapter.NewAggregateError(fmt.Errorf("dialect/sql: resolve metadata: %w", err), conn.Close())
	}
	d.cc = CaseConvention{Upcase: md.UpcaseIdentifiers}
	d.rewriter = NewRewriter(d.flags)
	d.quoter = &Quoter{
		QuoteChar:     md.IdentifierQuote,
		Location:      d.loc,
		QuotedTrue:    d.traits.QuotedTrue,
		QuotedFalse:   d.traits.QuotedFalse,
		UnquotedTrue:  d.traits.UnquotedTrue,
		UnquotedFalse: d.traits.UnquotedFalse,
	}
	return d, nil
}

// Dialect returns the dialect name.
func (d *Driver) Dialect() string { return d.traits.Name }

// Traits returns the dialect traits.
func (d *Driver) Traits() dialect.Traits { return d.traits }

// Quoter returns the quoting engine of the connection.
func (d *Driver) Quoter() *Quoter { return d.quoter }

// CaseConvention returns the cached identifier case policy.
func (d *Driver) CaseConvention() CaseConvention { return d.cc }

// Rewriter returns the statement rewriter of the connection.
func (d *Driver) Rewriter() *Rewriter { return d.rewriter }

// PreparedStatements reports whether bind values are sent as parameters.
func (d *Driver) PreparedStatements() bool {
	if d.prepared != nil {
		return *d.prepared
	}
	return d.traits.PreparedStatements
}

// Conn returns the executor bound to the current transaction state.
func (d *Driver) Conn() Conn {
	var eq ExecQuerier = d.conn
	if d.tx != nil {
		eq = d.tx
	}
	if d.wrap != nil {
		eq = d.wrap(eq)
	}
	return Conn{
		ExecQuerier: eq,
		Rewriter:    d.rewriter,
		Quoter:      d.quoter,
		Case:        d.cc,
		Prepared:    d.PreparedStatements(),
		TypeCast:    d.cast,
		Logger:      d.logger,
	}
}

// Exec executes a statement that returns no rows. See Conn.Exec.
func (d *Driver) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	return d.Conn().Exec(ctx, query, args...)
}

// Query executes a row-returning statement. See Conn.Query.
func (d *Driver) Query(ctx context.Context, query string, args ...any) (*ResultSet, error) {
	return d.Conn().Query(ctx, query, args...)
}

// Begin opens a transaction, turning autocommit off.
func (d *Driver) Begin(ctx context.Context) error {
	if d.tx != nil {
		return odbcadapter.ErrTxStarted
	}
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	d.tx = tx
	return nil
}

// Commit commits the open transaction and returns to autocommit.
func (d *Driver) Commit() error {
	if d.tx == nil {
		return odbcadapter.ErrTxNotStarted
	}
	tx := d.tx
	d.tx = nil
	return tx.Commit()
}

// Rollback rolls the open transaction back and returns to autocommit.
func (d *Driver) Rollback() error {
	if d.tx == nil {
		return odbcadapter.ErrTxNotStarted
	}
	tx := d.tx
	d.tx = nil
	return tx.Rollback()
}

// InTx reports whether a transaction is open.
func (d *Driver) InTx() bool { return d.tx != nil }

// LastInsertID returns the identity value generated by the last insert on
// this connection.
func (d *Driver) LastInsertID(ctx context.Context) (int64, error) {
	if d.traits.LastInsertIDQuery == "" {
		return 0, odbcadapter.NewUnsupportedError(d.traits.Name, "last_insert_id")
	}
	rs, err := d.Query(ctx, d.traits.LastInsertIDQuery)
	if err != nil {
		return 0, err
	}
	if rs.Len() == 0 || len(rs.Rows[0]) == 0 {
		return 0, nil
	}
	return toInt64(rs.Rows[0][0]), nil
}

// Close rolls back an open transaction and releases the connection.
func (d *Driver) Close() error {
	var errs []error
	if d.tx != nil {
		errs = append(errs, d.tx.Rollback())
		d.tx = nil
	}
	errs = append(errs, d.conn.Close())
	if d.db != nil {
		errs = append(errs, d.db.Close())
	}
	return odbcadapter.NewAggregateError(errs...)
}

// DefaultSequenceName returns the sequence name used for a table on DBMSs
// that support sequences but not auto-incrementing columns.
func DefaultSequenceName(table, _ string) string {
	return table + "_seq"
}

// toInt64 converts an identity value to int64. Unparsable values are 0.
func toInt64(v any) int64 {
	switch v := v.(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case []byte:
		return toInt64(string(v))
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return int64(f)
		}
	}
	return 0
}

// ColumnScanner is the interface that wraps the standard
// sql.Rows methods used for scanning database rows.
type ColumnScanner interface {
	Close() error
	ColumnTypes() ([]*sql.ColumnType, error)
	Err() error
	Next() bool
	Scan(dest ...any) error
}
