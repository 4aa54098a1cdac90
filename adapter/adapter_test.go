package adapter

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/syssam/odbcadapter/config"
	"github.com/syssam/odbcadapter/dialect"
	dsql "github.com/syssam/odbcadapter/dialect/sql"
	"github.com/syssam/odbcadapter/dialect/sql/schema"
)

func TestOpenDB(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	cfg := config.Default()
	cfg.Dialect = "dm"
	cfg.SlowThreshold = time.Hour
	a, err := OpenDB(context.Background(), db, cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, dialect.DM, a.Dialect())
	assert.Same(t, schema.DM, a.Migrator.Adapter())
	assert.True(t, a.SupportsMigrations())
	assert.Equal(t, "users_seq", a.DefaultSequenceName("users", "id"))
	require.NotNil(t, a.Stats)

	mock.ExpectExec(`ALTER TABLE "USERS" RENAME TO "MEMBERS"`).WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, a.Migrate(context.Background(), schema.RenameTable{Table: "users", NewName: "members"}))
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, int64(1), a.Stats.Stats().TotalExecs)
}

func TestOptions(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	quote, upcase, prepared := "`", true, true
	cfg := config.Default()
	cfg.PreparedStatements = &prepared
	cfg.Identifiers = config.Identifiers{Quote: &quote, Upcase: &upcase}
	off := false
	cfg.Rewrite.ForUpdateCommit = &off
	cfg.Timezone = "local"

	a, err := OpenDB(context.Background(), db, cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, dialect.Null, a.Dialect())
	assert.True(t, a.PreparedStatements())
	assert.True(t, a.CaseConvention().Upcase)
	assert.Equal(t, "`", a.Quoter().QuoteChar)
	assert.Equal(t, time.Local, a.Quoter().Location)
	assert.False(t, a.Rewriter().Flags().ForUpdateCommit)
	assert.True(t, a.Rewriter().Flags().DecomposeModify)
	assert.Nil(t, a.Stats)
}

func TestOpenDBBareConfig(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Unset rewrite switches leave every rule on.
	a, err := OpenDB(context.Background(), db, &config.Config{Dialect: "dm"}, nil)
	require.NoError(t, err)
	defer a.Close()
	assert.Equal(t, dsql.AllRules, a.Rewriter().Flags())
	assert.Equal(t, []string{"SELECT 1 FROM t FOR UPDATE;commit;"}, a.Rewriter().Rewrite("SELECT 1 FROM t FOR UPDATE"))
}

func TestOptionsInvalid(t *testing.T) {
	cfg := config.Default()
	cfg.Timezone = "mars"
	_, _, err := Options(cfg, nil)
	require.Error(t, err)

	cfg = config.Default()
	_, err = Open(context.Background(), cfg, nil)
	require.ErrorContains(t, err, "driver is required")
}

func TestOpenSQLite(t *testing.T) {
	cfg := config.Default()
	cfg.Driver = "sqlite"
	cfg.DSN = filepath.Join(t.TempDir(), "adapter.db")
	ctx := context.Background()

	a, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Exec(ctx, "CREATE TABLE t (id integer PRIMARY KEY, v text)")
	require.NoError(t, err)
	_, err = a.Exec(ctx, "INSERT INTO t (id, v) VALUES (1, 'x')")
	require.NoError(t, err)
	_, err = a.Exec(ctx, "ALTER TABLE t MODIFY v varchar(10) ")
	require.NoError(t, err)

	rs, err := a.Query(ctx, "SELECT id, v FROM t")
	require.NoError(t, err)
	assert.Equal(t, [][]any{{int64(1), "x"}}, rs.Rows)
}

func TestOpenDBColumnCache(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	cfg := config.Default()
	cfg.Dialect = "dm"
	cfg.ColumnCacheTTL = time.Minute
	a, err := OpenDB(context.Background(), db, cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	mock.ExpectQuery("SELECT column_name, data_type, is_nullable, column_default, character_maximum_length " +
		"FROM information_schema.columns WHERE table_name = 'USERS' AND column_name = 'AGE'").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "DATA_TYPE", "IS_NULLABLE", "COLUMN_DEFAULT", "CHARACTER_MAXIMUM_LENGTH"}).
			AddRow("AGE", "INT", "YES", nil, nil))
	op := schema.ChangeColumn{Table: "users", Column: "age", Type: "bigint"}
	for i := 0; i < 2; i++ {
		_, err := a.Migrator.Plan(context.Background(), op)
		require.NoError(t, err)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}
