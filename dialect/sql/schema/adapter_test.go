package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/odbcadapter"
	"github.com/syssam/odbcadapter/dialect"
	"github.com/syssam/odbcadapter/dialect/sql"
)

func quoter(name string) *sql.Quoter {
	t := dialect.TraitsOf(name)
	return &sql.Quoter{
		QuoteChar:     t.IdentifierQuote,
		QuotedTrue:    t.QuotedTrue,
		QuotedFalse:   t.QuotedFalse,
		UnquotedTrue:  t.UnquotedTrue,
		UnquotedFalse: t.UnquotedFalse,
	}
}

func TestFor(t *testing.T) {
	assert.Same(t, DM, For("dm"))
	assert.Same(t, DM, For("DM8"))
	assert.Same(t, Null, For("null"))
	assert.Same(t, Null, For("mysql"))
	assert.Same(t, Null, For(""))

	assert.Equal(t, dialect.DM, DM.Traits().Name)
	assert.Equal(t, "'1'", DM.Traits().QuotedTrue)
	assert.True(t, DM.SupportsMigrations)
	assert.True(t, Null.SupportsMigrations)
	assert.False(t, Null.Traits().PreparedStatements)
}

func TestDMStatements(t *testing.T) {
	q := quoter(dialect.DM)
	tests := []struct {
		name string
		op   Op
		want string
	}{
		{
			name: "rename column",
			op:   RenameColumn{Table: "users", Column: "name", NewName: "full_name"},
			want: `ALTER TABLE "USERS" RENAME COLUMN "NAME" TO "FULL_NAME"`,
		},
		{
			name: "change column",
			op:   ChangeColumn{Table: "users", Column: "bio", Type: "mediumtext", Options: ColumnOptions{}.WithDefault("'none'").NotNull()},
			want: `ALTER TABLE "USERS" MODIFY "BIO" text DEFAULT 'none' NOT NULL`,
		},
		{
			name: "change column to bit",
			op:   ChangeColumn{Table: "users", Column: "active", Type: "integer", Options: ColumnOptions{TypeOptions: TypeOptions{Limit: 1}}},
			want: `ALTER TABLE "USERS" MODIFY "ACTIVE" bit`,
		},
		{
			name: "change column key",
			op:   ChangeColumn{Table: "users", Column: "id", Type: "integer", Options: ColumnOptions{AutoIncrement: true, PrimaryKey: true}},
			want: `ALTER TABLE "USERS" MODIFY "ID" int AUTO_INCREMENT PRIMARY KEY`,
		},
		{
			name: "change column nil default",
			op:   ChangeColumn{Table: "users", Column: "age", Type: "bigint", Options: ColumnOptions{}.WithDefault(nil)},
			want: `ALTER TABLE "USERS" MODIFY "AGE" bigint`,
		},
		{
			name: "change default",
			op:   ChangeColumnDefault{Table: "users", Column: "name", Default: "O'Brien"},
			want: `ALTER TABLE "USERS" ALTER COLUMN "NAME" SET DEFAULT 'O''Brien'`,
		},
		{
			name: "change default bool",
			op:   ChangeColumnDefault{Table: "users", Column: "active", Default: true},
			want: `ALTER TABLE "USERS" ALTER COLUMN "ACTIVE" SET DEFAULT '1'`,
		},
		{
			name: "rename index",
			op:   RenameIndex{Table: "users", Name: "idx_name", NewName: "idx_full_name"},
			want: `ALTER INDEX "IDX_NAME" RENAME TO "IDX_FULL_NAME"`,
		},
		{
			name: "remove index",
			op:   RemoveIndex{Table: "users", Name: "idx_name"},
			want: `DROP INDEX idx_name`,
		},
		{
			name: "rename table",
			op:   RenameTable{Table: "users", NewName: "members"},
			want: `ALTER TABLE "USERS" RENAME TO "MEMBERS"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DM.Statement(q, tt.op)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNullStatements(t *testing.T) {
	q := quoter(dialect.Null)
	tests := []struct {
		name string
		op   Op
		want string
	}{
		{
			name: "rename column",
			op:   RenameColumn{Table: "users", Column: "name", NewName: "full_name"},
			want: `ALTER TABLE users RENAME COLUMN name TO full_name`,
		},
		{
			name: "change column",
			op:   ChangeColumn{Table: "users", Column: "name", Type: "string", Options: ColumnOptions{TypeOptions: TypeOptions{Limit: 50}}.NotNull()},
			want: `ALTER TABLE users MODIFY name varchar(50)`,
		},
		{
			name: "change default",
			op:   ChangeColumnDefault{Table: "users", Column: "name", Default: nil},
			want: `ALTER TABLE users ALTER COLUMN name SET DEFAULT NULL`,
		},
		{
			name: "change default bool",
			op:   ChangeColumnDefault{Table: "users", Column: "active", Default: false},
			want: `ALTER TABLE users ALTER COLUMN active SET DEFAULT FALSE`,
		},
		{
			name: "rename index",
			op:   RenameIndex{Table: "users", Name: "idx_a", NewName: "idx_b"},
			want: `ALTER INDEX "IDX_A" RENAME TO "IDX_B"`,
		},
		{
			name: "remove index",
			op:   RemoveIndex{Table: "users", Name: "idx_a"},
			want: `DROP INDEX idx_a`,
		},
		{
			name: "rename table",
			op:   RenameTable{Table: "users", NewName: "members"},
			want: `ALTER TABLE "USERS" RENAME TO "MEMBERS"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Null.Statement(q, tt.op)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIncludesDefault(t *testing.T) {
	notNull := ColumnOptions{}.NotNull()
	tests := []struct {
		name string
		opts ColumnOptions
		dm   bool
		null bool
	}{
		{"no default", ColumnOptions{}, false, false},
		{"default", ColumnOptions{}.WithDefault(0), true, true},
		{"nil default", ColumnOptions{}.WithDefault(nil), false, true},
		{"nil default not null", notNull.WithDefault(nil), false, false},
		{"nil default timestamp", ColumnOptions{NativeType: "TIMESTAMP(6)"}.WithDefault(nil), false, false},
		{"default timestamp", ColumnOptions{NativeType: "timestamp"}.WithDefault("now()"), true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := tt.opts
			assert.Equal(t, tt.dm, DM.IncludesDefault(&o), "dm")
			o = tt.opts
			assert.Equal(t, tt.null, Null.IncludesDefault(&o), "null")
		})
	}
}

func TestNullDropsTimestampDefault(t *testing.T) {
	o := ColumnOptions{NativeType: "timestamp"}.WithDefault(nil)
	Null.IncludesDefault(&o)
	assert.False(t, o.HasDefault)
}

type customOp struct{}

func (customOp) Kind() string      { return "custom" }
func (customOp) TableName() string { return "t" }

func TestStatementUnsupported(t *testing.T) {
	a := &Adapter{Name: "bare"}
	_, err := a.Statement(quoter(dialect.Null), RenameIndex{Table: "t", Name: "a", NewName: "b"})
	require.ErrorIs(t, err, odbcadapter.ErrUnsupported)
	assert.Contains(t, err.Error(), "rename_index")

	_, err = DM.Statement(quoter(dialect.DM), customOp{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown operation")
}
