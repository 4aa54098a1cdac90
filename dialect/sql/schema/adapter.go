package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/syssam/odbcadapter"
	"github.com/syssam/odbcadapter/dialect"
	"github.com/syssam/odbcadapter/dialect/sql"
)

// Adapter holds the DDL behavior of one dialect. Adapters are plain
// records: For picks one by dialect name and falls back to Null.
// A nil template means the dialect cannot express that operation.
type Adapter struct {
	Name string
	// PrimaryKey is the column definition of an auto-incrementing key.
	PrimaryKey string
	// SupportsMigrations is true for every adapter, Null included.
	SupportsMigrations bool
	SupportsJSON       bool

	// TypeToSQL remaps a logical type before DefaultTypeToSQL is consulted.
	// It reports false to fall back.
	TypeToSQL func(typ string, o TypeOptions) (string, bool)
	// IncludesDefault reports whether o carries a default to apply. It may
	// drop a default the dialect cannot use. When it reports false the
	// Migrator looks the current default up before changing a column.
	IncludesDefault func(o *ColumnOptions) bool
	// ColumnOptions renders the options appended to a changed column.
	ColumnOptions func(o ColumnOptions) string

	RenameColumn        func(q *sql.Quoter, op RenameColumn) string
	ChangeColumn        func(q *sql.Quoter, op ChangeColumn, typeSQL string) string
	ChangeColumnDefault func(q *sql.Quoter, op ChangeColumnDefault) string
	RenameIndex         func(q *sql.Quoter, op RenameIndex) string
	RemoveIndex         func(q *sql.Quoter, op RemoveIndex) string
	RenameTable         func(q *sql.Quoter, op RenameTable) string
}

// For returns the adapter of the given dialect, or Null when the dialect
// has no specific support.
func For(name string) *Adapter {
	switch dialect.Normalize(name) {
	case dialect.DM:
		return DM
	default:
		return Null
	}
}

// Traits returns the connection-level traits of the adapter's dialect:
// boolean literals, prepared statement mode and identifier conventions.
func (a *Adapter) Traits() dialect.Traits {
	return dialect.TraitsOf(a.Name)
}

// TypeSQL maps a logical type to the dialect's SQL type.
func (a *Adapter) TypeSQL(typ string, o TypeOptions) string {
	if a.TypeToSQL != nil {
		if s, ok := a.TypeToSQL(typ, o); ok {
			return s
		}
	}
	return DefaultTypeToSQL(typ, o, a.PrimaryKey)
}

// Statement renders op as a single SQL statement.
func (a *Adapter) Statement(q *sql.Quoter, op Op) (string, error) {
	var stmt string
	switch op := op.(type) {
	case RenameColumn:
		if a.RenameColumn != nil {
			stmt = a.RenameColumn(q, op)
		}
	case ChangeColumn:
		if a.ChangeColumn != nil {
			stmt = a.ChangeColumn(q, op, a.TypeSQL(op.Type, op.Options.TypeOptions))
			if a.ColumnOptions != nil {
				stmt += a.ColumnOptions(op.Options)
			}
		}
	case ChangeColumnDefault:
		if a.ChangeColumnDefault != nil {
			stmt = a.ChangeColumnDefault(q, op)
		}
	case RenameIndex:
		if a.RenameIndex != nil {
			stmt = a.RenameIndex(q, op)
		}
	case RemoveIndex:
		if a.RemoveIndex != nil {
			stmt = a.RemoveIndex(q, op)
		}
	case RenameTable:
		if a.RenameTable != nil {
			stmt = a.RenameTable(q, op)
		}
	default:
		return "", fmt.Errorf("dialect/sql/schema: unknown operation %T", op)
	}
	if stmt == "" {
		return "", odbcadapter.NewUnsupportedError(a.Name, op.Kind())
	}
	return stmt, nil
}

// DM is the adapter of the DM (Dameng) database. Identifiers are quoted,
// and column changes carry their options.
var DM = &Adapter{
	Name:               dialect.DM,
	PrimaryKey:         "int IDENTITY (1, 1) NOT NULL",
	SupportsMigrations: true,
	SupportsJSON:       true,
	TypeToSQL: func(typ string, o TypeOptions) (string, bool) {
		switch {
		case typ == "mediumtext":
			return "text", true
		case typ == "integer" && o.Limit == 1:
			return "bit", true
		}
		return "", false
	},
	IncludesDefault: func(o *ColumnOptions) bool {
		return o.HasDefault && o.Default != nil
	},
	ColumnOptions: func(o ColumnOptions) string {
		var sb strings.Builder
		if o.HasDefault && o.Default != nil {
			fmt.Fprintf(&sb, " DEFAULT %v", o.Default)
		}
		if o.Null != nil && !*o.Null {
			sb.WriteString(" NOT NULL")
		}
		if o.AutoIncrement {
			sb.WriteString(" AUTO_INCREMENT")
		}
		if o.PrimaryKey {
			sb.WriteString(" PRIMARY KEY")
		}
		return sb.String()
	},
	RenameColumn: func(q *sql.Quoter, op RenameColumn) string {
		return fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s",
			q.QuoteTableName(op.Table), q.QuoteIdentifier(op.Column), q.QuoteIdentifier(op.NewName))
	},
	ChangeColumn: func(q *sql.Quoter, op ChangeColumn, typeSQL string) string {
		return fmt.Sprintf("ALTER TABLE %s MODIFY %s %s",
			q.QuoteTableName(op.Table), q.QuoteIdentifier(op.Column), typeSQL)
	},
	ChangeColumnDefault: func(q *sql.Quoter, op ChangeColumnDefault) string {
		return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET DEFAULT %s",
			q.QuoteTableName(op.Table), q.QuoteIdentifier(op.Column), q.Quote(op.Default))
	},
	RenameIndex: func(q *sql.Quoter, op RenameIndex) string {
		return fmt.Sprintf("ALTER INDEX %s RENAME TO %s",
			q.QuoteIdentifier(op.Name), q.QuoteTableName(op.NewName))
	},
	RemoveIndex: func(_ *sql.Quoter, op RemoveIndex) string {
		return "DROP INDEX " + op.Name
	},
	RenameTable: func(q *sql.Quoter, op RenameTable) string {
		return fmt.Sprintf("ALTER TABLE %s RENAME TO %s",
			q.QuoteTableName(op.Table), q.QuoteTableName(op.NewName))
	},
}

var timestampRe = regexp.MustCompile(`(?i)timestamp`)

// Null is the adapter used for DBMSs without specific support. It makes
// a best effort with ANSI-like statements and leaves column names in
// rename and change statements as given.
var Null = &Adapter{
	Name:               dialect.Null,
	PrimaryKey:         "int IDENTITY (1, 1) NOT NULL",
	SupportsMigrations: true,
	SupportsJSON:       true,
	IncludesDefault: func(o *ColumnOptions) bool {
		if o.HasDefault && o.Default == nil && timestampRe.MatchString(o.NativeType) {
			o.HasDefault = false
		}
		return o.HasDefault && !(o.Null != nil && !*o.Null && o.Default == nil)
	},
	RenameColumn: func(_ *sql.Quoter, op RenameColumn) string {
		return fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s", op.Table, op.Column, op.NewName)
	},
	// Runs through Exec like every other dialect, so the MODIFY is decomposed on Null too.
	ChangeColumn: func(_ *sql.Quoter, op ChangeColumn, typeSQL string) string {
		return fmt.Sprintf("ALTER TABLE %s MODIFY %s %s", op.Table, op.Column, typeSQL)
	},
	ChangeColumnDefault: func(q *sql.Quoter, op ChangeColumnDefault) string {
		return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET DEFAULT %s", op.Table, op.Column, q.Quote(op.Default))
	},
	RenameIndex: func(q *sql.Quoter, op RenameIndex) string {
		return fmt.Sprintf("ALTER INDEX %s RENAME TO %s",
			q.QuoteIdentifier(op.Name), q.QuoteTableName(op.NewName))
	},
	RemoveIndex: func(_ *sql.Quoter, op RemoveIndex) string {
		return "DROP INDEX " + op.Name
	},
	RenameTable: func(q *sql.Quoter, op RenameTable) string {
		return fmt.Sprintf("ALTER TABLE %s RENAME TO %s",
			q.QuoteTableName(op.Table), q.QuoteTableName(op.NewName))
	},
}
