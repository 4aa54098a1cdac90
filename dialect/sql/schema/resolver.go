package schema

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/syssam/odbcadapter"
	"github.com/syssam/odbcadapter/dialect/sql"
)

// Column is the catalog description of an existing column.
type Column struct {
	Name       string
	NativeType string
	Nullable   bool
	// Default is the default expression as stored by the DBMS, or nil.
	Default any
	// Limit is the character length, 0 when not applicable.
	Limit int
}

// ColumnResolver looks up existing columns.
type ColumnResolver interface {
	Column(ctx context.Context, table, column string) (*Column, error)
}

// Querier runs row-returning statements.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) (*sql.ResultSet, error)
}

// InformationSchemaResolver resolves columns from information_schema.columns.
// Names are converted to the DBMS's native case and embedded as literals,
// so it works whether or not prepared statements are enabled.
type InformationSchemaResolver struct {
	Querier Querier
	Quoter  *sql.Quoter
	Case    sql.CaseConvention
}

// Column implements ColumnResolver.
func (r *InformationSchemaResolver) Column(ctx context.Context, table, column string) (*Column, error) {
	query := fmt.Sprintf(
		"SELECT column_name, data_type, is_nullable, column_default, character_maximum_length "+
			"FROM information_schema.columns WHERE table_name = '%s' AND column_name = '%s'",
		r.Quoter.QuoteString(r.Case.NativeCase(table)),
		r.Quoter.QuoteString(r.Case.NativeCase(column)),
	)
	rs, err := r.Querier.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	if rs.Len() == 0 {
		return nil, odbcadapter.NewColumnNotFoundError(table, column)
	}
	row := rs.Rows[0]
	c := &Column{
		Name:       str(row[0]),
		NativeType: str(row[1]),
		Nullable:   strings.EqualFold(str(row[2]), "YES"),
	}
	if row[3] != nil {
		c.Default = str(row[3])
	}
	if n, err := strconv.Atoi(str(row[4])); err == nil {
		c.Limit = n
	}
	return c, nil
}

func str(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
