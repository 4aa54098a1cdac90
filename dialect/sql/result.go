package sql

import (
	"database/sql"
	"strings"
)

// ColumnDescriptor describes a result column as reported by the driver.
type ColumnDescriptor struct {
	Name     string
	TypeName string // native type tag, e.g. "VARCHAR"
	Nullable bool
	// Length is set when HasLength is true.
	Length    int64
	HasLength bool
	// Precision and Scale are set when HasDecimal is true.
	Precision  int64
	Scale      int64
	HasDecimal bool
}

// DescribeColumn builds a ColumnDescriptor from driver metadata. A column
// whose nullability is unknown is reported as nullable, and a column named
// "id" is never nullable since some drivers misreport it.
func DescribeColumn(ct *sql.ColumnType) ColumnDescriptor {
	cd := ColumnDescriptor{
		Name:     ct.Name(),
		TypeName: ct.DatabaseTypeName(),
		Nullable: true,
	}
	if nullable, ok := ct.Nullable(); ok {
		cd.Nullable = nullable
	}
	if strings.EqualFold(cd.Name, "id") {
		cd.Nullable = false
	}
	cd.Length, cd.HasLength = ct.Length()
	cd.Precision, cd.Scale, cd.HasDecimal = ct.DecimalSize()
	return cd
}

// ResultSet is the canonical result of a row-returning statement.
// Every row has exactly len(Columns) values.
type ResultSet struct {
	Columns []ColumnDescriptor
	// Names holds the column names after case folding.
	Names []string
	Rows  [][]any
}

// Len returns the number of rows.
func (r *ResultSet) Len() int { return len(r.Rows) }

// Value returns the value at row i of the named column, and whether the
// column exists.
func (r *ResultSet) Value(i int, name string) (any, bool) {
	for j, n := range r.Names {
		if n == name {
			return r.Rows[i][j], true
		}
	}
	return nil, false
}

// TypeCastFunc converts driver-native values before rows reach the caller.
// It must return rows aligned with columns.
type TypeCastFunc func(columns []ColumnDescriptor, rows [][]any) [][]any

// IdentityCast returns rows unchanged.
func IdentityCast(_ []ColumnDescriptor, rows [][]any) [][]any { return rows }

// BytesToString converts []byte values to strings. Drivers that report
// character data as raw bytes can use it as the type-cast hook.
func BytesToString(_ []ColumnDescriptor, rows [][]any) [][]any {
	for _, row := range rows {
		for i, v := range row {
			if b, ok := v.([]byte); ok {
				row[i] = string(b)
			}
		}
	}
	return rows
}

// Normalize applies the type-cast hook to rows and folds the column names
// with the case convention. A nil cast is the identity.
func Normalize(columns []ColumnDescriptor, rows [][]any, cc CaseConvention, cast TypeCastFunc) ([]string, [][]any) {
	if cast == nil {
		cast = IdentityCast
	}
	rows = cast(columns, rows)
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = cc.FormatCase(c.Name)
	}
	return names, rows
}
