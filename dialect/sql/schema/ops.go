package schema

// Operation kinds.
const (
	KindRenameColumn        = "rename_column"
	KindChangeColumn        = "change_column"
	KindChangeColumnDefault = "change_column_default"
	KindRenameIndex         = "rename_index"
	KindRemoveIndex         = "remove_index"
	KindRenameTable         = "rename_table"
)

// Op is a logical schema change. Each Op is rendered into one statement
// by the dialect Adapter; the executor may split that statement further.
type Op interface {
	// Kind returns the operation kind, e.g. "rename_column".
	Kind() string
	// TableName returns the table the operation applies to.
	TableName() string
}

// RenameColumn renames a column.
type RenameColumn struct {
	Table   string
	Column  string
	NewName string
}

// ChangeColumn changes the type and options of a column.
type ChangeColumn struct {
	Table   string
	Column  string
	Type    string // logical type, e.g. "string", "integer", "mediumtext"
	Options ColumnOptions
}

// ChangeColumnDefault sets the default value of a column.
type ChangeColumnDefault struct {
	Table   string
	Column  string
	Default any
}

// RenameIndex renames an index.
type RenameIndex struct {
	Table   string
	Name    string
	NewName string
}

// RemoveIndex drops an index.
type RemoveIndex struct {
	Table string
	Name  string
}

// RenameTable renames a table.
type RenameTable struct {
	Table   string
	NewName string
}

func (RenameColumn) Kind() string        { return KindRenameColumn }
func (ChangeColumn) Kind() string        { return KindChangeColumn }
func (ChangeColumnDefault) Kind() string { return KindChangeColumnDefault }
func (RenameIndex) Kind() string         { return KindRenameIndex }
func (RemoveIndex) Kind() string         { return KindRemoveIndex }
func (RenameTable) Kind() string         { return KindRenameTable }

func (o RenameColumn) TableName() string        { return o.Table }
func (o ChangeColumn) TableName() string        { return o.Table }
func (o ChangeColumnDefault) TableName() string { return o.Table }
func (o RenameIndex) TableName() string         { return o.Table }
func (o RemoveIndex) TableName() string         { return o.Table }
func (o RenameTable) TableName() string         { return o.Table }

// TypeOptions holds the size arguments of a logical type. Zero means unset.
type TypeOptions struct {
	Limit     int
	Precision int
	Scale     int
}

// ColumnOptions holds the options of a changed column.
type ColumnOptions struct {
	TypeOptions
	// Default is the column default, rendered as is. It only counts when
	// HasDefault is set.
	Default    any
	HasDefault bool
	// Null is nil when nullability is left unchanged.
	Null          *bool
	AutoIncrement bool
	PrimaryKey    bool
	// NativeType is the current native type of the column, when known.
	NativeType string
}

// WithDefault returns a copy of o with the default set.
func (o ColumnOptions) WithDefault(v any) ColumnOptions {
	o.Default, o.HasDefault = v, true
	return o
}

// NotNull returns a copy of o marking the column NOT NULL.
func (o ColumnOptions) NotNull() ColumnOptions {
	f := false
	o.Null = &f
	return o
}
