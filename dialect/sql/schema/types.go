package schema

import (
	"strconv"
	"strings"
)

// nativeType is the SQL type a logical type maps to by default.
type nativeType struct {
	name  string
	limit int
}

var nativeTypes = map[string]nativeType{
	"string":    {name: "varchar", limit: 255},
	"text":      {name: "text"},
	"integer":   {name: "int"},
	"bigint":    {name: "bigint"},
	"float":     {name: "float"},
	"decimal":   {name: "decimal"},
	"numeric":   {name: "numeric"},
	"datetime":  {name: "timestamp"},
	"timestamp": {name: "timestamp"},
	"time":      {name: "time"},
	"date":      {name: "date"},
	"binary":    {name: "blob"},
	"blob":      {name: "blob"},
	"boolean":   {name: "boolean"},
	"json":      {name: "json"},
}

// DefaultTypeToSQL maps a logical type to SQL. The "primary_key" type maps
// to pk. Decimal types take precision and scale; other types take a limit,
// either the given one or the type's default. Types without a mapping are
// returned unchanged.
func DefaultTypeToSQL(typ string, o TypeOptions, pk string) string {
	key := strings.ToLower(typ)
	if key == "primary_key" {
		return pk
	}
	native, ok := nativeTypes[key]
	if !ok {
		return typ
	}
	switch {
	case key == "decimal" || key == "numeric":
		if o.Precision > 0 {
			if o.Scale > 0 {
				return native.name + "(" + strconv.Itoa(o.Precision) + "," + strconv.Itoa(o.Scale) + ")"
			}
			return native.name + "(" + strconv.Itoa(o.Precision) + ")"
		}
		return native.name
	default:
		limit := o.Limit
		if limit == 0 {
			limit = native.limit
		}
		if limit > 0 {
			return native.name + "(" + strconv.Itoa(limit) + ")"
		}
		return native.name
	}
}
