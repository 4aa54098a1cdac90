package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cols := []ColumnDescriptor{{Name: "ID"}, {Name: "FIRST_NAME"}, {Name: "lastName"}}
	rows := [][]any{{int64(1), []byte("ariel"), nil}}

	names, got := Normalize(cols, rows, CaseConvention{Upcase: true}, nil)
	assert.Equal(t, []string{"id", "first_name", "lastName"}, names)
	assert.Equal(t, rows, got)

	names, _ = Normalize(cols, rows, CaseConvention{}, nil)
	assert.Equal(t, []string{"ID", "FIRST_NAME", "lastName"}, names)
}

func TestNormalizeTypeCast(t *testing.T) {
	cols := []ColumnDescriptor{{Name: "A", TypeName: "DATE"}, {Name: "B"}}
	rows := [][]any{{"2024-01-02", 1}, {"2024-01-03", 2}}
	var seen []ColumnDescriptor
	cast := func(columns []ColumnDescriptor, rows [][]any) [][]any {
		seen = columns
		for _, r := range rows {
			r[1] = r[1].(int) * 10
		}
		return rows
	}
	_, got := Normalize(cols, rows, CaseConvention{}, cast)
	assert.Equal(t, cols, seen)
	assert.Equal(t, [][]any{{"2024-01-02", 10}, {"2024-01-03", 20}}, got)
}

func TestIdentityCast(t *testing.T) {
	rows := [][]any{{1, "a"}}
	assert.Equal(t, rows, IdentityCast(nil, rows))
	assert.Nil(t, IdentityCast(nil, nil))
}

func TestBytesToString(t *testing.T) {
	rows := [][]any{{[]byte("a"), 1, nil}, {[]byte{}, "b", 2.5}}
	assert.Equal(t, [][]any{{"a", 1, nil}, {"", "b", 2.5}}, BytesToString(nil, rows))
}

func TestResultSet(t *testing.T) {
	rs := &ResultSet{
		Columns: []ColumnDescriptor{{Name: "ID"}, {Name: "NAME"}},
		Names:   []string{"id", "name"},
		Rows:    [][]any{{int64(1), "a"}, {int64(2), "b"}},
	}
	assert.Equal(t, 2, rs.Len())
	v, ok := rs.Value(1, "name")
	assert.True(t, ok)
	assert.Equal(t, "b", v)
	_, ok = rs.Value(0, "NAME")
	assert.False(t, ok, "lookups use folded names")
	assert.Zero(t, (&ResultSet{}).Len())
}
