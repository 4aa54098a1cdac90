package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaseConvention(t *testing.T) {
	upcase := CaseConvention{Upcase: true}
	tests := []struct {
		id     string
		format string
		native string
	}{
		{"NAME", "name", "NAME"},
		{"name", "name", "NAME"},
		{"MixedCase", "MixedCase", "MixedCase"},
		{"ORDER_ID", "order_id", "ORDER_ID"},
		{"order_id", "order_id", "ORDER_ID"},
		{"COL1", "col1", "COL1"},
		{"123", "123", "123"},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.format, upcase.FormatCase(tt.id))
			assert.Equal(t, tt.native, upcase.NativeCase(tt.id))
		})
	}
}

func TestCaseConventionOff(t *testing.T) {
	var cc CaseConvention
	for _, id := range []string{"NAME", "name", "MixedCase"} {
		assert.Equal(t, id, cc.FormatCase(id))
		assert.Equal(t, id, cc.NativeCase(id))
	}
}

func TestCaseConventionRoundTrip(t *testing.T) {
	cc := CaseConvention{Upcase: true}
	// All upper-case catalog names survive a round trip.
	for _, id := range []string{"USERS", "CREATED_AT", "A1"} {
		assert.Equal(t, id, cc.NativeCase(cc.FormatCase(id)))
	}
}
