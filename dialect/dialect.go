package dialect

import "strings"

// Dialect names.
const (
	DM   = "dm"   // DM (Dameng) database.
	Null = "null" // Fallback for DBMSs without specific support.
)

// Traits holds the connection-level behavior of a dialect. The DDL half of
// a dialect lives in dialect/sql/schema.
type Traits struct {
	// Name is the dialect name, e.g. "dm".
	Name string
	// PreparedStatements reports whether bind values are sent as parameters.
	// When false, callers embed literals in the SQL text.
	PreparedStatements bool
	// IdentifierQuote is the identifier quote character reported for the DBMS.
	IdentifierQuote string
	// UpcaseIdentifiers reports whether the DBMS stores unquoted identifiers
	// in upper case.
	UpcaseIdentifiers bool
	// QuotedTrue and QuotedFalse are boolean literals used inside SQL text.
	QuotedTrue, QuotedFalse string
	// UnquotedTrue and UnquotedFalse are boolean values sent as bind parameters.
	UnquotedTrue, UnquotedFalse string
	// LastInsertIDQuery returns the identity generated by the last insert.
	// Empty when the dialect has no such query.
	LastInsertIDQuery string
}

var traits = map[string]Traits{
	DM: {
		Name:              DM,
		IdentifierQuote:   `"`,
		UpcaseIdentifiers: true,
		QuotedTrue:        "'1'",
		QuotedFalse:       "'0'",
		UnquotedTrue:      "1",
		UnquotedFalse:     "0",
		LastInsertIDQuery: "select @@IDENTITY",
	},
	Null: {
		Name:            Null,
		IdentifierQuote: `"`,
		QuotedTrue:      "TRUE",
		QuotedFalse:     "FALSE",
		UnquotedTrue:    "1",
		UnquotedFalse:   "0",
	},
}

// TraitsOf returns the traits registered for the given dialect name.
// Unknown names fall back to the Null dialect.
func TraitsOf(name string) Traits {
	if t, ok := traits[Normalize(name)]; ok {
		return t
	}
	return traits[Null]
}

// Normalize maps a dialect or driver name to a known dialect name.
// Names are matched case-insensitively and by prefix, so "dm8" or
// "DM" resolve to DM. Anything else resolves to Null.
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if strings.HasPrefix(name, DM) {
		return DM
	}
	return Null
}
