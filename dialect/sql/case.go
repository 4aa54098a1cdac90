package sql

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CaseConvention is the identifier case policy of a connection.
//
// For a DBMS that stores unquoted identifiers in upper case:
//   - a name returned in all upper case is lowered before it reaches the caller.
//   - a name returned in lower or mixed case is assumed to have been quoted
//     when the object was created, and is left untouched.
//   - before a catalog lookup, an all lower-case name is upper-cased. Mixed
//     and upper-case names are left unchanged.
//
// Columns created with quoted lower-case names are not supported.
type CaseConvention struct {
	Upcase bool
}

// FormatCase converts an identifier from the DBMS's data dictionary case
// to the caller's case.
func (c CaseConvention) FormatCase(id string) string {
	if !c.Upcase || strings.IndexFunc(id, isLowerASCII) >= 0 {
		return id
	}
	return cases.Lower(language.Und).String(id)
}

// NativeCase converts an identifier from the caller's case to the case
// used by the DBMS's data dictionary.
func (c CaseConvention) NativeCase(id string) string {
	if !c.Upcase || strings.IndexFunc(id, isUpperASCII) >= 0 {
		return id
	}
	return upper(id)
}

func isLowerASCII(r rune) bool { return r >= 'a' && r <= 'z' }

func isUpperASCII(r rune) bool { return r >= 'A' && r <= 'Z' }

// upper upper-cases s. A Caser keeps state, so one is created per call.
func upper(s string) string {
	if strings.IndexFunc(s, unicode.IsLower) < 0 {
		return s
	}
	return cases.Upper(language.Und).String(s)
}
