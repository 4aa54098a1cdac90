// Package dialect names the database dialects supported by odbcadapter and
// describes their connection-level traits.
//
// # Supported Dialects
//
//   - DM: DM (Dameng) database reached through a generic connector
//   - Null: fallback for any other DBMS, best-effort ANSI behavior
//
// Each dialect is identified by a constant string:
//
//	dialect.DM   = "dm"
//	dialect.Null = "null"
//
// # Traits
//
// A Traits record carries what the connection needs to know about a dialect
// before any statement runs: whether prepared statements are used, the
// identifier quote character, the identifier case convention, boolean
// literals and the identity lookup query.
//
//	t := dialect.TraitsOf(dialect.DM)
//	t.PreparedStatements // false
//	t.UpcaseIdentifiers  // true
//
// Unknown names resolve to the Null dialect; it is the fallback case, not
// a base that other dialects extend.
//
// # Sub-packages
//
//   - dialect/sql: rewriting, quoting, execution and result normalization
//   - dialect/sql/schema: per-dialect DDL for migration operations
package dialect
