package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewritePassthrough(t *testing.T) {
	rw := NewRewriter(AllRules)
	for _, q := range []string{
		"SELECT * FROM users",
		"SELECT * FROM users WHERE id = 1",
		"INSERT INTO users (name) VALUES ('a')",
		`INSERT INTO users ("NAME") VALUES ('a')`,
		"UPDATE users SET name = 'a'",
		"ALTER TABLE users ADD age int",
		"DELETE FROM orders",
		"",
	} {
		assert.Equal(t, []string{q}, rw.Rewrite(q), q)
		assert.Equal(t, q, rw.Transform(q), q)
	}
}

func TestRewriteForUpdate(t *testing.T) {
	rw := NewRewriter(AllRules)
	for _, q := range []string{
		"SELECT * FROM accounts WHERE id = 1 FOR UPDATE",
		"select * from accounts for update",
		"Select id From accounts FOR   UPDATE",
		"SELECT id FROM accounts FOR\n\tUPDATE",
		"SELECT id FROM accounts\nFOR UPDATE",
		"SELECT id\nFROM accounts FOR UPDATE",
		"SELECT id FROM accounts\tFOR UPDATE",
		"select id\r\nfrom accounts\r\nfor update",
	} {
		assert.Equal(t, []string{q + ";commit;"}, rw.Rewrite(q), q)
		assert.Equal(t, q+";commit;", rw.Transform(q), q)
	}
}

func TestRewriteForUpdateIdempotent(t *testing.T) {
	rw := NewRewriter(AllRules)
	q := rw.Transform("SELECT * FROM t FOR UPDATE")
	assert.Equal(t, q, rw.Transform(q))
}

func TestRewriteIdentityInsert(t *testing.T) {
	rw := NewRewriter(AllRules)
	tests := []struct {
		query string
		table string
	}{
		{`INSERT INTO users ("ID", "NAME") VALUES (1, 'a')`, "users"},
		{`insert into "USERS"("ID","NAME") values (1, 'a')`, `"USERS"`},
		{`INSERT INTO s.users ("ID", "A") VALUES (7, 8)`, "s.users"},
		{"INSERT INTO t (\"ID\", \"A\")\nVALUES (1, 2)", "t"},
		{"INSERT INTO t (\"ID\", \"A\")\tVALUES (1, 2)", "t"},
		{"INSERT INTO t\n( \"ID\" ,\n\"A\")\nVALUES\n(1, 2)", "t"},
	}
	for _, tt := range tests {
		want := "SET IDENTITY_INSERT " + tt.table + " ON;" + tt.query + ";SET IDENTITY_INSERT " + tt.table + " OFF;"
		assert.Equal(t, []string{want}, rw.Rewrite(tt.query), tt.query)
		// Wrapping twice leaves the statement as is.
		assert.Equal(t, want, rw.Transform(want))
	}
}

func TestRewriteModify(t *testing.T) {
	rw := NewRewriter(AllRules)
	stmts := rw.Rewrite(`ALTER TABLE "USERS" MODIFY "AGE" int NOT NULL`)
	require.Len(t, stmts, 4)
	assert.Equal(t, []string{
		`alter table "USERS" add "AGE1" int NOT NULL;`,
		`update "USERS" set "AGE1"="AGE";`,
		`alter table "USERS" drop column "AGE";`,
		`alter table "USERS" rename column "AGE1" to "AGE";`,
	}, stmts)

	// Rewriting the decomposed statements is a no-op.
	for _, s := range stmts {
		assert.False(t, IsModifyColumn(s), s)
		assert.Equal(t, []string{s}, rw.Rewrite(s))
	}
}

func TestRewriteModifyUnquoted(t *testing.T) {
	stmts := NewRewriter(AllRules).Rewrite("alter table users modify age varchar(10) DEFAULT 'x' NOT NULL")
	assert.Equal(t, []string{
		"alter table users add age1 varchar(10) DEFAULT 'x' NOT NULL;",
		"update users set age1=age;",
		"alter table users drop column age;",
		"alter table users rename column age1 to age;",
	}, stmts)
}

func TestRewriteModifyMultiline(t *testing.T) {
	stmts := NewRewriter(AllRules).Rewrite("ALTER TABLE users\nMODIFY age int\n\tNOT NULL")
	assert.Equal(t, []string{
		"alter table users add age1 int NOT NULL;",
		"update users set age1=age;",
		"alter table users drop column age;",
		"alter table users rename column age1 to age;",
	}, stmts)
}

func TestRewriteModifyTypeOnly(t *testing.T) {
	stmts := NewRewriter(AllRules).Rewrite(`ALTER TABLE t MODIFY "C" text `)
	assert.Equal(t, `alter table t add "C1" text;`, stmts[0])
}

func TestRewriteModifyPrecedence(t *testing.T) {
	// A statement matching every rule is only decomposed.
	q := `ALTER TABLE t MODIFY "C" int NOT NULL SELECT x FOR UPDATE INSERT INTO t ("ID", x) VALUES (1)`
	stmts := NewRewriter(AllRules).Rewrite(q)
	require.Len(t, stmts, 4)
	for _, s := range stmts {
		assert.NotContains(t, s, ";commit;")
		assert.NotContains(t, s, "IDENTITY_INSERT")
	}
}

func TestRewriteModifyMalformed(t *testing.T) {
	// Missing captures are rendered empty and the connector rejects the result.
	stmts := NewRewriter(AllRules).Rewrite("ALTER x MODIFY  ")
	require.Len(t, stmts, 4)
	assert.Equal(t, "alter table  add 1 ;", stmts[0])
}

func TestRewriteFlags(t *testing.T) {
	rw := NewRewriter(RewriteFlags{})
	for _, q := range []string{
		"SELECT * FROM t FOR UPDATE",
		`INSERT INTO t ("ID", x) VALUES (1, 2)`,
		"ALTER TABLE t MODIFY c int NOT NULL",
	} {
		assert.Equal(t, []string{q}, rw.Rewrite(q))
	}
	assert.Equal(t, RewriteFlags{}, rw.Flags())

	rw = NewRewriter(RewriteFlags{IdentityInsert: true})
	assert.Equal(t, "SELECT * FROM t FOR UPDATE", rw.Transform("SELECT * FROM t FOR UPDATE"))
	assert.Equal(t, `SET IDENTITY_INSERT t ON;INSERT INTO t ("ID", x) VALUES (1, 2);SET IDENTITY_INSERT t OFF;`,
		rw.Transform(`INSERT INTO t ("ID", x) VALUES (1, 2)`))
}

func TestTransformNeverDecomposes(t *testing.T) {
	q := "ALTER TABLE t MODIFY c int NOT NULL"
	assert.Equal(t, q, NewRewriter(AllRules).Transform(q))
}

func TestTempColumnName(t *testing.T) {
	assert.Equal(t, `"AGE1"`, TempColumnName(`"AGE"`))
	assert.Equal(t, "age1", TempColumnName("age"))
	assert.Equal(t, "1", TempColumnName(""))
}

func TestRules(t *testing.T) {
	assert.Equal(t, RuleForUpdate, ForUpdateRule.Name)
	assert.Equal(t, RuleIdentityInsert, IdentityInsertRule.Name)
	assert.True(t, ForUpdateRule.Match("select 1 from dual for update"))
	assert.False(t, ForUpdateRule.Match("select 1 from dual"))
	assert.True(t, IdentityInsertRule.Match(`INSERT INTO t ("ID", "A") VALUES (1, 2)`))
	assert.False(t, IdentityInsertRule.Match(`INSERT INTO t ("A") VALUES (2)`))
}
