// Package sql executes generic SQL against a DBMS through database/sql,
// adapting statements to the dialect on the way in and results to a
// canonical row/column form on the way out.
//
// # Rewriting
//
// Statements are rewritten by pattern matching, not parsing:
//
//	SELECT * FROM t WHERE id = 1 FOR UPDATE
//	    -> SELECT * FROM t WHERE id = 1 FOR UPDATE;commit;
//
//	INSERT INTO t ("ID", "NAME") VALUES (1, 'a')
//	    -> SET IDENTITY_INSERT t ON;INSERT INTO t ("ID", "NAME") VALUES (1, 'a');SET IDENTITY_INSERT t OFF;
//
//	ALTER TABLE t MODIFY "NAME" text NOT NULL
//	    -> alter table t add "NAME1" text NOT NULL;
//	       update t set "NAME1"="NAME";
//	       alter table t drop column "NAME";
//	       alter table t rename column "NAME1" to "NAME";
//
// The MODIFY decomposition runs as four independent statements. If one of
// them fails, the earlier ones stay applied unless an open transaction
// covers them.
//
// # Executing
//
// A Driver holds one connection taken from a *sql.DB:
//
//	drv, err := sql.Open(ctx, "mysql", dsn, sql.WithDialect(dialect.DM))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
//	n, err := drv.Exec(ctx, `UPDATE "USERS" SET "NAME" = 'x' WHERE "ID" = 1`)
//	rs, err := drv.Query(ctx, `SELECT "ID", "NAME" FROM "USERS"`)
//	for i := range rs.Rows {
//	    v, _ := rs.Value(i, "name")
//	}
//
// Exec returns the rows affected by the last executed statement. Query
// closes the driver cursor before returning, folds column names with the
// connection's CaseConvention and runs the TypeCastFunc hook.
//
// # Quoting
//
//	q := drv.Quoter()
//	q.QuoteString("O'Brien")          // O''Brien
//	q.QuoteIdentifier("orders.amount") // "ORDERS"."AMOUNT"
//	q.QuotedDate(sql.DateOf(t))        // 2024-01-02
//
// # Transactions
//
//	if err := drv.Begin(ctx); err != nil { ... }
//	...
//	err = drv.Commit() // or drv.Rollback()
//
// Nested transactions are not supported: Begin on an open transaction
// returns odbcadapter.ErrTxStarted.
package sql
