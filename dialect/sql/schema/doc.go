// Package schema renders migration operations into dialect DDL and runs
// them through a dialect/sql Driver.
//
// Each dialect has an Adapter record; For picks it by name and falls back
// to Null:
//
//	m := schema.NewMigrator(drv)
//	err := m.Apply(ctx,
//	    schema.RenameColumn{Table: "users", Column: "name", NewName: "full_name"},
//	    schema.ChangeColumn{Table: "users", Column: "bio", Type: "mediumtext",
//	        Options: schema.ColumnOptions{}.NotNull()},
//	    schema.RenameTable{Table: "users", NewName: "members"},
//	)
//
// On DM, changing a column renders ALTER TABLE ... MODIFY, which the driver
// executes as four statements (see dialect/sql). When the change carries
// no default, the current default is looked up first and kept.
//
// Plan returns the statements Apply would execute:
//
//	stmts, err := m.Plan(ctx, ops...)
package schema
