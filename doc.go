// Package fluentdb provides a small single-table query builder over database/sql.
//
// fluentdb turns structured CRUD intents into parameterized SQL for SQLite, MySQL and
// PostgreSQL. Identifiers are validated and quoted; values are always bound as
// parameters. Predicates are raw SQL text written with "?" placeholders.
//
// # Quick Start
//
//	db, err := fluentdb.Connect(ctx, "sqlite", "projectdb.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	projects := db.Table("projectdb")
//
// # Select Queries
//
// Select and SelectRecords return lazy sequences. Each range runs the query again;
// breaking out of the loop closes the result set.
//
//	for rec, err := range projects.SelectRecords(ctx, fluentdb.Query{
//	    Fields: []string{"name", "status"},
//	    Where:  fluentdb.NewWhere("`status` = ?", "RUNNING"),
//	    Order:  "updatetime DESC",
//	    Limit:  10,
//	}) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(rec["name"], rec["status"])
//	}
//
// A Limit of zero emits no LIMIT clause at all.
//
// # Insert, Replace, Update, Delete
//
//	values := fluentdb.NewValues(fluentdb.F("name", "crawler"), fluentdb.F("status", "TODO"))
//
//	id, err := projects.Insert(ctx, values)
//	id, err = projects.Key("name").Replace(ctx, values)
//
//	res, err := projects.Update(ctx,
//	    fluentdb.NewWhere("`name` = ?", "crawler"),
//	    fluentdb.NewValues(fluentdb.F("status", "RUNNING")),
//	)
//
//	res, err = projects.Delete(ctx, fluentdb.NewWhere("`name` = ?", "crawler"))
//
// Update and Delete with a zero Where compile to "WHERE 1=0" and touch no rows.
//
// # Errors
//
// Driver errors are wrapped in *QueryError, which unwraps to the original error.
// IsConstraintViolation recognises unique and primary-key violations of all three
// backends.
//
// # Transactions
//
//	err := db.Transaction(ctx, func(tx *fluentdb.Tx) error {
//	    _, err := tx.Table("projectdb").Delete(ctx, fluentdb.NewWhere("`name` = ?", "old"))
//	    return err
//	})
//
// # Thread Safety
//
// DB is safe for concurrent use when it wraps a *sql.DB. Builder setters (Key, Table)
// are not; compile and execute methods are.
//
// # Supported Databases
//
//   - SQLite (modernc.org/sqlite)
//   - MySQL / MariaDB (github.com/go-sql-driver/mysql)
//   - PostgreSQL (github.com/jackc/pgx/v5/stdlib)
package fluentdb
