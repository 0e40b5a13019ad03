// Package sqlquery provides a fluent SELECT builder with typed expressions,
// pluggable SQL dialects and typed result materialization.
//
// # Quick Start
//
//	db, err := sqlquery.Open(ctx, "sqlite3", "file:app.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	q := db.Query().
//	    From("Users", sqlquery.As("u")).
//	    Where("u.Age", 18, sqlquery.GreaterEqual).
//	    Select("u.Id, u.Name")
//
//	users, err := sqlquery.To[[]User](ctx, q)
//
// # Clauses
//
// Select appends to the select list, From replaces the primary table, Join,
// LeftJoin and RightJoin append join clauses and On attaches a condition to
// the most recent join. The Append* methods add raw SQL fragments verbatim.
//
// Where-family calls AND-combine into the predicate tree. And and Or combine a
// prebuilt condition with their own connective, strictly left to right:
//
//	q.Where("A", 1).Or(dialect.Compare("B", dialect.Equal, 2)).And(dialect.Compare("C", dialect.Equal, 3))
//	// WHERE (`A` = ? OR `B` = ?) AND `C` = ?
//
// # Typed Expressions
//
// Package expr builds expression trees over entity types:
//
//	age := expr.Field[User]("Age")
//	q := db.Query().
//	    FromEntity(expr.EntityOf[User](), sqlquery.As("u")).
//	    WhereExpr(expr.And(age.Ge(18), expr.Field[User]("Name").StartsWith("A")))
//
// Shapes the translator cannot map (a bare constant, a comparison with no
// member) are recorded as ErrUnsupportedExpression at the call site.
//
// # Errors
//
// Clause methods never panic. The first error is stored in the Query, visible
// through Err and returned by every terminal operation.
//
// # Execution
//
// To and ToAsync render the current state and execute it on the supplied
// connection, or on a connection acquired from the DB and released afterwards.
// The result shape follows the type parameter: scalar, struct, map[string]any,
// or a slice of those.
//
// # Thread Safety
//
// Query instances are NOT safe for concurrent mutation. Clone a query before
// sharing it between goroutines. Futures returned by ToAsync may be awaited
// from any goroutine.
//
// # Supported Databases
//
//   - MySQL / MariaDB
//   - PostgreSQL
//   - SQLite
//   - SQL Server
package sqlquery
