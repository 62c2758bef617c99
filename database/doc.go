// Package database is the MySQL accessor: a GORM handle over
// go-sql-driver/mysql that runs raw SQL and returns untyped rows.
//
// Open makes one connection attempt. A failure does not panic or retry;
// the cause is kept and every later ExecuteSQL reports it as
// OPEN_FAILURE. With LazyConnect set, the first ExecuteSQL opens the
// connection when Open was never called.
//
//	db, _ := database.New(database.Config{Database: "app"}, log)
//	_ = db.Open(ctx)
//	rows, err := db.ExecuteSQL(ctx, "SELECT id, name FROM users")
//
// Tests swap the dialector with WithDialector(sqlite.Open(...)).
package database
