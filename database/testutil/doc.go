// Package testutil provides database test fixtures.
//
// Component runs the real accessor against a private in-memory SQLite
// database and implements testutil.TestComponent:
//
//	db := dbtest.NewComponent().WithSchema("CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)")
//	testutil.T(t).Setup(db)
//	rows, err := db.DB().ExecuteSQL(ctx, "SELECT * FROM users")
//
// LiveConfig reads the mysql.* keys of a testutil.Env for tests against a
// real server.
package testutil
