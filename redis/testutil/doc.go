// Package testutil provides Redis test fixtures.
//
// Component is an in-memory server (miniredis) implementing
// testutil.TestComponent. Config returns a redis.Config pointing at it,
// so the real accessor can be exercised end to end:
//
//	srv := redistest.NewComponent(redistest.WithPassword("secret"), redistest.WithDB(2))
//	testutil.T(t).Setup(srv)
//	client, _ := redis.New(srv.Config(), nil)
//
// LiveConfig reads the redis.* keys of a testutil.Env for tests against a
// real server.
package testutil
