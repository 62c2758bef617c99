// Package testutil provides the shared test harness for accessorkit.
//
// TestComponent extends component.Component with Reset, Snapshot and
// Restore so in-memory backends (see redis/testutil and
// database/testutil) can be shared across test cases:
//
//	func TestFeature(t *testing.T) {
//	    redis := redistest.NewComponent()
//	    testutil.T(t).Setup(redis)
//	    // stopped automatically when the test ends
//	}
//
// Env is the explicit test environment map for tests against live
// servers. It is loaded from test_env.config (or the file named by
// ACCESSORKIT_TEST_ENV) and passed to the helpers that need it; tests skip
// when the keys they need are absent:
//
//	env := testutil.FindEnv(t)
//	env.Require(t, "redis.host", "redis.port")
package testutil
