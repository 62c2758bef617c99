// Package redis is the key-value accessor built on go-redis.
//
// Single commands (Get, SetEx, SetNX, Expire, HMSet, HGetAll) and batched
// writes (Batch, MultiSetEx, MultiSetNX, MultiSetNXExpire,
// MultiHMSetExpire) each borrow one pooled connection and pass through a
// Guard. When the server answers NOAUTH, the guard sends AUTH and SELECT
// and resends the original command exactly once; a second rejection is a
// terminal AUTHENTICATION_FAILED.
//
// Batched writes are translated by Build into an ordered Pipeline:
//
//	p, _ := redis.Build([]redis.BatchEntry{
//	    {Key: "a", Value: "1", TTL: time.Minute},                   // SETEX a 60 1
//	    {Key: "h", Fields: map[string]string{"f": "v"}, TTL: time.Hour}, // HMSET h f v; EXPIRE h 3600
//	})
//
// A pipeline is sent in one round trip. It is not a transaction: a
// failing command does not undo earlier ones, and failures surface as one
// TRANSPORT_FAILURE for the whole batch.
//
// With Config.LazyAuth the pool opens connections without credentials and
// leaves login entirely to the guard.
package redis
