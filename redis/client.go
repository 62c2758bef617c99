package redis

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/accessorkit/errors"
	"github.com/kbukum/accessorkit/logger"
	"github.com/kbukum/accessorkit/observability"
)

// Item is a plain key/value write used by the Multi* calls.
type Item struct {
	Key   string
	Value string
	TTL   time.Duration
}

// HashItem is a hash write used by MultiHMSetExpire.
type HashItem struct {
	Key    string
	Fields map[string]string
	TTL    time.Duration
}

// Client is the Redis accessor. Every command borrows a dedicated pooled
// connection and goes through the reauth guard.
type Client struct {
	cfg     Config
	log     *logger.Logger
	guard   *Guard
	metrics *observability.Metrics

	mu          sync.RWMutex
	rdb         *goredis.Client
	lastOpenErr error
}

// New creates a Redis accessor. No connection is made until Open.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("redis config: %w", err)
	}
	log = logger.OrDefault(log, backendName)
	routeDriverLogs(log)
	return &Client{
		cfg:     cfg,
		log:     log,
		guard:   NewGuard(cfg.Username, cfg.Password, cfg.DB, log),
		metrics: observability.DefaultMetrics(),
	}, nil
}

func (c *Client) options() *goredis.Options {
	opts := &goredis.Options{
		Addr:            c.cfg.Addr(),
		Protocol:        2,
		PoolSize:        c.cfg.PoolSize,
		MinIdleConns:    c.cfg.MinIdleConns,
		MaxRetries:      -1,
		DisableIdentity: true,
		DialTimeout:     parseDuration(c.cfg.DialTimeout),
		ReadTimeout:     parseDuration(c.cfg.ReadTimeout),
		WriteTimeout:    parseDuration(c.cfg.WriteTimeout),
		ConnMaxIdleTime: parseDuration(c.cfg.ConnMaxIdleTime),

		// One dial per connection. The pool still sleeps DialerRetryTimeout
		// after a failed dial, so keep it negligible.
		DialerRetries:      1,
		DialerRetryTimeout: time.Nanosecond,
	}
	if !c.cfg.LazyAuth {
		opts.Username = c.cfg.Username
		opts.Password = c.cfg.Password
		opts.DB = c.cfg.DB
		return opts
	}

	// Connections start unauthenticated. SELECT is attempted up front and
	// left to the guard when the server wants a login first.
	db := c.cfg.DB
	opts.OnConnect = func(ctx context.Context, cn *goredis.Conn) error {
		if db == 0 {
			return nil
		}
		if err := cn.Select(ctx, db).Err(); err != nil && !isNoAuth(err) {
			return err
		}
		return nil
	}
	return opts
}

// Open makes a single connection attempt and verifies it with PING through
// the guard. A failure is returned and also kept: later operations report
// it as OPEN_FAILURE until the next successful Open. The dial runs without
// holding the client lock.
func (c *Client) Open(ctx context.Context) error {
	if c.IsOpen() {
		return nil
	}

	rdb := goredis.NewClient(c.options())
	conn := rdb.Conn()
	_, err := c.guard.Dispatch(ctx, conn, "PING")
	_ = conn.Close()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rdb != nil {
		// a concurrent Open won
		_ = rdb.Close()
		return nil
	}
	if err != nil {
		_ = rdb.Close()
		c.lastOpenErr = err
		c.log.Warn("Redis open failed", logger.Fields(
			"addr", c.cfg.Addr(),
			logger.FieldError, err.Error(),
		))
		return errors.OpenFailure(backendName, err)
	}

	c.rdb = rdb
	c.lastOpenErr = nil
	c.log.Info("Redis connection opened", logger.Fields(
		"addr", c.cfg.Addr(),
		"db", c.cfg.DB,
		"lazy_auth", c.cfg.LazyAuth,
	))
	return nil
}

// LastOpenError returns the cause of the last failed Open, or nil.
func (c *Client) LastOpenError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastOpenErr
}

// IsOpen reports whether a connection pool is established.
func (c *Client) IsOpen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rdb != nil
}

// Close releases the pool. Safe to call multiple times. A closed client
// behaves like one that was never opened.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastOpenErr = nil
	if c.rdb == nil {
		return nil
	}
	c.log.Info("Closing Redis connection")
	err := c.rdb.Close()
	c.rdb = nil
	return err
}

func (c *Client) requireOpen() (*goredis.Client, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.rdb != nil {
		return c.rdb, nil
	}
	if c.lastOpenErr != nil {
		return nil, errors.OpenFailure(backendName, c.lastOpenErr)
	}
	return nil, errors.ConnectionNotOpen(backendName)
}

// withConn borrows one pooled connection for the duration of fn.
func (c *Client) withConn(ctx context.Context, operation string, fn func(conn *goredis.Conn) error) error {
	rdb, err := c.requireOpen()
	if err != nil {
		return err
	}

	start := time.Now()
	conn := rdb.Conn()
	err = wrapError(operation, fn(conn))
	_ = conn.Close()

	status := "ok"
	if err != nil {
		status = "error"
		c.metrics.RecordError(ctx, backendName, string(errors.CodeOf(err)))
		c.log.Debug("Redis operation failed", logger.Fields(
			logger.FieldOperation, operation,
			logger.FieldError, err.Error(),
		))
	}
	c.metrics.RecordOperation(ctx, backendName, operation, status, time.Since(start))
	return err
}

func (c *Client) dispatch(ctx context.Context, operation string, args ...interface{}) (interface{}, error) {
	var reply interface{}
	err := c.withConn(ctx, operation, func(conn *goredis.Conn) error {
		v, err := c.guard.Dispatch(ctx, conn, args...)
		if err == goredis.Nil {
			return nil
		}
		reply = v
		return err
	})
	return reply, err
}

// Ping checks the connection.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.dispatch(ctx, "ping", "PING")
	return err
}

// Get returns the value of key. found is false when the key does not exist.
func (c *Client) Get(ctx context.Context, key string) (value string, found bool, err error) {
	reply, err := c.dispatch(ctx, "get", "GET", key)
	if err != nil || reply == nil {
		return "", false, err
	}
	s, err := toString("get", reply)
	return s, err == nil, err
}

// SetEx stores value under key with a TTL of whole seconds.
func (c *Client) SetEx(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl < time.Second {
		return errors.InvalidInput("ttl", "ttl must be at least one second")
	}
	_, err := c.dispatch(ctx, "setex", "SETEX", key, seconds(ttl), value)
	return err
}

// SetNX stores value under key only if key does not exist and reports
// whether it was stored.
func (c *Client) SetNX(ctx context.Context, key, value string) (bool, error) {
	reply, err := c.dispatch(ctx, "setnx", "SETNX", key, value)
	if err != nil {
		return false, err
	}
	return toBool("setnx", reply)
}

// Expire sets a TTL on key and reports whether the key exists.
func (c *Client) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if ttl < time.Second {
		return false, errors.InvalidInput("ttl", "ttl must be at least one second")
	}
	reply, err := c.dispatch(ctx, "expire", "EXPIRE", key, seconds(ttl))
	if err != nil {
		return false, err
	}
	return toBool("expire", reply)
}

// HMSet writes the given hash fields.
func (c *Client) HMSet(ctx context.Context, key string, fields map[string]string) error {
	if len(fields) == 0 {
		return errors.InvalidInput("fields", "no hash fields given")
	}
	args := []interface{}{"HMSET", key}
	for _, a := range sortedFieldArgs(fields) {
		args = append(args, a)
	}
	_, err := c.dispatch(ctx, "hmset", args...)
	return err
}

// HGetAll returns all fields of a hash; a missing key yields an empty map.
func (c *Client) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	reply, err := c.dispatch(ctx, "hgetall", "HGETALL", key)
	if err != nil {
		return nil, err
	}
	return toStringMap("hgetall", reply)
}

// Batch sends entries as one pipeline through the guard. See Build for the
// command mapping. An empty batch succeeds without a round trip.
func (c *Client) Batch(ctx context.Context, entries []BatchEntry) error {
	if _, err := c.requireOpen(); err != nil {
		return err
	}
	p, err := Build(entries)
	if err != nil {
		return err
	}
	if p.Len() == 0 {
		return nil
	}
	return c.withConn(ctx, "batch", func(conn *goredis.Conn) error {
		return c.guard.DispatchPipeline(ctx, conn, p)
	})
}

// MultiSetEx writes every item with SETEX in one pipeline.
func (c *Client) MultiSetEx(ctx context.Context, items []Item) error {
	entries := make([]BatchEntry, 0, len(items))
	for _, it := range items {
		if it.TTL <= 0 {
			return errors.InvalidInput("ttl", "SETEX needs a positive ttl").WithDetail("key", it.Key)
		}
		entries = append(entries, BatchEntry{Key: it.Key, Value: it.Value, TTL: it.TTL})
	}
	return c.Batch(ctx, entries)
}

// MultiSetNX writes every item with SETNX in one pipeline. TTLs are ignored.
func (c *Client) MultiSetNX(ctx context.Context, items []Item) error {
	entries := make([]BatchEntry, 0, len(items))
	for _, it := range items {
		entries = append(entries, BatchEntry{Key: it.Key, Value: it.Value, OnlyIfAbsent: true})
	}
	return c.Batch(ctx, entries)
}

// MultiSetNXExpire writes every item with SETNX followed by EXPIRE.
func (c *Client) MultiSetNXExpire(ctx context.Context, items []Item) error {
	entries := make([]BatchEntry, 0, len(items))
	for _, it := range items {
		if it.TTL <= 0 {
			return errors.InvalidInput("ttl", "EXPIRE needs a positive ttl").WithDetail("key", it.Key)
		}
		entries = append(entries, BatchEntry{Key: it.Key, Value: it.Value, TTL: it.TTL, OnlyIfAbsent: true})
	}
	return c.Batch(ctx, entries)
}

// MultiHMSetExpire writes every hash with HMSET followed by EXPIRE.
func (c *Client) MultiHMSetExpire(ctx context.Context, items []HashItem) error {
	entries := make([]BatchEntry, 0, len(items))
	for _, it := range items {
		if it.TTL <= 0 {
			return errors.InvalidInput("ttl", "EXPIRE needs a positive ttl").WithDetail("key", it.Key)
		}
		if len(it.Fields) == 0 {
			return errors.InvalidInput("fields", "no hash fields given").WithDetail("key", it.Key)
		}
		entries = append(entries, BatchEntry{Key: it.Key, Fields: it.Fields, TTL: it.TTL})
	}
	return c.Batch(ctx, entries)
}

// Unwrap returns the underlying go-redis client, or nil when not open.
func (c *Client) Unwrap() *goredis.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rdb
}

func seconds(d time.Duration) string {
	return strconv.FormatInt(int64(d/time.Second), 10)
}

func toString(op string, v interface{}) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	case int64:
		return strconv.FormatInt(s, 10), nil
	default:
		return "", errors.DecodeFailure(op, fmt.Errorf("unexpected reply type %T", v))
	}
}

func toBool(op string, v interface{}) (bool, error) {
	switch b := v.(type) {
	case int64:
		return b == 1, nil
	case bool:
		return b, nil
	default:
		return false, errors.DecodeFailure(op, fmt.Errorf("unexpected reply type %T", v))
	}
}

// toStringMap accepts both the RESP2 flat array and the RESP3 map reply.
func toStringMap(op string, v interface{}) (map[string]string, error) {
	out := make(map[string]string)
	switch r := v.(type) {
	case nil:
		return out, nil
	case []interface{}:
		if len(r)%2 != 0 {
			return nil, errors.DecodeFailure(op, fmt.Errorf("odd number of elements: %d", len(r)))
		}
		for i := 0; i < len(r); i += 2 {
			k, err := toString(op, r[i])
			if err != nil {
				return nil, err
			}
			val, err := toString(op, r[i+1])
			if err != nil {
				return nil, err
			}
			out[k] = val
		}
	case map[interface{}]interface{}:
		for k, val := range r {
			ks, err := toString(op, k)
			if err != nil {
				return nil, err
			}
			vs, err := toString(op, val)
			if err != nil {
				return nil, err
			}
			out[ks] = vs
		}
	default:
		return nil, errors.DecodeFailure(op, fmt.Errorf("unexpected reply type %T", v))
	}
	return out, nil
}
