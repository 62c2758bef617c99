package redis

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/accessorkit/errors"
)

// BatchEntry describes one key's mutation in a batch.
//
// An entry with Fields is a hash write; otherwise Value is written as a
// plain string. A positive TTL adds an expiry in whole seconds.
// OnlyIfAbsent writes the value only when the key does not exist yet.
type BatchEntry struct {
	Key          string
	Value        string
	Fields       map[string]string
	TTL          time.Duration
	OnlyIfAbsent bool
}

// Command is one wire command: its name followed by its arguments.
type Command struct {
	Name string
	Args []string
}

// String renders the command as it would be typed in redis-cli.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

func (c Command) argv() []interface{} {
	argv := make([]interface{}, 0, len(c.Args)+1)
	argv = append(argv, c.Name)
	for _, a := range c.Args {
		argv = append(argv, a)
	}
	return argv
}

// Pipeline is an ordered, immutable list of commands sent in one round trip.
type Pipeline struct {
	cmds []Command
}

// Len returns the number of commands.
func (p *Pipeline) Len() int {
	if p == nil {
		return 0
	}
	return len(p.cmds)
}

// Commands returns a copy of the commands in send order.
func (p *Pipeline) Commands() []Command {
	out := make([]Command, p.Len())
	if p != nil {
		copy(out, p.cmds)
	}
	return out
}

// Build translates entries into a pipeline. Entry k's commands all precede
// entry k+1's, and an expiry always directly follows the write it applies
// to:
//
//	value + TTL          SETEX key secs value
//	value                SET key value
//	fields (+ TTL)       HMSET key f v ... (EXPIRE key secs)
//	only-if-absent (+TTL) SETNX key value (EXPIRE key secs)
//
// Hash fields are emitted in sorted field order.
func Build(entries []BatchEntry) (*Pipeline, error) {
	p := &Pipeline{cmds: make([]Command, 0, len(entries)*2)}
	for i, e := range entries {
		if err := validateEntry(e); err != nil {
			return nil, err.WithDetail("index", i)
		}
		p.cmds = append(p.cmds, entryCommands(e)...)
	}
	return p, nil
}

func validateEntry(e BatchEntry) *errors.AppError {
	switch {
	case e.Key == "":
		return errors.InvalidInput("key", "batch entry key is empty")
	case len(e.Fields) > 0 && e.Value != "":
		return errors.InvalidInput("value", "batch entry has both a value and hash fields").WithDetail("key", e.Key)
	case len(e.Fields) > 0 && e.OnlyIfAbsent:
		return errors.InvalidInput("only_if_absent", "only-if-absent is not supported for hash entries").WithDetail("key", e.Key)
	case e.TTL < 0:
		return errors.InvalidInput("ttl", "ttl must not be negative").WithDetail("key", e.Key)
	case e.TTL > 0 && e.TTL < time.Second:
		return errors.InvalidInput("ttl", "ttl must be at least one second").WithDetail("key", e.Key)
	}
	return nil
}

func entryCommands(e BatchEntry) []Command {
	secs := strconv.FormatInt(int64(e.TTL/time.Second), 10)
	expire := Command{Name: "EXPIRE", Args: []string{e.Key, secs}}

	switch {
	case len(e.Fields) > 0:
		hmset := Command{Name: "HMSET", Args: append([]string{e.Key}, sortedFieldArgs(e.Fields)...)}
		if e.TTL > 0 {
			return []Command{hmset, expire}
		}
		return []Command{hmset}
	case e.OnlyIfAbsent:
		setnx := Command{Name: "SETNX", Args: []string{e.Key, e.Value}}
		if e.TTL > 0 {
			return []Command{setnx, expire}
		}
		return []Command{setnx}
	case e.TTL > 0:
		return []Command{{Name: "SETEX", Args: []string{e.Key, secs, e.Value}}}
	default:
		return []Command{{Name: "SET", Args: []string{e.Key, e.Value}}}
	}
}

func sortedFieldArgs(fields map[string]string) []string {
	names := make([]string, 0, len(fields))
	for f := range fields {
		names = append(names, f)
	}
	sort.Strings(names)

	args := make([]string, 0, len(fields)*2)
	for _, f := range names {
		args = append(args, f, fields[f])
	}
	return args
}

// ExecPipeline sends p over conn in one round trip. An empty pipeline is a
// no-op. Commands are not atomic: a failure in one does not undo earlier
// ones, and any failure is reported as a single TRANSPORT_FAILURE for the
// whole pipeline.
func ExecPipeline(ctx context.Context, conn Conn, p *Pipeline) error {
	if p.Len() == 0 {
		return nil
	}
	cmds, err := sendPipeline(ctx, conn, p)
	return pipelineError(p, cmds, err)
}

func sendPipeline(ctx context.Context, conn Conn, p *Pipeline) ([]goredis.Cmder, error) {
	return conn.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		for _, c := range p.cmds {
			pipe.Do(ctx, c.argv()...)
		}
		return nil
	})
}

func pipelineError(p *Pipeline, cmds []goredis.Cmder, err error) error {
	if err == nil {
		return nil
	}
	if errors.IsAppError(err) {
		return err
	}
	failed := 0
	for _, c := range cmds {
		if c.Err() != nil {
			failed++
		}
	}
	return transportError("pipeline", err).WithDetails(map[string]any{
		"commands": p.Len(),
		"failed":   failed,
	})
}
