package redis

import (
	"context"
	"fmt"
	"strconv"

	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/accessorkit/errors"
	"github.com/kbukum/accessorkit/logger"
	"github.com/kbukum/accessorkit/observability"
)

// Conn is the connection surface used by the guard and pipeline dispatch.
// *goredis.Conn satisfies it.
type Conn interface {
	Do(ctx context.Context, args ...interface{}) *goredis.Cmd
	Pipelined(ctx context.Context, fn func(goredis.Pipeliner) error) ([]goredis.Cmder, error)
}

var _ Conn = (*goredis.Conn)(nil)

// AuthState is the per-dispatch progress of the reauth guard.
type AuthState int

const (
	// NotAttempted: the original command has been sent once.
	NotAttempted AuthState = iota
	// Authenticating: the server answered NOAUTH; AUTH and SELECT are in flight.
	Authenticating
	// Retried: login succeeded and the original command was resent.
	Retried
	// Exhausted: login or the retry failed; no further sends.
	Exhausted
)

func (s AuthState) String() string {
	switch s {
	case NotAttempted:
		return "not_attempted"
	case Authenticating:
		return "authenticating"
	case Retried:
		return "retried"
	case Exhausted:
		return "exhausted"
	default:
		return "auth_state(" + strconv.Itoa(int(s)) + ")"
	}
}

const noAuthPrefix = "NOAUTH"

// Guard retries a command once after logging a connection in when the
// server rejects it with NOAUTH. It holds no per-dispatch state, so one
// Guard may serve many connections concurrently, but each dispatch must
// own its connection.
type Guard struct {
	Username string
	Password string
	DB       int

	log *logger.Logger
}

// NewGuard creates a guard that logs in with the given credentials and
// re-selects db.
func NewGuard(username, password string, db int, log *logger.Logger) *Guard {
	return &Guard{
		Username: username,
		Password: password,
		DB:       db,
		log:      logger.OrDefault(log, "redis.reauth"),
	}
}

// Dispatch sends one command through the guard and returns its reply.
// A nil reply (missing key) is returned as goredis.Nil.
func (g *Guard) Dispatch(ctx context.Context, conn Conn, args ...interface{}) (interface{}, error) {
	var reply interface{}
	err := g.run(ctx, conn, commandName(args), func(ctx context.Context) error {
		v, err := conn.Do(ctx, args...).Result()
		reply = v
		return err
	})
	return reply, err
}

// DispatchPipeline sends p through the guard as a single unit: on NOAUTH
// the whole pipeline is resent after login.
func (g *Guard) DispatchPipeline(ctx context.Context, conn Conn, p *Pipeline) error {
	if p.Len() == 0 {
		return nil
	}
	var cmds []goredis.Cmder
	err := g.run(ctx, conn, "PIPELINE", func(ctx context.Context) error {
		var err error
		cmds, err = sendPipeline(ctx, conn, p)
		return err
	})
	return pipelineError(p, cmds, err)
}

// run drives one dispatch through NotAttempted -> Authenticating ->
// Retried, with Exhausted as the terminal failure state. send is called
// at most twice.
func (g *Guard) run(ctx context.Context, conn Conn, name string, send func(context.Context) error) error {
	state := NotAttempted
	err := send(ctx)
	if !isNoAuth(err) {
		return err
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanRedisReauth)
	span.SetAttributes(attribute.String(observability.AttrCommand, name))
	defer func() {
		span.SetAttributes(attribute.String(observability.AttrAuthState, state.String()))
		span.End()
	}()

	state = Authenticating
	g.log.Debug("server requires authentication", logger.Fields(
		logger.FieldCommand, name,
		logger.FieldState, state.String(),
	))
	if authErr := g.login(ctx, conn); authErr != nil {
		state = Exhausted
		span.RecordError(authErr)
		g.log.Warn("re-authentication failed", logger.Fields(
			logger.FieldCommand, name,
			logger.FieldState, state.String(),
			logger.FieldError, authErr.Error(),
		))
		return errors.AuthenticationFailed("re-authentication failed", authErr)
	}

	state = Retried
	err = send(ctx)
	if err == nil || err == goredis.Nil {
		return err
	}

	state = Exhausted
	span.RecordError(err)
	if isNoAuth(err) {
		g.log.Warn("still unauthenticated after login", logger.Fields(
			logger.FieldCommand, name,
			logger.FieldState, state.String(),
		))
		return errors.AuthenticationFailed("server still requires authentication after login", err)
	}
	return err
}

// login sends AUTH [username] password followed by SELECT db.
func (g *Guard) login(ctx context.Context, conn Conn) error {
	auth := []interface{}{"AUTH"}
	if g.Username != "" {
		auth = append(auth, g.Username)
	}
	auth = append(auth, g.Password)
	if err := conn.Do(ctx, auth...).Err(); err != nil {
		return fmt.Errorf("AUTH: %w", err)
	}
	if err := conn.Do(ctx, "SELECT", g.DB).Err(); err != nil {
		return fmt.Errorf("SELECT %d: %w", g.DB, err)
	}
	return nil
}

func isNoAuth(err error) bool {
	return err != nil && goredis.HasErrorPrefix(err, noAuthPrefix)
}

func commandName(args []interface{}) string {
	if len(args) == 0 {
		return ""
	}
	return fmt.Sprint(args[0])
}
