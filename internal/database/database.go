// Package database opens and releases PostgreSQL connections.
//
// There is no connection pool: Database holds a parsed pgx connection
// config and hands out one fresh connection per request through WithConn,
// closing it again whatever the outcome of the request was.
//
// It also wires query tracing into every connection: SQL logging through
// pgx tracelog in the local environment, New Relic instrumentation
// (nrpgx5) when New Relic is configured, and slow query warnings.
package database

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"

	"github.com/deppfellow/gym-api/internal/config"
	loggerConfig "github.com/deppfellow/gym-api/internal/logger"
	"github.com/deppfellow/gym-api/internal/metrics"
)

// ErrUnavailable is wrapped around every failure to open a connection.
var ErrUnavailable = errors.New("database unavailable")

// Querier is the subset of *pgx.Conn that repositories use.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Provider hands out one connection for the duration of fn and releases
// it afterwards. If the connection cannot be opened fn is not called and
// the returned error wraps ErrUnavailable.
type Provider interface {
	WithConn(ctx context.Context, fn func(q Querier) error) error
}

// Database is the connection provider backed by a parsed pgx config.
type Database struct {
	connConfig *pgx.ConnConfig
	log        *zerolog.Logger
}

// multiTracer chains several pgx tracers.
//
// pgx only has a single Tracer slot in ConnConfig, so New Relic, the local
// SQL logger and the slow query tracer are combined here. Each tracer is
// called only for the hooks it implements.
type multiTracer struct {
	tracers []any
}

func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryStart(context.Context, *pgx.Conn, pgx.TraceQueryStartData) context.Context
		}); ok {
			ctx = t.TraceQueryStart(ctx, conn, data)
		}
	}
	return ctx
}

func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryEnd(context.Context, *pgx.Conn, pgx.TraceQueryEndData)
		}); ok {
			t.TraceQueryEnd(ctx, conn, data)
		}
	}
}

// DatabasePingTimeout is the number of seconds to wait for the startup
// ping before considering the database unreachable.
const DatabasePingTimeout = 10

// closeTimeout bounds the graceful close of a request connection.
const closeTimeout = 5 * time.Second

// DSN builds the postgres URL for cfg. The password is URL-escaped so
// characters like '@' or ':' cannot break the URL structure.
func DSN(cfg *config.DatabaseConfig) string {
	hostPort := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		url.QueryEscape(cfg.User),
		url.QueryEscape(cfg.Password),
		hostPort,
		cfg.Name,
		cfg.SSLMode,
	)
}

// NewProvider parses the connection config and attaches tracers. It does
// not connect.
func NewProvider(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	connConfig, err := pgx.ParseConfig(DSN(&cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx config: %w", err)
	}

	if cfg.Database.ConnectTimeout > 0 {
		connConfig.ConnectTimeout = cfg.Database.ConnectTimeout
	}

	var tracers []any

	if loggerService.GetApplication() != nil {
		tracers = append(tracers, nrpgx5.NewTracer())
	}

	// SQL statement logging is noisy, so only local development gets it.
	if cfg.Primary.Env == "local" {
		globalLevel := logger.GetLevel()
		pgxLogger := loggerConfig.NewPgxLogger(globalLevel)
		tracers = append(tracers, &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(pgxLogger),
			LogLevel: loggerConfig.GetPgxTraceLogLevel(globalLevel),
		})
	}

	if cfg.Observability != nil && cfg.Observability.Logging.SlowQueryThreshold > 0 {
		tracers = append(tracers, &slowQueryTracer{
			threshold: cfg.Observability.Logging.SlowQueryThreshold,
			log:       logger,
		})
	}

	switch len(tracers) {
	case 0:
	case 1:
		connConfig.Tracer = tracers[0].(pgx.QueryTracer)
	default:
		connConfig.Tracer = &multiTracer{tracers: tracers}
	}

	return &Database{
		connConfig: connConfig,
		log:        logger,
	}, nil
}

// New builds the provider and pings the database once, so startup fails
// fast on bad credentials or an unreachable host.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	db, err := NewProvider(cfg, logger, loggerService)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().
		Str("host", cfg.Database.Host).
		Str("database", cfg.Database.Name).
		Msg("connected to the database")

	return db, nil
}

// Connect opens a new connection. Callers own the connection and must
// close it; request code should use WithConn instead.
func (db *Database) Connect(ctx context.Context) (*pgx.Conn, error) {
	conn, err := pgx.ConnectConfig(ctx, db.connConfig.Copy())
	if err != nil {
		metrics.RecordConnectionFailure()
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	metrics.RecordConnectionOpened()
	return conn, nil
}

// WithConn opens one connection, runs fn with it and always closes it.
func (db *Database) WithConn(ctx context.Context, fn func(q Querier) error) error {
	conn, err := db.Connect(ctx)
	if err != nil {
		return err
	}
	defer db.release(ctx, conn)

	return fn(conn)
}

// release closes conn even when the request context is already cancelled.
func (db *Database) release(ctx context.Context, conn *pgx.Conn) {
	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
	defer cancel()

	if err := conn.Close(closeCtx); err != nil {
		db.log.Warn().Err(err).Msg("failed to close database connection")
	}
	metrics.RecordConnectionClosed()
}

// Ping opens a connection, pings the server and closes the connection.
func (db *Database) Ping(ctx context.Context) error {
	return db.WithConn(ctx, func(q Querier) error {
		_, err := q.Exec(ctx, "SELECT 1")
		return err
	})
}

// Close releases provider resources. Connections are per request, so
// there is nothing left open at this point.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database provider")
	return nil
}

// slowQueryTracer logs statements that take longer than threshold.
type slowQueryTracer struct {
	threshold time.Duration
	log       *zerolog.Logger
}

type slowQueryStartKey struct{}

type slowQueryStart struct {
	at  time.Time
	sql string
}

func (t *slowQueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, slowQueryStartKey{}, slowQueryStart{at: time.Now(), sql: data.SQL})
}

func (t *slowQueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(slowQueryStartKey{}).(slowQueryStart)
	if !ok {
		return
	}

	elapsed := time.Since(start.at)
	if elapsed < t.threshold {
		return
	}

	loggerConfig.FromContext(ctx, t.log).Warn().
		Dur("duration", elapsed).
		Dur("threshold", t.threshold).
		Str("sql", start.sql).
		Str("command_tag", data.CommandTag.String()).
		Err(data.Err).
		Msg("slow query")
}
