//go:build integration

// Package testsupport starts disposable dependencies for integration tests.
package testsupport

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/deppfellow/gym-api/internal/config"
	"github.com/deppfellow/gym-api/internal/database"
)

const (
	postgresImage = "postgres:16-alpine"
	databaseName  = "gym"
	databaseUser  = "gym"
	databasePass  = "gym"
)

// StartPostgres runs a Postgres container with the schema migrated and
// returns a config pointing at it. The container is removed when t ends.
func StartPostgres(ctx context.Context, t *testing.T) *config.Config {
	t.Helper()

	ctr, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase(databaseName),
		postgres.WithUsername(databaseUser),
		postgres.WithPassword(databasePass),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	host, err := ctr.Host(ctx)
	require.NoError(t, err)

	port, err := ctr.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:               "0",
			ReadTimeout:        5,
			WriteTimeout:       5,
			IdleTimeout:        5,
			CORSAllowedOrigins: []string{"*"},
		},
		Database: config.DatabaseConfig{
			Host:           host,
			Port:           port.Int(),
			User:           databaseUser,
			Password:       databasePass,
			Name:           databaseName,
			SSLMode:        "disable",
			ConnectTimeout: 5 * time.Second,
		},
		Observability: config.DefaultObservabilityConfig(),
	}

	require.NoError(t, waitForDatabase(ctx, database.DSN(&cfg.Database)))

	log := zerolog.Nop()
	require.NoError(t, database.Migrate(ctx, &log, cfg))

	return cfg
}

// TruncateAll empties both tables and resets their id sequences.
func TruncateAll(ctx context.Context, t *testing.T, cfg *config.Config) {
	t.Helper()

	conn, err := pgx.Connect(ctx, database.DSN(&cfg.Database))
	require.NoError(t, err)
	defer conn.Close(ctx)

	_, err = conn.Exec(ctx, "TRUNCATE members, workoutsessions RESTART IDENTITY")
	require.NoError(t, err)
}

func waitForDatabase(ctx context.Context, dsn string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		conn, err := pgx.Connect(ctx, dsn)
		if err == nil {
			err = conn.Ping(ctx)
			conn.Close(ctx)
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}
