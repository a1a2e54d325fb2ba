package testutil

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const postgresImage = "postgres:16-alpine"

var (
	containerOnce sync.Once
	container     *postgres.PostgresContainer
	containerDSN  string
	containerErr  error
)

// DSN returns the connection string of the integration database:
// TEST_DATABASE_URL when set, otherwise a Postgres container started on first
// use when TEST_CONTAINERS=1. An empty string means no database is available.
// The container is shared by every test in the binary; call Terminate from
// TestMain once m.Run returns.
func DSN(ctx context.Context) (string, error) {
	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		return dsn, nil
	}
	if os.Getenv("TEST_CONTAINERS") != "1" {
		return "", nil
	}

	containerOnce.Do(func() {
		container, containerErr = postgres.Run(ctx,
			postgresImage,
			postgres.WithDatabase("travel"),
			postgres.WithUsername("travel"),
			postgres.WithPassword("travel"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
			),
		)
		if containerErr != nil {
			containerErr = fmt.Errorf("testutil.DSN: start postgres: %w", containerErr)
			return
		}
		containerDSN, containerErr = container.ConnectionString(ctx, "sslmode=disable")
		if containerErr != nil {
			containerErr = fmt.Errorf("testutil.DSN: connection string: %w", containerErr)
		}
	})
	return containerDSN, containerErr
}

// Terminate stops the shared container, if one was started. Safe to call
// when TEST_DATABASE_URL is used or no container was needed.
func Terminate() {
	if container == nil {
		return
	}
	if err := testcontainers.TerminateContainer(container); err != nil {
		fmt.Fprintf(os.Stderr, "testutil.Terminate: %v\n", err)
	}
}
