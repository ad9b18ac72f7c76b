// Package testutil starts the database the postgres tests run against
// and builds fixtures shared by repository and e2e tests.
package testutil

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/nkiryanov/streamhub/internal/db"
	"github.com/nkiryanov/streamhub/internal/models"
)

// DatabaseEnv points tests to an already running database instead of a container
const DatabaseEnv = "STREAMHUB_TEST_DATABASE_URI"

// Fixture password hash. Repositories store whatever they are given
const FixturePasswordHash = "$2a$04$fixture.hash.not.a.real.bcrypt.value"

type Postgres struct {
	DSN  string
	Pool *pgxpool.Pool
}

// StartPostgres returns migrated database, closed when the test ends.
// Uses DatabaseEnv when set, otherwise runs postgres in docker; without docker the test is skipped
func StartPostgres(t *testing.T) Postgres {
	t.Helper()

	dsn := os.Getenv(DatabaseEnv)
	if dsn == "" {
		dsn = runContainer(t)
	}

	pool, err := db.ConnectAndMigrate(t.Context(), dsn)
	require.NoError(t, err, "Error happened when connecting to postgres and migrating schema")
	t.Cleanup(pool.Close)

	return Postgres{DSN: dsn, Pool: pool}
}

func runContainer(t *testing.T) string {
	t.Helper()

	out, err := exec.Command("docker", "info", "--format", "{{.ServerVersion}}").CombinedOutput()
	if err != nil {
		t.Skipf("docker not available and %s not set, skip postgres tests. Out: %s", DatabaseEnv, out)
	}

	port, err := RandomPort()
	require.NoError(t, err, "Error happened when acquiring random port to start postgres")

	container, err := postgres.Run(t.Context(),
		"postgres:17-alpine",
		postgres.WithDatabase("streamhub-test"),
		postgres.WithUsername("streamhub"),
		postgres.WithPassword("pwd"),
		postgres.BasicWaitStrategies(),
		testcontainers.CustomizeRequestOption(func(req *testcontainers.GenericContainerRequest) error {
			req.ExposedPorts = []string{fmt.Sprintf("%d:5432", port)}
			return nil
		}),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err, "Error happened when starting container with postgres")

	dsn, err := container.ConnectionString(t.Context(), "sslmode=disable")
	require.NoError(t, err, "Error happened when getting connection string from container with postgres")
	t.Logf("Container with pg started, DSN=%v", dsn)

	return dsn
}

type beginner interface {
	Begin(context.Context) (pgx.Tx, error)
}

// WithTx runs testFunc in transaction rolled back at the end,
// so tests sharing one database never see each other's rows
func WithTx(conn beginner, t *testing.T, testFunc func(tx pgx.Tx)) {
	t.Helper()

	tx, err := conn.Begin(t.Context())
	require.NoError(t, err)

	defer func() {
		err := tx.Rollback(context.WithoutCancel(t.Context()))
		require.NoError(t, err)
	}()

	testFunc(tx)
}

// RandomPort returns free port on 127.0.0.1
func RandomPort() (int, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:")
	if err != nil {
		return 0, err
	}
	defer ln.Close() // nolint:errcheck

	return ln.Addr().(*net.TCPAddr).Port, nil
}

// ListenAddr is "localhost:<free port>" to start a server on
func ListenAddr(t *testing.T) string {
	t.Helper()

	port, err := RandomPort()
	require.NoError(t, err, "failed to get random port to start server")
	return fmt.Sprintf("localhost:%d", port)
}

// Account is stored account data with fixture hash
func Account(email string, role models.Role) models.AccountCreate {
	return models.AccountCreate{
		Email:        models.NormalizeEmail(email),
		Name:         "Tester",
		PasswordHash: FixturePasswordHash,
		Role:         role,
	}
}

// Video is minimal valid video
func Video(title string) models.VideoCreate {
	return models.VideoCreate{Title: title, Description: title + " description", DurationSeconds: 3600, Genre: "Drama"}
}
