package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	pgRepo "github.com/kitbuilder587/guru-api/internal/repository/postgres"
)

var (
	testDB    *pgRepo.DB
	testRedis *goredis.Client
)

func TestMain(m *testing.M) {
	if os.Getenv("SHORT_TESTS") == "1" {
		os.Exit(0)
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		panic(err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		panic(err)
	}

	testDB, err = pgRepo.New(ctx, connStr)
	if err != nil {
		panic(err)
	}
	if err := testDB.Migrate(ctx); err != nil {
		panic(err)
	}

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}

	redisAddr, err := redisContainer.Endpoint(ctx, "")
	if err != nil {
		panic(err)
	}
	testRedis = goredis.NewClient(&goredis.Options{Addr: redisAddr})
	if err := testRedis.Ping(ctx).Err(); err != nil {
		panic(fmt.Errorf("redis ping: %w", err))
	}

	code := m.Run()

	testRedis.Close()
	testDB.Close()
	redisContainer.Terminate(ctx)
	pgContainer.Terminate(ctx)

	os.Exit(code)
}
