//go:build integration

package infra

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const startupTimeout = 60 * time.Second

// PostgresDSN returns IT_PG_DSN or the DSN of a fresh postgres:17 container.
func PostgresDSN(t *testing.T, env Env) string {
	t.Helper()
	if env.PostgresDSN != "" {
		waitOrFail(t, func(ctx context.Context) error { return WaitPostgres(ctx, env.PostgresDSN) })
		return env.PostgresDSN
	}

	ctx := context.Background()
	c, err := tcpostgres.Run(ctx, "postgres:17",
		tcpostgres.WithDatabase("task_manager"),
		tcpostgres.WithUsername("it"),
		tcpostgres.WithPassword("it"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(startupTimeout),
		),
	)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	terminateOnCleanup(t, c)

	dsn, err := c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres dsn: %v", err)
	}
	return dsn
}

// MongoURI returns IT_MONGO_URI or the URI of a fresh mongo:7 container.
func MongoURI(t *testing.T, env Env) string {
	t.Helper()
	if env.MongoURI != "" {
		return env.MongoURI
	}
	hostPort := startGeneric(t, "mongo:7", "27017/tcp", wait.ForListeningPort("27017/tcp"))
	return fmt.Sprintf("mongodb://%s/Task_Manager_it", hostPort)
}

// RedisAddr returns IT_REDIS_ADDR or the address of a fresh redis:7 container.
func RedisAddr(t *testing.T, env Env) string {
	t.Helper()
	if env.RedisAddr != "" {
		waitOrFail(t, func(ctx context.Context) error { return WaitRedis(ctx, env.RedisAddr) })
		return env.RedisAddr
	}
	return startGeneric(t, "redis:7-alpine", "6379/tcp", wait.ForLog("Ready to accept connections"))
}

// RabbitURL returns IT_RABBIT_URL or the URL of a fresh rabbitmq:3 container.
func RabbitURL(t *testing.T, env Env) string {
	t.Helper()
	url := env.RabbitURL
	if url == "" {
		hostPort := startGeneric(t, "rabbitmq:3-management", "5672/tcp", wait.ForLog("Server startup complete"))
		url = "amqp://guest:guest@" + hostPort + "/"
	}
	waitOrFail(t, func(ctx context.Context) error { return WaitRabbit(ctx, url) })
	return url
}

func startGeneric(t *testing.T, image, port string, strategy wait.Strategy) string {
	t.Helper()
	ctx := context.Background()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{port},
			WaitingFor:   strategy,
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start %s: %v", image, err)
	}
	terminateOnCleanup(t, c)

	// single exposed port, so the first endpoint is the one we want
	hostPort, err := c.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("%s endpoint: %v", image, err)
	}
	return hostPort
}

func terminateOnCleanup(t *testing.T, c testcontainers.Container) {
	t.Cleanup(func() {
		if err := c.Terminate(context.Background()); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})
}

func waitOrFail(t *testing.T, fn func(ctx context.Context) error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		t.Fatal(err)
	}
}
