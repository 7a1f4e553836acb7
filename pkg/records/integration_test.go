package records

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cardiocare/platform/pkg/common/database"
	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startContainer(t *testing.T, req testcontainers.ContainerRequest, port nat.Port) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mapped, err := container.MappedPort(ctx, port)
	require.NoError(t, err)
	return fmt.Sprintf("%s:%s", host, mapped.Port())
}

func TestPostgresStoreContract(t *testing.T) {
	addr := startContainer(t, testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "cardiocare",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(120 * time.Second),
	}, nat.Port("5432/tcp"))

	dsn := fmt.Sprintf("postgres://test:test@%s/cardiocare?sslmode=disable", addr)
	db, err := database.OpenPostgres(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.ClosePostgres(db) })

	store := NewPostgresStore(db, "patient_data")
	require.NoError(t, store.AutoMigrate())
	runStoreContract(t, store)

	other := NewPostgresStore(db, "other_collection")
	all, err := other.All(context.Background())
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestRedisStoreContract(t *testing.T) {
	addr := startContainer(t, testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
	}, nat.Port("6379/tcp"))

	client, err := database.OpenRedis(context.Background(), addr, "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	runStoreContract(t, NewRedisStore(client, "patient_data"))
}
