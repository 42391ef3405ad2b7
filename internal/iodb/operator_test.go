package iodb_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gnames/gnvariants/internal/iodb"
	"github.com/gnames/gnvariants/internal/iotesting"
	"github.com/gnames/gnvariants/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteOperator(t *testing.T) {
	ctx := context.Background()
	op, err := iodb.NewOperator("sqlite")
	require.NoError(t, err)

	assert.Nil(t, op.DB())
	_, err = op.HasTables(ctx)
	assert.Error(t, err, "not connected")

	cfg := &config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "db", "test.sqlite")}
	require.NoError(t, op.Connect(ctx, cfg))
	defer op.Close()

	has, err := op.HasTables(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = op.DB().ExecContext(ctx, "CREATE TABLE sample (id TEXT PRIMARY KEY)")
	require.NoError(t, err)

	ok, err := op.TableExists(ctx, "sample")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = op.TableExists(ctx, "nonexistent_table")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, op.DropAllTables(ctx))
	has, err = op.HasTables(ctx)
	require.NoError(t, err)
	assert.False(t, has)
}

// Integration tests below require PostgreSQL. Skip them with
// `go test -short`.
func TestPgxOperator_Connect(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	op, err := iodb.NewOperator("postgres")
	require.NoError(t, err)
	ctx := context.Background()

	err = op.Connect(ctx, iotesting.GetTestDatabaseConfig())
	require.NoError(t, err, "Connect should succeed with valid config")
	defer op.Close()

	exists, err := op.TableExists(ctx, "nonexistent_table")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestPgxOperator_Connect_InvalidHost(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	old := iodb.ConnectTimeout
	iodb.ConnectTimeout = 0
	defer func() { iodb.ConnectTimeout = old }()

	op, err := iodb.NewOperator("postgres")
	require.NoError(t, err)
	cfg := iotesting.GetTestDatabaseConfig()
	cfg.Host = "invalid-host-that-does-not-exist"

	err = op.Connect(context.Background(), cfg)
	assert.Error(t, err, "Connect should fail with invalid host")
}
