package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory/internal/config"
)

func TestOpenMemory(t *testing.T) {
	ctx := context.Background()
	b, err := Open(ctx, config.Config{StorageDriver: config.DriverMemory})
	require.NoError(t, err)

	assert.Equal(t, config.DriverMemory, b.Driver)
	assert.NoError(t, b.Ping(ctx))

	v, err := b.Counters.IncrementAndGet(ctx, "missing")
	assert.Error(t, err, "incrementing an absent counter fails")
	assert.Zero(t, v)

	assert.NoError(t, b.Close(ctx))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.Config{StorageDriver: "sqlite"})
	assert.ErrorContains(t, err, "sqlite")
}
