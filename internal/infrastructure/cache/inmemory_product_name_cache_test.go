package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mfg/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryProductNameCache_SetAndGet(t *testing.T) {
	c := cache.NewInMemoryProductNameCache(time.Minute)
	ctx := context.Background()

	productID := uuid.New()
	require.NoError(t, c.SetIDByName(ctx, "Widget", productID))

	id, found, err := c.GetIDByName(ctx, "Widget")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, productID, id)
}

func TestInMemoryProductNameCache_CaseInsensitiveLookup(t *testing.T) {
	c := cache.NewInMemoryProductNameCache(time.Minute)
	ctx := context.Background()

	productID := uuid.New()
	require.NoError(t, c.SetIDByName(ctx, "Widget", productID))

	id, found, err := c.GetIDByName(ctx, "wIDGET")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, productID, id)
}

func TestInMemoryProductNameCache_Miss(t *testing.T) {
	c := cache.NewInMemoryProductNameCache(time.Minute)

	id, found, err := c.GetIDByName(context.Background(), "unknown")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, uuid.Nil, id)
}

func TestInMemoryProductNameCache_Expiration(t *testing.T) {
	c := cache.NewInMemoryProductNameCache(1 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, c.SetIDByName(ctx, "Widget", uuid.New()))

	time.Sleep(10 * time.Millisecond)

	_, found, err := c.GetIDByName(ctx, "Widget")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInMemoryProductNameCache_Invalidate(t *testing.T) {
	c := cache.NewInMemoryProductNameCache(time.Minute)
	ctx := context.Background()

	require.NoError(t, c.SetIDByName(ctx, "Widget", uuid.New()))
	require.NoError(t, c.Invalidate(ctx, "widget"))

	_, found, err := c.GetIDByName(ctx, "Widget")
	require.NoError(t, err)
	assert.False(t, found)
}
