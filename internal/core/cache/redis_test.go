package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string
	Age  int
}

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	require.NoError(t, c.Ping(context.Background()))
	return c, mr
}

func TestGetOrLoadJSONCachesValue(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (*item, error) {
		calls++
		return &item{Name: "Alice", Age: 30}, nil
	}

	got, err := GetOrLoadJSON(c, ctx, "item:1", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, &item{Name: "Alice", Age: 30}, got)

	got, err = GetOrLoadJSON(c, ctx, "item:1", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, 1, calls)

	assert.True(t, mr.Exists("user-admin:item:1"))
	assert.Equal(t, time.Minute, mr.TTL("user-admin:item:1"))
}

func TestGetOrLoadErrorNotCached(t *testing.T) {
	c, mr := setupTestCache(t)
	boom := errors.New("boom")

	_, err := GetOrLoadJSON(c, context.Background(), "item:2", time.Minute, func(context.Context) (*item, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("user-admin:item:2"))
}

func TestDel(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	_, err := GetOrLoadJSON(c, ctx, "item:3", time.Minute, func(context.Context) (*item, error) {
		return &item{Name: "Bob"}, nil
	})
	require.NoError(t, err)
	require.True(t, mr.Exists("user-admin:item:3"))

	require.NoError(t, c.Del(ctx, "item:3"))
	assert.False(t, mr.Exists("user-admin:item:3"))
	assert.NoError(t, c.Del(ctx))
}
