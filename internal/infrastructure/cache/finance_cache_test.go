package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Total float64 `json:"total"`
}

func newTestCache(t *testing.T) (*FinanceCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewFinanceCache(client, time.Minute), mr
}

func TestFinanceCache_BuildKeyIncludesVersion(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	key, err := c.BuildKey(ctx, "c1", "dashboard", "2026-10-14")
	require.NoError(t, err)
	assert.Equal(t, "finance:c1:dashboard:2026-10-14:v1", key)

	require.NoError(t, c.Bump(ctx, "c1"))
	key, err = c.BuildKey(ctx, "c1", "dashboard", "2026-10-14")
	require.NoError(t, err)
	assert.Equal(t, "finance:c1:dashboard:2026-10-14:v2", key)

	// la versión es por tenant
	other, err := c.BuildKey(ctx, "c2", "dashboard")
	require.NoError(t, err)
	assert.Equal(t, "finance:c2:dashboard:v1", other)
}

func TestFinanceCache_FetchJSONCaches(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return payload{Total: 42.5}, nil
	}

	var first, second payload
	require.NoError(t, c.FetchJSON(ctx, "k", &first, loader))
	require.NoError(t, c.FetchJSON(ctx, "k", &second, loader))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 42.5, second.Total)
	assert.True(t, mr.Exists("k"))
	assert.Equal(t, time.Minute, mr.TTL("k"))
}

func TestFinanceCache_LoaderErrorNotCached(t *testing.T) {
	c, mr := newTestCache(t)
	boom := errors.New("boom")

	var out payload
	err := c.FetchJSON(context.Background(), "k", &out, func(context.Context) (any, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("k"))
}

func TestFinanceCache_ConcurrentMissLoadsOnce(t *testing.T) {
	c, _ := newTestCache(t)
	var calls int32
	release := make(chan struct{})
	loader := func(context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return payload{Total: 1}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var out payload
			assert.NoError(t, c.FetchJSON(context.Background(), "k", &out, loader))
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(2))
}

func TestFinanceCache_NilClientCallsLoader(t *testing.T) {
	c := NewFinanceCache(nil, 0)
	key, err := c.BuildKey(context.Background(), "c1", "kpis")
	require.NoError(t, err)
	assert.Equal(t, "finance:c1:kpis", key)

	var out payload
	require.NoError(t, c.FetchJSON(context.Background(), key, &out, func(context.Context) (any, error) {
		return payload{Total: 7}, nil
	}))
	assert.Equal(t, 7.0, out.Total)
	assert.NoError(t, c.Bump(context.Background(), "c1"))
}
