package cache

import (
	"context"
	"testing"
	"time"

	"github.com/JonMunkholm/dashboard/internal/config"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listing = "/dashboard/invoices"

// fill stores page at the path's current generation, the way the web
// layer does after a miss.
func fill(t *testing.T, c PageCache, page string) {
	t.Helper()
	ctx := context.Background()
	_, gen, _ := c.Get(ctx, listing)
	stored, err := c.Set(ctx, listing, gen, []byte(page))
	require.NoError(t, err)
	require.True(t, stored)
}

func TestMemory_SetGetRevalidate(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	_, gen, ok := m.Get(ctx, listing)
	assert.False(t, ok)
	assert.Zero(t, gen)

	fill(t, m, "<table>")
	page, _, ok := m.Get(ctx, listing)
	require.True(t, ok)
	assert.Equal(t, "<table>", string(page))

	require.NoError(t, m.Revalidate(ctx, listing))
	_, gen, ok = m.Get(ctx, listing)
	assert.False(t, ok)
	assert.Equal(t, uint64(1), gen)
}

func TestMemory_SetAfterRevalidateIsDiscarded(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	// a reader misses and starts rendering...
	_, gen, _ := m.Get(ctx, listing)

	// ...a mutation commits and revalidates...
	require.NoError(t, m.Revalidate(ctx, listing))

	// ...and the page rendered from the old data must not be kept
	stored, err := m.Set(ctx, listing, gen, []byte("stale"))
	require.NoError(t, err)
	assert.False(t, stored)
	_, _, ok := m.Get(ctx, listing)
	assert.False(t, ok)

	// the next fill uses the new generation and sticks
	fill(t, m, "fresh")
	page, _, ok := m.Get(ctx, listing)
	require.True(t, ok)
	assert.Equal(t, "fresh", string(page))
}

func TestMemory_RevalidateMissingPath(t *testing.T) {
	assert.NoError(t, NewMemory(time.Minute).Revalidate(context.Background(), "/nothing"))
}

func TestMemory_Expires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory(time.Minute)
	m.now = func() time.Time { return now }

	fill(t, m, "page")

	now = now.Add(59 * time.Second)
	_, _, ok := m.Get(ctx, listing)
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, _, ok = m.Get(ctx, listing)
	assert.False(t, ok)
}

func TestMemory_SetCopiesPage(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	buf := []byte("abc")
	_, err := m.Set(ctx, listing, 0, buf)
	require.NoError(t, err)
	buf[0] = 'x'

	page, _, _ := m.Get(ctx, listing)
	assert.Equal(t, "abc", string(page))
}

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	r, err := NewRedis(context.Background(), RedisOptions{
		Addr:      mr.Addr(),
		TTL:       time.Minute,
		KeyPrefix: "test:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r, mr
}

func TestRedis_SetGetRevalidate(t *testing.T) {
	ctx := context.Background()
	r, mr := newTestRedis(t)

	_, gen, ok := r.Get(ctx, listing)
	assert.False(t, ok)
	assert.Zero(t, gen)

	fill(t, r, "<table>")
	assert.True(t, mr.Exists("test:"+listing))
	assert.Equal(t, time.Minute, mr.TTL("test:"+listing))

	page, _, ok := r.Get(ctx, listing)
	require.True(t, ok)
	assert.Equal(t, "<table>", string(page))

	require.NoError(t, r.Revalidate(ctx, listing))
	assert.False(t, mr.Exists("test:"+listing))

	got, err := mr.Get("test:gen:" + listing)
	require.NoError(t, err)
	assert.Equal(t, "1", got)

	// revalidating an absent key is not an error
	assert.NoError(t, r.Revalidate(ctx, listing))
	_, gen, _ = r.Get(ctx, listing)
	assert.Equal(t, uint64(2), gen)
}

func TestRedis_SetAfterRevalidateIsDiscarded(t *testing.T) {
	ctx := context.Background()
	r, mr := newTestRedis(t)

	_, gen, _ := r.Get(ctx, listing)
	require.NoError(t, r.Revalidate(ctx, listing))

	stored, err := r.Set(ctx, listing, gen, []byte("stale"))
	require.NoError(t, err)
	assert.False(t, stored)
	assert.False(t, mr.Exists("test:"+listing))

	fill(t, r, "fresh")
	page, _, ok := r.Get(ctx, listing)
	require.True(t, ok)
	assert.Equal(t, "fresh", string(page))
}

func TestRedis_GenerationSharedBetweenClients(t *testing.T) {
	ctx := context.Background()
	server, mr := newTestRedis(t)

	cli, err := NewRedis(ctx, RedisOptions{Addr: mr.Addr(), TTL: time.Minute, KeyPrefix: "test:"})
	require.NoError(t, err)
	t.Cleanup(func() { cli.Close() })

	_, gen, _ := server.Get(ctx, listing)
	require.NoError(t, cli.Revalidate(ctx, listing))

	stored, err := server.Set(ctx, listing, gen, []byte("stale"))
	require.NoError(t, err)
	assert.False(t, stored)
}

func TestRedis_Expires(t *testing.T) {
	ctx := context.Background()
	r, mr := newTestRedis(t)

	fill(t, r, "page")
	mr.FastForward(time.Minute + time.Second)

	_, _, ok := r.Get(ctx, listing)
	assert.False(t, ok)
}

func TestRedis_FailsWhenDown(t *testing.T) {
	r, mr := newTestRedis(t)
	mr.Close()

	ctx := context.Background()
	assert.Error(t, r.Revalidate(ctx, listing))
	_, _, ok := r.Get(ctx, listing)
	assert.False(t, ok)
	stored, err := r.Set(ctx, listing, 0, []byte("x"))
	assert.Error(t, err)
	assert.False(t, stored)
}

func TestNewRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedis(context.Background(), RedisOptions{Addr: addr, TTL: time.Minute})
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	ctx := context.Background()
	var c PageCache = Nop{}

	stored, err := c.Set(ctx, listing, 0, []byte("x"))
	require.NoError(t, err)
	assert.False(t, stored)
	_, _, ok := c.Get(ctx, listing)
	assert.False(t, ok)
	assert.NoError(t, c.Revalidate(ctx, listing))
	assert.NoError(t, c.Close())
}

func unreachableAddr(t *testing.T) string {
	t.Helper()
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	return addr
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, Nop{}, Open(ctx, config.CacheConfig{TTL: time.Minute}))

	_, isMemory := Open(ctx, config.CacheConfig{TTL: time.Minute, Memory: true}).(*Memory)
	assert.True(t, isMemory)

	mr := miniredis.RunT(t)
	c := Open(ctx, config.CacheConfig{RedisAddr: mr.Addr(), TTL: time.Minute, KeyPrefix: "p:", Memory: true})
	t.Cleanup(func() { c.Close() })
	_, isRedis := c.(*Redis)
	assert.True(t, isRedis)

	// an unreachable Redis never degrades to a private memory cache
	down := Open(ctx, config.CacheConfig{RedisAddr: unreachableAddr(t), TTL: time.Minute, Memory: true})
	assert.Equal(t, Nop{}, down)
}

func TestOpenShared(t *testing.T) {
	ctx := context.Background()

	c, err := OpenShared(ctx, config.CacheConfig{TTL: time.Minute})
	require.NoError(t, err)
	assert.Equal(t, Nop{}, c)

	_, err = OpenShared(ctx, config.CacheConfig{TTL: time.Minute, Memory: true})
	assert.ErrorIs(t, err, ErrNotShared)

	mr := miniredis.RunT(t)
	c, err = OpenShared(ctx, config.CacheConfig{RedisAddr: mr.Addr(), TTL: time.Minute})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	_, isRedis := c.(*Redis)
	assert.True(t, isRedis)

	_, err = OpenShared(ctx, config.CacheConfig{RedisAddr: unreachableAddr(t), TTL: time.Minute})
	assert.ErrorIs(t, err, ErrNotShared)
}
