package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the Redis page cache.
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	TTL       time.Duration
	KeyPrefix string
}

// Redis is a PageCache shared by every server instance and by invoicectl,
// so a mutation from any of them invalidates the page for all.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// setIfCurrent stores the page (KEYS[1]) only while the generation counter
// (KEYS[2], absent meaning 0) equals ARGV[1]. ARGV[3] is the TTL in
// milliseconds; 0 stores without expiry.
var setIfCurrent = redis.NewScript(`
local gen = redis.call('GET', KEYS[2]) or '0'
if gen ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

// NewRedis connects to Redis and verifies the connection with a PING.
// On failure the client is closed and the error returned, leaving the
// caller to fall back to another backend.
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}

	return &Redis{client: client, ttl: opts.TTL, prefix: opts.KeyPrefix}, nil
}

func (r *Redis) key(path string) string {
	return r.prefix + path
}

func (r *Redis) genKey(path string) string {
	return r.prefix + "gen:" + path
}

func (r *Redis) Get(ctx context.Context, path string) ([]byte, uint64, bool) {
	vals, err := r.client.MGet(ctx, r.key(path), r.genKey(path)).Result()
	if err != nil || len(vals) != 2 {
		return nil, 0, false
	}

	var gen uint64
	if s, ok := vals[1].(string); ok {
		if gen, err = strconv.ParseUint(s, 10, 64); err != nil {
			return nil, 0, false
		}
	}

	page, ok := vals[0].(string)
	if !ok {
		return nil, gen, false
	}
	return []byte(page), gen, true
}

func (r *Redis) Set(ctx context.Context, path string, gen uint64, page []byte) (bool, error) {
	keys := []string{r.key(path), r.genKey(path)}
	stored, err := setIfCurrent.Run(ctx, r.client, keys, strconv.FormatUint(gen, 10), page, r.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("cache set %s: %w", path, err)
	}
	return stored == 1, nil
}

func (r *Redis) Revalidate(ctx context.Context, path string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, r.genKey(path))
		pipe.Del(ctx, r.key(path))
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("cache revalidate %s: %w", path, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
