// AngelaMos | 2026
// redis_test.go

package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/saasify-contacts/internal/config"
)

func TestRedisOptions(t *testing.T) {
	opts, err := RedisOptions(config.RedisConfig{
		URL:          "redis://:secret@cache.internal:6380/2",
		ClientName:   "contacts-api",
		PoolSize:     7,
		ReadTimeout:  250 * time.Millisecond,
		WriteTimeout: 300 * time.Millisecond,
		PoolTimeout:  time.Second,
	})
	require.NoError(t, err)

	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, "contacts-api", opts.ClientName)
	assert.Equal(t, 7, opts.PoolSize)
	assert.Equal(t, 250*time.Millisecond, opts.ReadTimeout)
	assert.Equal(t, 300*time.Millisecond, opts.WriteTimeout)
	assert.Equal(t, time.Second, opts.PoolTimeout)
	assert.Equal(t, 5*time.Minute, opts.ConnMaxIdleTime)
}

func TestRedisOptions_URLValuesSurviveZeroConfig(t *testing.T) {
	opts, err := RedisOptions(config.RedisConfig{
		URL: "redis://localhost:6379/0?pool_size=3&dial_timeout=2s",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, opts.PoolSize)
	assert.Equal(t, 2*time.Second, opts.DialTimeout)
}

func TestRedisOptions_BadURL(t *testing.T) {
	_, err := RedisOptions(config.RedisConfig{URL: "http://localhost:6379"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse redis url")
}

func TestNewRedis_UnreachableServer(t *testing.T) {
	start := time.Now()

	_, err := NewRedis(context.Background(), config.RedisConfig{
		URL:         "redis://127.0.0.1:1/0",
		DialTimeout: 100 * time.Millisecond,
		PingTimeout: 200 * time.Millisecond,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRedis_CloseAndPingWithoutClient(t *testing.T) {
	var r *Redis
	assert.NoError(t, r.Close())
	assert.Error(t, r.Ping(context.Background()))

	assert.NoError(t, (&Redis{}).Close())
}
