package database

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"github.com/piresc/busfleet/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniRedis(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return &RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}, mr
}

func TestNewRedisClient_ConnectionError(t *testing.T) {
	client, err := NewRedisClient(models.RedisConfig{Host: "127.0.0.1", Port: 1})

	assert.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "failed to connect to redis")
}

func TestRedisClient_HSetWithExpiry(t *testing.T) {
	client, mr := newMiniRedis(t)
	ctx := context.Background()

	err := client.HSet(ctx, "fleet:vehicle:BUS-1", map[string]interface{}{"lat": "9.03", "status": "ACTIVE"}, time.Minute)
	require.NoError(t, err)

	fields, err := client.HGetAll(ctx, "fleet:vehicle:BUS-1")
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", fields["status"])
	assert.Equal(t, time.Minute, mr.TTL("fleet:vehicle:BUS-1"))

	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists("fleet:vehicle:BUS-1"))
}

func TestRedisClient_Geo(t *testing.T) {
	client, _ := newMiniRedis(t)
	ctx := context.Background()

	require.NoError(t, client.GeoAdd(ctx, "fleet:geo", 38.7613, 9.0107, "BUS-1"))
	require.NoError(t, client.GeoAdd(ctx, "fleet:geo", 38.7524, 9.0363, "BUS-2"))
	require.NoError(t, client.GeoAdd(ctx, "fleet:geo", 39.27, 8.54, "BUS-FAR"))

	found, err := client.GeoRadius(ctx, "fleet:geo", 38.7613, 9.0107, 5, "km")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "BUS-1", found[0].Name)
	assert.Equal(t, "BUS-2", found[1].Name)

	require.NoError(t, client.GeoRemove(ctx, "fleet:geo", "BUS-2"))
	found, err = client.GeoRadius(ctx, "fleet:geo", 38.7613, 9.0107, 5, "km")
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestRedisClient_DeleteAndPing(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &RedisClient{Client: db}
	ctx := context.Background()

	mock.ExpectDel("a", "b").SetVal(2)
	mock.ExpectPing().SetVal("PONG")

	assert.NoError(t, client.Delete(ctx, "a", "b"))
	assert.NoError(t, client.Ping(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}
