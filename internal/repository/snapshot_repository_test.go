package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"datahealth-web/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCheck(token string) *models.HealthCheck {
	return &models.HealthCheck{
		Token:    token,
		Filename: "partners.xlsx",
		Dataset: &models.Dataset{
			Columns: models.RequiredColumns,
			Records: []models.Record{{Row: 0, PartnerID: "1"}},
		},
		LoadedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestMemorySnapshotRepositorySaveGetDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySnapshotRepository(time.Minute)

	require.NoError(t, repo.Save(ctx, newCheck("abc")))

	got, err := repo.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "partners.xlsx", got.Filename)
	assert.Equal(t, 1, got.Dataset.Len())

	require.NoError(t, repo.Delete(ctx, "abc"))

	_, err = repo.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "abc"), ErrSnapshotNotFound)
}

func TestMemorySnapshotRepositoryExpires(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySnapshotRepository(time.Minute)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	require.NoError(t, repo.Save(ctx, newCheck("old")))

	now = now.Add(30 * time.Second)
	_, err := repo.Get(ctx, "old")
	require.NoError(t, err)

	now = now.Add(31 * time.Second)
	_, err = repo.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	// expired entries are dropped on the next save
	require.NoError(t, repo.Save(ctx, newCheck("new")))
	assert.Len(t, repo.entries, 1)
}

func TestMemorySnapshotRepositoryUnknownToken(t *testing.T) {
	repo := NewMemorySnapshotRepository(time.Minute)

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestSnapshotKey(t *testing.T) {
	assert.Equal(t, "healthcheck:abc", snapshotKey("abc"))
}

// newTestRedis connects to the server named by REDIS_ADDR and skips the test
// when none is configured.
func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisSnapshotRepositorySaveGetDelete(t *testing.T) {
	ctx := context.Background()
	client := newTestRedis(t)
	repo := NewRedisSnapshotRepository(client, time.Minute)

	check := newCheck(uuid.NewString())
	check.Dataset.Records[0].Values = []string{"1", "Alpha Kft.", "HU", "", "12345678"}
	t.Cleanup(func() { client.Del(context.Background(), snapshotKey(check.Token)) })

	require.NoError(t, repo.Save(ctx, check))

	ttl, err := client.TTL(ctx, snapshotKey(check.Token)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)

	got, err := repo.Get(ctx, check.Token)
	require.NoError(t, err)
	assert.Equal(t, check.Token, got.Token)
	assert.Equal(t, check.Filename, got.Filename)
	assert.Equal(t, check.Dataset, got.Dataset)
	assert.True(t, check.LoadedAt.Equal(got.LoadedAt))

	require.NoError(t, repo.Delete(ctx, check.Token))

	_, err = repo.Get(ctx, check.Token)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, check.Token), ErrSnapshotNotFound)
}

func TestRedisSnapshotRepositoryUnknownToken(t *testing.T) {
	repo := NewRedisSnapshotRepository(newTestRedis(t), time.Minute)

	_, err := repo.Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestRedisSnapshotRepositoryCorruptPayload(t *testing.T) {
	ctx := context.Background()
	client := newTestRedis(t)
	repo := NewRedisSnapshotRepository(client, time.Minute)

	token := uuid.NewString()
	require.NoError(t, client.Set(ctx, snapshotKey(token), "not json", time.Minute).Err())
	t.Cleanup(func() { client.Del(context.Background(), snapshotKey(token)) })

	_, err := repo.Get(ctx, token)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSnapshotNotFound)
}
