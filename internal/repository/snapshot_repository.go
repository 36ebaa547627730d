package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"datahealth-web/internal/models"

	"github.com/redis/go-redis/v9"
)

var ErrSnapshotNotFound = errors.New("health check not found or expired")

// SnapshotRepository keeps the uploaded datasets between the requests of one
// health check. Entries expire; nothing outlives the TTL.
type SnapshotRepository interface {
	Save(ctx context.Context, check *models.HealthCheck) error
	Get(ctx context.Context, token string) (*models.HealthCheck, error)
	Delete(ctx context.Context, token string) error
}

type memoryEntry struct {
	check     *models.HealthCheck
	expiresAt time.Time
}

type MemorySnapshotRepository struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemorySnapshotRepository(ttl time.Duration) *MemorySnapshotRepository {
	return &MemorySnapshotRepository{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (r *MemorySnapshotRepository) Save(ctx context.Context, check *models.HealthCheck) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictExpired()
	r.entries[check.Token] = memoryEntry{
		check:     check,
		expiresAt: r.now().Add(r.ttl),
	}
	return nil
}

func (r *MemorySnapshotRepository) Get(ctx context.Context, token string) (*models.HealthCheck, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[token]
	if !ok || !r.now().Before(entry.expiresAt) {
		return nil, ErrSnapshotNotFound
	}
	return entry.check, nil
}

func (r *MemorySnapshotRepository) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[token]; !ok {
		return ErrSnapshotNotFound
	}
	delete(r.entries, token)
	return nil
}

// evictExpired must be called with the write lock held
func (r *MemorySnapshotRepository) evictExpired() {
	now := r.now()
	for token, entry := range r.entries {
		if !now.Before(entry.expiresAt) {
			delete(r.entries, token)
		}
	}
}

type RedisSnapshotRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSnapshotRepository(client *redis.Client, ttl time.Duration) *RedisSnapshotRepository {
	return &RedisSnapshotRepository{
		client: client,
		ttl:    ttl,
	}
}

func snapshotKey(token string) string {
	return fmt.Sprintf("healthcheck:%s", token)
}

func (r *RedisSnapshotRepository) Save(ctx context.Context, check *models.HealthCheck) error {
	payload, err := json.Marshal(check)
	if err != nil {
		return fmt.Errorf("failed to encode health check: %w", err)
	}

	if err := r.client.Set(ctx, snapshotKey(check.Token), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store health check: %w", err)
	}
	return nil
}

func (r *RedisSnapshotRepository) Get(ctx context.Context, token string) (*models.HealthCheck, error) {
	payload, err := r.client.Get(ctx, snapshotKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load health check: %w", err)
	}

	var check models.HealthCheck
	if err := json.Unmarshal(payload, &check); err != nil {
		return nil, fmt.Errorf("failed to decode health check: %w", err)
	}
	return &check, nil
}

func (r *RedisSnapshotRepository) Delete(ctx context.Context, token string) error {
	n, err := r.client.Del(ctx, snapshotKey(token)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete health check: %w", err)
	}
	if n == 0 {
		return ErrSnapshotNotFound
	}
	return nil
}
