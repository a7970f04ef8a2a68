package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bookbot-ai/bookbot-api/internal/models"
	appErrors "github.com/bookbot-ai/bookbot-api/pkg/errors"
)

// SessionRepository stores negotiation context keyed by session id. Each
// session's state is owned by exactly one conversation at a time.
type SessionRepository interface {
	Get(ctx context.Context, sessionID string) (*models.SessionState, error)
	Put(ctx context.Context, sessionID string, state *models.SessionState) error
	Delete(ctx context.Context, sessionID string) error
}

const sessionKeyPrefix = "session:"

// RedisSessionRepository persists session state in Redis with a TTL so
// abandoned conversations expire on their own.
type RedisSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionRepository constructs a Redis-backed session store.
func NewRedisSessionRepository(client *redis.Client, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{client: client, ttl: ttl}
}

// Get loads the session state, returning ErrSessionNotFound when absent.
func (r *RedisSessionRepository) Get(ctx context.Context, sessionID string) (*models.SessionState, error) {
	raw, err := r.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, appErrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("redis get session %s: %w", sessionID, err)
	}

	var state models.SessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("unmarshal session %s: %w", sessionID, err)
	}
	return &state, nil
}

// Put stores the session state, refreshing its TTL.
func (r *RedisSessionRepository) Put(ctx context.Context, sessionID string, state *models.SessionState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", sessionID, err)
	}

	if err := r.client.Set(ctx, sessionKeyPrefix+sessionID, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session %s: %w", sessionID, err)
	}
	return nil
}

// Delete removes the session state.
func (r *RedisSessionRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("redis delete session %s: %w", sessionID, err)
	}
	return nil
}

// MemorySessionRepository keeps session state in process memory. It backs
// single-instance deployments without Redis and the test suite.
type MemorySessionRepository struct {
	mu    sync.RWMutex
	items map[string]models.SessionState
}

// NewMemorySessionRepository constructs an in-memory session store.
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{items: make(map[string]models.SessionState)}
}

// Get loads the session state, returning ErrSessionNotFound when absent.
func (r *MemorySessionRepository) Get(_ context.Context, sessionID string) (*models.SessionState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.items[sessionID]
	if !ok {
		return nil, appErrors.ErrSessionNotFound
	}
	copied := state
	return &copied, nil
}

// Put stores a copy of the session state.
func (r *MemorySessionRepository) Put(_ context.Context, sessionID string, state *models.SessionState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[sessionID] = *state
	return nil
}

// Delete removes the session state.
func (r *MemorySessionRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, sessionID)
	return nil
}
