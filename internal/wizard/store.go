package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persists wizard state per user.
type Store interface {
	Save(ctx context.Context, s *State, ttl time.Duration) error
	Get(ctx context.Context, userID uint, id string) (*State, error)
	Delete(ctx context.Context, userID uint, id string) error
}

// NewStore returns a Redis-backed store, or an in-memory store when rdb is nil.
func NewStore(rdb *redis.Client) Store {
	if rdb == nil {
		return NewMemoryStore()
	}
	return NewRedisStore(rdb)
}

func key(userID uint, id string) string {
	return fmt.Sprintf("wizard:%d:%s", userID, id)
}

// RedisStore keeps each wizard as a JSON value with the wizard TTL.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (r *RedisStore) Save(ctx context.Context, s *State, ttl time.Duration) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, key(s.UserID, s.ID), b, ttl).Err()
}

func (r *RedisStore) Get(ctx context.Context, userID uint, id string) (*State, error) {
	raw, err := r.rdb.Get(ctx, key(userID, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode wizard state: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Delete(ctx context.Context, userID uint, id string) error {
	n, err := r.rdb.Del(ctx, key(userID, id)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type memoryEntry struct {
	state   State
	expires time.Time
}

// MemoryStore is a process-local Store used when Redis is not configured.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryStore) Save(_ context.Context, s *State, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep()
	m.entries[key(s.UserID, s.ID)] = memoryEntry{state: *s, expires: m.now().Add(ttl)}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, userID uint, id string) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key(userID, id)]
	if !ok || !m.now().Before(e.expires) {
		return nil, ErrNotFound
	}
	s := e.state
	return &s, nil
}

func (m *MemoryStore) Delete(_ context.Context, userID uint, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(userID, id)
	e, ok := m.entries[k]
	if !ok || !m.now().Before(e.expires) {
		delete(m.entries, k)
		return ErrNotFound
	}
	delete(m.entries, k)
	return nil
}

// sweep drops expired entries. Callers hold mu.
func (m *MemoryStore) sweep() {
	now := m.now()
	for k, e := range m.entries {
		if !now.Before(e.expires) {
			delete(m.entries, k)
		}
	}
}
