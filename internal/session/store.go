// Package session keeps one contact form per visitor and mirrors form drafts
// into a snapshot store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wolfman30/blake-psychology-site/internal/contact"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Store persists form drafts between requests and restarts.
type Store interface {
	Load(ctx context.Context, id string) (contact.Snapshot, bool, error)
	Save(ctx context.Context, id string, snap contact.Snapshot) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps drafts in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string]contact.Snapshot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string]contact.Snapshot)}
}

func (s *MemoryStore) Load(_ context.Context, id string) (contact.Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.drafts[id]
	return snap, ok, nil
}

func (s *MemoryStore) Save(_ context.Context, id string, snap contact.Snapshot) error {
	s.mu.Lock()
	s.drafts[id] = snap
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.drafts, id)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored drafts.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.drafts)
}

// RedisStore keeps drafts in Redis with a sliding TTL.
type RedisStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewRedisStore creates a store on an existing client. ttl <= 0 keeps drafts
// until they are deleted.
func NewRedisStore(redisClient *redis.Client, ttl time.Duration) *RedisStore {
	if redisClient == nil {
		panic("session: redis client required")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &RedisStore{
		redis:  redisClient,
		ttl:    ttl,
		tracer: otel.Tracer("blake.internal.session.redis"),
	}
}

func (s *RedisStore) key(id string) string {
	return fmt.Sprintf("site:session:%s", id)
}

func (s *RedisStore) Load(ctx context.Context, id string) (contact.Snapshot, bool, error) {
	ctx, span := s.tracer.Start(ctx, "session.draft.load")
	defer span.End()

	data, err := s.redis.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return contact.Snapshot{}, false, nil
	}
	if err != nil {
		span.RecordError(err)
		return contact.Snapshot{}, false, fmt.Errorf("session: get draft: %w", err)
	}

	var snap contact.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		span.RecordError(err)
		return contact.Snapshot{}, false, fmt.Errorf("session: unmarshal draft: %w", err)
	}
	return snap, true, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, snap contact.Snapshot) error {
	ctx, span := s.tracer.Start(ctx, "session.draft.save")
	defer span.End()

	if err := s.redis.Set(ctx, s.key(id), snap, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: set draft: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "session.draft.delete")
	defer span.End()

	if err := s.redis.Del(ctx, s.key(id)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: delete draft: %w", err)
	}
	return nil
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
)
