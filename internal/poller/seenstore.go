package poller

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// SeenStore records which submission ids have already been observed, so a
// delete landing between polls can never cause a re-notification and a
// service restart does not replay old leads.
type SeenStore interface {
	// Seen reports which of the given ids are already recorded.
	Seen(ctx context.Context, ids []string) (map[string]bool, error)
	// Mark records ids as observed.
	Mark(ctx context.Context, ids []string) error
	// Empty reports whether nothing has been recorded yet.
	Empty(ctx context.Context) (bool, error)
}

// RedisSeenStore keeps the seen-set in a Redis set so it survives restarts.
type RedisSeenStore struct {
	client *redis.Client
	key    string
}

func NewRedisSeenStore(client *redis.Client, key string) *RedisSeenStore {
	if key == "" {
		key = "jobvault:leads:seen"
	}
	return &RedisSeenStore{client: client, key: key}
}

func (s *RedisSeenStore) Seen(ctx context.Context, ids []string) (map[string]bool, error) {
	seen := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return seen, nil
	}

	members := make([]interface{}, len(ids))
	for i, id := range ids {
		members[i] = id
	}

	results, err := s.client.SMIsMember(ctx, s.key, members...).Result()
	if err != nil {
		return nil, err
	}

	for i, id := range ids {
		seen[id] = results[i]
	}
	return seen, nil
}

func (s *RedisSeenStore) Mark(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	members := make([]interface{}, len(ids))
	for i, id := range ids {
		members[i] = id
	}
	return s.client.SAdd(ctx, s.key, members...).Err()
}

func (s *RedisSeenStore) Empty(ctx context.Context) (bool, error) {
	n, err := s.client.SCard(ctx, s.key).Result()
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// MemorySeenStore is the fallback when Redis is not configured. State is
// lost on restart, which only costs a silent re-seed cycle.
type MemorySeenStore struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

func NewMemorySeenStore() *MemorySeenStore {
	return &MemorySeenStore{seen: make(map[string]struct{})}
}

func (s *MemorySeenStore) Seen(_ context.Context, ids []string) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		_, ok := s.seen[id]
		seen[id] = ok
	}
	return seen, nil
}

func (s *MemorySeenStore) Mark(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		s.seen[id] = struct{}{}
	}
	return nil
}

func (s *MemorySeenStore) Empty(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen) == 0, nil
}
