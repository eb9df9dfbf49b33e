package session

import (
	"context"
	"sync"
	"time"

	"storefront/internal/session"
)

// MemoryStore はREDIS_URL未設定時とテスト用。プロセスが落ちると消える。
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

type memoryItem struct {
	data      session.Data
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]memoryItem), now: time.Now}
}

func (s *MemoryStore) Load(_ context.Context, id string) (session.Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[id]
	if !ok {
		return session.Data{}, session.ErrNotFound
	}
	if !it.expiresAt.IsZero() && s.now().After(it.expiresAt) {
		delete(s.items, id)
		return session.Data{}, session.ErrNotFound
	}
	return it.data, nil
}

func (s *MemoryStore) Save(_ context.Context, id string, data session.Data, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	it := memoryItem{data: data}
	if ttl > 0 {
		it.expiresAt = s.now().Add(ttl)
	}
	s.items[id] = it
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}
