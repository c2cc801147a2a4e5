package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNoSession = errors.New("session not found")

// Store maps opaque session ids to user ids.
type Store interface {
	Create(ctx context.Context, userID int64) (string, error)
	Lookup(ctx context.Context, id string) (int64, error)
	Delete(ctx context.Context, id string) error
}

type entry struct {
	userID  int64
	expires time.Time
}

type MemoryStore struct {
	ttl      time.Duration
	now      func() time.Time
	mu       sync.Mutex
	sessions map[string]entry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, sessions: make(map[string]entry)}
}

func (s *MemoryStore) Create(_ context.Context, userID int64) (string, error) {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = entry{userID: userID, expires: s.now().Add(s.ttl)}
	return id, nil
}

func (s *MemoryStore) Lookup(_ context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return 0, ErrNoSession
	}
	if !s.now().Before(e.expires) {
		delete(s.sessions, id)
		return 0, ErrNoSession
	}
	return e.userID, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
