package session

import (
	"context"
	"sync"
	"time"

	"github.com/agiseventos/agenda/internal/auth"
)

type memoryEntry struct {
	session Session
	expires time.Time
}

// MemoryStore guarda sessões no processo.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryStore cria store em memória; ttl zero desativa a expiração.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (m *MemoryStore) Create(ctx context.Context, userID int64) (string, Session, error) {
	now := m.now()
	raw, hash, sess, err := newSession(userID, now)
	if err != nil {
		return "", Session{}, err
	}

	entry := memoryEntry{session: sess}
	if m.ttl > 0 {
		entry.expires = now.Add(m.ttl)
	}

	m.mu.Lock()
	m.entries[hash] = entry
	m.mu.Unlock()
	return raw, sess, nil
}

func (m *MemoryStore) Get(ctx context.Context, token string) (Session, error) {
	hash := auth.HashToken(token)

	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[hash]
	if !ok {
		return Session{}, ErrNotFound
	}
	if !entry.expires.IsZero() && !m.now().Before(entry.expires) {
		delete(m.entries, hash)
		return Session{}, ErrNotFound
	}
	return entry.session, nil
}

func (m *MemoryStore) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	delete(m.entries, auth.HashToken(token))
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}
