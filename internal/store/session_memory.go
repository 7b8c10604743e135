package store

import (
	"context"
	"sync"
	"time"

	"github.com/Harshitk-cp/homesense/internal/domain"
	"github.com/google/uuid"
)

type memoryEntry struct {
	snap    domain.SessionSnapshot
	touched time.Time
}

// MemorySessionStore keeps session snapshots in process memory. Like the
// redis store, a session expires ttl after its last Put; a ttl <= 0 keeps
// sessions until they are deleted.
type MemorySessionStore struct {
	mu        sync.RWMutex
	sessions  map[uuid.UUID]memoryEntry
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		sessions:  make(map[uuid.UUID]memoryEntry),
		ttl:       ttl,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (s *MemorySessionStore) expired(e memoryEntry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.touched) > s.ttl
}

func (s *MemorySessionStore) Get(_ context.Context, id uuid.UUID) (*domain.SessionSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[id]
	if !ok || s.expired(e, s.now()) {
		return nil, ErrNotFound
	}
	snap := e.snap
	snap.History = append([]domain.Turn(nil), snap.History...)
	return &snap, nil
}

// Put stores snap and, at most once per ttl, drops expired sessions.
func (s *MemorySessionStore) Put(_ context.Context, snap *domain.SessionSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.ttl > 0 && now.Sub(s.lastSweep) >= s.ttl {
		s.sweep(now)
		s.lastSweep = now
	}

	stored := *snap
	stored.History = append([]domain.Turn(nil), snap.History...)
	s.sessions[snap.ID] = memoryEntry{snap: stored, touched: now}
	return nil
}

func (s *MemorySessionStore) sweep(now time.Time) {
	for id, e := range s.sessions {
		if s.expired(e, now) {
			delete(s.sessions, id)
		}
	}
}

func (s *MemorySessionStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	if s.expired(e, s.now()) {
		return ErrNotFound
	}
	return nil
}

// Len returns the number of stored sessions, expired ones not yet swept included.
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
