package store

import (
	"context"
	"testing"
	"time"

	"github.com/Harshitk-cp/homesense/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStore(t *testing.T) {
	s := NewMemorySessionStore(time.Hour)
	ctx := context.Background()
	id := uuid.New()

	_, err := s.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	snap := &domain.SessionSnapshot{
		ID:        id,
		ProfileID: "alice",
		Scene:     domain.SceneState{Name: "睡觉", RemainingTurns: 2},
		History:   []domain.Turn{{Input: "晚安", Result: domain.Result{Text: "灯光", Source: domain.SourceLLM}}},
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.Put(ctx, snap))

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, snap.Scene, got.Scene)
	assert.Equal(t, snap.History, got.History)

	// stored state is isolated from the caller's slices
	got.History[0].Input = "changed"
	snap.History[0].Input = "changed too"
	again, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "晚安", again.History[0].Input)

	require.NoError(t, s.Delete(ctx, id))
	assert.ErrorIs(t, s.Delete(ctx, id), ErrNotFound)
	assert.Equal(t, 0, s.Len())
}

func TestMemorySessionStore_Expiry(t *testing.T) {
	now := time.Date(2025, 7, 15, 14, 0, 0, 0, time.UTC)
	s := NewMemorySessionStore(30 * time.Minute)
	s.now = func() time.Time { return now }
	s.lastSweep = now
	ctx := context.Background()

	idle := &domain.SessionSnapshot{ID: uuid.New(), ProfileID: "alice"}
	active := &domain.SessionSnapshot{ID: uuid.New(), ProfileID: "bob"}
	require.NoError(t, s.Put(ctx, idle))
	require.NoError(t, s.Put(ctx, active))

	now = now.Add(20 * time.Minute)
	require.NoError(t, s.Put(ctx, active), "a put refreshes the ttl")

	now = now.Add(15 * time.Minute)
	_, err := s.Get(ctx, idle.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(ctx, active.ID)
	assert.NoError(t, err)
	assert.ErrorIs(t, s.Delete(ctx, idle.ID), ErrNotFound)

	// the sweep on put drops whatever expired
	require.NoError(t, s.Put(ctx, idle))
	now = now.Add(time.Hour)
	require.NoError(t, s.Put(ctx, &domain.SessionSnapshot{ID: uuid.New()}))
	assert.Equal(t, 1, s.Len())
}

func TestMemorySessionStore_NoTTL(t *testing.T) {
	now := time.Date(2025, 7, 15, 14, 0, 0, 0, time.UTC)
	s := NewMemorySessionStore(0)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	snap := &domain.SessionSnapshot{ID: uuid.New()}
	require.NoError(t, s.Put(ctx, snap))
	now = now.Add(365 * 24 * time.Hour)
	_, err := s.Get(ctx, snap.ID)
	assert.NoError(t, err)
}

func TestSessionKey(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	assert.Equal(t, "homesense:session:6ba7b810-9dad-11d1-80b4-00c04fd430c8", sessionKey(id))
}
