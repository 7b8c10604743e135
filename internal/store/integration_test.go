package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Harshitk-cp/homesense/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests run against live backends and are skipped unless
// HOMESENSE_TEST_REDIS_URL or HOMESENSE_TEST_DATABASE_URL is set.

func TestRedisSessionStore(t *testing.T) {
	url := os.Getenv("HOMESENSE_TEST_REDIS_URL")
	if url == "" {
		t.Skip("HOMESENSE_TEST_REDIS_URL not set")
	}

	s, err := NewRedisSessionStoreFromURL(url, time.Minute)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	ctx := context.Background()
	snap := &domain.SessionSnapshot{
		ID:        uuid.New(),
		ProfileID: "alice",
		Scene:     domain.SceneState{Name: "睡觉", RemainingTurns: 2},
		History: []domain.Turn{{
			Input:     "好热",
			Result:    domain.Result{Devices: []string{"空调"}, Source: domain.SourceKeyword},
			Timestamp: time.Date(2025, 7, 15, 14, 0, 0, 0, time.UTC),
		}},
	}
	require.NoError(t, s.Put(ctx, snap))

	got, err := s.Get(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, snap.Scene, got.Scene)
	assert.Equal(t, snap.History, got.History)

	ttl, err := s.client.TTL(ctx, sessionKey(snap.ID)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, s.Delete(ctx, snap.ID))
	_, err = s.Get(ctx, snap.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, snap.ID), ErrNotFound)
}

func TestPostgresProfileStore(t *testing.T) {
	url := os.Getenv("HOMESENSE_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("HOMESENSE_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	defer pool.Close()

	migration, err := os.ReadFile("../../migrations/001_user_profiles.sql")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(migration))
	require.NoError(t, err)

	s := NewPostgresProfileStore(pool)
	id := "test-" + uuid.NewString()
	t.Cleanup(func() { _, _ = pool.Exec(context.Background(), `DELETE FROM user_profiles WHERE id = $1`, id) })

	load := s.Load(ctx, id)
	assert.Equal(t, domain.ProfileDefaulted, load.Status)
	assert.ErrorIs(t, load.Reason, domain.ErrProfileNotFound)

	p := domain.DefaultUserProfile()
	p.Region = domain.RegionNorth
	p.HasElderly = true
	p.RecordDeviceUsage("暖气")
	require.NoError(t, s.Save(ctx, id, p))

	p.RecordDeviceUsage("暖气")
	require.NoError(t, s.Save(ctx, id, p), "second save updates in place")

	load = s.Load(ctx, id)
	require.Equal(t, domain.ProfileLoaded, load.Status)
	assert.Equal(t, domain.RegionNorth, load.Profile.Region)
	assert.True(t, load.Profile.HasElderly)
	assert.Equal(t, 2, load.Profile.Usage("暖气"))
}
