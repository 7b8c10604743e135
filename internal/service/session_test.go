package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Harshitk-cp/homesense/internal/domain"
	"github.com/Harshitk-cp/homesense/internal/llm"
	"github.com/Harshitk-cp/homesense/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockProfileStore mocks the ProfileStore interface.
type MockProfileStore struct {
	mock.Mock
}

func (m *MockProfileStore) Load(ctx context.Context, id string) domain.ProfileLoad {
	args := m.Called(ctx, id)
	load := args.Get(0).(domain.ProfileLoad)
	if load.Profile != nil {
		// a real store hands out a fresh copy on every load
		load.Profile = load.Profile.Clone()
	}
	return load
}

func (m *MockProfileStore) Save(ctx context.Context, id string, p *domain.UserProfile) error {
	args := m.Called(ctx, id, p)
	return args.Error(0)
}

func newTestManager(profiles domain.ProfileStore, client domain.LLMClient) (*SessionManager, *store.MemorySessionStore) {
	sessions := store.NewMemorySessionStore(time.Hour)
	r := newTestRecommender(client, summerWeekdayAfternoon)
	return NewSessionManager(sessions, profiles, r, DefaultHistorySize, nil, zap.NewNop()), sessions
}

func TestSessionManager_CreateAndTurn(t *testing.T) {
	profile := domain.DefaultUserProfile()
	profiles := new(MockProfileStore)
	profiles.On("Load", mock.Anything, "alice").Return(domain.Loaded(profile))
	profiles.On("Save", mock.Anything, "alice", mock.MatchedBy(func(p *domain.UserProfile) bool {
		return p.Usage("空调") == 1
	})).Return(nil).Once()

	mgr, sessions := newTestManager(profiles, llm.NewMockClient())
	ctx := context.Background()

	s, load, err := mgr.Create(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.ProfileLoaded, load.Status)
	assert.Equal(t, 1, sessions.Len())

	out, _, err := mgr.Turn(ctx, s.ID, "好热")
	require.NoError(t, err)
	assert.Equal(t, []string{"空调"}, out.Result.Devices)

	restored, err := mgr.Get(ctx, s.ID)
	require.NoError(t, err)
	require.Equal(t, 1, restored.History.Len())
	assert.Equal(t, "好热", restored.History.Turns()[0].Input)

	profiles.AssertExpectations(t)
}

func TestSessionManager_DefaultedProfile(t *testing.T) {
	profiles := new(MockProfileStore)
	profiles.On("Load", mock.Anything, "nobody").Return(domain.Defaulted(domain.ErrProfileNotFound))

	mgr, _ := newTestManager(profiles, llm.NewMockClient())
	s, load, err := mgr.Create(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, domain.ProfileDefaulted, load.Status)
	assert.ErrorIs(t, load.Reason, domain.ErrProfileNotFound)
	assert.Equal(t, domain.RegionSouth, s.Profile.Region)
}

func TestSessionManager_SceneSurvivesTurns(t *testing.T) {
	profiles := new(MockProfileStore)
	profiles.On("Load", mock.Anything, "alice").Return(domain.Loaded(domain.DefaultUserProfile()))

	mgr, _ := newTestManager(profiles, llm.NewMockClient())
	ctx := context.Background()

	s, _, err := mgr.Create(ctx, "alice")
	require.NoError(t, err)

	_, sess, err := mgr.Turn(ctx, s.ID, "晚安")
	require.NoError(t, err)
	assert.Equal(t, domain.SceneState{Name: "睡觉", RemainingTurns: 3}, sess.Scene.State())

	restored, err := mgr.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "睡觉", restored.Scene.State().Name)

	ended, err := mgr.EndScene(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, ended.Scene.Active())

	restored, err = mgr.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, restored.Scene.Active())
}

func TestSessionManager_FallbackErrorLeavesSessionUnchanged(t *testing.T) {
	profiles := new(MockProfileStore)
	profiles.On("Load", mock.Anything, "alice").Return(domain.Loaded(domain.DefaultUserProfile()))

	client := llm.NewMockClient()
	client.ChatError = errors.New("timeout")
	mgr, _ := newTestManager(profiles, client)
	ctx := context.Background()

	s, _, err := mgr.Create(ctx, "alice")
	require.NoError(t, err)

	out, sess, err := mgr.Turn(ctx, s.ID, "随便说点什么")
	assert.EqualError(t, err, "timeout")
	assert.Nil(t, out)
	assert.NotNil(t, sess)

	restored, err := mgr.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, restored.History.Len())
	profiles.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionManager_SaveFailureDoesNotFailTurn(t *testing.T) {
	profiles := new(MockProfileStore)
	profiles.On("Load", mock.Anything, "alice").Return(domain.Loaded(domain.DefaultUserProfile()))
	profiles.On("Save", mock.Anything, "alice", mock.Anything).Return(errors.New("disk full"))

	mgr, _ := newTestManager(profiles, llm.NewMockClient())
	ctx := context.Background()

	s, _, err := mgr.Create(ctx, "alice")
	require.NoError(t, err)

	out, _, err := mgr.Turn(ctx, s.ID, "好热")
	require.NoError(t, err)
	assert.Equal(t, []string{"空调"}, out.Recorded)
}

func TestSessionManager_NotFound(t *testing.T) {
	mgr, _ := newTestManager(new(MockProfileStore), llm.NewMockClient())
	ctx := context.Background()
	id := uuid.New()

	_, err := mgr.Get(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, _, err = mgr.Turn(ctx, id, "好热")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = mgr.EndScene(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.ErrorIs(t, mgr.Delete(ctx, id), ErrSessionNotFound)
}

func TestSessionManager_Delete(t *testing.T) {
	profiles := new(MockProfileStore)
	profiles.On("Load", mock.Anything, "alice").Return(domain.Loaded(domain.DefaultUserProfile()))

	mgr, sessions := newTestManager(profiles, llm.NewMockClient())
	ctx := context.Background()

	s, _, err := mgr.Create(ctx, "alice")
	require.NoError(t, err)
	require.NoError(t, mgr.Delete(ctx, s.ID))
	assert.Equal(t, 0, sessions.Len())

	_, err = mgr.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionManager_ConcurrentTurnsAreSerialized(t *testing.T) {
	profiles := store.NewFileProfileStore(t.TempDir())
	mgr, _ := newTestManager(profiles, llm.NewMockClient())
	ctx := context.Background()

	s, _, err := mgr.Create(ctx, "alice")
	require.NoError(t, err)

	const turns = 20
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := mgr.Turn(ctx, s.ID, "好热")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	load := profiles.Load(ctx, "alice")
	require.Equal(t, domain.ProfileLoaded, load.Status)
	assert.Equal(t, turns, load.Profile.Usage("空调"))

	restored, err := mgr.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, DefaultHistorySize, restored.History.Len())
}

func TestSessionManager_SharedProfileKeepsEveryCount(t *testing.T) {
	profiles := store.NewFileProfileStore(t.TempDir())
	mgr, _ := newTestManager(profiles, llm.NewMockClient())
	ctx := context.Background()

	const sessions, turnsEach = 8, 10
	ids := make([]uuid.UUID, sessions)
	for i := range ids {
		s, _, err := mgr.Create(ctx, "alice")
		require.NoError(t, err)
		ids[i] = s.ID
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		for j := 0; j < turnsEach; j++ {
			wg.Add(1)
			go func(id uuid.UUID) {
				defer wg.Done()
				_, _, err := mgr.Turn(ctx, id, "好热")
				assert.NoError(t, err)
			}(id)
		}
	}
	wg.Wait()

	load := profiles.Load(ctx, "alice")
	require.Equal(t, domain.ProfileLoaded, load.Status)
	assert.Equal(t, sessions*turnsEach, load.Profile.Usage("空调"))
}

func TestSessionManager_TurnKeepsConcurrentProfileEdit(t *testing.T) {
	profiles := store.NewFileProfileStore(t.TempDir())
	mgr, _ := newTestManager(profiles, llm.NewMockClient())
	ctx := context.Background()

	s, _, err := mgr.Create(ctx, "alice")
	require.NoError(t, err)

	// the profile is replaced after the session loaded its copy
	edited := domain.DefaultUserProfile()
	edited.Region = domain.RegionNorth
	edited.HasPet = true
	require.NoError(t, mgr.SaveProfile(ctx, "alice", edited))

	out, sess, err := mgr.Turn(ctx, s.ID, "好热")
	require.NoError(t, err)
	require.NotEmpty(t, out.Recorded)

	load := profiles.Load(ctx, "alice")
	require.Equal(t, domain.ProfileLoaded, load.Status)
	assert.Equal(t, domain.RegionNorth, load.Profile.Region)
	assert.True(t, load.Profile.HasPet)
	assert.Equal(t, 1, load.Profile.Usage(out.Recorded[0]))
	assert.Equal(t, load.Profile, sess.Profile)
}

func TestSessionManager_UpdateProfile(t *testing.T) {
	profiles := new(MockProfileStore)
	profiles.On("Load", mock.Anything, "bob").Return(domain.Defaulted(domain.ErrProfileNotFound))
	profiles.On("Save", mock.Anything, "bob", mock.MatchedBy(func(p *domain.UserProfile) bool {
		return p.Usage("电视") == 2
	})).Return(nil).Once()

	mgr, _ := newTestManager(profiles, llm.NewMockClient())
	p, err := mgr.UpdateProfile(context.Background(), "bob", func(p *domain.UserProfile) {
		p.RecordDeviceUsage("电视")
		p.RecordDeviceUsage("电视")
	})
	require.NoError(t, err)
	assert.Equal(t, 2, p.Usage("电视"))
	profiles.AssertExpectations(t)
}

func TestSessionManager_SessionsAreIsolated(t *testing.T) {
	profiles := new(MockProfileStore)
	profiles.On("Load", mock.Anything, mock.Anything).Return(domain.Loaded(domain.DefaultUserProfile()))

	mgr, _ := newTestManager(profiles, llm.NewMockClient())
	ctx := context.Background()

	a, _, err := mgr.Create(ctx, "a")
	require.NoError(t, err)
	b, _, err := mgr.Create(ctx, "b")
	require.NoError(t, err)

	_, _, err = mgr.Turn(ctx, a.ID, "晚安")
	require.NoError(t, err)

	restoredB, err := mgr.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, restoredB.Scene.Active())
	assert.Equal(t, 0, restoredB.History.Len())
}

func TestSessionManager_RecommendOnce(t *testing.T) {
	mgr, sessions := newTestManager(new(MockProfileStore), llm.NewMockClient())

	result, err := mgr.RecommendOnce(context.Background(), "好热", domain.DefaultUserProfile())
	require.NoError(t, err)
	assert.Equal(t, []string{"空调"}, result.Devices)
	assert.Equal(t, 0, sessions.Len())
}
