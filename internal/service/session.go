package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/Harshitk-cp/homesense/internal/domain"
	"github.com/Harshitk-cp/homesense/internal/metrics"
	"github.com/Harshitk-cp/homesense/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is one conversation: its own profile, dialog history and scene.
// Sessions never share these objects.
type Session struct {
	ID        uuid.UUID
	ProfileID string
	Profile   *domain.UserProfile
	History   *DialogHistory
	Scene     *SceneTracker
	CreatedAt time.Time
}

// NewSession starts a fresh session for profile.
func NewSession(r *Recommender, profileID string, profile *domain.UserProfile, historySize int) *Session {
	return &Session{
		ID:        uuid.New(),
		ProfileID: profileID,
		Profile:   profile,
		History:   NewDialogHistory(historySize, nil),
		Scene:     r.NewSceneTracker(historySize, domain.SceneState{}),
		CreatedAt: time.Now(),
	}
}

// Snapshot returns the storable form of the session.
func (s *Session) Snapshot() *domain.SessionSnapshot {
	return &domain.SessionSnapshot{
		ID:        s.ID,
		ProfileID: s.ProfileID,
		Scene:     s.Scene.State(),
		History:   s.History.Turns(),
		CreatedAt: s.CreatedAt,
		UpdatedAt: time.Now(),
	}
}

const (
	sessionLockStripes = 64
	profileLockStripes = 64
)

// SessionManager runs turns for many sessions. Turns of one session are
// serialized; different sessions proceed independently. Read-modify-write
// of one profile is serialized across all sessions bound to it.
type SessionManager struct {
	sessions    domain.SessionStore
	profiles    domain.ProfileStore
	rec         *Recommender
	historySize int
	metrics     *metrics.Metrics
	logger      *zap.Logger
	locks       [sessionLockStripes]sync.Mutex
	profLocks   [profileLockStripes]sync.Mutex
}

func NewSessionManager(
	sessions domain.SessionStore,
	profiles domain.ProfileStore,
	rec *Recommender,
	historySize int,
	m *metrics.Metrics,
	logger *zap.Logger,
) *SessionManager {
	if historySize <= 0 {
		historySize = DefaultHistorySize
	}
	return &SessionManager{
		sessions:    sessions,
		profiles:    profiles,
		rec:         rec,
		historySize: historySize,
		metrics:     m,
		logger:      logger,
	}
}

func (m *SessionManager) lock(id uuid.UUID) func() {
	mu := &m.locks[int(id[0])%sessionLockStripes]
	mu.Lock()
	return mu.Unlock
}

// lockProfile is always taken after the session lock, never before.
func (m *SessionManager) lockProfile(profileID string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(profileID))
	mu := &m.profLocks[h.Sum32()%profileLockStripes]
	mu.Lock()
	return mu.Unlock
}

// LoadProfile reads a profile, falling back to defaults. The fallback is
// logged, never returned as an error.
func (m *SessionManager) LoadProfile(ctx context.Context, profileID string) domain.ProfileLoad {
	load := m.profiles.Load(ctx, profileID)
	m.metrics.ObserveProfileLoad(string(load.Status))
	if load.Status == domain.ProfileDefaulted {
		m.logger.Warn("using default profile",
			zap.String("profile_id", profileID),
			zap.Error(load.Reason))
	}
	return load
}

// SaveProfile replaces a profile.
func (m *SessionManager) SaveProfile(ctx context.Context, profileID string, p *domain.UserProfile) error {
	unlock := m.lockProfile(profileID)
	defer unlock()
	return m.saveProfile(ctx, profileID, p)
}

func (m *SessionManager) saveProfile(ctx context.Context, profileID string, p *domain.UserProfile) error {
	if err := m.profiles.Save(ctx, profileID, p); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// UpdateProfile loads the stored profile, applies fn and saves the result.
// The updated profile is returned even when the save fails.
func (m *SessionManager) UpdateProfile(ctx context.Context, profileID string, fn func(*domain.UserProfile)) (*domain.UserProfile, error) {
	unlock := m.lockProfile(profileID)
	defer unlock()

	p := m.LoadProfile(ctx, profileID).Profile
	fn(p)
	return p, m.saveProfile(ctx, profileID, p)
}

// Create opens a new session bound to profileID.
func (m *SessionManager) Create(ctx context.Context, profileID string) (*Session, domain.ProfileLoad, error) {
	load := m.LoadProfile(ctx, profileID)
	s := NewSession(m.rec, profileID, load.Profile, m.historySize)
	if err := m.sessions.Put(ctx, s.Snapshot()); err != nil {
		return nil, load, fmt.Errorf("store session: %w", err)
	}
	m.logger.Info("session created",
		zap.String("session_id", s.ID.String()),
		zap.String("profile_id", profileID),
		zap.String("profile_status", string(load.Status)))
	return s, load, nil
}

// Get restores a session from the session store and its profile store.
func (m *SessionManager) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	snap, err := m.sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	load := m.LoadProfile(ctx, snap.ProfileID)
	return &Session{
		ID:        snap.ID,
		ProfileID: snap.ProfileID,
		Profile:   load.Profile,
		History:   NewDialogHistory(m.historySize, snap.History),
		Scene:     m.rec.NewSceneTracker(m.historySize, snap.Scene),
		CreatedAt: snap.CreatedAt,
	}, nil
}

// Turn processes one input for session id and persists the new state.
// Recorded usage is applied to the freshly stored profile, so concurrent
// sessions on one profile never lose counts. A failed profile save is
// logged; the turn still succeeds. When the
// recommendation itself fails the restored session is returned with the
// error, unchanged and not persisted.
func (m *SessionManager) Turn(ctx context.Context, id uuid.UUID, input string) (*TurnOutcome, *Session, error) {
	unlock := m.lock(id)
	defer unlock()

	s, err := m.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	out, err := m.rec.Turn(ctx, s, input)
	if err != nil {
		return nil, s, err
	}

	if len(out.Recorded) > 0 {
		p, err := m.UpdateProfile(ctx, s.ProfileID, func(p *domain.UserProfile) {
			for _, d := range out.Recorded {
				p.RecordDeviceUsage(d)
			}
		})
		if err != nil {
			m.logger.Warn("failed to persist profile usage",
				zap.String("profile_id", s.ProfileID),
				zap.Error(err))
		}
		s.Profile = p
	}
	if err := m.sessions.Put(ctx, s.Snapshot()); err != nil {
		return nil, nil, fmt.Errorf("store session: %w", err)
	}
	return out, s, nil
}

// EndScene clears the active scene of session id.
func (m *SessionManager) EndScene(ctx context.Context, id uuid.UUID) (*Session, error) {
	unlock := m.lock(id)
	defer unlock()

	s, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Scene.Active() {
		m.rec.observeScene(s.Scene.End(), s.Scene)
	}
	if err := m.sessions.Put(ctx, s.Snapshot()); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return s, nil
}

// Delete removes session id.
func (m *SessionManager) Delete(ctx context.Context, id uuid.UUID) error {
	unlock := m.lock(id)
	defer unlock()

	if err := m.sessions.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// RecommendOnce runs a single stateless recommendation for profile with a
// fresh history and no scene. Nothing is persisted.
func (m *SessionManager) RecommendOnce(ctx context.Context, utterance string, profile *domain.UserProfile) (domain.Result, error) {
	s := NewSession(m.rec, "", profile, m.historySize)
	return m.rec.Recommend(ctx, utterance, s.Profile, s.History, s.Scene)
}
