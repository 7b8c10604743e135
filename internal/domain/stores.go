package domain

import (
	"context"

	"github.com/google/uuid"
)

// ProfileStore persists user profiles. Load never fails; see ProfileLoad.
type ProfileStore interface {
	Load(ctx context.Context, id string) ProfileLoad
	Save(ctx context.Context, id string, p *UserProfile) error
}

// SessionStore keeps per-session scene and dialog state between turns.
type SessionStore interface {
	Get(ctx context.Context, id uuid.UUID) (*SessionSnapshot, error)
	Put(ctx context.Context, s *SessionSnapshot) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// LLMClient is the free-text fallback collaborator. The reply is opaque.
type LLMClient interface {
	Chat(ctx context.Context, prompt string) (string, error)
}
