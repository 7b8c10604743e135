package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ResultSource records which path produced a recommendation.
type ResultSource string

const (
	SourceKeyword ResultSource = "keyword" // keyword rules, no scene filter
	SourceScene   ResultSource = "scene"   // keyword rules restricted by the active scene
	SourceLLM     ResultSource = "llm"     // free-text fallback
)

// Result is either an ordered device list or the raw fallback reply.
type Result struct {
	Devices []string     `json:"devices,omitempty"`
	Text    string       `json:"text,omitempty"`
	Source  ResultSource `json:"source"`
	Scene   string       `json:"scene,omitempty"`
}

// IsText reports whether the result is a free-text fallback reply.
func (r Result) IsText() bool {
	return r.Source == SourceLLM
}

func (r Result) String() string {
	if r.IsText() {
		return r.Text
	}
	return "[" + strings.Join(r.Devices, ", ") + "]"
}

// Turn is one recorded exchange in the dialog history.
type Turn struct {
	Input     string    `json:"input"`
	Result    Result    `json:"result"`
	Timestamp time.Time `json:"timestamp"`
}

// SceneState is the persisted form of the scene state machine.
// An empty Name means no scene is active.
type SceneState struct {
	Name           string `json:"name,omitempty"`
	RemainingTurns int    `json:"remaining_turns"`
}

// Active reports whether a scene is set.
func (s SceneState) Active() bool {
	return s.Name != ""
}

// SessionSnapshot is what a session store keeps between turns. The profile
// itself lives in the profile store under ProfileID.
type SessionSnapshot struct {
	ID        uuid.UUID  `json:"id"`
	ProfileID string     `json:"profile_id"`
	Scene     SceneState `json:"scene"`
	History   []Turn     `json:"history"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
