package service

import (
	"slices"
	"strings"

	"github.com/Harshitk-cp/homesense/internal/domain"
	"github.com/Harshitk-cp/homesense/internal/rules"
)

// SceneEvent names a scene state transition.
type SceneEvent string

const (
	SceneNone      SceneEvent = "none"      // inactive and nothing detected
	SceneEntered   SceneEvent = "entered"   // inactive -> active, or switched to another scene
	SceneRefreshed SceneEvent = "refreshed" // same scene detected again, counter reset
	SceneCarried   SceneEvent = "carried"   // persisted one more turn, counter decremented
	SceneExpired   SceneEvent = "expired"   // counter ran out
	SceneExhausted SceneEvent = "exhausted" // no device survived the scene filter
	SceneEnded     SceneEvent = "ended"     // explicit end-scene command
)

// SceneTracker is the per-session scene state machine. It is not safe for
// concurrent use; a session owns exactly one.
type SceneTracker struct {
	scenes []rules.SceneRule
	window int
	state  domain.SceneState
}

// NewSceneTracker resumes the state machine from state. With no scenes
// configured the tracker never activates.
func NewSceneTracker(scenes []rules.SceneRule, window int, state domain.SceneState) *SceneTracker {
	if !state.Active() {
		state = domain.SceneState{}
	}
	return &SceneTracker{scenes: scenes, window: window, state: state}
}

// State returns the current scene state.
func (t *SceneTracker) State() domain.SceneState {
	return t.state
}

// Active reports whether a scene is set.
func (t *SceneTracker) Active() bool {
	return t.state.Active()
}

// Observe advances the state machine by one turn for utterance. A detected
// scene keyword (re)enters its scene with a full window; otherwise an active
// scene is carried with its counter decremented, or cleared once the counter
// has reached zero.
func (t *SceneTracker) Observe(utterance string) SceneEvent {
	if name, ok := t.detect(utterance); ok {
		event := SceneEntered
		if name == t.state.Name {
			event = SceneRefreshed
		}
		t.state = domain.SceneState{Name: name, RemainingTurns: t.window}
		return event
	}

	if !t.state.Active() {
		return SceneNone
	}
	if t.state.RemainingTurns <= 0 {
		t.state = domain.SceneState{}
		return SceneExpired
	}
	t.state.RemainingTurns--
	return SceneCarried
}

func (t *SceneTracker) detect(utterance string) (string, bool) {
	text := strings.ToLower(utterance)
	for _, s := range t.scenes {
		for _, kw := range s.Keywords {
			if strings.Contains(text, kw) {
				return s.Name, true
			}
		}
	}
	return "", false
}

// Filter restricts candidates to the devices the active scene permits.
// Groups keep their surviving members. Without an active scene the
// candidates are returned unchanged.
func (t *SceneTracker) Filter(candidates []domain.Candidate) []domain.Candidate {
	if !t.state.Active() {
		return candidates
	}
	permitted := t.permitted()
	allow := func(d string) bool { return slices.Contains(permitted, d) }

	var out []domain.Candidate
	for _, c := range candidates {
		if kept, ok := c.Restrict(allow); ok {
			out = append(out, kept)
		}
	}
	return out
}

func (t *SceneTracker) permitted() []string {
	for _, s := range t.scenes {
		if s.Name == t.state.Name {
			return s.Devices
		}
	}
	return nil
}

// ForceExit clears the scene because the filter left nothing.
func (t *SceneTracker) ForceExit() SceneEvent {
	t.state = domain.SceneState{}
	return SceneExhausted
}

// End clears the scene on an explicit command, regardless of the counter.
func (t *SceneTracker) End() SceneEvent {
	t.state = domain.SceneState{}
	return SceneEnded
}
