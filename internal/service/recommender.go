package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Harshitk-cp/homesense/internal/domain"
	"github.com/Harshitk-cp/homesense/internal/llm"
	"github.com/Harshitk-cp/homesense/internal/metrics"
	"github.com/Harshitk-cp/homesense/internal/rules"
	"go.uber.org/zap"
)

var ErrFallbackUnavailable = errors.New("no LLM client configured for fallback")

// Recommender is the per-turn orchestrator: scene update, keyword matching,
// scene filtering, arbitration and the LLM fallback. It holds no session
// state; profile, history and scene are passed in by the caller.
type Recommender struct {
	tables  *rules.Tables
	matcher *KeywordMatcher
	scorer  *Scorer
	arbiter *Arbiter
	llm     domain.LLMClient
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
	loc     *time.Location
}

type RecommenderOption func(*Recommender)

// WithClock replaces the wall clock, for deterministic context resolution.
func WithClock(now func() time.Time) RecommenderOption {
	return func(r *Recommender) { r.now = now }
}

// WithLocation sets the time zone the clock is read in.
func WithLocation(loc *time.Location) RecommenderOption {
	return func(r *Recommender) {
		if loc != nil {
			r.loc = loc
		}
	}
}

func WithMetrics(m *metrics.Metrics) RecommenderOption {
	return func(r *Recommender) { r.metrics = m }
}

func NewRecommender(tables *rules.Tables, llmClient domain.LLMClient, logger *zap.Logger, opts ...RecommenderOption) *Recommender {
	scorer := NewScorer(tables)
	r := &Recommender{
		tables:  tables,
		matcher: NewKeywordMatcher(tables.Keywords),
		scorer:  scorer,
		arbiter: NewArbiter(scorer),
		llm:     llmClient,
		logger:  logger,
		now:     time.Now,
		loc:     time.Local,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Tables returns the rule tables the recommender was built with.
func (r *Recommender) Tables() *rules.Tables {
	return r.tables
}

// NewSceneTracker returns a tracker over the configured scenes.
func (r *Recommender) NewSceneTracker(window int, state domain.SceneState) *SceneTracker {
	return NewSceneTracker(r.tables.Scenes, window, state)
}

// Context resolves the clock context for the current instant.
func (r *Recommender) Context() domain.Context {
	return ResolveContext(r.now().In(r.loc))
}

// Recommend processes one utterance. The turn is appended to history on every
// successful path. An LLM error is returned as is and nothing is recorded.
func (r *Recommender) Recommend(ctx context.Context, utterance string, profile *domain.UserProfile, history *DialogHistory, scene *SceneTracker) (domain.Result, error) {
	now := r.now().In(r.loc)

	// 1. Scene update
	event := scene.Observe(utterance)
	r.observeScene(event, scene)

	// 2. Keyword matching
	candidates := r.matcher.Match(utterance)
	source := domain.SourceKeyword

	// 3. Scene filter; when nothing survives the scene is dropped and the
	// unfiltered candidates of this same utterance are used instead.
	if scene.Active() && len(candidates) > 0 {
		filtered := scene.Filter(candidates)
		if len(filtered) > 0 {
			candidates = filtered
			source = domain.SourceScene
		} else {
			r.observeScene(scene.ForceExit(), scene)
		}
	}

	var result domain.Result
	if len(candidates) > 0 {
		// 4. Arbitration
		devices := r.arbiter.Arbitrate(candidates, profile, ResolveContext(now))
		result = domain.Result{Devices: devices, Source: source, Scene: scene.State().Name}
	} else {
		// 5. Fallback
		reply, err := r.fallback(ctx, utterance, history, scene.State().Name)
		if err != nil {
			return domain.Result{}, err
		}
		result = domain.Result{Text: reply, Source: domain.SourceLLM, Scene: scene.State().Name}
	}

	// 6. History
	history.Add(utterance, result, now)
	r.metrics.ObserveRecommendation(string(result.Source))

	r.logger.Debug("recommendation",
		zap.String("input", truncate(utterance, 50)),
		zap.String("source", string(result.Source)),
		zap.Strings("devices", result.Devices),
		zap.String("scene", result.Scene))
	return result, nil
}

func (r *Recommender) fallback(ctx context.Context, utterance string, history *DialogHistory, scene string) (string, error) {
	if r.llm == nil {
		return "", ErrFallbackUnavailable
	}
	prompt := llm.FallbackPrompt(r.tables.Catalog, utterance, history.Context(), scene)

	start := time.Now()
	reply, err := r.llm.Chat(ctx, prompt)
	r.metrics.ObserveFallback(time.Since(start), err)
	if err != nil {
		r.logger.Warn("LLM fallback failed", zap.Error(err))
		return "", err
	}
	r.logger.Info("escalated to LLM fallback",
		zap.String("input", truncate(utterance, 50)),
		zap.Duration("latency", time.Since(start)))
	return reply, nil
}

func (r *Recommender) observeScene(event SceneEvent, scene *SceneTracker) {
	if event == SceneNone {
		return
	}
	r.metrics.ObserveScene(string(event))
	state := scene.State()
	r.logger.Debug("scene transition",
		zap.String("event", string(event)),
		zap.String("scene", state.Name),
		zap.Int("remaining_turns", state.RemainingTurns))
}

// TurnOutcome is what one user turn produced.
type TurnOutcome struct {
	Result     domain.Result
	SceneEnded bool     // the input was the end-scene command
	Recorded   []string // devices whose usage counter was incremented
}

// Turn handles one user input on behalf of a session: the end-scene command
// clears the scene, anything else is recommended on and the resulting known
// devices are recorded on the profile.
func (r *Recommender) Turn(ctx context.Context, s *Session, input string) (*TurnOutcome, error) {
	input = strings.TrimSpace(input)
	if r.tables.IsEndSceneCommand(input) {
		if s.Scene.Active() {
			r.observeScene(s.Scene.End(), s.Scene)
		}
		return &TurnOutcome{SceneEnded: true, Result: domain.Result{Source: domain.SourceScene}}, nil
	}

	result, err := r.Recommend(ctx, input, s.Profile, s.History, s.Scene)
	if err != nil {
		return nil, err
	}

	out := &TurnOutcome{Result: result}
	for _, d := range r.usedDevices(result) {
		s.Profile.RecordDeviceUsage(d)
		out.Recorded = append(out.Recorded, d)
	}
	return out, nil
}

// usedDevices returns the devices a result counts as a use of. A fallback
// reply counts only when it is exactly one catalog device.
func (r *Recommender) usedDevices(result domain.Result) []string {
	if !result.IsText() {
		return result.Devices
	}
	reply := strings.TrimSpace(result.Text)
	if r.tables.IsKnownDevice(reply) {
		return []string{reply}
	}
	return nil
}

// truncate shortens s to at most maxLen runes for logging.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
