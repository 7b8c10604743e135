package service

import (
	"sort"

	"github.com/Harshitk-cp/homesense/internal/domain"
)

// Arbiter flattens candidates into a scored device list, choosing one device
// per alternative group.
type Arbiter struct {
	scorer *Scorer
}

func NewArbiter(scorer *Scorer) *Arbiter {
	return &Arbiter{scorer: scorer}
}

// Arbitrate resolves candidates in order. A group already resolved in this
// call is skipped, and a device already in the result is not added twice.
// The result is stable-sorted by descending score. Nil is returned only for
// empty input.
func (a *Arbiter) Arbitrate(candidates []domain.Candidate, p *domain.UserProfile, c domain.Context) []string {
	if len(candidates) == 0 {
		return nil
	}

	var result []string
	scores := make(map[string]float64)
	resolved := make(map[string]bool)

	add := func(device string, score float64) {
		if _, ok := scores[device]; ok {
			return
		}
		scores[device] = score
		result = append(result, device)
	}

	for _, cand := range candidates {
		if !cand.IsGroup() {
			d := cand.Device()
			add(d, a.scorer.Score(d, p, c))
			continue
		}

		key := cand.GroupKey()
		if resolved[key] {
			continue
		}
		resolved[key] = true

		best, bestScore := a.pick(cand.Devices(), p, c)
		add(best, bestScore)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return scores[result[i]] > scores[result[j]]
	})
	return result
}

// pick returns the strictly highest-scoring device; on a tie the earlier one wins.
func (a *Arbiter) pick(devices []string, p *domain.UserProfile, c domain.Context) (string, float64) {
	best := devices[0]
	bestScore := a.scorer.Score(best, p, c)
	for _, d := range devices[1:] {
		if s := a.scorer.Score(d, p, c); s > bestScore {
			best, bestScore = d, s
		}
	}
	return best, bestScore
}
