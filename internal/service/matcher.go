package service

import (
	"strings"

	"github.com/Harshitk-cp/homesense/internal/domain"
	"github.com/Harshitk-cp/homesense/internal/rules"
)

// KeywordMatcher turns an utterance into device candidates using an ordered
// keyword table.
type KeywordMatcher struct {
	rules []rules.KeywordRule
}

func NewKeywordMatcher(keywords []rules.KeywordRule) *KeywordMatcher {
	return &KeywordMatcher{rules: keywords}
}

// Match returns one candidate per table entry whose keyword occurs in the
// lower-cased utterance, in table order. No match yields an empty slice.
func (m *KeywordMatcher) Match(utterance string) []domain.Candidate {
	text := strings.ToLower(utterance)
	out := []domain.Candidate{}
	for _, r := range m.rules {
		if !strings.Contains(text, r.Keyword) {
			continue
		}
		if len(r.Devices) == 1 {
			out = append(out, domain.Single(r.Devices[0]))
		} else {
			out = append(out, domain.Group(r.Devices...))
		}
	}
	return out
}
