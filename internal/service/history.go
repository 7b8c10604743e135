package service

import (
	"slices"
	"strings"
	"time"

	"github.com/Harshitk-cp/homesense/internal/domain"
)

const DefaultHistorySize = 3

// DialogHistory keeps the last few turns of a session, oldest first.
type DialogHistory struct {
	turns    []domain.Turn
	capacity int
}

// NewDialogHistory creates a history holding at most capacity turns, seeded
// with turns (only the newest capacity of them are kept).
func NewDialogHistory(capacity int, turns []domain.Turn) *DialogHistory {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	h := &DialogHistory{capacity: capacity}
	for _, t := range turns {
		h.push(t)
	}
	return h
}

// Add records a turn, evicting the oldest one when full.
func (h *DialogHistory) Add(input string, result domain.Result, at time.Time) {
	h.push(domain.Turn{Input: input, Result: result, Timestamp: at})
}

func (h *DialogHistory) push(t domain.Turn) {
	h.turns = append(h.turns, t)
	if len(h.turns) > h.capacity {
		h.turns = slices.Delete(h.turns, 0, len(h.turns)-h.capacity)
	}
}

// Turns returns a copy of the recorded turns in chronological order.
func (h *DialogHistory) Turns() []domain.Turn {
	return slices.Clone(h.turns)
}

func (h *DialogHistory) Len() int {
	return len(h.turns)
}

func (h *DialogHistory) Capacity() int {
	return h.capacity
}

// Context renders the history as prompt text.
func (h *DialogHistory) Context() string {
	parts := make([]string, 0, len(h.turns))
	for _, t := range h.turns {
		parts = append(parts, "用户:"+t.Input+"\n系统:"+t.Result.String())
	}
	return strings.Join(parts, "\n======\n")
}
