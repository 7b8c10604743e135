package domain

import (
	"slices"
	"strings"
)

// CandidateKind tags a Candidate as a single device or an alternative group.
type CandidateKind int

const (
	CandidateSingle CandidateKind = iota
	CandidateGroup
)

func (k CandidateKind) String() string {
	if k == CandidateGroup {
		return "group"
	}
	return "single"
}

// Candidate is one keyword-matcher output item. A group holds mutually
// exclusive alternatives of which at most one device is picked.
type Candidate struct {
	Kind    CandidateKind
	devices []string
}

// Single returns a candidate for exactly one device.
func Single(device string) Candidate {
	return Candidate{Kind: CandidateSingle, devices: []string{device}}
}

// Group returns a candidate holding alternatives in their given order.
// A group of one device collapses into a Single.
func Group(devices ...string) Candidate {
	if len(devices) == 1 {
		return Single(devices[0])
	}
	return Candidate{Kind: CandidateGroup, devices: slices.Clone(devices)}
}

// IsGroup reports whether the candidate is an alternative group.
func (c Candidate) IsGroup() bool {
	return c.Kind == CandidateGroup
}

// Device returns the device of a Single candidate, or the first alternative of a group.
func (c Candidate) Device() string {
	if len(c.devices) == 0 {
		return ""
	}
	return c.devices[0]
}

// Devices returns a copy of the candidate's devices in their original order.
func (c Candidate) Devices() []string {
	return slices.Clone(c.devices)
}

// GroupKey is the canonical, order-independent key of the candidate's devices.
func (c Candidate) GroupKey() string {
	sorted := slices.Clone(c.devices)
	slices.Sort(sorted)
	return strings.Join(sorted, "\x1f")
}

// Restrict keeps only the devices accepted by allow. The second return value
// is false when nothing survives.
func (c Candidate) Restrict(allow func(string) bool) (Candidate, bool) {
	var kept []string
	for _, d := range c.devices {
		if allow(d) {
			kept = append(kept, d)
		}
	}
	if len(kept) == 0 {
		return Candidate{}, false
	}
	return Group(kept...), true
}

func (c Candidate) String() string {
	if c.IsGroup() {
		return "[" + strings.Join(c.devices, ", ") + "]"
	}
	return c.Device()
}
