package domain

import (
	"errors"
	"maps"
)

const (
	RegionNorth = "north"
	RegionSouth = "south"

	ScheduleRegular    = "regular"
	ScheduleNightShift = "night_shift"
	ScheduleFlexible   = "flexible"

	CookingRare     = "rare"
	CookingMedium   = "medium"
	CookingFrequent = "frequent"
)

// Family feature names, in the order the scorer evaluates them.
const (
	FeatureHasChildren = "has_children"
	FeatureHasElderly  = "has_elderly"
	FeatureHasPet      = "has_pet"
)

var FamilyFeatures = []string{FeatureHasChildren, FeatureHasElderly, FeatureHasPet}

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileCorrupt  = errors.New("profile is corrupt")
)

// UserProfile describes the household a recommendation is made for.
type UserProfile struct {
	Age           *int           `json:"age,omitempty"`
	Gender        string         `json:"gender,omitempty"`
	Region        string         `json:"region"`
	FamilyMembers int            `json:"family_members"`
	HasChildren   bool           `json:"has_children"`
	HasElderly    bool           `json:"has_elderly"`
	HasPet        bool           `json:"has_pet"`
	WorkSchedule  string         `json:"work_schedule"`
	CookingHabits string         `json:"cooking_habits"`
	DeviceUsage   map[string]int `json:"device_usage"`
}

// DefaultUserProfile returns the profile used when nothing is persisted.
func DefaultUserProfile() *UserProfile {
	age := 20
	return &UserProfile{
		Age:           &age,
		Gender:        "male",
		Region:        RegionSouth,
		FamilyMembers: 1,
		WorkSchedule:  ScheduleRegular,
		CookingHabits: CookingMedium,
		DeviceUsage:   map[string]int{},
	}
}

// RecordDeviceUsage increments the usage counter of device by one.
func (p *UserProfile) RecordDeviceUsage(device string) {
	if device == "" {
		return
	}
	if p.DeviceUsage == nil {
		p.DeviceUsage = map[string]int{}
	}
	p.DeviceUsage[device]++
}

// Usage returns how often device has been used.
func (p *UserProfile) Usage(device string) int {
	return p.DeviceUsage[device]
}

// HasFeature reports whether the named family feature is set.
func (p *UserProfile) HasFeature(feature string) bool {
	switch feature {
	case FeatureHasChildren:
		return p.HasChildren
	case FeatureHasElderly:
		return p.HasElderly
	case FeatureHasPet:
		return p.HasPet
	default:
		return false
	}
}

// Normalize fills zero values with defaults and drops negative usage counts.
func (p *UserProfile) Normalize() {
	def := DefaultUserProfile()
	if p.Region == "" {
		p.Region = def.Region
	}
	if p.FamilyMembers < 1 {
		p.FamilyMembers = 1
	}
	if p.WorkSchedule == "" {
		p.WorkSchedule = def.WorkSchedule
	}
	if p.CookingHabits == "" {
		p.CookingHabits = def.CookingHabits
	}
	if p.DeviceUsage == nil {
		p.DeviceUsage = map[string]int{}
	}
	for d, n := range p.DeviceUsage {
		if n < 0 {
			delete(p.DeviceUsage, d)
		}
	}
}

// Clone returns a deep copy of the profile.
func (p *UserProfile) Clone() *UserProfile {
	c := *p
	if p.Age != nil {
		age := *p.Age
		c.Age = &age
	}
	c.DeviceUsage = maps.Clone(p.DeviceUsage)
	if c.DeviceUsage == nil {
		c.DeviceUsage = map[string]int{}
	}
	return &c
}

// ProfileLoadStatus tells whether a profile came from storage or was defaulted.
type ProfileLoadStatus string

const (
	ProfileLoaded    ProfileLoadStatus = "loaded"
	ProfileDefaulted ProfileLoadStatus = "defaulted"
)

// ProfileLoad is the outcome of loading a profile. Loading never fails:
// on a missing or unreadable record the default profile is returned with
// Reason explaining why.
type ProfileLoad struct {
	Profile *UserProfile
	Status  ProfileLoadStatus
	Reason  error
}

// Loaded wraps a profile read from storage.
func Loaded(p *UserProfile) ProfileLoad {
	return ProfileLoad{Profile: p, Status: ProfileLoaded}
}

// Defaulted wraps the default profile together with the reason it was used.
func Defaulted(reason error) ProfileLoad {
	return ProfileLoad{Profile: DefaultUserProfile(), Status: ProfileDefaulted, Reason: reason}
}
