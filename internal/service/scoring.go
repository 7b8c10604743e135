package service

import (
	"slices"

	"github.com/Harshitk-cp/homesense/internal/domain"
	"github.com/Harshitk-cp/homesense/internal/rules"
)

// Scoring weights
const (
	RegionSeasonWeight  = 3.0
	FamilyFeatureWeight = 2.5 // per matching feature
	CookingWeight       = 2.0
	WorkScheduleWeight  = 1.5
	SeasonWeight        = 1.0
	TimeSlotWeight      = 1.0
	UsageWeight         = 0.2 // per recorded use
)

// Scorer computes a device's affinity for a household at a point in time.
type Scorer struct {
	tables *rules.Tables
}

func NewScorer(tables *rules.Tables) *Scorer {
	return &Scorer{tables: tables}
}

// Score sums the independent rule contributions for device. Unknown devices
// only collect the usage term.
func (s *Scorer) Score(device string, p *domain.UserProfile, c domain.Context) float64 {
	t := s.tables
	score := 0.0

	if slices.Contains(t.RegionSeason[p.Region][string(c.Season)], device) {
		score += RegionSeasonWeight
	}
	for _, feature := range domain.FamilyFeatures {
		if p.HasFeature(feature) && slices.Contains(t.FamilyFeatures[feature], device) {
			score += FamilyFeatureWeight
		}
	}
	if slices.Contains(t.Cooking[p.CookingHabits], device) {
		score += CookingWeight
	}
	if p.WorkSchedule != domain.ScheduleRegular && slices.Contains(t.WorkSchedule[p.WorkSchedule], device) {
		score += WorkScheduleWeight
	}
	if slices.Contains(t.SeasonDevices[string(c.Season)], device) {
		score += SeasonWeight
	}
	if slices.Contains(t.TimeDevices[string(c.WeekdayClass)][string(c.TimeOfDay)], device) {
		score += TimeSlotWeight
	}
	score += UsageWeight * float64(p.Usage(device))

	return score
}
