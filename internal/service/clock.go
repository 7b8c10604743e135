package service

import (
	"time"

	"github.com/Harshitk-cp/homesense/internal/domain"
)

// ResolveContext derives season, weekday class and time of day from now,
// read in now's own location.
func ResolveContext(now time.Time) domain.Context {
	return domain.Context{
		Season:       seasonOf(now.Month()),
		WeekdayClass: weekdayClassOf(now.Weekday()),
		TimeOfDay:    timeOfDayOf(now.Hour()),
	}
}

func seasonOf(m time.Month) domain.Season {
	switch {
	case m >= time.March && m <= time.May:
		return domain.SeasonSpring
	case m >= time.June && m <= time.August:
		return domain.SeasonSummer
	case m >= time.September && m <= time.November:
		return domain.SeasonAutumn
	default:
		return domain.SeasonWinter
	}
}

func weekdayClassOf(d time.Weekday) domain.WeekdayClass {
	if d == time.Saturday || d == time.Sunday {
		return domain.Weekend
	}
	return domain.Weekday
}

func timeOfDayOf(hour int) domain.TimeOfDay {
	switch {
	case hour >= 5 && hour < 11:
		return domain.TimeMorning
	case hour >= 11 && hour < 17:
		return domain.TimeDaytime
	case hour >= 17 && hour < 23:
		return domain.TimeEvening
	default:
		return domain.TimeNight
	}
}
