package domain

// Season is the coarse season derived from the calendar month.
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
)

// WeekdayClass separates working days from the weekend.
type WeekdayClass string

const (
	Weekday WeekdayClass = "weekday"
	Weekend WeekdayClass = "weekend"
)

// TimeOfDay is the coarse slot derived from the local hour.
type TimeOfDay string

const (
	TimeMorning TimeOfDay = "morning"
	TimeDaytime TimeOfDay = "daytime"
	TimeEvening TimeOfDay = "evening"
	TimeNight   TimeOfDay = "night"
)

// Context is the clock snapshot a recommendation is scored against.
// It is recomputed for every call and never cached.
type Context struct {
	Season       Season       `json:"season"`
	WeekdayClass WeekdayClass `json:"weekday_class"`
	TimeOfDay    TimeOfDay    `json:"time_of_day"`
}
