package scraper

import "time"

// HalfHour is the width of one timetable grid column.
const HalfHour = 30 * time.Minute

// Session represents one weekly recurring slot on the timetable grid.
type Session struct {
	Link         string
	ModuleID     string
	ModuleName   string
	Type         string
	LecturerName string
	Room         string
	BuildingName string
	Day          int           // 0 = Monday
	TimeOffset   time.Duration // from the grid's display start hour
	Duration     time.Duration
	Weeks        []int
}

// Reference holds the page supplied values needed to date sessions.
type Reference struct {
	Semester int
	// WeekStarts is indexed by week number; index 0 and missing weeks are zero.
	WeekStarts []time.Time
	StartHour  int
}
