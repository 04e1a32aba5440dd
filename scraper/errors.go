package scraper

import "errors"

var (
	ErrNoSemester     = errors.New("period is not set to semester 1 or semester 2")
	ErrNoTimetable    = errors.New("no timetable rows found")
	ErrDayNotFound    = errors.New("no weekday label above row")
	ErrUnknownDay     = errors.New("unrecognised weekday label")
	ErrMalformedWeeks = errors.New("malformed week list")
	ErrBadColspan     = errors.New("invalid colspan")
	ErrNoWeekDates    = errors.New("no week start dates for semester")
	ErrNoStartHour    = errors.New("timetable start hour not found")
)
