package calendar

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"lboro-timetable/logging"
	"lboro-timetable/scraper"
)

// TimestampLayout is the compact UTC form used for start and due dates.
const TimestampLayout = "20060102T150405Z"

const day = 24 * time.Hour

var (
	ErrUnknownWeek = errors.New("no start date for week")
	ErrInvalidDay  = errors.New("session day out of range")
)

// Event is one dated occurrence of a session.
type Event struct {
	TaskName    string `json:"task_name"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	DueDate     string `json:"due_date"`
	Location    string `json:"location"`
	WebsiteLink string `json:"website_link"`
}

// Expand turns every session into one event per listed week. weekStarts is
// indexed by week number and startHour is the clock hour of the grid's first
// column. Events come back ordered by calendar date; events on the same date
// keep the order they were produced in rather than being sorted by time.
func Expand(sessions []scraper.Session, weekStarts []time.Time, startHour int) ([]Event, error) {
	log := logging.WithComponent("calendar")
	lower := cases.Lower(language.Und)

	var events []Event
	for i, s := range sessions {
		if s.Day < 0 || s.Day > 6 {
			return nil, fmt.Errorf("session %d (%s): %w: %d", i+1, s.ModuleID, ErrInvalidDay, s.Day)
		}
		sessionType := lower.String(s.Type)

		for _, week := range s.Weeks {
			if week < 1 || week >= len(weekStarts) || weekStarts[week].IsZero() {
				return nil, fmt.Errorf("session %d (%s): %w %d", i+1, s.ModuleID, ErrUnknownWeek, week)
			}

			start := weekStarts[week].UTC().
				Add(time.Duration(s.Day) * day).
				Add(time.Duration(startHour) * time.Hour).
				Add(s.TimeOffset)
			end := start.Add(s.Duration)

			events = append(events, Event{
				TaskName:    fmt.Sprintf("%s %s (%s)", s.ModuleName, s.Type, location(s)),
				Description: describe(s, week, sessionType),
				StartDate:   start.Format(TimestampLayout),
				DueDate:     end.Format(TimestampLayout),
				Location:    location(s),
				WebsiteLink: s.Link,
			})
		}
	}

	slices.SortStableFunc(events, func(a, b Event) int {
		return strings.Compare(datePart(a.StartDate), datePart(b.StartDate))
	})

	log.Debug().Int("sessions", len(sessions)).Int("events", len(events)).Msg("expanded sessions")
	return events, nil
}

func location(s scraper.Session) string {
	if s.Room == "" {
		return "online"
	}
	return s.Room
}

// describe builds the event description. Unlike older exports it carries no
// doubled or trailing spaces around the room and building parts, so text
// diffs against those exports differ on every row that has a room.
func describe(s scraper.Session, week int, sessionType string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Week %d %s for %s (%s) with %s", week, sessionType, s.ModuleName, s.ModuleID, s.LecturerName)
	if s.Room != "" {
		fmt.Fprintf(&b, " in %s", s.Room)
	}
	if s.BuildingName != "" {
		fmt.Fprintf(&b, " (%s)", s.BuildingName)
	}
	return b.String()
}

// datePart is the YYYYMMDD prefix of a compact timestamp.
func datePart(ts string) string {
	date, _, _ := strings.Cut(ts, "T")
	return date
}

// Times parses an event's start and due dates.
func (e Event) Times() (start, end time.Time, err error) {
	start, err = time.Parse(TimestampLayout, e.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("error parsing start date: %w", err)
	}
	end, err = time.Parse(TimestampLayout, e.DueDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("error parsing due date: %w", err)
	}
	return start, end, nil
}
