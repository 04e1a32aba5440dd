package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// dayNames is indexed by Session.Day.
var dayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// DayIndex maps a weekday name or its three letter abbreviation to a
// Monday based index.
func DayIndex(label string) (int, bool) {
	for i, name := range dayNames {
		if strings.EqualFold(label, name) || strings.EqualFold(label, name[:3]) {
			return i, true
		}
	}
	return -1, false
}

// DayName returns the weekday name for a Monday based index.
func DayName(day int) string {
	if day < 0 || day >= len(dayNames) {
		return ""
	}
	return dayNames[day]
}

var periodIDs = map[string]int{"sem1": 1, "sem2": 2}

// ParseSemester converts a period selector value ("sem1", "sem2") to a semester number.
func ParseSemester(id string) (int, error) {
	semester, ok := periodIDs[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return 0, fmt.Errorf("%w: got %q", ErrNoSemester, id)
	}
	return semester, nil
}

// SelectedSemester reads the semester chosen in the page's period dropdown.
func SelectedSemester(doc *goquery.Document) (int, error) {
	period := doc.Find("#P2_MY_PERIOD")
	if period.Length() == 0 {
		return 0, fmt.Errorf("%w: period dropdown missing", ErrNoSemester)
	}

	option := period.Find("option[selected]").First()
	if option.Length() == 0 {
		// A select with nothing marked shows its first option.
		option = period.Find("option").First()
	}
	return ParseSemester(option.AttrOr("value", option.Text()))
}

var weekOptionPattern = regexp.MustCompile(`^Sem (\d) - Wk (\d{1,2}) \(starting (\d{1,2}-[A-Za-z]{3}-\d{4})\)$`)

// WeekStartDates collects the first day of each teaching week of the
// semester from the period dropdown. Options read like
// "Sem 1 - Wk 3 (starting 16-OCT-2023)". The result is indexed by week
// number, dates are midnight UTC.
func WeekStartDates(doc *goquery.Document, semester int) ([]time.Time, error) {
	prefix := fmt.Sprintf("Sem %d - Wk", semester)

	var starts []time.Time
	var err error
	doc.Find("#P2_MY_PERIOD > option").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := cleanText(s.Text())
		if !strings.Contains(text, prefix) {
			return true
		}

		match := weekOptionPattern.FindStringSubmatch(text)
		if match == nil {
			err = fmt.Errorf("unexpected week option %q", text)
			return false
		}
		week, _ := strconv.Atoi(match[2])
		start, perr := time.Parse("2-Jan-2006", match[3])
		if perr != nil {
			err = fmt.Errorf("week %d start date: %w", week, perr)
			return false
		}

		for len(starts) <= week {
			starts = append(starts, time.Time{})
		}
		if !starts[week].IsZero() {
			err = fmt.Errorf("week %d listed twice", week)
			return false
		}
		starts[week] = start
		return true
	})
	if err != nil {
		return nil, err
	}
	if len(starts) == 0 {
		return nil, fmt.Errorf("%w %d", ErrNoWeekDates, semester)
	}
	return starts, nil
}

// DisplayStartHour reads the clock hour of the grid's first column, e.g. 9 for "09:00".
func DisplayStartHour(doc *goquery.Document) (int, error) {
	text := cleanText(doc.Find(".first_time_slot_col").First().Text())
	if text == "" {
		return 0, ErrNoStartHour
	}
	hour, err := strconv.Atoi(strings.SplitN(text, ":", 2)[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: %q", ErrNoStartHour, text)
	}
	return hour, nil
}

// ReadReference gathers the semester, week start dates and start hour from
// the page. A non-empty semesterID takes precedence over the dropdown.
func ReadReference(doc *goquery.Document, semesterID string) (Reference, error) {
	var semester int
	var err error
	if semesterID != "" {
		semester, err = ParseSemester(semesterID)
	} else {
		semester, err = SelectedSemester(doc)
	}
	if err != nil {
		return Reference{}, err
	}

	starts, err := WeekStartDates(doc, semester)
	if err != nil {
		return Reference{}, err
	}
	hour, err := DisplayStartHour(doc)
	if err != nil {
		return Reference{}, err
	}
	return Reference{Semester: semester, WeekStarts: starts, StartHour: hour}, nil
}
