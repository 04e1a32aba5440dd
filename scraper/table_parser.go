package scraper

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"lboro-timetable/logging"
)

var buildingReplacer = strings.NewReplacer("...", "", "(", "", ")", "")

// ParseSessions walks the timetable grid and returns one Session per
// populated cell, rows top to bottom and cells left to right.
func ParseSessions(doc *goquery.Document) ([]Session, error) {
	log := logging.WithComponent("scraper")

	rows := doc.Find(".tt_info_row")
	if rows.Length() == 0 {
		return nil, ErrNoTimetable
	}

	days := newDayResolver()
	var sessions []Session
	for i := range rows.Nodes {
		row := rows.Eq(i)
		day, err := days.resolve(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		rowSessions, err := parseRow(row, day)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		log.Debug().Int("row", i+1).Str("day", dayNames[day]).Int("sessions", len(rowSessions)).Msg("parsed timetable row")
		sessions = append(sessions, rowSessions...)
	}

	log.Debug().Int("sessions", len(sessions)).Msg("parsed timetable")
	return sessions, nil
}

// rowAccumulator carries the running state of one row's left to right walk.
type rowAccumulator struct {
	sessions []Session
	gap      time.Duration
}

// nextOffset is where a session starting at the current cell begins.
func (acc *rowAccumulator) nextOffset() time.Duration {
	if n := len(acc.sessions); n > 0 {
		prev := acc.sessions[n-1]
		return prev.TimeOffset + prev.Duration + acc.gap
	}
	return acc.gap
}

func parseRow(row *goquery.Selection, day int) ([]Session, error) {
	var acc rowAccumulator
	cells := row.ChildrenFiltered("td").Not(".weekday_col")
	for i := range cells.Nodes {
		cell := cells.Eq(i)
		if !isSessionCell(cell) {
			acc.gap += HalfHour
			continue
		}

		session, err := parseCell(cell, day, acc.nextOffset())
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i+1, err)
		}
		acc.sessions = append(acc.sessions, session)
		acc.gap = 0
	}
	return acc.sessions, nil
}

func isSessionCell(cell *goquery.Selection) bool {
	return cell.HasClass("tt_info_cell") || cell.HasClass("new_row_tt_info_cell")
}

func parseCell(cell *goquery.Selection, day int, offset time.Duration) (Session, error) {
	span, err := colspan(cell)
	if err != nil {
		return Session{}, err
	}

	weeks, err := ParseWeeks(cell.Find(".tt_weeks_row").Text())
	if err != nil {
		return Session{}, err
	}

	rooms := cell.Find(".tt_room_row")
	return Session{
		Link:         cleanText(cell.Find(".online_link").AttrOr("href", "")),
		ModuleID:     cleanText(cell.Find(".tt_module_id_row").Text()),
		ModuleName:   cleanText(cell.Find(".tt_module_name_row").Text()),
		Type:         cleanText(cell.Find(".tt_modtype_row").Text()),
		LecturerName: cleanText(cell.Find(".tt_lect_row").Text()),
		Room:         cleanText(strings.ReplaceAll(rooms.First().Text(), "...", "")),
		BuildingName: cleanText(buildingReplacer.Replace(rooms.Eq(1).Text())),
		Day:          day,
		TimeOffset:   offset,
		Duration:     time.Duration(span) * HalfHour,
		Weeks:        weeks,
	}, nil
}

// colspan defaults to 1 like a browser does when the attribute is absent.
func colspan(cell *goquery.Selection) (int, error) {
	raw := strings.TrimSpace(cell.AttrOr("colspan", "1"))
	span, err := strconv.Atoi(raw)
	if err != nil || span < 1 {
		return 0, fmt.Errorf("%w: %q", ErrBadColspan, raw)
	}
	return span, nil
}

// dayResolver maps rows to weekdays. Rows whose sessions overflow from the
// row above carry no label and take the day of the nearest labelled row
// before them. Results are memoised so each row is inspected once.
type dayResolver struct {
	days map[*html.Node]int
}

func newDayResolver() *dayResolver {
	return &dayResolver{days: make(map[*html.Node]int)}
}

func (r *dayResolver) resolve(row *goquery.Selection) (int, error) {
	var unresolved []*html.Node
	day := -1
	for s := row; s.Length() > 0; s = s.Prev() {
		node := s.Get(0)
		if d, ok := r.days[node]; ok {
			day = d
			break
		}
		unresolved = append(unresolved, node)

		label := cleanText(s.Find(".weekday").Text())
		if label == "" {
			continue
		}
		d, ok := DayIndex(label)
		if !ok {
			return -1, fmt.Errorf("%w: %q", ErrUnknownDay, label)
		}
		day = d
		break
	}
	if day < 0 {
		return -1, ErrDayNotFound
	}

	for _, node := range unresolved {
		r.days[node] = day
	}
	return day, nil
}
