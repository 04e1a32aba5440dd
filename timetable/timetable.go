// Package timetable turns a rendered timetable page into calendar events.
package timetable

import (
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"

	"lboro-timetable/calendar"
	"lboro-timetable/logging"
	"lboro-timetable/scraper"
)

// Options tune a conversion.
type Options struct {
	// Semester overrides the page's period dropdown ("sem1" or "sem2").
	Semester string
}

// Result is the outcome of one conversion.
type Result struct {
	Reference scraper.Reference
	Sessions  []scraper.Session
	Events    []calendar.Event
}

// Convert reads the reference values, parses the grid and expands every
// session into dated events. Any failure aborts the whole conversion.
func Convert(doc *goquery.Document, opts Options) (*Result, error) {
	log := logging.WithComponent("timetable")

	ref, err := scraper.ReadReference(doc, opts.Semester)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("semester", ref.Semester).Int("start_hour", ref.StartHour).Int("weeks", len(ref.WeekStarts)-1).Msg("read page reference values")

	sessions, err := scraper.ParseSessions(doc)
	if err != nil {
		return nil, fmt.Errorf("error parsing timetable: %w", err)
	}

	events, err := calendar.Expand(sessions, ref.WeekStarts, ref.StartHour)
	if err != nil {
		return nil, fmt.Errorf("error expanding sessions: %w", err)
	}

	log.Info().Int("semester", ref.Semester).Int("sessions", len(sessions)).Int("events", len(events)).Msg("converted timetable")
	return &Result{Reference: ref, Sessions: sessions, Events: events}, nil
}

// ConvertHTML parses an HTML page from r and converts it.
func ConvertHTML(r io.Reader, opts Options) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML: %w", err)
	}
	return Convert(doc, opts)
}

// CSV renders the result's events as CSV.
func (r *Result) CSV() ([]byte, error) {
	return calendar.MarshalCSV(r.Events)
}
