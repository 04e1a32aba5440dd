package calendar

import (
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

const productID = "-//lboro-timetable//timetable export//EN"

var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://lucas.lboro.ac.uk/timetable"))

// ICSOptions controls calendar level properties of an iCalendar export.
type ICSOptions struct {
	Name  string    // X-WR-CALNAME shown by calendar clients
	Stamp time.Time // DTSTAMP for every event; omitted when zero
}

// EventID derives a stable UID from what identifies an occurrence, so
// re-importing an export updates events instead of duplicating them.
func EventID(summary, start, end string) string {
	return uuid.NewSHA1(uidNamespace, []byte(summary+start+end)).String()
}

// WriteICS writes events as an iCalendar document.
func WriteICS(w io.Writer, events []Event, opts ICSOptions) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	if opts.Name != "" {
		cal.SetXWRCalName(opts.Name)
	}

	for i, e := range events {
		start, end, err := e.Times()
		if err != nil {
			return fmt.Errorf("event %d: %w", i+1, err)
		}

		event := cal.AddEvent(EventID(e.TaskName, e.StartDate, e.DueDate))
		if !opts.Stamp.IsZero() {
			event.SetDtStampTime(opts.Stamp)
		}
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(e.TaskName)
		event.SetDescription(e.Description)
		event.SetLocation(e.Location)
		if e.WebsiteLink != "" {
			event.SetURL(e.WebsiteLink)
		}
	}

	_, err := io.WriteString(w, cal.Serialize())
	return err
}

// ReadICS parses an iCalendar document written by WriteICS back into events.
func ReadICS(r io.Reader) ([]Event, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("error parsing ICS data: %w", err)
	}

	var events []Event
	for _, event := range cal.Events() {
		if event == nil {
			continue
		}
		startProperty := event.GetProperty(ics.ComponentPropertyDtStart)
		endProperty := event.GetProperty(ics.ComponentPropertyDtEnd)
		if startProperty == nil || endProperty == nil {
			return nil, fmt.Errorf("event %s has no start or end", event.Id())
		}

		e := Event{
			TaskName:    propertyText(event, ics.ComponentPropertySummary),
			Description: propertyText(event, ics.ComponentPropertyDescription),
			StartDate:   startProperty.Value,
			DueDate:     endProperty.Value,
			Location:    propertyText(event, ics.ComponentPropertyLocation),
			WebsiteLink: propertyText(event, ics.ComponentPropertyUrl),
		}
		if _, _, err := e.Times(); err != nil {
			return nil, fmt.Errorf("event %s: %w", event.Id(), err)
		}
		events = append(events, e)
	}
	return events, nil
}

func propertyText(event *ics.VEvent, name ics.ComponentProperty) string {
	p := event.GetProperty(name)
	if p == nil {
		return ""
	}
	// TEXT values come back already unescaped by the parser.
	return p.Value
}
