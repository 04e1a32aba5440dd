package calendar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Header lists the CSV columns in output order.
var Header = []string{"task_name", "description", "start_date", "due_date", "location", "website_link"}

func (e Event) fields() []string {
	return []string{e.TaskName, e.Description, e.StartDate, e.DueDate, e.Location, e.WebsiteLink}
}

// MarshalCSV renders events as CSV: a bare header row, then one row per
// event with every value written as a JSON string. Rows are separated by
// CRLF with no trailing separator.
func MarshalCSV(events []Event) ([]byte, error) {
	var buf, field bytes.Buffer
	enc := json.NewEncoder(&field)
	enc.SetEscapeHTML(false)

	buf.WriteString(strings.Join(Header, ","))
	for i, e := range events {
		buf.WriteString("\r\n")
		for j, v := range e.fields() {
			if j > 0 {
				buf.WriteByte(',')
			}
			field.Reset()
			if err := enc.Encode(v); err != nil {
				return nil, fmt.Errorf("event %d %s: %w", i+1, Header[j], err)
			}
			buf.Write(rawLineSeparators(bytes.TrimSuffix(field.Bytes(), []byte("\n"))))
		}
	}
	return buf.Bytes(), nil
}

// rawLineSeparators undoes encoding/json's \u2028 and \u2029 escapes so
// fields match what a browser's JSON.stringify writes. Escapes are walked
// pairwise so an escaped backslash followed by "u2028" is left alone.
func rawLineSeparators(b []byte) []byte {
	if !bytes.Contains(b, []byte(`\u202`)) {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' || i+1 >= len(b) {
			out = append(out, b[i])
			continue
		}
		if rest := b[i+1:]; len(rest) >= 5 && (bytes.HasPrefix(rest, []byte("u2028")) || bytes.HasPrefix(rest, []byte("u2029"))) {
			if rest[4] == '8' {
				out = append(out, "\u2028"...)
			} else {
				out = append(out, "\u2029"...)
			}
			i += 5
			continue
		}
		out = append(out, b[i], b[i+1])
		i++
	}
	return out
}

// WriteCSV writes MarshalCSV's output to w.
func WriteCSV(w io.Writer, events []Event) error {
	data, err := MarshalCSV(events)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// FileName names an export, e.g. "lboro-timetable-2024-semester-1.csv".
func FileName(product string, year, semester int, ext string) string {
	return fmt.Sprintf("%s-%d-semester-%d.%s", product, year, semester, strings.TrimPrefix(ext, "."))
}
