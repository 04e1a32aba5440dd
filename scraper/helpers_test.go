package scraper_test

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T) *goquery.Document {
	t.Helper()
	f, err := os.Open("testdata/timetable.html")
	require.NoError(t, err)
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	require.NoError(t, err)
	return doc
}

func parseHTML(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

// grid wraps rows in a timetable table.
func grid(rows ...string) string {
	return "<html><body><table>" + strings.Join(rows, "\n") + "</table></body></html>"
}

// row builds a tt_info_row; an empty label gives a continuation row.
func row(label string, cells ...string) string {
	head := `<td class="weekday_col"></td>`
	if label != "" {
		head = fmt.Sprintf(`<td class="weekday_col"><span class="weekday">%s</span></td>`, label)
	}
	return `<tr class="tt_info_row">` + head + strings.Join(cells, "") + `</tr>`
}

func gap() string {
	return `<td class="tt_empty_cell"></td>`
}

func session(id string, span int, weeks string) string {
	return fmt.Sprintf(`<td class="tt_info_cell" colspan="%d">`+
		`<div class="tt_module_id_row">%s</div>`+
		`<div class="tt_module_name_row">Module %s</div>`+
		`<div class="tt_modtype_row">Lecture</div>`+
		`<div class="tt_lect_row">Lecturer</div>`+
		`<div class="tt_weeks_row">%s</div></td>`, span, id, id, weeks)
}
