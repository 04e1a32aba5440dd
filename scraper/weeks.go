package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	semesterWeeksPattern = regexp.MustCompile(`Sem\s+\d:\s+(.*)$`)
	weekRangePattern     = regexp.MustCompile(`^(\d{1,2})\s*-\s*(\d{1,2})$`)
)

// ParseWeeks extracts the week numbers from text such as "Sem 1: 1 - 3, 6".
//
// A range "A - B" yields A up to but not including B, so "9 - 11" is weeks
// 9 and 10. The timetable has always been read that way and exports depend
// on it. Entry order is kept as written.
func ParseWeeks(text string) ([]int, error) {
	text = cleanText(text)
	match := semesterWeeksPattern.FindStringSubmatch(text)
	if match == nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedWeeks, text)
	}

	var weeks []int
	for _, entry := range strings.Split(match[1], ",") {
		entry = strings.TrimSpace(entry)
		if r := weekRangePattern.FindStringSubmatch(entry); r != nil {
			from, _ := strconv.Atoi(r[1])
			to, _ := strconv.Atoi(r[2])
			if from < 1 {
				return nil, fmt.Errorf("%w: bad week %q", ErrMalformedWeeks, entry)
			}
			if to < from {
				return nil, fmt.Errorf("%w: descending range %q", ErrMalformedWeeks, entry)
			}
			for w := from; w < to; w++ {
				weeks = append(weeks, w)
			}
			continue
		}
		week, err := strconv.Atoi(entry)
		if err != nil || week < 1 {
			return nil, fmt.Errorf("%w: bad week %q", ErrMalformedWeeks, entry)
		}
		weeks = append(weeks, week)
	}
	return weeks, nil
}

// cleanText trims s and collapses internal whitespace runs to one space.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
