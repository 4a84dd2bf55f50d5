package record

import (
	"strconv"
	"strings"

	"github.com/tms-archive/meetings/internal/errors"
)

// YearTracker assigns academic years (October to September) to archive
// entries visited in order. Entries without a usable date stay in the current
// year; a note starts a new year unless it says the society did not meet.
type YearTracker struct {
	year int
}

// Year returns the academic year of the last entry visited, or 0 before any.
func (t *YearTracker) Year() int {
	return t.year
}

// Next visits e and reports whether it starts a new academic year.
func (t *YearTracker) Next(e Entry) (bool, error) {
	year := t.year
	switch e := e.(type) {
	case *Note:
		if !strings.Contains(e.Text, "did not meet") {
			year = t.year + 1
		}
	case *Meeting:
		if e.Date != "" && !strings.Contains(e.Date, "?") {
			y, _ := strconv.Atoi(e.Date[0:4])
			month, _ := strconv.Atoi(e.Date[5:7])
			year = y
			if month < 10 {
				year = y - 1
			}
		}
	}
	if year > t.year {
		t.year = year
		return true, nil
	}
	if year != t.year {
		return false, errors.NewStructural("year going backwards at " + describe(e))
	}
	return false, nil
}

func describe(e Entry) string {
	switch e := e.(type) {
	case *Meeting:
		return "meeting " + e.Number
	case *Note:
		return "note " + strconv.Quote(e.Text)
	}
	return "entry"
}
