// Package stats tallies speakers across the archive.
package stats

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/tms-archive/meetings/internal/errors"
	"github.com/tms-archive/meetings/internal/record"
)

// SpeakerCount is the number of sub-entries a speaker appears in.
type SpeakerCount struct {
	ID    string
	Count int
}

// SpeakerRange is the span of dates over which a speaker appeared.
type SpeakerRange struct {
	ID    string
	First string
	Last  string
	Days  int
}

// included returns the meetings whose type is not excluded.
func included(a record.Archive, exclude []string) []*record.Meeting {
	var out []*record.Meeting
	for _, m := range a.Meetings() {
		if !slices.Contains(exclude, m.Type) {
			out = append(out, m)
		}
	}
	return out
}

// SpeakerCounts counts sub-entries per speaker, ignoring meetings of the
// excluded types. The result is ordered by count, then ID.
func SpeakerCounts(a record.Archive, exclude []string) []SpeakerCount {
	counts := make(map[string]int)
	for _, m := range included(a, exclude) {
		for _, s := range m.Sub {
			for _, sp := range s.Speakers {
				counts[sp.ID()]++
			}
		}
	}

	out := make([]SpeakerCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, SpeakerCount{ID: id, Count: n})
	}
	slices.SortFunc(out, func(x, y SpeakerCount) int {
		return cmp.Or(cmp.Compare(x.Count, y.Count), strings.Compare(x.ID, y.ID))
	})
	return out
}

// SpeakerDates finds, for each speaker, the first and most recent meeting
// dates in archive order and the number of days between them. Meetings with
// an unknown or partly unknown date are skipped. The result is ordered by
// span, then ID.
func SpeakerDates(a record.Archive, exclude []string) ([]SpeakerRange, error) {
	ranges := make(map[string]*SpeakerRange)
	firstDate := make(map[string]time.Time)
	for _, m := range included(a, exclude) {
		if m.Date == "" || strings.Contains(m.Date, "?") {
			continue
		}
		date, err := time.Parse(time.DateOnly, m.Date)
		if err != nil {
			return nil, errors.NewVocabulary("date", m.Date)
		}
		for _, s := range m.Sub {
			for _, sp := range s.Speakers {
				id := sp.ID()
				r, ok := ranges[id]
				if !ok {
					ranges[id] = &SpeakerRange{ID: id, First: m.Date, Last: m.Date}
					firstDate[id] = date
					continue
				}
				r.Last = m.Date
				r.Days = int(date.Sub(firstDate[id]).Hours() / 24)
			}
		}
	}

	out := make([]SpeakerRange, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, *r)
	}
	slices.SortFunc(out, func(x, y SpeakerRange) int {
		return cmp.Or(cmp.Compare(x.Days, y.Days), strings.Compare(x.ID, y.ID))
	})
	return out, nil
}

// FormatCounts renders counts one per line, count right-aligned.
func FormatCounts(counts []SpeakerCount) string {
	lines := make([]string, len(counts))
	for i, c := range counts {
		lines[i] = fmt.Sprintf("%7d %s", c.Count, c.ID)
	}
	return strings.Join(lines, "\n") + "\n"
}

// FormatDates renders date ranges one per line.
func FormatDates(ranges []SpeakerRange) string {
	lines := make([]string, len(ranges))
	for i, r := range ranges {
		lines[i] = fmt.Sprintf("%7d %-25s %s - %s", r.Days, r.ID, r.First, r.Last)
	}
	return strings.Join(lines, "\n") + "\n"
}
