package stats

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tms-archive/meetings/internal/record"
)

func speaker(t *testing.T, first, last string) *record.Speaker {
	t.Helper()
	sp, err := record.NewSpeaker("Dr", first, last, "")
	require.NoError(t, err)
	return sp
}

func meeting(t *testing.T, number, date, typ string, subs ...[]*record.Speaker) *record.Meeting {
	t.Helper()
	var sub []*record.SubMeeting
	for _, speakers := range subs {
		s, err := record.NewSubMeeting("", "Talk "+number, "", speakers, "", nil)
		require.NoError(t, err)
		sub = append(sub, s)
	}
	m, err := record.NewMeeting(record.MeetingHeader{
		Number: number, Date: date, Type: typ, Volume: "1", Page: "1",
	}, sub)
	require.NoError(t, err)
	return m
}

func sampleArchive(t *testing.T) record.Archive {
	smith := speaker(t, "A.", "Smith")
	jones := speaker(t, "C.", "Jones")
	brown := speaker(t, "D.", "Brown")
	note, err := record.NewNote("The Society did not meet")
	require.NoError(t, err)

	return record.Archive{
		meeting(t, "1", "1950-11-01", "talk", []*record.Speaker{smith}),
		meeting(t, "2", "1951-01-15", "talks", []*record.Speaker{smith}, []*record.Speaker{jones}),
		note,
		meeting(t, "3", "1951-??-??", "dinner", []*record.Speaker{brown}),
		meeting(t, "4", "1952-03-01", "debate", []*record.Speaker{smith}),
	}
}

func TestSpeakerCounts(t *testing.T) {
	a := sampleArchive(t)

	got := SpeakerCounts(a, nil)
	assert.Equal(t, []SpeakerCount{
		{"Brown, D.", 1},
		{"Jones, C.", 1},
		{"Smith, A.", 3},
	}, got)

	got = SpeakerCounts(a, []string{"debate", "dinner"})
	assert.Equal(t, []SpeakerCount{
		{"Jones, C.", 1},
		{"Smith, A.", 2},
	}, got)

	assert.Equal(t, "      1 Jones, C.\n      2 Smith, A.\n", FormatCounts(got))
}

func TestSpeakerDates(t *testing.T) {
	got, err := SpeakerDates(sampleArchive(t), nil)
	require.NoError(t, err)
	assert.Equal(t, []SpeakerRange{
		{ID: "Jones, C.", First: "1951-01-15", Last: "1951-01-15", Days: 0},
		{ID: "Smith, A.", First: "1950-11-01", Last: "1952-03-01", Days: 486},
	}, got)

	assert.Equal(t,
		"      0 Jones, C.                 1951-01-15 - 1951-01-15\n"+
			"    486 Smith, A.                 1950-11-01 - 1952-03-01\n",
		FormatDates(got))
}

func TestSpeakerDates_InvalidCalendarDate(t *testing.T) {
	a := record.Archive{meeting(t, "1", "1950-02-30", "talk", []*record.Speaker{speaker(t, "A.", "Smith")})}
	_, err := SpeakerDates(a, nil)
	assert.Error(t, err)
}

func TestFormat_Empty(t *testing.T) {
	assert.Equal(t, "\n", FormatCounts(nil))
	assert.Equal(t, "\n", FormatDates(nil))
}

func TestTables(t *testing.T) {
	a := sampleArchive(t)

	counts := CountsTable(SpeakerCounts(a, nil))
	assert.Contains(t, strings.ToUpper(counts), "TALKS")
	assert.Contains(t, counts, "Smith, A.")
	assert.True(t, strings.HasPrefix(counts, "╭"), "rounded style")

	ranges, err := SpeakerDates(a, nil)
	require.NoError(t, err)
	dates := DatesTable(ranges)
	assert.Contains(t, dates, "1952-03-01")
	assert.Contains(t, dates, "486")
}
