package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tms-archive/meetings/internal/errors"
)

func meetingOn(date string) *Meeting {
	return &Meeting{MeetingHeader: MeetingHeader{Number: "1", Date: date}}
}

func TestYearTracker(t *testing.T) {
	var yt YearTracker
	steps := []struct {
		entry   Entry
		changed bool
		year    int
	}{
		{meetingOn("1919-11-03"), true, 1919},
		{meetingOn("1920-02-10"), false, 1919},
		{meetingOn(""), false, 1919},
		{meetingOn("1920-??-??"), false, 1919},
		{&Note{Text: "The Society did not meet in the Easter Term"}, false, 1919},
		{&Note{Text: "Wartime suspension"}, true, 1920},
		{meetingOn("1922-10-12"), true, 1922},
	}

	for i, s := range steps {
		changed, err := yt.Next(s.entry)
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, s.changed, changed, "step %d", i)
		assert.Equal(t, s.year, yt.Year(), "step %d", i)
	}
}

func TestYearTracker_Backwards(t *testing.T) {
	var yt YearTracker
	_, err := yt.Next(meetingOn("1950-11-01"))
	require.NoError(t, err)

	_, err = yt.Next(meetingOn("1949-11-01"))
	assert.True(t, errors.Is(err, errors.ErrStructural))
}
