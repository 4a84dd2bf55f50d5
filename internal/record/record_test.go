package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tms-archive/meetings/internal/errors"
	"github.com/tms-archive/meetings/internal/textconv"
)

func validHeader() MeetingHeader {
	return MeetingHeader{
		Number: "1",
		Date:   "2020-01-15",
		Type:   "talk",
		Venue:  "Junior Combination Room",
		Volume: "1",
		Page:   "42",
	}
}

func validSub(t *testing.T) *SubMeeting {
	t.Helper()
	sp, err := NewSpeaker("Dr", "A.", "Smith", "")
	require.NoError(t, err)
	sub, err := NewSubMeeting("", "On Prime Numbers", "", []*Speaker{sp}, "", nil)
	require.NoError(t, err)
	return sub
}

func TestNewSpeaker(t *testing.T) {
	sp, err := NewSpeaker("Prof. Sir", "A. J.", "Wiles", "author")
	require.NoError(t, err)
	assert.Equal(t, "Wiles, A. J.", sp.ID())

	_, err = NewSpeaker("Dr.", "A.", "Smith", "")
	assert.True(t, errors.Is(err, errors.ErrVocabulary), "ledger spelling is not canonical")

	_, err = NewSpeaker("Dr", "A.", "Smith", "chair")
	require.Error(t, err)
	aErr := err.(*errors.ArchiveError)
	assert.Equal(t, "role", aErr.Details["field"])
	assert.Equal(t, "chair", aErr.Details["value"])
}

func TestNewSubMeeting_MutualExclusion(t *testing.T) {
	_, err := NewSubMeeting("A description", "A title", "", nil, "", nil)
	assert.True(t, errors.Is(err, errors.ErrStructural))

	sub, err := NewSubMeeting("", "", "", nil, "", nil)
	require.NoError(t, err)
	assert.Equal(t, ContentNone, sub.Content.Kind)

	sub, err = NewSubMeeting("Annual dinner", "", "", nil, "", nil)
	require.NoError(t, err)
	assert.Equal(t, ContentDescription, sub.Content.Kind)
	assert.Equal(t, "Annual dinner", sub.Content.Description())
	assert.Equal(t, "", sub.Content.Title())

	sub, err = NewSubMeeting("", "Knots", "", nil, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "Knots", sub.Content.Title())
	assert.Equal(t, "", sub.Content.Description())
}

func TestNewSubMeeting_ASCIIGuard(t *testing.T) {
	cases := map[string][4]string{
		"desc":     {`A "quoted" talk`, "", "", ""},
		"title":    {"", "Fermat's theorem", "", ""},
		"note":     {"", "Knots", "pages 1-3", ""},
		"abstract": {"", "Knots", "", "and so on..."},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewSubMeeting(c[0], c[1], c[2], nil, c[3], nil)
			assert.True(t, errors.Is(err, errors.ErrVocabulary))
		})
	}

	_, err := NewSubLink("Slides - part 1", "https://example.org")
	assert.Error(t, err)
	link, err := NewSubLink("Slides"+textconv.MDash+"part 1", "https://example.org/a?b='c'")
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/a?b='c'", link.Href)
}

func TestNewMeeting_Valid(t *testing.T) {
	h := validHeader()
	h.Flags = []string{"televised", "non-election business"}
	h.Joint = []string{"Adams Society", "Magpie and Stump"}
	h.Attendance = "40+"

	m, err := NewMeeting(h, []*SubMeeting{validSub(t)})
	require.NoError(t, err)
	assert.Equal(t, []string{"non-election business", "televised"}, m.Flags)
	assert.Equal(t, "40+", m.Attendance)
}

func TestNewMeeting_FieldValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*MeetingHeader)
		field  string
	}{
		{"bad date", func(h *MeetingHeader) { h.Date = "20-01-01" }, "date"},
		{"zero year", func(h *MeetingHeader) { h.Date = "0999-01-01" }, "date"},
		{"bad month digit", func(h *MeetingHeader) { h.Date = "2020-21-01" }, "date"},
		{"bad type", func(h *MeetingHeader) { h.Type = "picnic" }, "meeting type"},
		{"bad flag", func(h *MeetingHeader) { h.Flags = []string{"secret"} }, "meeting flag"},
		{"duplicate flag", func(h *MeetingHeader) { h.Flags = []string{"televised", "televised"} }, "duplicate meeting flag"},
		{"bad joint", func(h *MeetingHeader) { h.Joint = []string{"Chess Club"} }, "other society"},
		{"bad venue", func(h *MeetingHeader) { h.Venue = "The Moon" }, "venue"},
		{"bad attendance", func(h *MeetingHeader) { h.Attendance = "040" }, "attendance"},
		{"bad page", func(h *MeetingHeader) { h.Page = "" }, "page number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := validHeader()
			tt.modify(&h)
			_, err := NewMeeting(h, []*SubMeeting{validSub(t)})
			require.Error(t, err)
			aErr, ok := err.(*errors.ArchiveError)
			require.True(t, ok)
			assert.Equal(t, errors.ErrVocabulary, aErr.Code)
			assert.Equal(t, tt.field, aErr.Details["field"])
		})
	}
}

func TestNewMeeting_AcceptsUnknownParts(t *testing.T) {
	for _, date := range []string{"", "1950-??-??", "19??-10-??", "1950-1?-0?"} {
		h := validHeader()
		h.Date = date
		_, err := NewMeeting(h, []*SubMeeting{validSub(t)})
		assert.NoError(t, err, date)
	}
	for _, page := range []string{"-", "?", "7"} {
		h := validHeader()
		h.Page = page
		_, err := NewMeeting(h, []*SubMeeting{validSub(t)})
		assert.NoError(t, err, page)
	}
	for _, att := range []string{"", "?", "12"} {
		h := validHeader()
		h.Attendance = att
		_, err := NewMeeting(h, []*SubMeeting{validSub(t)})
		assert.NoError(t, err, att)
	}
}

func TestNewMeeting_RequiresSub(t *testing.T) {
	_, err := NewMeeting(validHeader(), nil)
	assert.True(t, errors.Is(err, errors.ErrStructural))
}

func TestNewNote(t *testing.T) {
	n, err := NewNote("Society did not meet this term")
	require.NoError(t, err)
	assert.Equal(t, "Society did not meet this term", n.Text)

	_, err = NewNote("Society didn't meet")
	assert.Error(t, err)
}

func TestArchive_Speakers(t *testing.T) {
	m, err := NewMeeting(validHeader(), []*SubMeeting{validSub(t)})
	require.NoError(t, err)
	n, err := NewNote("Society did not meet")
	require.NoError(t, err)

	a := Archive{n, m}
	assert.Len(t, a.Meetings(), 1)
	assert.Equal(t, map[string]bool{"Smith, A.": true}, a.Speakers())
}
