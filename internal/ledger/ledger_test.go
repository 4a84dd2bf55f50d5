package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tms-archive/meetings/internal/errors"
	"github.com/tms-archive/meetings/internal/record"
	"github.com/tms-archive/meetings/internal/vocab"
)

// mline builds a meeting line in the fixed column layout.
func mline(number, date, flags, joint, speaker, desc, venue, page, attendance string) string {
	return rstrip(fmt.Sprintf("%3s%-2s %-10s %-3s %5s %-32s %-103s %-5s %3s %s",
		number, "", date, flags, joint, speaker, desc, venue, page, attendance))
}

// cline builds a continuation line.
func cline(speaker, desc string) string {
	return rstrip(fmt.Sprintf("%27s%-32s %s", "", speaker, desc))
}

func volume(numeral string) []string {
	h := vocab.VolumeHeader + numeral
	return []string{h, strings.Repeat("-", len(h)), vocab.FormatHeader}
}

func ledgerText(lines ...[]string) string {
	var all []string
	for _, l := range lines {
		all = append(all, l...)
	}
	return strings.Join(all, "\n") + "\n"
}

func decode(t *testing.T, text string, titles TitleSource) (record.Archive, error) {
	t.Helper()
	return NewDecoder(titles, nil).Decode(strings.NewReader(text))
}

func TestDecode_MinimalTalk(t *testing.T) {
	text := ledgerText(volume("I"), []string{
		mline("1", "2020-01-15", "", "", "Dr. A. Smith", `"On Prime Numbers"`, "G07", "42", ""),
	})

	a, err := decode(t, text, nil)
	require.NoError(t, err)
	require.Len(t, a, 1)

	m := a[0].(*record.Meeting)
	assert.Equal(t, "1", m.Number)
	assert.Equal(t, "2020-01-15", m.Date)
	assert.Equal(t, vocab.TypeTalk, m.Type)
	assert.Equal(t, "07 Great Court", m.Venue)
	assert.Equal(t, "1", m.Volume)
	assert.Equal(t, "42", m.Page)
	assert.Empty(t, m.Attendance)
	require.Len(t, m.Sub, 1)
	assert.Equal(t, "On Prime Numbers", m.Sub[0].Content.Title())
	require.Len(t, m.Sub[0].Speakers, 1)
	assert.Equal(t, record.Speaker{Title: "Dr", First: "A.", Last: "Smith"}, *m.Sub[0].Speakers[0])
}

func TestDecode_TalksAndContinuations(t *testing.T) {
	text := ledgerText(volume("III"), []string{
		mline("12", "1950-11-02", "t", "A/M&S", "Prof. Sir A.B.C. Jones (author)", `"First" (with slides)`, "LRA", "7", "40+"),
		cline("Mrs. D. Brown", ""),
		cline("Rev. Dr. E. Green", `"Second"`),
	})

	a, err := decode(t, text, nil)
	require.NoError(t, err)
	m := a[0].(*record.Meeting)

	assert.Equal(t, vocab.TypeTalks, m.Type, "second sub-entry promotes talk")
	assert.Equal(t, []string{"televised"}, m.Flags)
	assert.Equal(t, []string{"Adams Society", "Magpie and Stump"}, m.Joint)
	assert.Equal(t, "Lecture Room A (I Great Court)", m.Venue)
	assert.Equal(t, "40+", m.Attendance)
	assert.Equal(t, "3", m.Volume)

	require.Len(t, m.Sub, 2)
	first := m.Sub[0]
	assert.Equal(t, "First", first.Content.Title())
	assert.Equal(t, "with slides", first.Note)
	require.Len(t, first.Speakers, 2)
	assert.Equal(t, record.Speaker{Title: "Prof. Sir", First: "A. B. C.", Last: "Jones", Role: "author"}, *first.Speakers[0])
	assert.Equal(t, record.Speaker{Title: "Mrs", First: "D.", Last: "Brown"}, *first.Speakers[1])
	assert.Equal(t, "Rev. Dr", m.Sub[1].Speakers[0].Title)
}

func TestDecode_TypeInference(t *testing.T) {
	tests := []struct {
		flags   string
		speaker string
		desc    string
		want    string
	}{
		{"", "", "Annual General Meeting", vocab.TypeGeneralMeeting},
		{"", "", "Extraordinary Business Meeting", vocab.TypeBusinessMeeting},
		{"", "", "Discussion on examinations", vocab.TypeDiscussion},
		{"", "", "(no speaker present)", vocab.TypeTalk},
		{"", "unminuted", "", vocab.TypeTalk},
		{"d", "", "Annual Dinner", "dinner"},
		{"be", "", "Annual General Meeting", vocab.TypeGeneralMeeting},
	}

	for _, tt := range tests {
		t.Run(tt.desc+tt.speaker, func(t *testing.T) {
			text := ledgerText(volume("I"), []string{
				mline("1", "1920-01-01", tt.flags, "", tt.speaker, tt.desc, "", "", ""),
			})
			a, err := decode(t, text, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a[0].(*record.Meeting).Type)
		})
	}

	_, err := decode(t, ledgerText(volume("I"), []string{
		mline("1", "1920-01-01", "", "", "", "Tea party", "", "", ""),
	}), nil)
	assert.True(t, errors.Is(err, errors.ErrVocabulary))
}

func TestDecode_Unminuted(t *testing.T) {
	a, err := decode(t, ledgerText(volume("I"), []string{
		mline("1", "1920-01-01", "", "", "unminuted", "", "", "???", "??"),
	}), nil)
	require.NoError(t, err)
	m := a[0].(*record.Meeting)
	assert.Equal(t, "(unminuted)", m.Sub[0].Content.Description())
	assert.Empty(t, m.Sub[0].Speakers)
	assert.Equal(t, "?", m.Page)
	assert.Equal(t, "?", m.Attendance)
}

func TestDecode_NotesAndVolumes(t *testing.T) {
	text := ledgerText(volume("I"), []string{
		mline("1", "1920-01-01", "", "", "Dr. A. Smith", `"Knots"`, "", "1", ""),
		"(The Society did not meet in the Easter Term)",
		"",
	}, volume("II"), []string{
		mline("2", "1920-10-20", "", "", "Dr. A. Smith", `"Fermat's theorem"`, "", "1", ""),
	})

	a, err := decode(t, text, nil)
	require.NoError(t, err)
	require.Len(t, a, 3)
	assert.Equal(t, "The Society did not meet in the Easter Term", a[1].(*record.Note).Text)
	assert.Equal(t, "2", a[2].(*record.Meeting).Volume)
	assert.Equal(t, "Fermat’s theorem", a[2].(*record.Meeting).Sub[0].Content.Title())
}

func TestDecode_OverflowTitle(t *testing.T) {
	text := ledgerText(volume("I"), []string{
		mline("5", "1920-01-01", "", "", "Dr. A. Smith", `"Very long ..."`, "", "1", ""),
	})

	a, err := decode(t, text, MapTitles{"5": "  Very long title indeed  \n"})
	require.NoError(t, err)
	assert.Equal(t, "Very long title indeed", a[0].(*record.Meeting).Sub[0].Content.Title())

	_, err = decode(t, text, MapTitles{"5": "Something else\n"})
	assert.True(t, errors.Is(err, errors.ErrCrossReference))

	_, err = decode(t, text, MapTitles{"5": "Very long\ntitle\n"})
	assert.True(t, errors.Is(err, errors.ErrCrossReference))

	_, err = decode(t, text, MapTitles{})
	assert.True(t, errors.Is(err, errors.ErrCrossReference))
}

func TestDirTitles(t *testing.T) {
	dir := t.TempDir()
	// "Caf\xe9" is ISO-8859-1.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "7.title"), []byte("Caf\xe9 mathematics\n"), 0o644))

	lines, err := DirTitles{Dir: dir}.TitleLines("7")
	require.NoError(t, err)
	assert.Equal(t, []string{"Café mathematics"}, lines)

	_, err = DirTitles{Dir: dir}.TitleLines("8")
	assert.True(t, errors.Is(err, errors.ErrCrossReference))
}

func TestDecode_Errors(t *testing.T) {
	good := mline("1", "1920-01-01", "", "", "Dr. A. Smith", `"Knots"`, "", "1", "")
	badSep := []rune(good)
	badSep[5] = 'x'

	tests := []struct {
		name string
		text string
		code errors.ErrorCode
		line int
	}{
		{"missing separator", ledgerText(volume("I"), []string{string(badSep)}), errors.ErrFormat, 4},
		{"line too long", ledgerText(volume("I"), []string{mline("1", "1920-01-01", "", "", "Dr. A. Smith", `"Knots"`, "", "1", "1234567")}), errors.ErrFormat, 4},
		{"bad continuation", ledgerText(volume("I"), []string{good, strings.Repeat(" ", 164) + "JCR"}), errors.ErrFormat, 5},
		{"before volume", ledgerText([]string{good}), errors.ErrFormat, 1},
		{"underline inside meeting", ledgerText(volume("I"), []string{good, "-----"}), errors.ErrFormat, 5},
		{"unknown volume", ledgerText(volume("XX")), errors.ErrVocabulary, 1},
		{"unterminated note", ledgerText(volume("I"), []string{"(no closing"}), errors.ErrFormat, 4},
		{"unknown flag", ledgerText(volume("I"), []string{mline("1", "1920-01-01", "z", "", "Dr. A. Smith", `"Knots"`, "", "1", "")}), errors.ErrVocabulary, 4},
		{"two types", ledgerText(volume("I"), []string{mline("1", "1920-01-01", "cd", "", "", "Sports dinner", "", "1", "")}), errors.ErrFormat, 4},
		{"unknown venue", ledgerText(volume("I"), []string{mline("1", "1920-01-01", "", "", "Dr. A. Smith", `"Knots"`, "ZZZ", "1", "")}), errors.ErrVocabulary, 4},
		{"unknown joint", ledgerText(volume("I"), []string{mline("1", "1920-01-01", "", "XYZ", "Dr. A. Smith", `"Knots"`, "", "1", "")}), errors.ErrVocabulary, 4},
		{"missing title", ledgerText(volume("I"), []string{mline("1", "1920-01-01", "", "", "A. Smith", `"Knots"`, "", "1", "")}), errors.ErrVocabulary, 4},
		{"unknown role", ledgerText(volume("I"), []string{mline("1", "1920-01-01", "", "", "Dr. A. Smith (chair)", `"Knots"`, "", "1", "")}), errors.ErrVocabulary, 4},
		{"bad speaker", ledgerText(volume("I"), []string{mline("1", "1920-01-01", "", "", "Dr. Smith", `"Knots"`, "", "1", "")}), errors.ErrFormat, 4},
		{"bad note", ledgerText(volume("I"), []string{mline("1", "1920-01-01", "", "", "Dr. A. Smith", `"Knots" (a (b))`, "", "1", "")}), errors.ErrFormat, 4},
		{"continuation without speaker", ledgerText(volume("I"), []string{good, cline("", `""`)}), errors.ErrStructural, 5},
		{"continuation outside meeting", ledgerText(volume("I"), []string{cline("Dr. B. Jones", "")}), errors.ErrStructural, 4},
		{"speaker without sub-entry", ledgerText(volume("I"), []string{mline("1", "1920-01-01", "", "", "Dr. A. Smith", "", "", "1", "")}), errors.ErrStructural, 4},
		{"bad date", ledgerText(volume("I"), []string{mline("1", "1920-21-01", "", "", "Dr. A. Smith", `"Knots"`, "", "1", "")}), errors.ErrVocabulary, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode(t, tt.text, nil)
			require.Error(t, err)
			aErr, ok := err.(*errors.ArchiveError)
			require.True(t, ok, "got %T", err)
			assert.Equal(t, tt.code, aErr.Code, aErr.Error())
			if tt.line > 0 {
				assert.Equal(t, tt.line, aErr.Details["line"])
			}
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	text := ledgerText(volume("I"), []string{
		mline("1", "1919-11-03", "", "", "Dr. A.B. Smith", `"On Prime Numbers"`, "G07", "42", " 40"),
		mline("2", "1920-02-10", "d", "A/M&S", "", "Annual Dinner", "Hall", "---", ""),
		"",
		mline("3", "1920-10-20", "t", "", "Prof. Sir M. Atiyah (author)", `"Index theory" (with slides)`, "LRA", "43", " ??"),
		cline("Dr. J. Smith", ""),
		cline("Mrs. B. Jones", `"Second talk"`),
		"(The Society did not meet in the Easter Term)",
		"",
		"",
	}, volume("II"), []string{
		mline("4", "1920-11-05", "", "", "Mr. C. Brown", `"Tea at 3-4pm"`, "JCR", "1", " 12+"),
	})

	a, err := decode(t, text, nil)
	require.NoError(t, err)
	require.Len(t, a, 5)
	assert.Equal(t, vocab.TypeTalks, a[2].(*record.Meeting).Type)
	assert.Equal(t, "Tea at 3–4pm", a[4].(*record.Meeting).Sub[0].Content.Title())

	out, err := Encode(a)
	require.NoError(t, err)
	assert.Equal(t, text, out)

	again, err := decode(t, out, nil)
	require.NoError(t, err)
	assert.Equal(t, a, again)
}

func TestEncode_Errors(t *testing.T) {
	sp, err := record.NewSpeaker("Dr", "A.", "Smith", "")
	require.NoError(t, err)
	sub, err := record.NewSubMeeting("", "Knots", "", []*record.Speaker{sp}, "", nil)
	require.NoError(t, err)

	meeting := func(date string, joint []string) *record.Meeting {
		m, err := record.NewMeeting(record.MeetingHeader{
			Number: "1", Date: date, Type: vocab.TypeTalk, Joint: joint, Volume: "1", Page: "1",
		}, []*record.SubMeeting{sub})
		require.NoError(t, err)
		return m
	}

	_, err = Encode(record.Archive{meeting("1950-11-01", nil), meeting("1949-11-01", nil)})
	assert.True(t, errors.Is(err, errors.ErrStructural))

	_, err = Encode(record.Archive{meeting("1950-11-01", []string{"Magpie and Stump", "Adams Society"})})
	assert.True(t, errors.Is(err, errors.ErrVocabulary))
}

func TestSpaceInitials(t *testing.T) {
	tests := map[string]string{
		"A.":      "A.",
		"A.B.":    "A. B.",
		"A.B.C.":  "A. B. C.",
		"J.-P.":   "J.-P.",
		"A. B.":   "A. B.",
		"John A.": "John A.",
	}
	for in, want := range tests {
		assert.Equal(t, want, spaceInitials(in), in)
	}
}

func TestEncodeSpeaker(t *testing.T) {
	tests := []struct {
		sp   record.Speaker
		want string
	}{
		{record.Speaker{Title: "Dr", First: "A. B.", Last: "Smith"}, "Dr. A.B. Smith"},
		{record.Speaker{Title: "Prof. Sir", First: "M. F.", Last: "Atiyah", Role: "opponent"}, "Prof. Sir M.F. Atiyah (opp)"},
		{record.Speaker{Title: "Mrs", First: "J. St John", Last: "Smythe"}, "Mrs. J. St John Smythe"},
		{record.Speaker{Title: "Mr", First: "L. van", Last: "Dam"}, "Mr. L. van Dam"},
	}
	for _, tt := range tests {
		got, err := encodeSpeaker(&tt.sp)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
