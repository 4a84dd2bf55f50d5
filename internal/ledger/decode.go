// Package ledger reads and writes the legacy fixed-column text ledger of
// meetings.
package ledger

import (
	"bufio"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/tms-archive/meetings/internal/errors"
	"github.com/tms-archive/meetings/internal/record"
	"github.com/tms-archive/meetings/internal/textconv"
	"github.com/tms-archive/meetings/internal/vocab"
)

// Column boundaries of a meeting line. Each field is followed by a single
// mandatory space.
const (
	colNumber     = 0
	colDate       = 6
	colFlags      = 17
	colJoint      = 21
	colSpeaker    = 27
	colDesc       = 60
	colVenue      = 164
	colPage       = 170
	colAttendance = 174
)

var separators = []int{5, 16, 20, 26, 59, 163, 169, 173}

var (
	parenSuffix = regexp.MustCompile(`^(.+) \(([^()]*)\)$`)
	nameSplit   = regexp.MustCompile(`^(.*\.) ([^.]*)$`)
)

const (
	unminuted      = "unminuted"
	unminutedDesc  = "(unminuted)"
	noSpeakerDesc  = "(no speaker present)"
	maxLineBytes   = 1024 * 1024
	initialLineCap = 64 * 1024
)

// Decoder parses a ledger into an archive.
type Decoder struct {
	titles TitleSource
	logger *slog.Logger
}

// NewDecoder returns a Decoder that looks up overflow titles in titles. A nil
// logger discards log output.
func NewDecoder(titles TitleSource, logger *slog.Logger) *Decoder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Decoder{titles: titles, logger: logger}
}

// Decode reads an ISO-8859-1 ledger from r. It stops at the first invalid
// line; the returned error carries the 1-based line number.
func (d *Decoder) Decode(r io.Reader) (record.Archive, error) {
	p := &parser{titles: d.titles, logger: d.logger}

	sc := bufio.NewScanner(charmap.ISO8859_1.NewDecoder().Reader(r))
	sc.Buffer(make([]byte, 0, initialLineCap), maxLineBytes)
	for sc.Scan() {
		p.lineNo++
		if err := p.line(sc.Text()); err != nil {
			return nil, atLine(err, p.lineNo)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	if err := p.flush(); err != nil {
		return nil, err
	}
	return p.archive, nil
}

func atLine(err error, line int) error {
	if aErr, ok := err.(*errors.ArchiveError); ok {
		return aErr.AtLine(line)
	}
	return errors.NewInternal(err).AtLine(line)
}

// meetingBuilder accumulates the lines of one meeting. Sub-entries are
// completed here before the meeting itself is constructed.
type meetingBuilder struct {
	line   int
	header record.MeetingHeader
	sub    []*record.SubMeeting
}

// parser is the decoder state between physical lines.
type parser struct {
	titles TitleSource
	logger *slog.Logger

	lineNo  int
	volume  string
	meeting *meetingBuilder
	archive record.Archive
}

func (p *parser) flush() error {
	b := p.meeting
	if b == nil {
		return nil
	}
	p.meeting = nil
	m, err := record.NewMeeting(b.header, b.sub)
	if err != nil {
		return atLine(err, b.line)
	}
	p.archive = append(p.archive, m)
	return nil
}

func (p *parser) line(raw string) error {
	line := strings.TrimRightFunc(raw, unicode.IsSpace)

	// Blank lines and the underlining of volume headers.
	if strings.TrimRight(line, "-") == "" {
		if line != "" && p.meeting != nil {
			return errors.NewFormat("unexpected underlining", line)
		}
		return nil
	}
	if line == vocab.FormatHeader {
		if p.meeting != nil {
			return errors.NewFormat("unexpected format header", line)
		}
		return nil
	}
	if numeral, ok := strings.CutPrefix(line, vocab.VolumeHeader); ok {
		if err := p.flush(); err != nil {
			return err
		}
		volume, err := vocab.VolumeForNumeral(numeral)
		if err != nil {
			return err
		}
		p.logger.Debug("ledger volume", "volume", volume, "line", p.lineNo)
		p.volume = volume
		return nil
	}
	if strings.HasPrefix(line, "(") {
		if !strings.HasSuffix(line, ")") {
			return errors.NewFormat("bad note line", line)
		}
		if err := p.flush(); err != nil {
			return err
		}
		note, err := record.NewNote(textconv.ToSymbolic(line[1 : len(line)-1]))
		if err != nil {
			return err
		}
		p.archive = append(p.archive, note)
		return nil
	}
	return p.meetingLine(line)
}

// fields is a meeting line split into its columns.
type fields struct {
	number, date, flags, joint, speaker, desc, venue, page, attendance string
}

func splitColumns(line string) (fields, error) {
	cols := []rune(line)
	if len(cols) > vocab.LedgerWidth {
		return fields{}, errors.NewFormat("line too long", line)
	}
	for len(cols) < vocab.LedgerWidth {
		cols = append(cols, ' ')
	}
	col := func(from, to int) string { return string(cols[from:to]) }

	f := fields{
		number:     strings.TrimSpace(col(colNumber, 5)),
		date:       strings.TrimSpace(col(colDate, 16)),
		flags:      strings.TrimRightFunc(col(colFlags, 20), unicode.IsSpace),
		joint:      strings.TrimLeftFunc(col(colJoint, 26), unicode.IsSpace),
		speaker:    strings.TrimRightFunc(col(colSpeaker, 59), unicode.IsSpace),
		desc:       strings.TrimRightFunc(col(colDesc, 163), unicode.IsSpace),
		venue:      strings.TrimRightFunc(col(colVenue, 169), unicode.IsSpace),
		page:       strings.TrimLeftFunc(col(colPage, 173), unicode.IsSpace),
		attendance: strings.TrimSpace(col(colAttendance, vocab.LedgerWidth)),
	}
	if f.speaker == unminuted && f.desc == "" {
		f.speaker = ""
		f.desc = unminutedDesc
	}
	for _, i := range separators {
		if cols[i] != ' ' {
			return fields{}, errors.NewFormat("missing expected space", line)
		}
	}
	if strings.HasPrefix(f.speaker, " ") {
		return fields{}, errors.NewFormat("speaker starts with space", line)
	}
	if strings.HasPrefix(f.desc, " ") {
		return fields{}, errors.NewFormat("description starts with space", line)
	}
	return f, nil
}

func (p *parser) meetingLine(line string) error {
	f, err := splitColumns(line)
	if err != nil {
		return err
	}

	if f.number == "" && f.date == "" {
		if f.flags != "" || f.joint != "" || f.venue != "" || f.page != "" || f.attendance != "" {
			return errors.NewFormat("bad continuation line", line)
		}
		if p.meeting == nil {
			return errors.NewStructural("continuation line outside a meeting")
		}
	} else {
		if err := p.startMeeting(f, line); err != nil {
			return err
		}
	}

	speaker, err := decodeSpeaker(f.speaker, line)
	if err != nil {
		return err
	}
	desc, title, note, err := p.decodeDescription(f.desc, line)
	if err != nil {
		return err
	}

	b := p.meeting
	if desc == "" && title == "" {
		// Another speaker for the previous sub-entry.
		if speaker == nil {
			return errors.NewStructural("missing speaker name")
		}
		if len(b.sub) == 0 {
			return errors.NewStructural("speaker continuation without a sub-entry")
		}
		last := b.sub[len(b.sub)-1]
		last.Speakers = append(last.Speakers, speaker)
		return nil
	}

	var speakers []*record.Speaker
	if speaker != nil {
		speakers = append(speakers, speaker)
	}
	sub, err := record.NewSubMeeting(desc, title, note, speakers, "", nil)
	if err != nil {
		return err
	}
	b.sub = append(b.sub, sub)
	if b.header.Type == vocab.TypeTalk && len(b.sub) > 1 {
		b.header.Type = vocab.TypeTalks
	}
	return nil
}

func (p *parser) startMeeting(f fields, line string) error {
	if err := p.flush(); err != nil {
		return err
	}
	if p.volume == "" {
		return errors.NewFormat("meeting before any volume header", line)
	}

	var typ string
	var flags []string
	for _, c := range f.flags {
		if t, ok := vocab.TypeForLetter(c); ok {
			if typ != "" {
				return errors.NewFormat("multiple meeting types", line)
			}
			typ = t
			continue
		}
		flag, ok := vocab.FlagForLetter(c)
		if !ok {
			return errors.NewVocabulary("flag letter", string(c))
		}
		flags = append(flags, flag)
	}
	if typ == "" {
		typ = inferType(f.speaker, f.desc)
		if typ == "" {
			return errors.NewVocabulary("meeting type", f.desc)
		}
	}

	joint, err := vocab.JointForCode(f.joint)
	if err != nil {
		return err
	}
	venue, err := vocab.VenueForCode(f.venue, f.date)
	if err != nil {
		return err
	}

	page := f.page
	switch page {
	case "", "---":
		page = "-"
	case "???":
		page = "?"
	}
	attendance := f.attendance
	if attendance == "??" {
		attendance = "?"
	}

	h := record.MeetingHeader{
		Number:     f.number,
		Date:       f.date,
		Type:       typ,
		Flags:      flags,
		Joint:      joint,
		Venue:      venue,
		Attendance: attendance,
		Volume:     p.volume,
		Page:       page,
	}
	if err := h.Validate(); err != nil {
		return err
	}
	p.meeting = &meetingBuilder{line: p.lineNo, header: h}
	return nil
}

// inferType derives the type of a meeting whose flags column carries no type
// letter. It returns "" when the content does not say.
func inferType(speaker, desc string) string {
	switch {
	case speaker != "" || desc == noSpeakerDesc || desc == unminutedDesc:
		return vocab.TypeTalk
	case strings.Contains(desc, "General Meeting"):
		return vocab.TypeGeneralMeeting
	case strings.Contains(desc, "Business Meeting"):
		return vocab.TypeBusinessMeeting
	case strings.HasPrefix(desc, "Discussion"):
		return vocab.TypeDiscussion
	}
	return ""
}

// decodeSpeaker expands a compressed speaker column such as
// "Prof. Sir A.B. Smith (author)". An empty column yields no speaker.
func decodeSpeaker(text, line string) (*record.Speaker, error) {
	if text == "" {
		return nil, nil
	}
	title, name := vocab.SplitTitle(text, vocab.LedgerTitles, vocab.LedgerTitleAdjustments)
	if title == "" {
		return nil, errors.NewVocabulary("speaker title", text)
	}

	var role string
	if strings.HasSuffix(name, ")") {
		m := parenSuffix.FindStringSubmatch(name)
		if m == nil {
			return nil, errors.NewFormat("bad speaker", line)
		}
		r, err := vocab.RoleForCode(m[2])
		if err != nil {
			return nil, err
		}
		name, role = m[1], r
	}

	m := nameSplit.FindStringSubmatch(name)
	if m == nil {
		return nil, errors.NewFormat("bad speaker", line)
	}
	return record.NewSpeaker(title, spaceInitials(m[1]), m[2], role)
}

// spaceInitials inserts a space after each initial directly followed by
// another capital: "A.B.C." becomes "A. B. C.".
func spaceInitials(first string) string {
	rs := []rune(first)
	var b strings.Builder
	for i, r := range rs {
		b.WriteRune(r)
		if r == '.' && i > 0 && i+1 < len(rs) && isCapital(rs[i-1]) && isCapital(rs[i+1]) {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func isCapital(r rune) bool { return r >= 'A' && r <= 'Z' }

// decodeDescription resolves an overflow title, splits off a trailing
// parenthesized note and separates a quoted title from a description. All
// results are in symbolic form.
func (p *parser) decodeDescription(text, line string) (desc, title, note string, err error) {
	if strings.HasSuffix(text, vocab.TruncationMarker) {
		text, err = p.overflowTitle(text)
		if err != nil {
			return "", "", "", err
		}
	}
	if strings.HasSuffix(text, ")") && !strings.HasPrefix(text, "(") {
		m := parenSuffix.FindStringSubmatch(text)
		if m == nil {
			return "", "", "", errors.NewFormat("bad note", line)
		}
		text, note = m[1], m[2]
	}
	if len(text) >= 2 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) {
		title = text[1 : len(text)-1]
	} else {
		desc = text
	}
	return textconv.ToSymbolic(desc), textconv.ToSymbolic(title), textconv.ToSymbolic(note), nil
}

// overflowTitle replaces a truncated quoted title with the full line from the
// meeting's side file, which must begin with the visible part.
func (p *parser) overflowTitle(text string) (string, error) {
	number := p.meeting.header.Number
	if p.titles == nil {
		return "", errors.NewCrossReference("no title source for truncated title", number)
	}
	lines, err := p.titles.TitleLines(number)
	if err != nil {
		return "", err
	}
	p.logger.Debug("ledger overflow title", "meeting", number, "lines", len(lines))
	if len(lines) != 1 {
		return "", errors.NewCrossReference("bad number of lines in title file", number+".title")
	}
	full := strings.TrimSpace(lines[0])

	_, size := utf8.DecodeRuneInString(text)
	visible := ""
	if end := len(text) - len(vocab.TruncationMarker); end > size {
		visible = text[size:end]
	}
	if !strings.HasPrefix(full, visible) {
		return "", errors.NewCrossReference("long title mismatch", number)
	}
	return `"` + full + `"`, nil
}
