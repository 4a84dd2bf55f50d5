// Package record is the in-memory form of the meetings archive. Constructors
// validate every field against the closed vocabularies and fail on the first
// invalid value.
package record

import (
	"regexp"
	"slices"

	"github.com/tms-archive/meetings/internal/errors"
	"github.com/tms-archive/meetings/internal/textconv"
	"github.com/tms-archive/meetings/internal/vocab"
)

var (
	datePattern       = regexp.MustCompile(`^[1-9?][0-9?]{3}-[01?][0-9?]-[0123?][0-9?]$`)
	attendancePattern = regexp.MustCompile(`^[1-9][0-9]*\+?$`)
	pagePattern       = regexp.MustCompile(`^[1-9][0-9]*$`)
)

// Speaker is the title and name of a speaker, possibly with a role.
type Speaker struct {
	Title string
	First string
	Last  string
	Role  string
}

// NewSpeaker validates and returns a Speaker.
func NewSpeaker(title, first, last, role string) (*Speaker, error) {
	if err := vocab.CheckTitle(title); err != nil {
		return nil, err
	}
	if err := vocab.CheckRole(role); err != nil {
		return nil, err
	}
	return &Speaker{Title: title, First: first, Last: last, Role: role}, nil
}

// ID is the key used to cross-reference a speaker from the speaker-link table.
func (s *Speaker) ID() string {
	return s.Last + ", " + s.First
}

// SubLink is a supplementary citation attached to one sub-entry.
type SubLink struct {
	Desc string
	Href string
}

// NewSubLink validates and returns a SubLink.
func NewSubLink(desc, href string) (*SubLink, error) {
	if err := textconv.CheckUnicode(desc); err != nil {
		return nil, err
	}
	return &SubLink{Desc: desc, Href: href}, nil
}

// ContentKind says which of description or title a sub-entry carries.
type ContentKind int

const (
	ContentNone ContentKind = iota
	ContentDescription
	ContentTitle
)

// Content is the descriptive text of a sub-entry. A description is shown as
// is and may contain quoted text; a title is implicitly quoted.
type Content struct {
	Kind ContentKind
	Text string
}

// Description returns the text if the content is a description.
func (c Content) Description() string {
	if c.Kind == ContentDescription {
		return c.Text
	}
	return ""
}

// Title returns the text if the content is a title.
func (c Content) Title() string {
	if c.Kind == ContentTitle {
		return c.Text
	}
	return ""
}

// NewContent builds the content variant from separate description and title
// fields, at most one of which may be set.
func NewContent(desc, title string) (Content, error) {
	switch {
	case desc != "" && title != "":
		return Content{}, errors.NewStructural("both description " + desc + " and title " + title)
	case desc != "":
		return Content{Kind: ContentDescription, Text: desc}, nil
	case title != "":
		return Content{Kind: ContentTitle, Text: title}, nil
	}
	return Content{}, nil
}

// SubMeeting is one talk or item within a meeting. The note is shown
// afterwards in parentheses.
type SubMeeting struct {
	Content  Content
	Note     string
	Speakers []*Speaker
	Abstract string
	Links    []*SubLink
}

// NewSubMeeting validates and returns a SubMeeting.
func NewSubMeeting(desc, title, note string, speakers []*Speaker, abstract string, links []*SubLink) (*SubMeeting, error) {
	content, err := NewContent(desc, title)
	if err != nil {
		return nil, err
	}
	for _, text := range []string{desc, title, note, abstract} {
		if err := textconv.CheckUnicode(text); err != nil {
			return nil, err
		}
	}
	return &SubMeeting{
		Content:  content,
		Note:     note,
		Speakers: speakers,
		Abstract: abstract,
		Links:    links,
	}, nil
}

// MeetingHeader holds every field of a meeting other than its sub-entries.
type MeetingHeader struct {
	Number     string
	Date       string
	Type       string
	Flags      []string
	Joint      []string
	Venue      string
	Attendance string
	Volume     string
	Page       string
}

// Validate checks every header field against its vocabulary or pattern.
func (h *MeetingHeader) Validate() error {
	if h.Date != "" && !datePattern.MatchString(h.Date) {
		return errors.NewVocabulary("date", h.Date)
	}
	if err := vocab.CheckMeetingType(h.Type); err != nil {
		return err
	}
	for i, f := range h.Flags {
		if err := vocab.CheckFlag(f); err != nil {
			return err
		}
		if slices.Contains(h.Flags[:i], f) {
			return errors.NewVocabulary("duplicate meeting flag", f)
		}
	}
	for _, j := range h.Joint {
		if err := vocab.CheckJointSociety(j); err != nil {
			return err
		}
	}
	if err := vocab.CheckVenue(h.Venue); err != nil {
		return err
	}
	if h.Attendance != "" && h.Attendance != "?" && !attendancePattern.MatchString(h.Attendance) {
		return errors.NewVocabulary("attendance", h.Attendance)
	}
	if h.Page != "-" && h.Page != "?" && !pagePattern.MatchString(h.Page) {
		return errors.NewVocabulary("page number", h.Page)
	}
	return nil
}

// Meeting is the complete record for a meeting.
type Meeting struct {
	MeetingHeader
	Sub []*SubMeeting
}

// NewMeeting validates and returns a Meeting. Flags are stored in canonical order.
func NewMeeting(h MeetingHeader, sub []*SubMeeting) (*Meeting, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if len(sub) == 0 {
		return nil, errors.NewStructural("meeting " + h.Number + " has no sub-entries")
	}
	h.Flags = vocab.SortFlags(h.Flags)
	return &Meeting{MeetingHeader: h, Sub: sub}, nil
}

// Note is a textual note standing in place of a meeting, such as a term in
// which the society did not meet.
type Note struct {
	Text string
}

// NewNote validates and returns a Note.
func NewNote(text string) (*Note, error) {
	if err := textconv.CheckUnicode(text); err != nil {
		return nil, err
	}
	return &Note{Text: text}, nil
}

// Entry is a Meeting or a Note.
type Entry interface {
	isEntry()
}

func (*Meeting) isEntry() {}
func (*Note) isEntry()    {}

// Archive is the chronological list of meetings and notes.
type Archive []Entry

// Meetings returns the meetings of the archive in order, skipping notes.
func (a Archive) Meetings() []*Meeting {
	var out []*Meeting
	for _, e := range a {
		if m, ok := e.(*Meeting); ok {
			out = append(out, m)
		}
	}
	return out
}

// Speakers returns the set of speaker IDs appearing anywhere in the archive.
func (a Archive) Speakers() map[string]bool {
	ids := make(map[string]bool)
	for _, m := range a.Meetings() {
		for _, s := range m.Sub {
			for _, sp := range s.Speakers {
				ids[sp.ID()] = true
			}
		}
	}
	return ids
}
