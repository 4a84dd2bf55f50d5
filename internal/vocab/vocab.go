// Package vocab holds the closed vocabularies of the meetings archive and the
// ledger abbreviation tables. Every encode and decode path looks values up here.
package vocab

import (
	"regexp"
	"slices"
	"strings"

	"github.com/tms-archive/meetings/internal/errors"
	"github.com/tms-archive/meetings/internal/textconv"
)

const (
	rsquo = textconv.RSquo
	ndash = textconv.NDash
)

// Titles lists recognized personal titles in the order they may be combined.
// Abbreviations ending with the last letter of the word take no full stop.
var Titles = []string{
	"Prof. ", "Rev. ", "Dr ", "Hon. ", "Col. ", "Sir ",
	"Lord ", "Mr ", "Mrs ", "Ms ", "Miss ",
}

// LedgerTitles is the ledger spelling of Titles, with a full stop after every
// abbreviation.
var LedgerTitles = []string{
	"Prof. ", "Rev. ", "Dr. ", "Hon. ", "Col. ", "Sir ",
	"Lord ", "Mr. ", "Mrs. ", "Ms. ", "Miss ",
}

// TitleAdjustment maps a ledger title spelling to its canonical spelling.
type TitleAdjustment struct {
	Ledger    string
	Canonical string
}

// LedgerTitleAdjustments lists the ledger titles whose canonical form drops the stop.
var LedgerTitleAdjustments = []TitleAdjustment{
	{"Dr. ", "Dr "},
	{"Mr. ", "Mr "},
	{"Mrs. ", "Mrs "},
	{"Ms. ", "Ms "},
}

// Roles lists the roles a speaker may take at a meeting.
var Roles = []string{"proponent", "opponent", "author", "producer"}

// MeetingTypes lists the kinds of meeting.
var MeetingTypes = []string{
	"talk", "talks", "sporting event", "dinner", "debate",
	"inaugural meeting", "film night", "panel discussion",
	"opera", "photograph", "recreational", "visit",
	"general meeting", "business meeting", "discussion",
}

// Meeting types with special handling in the codecs.
const (
	TypeTalk            = "talk"
	TypeTalks           = "talks"
	TypeGeneralMeeting  = "general meeting"
	TypeBusinessMeeting = "business meeting"
	TypeDiscussion      = "discussion"
)

// MeetingFlags lists the flags a meeting may carry, in canonical order.
var MeetingFlags = []string{
	"non-election business", "election of officers", "televised",
}

// JointSocieties lists the societies meetings have been held jointly with.
var JointSocieties = []string{
	"Adams Society",
	"Magpie and Stump",
	"Mathematics Research Students" + rsquo + " Tea Club",
	"New Pythagoreans",
	"Trinity College Music Society",
	"Trinity College Natural Sciences Society",
	"Trinity College Science Society",
}

// Venues lists venue names accepted verbatim. The empty venue means unknown.
var Venues = []string{
	"",
	"Adrian House Seminar Room",
	"the College Bar (Q1 Great Court, 1958" + ndash + "1998)",
	"Blue Boar Common Room",
	"Butler House Party Room",
	"Caius College",
	"river Cam",
	"Christ" + rsquo + "s College",
	"DAMTP",
	"Emmanuel College",
	"Hall",
	"Junior Combination Room",
	"Junior Parlour",
	"Lecture-Room Theatre (I Great Court)",
	"Lecture Rooms (I Great Court)",
	"Master" + rsquo + "s Lodge",
	"Old Combination Room",
	"Old Field",
	"Old Kitchens",
	"Private Supply Room",
	"St John" + rsquo + "s College",
	"Winstanley Lecture Theatre",
	"Wolfson Party Room",
}

// venuePatterns matches venues named by room within a court or building.
var venuePatterns = compileAll(
	`.* Blue Boar Court`,
	`Room .*, 4A Bridge Street`,
	`.* Bishop`+rsquo+`s Hostel`,
	`.* Great Court`,
	`.* Whewell`+rsquo+`s Court`,
	`.* New Court`,
	`Lecture Room .* \(I Great Court\)`,
	`Centre for Mathematical Sciences MR.*`,
	`.* Nevile`+rsquo+`s Court`,
)

func compileAll(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		res[i] = regexp.MustCompile(`^(?:` + p + `)$`)
	}
	return res
}

// SplitTitle separates a person's titles from the name following. Titles are
// matched in list order, so "Prof. Sir " is recognized but "Sir Prof. " is not.
// Matched ledger spellings are replaced using adjust. The returned title has
// trailing space trimmed.
func SplitTitle(name string, titles []string, adjust []TitleAdjustment) (title, rest string) {
	var b strings.Builder
	for _, t := range titles {
		if !strings.HasPrefix(name, t) {
			continue
		}
		tx := t
		for _, a := range adjust {
			if a.Ledger == t {
				tx = a.Canonical
				break
			}
		}
		b.WriteString(tx)
		name = name[len(t):]
	}
	return strings.TrimRight(b.String(), " \t"), name
}

// CheckTitle verifies that title is a canonical run of recognized titles.
func CheckTitle(title string) error {
	got, _ := SplitTitle(title+" ", Titles, nil)
	if got != title {
		return errors.NewVocabulary("title", title)
	}
	return nil
}

// CheckRole verifies that role is empty or a recognized role.
func CheckRole(role string) error {
	if role != "" && !slices.Contains(Roles, role) {
		return errors.NewVocabulary("role", role)
	}
	return nil
}

// CheckMeetingType verifies that t is a recognized meeting type.
func CheckMeetingType(t string) error {
	if !slices.Contains(MeetingTypes, t) {
		return errors.NewVocabulary("meeting type", t)
	}
	return nil
}

// CheckFlag verifies that f is a recognized meeting flag.
func CheckFlag(f string) error {
	if !slices.Contains(MeetingFlags, f) {
		return errors.NewVocabulary("meeting flag", f)
	}
	return nil
}

// CheckJointSociety verifies that s is a recognized joint society.
func CheckJointSociety(s string) error {
	if !slices.Contains(JointSocieties, s) {
		return errors.NewVocabulary("other society", s)
	}
	return nil
}

// CheckVenue verifies that v is a listed venue or matches a venue pattern.
func CheckVenue(v string) error {
	if slices.Contains(Venues, v) {
		return nil
	}
	for _, re := range venuePatterns {
		if re.MatchString(v) {
			return nil
		}
	}
	return errors.NewVocabulary("venue", v)
}

// SortFlags returns flags ordered as in MeetingFlags.
func SortFlags(flags []string) []string {
	out := slices.Clone(flags)
	slices.SortStableFunc(out, func(a, b string) int {
		return slices.Index(MeetingFlags, a) - slices.Index(MeetingFlags, b)
	})
	return out
}
