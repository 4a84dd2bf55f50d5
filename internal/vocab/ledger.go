package vocab

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/tms-archive/meetings/internal/errors"
)

// Ledger layout.
const (
	LedgerWidth      = 178
	FormatHeader     = "mmmxx yyyy-mm-dd fff joint speaker                          title                                                                                                   venue ppp aud"
	VolumeHeader     = "VOLUME "
	TruncationMarker = ` ..."`
)

// volumeNumerals lists minute-book volumes by roman numeral; volume n is at index n-1.
var volumeNumerals = []string{
	"I", "II", "III", "IV", "V", "VI",
	"VII", "VIII", "IX", "X", "XI", "XII",
}

// VolumeForNumeral returns the volume number for a roman numeral.
func VolumeForNumeral(numeral string) (string, error) {
	i := slices.Index(volumeNumerals, numeral)
	if i < 0 {
		return "", errors.NewVocabulary("volume", numeral)
	}
	return fmt.Sprint(i + 1), nil
}

// NumeralForVolume returns the roman numeral for a volume number.
func NumeralForVolume(volume string) (string, error) {
	for i, n := range volumeNumerals {
		if fmt.Sprint(i+1) == volume {
			return n, nil
		}
	}
	return "", errors.NewVocabulary("volume", volume)
}

// letterCode pairs a single ledger letter with the value it stands for.
type letterCode struct {
	letter rune
	value  string
}

var typeLetters = []letterCode{
	{'c', "sporting event"},
	{'d', "dinner"},
	{'f', "debate"},
	{'i', "inaugural meeting"},
	{'m', "film night"},
	{'n', "panel discussion"},
	{'o', "opera"},
	{'p', "photograph"},
	{'r', "recreational"},
	{'v', "visit"},
}

var flagLetters = []letterCode{
	{'b', "non-election business"},
	{'e', "election of officers"},
	{'t', "televised"},
}

func lookupLetter(table []letterCode, letter rune) (string, bool) {
	for _, c := range table {
		if c.letter == letter {
			return c.value, true
		}
	}
	return "", false
}

func lookupValue(table []letterCode, value string) (rune, bool) {
	for _, c := range table {
		if c.value == value {
			return c.letter, true
		}
	}
	return 0, false
}

// TypeForLetter returns the meeting type a flags-column letter stands for.
func TypeForLetter(letter rune) (string, bool) { return lookupLetter(typeLetters, letter) }

// LetterForType returns the flags-column letter for a meeting type. Types
// inferred from content (talk, general meeting, ...) have no letter.
func LetterForType(t string) (rune, bool) { return lookupValue(typeLetters, t) }

// FlagForLetter returns the meeting flag a flags-column letter stands for.
func FlagForLetter(letter rune) (string, bool) { return lookupLetter(flagLetters, letter) }

// LetterForFlag returns the flags-column letter for a meeting flag.
func LetterForFlag(flag string) (rune, error) {
	if l, ok := lookupValue(flagLetters, flag); ok {
		return l, nil
	}
	return 0, errors.NewVocabulary("meeting flag", flag)
}

type codeMapping struct {
	code  string
	value string
}

var roleCodes = []codeMapping{
	{"prop", "proponent"},
	{"opp", "opponent"},
	{"author", "author"},
	{"producer", "producer"},
}

// RoleForCode returns the role for a ledger role code.
func RoleForCode(code string) (string, error) {
	for _, r := range roleCodes {
		if r.code == code {
			return r.value, nil
		}
	}
	return "", errors.NewVocabulary("role code", code)
}

// CodeForRole returns the ledger code for a role.
func CodeForRole(role string) (string, error) {
	for _, r := range roleCodes {
		if r.value == role {
			return r.code, nil
		}
	}
	return "", errors.NewVocabulary("role", role)
}

type jointCode struct {
	code      string
	societies []string
}

var jointCodes = []jointCode{
	{"", nil},
	{"Adams", []string{"Adams Society"}},
	{"M&S", []string{"Magpie and Stump"}},
	{"A/M&S", []string{"Adams Society", "Magpie and Stump"}},
	{"MRSTC", []string{"Mathematics Research Students" + rsquo + " Tea Club"}},
	{"NP", []string{"New Pythagoreans"}},
	{"TCMS", []string{"Trinity College Music Society"}},
	{"TCNSS", []string{"Trinity College Natural Sciences Society"}},
	{"TCSS", []string{"Trinity College Science Society"}},
}

// JointForCode returns the societies a ledger joint code stands for.
func JointForCode(code string) ([]string, error) {
	for _, j := range jointCodes {
		if j.code == code {
			return slices.Clone(j.societies), nil
		}
	}
	return nil, errors.NewVocabulary("joint code", code)
}

// CodeForJoint returns the ledger joint code for a list of societies.
func CodeForJoint(societies []string) (string, error) {
	for _, j := range jointCodes {
		if slices.Equal(j.societies, societies) {
			return j.code, nil
		}
	}
	return "", errors.NewVocabulary("joint societies", strings.Join(societies, ", "))
}

var venueCodes = []codeMapping{
	{"AHSR", "Adrian House Seminar Room"},
	{"BBCR", "Blue Boar Common Room"},
	{"BHPR", "Butler House Party Room"},
	{"CAI", "Caius College"},
	{"CAM", "river Cam"},
	{"CHR", "Christ" + rsquo + "s College"},
	{"DAMTP", "DAMTP"},
	{"EMM", "Emmanuel College"},
	{"Hall", "Hall"},
	{"JCR", "Junior Combination Room"},
	{"JP", "Junior Parlour"},
	{"LRT", "Lecture-Room Theatre (I Great Court)"},
	{"ML", "Master" + rsquo + "s Lodge"},
	{"OCR", "Old Combination Room"},
	{"OF", "Old Field"},
	{"OK", "Old Kitchens"},
	{"PSR", "Private Supply Room"},
	{"SJC", "St John" + rsquo + "s College"},
	{"WLT", "Winstanley Lecture Theatre"},
	{"WPR", "Wolfson Party Room"},
}

// venueTemplate expands a code prefix plus suffix into a venue name.
type venueTemplate struct {
	prefix string
	before string
	after  string
	re     *regexp.Regexp
}

func newVenueTemplate(prefix, before, after string) venueTemplate {
	return venueTemplate{
		prefix: prefix,
		before: before,
		after:  after,
		re:     regexp.MustCompile(`^` + regexp.QuoteMeta(before) + `(.*)` + regexp.QuoteMeta(after) + `$`),
	}
}

// venueTemplates is tried in order; longer prefixes precede their own prefixes.
var venueTemplates = []venueTemplate{
	newVenueTemplate("BB", "", " Blue Boar Court"),
	newVenueTemplate("BS", "Room ", ", 4A Bridge Street"),
	newVenueTemplate("B", "", " Bishop"+rsquo+"s Hostel"),
	newVenueTemplate("G", "", " Great Court"),
	newVenueTemplate("H", "", " Whewell"+rsquo+"s Court"),
	newVenueTemplate("K", "", " New Court"),
	newVenueTemplate("LR", "Lecture Room ", " (I Great Court)"),
	newVenueTemplate("MR", "Centre for Mathematical Sciences MR", ""),
	newVenueTemplate("N", "", " Nevile"+rsquo+"s Court"),
}

// Historical venue spellings the ledger cannot express directly.
const (
	barLedgerVenue     = "Q1 Great Court"
	barVenue           = "the College Bar (Q1 Great Court, 1958" + ndash + "1998)"
	barDate            = "1979-04-23"
	lectureRoomsLedger = "Lecture Room  (I Great Court)"
	lectureRoomsVenue  = "Lecture Rooms (I Great Court)"
)

// VenueForCode expands a ledger venue code. The meeting date is needed for one
// historical rewrite.
func VenueForCode(code, date string) (string, error) {
	if code == "" {
		return "", nil
	}
	for _, v := range venueCodes {
		if v.code == code {
			return v.value, nil
		}
	}
	for _, t := range venueTemplates {
		suffix, ok := strings.CutPrefix(code, t.prefix)
		if !ok {
			continue
		}
		venue := t.before + suffix + t.after
		if venue == barLedgerVenue && date == barDate {
			venue = barVenue
		}
		if venue == lectureRoomsLedger {
			venue = lectureRoomsVenue
		}
		return venue, nil
	}
	return "", errors.NewVocabulary("venue code", code)
}

// CodeForVenue returns the ledger code for a venue.
func CodeForVenue(venue string) (string, error) {
	if venue == "" {
		return "", nil
	}
	switch venue {
	case barVenue:
		venue = barLedgerVenue
	case lectureRoomsVenue:
		venue = lectureRoomsLedger
	}
	for _, v := range venueCodes {
		if v.value == venue {
			return v.code, nil
		}
	}
	for _, t := range venueTemplates {
		if m := t.re.FindStringSubmatch(venue); m != nil {
			return t.prefix + m[1], nil
		}
	}
	return "", errors.NewVocabulary("venue", venue)
}
