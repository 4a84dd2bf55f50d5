package ledger

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/tms-archive/meetings/internal/record"
	"github.com/tms-archive/meetings/internal/textconv"
	"github.com/tms-archive/meetings/internal/vocab"
)

var leadingDigits = regexp.MustCompile(`^([0-9]+)(.*)$`)

// Encode writes the archive back out in ledger form, grouped into academic
// years and minute-book volumes. Titles are never truncated, so a title longer
// than the description column produces a line the decoder rejects; the output
// is meant for comparison with the original ledger.
func Encode(a record.Archive) (string, error) {
	var lines []string
	var years record.YearTracker
	volume := ""

	for _, e := range a {
		prevYear := years.Year()
		changed, err := years.Next(e)
		if err != nil {
			return "", err
		}
		blank := false
		if changed {
			blank = true
			if prevYear != 0 {
				lines = append(lines, "")
			}
		}

		switch e := e.(type) {
		case *record.Note:
			lines = append(lines, "("+textconv.ToASCII(e.Text)+")")
		case *record.Meeting:
			if e.Volume != volume {
				if !blank {
					lines = append(lines, "")
				}
				if volume != "" {
					lines = append(lines, "")
				}
				numeral, err := vocab.NumeralForVolume(e.Volume)
				if err != nil {
					return "", err
				}
				header := vocab.VolumeHeader + numeral
				lines = append(lines, header, strings.Repeat("-", len(header)), vocab.FormatHeader)
				volume = e.Volume
			}
			ml, err := encodeMeeting(e)
			if err != nil {
				return "", err
			}
			lines = append(lines, ml...)
		}
	}
	return strings.Join(lines, "\n") + "\n", nil
}

// row is one speaker column and description column of output.
type row struct {
	speaker string
	desc    string
}

func encodeMeeting(m *record.Meeting) ([]string, error) {
	var numMain, numExtra string
	if g := leadingDigits.FindStringSubmatch(m.Number); g != nil {
		numMain, numExtra = g[1], g[2]
	}

	flags, err := encodeFlags(m.Type, m.Flags)
	if err != nil {
		return nil, err
	}
	joint, err := vocab.CodeForJoint(m.Joint)
	if err != nil {
		return nil, err
	}
	venue, err := vocab.CodeForVenue(m.Venue)
	if err != nil {
		return nil, err
	}

	var rows []row
	for _, s := range m.Sub {
		desc := s.Content.Description()
		if desc == "" {
			desc = `"` + s.Content.Title() + `"`
		}
		if s.Note != "" {
			desc = fmt.Sprintf("%s (%s)", desc, s.Note)
		}
		desc = textconv.ToASCII(desc)

		speakers := []string{""}
		if len(s.Speakers) > 0 {
			speakers = speakers[:0]
			for _, sp := range s.Speakers {
				text, err := encodeSpeaker(sp)
				if err != nil {
					return nil, err
				}
				speakers = append(speakers, text)
			}
		}
		rows = append(rows, row{speakers[0], desc})
		for _, sp := range speakers[1:] {
			rows = append(rows, row{sp, ""})
		}
	}

	page := m.Page
	switch page {
	case "-":
		page = "---"
	case "?":
		page = "???"
	}
	attendance := m.Attendance
	if attendance == "?" {
		attendance = " ??"
	}
	if g := leadingDigits.FindStringSubmatch(attendance); g != nil {
		attendance = fmt.Sprintf("%3s%s", g[1], g[2])
	}

	out := []string{rstrip(fmt.Sprintf("%3s%-2s %-10s %-3s %5s %-32s %-103s %-5s %3s %s",
		numMain, numExtra, m.Date, flags, joint, rows[0].speaker, rows[0].desc, venue, page, attendance))}
	for _, r := range rows[1:] {
		out = append(out, rstrip(fmt.Sprintf("%27s%-32s %-133s", "", r.speaker, r.desc)))
	}
	return out, nil
}

// encodeFlags renders the type letter, if the type has one, and the flag
// letters in sorted order.
func encodeFlags(typ string, flags []string) (string, error) {
	var letters []rune
	if l, ok := vocab.LetterForType(typ); ok {
		letters = append(letters, l)
	}
	for _, f := range flags {
		l, err := vocab.LetterForFlag(f)
		if err != nil {
			return "", err
		}
		letters = append(letters, l)
	}
	slices.Sort(letters)
	return string(letters), nil
}

// encodeSpeaker compresses a speaker into ledger form: ledger title spelling,
// initials without spaces and the role as a code.
func encodeSpeaker(sp *record.Speaker) (string, error) {
	title := sp.Title + " "
	for _, adj := range vocab.LedgerTitleAdjustments {
		title = strings.ReplaceAll(title, adj.Canonical, adj.Ledger)
	}
	first := strings.ReplaceAll(sp.First, ". ", ".")
	first = strings.ReplaceAll(first, ".St", ". St")
	first = strings.ReplaceAll(first, ".v", ". v")

	text := title + first + " " + sp.Last
	if sp.Role != "" {
		code, err := vocab.CodeForRole(sp.Role)
		if err != nil {
			return "", err
		}
		text += " (" + code + ")"
	}
	return text, nil
}

func rstrip(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}
