// Package canonical reads and writes the canonical XML form of the archive.
// The encoder output is byte-stable: decoding and re-encoding a file it wrote
// reproduces the file exactly.
package canonical

import (
	"strings"

	"github.com/tms-archive/meetings/internal/record"
)

const (
	xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"
	rootOpen  = "<meetings>\n"
	rootClose = "</meetings>\n"
)

// escaper escapes text content and matches the quoting of the files already
// in the archive, which escape both quote characters.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
)

func escape(s string) string {
	return escaper.Replace(s)
}

// element renders <name>text</name> at the given indent.
func element(indent, name, text string) string {
	return indent + "<" + name + ">" + escape(text) + "</" + name + ">"
}

// Encode returns the canonical XML document for the archive.
func Encode(a record.Archive) []byte {
	entries := make([]string, 0, len(a))
	for _, e := range a {
		switch e := e.(type) {
		case *record.Meeting:
			entries = append(entries, encodeMeeting(e))
		case *record.Note:
			entries = append(entries, element("  ", "note", e.Text))
		}
	}
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(rootOpen)
	b.WriteString(strings.Join(entries, "\n"))
	b.WriteString("\n")
	b.WriteString(rootClose)
	return []byte(b.String())
}

func encodeMeeting(m *record.Meeting) string {
	lines := []string{
		element("    ", "number", m.Number),
		element("    ", "date", m.Date),
		element("    ", "type", m.Type),
	}
	for _, f := range m.Flags {
		lines = append(lines, element("    ", "flag", f))
	}
	for _, j := range m.Joint {
		lines = append(lines, element("    ", "joint", j))
	}
	for _, s := range m.Sub {
		lines = append(lines, encodeSub(s))
	}
	lines = append(lines, element("    ", "venue", m.Venue))
	if m.Attendance != "" {
		lines = append(lines, element("    ", "attendance", m.Attendance))
	}
	lines = append(lines, "    <minutes>"+element("", "volume", m.Volume)+element("", "page", m.Page)+"</minutes>")
	return "  <meeting>\n" + strings.Join(lines, "\n") + "\n  </meeting>"
}

func encodeSub(s *record.SubMeeting) string {
	var lines []string
	for _, sp := range s.Speakers {
		lines = append(lines, encodeSpeaker(sp))
	}
	switch s.Content.Kind {
	case record.ContentDescription:
		lines = append(lines, element("      ", "desc", s.Content.Text))
	case record.ContentTitle:
		lines = append(lines, element("      ", "title", s.Content.Text))
	}
	if s.Note != "" {
		lines = append(lines, element("      ", "mnote", s.Note))
	}
	if s.Abstract != "" {
		lines = append(lines, element("      ", "abstract", s.Abstract))
	}
	for _, l := range s.Links {
		lines = append(lines,
			"      <link>\n"+
				element("        ", "linkdesc", l.Desc)+"\n"+
				element("        ", "href", l.Href)+"\n"+
				"      </link>")
	}
	return "    <sub>\n" + strings.Join(lines, "\n") + "\n    </sub>"
}

func encodeSpeaker(sp *record.Speaker) string {
	lines := []string{
		element("        ", "stitle", sp.Title),
		element("        ", "first", sp.First),
		element("        ", "last", sp.Last),
	}
	if sp.Role != "" {
		lines = append(lines, element("        ", "role", sp.Role))
	}
	return "      <speaker>\n" + strings.Join(lines, "\n") + "\n      </speaker>"
}
