// Package render produces the HTML listing of the archive.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/tms-archive/meetings/internal/errors"
	"github.com/tms-archive/meetings/internal/links"
	"github.com/tms-archive/meetings/internal/record"
	"github.com/tms-archive/meetings/internal/textconv"
)

//go:embed templates/*.html
var templateFS embed.FS

var months = map[string]string{
	"01": "January", "02": "February", "03": "March", "04": "April",
	"05": "May", "06": "June", "07": "July", "08": "August",
	"09": "September", "10": "October", "11": "November", "12": "December",
}

// Options configures a Renderer.
type Options struct {
	Title     string
	SourceURL string
	Links     *links.Table
}

// Renderer turns an archive into a single HTML page.
type Renderer struct {
	tmpl *template.Template
	opts Options
}

// New parses the embedded page template.
func New(opts Options) (*Renderer, error) {
	tmpl, err := template.New("page.html").ParseFS(templateFS, "templates/page.html")
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return &Renderer{tmpl: tmpl, opts: opts}, nil
}

// PageData is the template data for the listing page.
type PageData struct {
	Title     string
	SourceURL string
	Intro     []template.HTML
	Sections  []Section
}

// Section is one academic year of the listing.
type Section struct {
	Label  string
	Blocks []Block
}

// Block is either a run of meetings or a single note.
type Block struct {
	Meetings []MeetingView
	Note     string
}

// MeetingView is a meeting prepared for display.
type MeetingView struct {
	Date    string
	Subs    []SubView
	Joint   string
	Summary string
	Minutes string
}

// SubView is a sub-entry prepared for display.
type SubView struct {
	Speakers []SpeakerView
	Text     string
	Links    []*record.SubLink
	Abstract template.HTML
}

// SpeakerView is a speaker prepared for display, linked when the speaker
// table has an entry.
type SpeakerView struct {
	Name string
	Role string
	URL  string
}

// Render writes the page for the archive to w. The README supplies the
// introduction: its first and third paragraphs.
func (r *Renderer) Render(w io.Writer, a record.Archive, readme string) error {
	intro, err := introduction(readme)
	if err != nil {
		return err
	}
	sections, err := r.sections(a)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "page", PageData{
		Title:     r.opts.Title,
		SourceURL: r.opts.SourceURL,
		Intro:     intro,
		Sections:  sections,
	}); err != nil {
		return errors.NewInternal(fmt.Errorf("execute template: %w", err))
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

func introduction(readme string) ([]template.HTML, error) {
	paras := strings.Split(strings.ReplaceAll(readme, "-", textconv.NDash), "\n\n")
	if len(paras) < 3 {
		return nil, errors.NewInvalidRequest("README needs at least three paragraphs")
	}
	return []template.HTML{renderMarkdown(paras[0]), renderMarkdown(paras[2])}, nil
}

// sections groups entries by academic year. Consecutive meetings share a
// list; a note ends it.
func (r *Renderer) sections(a record.Archive) ([]Section, error) {
	var out []Section
	var years record.YearTracker
	for _, e := range a {
		changed, err := years.Next(e)
		if err != nil {
			return nil, err
		}
		if changed || len(out) == 0 {
			label := ""
			if y := years.Year(); y != 0 {
				label = fmt.Sprintf("%d%s%d", y, textconv.NDash, y+1)
			}
			out = append(out, Section{Label: label})
		}
		sec := &out[len(out)-1]

		switch e := e.(type) {
		case *record.Note:
			sec.Blocks = append(sec.Blocks, Block{Note: e.Text})
		case *record.Meeting:
			if n := len(sec.Blocks); n == 0 || sec.Blocks[n-1].Meetings == nil {
				sec.Blocks = append(sec.Blocks, Block{})
			}
			b := &sec.Blocks[len(sec.Blocks)-1]
			b.Meetings = append(b.Meetings, r.meeting(e))
		}
	}
	return out, nil
}

func (r *Renderer) meeting(m *record.Meeting) MeetingView {
	v := MeetingView{
		Date:  dateText(m.Date),
		Joint: strings.Join(m.Joint, " and "),
	}
	for _, s := range m.Sub {
		v.Subs = append(v.Subs, r.sub(s))
	}

	kind := m.Type
	if len(m.Flags) > 0 {
		kind += "; " + strings.Join(m.Flags, "; ")
	}
	summary := fmt.Sprintf("Meeting %s (%s)", m.Number, kind)
	if m.Venue != "" {
		summary += ", " + m.Venue
	}
	if m.Attendance != "" {
		summary += ", attendance " + m.Attendance
	}
	v.Summary = summary + "."

	if m.Page != "-" {
		v.Minutes = fmt.Sprintf("Minutes: volume %s page %s.", m.Volume, m.Page)
	}
	return v
}

func (r *Renderer) sub(s *record.SubMeeting) SubView {
	v := SubView{Links: s.Links}
	for _, sp := range s.Speakers {
		url, _ := r.opts.Links.URL(sp.ID())
		name := strings.Join([]string{sp.Title, sp.First, sp.Last}, " ")
		v.Speakers = append(v.Speakers, SpeakerView{
			Name: strings.ReplaceAll(strings.TrimSpace(name), " ", textconv.NBSP),
			Role: sp.Role,
			URL:  url,
		})
	}

	text := s.Content.Description()
	if s.Content.Kind == record.ContentTitle {
		text = textconv.LDquo + s.Content.Text + textconv.RDquo
	}
	if s.Note != "" {
		text = fmt.Sprintf("%s (%s)", text, s.Note)
	}
	v.Text = text

	if s.Abstract != "" {
		v.Abstract = renderMarkdown(s.Abstract)
	}
	return v
}

// dateText formats a date as "3 November 1950". Unknown digits are kept.
func dateText(date string) string {
	if date == "" {
		return "(unknown date)"
	}
	month, ok := months[date[5:7]]
	if !ok {
		month = date[5:7]
	}
	day := strings.TrimLeft(date[8:], "0")
	return fmt.Sprintf("%s %s %s", day, month, date[0:4])
}

// renderMarkdown converts markdown text to HTML using goldmark.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}
