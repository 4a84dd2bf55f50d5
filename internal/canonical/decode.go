package canonical

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/tms-archive/meetings/internal/errors"
	"github.com/tms-archive/meetings/internal/record"
	"github.com/tms-archive/meetings/internal/vocab"
)

type xmlSpeaker struct {
	Title string `xml:"stitle"`
	First string `xml:"first"`
	Last  string `xml:"last"`
	Role  string `xml:"role"`
}

type xmlLink struct {
	Desc string `xml:"linkdesc"`
	Href string `xml:"href"`
}

type xmlSub struct {
	Speakers []xmlSpeaker `xml:"speaker"`
	Desc     string       `xml:"desc"`
	Title    string       `xml:"title"`
	Note     string       `xml:"mnote"`
	Abstract string       `xml:"abstract"`
	Links    []xmlLink    `xml:"link"`
}

type xmlMeeting struct {
	Number     string   `xml:"number"`
	Date       string   `xml:"date"`
	Type       string   `xml:"type"`
	Flags      []string `xml:"flag"`
	Joint      []string `xml:"joint"`
	Sub        []xmlSub `xml:"sub"`
	Venue      string   `xml:"venue"`
	Attendance string   `xml:"attendance"`
	Volume     string   `xml:"minutes>volume"`
	Page       string   `xml:"minutes>page"`
}

type xmlNote struct {
	Text string `xml:",chardata"`
}

// Decode parses a canonical XML document. Unknown elements inside a meeting
// are ignored; an unknown element directly under the root is an error. Every
// entry is validated through the record constructors.
func Decode(r io.Reader) (record.Archive, error) {
	dec := xml.NewDecoder(r)

	if err := findRoot(dec); err != nil {
		return nil, err
	}

	var archive record.Archive
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, syntaxError(err)
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return archive, nil
		case xml.StartElement:
			entry, err := decodeEntry(dec, t)
			if err != nil {
				return nil, err
			}
			archive = append(archive, entry)
		}
	}
}

func findRoot(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return syntaxError(err)
		}
		if _, ok := tok.(xml.StartElement); ok {
			return nil
		}
	}
}

func syntaxError(err error) error {
	if err == io.EOF {
		return errors.NewStructural("unexpected end of document")
	}
	return errors.NewStructural("malformed XML: " + err.Error())
}

func decodeEntry(dec *xml.Decoder, start xml.StartElement) (record.Entry, error) {
	switch start.Name.Local {
	case "meeting":
		var xm xmlMeeting
		if err := dec.DecodeElement(&xm, &start); err != nil {
			return nil, syntaxError(err)
		}
		return buildMeeting(xm)
	case "note":
		var xn xmlNote
		if err := dec.DecodeElement(&xn, &start); err != nil {
			return nil, syntaxError(err)
		}
		return record.NewNote(xn.Text)
	}
	return nil, errors.NewStructural("unexpected tag: " + start.Name.Local)
}

func buildMeeting(xm xmlMeeting) (*record.Meeting, error) {
	sub := make([]*record.SubMeeting, 0, len(xm.Sub))
	for _, xs := range xm.Sub {
		s, err := buildSub(xs)
		if err != nil {
			return nil, err
		}
		sub = append(sub, s)
	}

	switch {
	case xm.Type == vocab.TypeTalk && len(sub) != 1:
		return nil, errors.NewStructural(fmt.Sprintf("meeting %s (talk) has %d sub-entries", xm.Number, len(sub)))
	case xm.Type == vocab.TypeTalks && len(sub) <= 1:
		return nil, errors.NewStructural(fmt.Sprintf("meeting %s (talks) lacks multiple talks", xm.Number))
	}

	return record.NewMeeting(record.MeetingHeader{
		Number:     xm.Number,
		Date:       xm.Date,
		Type:       xm.Type,
		Flags:      xm.Flags,
		Joint:      xm.Joint,
		Venue:      xm.Venue,
		Attendance: xm.Attendance,
		Volume:     xm.Volume,
		Page:       xm.Page,
	}, sub)
}

func buildSub(xs xmlSub) (*record.SubMeeting, error) {
	var speakers []*record.Speaker
	for _, xsp := range xs.Speakers {
		sp, err := record.NewSpeaker(xsp.Title, xsp.First, xsp.Last, xsp.Role)
		if err != nil {
			return nil, err
		}
		speakers = append(speakers, sp)
	}
	var links []*record.SubLink
	for _, xl := range xs.Links {
		l, err := record.NewSubLink(xl.Desc, xl.Href)
		if err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return record.NewSubMeeting(xs.Desc, xs.Title, xs.Note, speakers, xs.Abstract, links)
}
