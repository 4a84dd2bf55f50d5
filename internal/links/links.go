// Package links loads the supplementary table of speaker home pages used when
// rendering the archive.
package links

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/pelletier/go-toml/v2"

	"github.com/tms-archive/meetings/internal/errors"
	"github.com/tms-archive/meetings/internal/record"
)

// Table maps speaker IDs ("Last, First") to URLs.
//
//	[speakers]
//	"Smith, A." = "https://example.org/smith"
type Table struct {
	Speakers map[string]string `toml:"speakers"`
}

// Load reads a table from path. A missing file yields an empty table.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Table{Speakers: map[string]string{}}, nil
		}
		return nil, errors.NewInternal(fmt.Errorf("open speaker links: %w", err))
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a table in TOML form. Keys other than the speakers table are
// rejected.
func Parse(r io.Reader) (*Table, error) {
	t := &Table{}
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(t); err != nil {
		return nil, errors.NewStructural("parse speaker links: " + err.Error())
	}
	if t.Speakers == nil {
		t.Speakers = map[string]string{}
	}
	return t, nil
}

// Validate checks that every ID in the table names a speaker somewhere in the
// archive. IDs are checked in sorted order so the reported one is stable.
func (t *Table) Validate(a record.Archive) error {
	known := a.Speakers()
	ids := make([]string, 0, len(t.Speakers))
	for id := range t.Speakers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if !known[id] {
			return errors.NewCrossReference("unknown speaker", id)
		}
	}
	return nil
}

// URL returns the link for a speaker, if any.
func (t *Table) URL(id string) (string, bool) {
	if t == nil {
		return "", false
	}
	u, ok := t.Speakers[id]
	return u, ok
}
