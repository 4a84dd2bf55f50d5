package ledger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/tms-archive/meetings/internal/errors"
)

// TitleSource supplies the full text of titles too long for the ledger's
// description column. Lines are returned without their terminators.
type TitleSource interface {
	TitleLines(number string) ([]string, error)
}

// DirTitles reads overflow titles from <Dir>/<number>.title files, which are
// encoded in ISO-8859-1 like the ledger itself.
type DirTitles struct {
	Dir string
}

// TitleLines implements TitleSource.
func (d DirTitles) TitleLines(number string) ([]string, error) {
	path := filepath.Join(d.Dir, number+".title")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewCrossReference("missing title file", path)
		}
		return nil, errors.NewInternal(err)
	}
	defer f.Close()

	data, err := io.ReadAll(charmap.ISO8859_1.NewDecoder().Reader(f))
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return splitLines(string(data)), nil
}

// MapTitles serves overflow titles from memory, keyed by meeting number.
type MapTitles map[string]string

// TitleLines implements TitleSource.
func (m MapTitles) TitleLines(number string) ([]string, error) {
	text, ok := m[number]
	if !ok {
		return nil, errors.NewCrossReference("missing title file", number+".title")
	}
	return splitLines(text), nil
}

// splitLines splits text into lines; a final terminator does not start a new
// line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r\n")
	}
	return lines
}
