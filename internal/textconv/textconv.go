// Package textconv converts free text between the ASCII conventions of the
// fixed-format ledger and the typographic form used everywhere else.
package textconv

import (
	"regexp"
	"strings"

	"github.com/tms-archive/meetings/internal/errors"
)

// Typographic characters produced by ToSymbolic.
const (
	NBSP   = "\u00a0"
	Delta  = "\u0394"
	Pi     = "\u03c0"
	NDash  = "\u2013"
	MDash  = "\u2014"
	RSquo  = "\u2019"
	LDquo  = "\u201c"
	RDquo  = "\u201d"
	Hellip = "\u2026"
)

var (
	digitDashDigit = regexp.MustCompile(`([0-9])-([0-9])`)
	digitDashEnd   = regexp.MustCompile(`([0-9])-$`)
)

// ToSymbolic converts ledger text (e.g. a talk title) to full symbolic form.
func ToSymbolic(text string) string {
	if text == "" {
		return text
	}
	text = strings.ReplaceAll(text, "'", RSquo)
	text = strings.ReplaceAll(text, "...", Hellip)
	text = strings.ReplaceAll(text, `\pi`, Pi)
	text = strings.ReplaceAll(text, `\Delta`, Delta)
	text = strings.ReplaceAll(text, " - ", MDash)
	// Straight quotes pair up left to right.
	for strings.Contains(text, `"`) {
		text = strings.Replace(text, `"`, LDquo, 1)
		text = strings.Replace(text, `"`, RDquo, 1)
	}
	text = digitDashDigit.ReplaceAllString(text, "${1}"+NDash+"${2}")
	text = digitDashEnd.ReplaceAllString(text, "${1}"+NDash)
	return text
}

// asciiReplacer undoes ToSymbolic symbol by symbol.
var asciiReplacer = strings.NewReplacer(
	RSquo, "'",
	Hellip, "...",
	Pi, `\pi`,
	Delta, `\Delta`,
	MDash, " - ",
	LDquo, `"`,
	RDquo, `"`,
	NDash, "-",
)

// ToASCII converts symbolic text back to the form used in the ledger.
func ToASCII(text string) string {
	return asciiReplacer.Replace(text)
}

// CheckUnicode verifies that text meant to be in symbolic form carries no
// ASCII stand-ins for typographic characters.
func CheckUnicode(text string) error {
	if text == "" {
		return nil
	}
	var what string
	switch {
	case strings.Contains(text, `"`):
		what = "double quote"
	case strings.Contains(text, "'"):
		what = "single quote"
	case strings.Contains(text, "..."):
		what = "ellipsis"
	case strings.Contains(text, " -"),
		digitDashDigit.MatchString(text),
		digitDashEnd.MatchString(text):
		what = "dash"
	default:
		return nil
	}
	return &errors.ArchiveError{
		Code:    errors.ErrVocabulary,
		Message: "ASCII " + what + " where Unicode expected: " + text,
		Details: map[string]any{"field": "text", "value": text},
	}
}
