package ops

import (
	"bytes"
	"context"

	"github.com/tms-archive/meetings/internal/canonical"
)

// CheckInput contains parameters for the Check operation.
type CheckInput struct {
	XMLPath string // optional, default: config xml_file
}

// CheckOutput contains the result of the Check operation.
type CheckOutput struct {
	Path      string `json:"path"`
	Canonical bool   `json:"canonical"`
	// FirstDiffLine is the first line, 1-based, where the file differs from
	// its canonical form. Zero when Canonical is true.
	FirstDiffLine int `json:"first_diff_line,omitempty"`
	Summary
}

// Check decodes the canonical file, re-encodes it and compares the result
// with the file byte for byte. Nothing is written.
func Check(ctx context.Context, env *Env, input CheckInput) (*CheckOutput, error) {
	source := env.path(input.XMLPath, env.Config.XMLFile)

	if err := checkContext(ctx, ActionCheckXML); err != nil {
		return nil, err
	}

	data, err := readFile(source)
	if err != nil {
		return nil, err
	}
	archive, err := canonical.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	output := &CheckOutput{Path: source, Summary: summarize(archive)}
	encoded := canonical.Encode(archive)
	if bytes.Equal(data, encoded) {
		output.Canonical = true
	} else {
		output.FirstDiffLine = firstDiffLine(data, encoded)
	}

	env.Logger.Info("checked canonical file", "path", source,
		"canonical", output.Canonical, "first_diff_line", output.FirstDiffLine)
	return output, nil
}

// firstDiffLine returns the 1-based line of the first byte where a and b
// differ, or zero when they are equal.
func firstDiffLine(a, b []byte) int {
	n := min(len(a), len(b))
	line := 1
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return line
		}
		if a[i] == '\n' {
			line++
		}
	}
	if len(a) == len(b) {
		return 0
	}
	return line
}
