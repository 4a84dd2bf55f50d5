package ops

import (
	"context"

	"github.com/tms-archive/meetings/internal/ledger"
)

// LedgerTextInput contains parameters for the LedgerText operation.
type LedgerTextInput struct {
	XMLPath    string // optional, default: config xml_file
	OutputPath string // optional, default: config ledger_out_file
}

// LedgerTextOutput contains the result of the LedgerText operation.
type LedgerTextOutput struct {
	Path   string `json:"path"`
	Source string `json:"source"`
	Summary
}

// LedgerText writes the canonical file back out in ledger form, encoded in
// ISO-8859-1, for comparison with the original ledger.
func LedgerText(ctx context.Context, env *Env, input LedgerTextInput) (*LedgerTextOutput, error) {
	source := env.path(input.XMLPath, env.Config.XMLFile)
	out := env.path(input.OutputPath, env.Config.LedgerOutFile)

	if err := checkOutputPath(out, "", source, env.Config.LedgerFile); err != nil {
		return nil, err
	}
	if err := checkContext(ctx, ActionMeetingsText); err != nil {
		return nil, err
	}
	unlock, err := lockArchive(env, ActionMeetingsText)
	if err != nil {
		return nil, err
	}
	defer unlock()

	archive, err := readArchive(source)
	if err != nil {
		return nil, err
	}
	text, err := ledger.Encode(archive)
	if err != nil {
		return nil, err
	}
	data, err := encodeLatin1(text)
	if err != nil {
		return nil, err
	}

	if err := writeFileAtomic(out, data); err != nil {
		return nil, err
	}

	summary := summarize(archive)
	env.Logger.Info("wrote ledger text", "source", source, "path", out,
		"meetings", summary.Meetings, "notes", summary.Notes)
	return &LedgerTextOutput{Path: out, Source: source, Summary: summary}, nil
}
