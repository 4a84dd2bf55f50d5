package ops

import (
	"context"

	"github.com/tms-archive/meetings/internal/canonical"
	"github.com/tms-archive/meetings/internal/ledger"
)

// ConvertLedgerInput contains parameters for the ConvertLedger operation.
type ConvertLedgerInput struct {
	LedgerPath string // optional, default: config ledger_file
	TitleDir   string // optional, default: config title_dir
	OutputPath string // optional, default: config xml_file
}

// ConvertLedgerOutput contains the result of the ConvertLedger operation.
type ConvertLedgerOutput struct {
	Path   string `json:"path"`
	Source string `json:"source"`
	Summary
}

// ConvertLedger decodes the ledger, with its overflow title files, and writes
// the canonical XML file.
func ConvertLedger(ctx context.Context, env *Env, input ConvertLedgerInput) (*ConvertLedgerOutput, error) {
	source := env.path(input.LedgerPath, env.Config.LedgerFile)
	titleDir := env.path(input.TitleDir, env.Config.TitleDir)
	out := env.path(input.OutputPath, env.Config.XMLFile)

	if err := checkOutputPath(out, ".xml", source); err != nil {
		return nil, err
	}
	if err := checkContext(ctx, ActionTextToXML); err != nil {
		return nil, err
	}
	unlock, err := lockArchive(env, ActionTextToXML)
	if err != nil {
		return nil, err
	}
	defer unlock()

	f, err := openFileRead(source)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	archive, err := ledger.NewDecoder(ledger.DirTitles{Dir: titleDir}, env.Logger).Decode(f)
	if err != nil {
		return nil, err
	}
	if err := checkContext(ctx, ActionTextToXML); err != nil {
		return nil, err
	}

	if err := writeFileAtomic(out, canonical.Encode(archive)); err != nil {
		return nil, err
	}

	summary := summarize(archive)
	env.Logger.Info("converted ledger", "source", source, "path", out,
		"meetings", summary.Meetings, "notes", summary.Notes)
	return &ConvertLedgerOutput{Path: out, Source: source, Summary: summary}, nil
}
