package ops

import (
	"context"

	"github.com/tms-archive/meetings/internal/canonical"
)

// ReformatInput contains parameters for the Reformat operation.
type ReformatInput struct {
	XMLPath    string // optional, default: config xml_file
	OutputPath string // optional, default: config reformatted_xml_file
}

// ReformatOutput contains the result of the Reformat operation.
type ReformatOutput struct {
	Path   string `json:"path"`
	Source string `json:"source"`
	Summary
}

// Reformat reads the canonical file and writes it out again. Comparing the
// two files shows whether hand edits kept the canonical layout.
func Reformat(ctx context.Context, env *Env, input ReformatInput) (*ReformatOutput, error) {
	source := env.path(input.XMLPath, env.Config.XMLFile)
	out := env.path(input.OutputPath, env.Config.ReformattedXMLFile)

	if err := checkOutputPath(out, ".xml", source); err != nil {
		return nil, err
	}
	if err := checkContext(ctx, ActionReformatXML); err != nil {
		return nil, err
	}
	unlock, err := lockArchive(env, ActionReformatXML)
	if err != nil {
		return nil, err
	}
	defer unlock()

	archive, err := readArchive(source)
	if err != nil {
		return nil, err
	}
	if err := checkContext(ctx, ActionReformatXML); err != nil {
		return nil, err
	}

	if err := writeFileAtomic(out, canonical.Encode(archive)); err != nil {
		return nil, err
	}

	summary := summarize(archive)
	env.Logger.Info("reformatted canonical file", "source", source, "path", out,
		"meetings", summary.Meetings, "notes", summary.Notes)
	return &ReformatOutput{Path: out, Source: source, Summary: summary}, nil
}
