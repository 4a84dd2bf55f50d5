package ops

import (
	"context"

	"github.com/tms-archive/meetings/internal/stats"
	"github.com/tms-archive/meetings/internal/vocab"
)

// SpeakerCountsInput contains parameters for the SpeakerCounts operation.
type SpeakerCountsInput struct {
	XMLPath    string   // optional, default: config xml_file
	OutputPath string   // optional, default: config speaker_counts_file
	Exclude    []string // optional, default: config exclude
}

// SpeakerCountsOutput contains the result of the SpeakerCounts operation.
type SpeakerCountsOutput struct {
	Path     string               `json:"path"`
	Speakers int                  `json:"speakers"`
	Exclude  []string             `json:"exclude,omitempty"`
	Counts   []stats.SpeakerCount `json:"-"`
}

// SpeakerCounts writes the number of talks given by each speaker, fewest
// first.
func SpeakerCounts(ctx context.Context, env *Env, input SpeakerCountsInput) (*SpeakerCountsOutput, error) {
	source := env.path(input.XMLPath, env.Config.XMLFile)
	out := env.path(input.OutputPath, env.Config.SpeakerCountsFile)

	exclude, err := excludedTypes(input.Exclude, env.Config.Exclude)
	if err != nil {
		return nil, err
	}
	if err := checkOutputPath(out, "", source); err != nil {
		return nil, err
	}
	if err := checkContext(ctx, ActionSpeakerCounts); err != nil {
		return nil, err
	}
	unlock, err := lockArchive(env, ActionSpeakerCounts)
	if err != nil {
		return nil, err
	}
	defer unlock()

	archive, err := readArchive(source)
	if err != nil {
		return nil, err
	}
	counts := stats.SpeakerCounts(archive, exclude)

	if err := writeFileAtomic(out, []byte(stats.FormatCounts(counts))); err != nil {
		return nil, err
	}

	env.Logger.Info("wrote speaker counts", "path", out, "speakers", len(counts), "exclude", exclude)
	return &SpeakerCountsOutput{Path: out, Speakers: len(counts), Exclude: exclude, Counts: counts}, nil
}

// excludedTypes returns the requested meeting types, or the configured ones
// when none were requested. Every type must be a known meeting type.
func excludedTypes(requested, configured []string) ([]string, error) {
	exclude := requested
	if len(exclude) == 0 {
		exclude = configured
	}
	for _, t := range exclude {
		if err := vocab.CheckMeetingType(t); err != nil {
			return nil, err
		}
	}
	return exclude, nil
}
