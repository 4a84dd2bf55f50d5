package ops

import (
	"context"

	"github.com/tms-archive/meetings/internal/stats"
)

// SpeakerDatesInput contains parameters for the SpeakerDates operation.
type SpeakerDatesInput struct {
	XMLPath    string   // optional, default: config xml_file
	OutputPath string   // optional, default: config speaker_dates_file
	Exclude    []string // optional, default: config exclude
}

// SpeakerDatesOutput contains the result of the SpeakerDates operation.
type SpeakerDatesOutput struct {
	Path     string               `json:"path"`
	Speakers int                  `json:"speakers"`
	Exclude  []string             `json:"exclude,omitempty"`
	Ranges   []stats.SpeakerRange `json:"-"`
}

// SpeakerDates writes, for each speaker, the span of dates over which they
// spoke, shortest span first. Meetings with an incomplete date are skipped.
func SpeakerDates(ctx context.Context, env *Env, input SpeakerDatesInput) (*SpeakerDatesOutput, error) {
	source := env.path(input.XMLPath, env.Config.XMLFile)
	out := env.path(input.OutputPath, env.Config.SpeakerDatesFile)

	exclude, err := excludedTypes(input.Exclude, env.Config.Exclude)
	if err != nil {
		return nil, err
	}
	if err := checkOutputPath(out, "", source); err != nil {
		return nil, err
	}
	if err := checkContext(ctx, ActionSpeakerDates); err != nil {
		return nil, err
	}
	unlock, err := lockArchive(env, ActionSpeakerDates)
	if err != nil {
		return nil, err
	}
	defer unlock()

	archive, err := readArchive(source)
	if err != nil {
		return nil, err
	}
	ranges, err := stats.SpeakerDates(archive, exclude)
	if err != nil {
		return nil, err
	}

	if err := writeFileAtomic(out, []byte(stats.FormatDates(ranges))); err != nil {
		return nil, err
	}

	env.Logger.Info("wrote speaker dates", "path", out, "speakers", len(ranges), "exclude", exclude)
	return &SpeakerDatesOutput{Path: out, Speakers: len(ranges), Exclude: exclude, Ranges: ranges}, nil
}
