// Package ops implements the archive actions: converting the ledger, checking
// and reformatting the canonical file, speaker statistics and the HTML and
// ledger renditions. Each action reads its inputs, writes one output file
// atomically and reports what it wrote.
package ops

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/tms-archive/meetings/internal/config"
	"github.com/tms-archive/meetings/internal/errors"
	"github.com/tms-archive/meetings/internal/logging"
	"github.com/tms-archive/meetings/internal/record"
)

// Action names, as used on the command line and in logs.
const (
	ActionTextToXML     = "text-to-xml"
	ActionReformatXML   = "reformat-xml"
	ActionCheckXML      = "check-xml"
	ActionSpeakerCounts = "speaker-counts"
	ActionSpeakerDates  = "speaker-dates"
	ActionMeetingsHTML  = "meetings-html"
	ActionMeetingsText  = "meetings-text"
)

// Env carries what every action needs: the archive directory, the
// configuration with file names resolved against it, and a logger.
type Env struct {
	Dir    string
	Config *config.Config
	Logger *slog.Logger
}

// NewEnv returns an Env for the archive in dir. A nil logger discards log
// output.
func NewEnv(dir string, cfg *config.Config, logger *slog.Logger) *Env {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Env{Dir: dir, Config: cfg.Resolve(dir), Logger: logger}
}

// path returns the file name to use for an action input or output: v made
// relative to the archive directory, or def when v is blank.
func (e *Env) path(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	if filepath.IsAbs(v) {
		return v
	}
	return filepath.Join(e.Dir, v)
}

// Summary counts the entries of an archive.
type Summary struct {
	Meetings int `json:"meetings"`
	Notes    int `json:"notes"`
}

func summarize(a record.Archive) Summary {
	var s Summary
	for _, e := range a {
		switch e.(type) {
		case *record.Meeting:
			s.Meetings++
		case *record.Note:
			s.Notes++
		}
	}
	return s
}

// checkContext returns a cancellation error once ctx is done.
func checkContext(ctx context.Context, action string) error {
	select {
	case <-ctx.Done():
		return errors.NewCancelled(action)
	default:
		return nil
	}
}
