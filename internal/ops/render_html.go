package ops

import (
	"bytes"
	"context"

	"github.com/tms-archive/meetings/internal/links"
	"github.com/tms-archive/meetings/internal/render"
)

// RenderHTMLInput contains parameters for the RenderHTML operation.
type RenderHTMLInput struct {
	XMLPath    string // optional, default: config xml_file
	ReadmePath string // optional, default: config readme_file
	LinksPath  string // optional, default: config speaker_links_file
	OutputPath string // optional, default: config html_file
}

// RenderHTMLOutput contains the result of the RenderHTML operation.
type RenderHTMLOutput struct {
	Path         string `json:"path"`
	Bytes        int    `json:"bytes"`
	SpeakerLinks int    `json:"speaker_links"`
	Summary
}

// RenderHTML writes the HTML listing of the archive. Every speaker in the
// speaker-link table must appear in the archive.
func RenderHTML(ctx context.Context, env *Env, input RenderHTMLInput) (*RenderHTMLOutput, error) {
	source := env.path(input.XMLPath, env.Config.XMLFile)
	readmePath := env.path(input.ReadmePath, env.Config.ReadmeFile)
	linksPath := env.path(input.LinksPath, env.Config.SpeakerLinksFile)
	out := env.path(input.OutputPath, env.Config.HTMLFile)

	if err := checkOutputPath(out, ".html", source, readmePath, linksPath); err != nil {
		return nil, err
	}
	if err := checkContext(ctx, ActionMeetingsHTML); err != nil {
		return nil, err
	}
	unlock, err := lockArchive(env, ActionMeetingsHTML)
	if err != nil {
		return nil, err
	}
	defer unlock()

	archive, err := readArchive(source)
	if err != nil {
		return nil, err
	}
	readme, err := readFile(readmePath)
	if err != nil {
		return nil, err
	}
	table, err := links.Load(linksPath)
	if err != nil {
		return nil, err
	}
	if err := table.Validate(archive); err != nil {
		return nil, err
	}
	if err := checkContext(ctx, ActionMeetingsHTML); err != nil {
		return nil, err
	}

	r, err := render.New(render.Options{
		Title:     env.Config.SiteTitle,
		SourceURL: env.Config.SourceURL,
		Links:     table,
	})
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, archive, string(readme)); err != nil {
		return nil, err
	}

	if err := writeFileAtomic(out, buf.Bytes()); err != nil {
		return nil, err
	}

	summary := summarize(archive)
	env.Logger.Info("rendered listing", "path", out, "bytes", buf.Len(),
		"meetings", summary.Meetings, "speaker_links", len(table.Speakers))
	return &RenderHTMLOutput{
		Path:         out,
		Bytes:        buf.Len(),
		SpeakerLinks: len(table.Speakers),
		Summary:      summary,
	}, nil
}
