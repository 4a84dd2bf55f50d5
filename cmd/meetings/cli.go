package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/tms-archive/meetings/internal/config"
	"github.com/tms-archive/meetings/internal/errors"
	"github.com/tms-archive/meetings/internal/logging"
	"github.com/tms-archive/meetings/internal/ops"
	"github.com/tms-archive/meetings/internal/stats"
)

// newCLIApp creates the CLI application with all commands. Command results
// go to stdout as JSON; logs go to stderr.
func newCLIApp(stdout, stderr io.Writer) *cli.App {
	app := &cli.App{
		Name:      "meetings",
		Usage:     "Maintain the Trinity Mathematical Society meetings archive",
		Version:   Version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Aliases: []string{"C"}, Usage: "Archive directory (default: current directory)"},
			&cli.StringFlag{Name: "config", Usage: "Config file (default: ~/.meetings/config.json and the nearest .meetings/config.json)"},
			&cli.StringFlag{Name: "log-level", Usage: "Log level: debug|info|warn|error"},
			&cli.StringFlag{Name: "log-format", Usage: "Log format: console|json"},
		},
		Commands: []*cli.Command{
			textToXMLCmd(),
			reformatXMLCmd(),
			checkXMLCmd(),
			speakerCountsCmd(),
			speakerDatesCmd(),
			meetingsHTMLCmd(),
			meetingsTextCmd(),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// textToXMLCmd creates the text-to-xml command.
func textToXMLCmd() *cli.Command {
	return &cli.Command{
		Name:  ops.ActionTextToXML,
		Usage: "Convert the ledger to the canonical XML file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "ledger", Usage: "Ledger file (default: meetings.txt)"},
			&cli.StringFlag{Name: "titles", Usage: "Directory of <number>.title files (default: archive directory)"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file (default: meetings.xml)"},
		},
		Action: func(c *cli.Context) error {
			env, err := loadEnv(c)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.ConvertLedger(c.Context, env, ops.ConvertLedgerInput{
				LedgerPath: c.String("ledger"),
				TitleDir:   c.String("titles"),
				OutputPath: c.String("output"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// reformatXMLCmd creates the reformat-xml command.
func reformatXMLCmd() *cli.Command {
	return &cli.Command{
		Name:  ops.ActionReformatXML,
		Usage: "Read the canonical XML file and write it out again",
		Flags: []cli.Flag{
			inputFlag(),
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file (default: meetings-new.xml)"},
		},
		Action: func(c *cli.Context) error {
			env, err := loadEnv(c)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Reformat(c.Context, env, ops.ReformatInput{
				XMLPath:    c.String("input"),
				OutputPath: c.String("output"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// checkXMLCmd creates the check-xml command.
func checkXMLCmd() *cli.Command {
	return &cli.Command{
		Name:  ops.ActionCheckXML,
		Usage: "Check that the canonical XML file is in canonical form",
		Flags: []cli.Flag{inputFlag()},
		Action: func(c *cli.Context) error {
			env, err := loadEnv(c)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Check(c.Context, env, ops.CheckInput{XMLPath: c.String("input")})
			if err != nil {
				return outputError(err)
			}

			if err := outputJSON(c.App.Writer, output); err != nil {
				return err
			}
			if !output.Canonical {
				return outputError(errors.NewStructural(fmt.Sprintf(
					"%s is not in canonical form (first difference at line %d)", output.Path, output.FirstDiffLine)))
			}
			return nil
		},
	}
}

// speakerCountsCmd creates the speaker-counts command.
func speakerCountsCmd() *cli.Command {
	return &cli.Command{
		Name:  ops.ActionSpeakerCounts,
		Usage: "Count the talks given by each speaker",
		Flags: []cli.Flag{
			inputFlag(),
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file (default: speaker-counts.txt)"},
			excludeFlag(),
			tableFlag(),
		},
		Action: func(c *cli.Context) error {
			env, err := loadEnv(c)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.SpeakerCounts(c.Context, env, ops.SpeakerCountsInput{
				XMLPath:    c.String("input"),
				OutputPath: c.String("output"),
				Exclude:    c.StringSlice("exclude"),
			})
			if err != nil {
				return outputError(err)
			}

			if c.Bool("table") {
				_, err := fmt.Fprintln(c.App.Writer, stats.CountsTable(output.Counts))
				return err
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// speakerDatesCmd creates the speaker-dates command.
func speakerDatesCmd() *cli.Command {
	return &cli.Command{
		Name:  ops.ActionSpeakerDates,
		Usage: "List speakers by the range of dates over which they have spoken",
		Flags: []cli.Flag{
			inputFlag(),
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file (default: speaker-dates.txt)"},
			excludeFlag(),
			tableFlag(),
		},
		Action: func(c *cli.Context) error {
			env, err := loadEnv(c)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.SpeakerDates(c.Context, env, ops.SpeakerDatesInput{
				XMLPath:    c.String("input"),
				OutputPath: c.String("output"),
				Exclude:    c.StringSlice("exclude"),
			})
			if err != nil {
				return outputError(err)
			}

			if c.Bool("table") {
				_, err := fmt.Fprintln(c.App.Writer, stats.DatesTable(output.Ranges))
				return err
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// meetingsHTMLCmd creates the meetings-html command.
func meetingsHTMLCmd() *cli.Command {
	return &cli.Command{
		Name:  ops.ActionMeetingsHTML,
		Usage: "Generate the HTML listing of meetings",
		Flags: []cli.Flag{
			inputFlag(),
			&cli.StringFlag{Name: "readme", Usage: "README supplying the introduction (default: README)"},
			&cli.StringFlag{Name: "links", Usage: "Speaker link table (default: speaker-links.toml)"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file (default: meetings.html)"},
		},
		Action: func(c *cli.Context) error {
			env, err := loadEnv(c)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.RenderHTML(c.Context, env, ops.RenderHTMLInput{
				XMLPath:    c.String("input"),
				ReadmePath: c.String("readme"),
				LinksPath:  c.String("links"),
				OutputPath: c.String("output"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// meetingsTextCmd creates the meetings-text command.
func meetingsTextCmd() *cli.Command {
	return &cli.Command{
		Name:  ops.ActionMeetingsText,
		Usage: "Write the canonical XML file out in ledger form",
		Flags: []cli.Flag{
			inputFlag(),
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file (default: meetings-new.txt)"},
		},
		Action: func(c *cli.Context) error {
			env, err := loadEnv(c)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.LedgerText(c.Context, env, ops.LedgerTextInput{
				XMLPath:    c.String("input"),
				OutputPath: c.String("output"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// Helper functions

func inputFlag() cli.Flag {
	return &cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "Canonical XML file (default: meetings.xml)"}
}

func excludeFlag() cli.Flag {
	return &cli.StringSliceFlag{Name: "exclude", Usage: "Meeting type to ignore for statistics (repeatable)"}
}

func tableFlag() cli.Flag {
	return &cli.BoolFlag{Name: "table", Usage: "Print the statistics as a table instead of JSON"}
}

// loadEnv loads configuration for the archive directory and builds the logger.
// Flags override config values. Relative file flags are taken relative to the
// archive directory.
func loadEnv(c *cli.Context) (*ops.Env, error) {
	dir, err := archiveDir(c.String("dir"))
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig(c.String("config"), dir)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{
		Level:  pick(c.String("log-level"), cfg.LogLevel),
		Format: pick(c.String("log-format"), cfg.LogFormat),
		Output: c.App.ErrWriter,
	})
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}

	return ops.NewEnv(dir, cfg, logger), nil
}

// archiveDir returns the absolute archive directory, defaulting to the
// working directory.
func archiveDir(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.NewInternal(fmt.Errorf("failed to get working directory: %w", err))
		}
		return wd, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.NewInvalidRequest(fmt.Sprintf("invalid directory: %v", err))
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", errors.NewInvalidRequest("not a directory: " + dir)
	}
	return abs, nil
}

// loadConfig loads an explicit config file, or the global and archive
// configs when none is given.
func loadConfig(path, dir string) (*config.Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.NewNotFound(path)
		}
		cfg, err := config.LoadFile(path)
		if err != nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("failed to load config: %v", err))
		}
		return cfg, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("could not determine home directory: %w", err))
	}
	cfg, err := config.LoadWithRepo(filepath.Join(homeDir, ".meetings"), dir)
	if err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg, nil
}

// pick returns v, or def when v is blank.
func pick(v, def string) string {
	if strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

// outputJSON marshals result to w as JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if archiveErr, ok := err.(*errors.ArchiveError); ok {
		msg := archiveErr.Message
		if line, ok := archiveErr.Details["line"]; ok {
			msg = fmt.Sprintf("line %v: %s", line, msg)
		}
		return cli.Exit(fmt.Sprintf("[%s] %s", archiveErr.Code, msg), 1)
	}
	return cli.Exit(err.Error(), 1)
}
