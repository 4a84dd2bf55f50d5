package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// isTerminal returns true if stdout is an interactive terminal.
func isTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// printBanner displays a short usage note when run interactively without args.
func printBanner() {
	fmt.Println(`
  Trinity Mathematical Society meetings archive

  Usage: meetings [--dir DIR] <command> [options]
         meetings --help

  Commands: text-to-xml, reformat-xml, check-xml, speaker-counts,
            speaker-dates, meetings-html, meetings-text`)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := newCLIApp(os.Stdout, os.Stderr)
	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
