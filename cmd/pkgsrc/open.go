package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pkgsrc/internal/browser"
	"pkgsrc/internal/lookup"
	"pkgsrc/internal/tui"
)

var (
	openInput     inputFlags
	openNoBrowser bool
	openFormat    string
)

var openCmd = &cobra.Command{
	Use:   "open [reference...]",
	Short: "Open the source repository of a referenced module",
	Long: `Find module references in the selection, the cursor line or the whole
document (in that order), ask which one to open when there are several, resolve
it and open the repository in the default browser.

Examples:
  pkgsrc open "require('lodash/map')"
  pkgsrc open --file src/app.js --line 3
  pkgsrc open --file package.json --line 12
  cat src/app.js | pkgsrc open --stdin --no-browser`,
	RunE: runOpen,
}

func init() {
	openInput.register(openCmd)
	openCmd.Flags().BoolVar(&openNoBrowser, "no-browser", false, "Print the URL without opening a browser")
	openCmd.Flags().StringVar(&openFormat, "format", "human", "Output format (human, json, yaml, toml)")
	rootCmd.AddCommand(openCmd)
}

func runOpen(cmd *cobra.Command, args []string) error {
	format, err := ParseFormat(openFormat)
	if err != nil {
		return err
	}

	s, err := loadSession(cmd)
	if err != nil {
		return err
	}

	in, err := openInput.build(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	opts := lookup.Options{
		Resolver: s.newResolver(),
		Parser:   s.cfg.Extract.Parser,
		Logger:   s.logger,
	}

	// The picker needs an interactive stdin; piped input takes the first candidate.
	if !openInput.stdin && term.IsTerminal(int(os.Stdin.Fd())) {
		opts.Picker = tui.NewPicker(os.Stdin, os.Stderr, false)
	}

	if s.cfg.Browser.Enabled && !openNoBrowser {
		opts.Opener = browser.New(cmd.ErrOrStderr(), s.logger)
	}

	if s.cfg.History.Enabled {
		store, err := s.openHistory()
		if err != nil {
			s.logger.Warn("History unavailable", "error", err.Error())
		} else {
			defer store.Close()
			opts.Recorder = store
		}
	}

	ctx, cancel := newContext()
	defer cancel()

	outcome, err := lookup.NewEngine(opts).Open(ctx, in)
	if err != nil {
		return err
	}

	out, err := FormatResponse(outcome, format)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
