package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pkgsrc/internal/lookup"
)

var (
	extractInput  inputFlags
	extractFormat string
)

var extractCmd = &cobra.Command{
	Use:   "extract [reference...]",
	Short: "List module names found in editor text",
	Long: `Run only the extraction stage of open: widen from selection to line to
document and print the cleaned, deduplicated candidates.

Examples:
  pkgsrc extract --file src/app.js
  pkgsrc extract --file package.json --line 8 --format=json`,
	RunE: runExtract,
}

func init() {
	extractInput.register(extractCmd)
	extractCmd.Flags().StringVar(&extractFormat, "format", "human", "Output format (human, json, yaml, toml)")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	format, err := ParseFormat(extractFormat)
	if err != nil {
		return err
	}

	s, err := loadSession(cmd)
	if err != nil {
		return err
	}

	in, err := extractInput.build(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	engine := lookup.NewEngine(lookup.Options{Parser: s.cfg.Extract.Parser, Logger: s.logger})

	ctx, cancel := newContext()
	defer cancel()

	names, err := engine.Candidates(ctx, in)
	if err != nil {
		return err
	}

	out, err := FormatResponse(&ExtractResponse{Kind: in.Kind, Candidates: names}, format)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
