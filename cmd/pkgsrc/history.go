package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	historyLimit  int
	historyClear  bool
	historyFormat string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently opened repositories",
	Long: `List repositories opened from this project, newest first. History is
stored in .pkgsrc/history.db and is never used to answer lookups.

Examples:
  pkgsrc history
  pkgsrc history --limit=5 --format=json
  pkgsrc history --clear`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum entries to show (0 for all)")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete all history entries")
	historyCmd.Flags().StringVar(&historyFormat, "format", "human", "Output format (human, json, yaml, toml)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	format, err := ParseFormat(historyFormat)
	if err != nil {
		return err
	}

	s, err := loadSession(cmd)
	if err != nil {
		return err
	}

	store, err := s.openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := newContext()
	defer cancel()

	resp := &HistoryResponse{}
	if historyClear {
		n, err := store.Clear(ctx)
		if err != nil {
			return err
		}
		resp.Cleared = n
	} else {
		entries, err := store.Recent(ctx, historyLimit)
		if err != nil {
			return err
		}
		resp.Entries = entries
	}

	out, err := FormatResponse(resp, format)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
