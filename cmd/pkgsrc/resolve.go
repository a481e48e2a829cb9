package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resolveFormat string

var resolveCmd = &cobra.Command{
	Use:   "resolve <name>",
	Short: "Resolve a module name to its repository URL",
	Long: `Resolve a bare module name without extracting, picking or opening.

Examples:
  pkgsrc resolve fs
  pkgsrc resolve lodash/map
  pkgsrc resolve @babel/core --format=json`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveFormat, "format", "human", "Output format (human, json, yaml, toml)")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	format, err := ParseFormat(resolveFormat)
	if err != nil {
		return err
	}

	s, err := loadSession(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := newContext()
	defer cancel()

	res, err := s.newResolver().Resolve(ctx, args[0])
	if err != nil {
		return err
	}

	out, err := FormatResponse(res, format)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
