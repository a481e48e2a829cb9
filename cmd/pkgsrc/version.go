package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pkgsrc/internal/version"
)

var versionFormat string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := ParseFormat(versionFormat)
		if err != nil {
			return err
		}
		out, err := FormatResponse(&VersionResponse{
			Version:   version.Version,
			Commit:    version.Commit,
			BuildDate: version.BuildDate,
		}, format)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "human", "Output format (human, json, yaml, toml)")
	rootCmd.AddCommand(versionCmd)
}
