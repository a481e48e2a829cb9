package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pkgsrc/internal/config"
	"pkgsrc/internal/paths"
)

var configFormat string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage pkgsrc configuration",
	Long:  "View pkgsrc configuration stored in .pkgsrc/config.json",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the effective configuration after defaults and PKGSRC_*
environment overrides.

Examples:
  pkgsrc config show
  pkgsrc config show --format=yaml`,
	RunE: runConfigShow,
}

var configEnvCmd = &cobra.Command{
	Use:   "env",
	Short: "List supported environment variables",
	Long:  "Display all supported PKGSRC_* environment variable overrides",
	Run:   runConfigEnv,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration",
	Long:  "Create .pkgsrc/config.json with default values unless it already exists",
	RunE:  runConfigInit,
}

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "human", "Output format (human, json, yaml, toml)")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEnvCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	format, err := ParseFormat(configFormat)
	if err != nil {
		return err
	}

	root, err := getProjectRoot()
	if err != nil {
		return err
	}

	result, err := config.LoadConfigWithDetails(root)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	resp := &ConfigShowResponse{
		ConfigPath:   result.ConfigPath,
		UsedDefaults: result.ConfigPath == "",
		EnvOverrides: result.EnvOverrides,
		Config:       result.Config,
	}

	out, err := FormatResponse(resp, format)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func runConfigEnv(cmd *cobra.Command, args []string) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "Supported environment variables:")
	for _, name := range config.GetSupportedEnvVars() {
		if val, ok := os.LookupEnv(name); ok {
			fmt.Fprintf(w, "  %-28s = %s\n", name, val)
		} else {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "PKGSRC_CONFIG_PATH replaces the config file location.")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	root, err := getProjectRoot()
	if err != nil {
		return err
	}

	result, err := config.LoadConfigWithDetails(root)
	if err != nil {
		return err
	}
	if result.ConfigPath != "" {
		return fmt.Errorf("config already exists at %s", result.ConfigPath)
	}

	if err := config.DefaultConfig().Save(root); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Wrote", paths.ConfigPath(root))
	return nil
}
