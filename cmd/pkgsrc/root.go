package main

import (
	"github.com/spf13/cobra"

	"pkgsrc/internal/version"
)

var (
	// verbosity is the -v count.
	verbosity int
	// quiet silences all logging.
	quiet bool
	// projectFlag overrides project root discovery.
	projectFlag string
)

var rootCmd = &cobra.Command{
	Use:   "pkgsrc",
	Short: "pkgsrc - jump from a module reference to its source repository",
	Long: `pkgsrc finds require() and import references (or package.json dependency
entries) in editor text, resolves the module to its public source repository and
opens it in the default browser.

Resolution order: Node.js built-in modules, git dependencies declared in the
project's package.json, then the npm registry with the module path shortened
one segment at a time until a repository is found.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("pkgsrc version {{.Version}}\n")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.PersistentFlags().StringVar(&projectFlag, "project", "",
		"Project root (default: nearest directory with package.json or .pkgsrc)")
}
