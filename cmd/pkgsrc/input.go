package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pkgsrc/internal/lookup"
)

// inputFlags are the editor-facing flags shared by open and extract.
type inputFlags struct {
	file      string
	line      int
	selection string
	stdin     bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.file, "file", "", "Document the reference was taken from")
	cmd.Flags().IntVar(&f.line, "line", 0, "1-based cursor line within the document")
	cmd.Flags().StringVar(&f.selection, "selection", "", "Selected text")
	cmd.Flags().BoolVar(&f.stdin, "stdin", false, "Read the document from stdin")
}

// build assembles a lookup.Input. Positional args are appended to the
// selection, one per line.
func (f *inputFlags) build(args []string, stdin io.Reader) (lookup.Input, error) {
	in := lookup.Input{
		Selection: f.selection,
		Kind:      lookup.KindForPath(f.file),
		Path:      f.file,
	}
	if len(args) > 0 {
		parts := append([]string{}, args...)
		if in.Selection != "" {
			parts = append([]string{in.Selection}, parts...)
		}
		in.Selection = strings.Join(parts, "\n")
	}

	switch {
	case f.file != "":
		data, err := os.ReadFile(f.file)
		if err != nil {
			return in, fmt.Errorf("failed to read %s: %w", f.file, err)
		}
		in.Document = string(data)
	case f.stdin:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return in, fmt.Errorf("failed to read stdin: %w", err)
		}
		in.Document = string(data)
	}

	if f.line > 0 {
		in.Line = lineAt(in.Document, f.line)
	}
	return in, nil
}

// lineAt returns the n-th (1-based) line of doc, or "" when out of range.
func lineAt(doc string, n int) string {
	lines := strings.Split(doc, "\n")
	if n < 1 || n > len(lines) {
		return ""
	}
	return strings.TrimSuffix(lines[n-1], "\r")
}
