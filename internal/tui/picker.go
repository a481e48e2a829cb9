// Package tui provides the interactive prompts used by the CLI.
package tui

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"pkgsrc/internal/lookup"
)

// PickerTitle is shown above the candidate list.
const PickerTitle = "We found multiple packages. Which one do you want to open?"

var descriptionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))

// Picker is a huh select prompt satisfying lookup.Picker.
type Picker struct {
	in         io.Reader
	out        io.Writer
	accessible bool
}

// NewPicker creates a Picker reading keys from in and drawing to out.
// Accessible mode replaces the full-screen list with a numbered prompt; use
// it when out is not a terminal.
func NewPicker(in io.Reader, out io.Writer, accessible bool) *Picker {
	return &Picker{in: in, out: out, accessible: accessible}
}

// Pick shows choices and returns the chosen label. Esc and ctrl+c report
// ok == false with a nil error.
func (p *Picker) Pick(ctx context.Context, choices []lookup.Choice) (string, bool, error) {
	if len(choices) == 0 {
		return "", false, nil
	}

	var result string
	sel := huh.NewSelect[string]().
		Title(PickerTitle).
		Options(options(choices, p.accessible)...).
		Value(&result).
		Filtering(true)

	form := huh.NewForm(huh.NewGroup(sel)).
		WithTheme(huh.ThemeBase()).
		WithAccessible(p.accessible).
		WithInput(p.in).
		WithOutput(p.out).
		WithShowHelp(true)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", false, nil
		}
		return "", false, err
	}
	return result, result != "", nil
}

// options renders each choice as "label  description", keyed by label. The
// description is matched by the filter too.
func options(choices []lookup.Choice, plain bool) []huh.Option[string] {
	opts := make([]huh.Option[string], len(choices))
	for i, c := range choices {
		desc := c.Description
		if !plain {
			desc = descriptionStyle.Render(desc)
		}
		opts[i] = huh.NewOption(c.Label+"  "+desc, c.Label)
	}
	return opts
}
