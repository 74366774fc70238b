package selector

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
	"github.com/taigrr/nmclean/internal/types"
)

// TerminalChooser prompts on a terminal with a multi-select list.
// Every match starts selected; ctrl+a toggles all of them.
type TerminalChooser struct {
	input  io.Reader
	output io.Writer
}

// NewTerminalChooser creates a chooser reading from in and drawing to out.
// Nil streams fall back to the process stdin and stdout.
func NewTerminalChooser(in io.Reader, out io.Writer) *TerminalChooser {
	return &TerminalChooser{input: in, output: out}
}

// Choose implements Chooser.
func (c *TerminalChooser) Choose(ctx context.Context, matches []types.Match) ([]types.Match, error) {
	options := make([]huh.Option[string], 0, len(matches))
	for _, m := range matches {
		options = append(options, huh.NewOption(m.String(), m.Path).Selected(true))
	}

	var picked []string
	field := huh.NewMultiSelect[string]().
		Title("Select node_modules folders to remove").
		Description(fmt.Sprintf("%d found · space toggles · ctrl+a toggles all · enter confirms", len(matches))).
		Options(options...).
		Filterable(true).
		Value(&picked)

	form := huh.NewForm(huh.NewGroup(field))
	if c.input != nil {
		form = form.WithInput(c.input)
	}
	if c.output != nil {
		form = form.WithOutput(c.output)
	}

	if err := form.RunWithContext(ctx); err != nil {
		return nil, promptError(err)
	}
	return pickedMatches(matches, picked), nil
}

// promptError maps a failed form run to the selector's error vocabulary.
func promptError(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return fmt.Errorf("selection prompt failed: %w", err)
}

// pickedMatches turns the option values returned by the form back into matches.
// Unknown paths are dropped.
func pickedMatches(matches []types.Match, picked []string) []types.Match {
	byPath := make(map[string]types.Match, len(matches))
	for _, m := range matches {
		byPath[m.Path] = m
	}
	chosen := make([]types.Match, 0, len(picked))
	for _, p := range picked {
		if m, ok := byPath[p]; ok {
			chosen = append(chosen, m)
		}
	}
	return chosen
}
