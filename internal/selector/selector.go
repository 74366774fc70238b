// Package selector decides which scanned matches are removed.
package selector

import (
	"context"
	"errors"

	"github.com/taigrr/nmclean/internal/types"
)

// ErrAborted is returned when the operator cancels the selection.
var ErrAborted = errors.New("selection aborted")

// Chooser asks an operator which matches to remove.
type Chooser interface {
	Choose(ctx context.Context, matches []types.Match) ([]types.Match, error)
}

// ChooserFunc adapts a function to the Chooser interface.
type ChooserFunc func(ctx context.Context, matches []types.Match) ([]types.Match, error)

// Choose calls f.
func (f ChooserFunc) Choose(ctx context.Context, matches []types.Match) ([]types.Match, error) {
	return f(ctx, matches)
}

// Select returns the matches to remove. Without interactive mode every match is
// selected. In interactive mode the chooser decides, and the result is always a
// subsequence of matches in their original order.
func Select(ctx context.Context, matches []types.Match, interactive bool, chooser Chooser) ([]types.Match, error) {
	if !interactive || len(matches) == 0 {
		return matches, nil
	}
	if chooser == nil {
		return nil, errors.New("interactive selection requires a chooser")
	}

	chosen, err := chooser.Choose(ctx, matches)
	if err != nil {
		if errors.Is(err, ErrAborted) || errors.Is(err, context.Canceled) {
			return nil, ErrAborted
		}
		return nil, err
	}

	return project(matches, chosen), nil
}

// project keeps the entries of matches whose path appears in chosen.
func project(matches, chosen []types.Match) []types.Match {
	keep := make(map[string]bool, len(chosen))
	for _, m := range chosen {
		keep[m.Path] = true
	}

	selected := make([]types.Match, 0, len(chosen))
	for _, m := range matches {
		if keep[m.Path] {
			selected = append(selected, m)
			delete(keep, m.Path)
		}
	}
	return selected
}
