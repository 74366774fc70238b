// Package remover deletes selected node_modules directories and reports the outcome.
package remover

import (
	"fmt"
	"io"
	"log/slog"

	"charm.land/lipgloss/v2"
	"github.com/taigrr/nmclean/internal/filesystem"
	"github.com/taigrr/nmclean/internal/types"
)

var (
	removedMark = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Render("✓")
	failedMark  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render("✗")
	reasonStyle = lipgloss.NewStyle().Faint(true)
)

// Service removes matches below a root, one at a time.
type Service struct {
	fileSystem *filesystem.Service
	out        io.Writer
	silent     bool
	logger     *slog.Logger

	removeTree func(path string) error
}

// New creates a remover. Status lines go to out unless silent is set.
func New(fileSystem *filesystem.Service, out io.Writer, silent bool, logger *slog.Logger) *Service {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		fileSystem: fileSystem,
		out:        out,
		silent:     silent,
		logger:     logger,
		removeTree: fileSystem.RemoveTree,
	}
}

// Remove deletes every match in selection. A failure is recorded and the
// remaining matches are still attempted; earlier removals are not rolled back.
func (s *Service) Remove(selection []types.Match) types.Summary {
	var summary types.Summary
	for _, m := range selection {
		outcome := s.removeOne(m)
		summary.Add(outcome)
		s.report(outcome)
	}

	if !s.silent && len(selection) > 0 {
		fmt.Fprintln(s.out, FormatSummary(summary))
	}
	s.logger.Info("removal finished", "removed", summary.Removed, "failed", summary.Failed)
	return summary
}

func (s *Service) removeOne(m types.Match) types.Outcome {
	s.logger.Debug("removing", "path", m.Path)

	if err := s.removeTree(m.Path); err != nil {
		s.logger.Error("failed to remove", "path", m.Path, "error", err)
		return types.Outcome{Match: m, Status: types.StatusFailed, Reason: filesystem.Reason(err)}
	}

	s.logger.Info("removed", "path", m.Path)
	return types.Outcome{Match: m, Status: types.StatusRemoved}
}

func (s *Service) report(o types.Outcome) {
	if s.silent {
		return
	}
	switch o.Status {
	case types.StatusRemoved:
		lipgloss.Fprintln(s.out, removedMark+" "+o.Match.String())
	case types.StatusFailed:
		lipgloss.Fprintln(s.out, failedMark+" "+o.Match.String()+reasonStyle.Render(": "+o.Reason))
	}
}

// FormatSummary renders the one-line batch summary.
func FormatSummary(summary types.Summary) string {
	noun := "folders"
	if summary.Removed == 1 {
		noun = "folder"
	}
	line := fmt.Sprintf("Removed %d node_modules %s", summary.Removed, noun)
	if summary.Failed > 0 {
		line += fmt.Sprintf(", %d failed", summary.Failed)
	}
	return line
}
