// Package cleaner runs the scan, select, and remove pipeline.
package cleaner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/taigrr/nmclean/internal/filesystem"
	"github.com/taigrr/nmclean/internal/pathfilter"
	"github.com/taigrr/nmclean/internal/remover"
	"github.com/taigrr/nmclean/internal/scanner"
	"github.com/taigrr/nmclean/internal/selector"
	"github.com/taigrr/nmclean/internal/types"
)

// ErrDeletionFailed is returned when at least one selected match could not be removed.
var ErrDeletionFailed = errors.New("deletion failed")

// State is a step of a run. A run only moves forward.
type State int

const (
	StateIdle State = iota
	StateScanning
	StateSelecting
	StateRemoving
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateSelecting:
		return "selecting"
	case StateRemoving:
		return "removing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Cleaner executes one run for a SearchConfig.
type Cleaner struct {
	cfg     types.SearchConfig
	chooser selector.Chooser
	out     io.Writer
	logger  *slog.Logger

	fileSystem *filesystem.Service
	scanner    *scanner.Service
	remover    *remover.Service
	state      State
}

// New creates a Cleaner. The chooser is only consulted in interactive mode.
func New(cfg types.SearchConfig, chooser selector.Chooser, out io.Writer, logger *slog.Logger) *Cleaner {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("root", cfg.Root)

	fileSystem := filesystem.New(cfg.Root)
	pf := pathfilter.New(&types.PathFilterConfig{ExcludePatterns: cfg.Exclude})

	return &Cleaner{
		cfg:        cfg,
		chooser:    chooser,
		out:        out,
		logger:     logger,
		fileSystem: fileSystem,
		scanner:    scanner.New(cfg.Root, pf, logger),
		remover:    remover.New(fileSystem, out, cfg.Silent, logger),
	}
}

// State returns the current pipeline state.
func (c *Cleaner) State() State {
	return c.state
}

func (c *Cleaner) enter(next State) {
	c.logger.Debug("state change", "from", c.state, "to", next)
	c.state = next
}

// Run scans, selects, and removes. It returns filesystem.ErrInvalidRoot before
// scanning when the root is unusable, and ErrDeletionFailed after every selected
// match was attempted if any of them failed.
func (c *Cleaner) Run(ctx context.Context) (types.Summary, error) {
	if c.state != StateIdle {
		return types.Summary{}, fmt.Errorf("cleaner already ran (state %s)", c.state)
	}

	if err := c.fileSystem.ValidateRoot(); err != nil {
		c.enter(StateFailed)
		return types.Summary{}, err
	}

	c.enter(StateScanning)
	matches, err := c.scanner.Scan(c.cfg.MaxDepth)
	if err != nil {
		c.enter(StateFailed)
		return types.Summary{}, err
	}
	if len(matches) == 0 {
		c.say("No node_modules folders found.")
		c.enter(StateDone)
		return types.Summary{}, nil
	}

	c.enter(StateSelecting)
	selection, err := selector.Select(ctx, matches, c.cfg.Interactive, c.chooser)
	if err != nil {
		if !errors.Is(err, selector.ErrAborted) {
			c.enter(StateFailed)
			return types.Summary{}, err
		}
		c.logger.Info("selection aborted")
		selection = nil
	}
	if len(selection) == 0 {
		c.say(remover.FormatSummary(types.Summary{}))
		c.enter(StateDone)
		return types.Summary{}, nil
	}

	c.enter(StateRemoving)
	summary := c.remover.Remove(selection)
	c.enter(StateDone)

	if summary.Failed > 0 {
		return summary, fmt.Errorf("%w: %d of %d node_modules folders could not be removed",
			ErrDeletionFailed, summary.Failed, len(selection))
	}
	return summary, nil
}

func (c *Cleaner) say(msg string) {
	if !c.cfg.Silent {
		fmt.Fprintln(c.out, msg)
	}
}
