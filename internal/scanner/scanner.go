// Package scanner finds node_modules directories below a root up to a bounded depth.
package scanner

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/taigrr/nmclean/internal/filesystem"
	"github.com/taigrr/nmclean/internal/pathfilter"
	"github.com/taigrr/nmclean/internal/types"
)

// ErrNegativeDepth is returned when Scan is called with a depth below zero.
var ErrNegativeDepth = errors.New("max depth must not be negative")

// Service scans a single root directory.
type Service struct {
	fileSystem *filesystem.Service
	pathFilter *pathfilter.PathFilter
	logger     *slog.Logger
}

// New creates a new scanner Service rooted at rootPath.
func New(rootPath string, pf *pathfilter.PathFilter, logger *slog.Logger) *Service {
	if pf == nil {
		pf = pathfilter.New(nil)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		fileSystem: filesystem.New(rootPath),
		pathFilter: pf,
		logger:     logger,
	}
}

// Root returns the absolute scan root.
func (s *Service) Root() string {
	return s.fileSystem.Root()
}

type frame struct {
	path    string
	depth   int
	symlink bool
}

// Scan walks the tree depth-first in lexical order and returns every node_modules
// directory at depth <= maxDepth. Matched directories are not descended into,
// and symlinks are never followed.
func (s *Service) Scan(maxDepth int) ([]types.Match, error) {
	if maxDepth < 0 {
		return nil, ErrNegativeDepth
	}
	if err := s.fileSystem.ValidateRoot(); err != nil {
		return nil, err
	}

	root := s.fileSystem.Root()
	s.logger.Debug("scan started", "root", root, "maxDepth", maxDepth, "exclude", s.pathFilter.Patterns())
	var matches []types.Match

	stack := []frame{{path: root}}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if current.path != root && filepath.Base(current.path) == types.TargetName {
			matches = append(matches, types.Match{
				Path:    current.path,
				RelPath: s.fileSystem.RelPath(current.path),
				Depth:   current.depth,
				Symlink: current.symlink,
			})
			continue
		}
		if current.depth >= maxDepth {
			continue
		}

		entries, err := os.ReadDir(current.path)
		if err != nil {
			s.logger.Warn("skipping unreadable directory",
				"path", current.path,
				"error", filesystem.Reason(err))
			// ReadDir may still return the entries it read before failing.
		}

		children := s.children(current, entries)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}

	s.logger.Debug("scan complete", "root", root, "maxDepth", maxDepth, "matches", len(matches))
	return matches, nil
}

// children returns the entries of a directory that the scan should visit, in order.
func (s *Service) children(parent frame, entries []fs.DirEntry) []frame {
	var out []frame
	for _, entry := range entries {
		childPath := filepath.Join(parent.path, entry.Name())
		if !s.pathFilter.IsAllowed(s.fileSystem.RelPath(childPath)) {
			s.logger.Debug("excluded", "path", childPath)
			continue
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			if entry.Name() != types.TargetName {
				continue
			}
			if !s.fileSystem.IsDirectory(childPath) {
				s.logger.Debug("skipping symlink that does not point to a directory", "path", childPath)
				continue
			}
			out = append(out, frame{path: childPath, depth: parent.depth + 1, symlink: true})
			continue
		}

		if !entry.IsDir() {
			continue
		}
		out = append(out, frame{path: childPath, depth: parent.depth + 1})
	}
	return out
}
