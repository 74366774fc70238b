// Package filesystem provides root-anchored file system operations.
package filesystem

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidRoot is returned when the scan root is missing, unreadable, or not a directory.
var ErrInvalidRoot = errors.New("invalid root")

// Service provides file system operations below a single root directory.
type Service struct {
	rootPath string
	remove   func(string) error
}

// New creates a new Service anchored at rootPath.
func New(rootPath string) *Service {
	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		absPath = filepath.Clean(rootPath)
	}
	return &Service{
		rootPath: absPath,
		remove:   os.Remove,
	}
}

// Root returns the absolute root path.
func (s *Service) Root() string {
	return s.rootPath
}

// ValidateRoot checks that the root exists, is a directory, and can be listed.
func (s *Service) ValidateRoot() error {
	info, err := os.Stat(s.rootPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %s", ErrInvalidRoot, s.rootPath, Reason(err))
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, s.rootPath)
	}

	f, err := os.Open(s.rootPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %s", ErrInvalidRoot, s.rootPath, Reason(err))
	}
	defer f.Close()
	if _, err := f.ReadDir(1); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %s: %s", ErrInvalidRoot, s.rootPath, Reason(err))
	}

	return nil
}

// ResolvePath resolves a relative path within the root and validates it.
func (s *Service) ResolvePath(relativePath string) (string, error) {
	relativePath = strings.TrimSpace(relativePath)
	normalizedPath := filepath.FromSlash(strings.ReplaceAll(relativePath, "\\", "/"))

	var fullPath string
	if filepath.IsAbs(normalizedPath) {
		fullPath = normalizedPath
	} else {
		fullPath = filepath.Join(s.rootPath, normalizedPath)
	}
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", err
	}

	relPath, err := filepath.Rel(s.rootPath, absPath)
	if err != nil {
		return "", err
	}
	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal not allowed: %s", relativePath)
	}

	return absPath, nil
}

// RelPath returns the slash-separated path of fullPath relative to the root.
func (s *Service) RelPath(fullPath string) string {
	rel, err := filepath.Rel(s.rootPath, fullPath)
	if err != nil {
		return filepath.ToSlash(fullPath)
	}
	return filepath.ToSlash(rel)
}

// IsDirectory reports whether fullPath is a directory, following symlinks.
func (s *Service) IsDirectory(fullPath string) bool {
	info, err := os.Stat(fullPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// RemoveTree deletes fullPath and everything below it.
// Directories are walked with an explicit stack; symlinks are removed, never followed.
func (s *Service) RemoveTree(fullPath string) error {
	if _, err := s.ResolvePath(fullPath); err != nil {
		return err
	}
	if fullPath == s.rootPath {
		return fmt.Errorf("refusing to remove root: %s", fullPath)
	}

	info, err := os.Lstat(fullPath)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return s.remove(fullPath)
	}

	// dirs collects every directory in discovery order; a child always follows its parent.
	var dirs []string
	stack := []string{fullPath}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		dirs = append(dirs, dir)

		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			child := filepath.Join(dir, entry.Name())
			if entry.IsDir() {
				stack = append(stack, child)
				continue
			}
			if err := s.remove(child); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
		}
	}

	for i := len(dirs) - 1; i >= 0; i-- {
		if err := s.remove(dirs[i]); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	return nil
}

// Reason converts a file system error into a short operator-facing reason.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, fs.ErrNotExist):
		return "not found"
	case errors.Is(err, fs.ErrPermission):
		return "permission denied"
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err.Error()
	}
	return err.Error()
}
