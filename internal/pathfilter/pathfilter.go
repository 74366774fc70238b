// Package pathfilter decides which paths the scanner may visit.
package pathfilter

import (
	"path"
	"strings"

	"github.com/IGLOU-EU/go-wildcard"
	"github.com/taigrr/nmclean/internal/types"
)

// PathFilter skips paths matching any configured exclude pattern.
type PathFilter struct {
	excludePatterns []string
}

// New creates a new PathFilter with the given configuration.
func New(config *types.PathFilterConfig) *PathFilter {
	pf := &PathFilter{}
	if config == nil {
		return pf
	}

	for _, pattern := range config.ExcludePatterns {
		pattern = normalize(strings.TrimSpace(pattern))
		pattern = strings.TrimSuffix(pattern, "/")
		if pattern == "" {
			continue
		}
		pf.excludePatterns = append(pf.excludePatterns, pattern)
	}

	return pf
}

// normalize converts Windows separators so patterns and paths compare the same way.
func normalize(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// IsAllowed reports whether a root-relative path may be visited.
// A pattern matches either the whole relative path or its last element.
func (pf *PathFilter) IsAllowed(relPath string) bool {
	normalizedPath := strings.TrimPrefix(normalize(relPath), "./")
	base := path.Base(normalizedPath)

	for _, pattern := range pf.excludePatterns {
		if wildcard.Match(pattern, normalizedPath) || wildcard.Match(pattern, base) {
			return false
		}
	}

	return true
}

// Patterns returns the active exclude patterns.
func (pf *PathFilter) Patterns() []string {
	return append([]string(nil), pf.excludePatterns...)
}
