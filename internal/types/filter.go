package types

// PathFilterConfig contains configuration for the path filter.
type PathFilterConfig struct {
	ExcludePatterns []string `json:"excludePatterns" yaml:"exclude"`
}
