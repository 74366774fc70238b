package types

// DefaultMaxDepth is the scan depth used when none is configured.
const DefaultMaxDepth = 2

// SearchConfig controls a single cleaning run.
type SearchConfig struct {
	Root        string   `json:"root"`
	MaxDepth    int      `json:"maxDepth"`
	Interactive bool     `json:"interactive,omitempty"`
	Silent      bool     `json:"silent,omitempty"`
	Exclude     []string `json:"exclude,omitempty"`
}
