package types

// TargetName is the directory name the scanner looks for.
const TargetName = "node_modules"

// Match is a node_modules directory found during a scan.
type Match struct {
	Path    string `json:"path"`    // absolute
	RelPath string `json:"relPath"` // slash-separated, relative to the scan root
	Depth   int    `json:"depth"`
	Symlink bool   `json:"symlink,omitempty"`
}

// String returns the label shown to the operator.
func (m Match) String() string {
	if m.RelPath != "" {
		return m.RelPath
	}
	return m.Path
}
