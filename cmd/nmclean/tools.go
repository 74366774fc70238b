package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/taigrr/nmclean/internal/types"
)

type (
	// ScanInput contains parameters for scanning the root.
	ScanInput struct {
		Depth   *int     `json:"depth,omitempty" jsonschema:"How deep to search (default: configured depth, usually 2)"`
		Exclude []string `json:"exclude,omitempty" jsonschema:"Extra wildcard patterns of paths to skip"`
	}

	// ScanOutput contains the node_modules folders found.
	ScanOutput struct {
		Root    string        `json:"root"`
		Matches []types.Match `json:"matches"`
	}

	// RemoveInput contains parameters for removing node_modules folders.
	RemoveInput struct {
		Paths   []string `json:"paths" jsonschema:"Paths returned by scan, relative to the root"`
		Depth   *int     `json:"depth,omitempty" jsonschema:"Depth used to re-check the paths (default: configured depth)"`
		Exclude []string `json:"exclude,omitempty" jsonschema:"Extra wildcard patterns of paths to skip"`
		Confirm string   `json:"confirm" jsonschema:"Must be set to 'yes' to confirm deletion"`
	}

	// RemoveOutput contains the result of a removal batch.
	RemoveOutput struct {
		Removed  int             `json:"removed"`
		Failed   int             `json:"failed"`
		Failures []types.Failure `json:"failures,omitempty"`
	}
)

func registerTools(server *mcp.Server, h *toolHandlers) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "scan",
		Description: "List node_modules folders below the root up to a depth. Matched folders are not searched further and symlinks are not followed.",
	}, h.handleScan)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "remove",
		Description: "Remove node_modules folders previously reported by scan. Requires confirm='yes'. Paths that a fresh scan does not report are refused.",
	}, h.handleRemove)
}
