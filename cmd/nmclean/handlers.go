package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/taigrr/nmclean/internal/filesystem"
	"github.com/taigrr/nmclean/internal/pathfilter"
	"github.com/taigrr/nmclean/internal/remover"
	"github.com/taigrr/nmclean/internal/scanner"
	"github.com/taigrr/nmclean/internal/selector"
	"github.com/taigrr/nmclean/internal/types"
)

type toolHandlers struct {
	defaults   types.SearchConfig
	fileSystem *filesystem.Service
	logger     *slog.Logger
}

func newToolHandlers(defaults types.SearchConfig, logger *slog.Logger) *toolHandlers {
	return &toolHandlers{
		defaults:   defaults,
		fileSystem: filesystem.New(defaults.Root),
		logger:     logger,
	}
}

func (h *toolHandlers) scan(depth *int, exclude []string) ([]types.Match, error) {
	maxDepth := h.defaults.MaxDepth
	if depth != nil {
		maxDepth = *depth
	}
	pf := pathfilter.New(&types.PathFilterConfig{
		ExcludePatterns: append(append([]string(nil), h.defaults.Exclude...), exclude...),
	})
	return scanner.New(h.fileSystem.Root(), pf, h.logger).Scan(maxDepth)
}

func (h *toolHandlers) handleScan(ctx context.Context, req *mcp.CallToolRequest, input ScanInput) (*mcp.CallToolResult, ScanOutput, error) {
	matches, err := h.scan(input.Depth, input.Exclude)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, ScanOutput{}, err
	}
	if matches == nil {
		matches = []types.Match{}
	}

	return nil, ScanOutput{
		Root:    h.fileSystem.Root(),
		Matches: matches,
	}, nil
}

func (h *toolHandlers) handleRemove(ctx context.Context, req *mcp.CallToolRequest, input RemoveInput) (*mcp.CallToolResult, RemoveOutput, error) {
	if input.Confirm != "yes" {
		return &mcp.CallToolResult{IsError: true}, RemoveOutput{},
			fmt.Errorf("deletion not confirmed: set confirm='yes' to proceed")
	}
	if len(input.Paths) == 0 {
		return &mcp.CallToolResult{IsError: true}, RemoveOutput{},
			fmt.Errorf("no paths given")
	}

	matches, err := h.scan(input.Depth, input.Exclude)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, RemoveOutput{}, err
	}

	known := make(map[string]types.Match, len(matches))
	for _, m := range matches {
		known[m.Path] = m
	}

	var requested []types.Match
	var rejected []types.Failure
	for _, p := range input.Paths {
		p = strings.TrimSpace(p)
		fullPath, err := h.fileSystem.ResolvePath(p)
		if err != nil {
			rejected = append(rejected, types.Failure{Path: p, Reason: err.Error()})
			continue
		}
		m, ok := known[fullPath]
		if !ok {
			rejected = append(rejected, types.Failure{Path: p, Reason: "not a node_modules match"})
			continue
		}
		requested = append(requested, m)
	}

	selection, err := selector.Select(ctx, matches, true, selector.ChooserFunc(
		func(context.Context, []types.Match) ([]types.Match, error) {
			return requested, nil
		}))
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, RemoveOutput{}, err
	}

	summary := remover.New(h.fileSystem, nil, true, h.logger).Remove(selection)
	for _, f := range rejected {
		summary.Add(types.Outcome{
			Match:  types.Match{RelPath: f.Path},
			Status: types.StatusFailed,
			Reason: f.Reason,
		})
	}

	return nil, RemoveOutput{
		Removed:  summary.Removed,
		Failed:   summary.Failed,
		Failures: summary.Failures,
	}, nil
}
