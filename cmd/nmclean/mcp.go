package main

import (
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"github.com/taigrr/nmclean/internal/filesystem"
	"github.com/taigrr/nmclean/internal/logging"
)

func newMCPCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp [path]",
		Short: "Serve scan and remove tools over MCP stdio",
		Long: `mcp runs a Model Context Protocol server on stdin/stdout exposing
two tools: scan, which lists node_modules folders below the root, and remove,
which deletes folders a fresh scan reports. Interactive selection is not
available over MCP.`,
		Example: `nmclean mcp ~/code`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd, args, opts)
		},
	}
}

func runServer(cmd *cobra.Command, args []string, opts *options) error {
	cfg, logCfg, err := resolveSettings(cmd, args, opts)
	if err != nil {
		return err
	}
	if err := filesystem.New(cfg.Root).ValidateRoot(); err != nil {
		return err
	}

	// stdout carries the protocol, so the console logger stays on stderr.
	logger, err := logging.New(logCfg, false, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer logger.Close()

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "nmclean",
		Version: version,
	}, nil)

	registerTools(server, newToolHandlers(cfg, logger.Logger))

	if err := server.Run(cmd.Context(), &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("error running server: %w", err)
	}

	return nil
}
