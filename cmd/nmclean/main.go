// Package main implements the nmclean command.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/taigrr/nmclean/internal/cleaner"
	"github.com/taigrr/nmclean/internal/config"
	"github.com/taigrr/nmclean/internal/logging"
	"github.com/taigrr/nmclean/internal/selector"
	"github.com/taigrr/nmclean/internal/types"
)

type options struct {
	depth       int
	interactive bool
	silent      bool
	exclude     []string
	configPath  string
	logFile     string
	logLevel    string
}

// quietError carries a failure whose details were deliberately not printed.
type quietError struct {
	err error
}

func (e quietError) Error() string { return e.err.Error() }
func (e quietError) Unwrap() error { return e.err }

func main() {
	if err := fang.Execute(
		context.Background(),
		newRootCmd(&options{}),
		fang.WithVersion(version),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
		fang.WithErrorHandler(handleError),
	); err != nil {
		os.Exit(1)
	}
}

func handleError(w io.Writer, styles fang.Styles, err error) {
	var quiet quietError
	if errors.As(err, &quiet) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

func newRootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nmclean [path]",
		Short: "Find and remove node_modules folders",
		Long: `nmclean searches a directory tree for node_modules folders, up to a
bounded depth, and removes them. A node_modules folder is never searched
for further node_modules folders, and symlinks are never followed.

The search starts in the current directory unless a path is given.`,
		Example: `nmclean
nmclean ~/code --depth 3
nmclean -i --exclude .git --exclude "archive/*"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.depth, "depth", "d", types.DefaultMaxDepth, "How deep to search for node_modules folders")
	flags.BoolVarP(&opts.interactive, "interactive", "i", false, "Choose which folders to remove")
	flags.BoolVarP(&opts.silent, "silent", "s", false, "Suppress status output")
	flags.StringSliceVarP(&opts.exclude, "exclude", "e", nil, "Wildcard pattern of paths to skip (repeatable)")

	persistent := cmd.PersistentFlags()
	persistent.StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	persistent.StringVar(&opts.logFile, "log-file", "", "Also write logs to this rotating file")
	persistent.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	cmd.AddCommand(newMCPCmd(opts))
	return cmd
}

// resolveSettings merges built-in defaults, the config file, and explicitly set flags.
func resolveSettings(cmd *cobra.Command, args []string, opts *options) (types.SearchConfig, config.Log, error) {
	var root string
	if len(args) > 0 {
		root = args[0]
	} else {
		var err error
		root, err = os.Getwd()
		if err != nil {
			return types.SearchConfig{}, config.Log{}, fmt.Errorf("failed to get current directory: %w", err)
		}
	}

	file, err := config.Load(opts.configPath)
	if err != nil {
		return types.SearchConfig{}, config.Log{}, err
	}

	cfg := file.SearchConfig(root)
	flags := cmd.Flags()
	if flags.Changed("depth") {
		if opts.depth < 0 {
			return types.SearchConfig{}, config.Log{}, fmt.Errorf("%w: depth must not be negative, got %d", config.ErrInvalidConfig, opts.depth)
		}
		cfg.MaxDepth = opts.depth
	}
	if flags.Changed("interactive") {
		cfg.Interactive = opts.interactive
	}
	if flags.Changed("silent") {
		cfg.Silent = opts.silent
	}
	cfg.Exclude = append(cfg.Exclude, opts.exclude...)

	logCfg := file.Log
	if opts.logFile != "" {
		logCfg.File = opts.logFile
	}
	if opts.logLevel != "" {
		logCfg.Level = opts.logLevel
	}

	return cfg, logCfg, nil
}

func runClean(cmd *cobra.Command, args []string, opts *options) error {
	cfg, logCfg, err := resolveSettings(cmd, args, opts)
	if err != nil {
		return err
	}

	logger, err := logging.New(logCfg, cfg.Silent, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer logger.Close()

	var chooser selector.Chooser
	if cfg.Interactive {
		chooser = selector.NewTerminalChooser(cmd.InOrStdin(), cmd.OutOrStdout())
	}

	_, err = cleaner.New(cfg, chooser, cmd.OutOrStdout(), logger.Logger).Run(cmd.Context())
	if err != nil && cfg.Silent && errors.Is(err, cleaner.ErrDeletionFailed) {
		return quietError{err: err}
	}
	return err
}
