// Package main provides the entry point for the csvclip CLI.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/donghojung/csvclip/internal/app"
	"github.com/donghojung/csvclip/internal/clipboard"
	"github.com/donghojung/csvclip/internal/history"
	"github.com/donghojung/csvclip/internal/logging"
	"github.com/donghojung/csvclip/internal/tui"
)

var (
	// Version is set at build time via ldflags
	Version = "dev"
	// Commit is the git commit hash, set at build time via ldflags
	Commit = "unknown"
)

// newClipboard is swapped in tests.
var newClipboard = func(a *app.App, out io.Writer) (clipboard.Writer, error) {
	return a.Clipboard(out)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	configPath  string
	mode        string
	debug       bool
	logFile     string
	watch       bool
	last        bool
	showVersion bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "csvclip [FILE]",
		Short: "Pick rows from a CSV file and copy them to the clipboard",
		Long: `csvclip imports a CSV file, lets you filter its rows by text and group,
appends clicked rows to an editor buffer and copies the buffer to the clipboard.

Files with two columns are read as group,text pairs; anything else is read as
one line of text per record. Use --mode to force plain or grouped.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				printVersion(cmd.OutOrStdout())
				return nil
			}
			return runTUI(opts, args)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/csvclip/config.yaml)")
	pf.StringVar(&opts.mode, "mode", "", "Import mode: auto, plain or grouped")
	pf.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	pf.StringVar(&opts.logFile, "log-file", "", "Write logs to this file")

	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Re-import the file when it changes on disk")
	cmd.Flags().BoolVarP(&opts.last, "last", "l", false, "Open the most recently imported file (needs remember_files in the config)")
	cmd.Flags().BoolVarP(&opts.showVersion, "version", "v", false, "Print version information")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newRowsCmd(opts))
	cmd.AddCommand(newGroupsCmd(opts))
	cmd.AddCommand(newJoinCmd(opts))
	cmd.AddCommand(newRecentCmd(opts))
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}

// printVersion prints the version and commit information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "csvclip %s (%s)\n", Version, Commit)
}

// newApp builds the application context from the working directory and flags.
func newApp(opts *rootOptions) (*app.App, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	application, err := app.New(cwd)
	if err != nil {
		return nil, fmt.Errorf("failed to create app: %w", err)
	}
	if opts.debug {
		application.Debug = true
	}
	if err := application.LoadConfig(opts.configPath); err != nil {
		return nil, err
	}
	if err := application.SetMode(opts.mode); err != nil {
		return nil, err
	}
	return application, nil
}

// runTUI starts the interactive picker, optionally importing args[0].
func runTUI(opts *rootOptions, args []string) error {
	application, err := newApp(opts)
	if err != nil {
		return err
	}
	if err := application.SetupFileLogging(opts.logFile); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer func() { _ = application.Close() }()

	cfg := application.Config
	logging.Info("=== csvclip %s start ===", Version)
	logging.Debug("config: %s, mode: %s", application.ConfigPath, application.Mode)

	clip, err := newClipboard(application, os.Stderr)
	if err != nil {
		// The TUI still works; copy reports the failure when used.
		logging.Warn("clipboard unavailable: %v", err)
		clip = nil
	}

	path, err := startPath(application, opts, args)
	if err != nil {
		return err
	}

	return tui.Run(tui.Options{
		Config:    cfg,
		Mode:      application.Mode,
		WorkDir:   application.WorkDir,
		Path:      path,
		Watch:     opts.watch || cfg.Watch,
		Clipboard: clip,
		IsDark:    tui.DetectDarkMode(cfg.Theme),
		History:   application.History(),
	})
}

// startPath picks the file the TUI opens with: the argument, the most recent
// import with --last, or none.
func startPath(application *app.App, opts *rootOptions, args []string) (string, error) {
	switch {
	case len(args) == 1 && opts.last:
		return "", fmt.Errorf("--last cannot be combined with a FILE argument")
	case len(args) == 1:
		return application.ResolvePath(args[0]), nil
	case opts.last:
		store := application.History()
		if store == nil {
			return "", history.ErrDisabled
		}
		path, ok := store.Last()
		if !ok {
			return "", fmt.Errorf("no recent files")
		}
		return path, nil
	default:
		return "", nil
	}
}
