// Package app provides the main application context shared by the CLI commands.
package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/donghojung/csvclip/internal/clipboard"
	"github.com/donghojung/csvclip/internal/config"
	"github.com/donghojung/csvclip/internal/constants"
	"github.com/donghojung/csvclip/internal/history"
	"github.com/donghojung/csvclip/internal/logging"
	"github.com/donghojung/csvclip/internal/rows"
)

// App represents one csvclip run with its resolved settings.
type App struct {
	// Paths
	WorkDir    string // Directory relative paths and the file picker start from
	ConfigPath string // Config file that was read ("" when none is known)

	// Settings
	Config *config.Config
	Mode   rows.Mode

	// Runtime
	Debug  bool // Debug mode enabled
	Logger logging.Logger
}

// New creates an App rooted at workDir with default settings.
func New(workDir string) (*App, error) {
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	return &App{
		WorkDir: absPath,
		Config:  config.DefaultConfig(),
		Mode:    rows.ModeAuto,
		Debug:   debugFromEnv(),
		Logger:  logging.Discard(),
	}, nil
}

func debugFromEnv() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(constants.DebugEnvVar))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// LoadConfig reads the config file at path, or the XDG default when path is empty.
func (a *App) LoadConfig(path string) error {
	if path == "" {
		path = config.Path()
	}
	a.ConfigPath = path

	var (
		cfg *config.Config
		err error
	)
	if path == "" {
		cfg = config.DefaultConfig()
	} else {
		cfg, err = config.LoadFrom(path)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.Config = cfg

	mode, err := rows.ParseMode(cfg.Mode)
	if err != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}
	a.Mode = mode
	return nil
}

// SetMode overrides the configured import mode. An empty value keeps it.
func (a *App) SetMode(value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	mode, err := rows.ParseMode(value)
	if err != nil {
		return err
	}
	a.Mode = mode
	return nil
}

// SetupFileLogging opens the log file (flag value, then config) and installs
// it as the global logger. Without a log file, logging stays discarded.
func (a *App) SetupFileLogging(logFile string) error {
	if logFile == "" {
		logFile = a.Config.LogFile
	}
	if logFile == "" && a.Debug {
		logFile = a.GetLogPath()
	}
	if logFile == "" {
		return nil
	}
	if dir := filepath.Dir(logFile); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	level := logging.ParseLevel(a.Config.LogLevel)
	if a.Debug {
		level = logging.LevelTrace
	}
	logger, err := logging.NewWithLevel(logFile, level)
	if err != nil {
		return err
	}
	a.installLogger(logger)
	return nil
}

// SetupConsoleLogging logs warnings (or everything in debug mode) to w.
// Headless commands use it so the terminal is never shared with a TUI.
func (a *App) SetupConsoleLogging(w io.Writer) {
	level := logging.LevelWarn
	if a.Debug {
		level = logging.LevelTrace
	}
	a.installLogger(logging.NewConsole(w, level))
}

func (a *App) installLogger(logger logging.Logger) {
	logger.SetComponent(constants.AppName)
	a.Logger = logger
	logging.SetGlobal(logger)
}

// Close releases the logger.
func (a *App) Close() error {
	logging.SetGlobal(logging.Discard())
	if a.Logger == nil {
		return nil
	}
	return a.Logger.Close()
}

// GetLogPath returns the default log file path next to the config file.
func (a *App) GetLogPath() string {
	dir := config.Dir()
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, constants.LogFileName)
}

// History returns the recent-files store kept next to the config file. It is
// nil unless remember_files is set in the config and a config directory is known.
func (a *App) History() *history.Store {
	if a.Config == nil || !a.Config.RememberFiles {
		return nil
	}
	return historyStore()
}

// ForgetHistory removes the recent-files list whether or not remembering is on.
func (a *App) ForgetHistory() error {
	store := historyStore()
	if store == nil {
		return nil
	}
	if err := os.Remove(store.Path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func historyStore() *history.Store {
	dir := config.Dir()
	if dir == "" {
		return nil
	}
	return history.New(dir)
}

// ImportOptions returns the importer options implied by the config.
func (a *App) ImportOptions() []rows.Option {
	return []rows.Option{rows.WithDefaultGroup(a.Config.DefaultGroup)}
}

// ImportFile imports path (relative to WorkDir) with the resolved mode.
func (a *App) ImportFile(path string) (rows.Collection, error) {
	return rows.ImportFile(a.ResolvePath(path), a.Mode, a.ImportOptions()...)
}

// ResolvePath makes path absolute against WorkDir.
func (a *App) ResolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(a.WorkDir, path)
}

// Clipboard returns the configured clipboard writer. OSC 52 sequences go to out.
func (a *App) Clipboard(out io.Writer) (clipboard.Writer, error) {
	return clipboard.New(string(a.Config.Clipboard), out)
}
