// Package config handles csvclip configuration loading and validation.
//
// Configuration follows the XDG Base Directory specification:
//
//	~/.config/csvclip/config.yaml
//
// The file holds user preferences only. csvclip reads it and never writes it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/donghojung/csvclip/internal/constants"
)

// ErrInvalid is returned when a config value is not allowed.
var ErrInvalid = errors.New("invalid config")

// Theme selects light or dark styling.
type Theme string

const (
	ThemeAuto  Theme = "auto"  // Detect from the terminal background
	ThemeDark  Theme = "dark"  // Force dark palette
	ThemeLight Theme = "light" // Force light palette
)

// ClipboardBackend selects how text reaches the clipboard.
type ClipboardBackend string

const (
	ClipboardAuto   ClipboardBackend = "auto"   // System clipboard, OSC 52 when unavailable
	ClipboardSystem ClipboardBackend = "system" // xclip/xsel/pbcopy/clip.exe only
	ClipboardOSC52  ClipboardBackend = "osc52"  // Terminal escape sequence only
)

// Duration is a time.Duration that reads Go duration strings ("1.2s") from YAML.
type Duration time.Duration

// UnmarshalYAML accepts "1200ms"-style strings or plain integers (milliseconds).
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("%w: duration: %v", ErrInvalid, err)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		ms, convErr := strconv.ParseInt(raw, 10, 64)
		if convErr != nil {
			return fmt.Errorf("%w: duration %q", ErrInvalid, raw)
		}
		parsed = time.Duration(ms) * time.Millisecond
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML writes the duration in Go notation.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the top-level csvclip configuration.
type Config struct {
	Theme         Theme            `yaml:"theme,omitempty"`
	Mode          string           `yaml:"mode,omitempty"`          // auto, plain, grouped
	DefaultGroup  string           `yaml:"default_group,omitempty"` // Label for rows without a group
	CopiedFlash   Duration         `yaml:"copied_flash,omitempty"`
	Clipboard     ClipboardBackend `yaml:"clipboard,omitempty"`
	Watch         bool             `yaml:"watch,omitempty"`
	RememberFiles bool             `yaml:"remember_files,omitempty"` // Keep a recent-files list across runs
	WatchDebounce Duration         `yaml:"watch_debounce,omitempty"`
	LogFile       string           `yaml:"log_file,omitempty"`
	LogLevel      string           `yaml:"log_level,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Theme:         ThemeAuto,
		Mode:          "auto",
		DefaultGroup:  constants.DefaultGroup,
		CopiedFlash:   Duration(constants.CopiedFlashDuration),
		Clipboard:     ClipboardAuto,
		WatchDebounce: Duration(constants.WatchDebounceDuration),
		LogLevel:      "info",
	}
}

// Dir returns the XDG config directory for csvclip.
func Dir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, constants.AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", constants.AppName)
}

// Path returns the full path to config.yaml, or "" if no home is known.
func Path() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, constants.ConfigFileName)
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (*Config, error) {
	path := Path()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path. A missing file yields defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config content on top of the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if errors.Is(err, ErrInvalid) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize trims string fields and restores defaults for blank values.
func (c *Config) normalize() {
	def := DefaultConfig()
	c.Theme = Theme(strings.ToLower(strings.TrimSpace(string(c.Theme))))
	if c.Theme == "" {
		c.Theme = def.Theme
	}
	c.Mode = strings.ToLower(strings.TrimSpace(c.Mode))
	if c.Mode == "" {
		c.Mode = def.Mode
	}
	c.DefaultGroup = strings.Join(strings.Fields(c.DefaultGroup), " ")
	if c.DefaultGroup == "" {
		c.DefaultGroup = def.DefaultGroup
	}
	c.Clipboard = ClipboardBackend(strings.ToLower(strings.TrimSpace(string(c.Clipboard))))
	if c.Clipboard == "" {
		c.Clipboard = def.Clipboard
	}
	if c.CopiedFlash <= 0 {
		c.CopiedFlash = def.CopiedFlash
	}
	if c.WatchDebounce <= 0 {
		c.WatchDebounce = def.WatchDebounce
	}
	c.LogFile = strings.TrimSpace(c.LogFile)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}

// Validate reports the first disallowed value.
func (c *Config) Validate() error {
	switch c.Theme {
	case ThemeAuto, ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("%w: theme %q (want auto, dark or light)", ErrInvalid, c.Theme)
	}
	switch c.Mode {
	case "auto", "plain", "grouped":
	default:
		return fmt.Errorf("%w: mode %q (want auto, plain or grouped)", ErrInvalid, c.Mode)
	}
	switch c.Clipboard {
	case ClipboardAuto, ClipboardSystem, ClipboardOSC52:
	default:
		return fmt.Errorf("%w: clipboard %q (want auto, system or osc52)", ErrInvalid, c.Clipboard)
	}
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	if c.DefaultGroup == "" {
		return fmt.Errorf("%w: default_group must not be blank", ErrInvalid)
	}
	return nil
}
