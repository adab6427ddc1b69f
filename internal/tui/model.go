package tui

import (
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/donghojung/csvclip/internal/clipboard"
	"github.com/donghojung/csvclip/internal/config"
	"github.com/donghojung/csvclip/internal/constants"
	"github.com/donghojung/csvclip/internal/history"
	"github.com/donghojung/csvclip/internal/logging"
	"github.com/donghojung/csvclip/internal/rows"
	"github.com/donghojung/csvclip/internal/state"
	"github.com/donghojung/csvclip/internal/watcher"
)

// focusPane is the pane that receives keyboard input.
type focusPane int

const (
	focusList   focusPane = iota // Row list
	focusQuery                   // Search input
	focusEditor                  // Editor buffer
)

const focusPaneCount = 3

// Options configures the TUI.
type Options struct {
	Config    *config.Config
	Mode      rows.Mode
	WorkDir   string // Start directory for the picker and base for relative drops
	Path      string // File to import on start ("" for none)
	Watch     bool   // Re-import the loaded file when it changes on disk
	Clipboard clipboard.Writer
	IsDark    bool
	Zones     *zone.Manager  // Mouse zones; nil falls back to layout math
	History   *history.Store // Records successful imports; nil disables
}

// Model is the csvclip main screen.
type Model struct {
	state  *state.State
	keys   keyMap
	help   help.Model
	query  textinput.Model
	editor textarea.Model
	picker *FilePicker

	cfg      *config.Config
	mode     rows.Mode
	workDir  string
	path     string // Absolute path of the loaded file
	initPath string
	clip     clipboard.Writer
	zones    *zone.Manager
	recent   *history.Store

	watch   bool
	watcher *watcher.Watcher

	focus        focusPane
	editorCapped bool // Buffer has more lines than the textarea holds
	cursor       int  // Highlighted visible position
	offset       int  // First visible position on screen

	colors ThemeColors
	isDark bool
	width  int
	height int
	layout layout

	styles styles
}

// layout holds the geometry computed from the window size.
type layout struct {
	listTop      int
	listHeight   int
	listWidth    int
	editorTop    int
	editorLeft   int
	editorWidth  int
	editorHeight int
	stacked      bool
}

type styles struct {
	title     lipgloss.Style
	dim       lipgloss.Style
	badge     lipgloss.Style
	group     lipgloss.Style
	chip      lipgloss.Style
	chipOn    lipgloss.Style
	row       lipgloss.Style
	rowCursor lipgloss.Style
	rowPicked lipgloss.Style
	pane      lipgloss.Style
	paneOn    lipgloss.Style
	button    lipgloss.Style
	errorText lipgloss.Style
	infoText  lipgloss.Style
}

func newStyles(c ThemeColors) styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(c.Accent),
		dim:       lipgloss.NewStyle().Foreground(c.TextDim),
		badge:     lipgloss.NewStyle().Bold(true).Foreground(c.SuccessColor),
		group:     lipgloss.NewStyle().Foreground(c.Group),
		chip:      lipgloss.NewStyle().Foreground(c.TextDim).Padding(0, 1),
		chipOn:    lipgloss.NewStyle().Bold(true).Foreground(c.TextInverted).Background(c.Accent).Padding(0, 1),
		row:       lipgloss.NewStyle().Foreground(c.TextNormal),
		rowCursor: lipgloss.NewStyle().Bold(true).Foreground(c.Accent),
		rowPicked: lipgloss.NewStyle().Foreground(c.TextBright).Background(c.Selection),
		pane:      lipgloss.NewStyle().Bold(true).Foreground(c.TextDim),
		paneOn:    lipgloss.NewStyle().Bold(true).Foreground(c.BorderFocused),
		button:    lipgloss.NewStyle().Foreground(c.Accent),
		errorText: lipgloss.NewStyle().Foreground(c.ErrorColor),
		infoText:  lipgloss.NewStyle().Foreground(c.WarningColor),
	}
}

// New creates the main screen model.
func New(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	colors := NewThemeColors(opts.IsDark)

	qi := textinput.New()
	qi.Prompt = "/ "
	qi.Placeholder = "Filter rows..."
	qi.CharLimit = constants.QueryCharLimit
	qi.PromptStyle = lipgloss.NewStyle().Foreground(colors.Accent)

	ta := textarea.New()
	ta.Placeholder = "Selected rows are appended here. Type to edit."
	ta.CharLimit = 0 // No limit
	ta.MaxHeight = 0
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()

	h := help.New()

	m := &Model{
		state:    state.New(),
		keys:     defaultKeyMap(),
		help:     h,
		query:    qi,
		editor:   ta,
		cfg:      cfg,
		mode:     opts.Mode,
		workDir:  opts.WorkDir,
		initPath: opts.Path,
		clip:     opts.Clipboard,
		zones:    opts.Zones,
		recent:   opts.History,
		watch:    opts.Watch,
		colors:   colors,
		isDark:   opts.IsDark,
		width:    80,
		height:   24,
		styles:   newStyles(colors),
	}
	m.computeLayout()
	return m
}

// State exposes the view state (read-only use).
func (m *Model) State() *state.State {
	return m.state
}

// Init imports the start file, if any.
func (m *Model) Init() tea.Cmd {
	if m.initPath == "" {
		return nil
	}
	return m.importCmd(m.initPath, m.mode)
}

// Close releases the watcher.
func (m *Model) Close() {
	m.stopWatcher()
}

// Messages

type importedMsg struct {
	path string
	coll rows.Collection
	err  error
}

type copyResultMsg struct {
	err error
}

type copiedExpiredMsg struct {
	gen int
}

type fileChangedMsg struct {
	path string
}

type watchErrorMsg struct {
	path string
	err  error
}

// Commands

func (m *Model) importOptions() []rows.Option {
	return []rows.Option{rows.WithDefaultGroup(m.cfg.DefaultGroup)}
}

func (m *Model) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || m.workDir == "" {
		return path
	}
	return filepath.Join(m.workDir, path)
}

func (m *Model) importCmd(path string, mode rows.Mode) tea.Cmd {
	path = m.resolve(path)
	opts := m.importOptions()
	return func() tea.Msg {
		coll, err := rows.ImportFile(path, mode, opts...)
		return importedMsg{path: path, coll: coll, err: err}
	}
}

func (m *Model) copyCmd(text string) tea.Cmd {
	clip := m.clip
	return func() tea.Msg {
		if clip == nil {
			return copyResultMsg{err: clipboard.ErrUnsupported}
		}
		return copyResultMsg{err: clip.WriteAll(text)}
	}
}

func (m *Model) copiedExpireCmd(gen int) tea.Cmd {
	flash := m.cfg.CopiedFlash.Std()
	if flash <= 0 {
		flash = constants.CopiedFlashDuration
	}
	return tea.Tick(flash, func(time.Time) tea.Msg {
		return copiedExpiredMsg{gen: gen}
	})
}

// waitForWatchCmd blocks until w reports a change or an error.
func waitForWatchCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		select {
		case _, ok := <-w.Changes():
			if !ok {
				return nil
			}
			return fileChangedMsg{path: w.Path()}
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			return watchErrorMsg{path: w.Path(), err: err}
		}
	}
}

// startWatcher watches path, replacing any previous watcher.
func (m *Model) startWatcher(path string) tea.Cmd {
	if !m.watch {
		return nil
	}
	if m.watcher != nil && m.watcher.Path() == path {
		return nil
	}
	m.stopWatcher()

	w, err := watcher.New(path, watcher.WithDebounce(m.cfg.WatchDebounce.Std()))
	if err != nil {
		logging.Warn("watch %s: %v", path, err)
		m.state.SetNotice("Not watching " + filepath.Base(path) + ": " + err.Error())
		return nil
	}
	m.watcher = w
	return waitForWatchCmd(w)
}

// rememberFile records path in the recent-files history.
func (m *Model) rememberFile(path string) {
	if m.recent == nil {
		return
	}
	if err := m.recent.Add(path); err != nil {
		logging.Warn("record recent file %s: %v", path, err)
	}
}

func (m *Model) stopWatcher() {
	if m.watcher == nil {
		return
	}
	if err := m.watcher.Close(); err != nil {
		logging.Debug("close watcher: %v", err)
	}
	m.watcher = nil
}
