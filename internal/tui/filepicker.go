package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/donghojung/csvclip/internal/constants"
	"github.com/donghojung/csvclip/internal/rows"
)

// filePickedMsg is sent when the user chooses a CSV file.
type filePickedMsg struct {
	path string
}

// filePickerClosedMsg is sent when the picker is dismissed without a choice.
type filePickerClosedMsg struct{}

// FileEntry represents a file or directory.
type FileEntry struct {
	Name  string
	Path  string
	IsDir bool
}

// FilePicker is a fuzzy-searchable picker for CSV files with directory
// navigation and a preview of the highlighted file.
type FilePicker struct {
	input            textinput.Model
	currentDir       string      // Current directory being browsed
	entries          []FileEntry // Dirs and CSV files in current directory
	searchEntries    []FileEntry // CSV files including subdirectories (for search)
	filtered         []int       // Indices into entries/searchEntries for filtered results
	useSearchEntries bool        // Whether filtered indices refer to searchEntries
	cursor           int
	colors           ThemeColors
	width            int
	height           int
	loadErr          error

	// Preview cache
	previewPath    string
	previewContent []string
	previewOffset  int

	// Layout cache (for mouse click handling)
	listStartY   int // Y position where file list starts
	listEndY     int // Y position where file list ends
	listStartIdx int // First visible item index in filtered

	styleTitle    lipgloss.Style
	styleInput    lipgloss.Style
	styleItem     lipgloss.Style
	styleDir      lipgloss.Style
	styleSelected lipgloss.Style
	styleHelp     lipgloss.Style
	styleDim      lipgloss.Style
	stylePath     lipgloss.Style
	styleError    lipgloss.Style
}

// NewFilePicker creates a file picker starting at startDir.
func NewFilePicker(startDir string, colors ThemeColors) *FilePicker {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "Type to search..."
	ti.CharLimit = 100
	ti.Width = 50
	ti.Focus()

	fp := &FilePicker{
		input:      ti,
		currentDir: startDir,
		colors:     colors,
		width:      70,
		height:     20,
	}
	fp.applyStyles()
	fp.loadDirectory()
	return fp
}

func (m *FilePicker) applyStyles() {
	c := m.colors
	m.styleTitle = lipgloss.NewStyle().Bold(true).Foreground(c.Accent)
	m.styleInput = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(c.BorderFocused).
		Padding(0, 1)
	m.styleItem = lipgloss.NewStyle().Foreground(c.TextNormal).PaddingLeft(2)
	m.styleDir = lipgloss.NewStyle().Foreground(c.Group).PaddingLeft(2)
	m.styleSelected = lipgloss.NewStyle().Foreground(c.Accent).Bold(true)
	m.styleHelp = lipgloss.NewStyle().Foreground(c.TextDim)
	m.styleDim = lipgloss.NewStyle().Foreground(c.TextDim)
	m.stylePath = lipgloss.NewStyle().Foreground(c.TextDim).Bold(true)
	m.styleError = lipgloss.NewStyle().Foreground(c.ErrorColor)
}

// SetSize sets the area available to the picker.
func (m *FilePicker) SetSize(width, height int) {
	m.width = width
	m.height = height
	inputWidth := min(50, m.width-10)
	if inputWidth > 20 {
		m.input.Width = inputWidth
	}
}

func isCSV(name string) bool {
	return rows.CheckExtension(name) == nil
}

// loadDirectory loads dirs and CSV files from the current directory.
func (m *FilePicker) loadDirectory() {
	m.entries = nil
	m.searchEntries = nil
	m.filtered = nil
	m.useSearchEntries = false
	m.cursor = 0
	m.loadErr = nil

	dirEntries, err := os.ReadDir(m.currentDir)
	if err != nil {
		m.loadErr = err
		return
	}

	var dirs, files []FileEntry
	for _, entry := range dirEntries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		fe := FileEntry{
			Name:  name,
			Path:  filepath.Join(m.currentDir, name),
			IsDir: entry.IsDir(),
		}
		switch {
		case entry.IsDir():
			dirs = append(dirs, fe)
		case isCSV(name):
			files = append(files, fe)
		}
	}

	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Name < dirs[j].Name })
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	// Dirs first, then files
	m.entries = append(dirs, files...)

	m.filtered = make([]int, len(m.entries))
	for i := range m.entries {
		m.filtered[i] = i
	}
}

// collectRecursiveFiles collects CSV files from the current directory and
// its subdirectories.
func (m *FilePicker) collectRecursiveFiles() {
	if m.searchEntries != nil {
		return
	}

	var currentFiles, subFiles []FileEntry
	for _, e := range m.entries {
		if !e.IsDir {
			currentFiles = append(currentFiles, e)
		}
	}

	_ = filepath.WalkDir(m.currentDir, func(path string, d os.DirEntry, err error) error {
		if err != nil || path == m.currentDir {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isCSV(name) {
			return nil
		}

		relPath, err := filepath.Rel(m.currentDir, path)
		if err != nil || !strings.Contains(relPath, string(filepath.Separator)) {
			return nil
		}
		subFiles = append(subFiles, FileEntry{Name: relPath, Path: path})
		return nil
	})

	sort.Slice(subFiles, func(i, j int) bool { return subFiles[i].Name < subFiles[j].Name })
	m.searchEntries = append(append([]FileEntry{}, currentFiles...), subFiles...)
}

func (m *FilePicker) enterDir(path string) {
	m.currentDir = path
	m.input.SetValue("")
	m.loadDirectory()
}

// activate opens the highlighted directory or picks the highlighted file.
func (m *FilePicker) activate() tea.Cmd {
	entry, ok := m.current()
	if !ok {
		return nil
	}
	if entry.IsDir {
		m.enterDir(entry.Path)
		return nil
	}
	path := entry.Path
	return func() tea.Msg { return filePickedMsg{path: path} }
}

// Update handles messages while the picker is open.
func (m *FilePicker) Update(msg tea.Msg) (*FilePicker, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, func() tea.Msg { return filePickerClosedMsg{} }

		case "enter":
			return m, m.activate()

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "ctrl+n":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
			return m, nil

		case "left", "ctrl+h":
			if m.input.Value() == "" {
				m.enterDir(filepath.Dir(m.currentDir))
				return m, nil
			}

		case "right", "ctrl+l":
			if entry, ok := m.current(); ok && entry.IsDir {
				m.enterDir(entry.Path)
				return m, nil
			}

		case "pgup":
			m.cursor = max(0, m.cursor-5)
			return m, nil

		case "pgdown":
			m.cursor = max(0, min(len(m.filtered)-1, m.cursor+5))
			return m, nil
		}

	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.updateFiltered()
	return m, cmd
}

func (m *FilePicker) handleMouse(msg tea.MouseMsg) tea.Cmd {
	inList := msg.Y >= m.listStartY && msg.Y < m.listEndY
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		if inList {
			m.cursor = max(0, m.cursor-1)
		} else if m.previewOffset > 0 {
			m.previewOffset--
		}
	case msg.Button == tea.MouseButtonWheelDown:
		if inList {
			m.cursor = max(0, min(len(m.filtered)-1, m.cursor+1))
		} else if msg.Y >= m.listEndY {
			m.previewOffset++
		}
	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && inList:
		clickedIdx := m.listStartIdx + (msg.Y - m.listStartY)
		if clickedIdx < 0 || clickedIdx >= len(m.filtered) {
			return nil
		}
		if m.cursor == clickedIdx {
			return m.activate()
		}
		m.cursor = clickedIdx
	}
	return nil
}

// updateFiltered filters entries based on the search input.
func (m *FilePicker) updateFiltered() {
	query := m.input.Value()
	if query == "" {
		m.useSearchEntries = false
		m.filtered = make([]int, len(m.entries))
		for i := range m.entries {
			m.filtered[i] = i
		}
		if m.cursor >= len(m.filtered) {
			m.cursor = 0
		}
		return
	}

	// With a query: search CSV files here and in subdirectories
	m.collectRecursiveFiles()
	m.useSearchEntries = true

	searchables := make([]string, 0, len(m.searchEntries))
	for _, e := range m.searchEntries {
		searchables = append(searchables, e.Name)
	}

	matches := fuzzy.Find(query, searchables)
	m.filtered = make([]int, len(matches))
	for i, match := range matches {
		m.filtered[i] = match.Index
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = 0
	}
}

// getActiveEntries returns the entries slice currently being used.
func (m *FilePicker) getActiveEntries() []FileEntry {
	if m.useSearchEntries {
		return m.searchEntries
	}
	return m.entries
}

func (m *FilePicker) current() (FileEntry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return FileEntry{}, false
	}
	return m.getActiveEntries()[m.filtered[m.cursor]], true
}

// displayDir shortens the home directory to ~.
func (m *FilePicker) displayDir() string {
	dir := m.currentDir
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		if rel, err := filepath.Rel(home, dir); err == nil && !strings.HasPrefix(rel, "..") {
			if rel == "." {
				return "~"
			}
			return filepath.Join("~", rel)
		}
	}
	return dir
}

// loadPreview loads the first lines of the highlighted file.
func (m *FilePicker) loadPreview() {
	entry, ok := m.current()
	if !ok || entry.IsDir {
		m.previewPath = ""
		m.previewContent = nil
		return
	}
	if m.previewPath == entry.Path {
		return
	}

	m.previewPath = entry.Path
	m.previewContent = nil
	m.previewOffset = 0

	info, err := os.Stat(entry.Path)
	if err != nil {
		m.previewContent = []string{"(Cannot read file)"}
		return
	}

	f, err := os.Open(entry.Path) //nolint:gosec // G304: entry.Path is from directory listing
	if err != nil {
		m.previewContent = []string{"(Cannot read file)"}
		return
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, min(info.Size(), int64(constants.MaxPreviewBytes)))
	n, _ := f.Read(buf)
	data := buf[:n]
	if isBinaryContent(data) {
		m.previewContent = []string{"(Binary file)"}
		return
	}

	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	if len(lines) > constants.MaxPreviewLines {
		lines = lines[:constants.MaxPreviewLines]
	}
	m.previewContent = lines
}

// isBinaryContent checks if content appears to be binary.
func isBinaryContent(data []byte) bool {
	checkLen := min(512, len(data))
	for i := range checkLen {
		if data[i] == 0 {
			return true
		}
	}
	return false
}

// View renders the file picker.
func (m *FilePicker) View() string {
	m.loadPreview()

	var sb strings.Builder
	line := 0

	sb.WriteString(m.styleTitle.Render("Open CSV"))
	sb.WriteString("  ")
	sb.WriteString(m.stylePath.Render(m.displayDir()))
	sb.WriteString("\n\n")
	line += 2

	sb.WriteString(m.styleInput.Render(m.input.View()))
	sb.WriteString("\n\n")

	// Reserved: title(2) + input(3) + blank(1) + separator(1) + help(1) = 8
	listHeight := constants.FilePickerHeight
	previewHeight := max(3, m.height-8-listHeight)

	// Input box takes 3 lines plus 1 blank line
	m.listStartY = line + 4
	currentY := m.listStartY

	activeEntries := m.getActiveEntries()
	totalItems := len(m.filtered)
	needsScrollbar := totalItems > listHeight
	scrollbarWidth := 0
	if needsScrollbar {
		scrollbarWidth = 2
	}

	if totalItems == 0 {
		m.listStartIdx = 0
		switch {
		case m.loadErr != nil:
			sb.WriteString(m.styleError.Render("  " + m.loadErr.Error()))
		case len(activeEntries) == 0:
			sb.WriteString(m.styleDim.Render("  No CSV files here"))
		default:
			sb.WriteString(m.styleDim.Render("  No matching files"))
		}
		sb.WriteString("\n")
		currentY++
		for i := 1; i < listHeight; i++ {
			sb.WriteString("\n")
			currentY++
		}
	} else {
		start := 0
		if m.cursor >= listHeight {
			start = m.cursor - listHeight + 1
		}
		end := min(start+listHeight, totalItems)
		m.listStartIdx = start

		var scrollbarLines []string
		if needsScrollbar {
			scrollbarLines = strings.Split(renderVerticalScrollbar(totalItems, listHeight, start, m.colors), "\n")
		}

		maxNameWidth := max(1, m.width-4-scrollbarWidth)
		for i := start; i < end; i++ {
			entry := activeEntries[m.filtered[i]]
			name := entry.Name
			if entry.IsDir {
				name += "/"
			}
			name = fitWidth(name, maxNameWidth)

			switch {
			case i == m.cursor:
				sb.WriteString(m.styleSelected.Render(constants.CursorMarker + " " + name))
			case entry.IsDir:
				sb.WriteString(m.styleDir.Render(name))
			default:
				sb.WriteString(m.styleItem.Render(name))
			}

			if needsScrollbar && i-start < len(scrollbarLines) {
				sb.WriteString(" ")
				sb.WriteString(scrollbarLines[i-start])
			}
			sb.WriteString("\n")
			currentY++
		}

		for i := end - start; i < listHeight; i++ {
			sb.WriteString("\n")
			currentY++
		}
	}
	m.listEndY = currentY

	sb.WriteString(m.styleDim.Render(strings.Repeat("─", max(1, m.width-2))))
	sb.WriteString("\n")

	if len(m.previewContent) > 0 {
		maxOffset := max(0, len(m.previewContent)-previewHeight)
		m.previewOffset = min(m.previewOffset, maxOffset)
		for i := 0; i < previewHeight; i++ {
			lineIdx := m.previewOffset + i
			if lineIdx < len(m.previewContent) {
				sb.WriteString(m.styleDim.Render(trimToWidth(m.previewContent[lineIdx], m.width-1)))
			}
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString(m.styleDim.Render("  (No preview available)"))
		sb.WriteString("\n")
	}

	sb.WriteString(m.styleHelp.Render(fmt.Sprintf("↑/↓: Select  ←/→: Navigate  Enter: Open  Esc: Cancel  (%d)", totalItems)))
	return sb.String()
}
