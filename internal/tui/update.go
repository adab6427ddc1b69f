package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/donghojung/csvclip/internal/constants"
	"github.com/donghojung/csvclip/internal/logging"
	"github.com/donghojung/csvclip/internal/rows"
)

// Zone IDs.
const (
	zoneRowPrefix   = "row:"
	zoneGroupPrefix = "group:"
	zoneQuery       = "pane:query"
	zoneEditor      = "pane:editor"
	zoneCopy        = "btn:copy"
	zoneClear       = "btn:clear"
	zoneOpen        = "btn:open"
)

const (
	headerHeight = 3 // Title, query, group bar
	noticeHeight = 1
	wheelStep    = 3
)

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.computeLayout()
		if m.picker != nil {
			m.picker.SetSize(m.width, m.height)
		}
		return m, nil

	case importedMsg:
		return m, m.handleImported(msg)

	case filePickedMsg:
		m.picker = nil
		return m, m.importCmd(msg.path, m.mode)

	case filePickerClosedMsg:
		m.picker = nil
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			m.state.CopyFailed(msg.err)
			return m, nil
		}
		gen := m.state.CopySucceeded()
		logging.Debug("copied %d bytes", len(m.state.Editor()))
		return m, m.copiedExpireCmd(gen)

	case copiedExpiredMsg:
		m.state.CopiedExpired(msg.gen)
		return m, nil

	case fileChangedMsg:
		if m.watcher == nil || msg.path != m.watcher.Path() {
			return m, nil
		}
		logging.Debug("file changed: %s", msg.path)
		return m, tea.Batch(m.importCmd(msg.path, m.mode), waitForWatchCmd(m.watcher))

	case watchErrorMsg:
		if m.watcher == nil || msg.path != m.watcher.Path() {
			return m, nil
		}
		logging.Warn("watch %s: %v", msg.path, msg.err)
		m.state.SetNotice(fmt.Sprintf("Watching %s: %v", filepath.Base(msg.path), msg.err))
		return m, waitForWatchCmd(m.watcher)

	case tea.KeyMsg:
		if m.picker != nil {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			return m, cmd
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.picker != nil {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			return m, cmd
		}
		return m, m.handleMouse(msg)
	}

	return m, m.updateFocused(msg)
}

func (m *Model) handleImported(msg importedMsg) tea.Cmd {
	if msg.err != nil {
		m.state.ImportFailed(msg.err)
		if errors.Is(msg.err, rows.ErrNoRows) {
			// The file is still the current one: a later write may fix it.
			m.path = msg.path
			m.resetInputs()
			return m.startWatcher(msg.path)
		}
		return nil
	}

	m.path = msg.path
	m.state.LoadCollection(filepath.Base(msg.path), msg.coll)
	logging.Global().SetFile(filepath.Base(msg.path))
	m.resetInputs()
	m.rememberFile(msg.path)
	return m.startWatcher(msg.path)
}

// resetInputs brings the query, editor and cursor back in line with a fresh state.
func (m *Model) resetInputs() {
	m.query.SetValue(m.state.Filter().Query)
	m.syncEditor()
	m.cursor = 0
	m.offset = 0
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Paste {
		return m, m.handlePaste(msg)
	}

	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		m.stopWatcher()
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextFocus):
		return m, m.setFocus((m.focus + 1) % focusPaneCount)
	case key.Matches(msg, m.keys.PrevFocus):
		return m, m.setFocus((m.focus + focusPaneCount - 1) % focusPaneCount)
	case key.Matches(msg, m.keys.NextGroup):
		m.state.CycleGroup(1)
		m.clampCursor()
		return m, nil
	case key.Matches(msg, m.keys.PrevGroup):
		m.state.CycleGroup(-1)
		m.clampCursor()
		return m, nil
	case key.Matches(msg, m.keys.AllGroups):
		m.state.ClearGroup()
		m.clampCursor()
		return m, nil
	case key.Matches(msg, m.keys.Open):
		m.openPicker()
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		if m.path == "" {
			return m, nil
		}
		return m, m.importCmd(m.path, m.mode)
	case key.Matches(msg, m.keys.ToggleMode):
		return m, m.toggleMode()
	case key.Matches(msg, m.keys.Copy):
		return m, m.startCopy()
	case key.Matches(msg, m.keys.ClearEditor):
		m.state.ClearEditor()
		m.syncEditor()
		return m, nil
	case key.Matches(msg, m.keys.ClearAll):
		m.clearAll()
		return m, nil
	case key.Matches(msg, m.keys.Back):
		m.back()
		return m, nil
	}

	switch m.focus {
	case focusQuery:
		switch msg.String() {
		case "enter":
			return m, m.setFocus(focusList)
		case "up":
			m.moveCursor(-1)
			return m, nil
		case "down":
			m.moveCursor(1)
			return m, nil
		}
		return m, m.updateFocused(msg)
	case focusEditor:
		return m, m.updateFocused(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.stopWatcher()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-max(1, m.layout.listHeight-1))
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(max(1, m.layout.listHeight-1))
	case key.Matches(msg, m.keys.Top):
		m.moveCursor(-m.state.VisibleCount())
	case key.Matches(msg, m.keys.Bottom):
		m.moveCursor(m.state.VisibleCount())
	case key.Matches(msg, m.keys.Append):
		m.clickRow(m.cursor)
	case key.Matches(msg, m.keys.Search):
		return m, m.setFocus(focusQuery)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.computeLayout()
	}
	return m, nil
}

// handlePaste imports a dropped file or forwards the paste to the focused input.
func (m *Model) handlePaste(msg tea.KeyMsg) tea.Cmd {
	if path, ok := dropPath(string(msg.Runes), m.workDir); ok {
		if err := rows.CheckExtension(path); err != nil {
			logging.Debug("rejected drop %s", path)
			m.state.ImportFailed(err)
			return nil
		}
		logging.Debug("dropped %s", path)
		return m.importCmd(path, m.mode)
	}
	if m.focus == focusList {
		return nil
	}
	return m.updateFocused(msg)
}

// updateFocused forwards msg to the focused input and syncs state with its value.
func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case focusQuery:
		m.query, cmd = m.query.Update(msg)
		if m.query.Value() != m.state.Filter().Query {
			m.state.SetQuery(m.query.Value())
			m.clampCursor()
		}
	case focusEditor:
		// The textarea shows tabs as spaces, so only an actual edit is written back.
		before := m.editor.Value()
		m.editor, cmd = m.editor.Update(msg)
		after := m.editor.Value()
		if after == before {
			break
		}
		if m.editorCapped {
			m.editor.SetValue(m.state.Editor())
			m.state.SetNotice(fmt.Sprintf("Editor is read-only past %d lines; %s still copies all of it.",
				constants.EditorMaxLines, m.keys.Copy.Help().Key))
			break
		}
		m.state.SetEditor(after)
	}
	return cmd
}

func (m *Model) setFocus(f focusPane) tea.Cmd {
	m.focus = f
	m.query.Blur()
	m.editor.Blur()
	switch f {
	case focusQuery:
		return m.query.Focus()
	case focusEditor:
		return m.editor.Focus()
	}
	return nil
}

// back leaves an input, then clears the query, then the group, then the notice.
func (m *Model) back() {
	switch {
	case m.focus != focusList:
		m.setFocus(focusList)
	case m.state.Filter().Query != "":
		m.query.SetValue("")
		m.state.SetQuery("")
		m.clampCursor()
	case m.state.Filter().Group != "":
		m.state.ClearGroup()
		m.clampCursor()
	default:
		m.state.DismissNotice()
	}
}

func (m *Model) clearAll() {
	m.stopWatcher()
	m.path = ""
	m.state.Clear()
	logging.Global().SetFile("")
	m.resetInputs()
}

func (m *Model) toggleMode() tea.Cmd {
	next := rows.ModeGrouped
	if m.state.Mode() == rows.ModeGrouped {
		next = rows.ModePlain
	}
	m.mode = next
	if m.path == "" {
		m.state.SetNotice("Mode " + next.String() + " applies to the next import")
		return nil
	}
	return m.importCmd(m.path, next)
}

func (m *Model) startCopy() tea.Cmd {
	text, ok := m.state.CopyStarted()
	if !ok {
		return nil
	}
	return m.copyCmd(text)
}

func (m *Model) openPicker() {
	dir := m.workDir
	if m.path != "" {
		dir = filepath.Dir(m.path)
	}
	m.picker = NewFilePicker(dir, m.colors)
	m.picker.SetSize(m.width, m.height)
}

// clickRow appends the row at visible position pos and moves the cursor there.
func (m *Model) clickRow(pos int) {
	if !m.state.Click(pos) {
		return
	}
	m.cursor = pos
	m.syncEditor()
	m.ensureCursorVisible()
}

// syncEditor copies the editor buffer from state into the textarea.
func (m *Model) syncEditor() {
	m.editorCapped = strings.Count(m.state.Editor(), "\n") >= constants.EditorMaxLines
	if m.editor.Value() == m.state.Editor() {
		return
	}
	m.editor.SetValue(m.state.Editor())
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := m.state.VisibleCount()
	switch {
	case n == 0:
		m.cursor = 0
	case m.cursor >= n:
		m.cursor = n - 1
	case m.cursor < 0:
		m.cursor = 0
	}
	m.ensureCursorVisible()
}

func (m *Model) ensureCursorVisible() {
	h := max(1, m.layout.listHeight)
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	maxOffset := max(0, m.state.VisibleCount()-h)
	m.offset = max(0, min(m.offset, maxOffset))
}

func (m *Model) computeLayout() {
	m.help.Width = m.width
	helpHeight := lipgloss.Height(m.help.View(m.keys))
	body := max(4, m.height-headerHeight-noticeHeight-helpHeight)

	l := layout{listTop: headerHeight}
	if m.width >= constants.MinSplitWidth {
		l.listWidth = m.width * 55 / 100
		l.listHeight = body
		l.editorLeft = l.listWidth + 1
		l.editorTop = headerHeight
		l.editorWidth = m.width - l.editorLeft
	} else {
		l.stacked = true
		l.listWidth = m.width
		l.listHeight = max(2, body/2)
		l.editorTop = headerHeight + l.listHeight
		l.editorWidth = m.width
	}
	// Editor pane: title line, textarea, button line.
	l.editorHeight = max(1, headerHeight+body-l.editorTop-2)
	m.layout = l

	m.editor.SetWidth(max(10, l.editorWidth))
	m.editor.SetHeight(l.editorHeight)
	m.query.Width = max(10, m.width-lipgloss.Width(m.query.Prompt)-1)
	m.ensureCursorVisible()
}

// Mouse

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if m.inList(msg.X, msg.Y) {
			m.scroll(-wheelStep)
			return nil
		}
		return m.updateFocused(msg)
	case tea.MouseButtonWheelDown:
		if m.inList(msg.X, msg.Y) {
			m.scroll(wheelStep)
			return nil
		}
		return m.updateFocused(msg)
	}
	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionPress {
		return nil
	}

	if id, ok := m.zoneAt(msg); ok {
		return m.clickZone(id)
	}
	if pos, ok := m.rowAt(msg.X, msg.Y); ok {
		m.clickRow(pos)
		return nil
	}
	switch {
	case m.inEditor(msg.X, msg.Y):
		return m.setFocus(focusEditor)
	case msg.Y == 1:
		return m.setFocus(focusQuery)
	}
	return nil
}

// zoneAt resolves a click against the zones marked in the last frame.
func (m *Model) zoneAt(msg tea.MouseMsg) (string, bool) {
	if m.zones == nil {
		return "", false
	}
	ids := []string{zoneCopy, zoneClear, zoneOpen, zoneQuery, zoneEditor}
	for i := range len(m.state.Groups()) + 1 {
		ids = append(ids, zoneGroupPrefix+strconv.Itoa(i))
	}
	end := min(m.state.VisibleCount(), m.offset+m.layout.listHeight)
	for pos := m.offset; pos < end; pos++ {
		ids = append(ids, zoneRowPrefix+strconv.Itoa(pos))
	}
	for _, id := range ids {
		if z := m.zones.Get(id); z != nil && z.InBounds(msg) {
			return id, true
		}
	}
	return "", false
}

func (m *Model) clickZone(id string) tea.Cmd {
	switch {
	case id == zoneCopy:
		return m.startCopy()
	case id == zoneClear:
		m.state.ClearEditor()
		m.syncEditor()
	case id == zoneOpen:
		m.openPicker()
	case id == zoneQuery:
		return m.setFocus(focusQuery)
	case id == zoneEditor:
		return m.setFocus(focusEditor)
	case strings.HasPrefix(id, zoneRowPrefix):
		if pos, err := strconv.Atoi(strings.TrimPrefix(id, zoneRowPrefix)); err == nil {
			m.clickRow(pos)
		}
	case strings.HasPrefix(id, zoneGroupPrefix):
		if i, err := strconv.Atoi(strings.TrimPrefix(id, zoneGroupPrefix)); err == nil {
			m.selectGroupChip(i)
		}
	}
	return nil
}

// selectGroupChip applies chip i of the group bar; chip 0 is ALL.
func (m *Model) selectGroupChip(i int) {
	groups := m.state.Groups()
	switch {
	case i == 0:
		m.state.ClearGroup()
	case i-1 < len(groups):
		m.state.SetGroup(groups[i-1])
	}
	m.clampCursor()
}

// rowAt maps screen coordinates to a visible position using the layout.
func (m *Model) rowAt(x, y int) (int, bool) {
	if !m.inList(x, y) {
		return 0, false
	}
	pos := m.offset + y - m.layout.listTop
	if pos < 0 || pos >= m.state.VisibleCount() {
		return 0, false
	}
	return pos, true
}

func (m *Model) inList(x, y int) bool {
	l := m.layout
	return x >= 0 && x < l.listWidth && y >= l.listTop && y < l.listTop+l.listHeight
}

func (m *Model) inEditor(x, y int) bool {
	l := m.layout
	return x >= l.editorLeft && x < l.editorLeft+l.editorWidth &&
		y >= l.editorTop && y < l.editorTop+l.editorHeight+2
}

func (m *Model) scroll(delta int) {
	h := max(1, m.layout.listHeight)
	maxOffset := max(0, m.state.VisibleCount()-h)
	m.offset = max(0, min(m.offset+delta, maxOffset))
	if m.cursor < m.offset {
		m.cursor = m.offset
	}
	if m.cursor >= m.offset+h {
		m.cursor = m.offset + h - 1
	}
	m.clampCursor()
}
