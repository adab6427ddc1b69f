package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/donghojung/csvclip/internal/clipboard"
	"github.com/donghojung/csvclip/internal/constants"
	"github.com/donghojung/csvclip/internal/history"
	"github.com/donghojung/csvclip/internal/rows"
	"github.com/donghojung/csvclip/internal/state"
)

const groupedCSV = "GroupA,Comment 1\nGroupB,Comment 2\nGroupA,Comment 3\n,Loose note\n"

type recordingClipboard struct {
	text  string
	calls int
	err   error
}

func (c *recordingClipboard) WriteAll(text string) error {
	c.calls++
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

func newTestModel(t *testing.T, clip clipboard.Writer) *Model {
	t.Helper()
	m := New(Options{WorkDir: t.TempDir(), Clipboard: clip})
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// load runs an import synchronously.
func load(t *testing.T, m *Model, path string) {
	t.Helper()
	m.Update(m.importCmd(path, m.mode)())
}

func press(m *Model, msg tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func paste(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s), Paste: true}
}

func loadGrouped(t *testing.T, m *Model) string {
	t.Helper()
	path := writeFile(t, m.workDir, "comments.csv", groupedCSV)
	load(t, m, path)
	if m.state.TotalCount() != 4 {
		t.Fatalf("TotalCount() = %d, want 4", m.state.TotalCount())
	}
	return path
}

func TestModel_ImportResetsView(t *testing.T) {
	m := newTestModel(t, nil)
	loadGrouped(t, m)

	if got := m.state.FileName(); got != "comments.csv" {
		t.Errorf("FileName() = %q, want %q", got, "comments.csv")
	}
	if got := m.state.Mode(); got != rows.ModeGrouped {
		t.Errorf("Mode() = %v, want grouped", got)
	}
	if m.cursor != 0 || m.offset != 0 {
		t.Errorf("cursor/offset = %d/%d, want 0/0", m.cursor, m.offset)
	}
}

func TestModel_EnterAppendsRows(t *testing.T) {
	m := newTestModel(t, nil)
	loadGrouped(t, m)

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	press(m, tea.KeyMsg{Type: tea.KeyDown})
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	want := "Comment 1 Comment 2"
	if got := m.state.Editor(); got != want {
		t.Errorf("Editor() = %q, want %q", got, want)
	}
	if got := m.editor.Value(); got != want {
		t.Errorf("textarea value = %q, want %q", got, want)
	}
	if got := m.state.SelectedPos(); got != 1 {
		t.Errorf("SelectedPos() = %d, want 1", got)
	}
}

func TestModel_MouseClickRow(t *testing.T) {
	m := newTestModel(t, nil)
	loadGrouped(t, m)

	m.Update(tea.MouseMsg{
		X:      4,
		Y:      m.layout.listTop + 1,
		Button: tea.MouseButtonLeft,
		Action: tea.MouseActionPress,
	})

	if got := m.state.Editor(); got != "Comment 2" {
		t.Errorf("Editor() = %q, want %q", got, "Comment 2")
	}
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
}

func TestModel_MouseClickBelowRows(t *testing.T) {
	m := newTestModel(t, nil)
	loadGrouped(t, m)

	m.Update(tea.MouseMsg{
		X:      4,
		Y:      m.layout.listTop + 10,
		Button: tea.MouseButtonLeft,
		Action: tea.MouseActionPress,
	})

	if got := m.state.Editor(); got != "" {
		t.Errorf("Editor() = %q, want empty", got)
	}
	if _, ok := m.state.Selected(); ok {
		t.Error("click below the rows selected something")
	}
}

func TestModel_GroupKeys(t *testing.T) {
	m := newTestModel(t, nil)
	loadGrouped(t, m)

	press(m, tea.KeyMsg{Type: tea.KeyCtrlG})
	if got := m.state.Filter().Group; got != "GroupA" {
		t.Fatalf("group after ctrl+g = %q, want GroupA", got)
	}
	if got := m.state.VisibleCount(); got != 2 {
		t.Errorf("VisibleCount() = %d, want 2", got)
	}

	press(m, tea.KeyMsg{Type: tea.KeyCtrlB})
	press(m, tea.KeyMsg{Type: tea.KeyCtrlB})
	if got := m.state.Filter().Group; got != constants.DefaultGroup {
		t.Errorf("group after two ctrl+b = %q, want %q", got, constants.DefaultGroup)
	}

	press(m, tea.KeyMsg{Type: tea.KeyCtrlA})
	if got := m.state.Filter().Group; got != "" {
		t.Errorf("group after ctrl+a = %q, want ALL", got)
	}
}

func TestModel_GroupChangeDropsSelectionKeepsEditor(t *testing.T) {
	m := newTestModel(t, nil)
	loadGrouped(t, m)

	press(m, tea.KeyMsg{Type: tea.KeyDown})
	press(m, tea.KeyMsg{Type: tea.KeyEnter}) // Comment 2 (GroupB)
	press(m, tea.KeyMsg{Type: tea.KeyCtrlG}) // GroupA

	if _, ok := m.state.Selected(); ok {
		t.Error("selection should be dropped when its row is filtered out")
	}
	if got := m.state.Editor(); got != "Comment 2" {
		t.Errorf("Editor() = %q, want %q", got, "Comment 2")
	}
	if m.cursor >= m.state.VisibleCount() {
		t.Errorf("cursor %d outside %d visible rows", m.cursor, m.state.VisibleCount())
	}
}

func TestModel_QueryFocus(t *testing.T) {
	m := newTestModel(t, nil)
	path := writeFile(t, m.workDir, "plain.csv", "One\nTwo\nThree\n")
	load(t, m, path)

	press(m, keyRunes("/"))
	if m.focus != focusQuery {
		t.Fatalf("focus = %v, want query", m.focus)
	}
	press(m, keyRunes("two"))
	if got := m.state.Filter().Query; got != "two" {
		t.Errorf("Query = %q, want %q", got, "two")
	}
	if got := m.state.VisibleCount(); got != 1 {
		t.Errorf("VisibleCount() = %d, want 1", got)
	}

	press(m, tea.KeyMsg{Type: tea.KeyEscape})
	if m.focus != focusList {
		t.Fatalf("focus after esc = %v, want list", m.focus)
	}
	press(m, tea.KeyMsg{Type: tea.KeyEscape})
	if got := m.state.Filter().Query; got != "" {
		t.Errorf("Query after second esc = %q, want empty", got)
	}
	if got := m.query.Value(); got != "" {
		t.Errorf("query input = %q, want empty", got)
	}
	if got := m.state.VisibleCount(); got != 3 {
		t.Errorf("VisibleCount() = %d, want 3", got)
	}
}

func TestModel_QueryLettersDoNotTriggerListKeys(t *testing.T) {
	m := newTestModel(t, nil)
	loadGrouped(t, m)

	press(m, keyRunes("/"))
	press(m, keyRunes("q"))

	if m.focus != focusQuery {
		t.Errorf("focus = %v, want query", m.focus)
	}
	if got := m.state.Filter().Query; got != "q" {
		t.Errorf("Query = %q, want %q", got, "q")
	}
}

func TestModel_EditorTyping(t *testing.T) {
	m := newTestModel(t, nil)
	loadGrouped(t, m)

	press(m, tea.KeyMsg{Type: tea.KeyTab})
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusEditor {
		t.Fatalf("focus = %v, want editor", m.focus)
	}
	press(m, keyRunes("Hi"))
	if got := m.state.Editor(); got != "Hi" {
		t.Fatalf("Editor() = %q, want %q", got, "Hi")
	}

	m.clickRow(0)
	if got := m.state.Editor(); got != "Hi Comment 1" {
		t.Errorf("Editor() = %q, want %q", got, "Hi Comment 1")
	}
	if got := m.editor.Value(); got != "Hi Comment 1" {
		t.Errorf("textarea value = %q, want %q", got, "Hi Comment 1")
	}

	press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != focusQuery {
		t.Errorf("focus after shift+tab = %v, want query", m.focus)
	}
}

func TestModel_EditorNavigationKeepsBuffer(t *testing.T) {
	clip := &recordingClipboard{}
	m := newTestModel(t, clip)
	load(t, m, writeFile(t, m.workDir, "tabs.csv", "\"a\tb\"\nc\n"))

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.state.Editor(); got != "a\tb" {
		t.Fatalf("Editor() after click = %q, want %q", got, "a\tb")
	}

	press(m, tea.KeyMsg{Type: tea.KeyTab})
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusEditor {
		t.Fatalf("focus = %v, want editor", m.focus)
	}
	press(m, tea.KeyMsg{Type: tea.KeyEnd})
	press(m, tea.KeyMsg{Type: tea.KeyLeft})
	if got := m.state.Editor(); got != "a\tb" {
		t.Errorf("Editor() after cursor moves = %q, want %q", got, "a\tb")
	}

	cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlY})
	if cmd == nil {
		t.Fatal("ctrl+y returned no command")
	}
	m.Update(cmd())
	if clip.text != "a\tb" {
		t.Errorf("copied %q, want %q", clip.text, "a\tb")
	}
}

func TestModel_LongEditorIsReadOnly(t *testing.T) {
	clip := &recordingClipboard{}
	m := newTestModel(t, clip)
	loadGrouped(t, m)

	long := strings.Repeat("x\n", constants.EditorMaxLines) + "end"
	m.state.SetEditor(long)
	m.syncEditor()
	if !m.editorCapped {
		t.Fatal("editorCapped = false for a buffer past the textarea limit")
	}

	press(m, tea.KeyMsg{Type: tea.KeyTab})
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	press(m, keyRunes("z"))
	if m.state.Editor() != long {
		t.Error("typing into a capped editor changed the buffer")
	}
	if m.state.Notice().Empty() {
		t.Error("expected a read-only notice")
	}

	cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlY})
	if cmd == nil {
		t.Fatal("ctrl+y returned no command")
	}
	m.Update(cmd())
	if clip.text != long {
		t.Errorf("copied %d bytes, want the full %d", len(clip.text), len(long))
	}

	press(m, tea.KeyMsg{Type: tea.KeyCtrlK})
	if m.editorCapped {
		t.Error("editorCapped still set after clearing the editor")
	}
}

func TestModel_CopyLifecycle(t *testing.T) {
	clip := &recordingClipboard{}
	m := newTestModel(t, clip)
	loadGrouped(t, m)
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlY})
	if cmd == nil {
		t.Fatal("ctrl+y returned no command")
	}
	if !m.state.Copying() {
		t.Error("expected copy in progress")
	}
	msg, ok := cmd().(copyResultMsg)
	if !ok {
		t.Fatalf("copy command returned %T, want copyResultMsg", cmd())
	}
	if clip.text != "Comment 1" {
		t.Errorf("clipboard = %q, want %q", clip.text, "Comment 1")
	}

	_, tick := m.Update(msg)
	if tick == nil {
		t.Error("expected a flash expiry command")
	}
	if !m.state.Copied() {
		t.Fatal("expected copied flag")
	}
	if !strings.Contains(m.View(), constants.CopiedBadge) {
		t.Error("view should show the copied badge")
	}

	m.Update(copiedExpiredMsg{gen: 1})
	if m.state.Copied() {
		t.Error("copied flag should clear when the flash expires")
	}
	if got := m.state.Editor(); got != "Comment 1" {
		t.Errorf("Editor() = %q, copy must not change it", got)
	}
}

func TestModel_CopyFailure(t *testing.T) {
	clip := &recordingClipboard{err: errors.New("no display")}
	m := newTestModel(t, clip)
	loadGrouped(t, m)
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlY})
	m.Update(cmd())

	if m.state.Copied() {
		t.Error("copied flag set after failure")
	}
	n := m.state.Notice()
	if n.Kind != state.NoticeClipboardFailure {
		t.Errorf("notice kind = %q, want %q", n.Kind, state.NoticeClipboardFailure)
	}
	if !strings.Contains(n.Text, "no display") {
		t.Errorf("notice %q should carry the cause", n.Text)
	}
	if got := m.state.Editor(); got != "Comment 1" {
		t.Errorf("Editor() = %q, want %q", got, "Comment 1")
	}
}

func TestModel_CopyEmptyEditor(t *testing.T) {
	clip := &recordingClipboard{}
	m := newTestModel(t, clip)
	loadGrouped(t, m)

	if cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlY}); cmd != nil {
		t.Error("copying an empty editor should do nothing")
	}
	if clip.calls != 0 {
		t.Errorf("clipboard called %d times", clip.calls)
	}
}

func TestModel_CopyWithoutClipboard(t *testing.T) {
	m := newTestModel(t, nil)
	loadGrouped(t, m)
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlY})
	m.Update(cmd())

	if got := m.state.Notice().Kind; got != state.NoticeClipboardFailure {
		t.Errorf("notice kind = %q, want %q", got, state.NoticeClipboardFailure)
	}
}

func TestModel_DropNonCSVKeepsState(t *testing.T) {
	m := newTestModel(t, nil)
	loadGrouped(t, m)
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	notes := writeFile(t, m.workDir, "notes.txt", "hello\n")

	if cmd := press(m, paste(notes)); cmd != nil {
		t.Error("non-csv drop should not start an import")
	}

	if got := m.state.Notice().Kind; got != state.NoticeUnsupportedFile {
		t.Errorf("notice kind = %q, want %q", got, state.NoticeUnsupportedFile)
	}
	if got := m.state.TotalCount(); got != 4 {
		t.Errorf("TotalCount() = %d, want 4", got)
	}
	if got := m.state.Editor(); got != "Comment 1" {
		t.Errorf("Editor() = %q, want %q", got, "Comment 1")
	}
	if got := m.state.FileName(); got != "comments.csv" {
		t.Errorf("FileName() = %q, want comments.csv", got)
	}
}

func TestModel_DropCSVImports(t *testing.T) {
	m := newTestModel(t, nil)
	path := writeFile(t, m.workDir, "my list.csv", "alpha\nbeta\n")

	cmd := press(m, paste("'"+path+"'"))
	if cmd == nil {
		t.Fatal("csv drop should start an import")
	}
	m.Update(cmd())

	if got := m.state.FileName(); got != "my list.csv" {
		t.Errorf("FileName() = %q, want %q", got, "my list.csv")
	}
	if got := m.state.TotalCount(); got != 2 {
		t.Errorf("TotalCount() = %d, want 2", got)
	}
}

func TestModel_PasteTextGoesToFocusedInput(t *testing.T) {
	m := newTestModel(t, nil)
	loadGrouped(t, m)

	press(m, keyRunes("/"))
	press(m, paste("Comment"))
	if got := m.state.Filter().Query; got != "Comment" {
		t.Errorf("Query = %q, want %q", got, "Comment")
	}
}

func TestModel_ImportNoRowsResets(t *testing.T) {
	m := newTestModel(t, nil)
	loadGrouped(t, m)
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	blank := writeFile(t, m.workDir, "blank.csv", "\n \n")
	load(t, m, blank)

	if got := m.state.Status(); got != state.StatusEmpty {
		t.Errorf("Status() = %q, want empty", got)
	}
	if got := m.state.Notice().Kind; got != state.NoticeNoRows {
		t.Errorf("notice kind = %q, want %q", got, state.NoticeNoRows)
	}
	if got := m.editor.Value(); got != "" {
		t.Errorf("textarea value = %q, want empty", got)
	}
}

func TestModel_ImportParseFailureKeepsRows(t *testing.T) {
	m := newTestModel(t, nil)
	loadGrouped(t, m)
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	bad := writeFile(t, m.workDir, "bad.csv", "a,\"b\n")
	load(t, m, bad)

	if got := m.state.Notice().Kind; got != state.NoticeParseFailure {
		t.Errorf("notice kind = %q, want %q", got, state.NoticeParseFailure)
	}
	if got := m.state.TotalCount(); got != 4 {
		t.Errorf("TotalCount() = %d, want 4", got)
	}
	if got := m.state.Editor(); got != "Comment 1" {
		t.Errorf("Editor() = %q, want %q", got, "Comment 1")
	}
}

func TestModel_ToggleMode(t *testing.T) {
	m := newTestModel(t, nil)
	loadGrouped(t, m)

	cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlT})
	if cmd == nil {
		t.Fatal("ctrl+t should re-import")
	}
	m.Update(cmd())

	if got := m.state.Mode(); got != rows.ModePlain {
		t.Fatalf("Mode() = %v, want plain", got)
	}
	if got := m.state.Rows()[0].Text; got != "GroupA,Comment 1" {
		t.Errorf("first row = %q, want %q", got, "GroupA,Comment 1")
	}

	cmd = press(m, tea.KeyMsg{Type: tea.KeyCtrlT})
	m.Update(cmd())
	if got := m.state.Mode(); got != rows.ModeGrouped {
		t.Errorf("Mode() = %v, want grouped", got)
	}
}

func TestModel_ToggleModeWithoutFile(t *testing.T) {
	m := newTestModel(t, nil)

	if cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlT}); cmd != nil {
		t.Error("nothing to re-import")
	}
	if m.mode != rows.ModeGrouped {
		t.Errorf("mode = %v, want grouped for the next import", m.mode)
	}
}

func TestModel_ReloadAndClearAll(t *testing.T) {
	m := newTestModel(t, nil)
	path := loadGrouped(t, m)

	writeFile(t, m.workDir, "comments.csv", "GroupC,New\n")
	cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if cmd == nil {
		t.Fatal("ctrl+r should re-import")
	}
	m.Update(cmd())
	if got := m.state.TotalCount(); got != 1 {
		t.Errorf("TotalCount() after reload = %d, want 1", got)
	}
	if m.path != path {
		t.Errorf("path = %q, want %q", m.path, path)
	}

	press(m, tea.KeyMsg{Type: tea.KeyCtrlL})
	if got := m.state.Status(); got != state.StatusEmpty {
		t.Errorf("Status() = %q, want empty", got)
	}
	if m.path != "" {
		t.Errorf("path = %q, want empty", m.path)
	}
	if cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlR}); cmd != nil {
		t.Error("reload without a file should do nothing")
	}
}

func TestModel_ClearEditorKey(t *testing.T) {
	m := newTestModel(t, nil)
	loadGrouped(t, m)
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	press(m, tea.KeyMsg{Type: tea.KeyCtrlK})
	if got := m.state.Editor(); got != "" {
		t.Errorf("Editor() = %q, want empty", got)
	}
	if got := m.editor.Value(); got != "" {
		t.Errorf("textarea value = %q, want empty", got)
	}
	if got := m.state.TotalCount(); got != 4 {
		t.Errorf("rows changed: %d", got)
	}
}

func TestModel_ScrollKeepsCursorVisible(t *testing.T) {
	m := newTestModel(t, nil)
	var sb strings.Builder
	for i := 1; i <= 40; i++ {
		fmt.Fprintf(&sb, "row %d\n", i)
	}
	load(t, m, writeFile(t, m.workDir, "many.csv", sb.String()))
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 12})

	press(m, tea.KeyMsg{Type: tea.KeyEnd})
	if m.cursor != 39 {
		t.Fatalf("cursor = %d, want 39", m.cursor)
	}
	if m.cursor < m.offset || m.cursor >= m.offset+m.layout.listHeight {
		t.Errorf("cursor %d not in window [%d, %d)", m.cursor, m.offset, m.offset+m.layout.listHeight)
	}
	if !strings.Contains(m.View(), "row 40") {
		t.Error("view should show the last row")
	}

	press(m, tea.KeyMsg{Type: tea.KeyHome})
	if m.cursor != 0 || m.offset != 0 {
		t.Errorf("cursor/offset = %d/%d, want 0/0", m.cursor, m.offset)
	}
}

func TestModel_Layout(t *testing.T) {
	m := newTestModel(t, nil)
	if m.layout.stacked {
		t.Error("100 columns should split side by side")
	}

	m.Update(tea.WindowSizeMsg{Width: constants.MinSplitWidth - 1, Height: 30})
	if !m.layout.stacked {
		t.Error("narrow terminal should stack the editor")
	}
	if m.layout.editorTop != m.layout.listTop+m.layout.listHeight {
		t.Errorf("editorTop = %d, want %d", m.layout.editorTop, m.layout.listTop+m.layout.listHeight)
	}
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t, nil)
	if !strings.Contains(m.View(), constants.EmptyStateHint) {
		t.Error("empty view should show the hint")
	}

	loadGrouped(t, m)
	view := m.View()
	for _, want := range []string{"comments.csv", "Comment 1", "GroupB", "4/4 rows", constants.GroupAllLabel} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	press(m, keyRunes("/"))
	press(m, keyRunes("zzz"))
	if !strings.Contains(m.View(), constants.NoMatchesMessage) {
		t.Error("view should say nothing matches")
	}
}

func TestModel_FilePicker(t *testing.T) {
	m := newTestModel(t, nil)
	path := writeFile(t, m.workDir, "pick.csv", "one\n")

	press(m, tea.KeyMsg{Type: tea.KeyCtrlO})
	if m.picker == nil {
		t.Fatal("ctrl+o should open the picker")
	}
	if !strings.Contains(m.View(), "pick.csv") {
		t.Error("picker should list the csv file")
	}

	cmd := press(m, tea.KeyMsg{Type: tea.KeyEscape})
	m.Update(cmd())
	if m.picker != nil {
		t.Fatal("esc should close the picker")
	}

	press(m, tea.KeyMsg{Type: tea.KeyCtrlO})
	cmd = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter on a file should pick it")
	}
	_, importCmd := m.Update(cmd())
	if m.picker != nil {
		t.Error("picking should close the picker")
	}
	m.Update(importCmd())
	if got := m.state.FileName(); got != filepath.Base(path) {
		t.Errorf("FileName() = %q, want %q", got, filepath.Base(path))
	}
}

func TestModel_WatchIgnoresStaleEvents(t *testing.T) {
	dir := t.TempDir()
	m := New(Options{WorkDir: dir, Watch: true})
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	path := writeFile(t, dir, "watched.csv", "a\n")
	_, cmd := m.Update(m.importCmd(path, rows.ModeAuto)())
	if m.watcher == nil {
		t.Fatal("expected a watcher after import")
	}
	if cmd == nil {
		t.Error("expected a command waiting on the watcher")
	}

	if _, cmd := m.Update(fileChangedMsg{path: filepath.Join(dir, "other.csv")}); cmd != nil {
		t.Error("events for another file should be ignored")
	}
	if _, cmd := m.Update(fileChangedMsg{path: path}); cmd == nil {
		t.Error("change to the watched file should re-import")
	}

	press(m, tea.KeyMsg{Type: tea.KeyCtrlL})
	if m.watcher != nil {
		t.Error("clear all should stop watching")
	}
}

func TestModel_QuitKeys(t *testing.T) {
	m := newTestModel(t, nil)

	cmd := press(m, keyRunes("q"))
	if cmd == nil {
		t.Fatal("q should quit from the list")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}

	press(m, tea.KeyMsg{Type: tea.KeyTab})
	cmd = press(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should quit from any pane")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should return tea.Quit")
	}
}

func TestModel_RecordsRecentFiles(t *testing.T) {
	dir := t.TempDir()
	store := history.New(t.TempDir())
	m := New(Options{WorkDir: dir, History: store})
	t.Cleanup(m.Close)

	path := writeFile(t, dir, "recent.csv", "a\n")
	load(t, m, path)
	load(t, m, writeFile(t, dir, "empty.csv", "\n"))

	got, err := store.Existing()
	if err != nil {
		t.Fatalf("Existing: %v", err)
	}
	if len(got) != 1 || got[0] != path {
		t.Errorf("recent files = %v, want [%s]", got, path)
	}
}
