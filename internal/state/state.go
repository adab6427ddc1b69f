// Package state holds csvclip's view state: the imported rows, the active
// filter, the visible subset, the selected row, the editor buffer and the
// transient notice and copied flags.
//
// All fields are private so the invariant selection ⊆ visible ⊆ rows is
// maintained by the transition methods alone.
package state

import (
	"errors"
	"fmt"
	"strings"

	"github.com/donghojung/csvclip/internal/constants"
	"github.com/donghojung/csvclip/internal/logging"
	"github.com/donghojung/csvclip/internal/rows"
)

// Status is the coarse state derived from the fields of State.
type Status string

// Status values.
const (
	StatusEmpty    Status = "empty"    // No rows imported
	StatusLoaded   Status = "loaded"   // Rows present, identity filter, no selection
	StatusFiltered Status = "filtered" // Filter narrows the rows, no selection
	StatusSelected Status = "selected" // A visible row is selected
)

// Filter is the active query and group choice. An empty Group means all groups.
type Filter struct {
	Query string
	Group string
}

// Identity reports whether the filter lets every row through.
func (f Filter) Identity() bool {
	return strings.TrimSpace(f.Query) == "" && f.Group == ""
}

// GroupLabel returns the group as shown to the user.
func (f Filter) GroupLabel() string {
	if f.Group == "" {
		return constants.GroupAllLabel
	}
	return f.Group
}

// Match reports whether row passes the filter.
func (f Filter) Match(row rows.Row) bool {
	if f.Group != "" && row.Group != f.Group {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(row.Searchable()), q)
}

// State is the complete view state. The zero value is not ready; use New.
type State struct {
	fileName string
	coll     rows.Collection
	filter   Filter
	visible  []int // collection indexes, in row order
	selected int   // collection index, -1 when nothing is selected
	editor   string
	notice   Notice

	copied     bool
	copyGen    int
	copyActive bool
}

// New returns an Empty state.
func New() *State {
	return &State{selected: -1}
}

// LoadCollection replaces the rows with coll after a successful import.
// Filter, selection, editor and notice are reset.
func (s *State) LoadCollection(fileName string, coll rows.Collection) {
	s.fileName = fileName
	s.coll = coll
	s.filter = Filter{}
	s.selected = -1
	s.editor = ""
	s.notice = Notice{}
	s.recompute()
	logging.Debug("loaded %s: %d rows, mode %s", fileName, coll.Len(), coll.Mode)
}

// ImportFailed records a failed import. ErrNoRows resets to the Empty
// baseline, ErrUnsupportedFile and any other error only set the notice.
func (s *State) ImportFailed(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, rows.ErrNoRows) {
		s.Clear()
	}
	s.notice = noticeForImport(err)
	logging.Warn("import failed: %v", err)
}

// Clear resets everything to the Empty state.
func (s *State) Clear() {
	s.fileName = ""
	s.coll = rows.Collection{}
	s.filter = Filter{}
	s.visible = nil
	s.selected = -1
	s.editor = ""
	s.notice = Notice{}
}

// SetQuery changes the free-text filter.
func (s *State) SetQuery(q string) {
	if s.filter.Query == q {
		return
	}
	s.filter.Query = q
	s.recompute()
}

// SetGroup filters to one group. The "ALL" label and the empty string clear
// the group filter.
func (s *State) SetGroup(group string) {
	group = strings.TrimSpace(group)
	if group == constants.GroupAllLabel {
		group = ""
	}
	if s.filter.Group == group {
		return
	}
	s.filter.Group = group
	s.recompute()
}

// ClearGroup resets the group filter to ALL.
func (s *State) ClearGroup() {
	s.SetGroup("")
}

// CycleGroup moves the group filter delta steps through ALL followed by the
// groups in first-appearance order, wrapping at either end.
func (s *State) CycleGroup(delta int) {
	choices := append([]string{""}, s.coll.Groups...)
	if len(choices) == 1 {
		return
	}
	cur := 0
	for i, g := range choices {
		if g == s.filter.Group {
			cur = i
			break
		}
	}
	next := ((cur+delta)%len(choices) + len(choices)) % len(choices)
	s.SetGroup(choices[next])
}

// recompute rebuilds the visible subset and drops a selection that fell out of it.
func (s *State) recompute() {
	visible := make([]int, 0, s.coll.Len())
	keep := false
	for _, r := range s.coll.Rows {
		if !s.filter.Match(r) {
			continue
		}
		visible = append(visible, r.Index)
		if r.Index == s.selected {
			keep = true
		}
	}
	s.visible = visible
	if !keep {
		s.selected = -1
	}
}

// Click selects the row at position pos of the visible subset and appends its
// text to the editor. It returns false, changing nothing, when pos is not a
// visible position.
func (s *State) Click(pos int) bool {
	if pos < 0 || pos >= len(s.visible) {
		return false
	}
	row := s.coll.Rows[s.visible[pos]]
	s.selected = row.Index
	s.editor = Append(s.editor, row.Text)
	logging.Trace("clicked row %d (%s)", row.Index, row.Key())
	return true
}

// SetEditor replaces the editor buffer with text typed by the user.
func (s *State) SetEditor(text string) {
	s.editor = text
}

// ClearEditor empties the editor buffer.
func (s *State) ClearEditor() {
	s.editor = ""
}

// SetNotice shows an informational message.
func (s *State) SetNotice(text string) {
	s.notice = Notice{Kind: NoticeInfo, Text: text}
}

// DismissNotice clears the current notice.
func (s *State) DismissNotice() {
	s.notice = Notice{}
}

// CopyStarted returns the text to copy. ok is false when the editor is
// empty, in which case nothing should be written.
func (s *State) CopyStarted() (string, bool) {
	if s.editor == "" {
		return "", false
	}
	s.copyActive = true
	return s.editor, true
}

// CopySucceeded raises the copied flag and returns its generation. Pass the
// generation to CopiedExpired when the flash should end.
func (s *State) CopySucceeded() int {
	s.copyActive = false
	s.copyGen++
	s.copied = true
	s.notice = Notice{}
	return s.copyGen
}

// CopyFailed records a clipboard failure. The editor is left untouched.
func (s *State) CopyFailed(err error) {
	s.copyActive = false
	s.copied = false
	s.notice = Notice{Kind: NoticeClipboardFailure, Text: fmt.Sprintf("copy failed: %v", err)}
	logging.Warn("copy failed: %v", err)
}

// CopiedExpired lowers the copied flag if gen is still the latest copy.
func (s *State) CopiedExpired(gen int) {
	if gen == s.copyGen {
		s.copied = false
	}
}

// Rows returns all imported rows.
func (s *State) Rows() []rows.Row {
	return s.coll.Rows
}

// Mode returns the mode of the loaded collection.
func (s *State) Mode() rows.Mode {
	return s.coll.Mode
}

// Groups returns the distinct groups in first-appearance order.
func (s *State) Groups() []string {
	return s.coll.Groups
}

// Visible returns the collection indexes of the visible rows.
func (s *State) Visible() []int {
	return s.visible
}

// VisibleRows returns the visible rows in order.
func (s *State) VisibleRows() []rows.Row {
	out := make([]rows.Row, 0, len(s.visible))
	for _, idx := range s.visible {
		out = append(out, s.coll.Rows[idx])
	}
	return out
}

// Selected returns the selected row, if any.
func (s *State) Selected() (rows.Row, bool) {
	if s.selected < 0 {
		return rows.Row{}, false
	}
	return s.coll.Rows[s.selected], true
}

// SelectedPos returns the visible position of the selected row, or -1.
func (s *State) SelectedPos() int {
	for pos, idx := range s.visible {
		if idx == s.selected {
			return pos
		}
	}
	return -1
}

// Filter returns the active query and group.
func (s *State) Filter() Filter { return s.filter }

// Editor returns the editor buffer exactly as it will be copied.
func (s *State) Editor() string { return s.editor }

// FileName returns the base name of the loaded file, or "".
func (s *State) FileName() string { return s.fileName }

// Notice returns the current user-visible message.
func (s *State) Notice() Notice { return s.notice }

// Copied reports whether the copied badge is showing.
func (s *State) Copied() bool { return s.copied }

// Copying reports whether a clipboard write is in flight.
func (s *State) Copying() bool { return s.copyActive }

// TotalCount returns the number of imported rows.
func (s *State) TotalCount() int { return s.coll.Len() }

// VisibleCount returns the number of rows passing the filter.
func (s *State) VisibleCount() int { return len(s.visible) }

// Status derives the coarse state.
func (s *State) Status() Status {
	switch {
	case s.coll.Empty():
		return StatusEmpty
	case s.selected >= 0:
		return StatusSelected
	case !s.filter.Identity():
		return StatusFiltered
	default:
		return StatusLoaded
	}
}
