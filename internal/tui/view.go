package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	rw "github.com/mattn/go-runewidth"

	"github.com/donghojung/csvclip/internal/constants"
	"github.com/donghojung/csvclip/internal/rows"
	"github.com/donghojung/csvclip/internal/state"
)

const groupBadgeWidth = 12

// View renders the main screen.
func (m *Model) View() string {
	if m.picker != nil {
		return m.picker.View()
	}

	sections := []string{
		m.renderHeader(),
		m.renderQuery(),
		m.renderGroupBar(),
		m.renderBody(),
		m.renderNotice(),
		m.help.View(m.keys),
	}
	view := strings.Join(sections, "\n")
	if m.zones != nil {
		return m.zones.Scan(view)
	}
	return view
}

// mark wraps s in a mouse zone when zones are enabled.
func (m *Model) mark(id, s string) string {
	if m.zones == nil {
		return s
	}
	return m.zones.Mark(id, s)
}

func (m *Model) renderHeader() string {
	s := m.state
	file := "no file"
	if s.FileName() != "" {
		file = s.FileName()
	}

	parts := []string{
		m.styles.title.Render(constants.AppName),
		file,
		m.styles.dim.Render(fmt.Sprintf("%d/%d rows", s.VisibleCount(), s.TotalCount())),
	}
	if s.Status() != state.StatusEmpty {
		parts = append(parts,
			m.styles.dim.Render(s.Mode().String()),
			m.styles.group.Render(s.Filter().GroupLabel()))
	} else if m.mode != rows.ModeAuto {
		parts = append(parts, m.styles.dim.Render(m.mode.String()))
	}
	if s.Copied() {
		parts = append(parts, m.styles.badge.Render(constants.CopiedBadge))
	}
	return truncateStyled(strings.Join(parts, "  "), m.width)
}

func (m *Model) renderQuery() string {
	return m.mark(zoneQuery, truncateStyled(m.query.View(), m.width))
}

// renderGroupBar renders the ALL chip followed by one chip per group. Chips
// that do not fit are dropped rather than truncated so zone marks stay whole.
func (m *Model) renderGroupBar() string {
	if m.state.Mode() != rows.ModeGrouped || len(m.state.Groups()) == 0 {
		hint := "Plain rows"
		if m.state.Status() == state.StatusEmpty {
			hint = ""
		}
		return m.styles.dim.Render(hint)
	}

	active := m.state.Filter().Group
	labels := append([]string{constants.GroupAllLabel}, m.state.Groups()...)

	var sb strings.Builder
	used := 0
	for i, label := range labels {
		label = constants.TruncateWithEllipsis(label, groupBadgeWidth)
		style := m.styles.chip
		if (i == 0 && active == "") || (i > 0 && m.state.Groups()[i-1] == active) {
			style = m.styles.chipOn
		}
		chip := style.Render(label)
		w := lipgloss.Width(chip)
		if used+w > m.width {
			break
		}
		sb.WriteString(m.mark(zoneGroupPrefix+strconv.Itoa(i), chip))
		used += w
	}
	return sb.String()
}

func (m *Model) renderBody() string {
	l := m.layout
	list := m.renderList()
	editor := m.renderEditorPane()
	if l.stacked {
		return list + "\n" + editor
	}
	height := max(l.listHeight, lipgloss.Height(editor))
	sep := lipgloss.NewStyle().Foreground(m.colors.Border).Render(
		strings.TrimSuffix(strings.Repeat("│\n", height), "\n"))
	return lipgloss.JoinHorizontal(lipgloss.Top, list, sep, editor)
}

func (m *Model) renderList() string {
	l := m.layout
	lines := make([]string, 0, l.listHeight)
	n := m.state.VisibleCount()

	switch {
	case m.state.Status() == state.StatusEmpty:
		lines = append(lines, m.styles.dim.Render(fitWidth(constants.EmptyStateHint, l.listWidth)))
	case n == 0:
		lines = append(lines, m.styles.dim.Render(fitWidth(constants.NoMatchesMessage, l.listWidth)))
	default:
		width := l.listWidth
		var bar []string
		if n > l.listHeight {
			width -= 2
			bar = strings.Split(renderVerticalScrollbar(n, l.listHeight, m.offset, m.colors), "\n")
		}
		visible := m.state.VisibleRows()
		selected := m.state.SelectedPos()
		end := min(n, m.offset+l.listHeight)
		for pos := m.offset; pos < end; pos++ {
			line := m.renderRow(visible[pos], pos == m.cursor, pos == selected, width)
			line = m.mark(zoneRowPrefix+strconv.Itoa(pos), line)
			if bar != nil {
				line += " " + bar[pos-m.offset]
			}
			lines = append(lines, line)
		}
	}

	blank := strings.Repeat(" ", max(0, l.listWidth))
	for len(lines) < l.listHeight {
		lines = append(lines, blank)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderRow(row rows.Row, cursor, selected bool, width int) string {
	marker := " "
	if cursor {
		marker = constants.CursorMarker
	}
	picked := " "
	if selected {
		picked = constants.SelectedMarker
	}
	prefix := marker + picked + " "

	badge := ""
	if row.Group != "" {
		badge = constants.TruncateWithEllipsis(row.Group, groupBadgeWidth) + " "
	}
	textWidth := max(1, width-rw.StringWidth(prefix)-rw.StringWidth(badge))
	text := fitWidth(singleLine(row.Text), textWidth)

	style := m.styles.row
	switch {
	case selected:
		style = m.styles.rowPicked
	case cursor && m.focus == focusList:
		style = m.styles.rowCursor
	}
	badgeStyle := m.styles.group
	if selected {
		badgeStyle = badgeStyle.Background(m.colors.Selection)
	}
	return style.Render(prefix) + badgeStyle.Render(badge) + style.Render(text)
}

func (m *Model) renderEditorPane() string {
	l := m.layout
	titleStyle := m.styles.pane
	if m.focus == focusEditor {
		titleStyle = m.styles.paneOn
	}
	info := fmt.Sprintf("(%d chars)", len([]rune(m.state.Editor())))
	if m.editorCapped {
		info = fmt.Sprintf("(%d chars, read-only past %d lines)", len([]rune(m.state.Editor())), constants.EditorMaxLines)
	}
	title := titleStyle.Render("Editor") + " " + m.styles.dim.Render(info)

	copyLabel := "[ Copy ]"
	if m.state.Copying() {
		copyLabel = "[ Copying... ]"
	}
	buttons := m.mark(zoneCopy, m.styles.button.Render(copyLabel)) + " " +
		m.mark(zoneClear, m.styles.button.Render("[ Clear ]")) + " " +
		m.mark(zoneOpen, m.styles.button.Render("[ Open ]"))

	return strings.Join([]string{
		truncateStyled(title, l.editorWidth),
		m.mark(zoneEditor, m.editor.View()),
		buttons,
	}, "\n")
}

func (m *Model) renderNotice() string {
	n := m.state.Notice()
	if n.Empty() {
		return ""
	}
	style := m.styles.infoText
	if n.IsError() {
		style = m.styles.errorText
	}
	return style.Render(fitWidth(singleLine(n.Text), m.width))
}
