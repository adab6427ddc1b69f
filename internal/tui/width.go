package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	rw "github.com/mattn/go-runewidth"

	"github.com/donghojung/csvclip/internal/constants"
)

// trimToWidth cuts s to at most width terminal cells.
func trimToWidth(s string, width int) string {
	if width <= 0 || rw.StringWidth(s) <= width {
		return s
	}

	runes := []rune(s)
	w := 0
	for i, r := range runes {
		w += rw.RuneWidth(r)
		if w > width {
			return string(runes[:i])
		}
	}
	return s
}

// padToWidth right-pads s with spaces to width cells.
func padToWidth(s string, width int) string {
	if width <= 0 {
		return s
	}
	padding := width - rw.StringWidth(s)
	if padding <= 0 {
		return s
	}
	return s + strings.Repeat(" ", padding)
}

// fitWidth trims s with an ellipsis and pads it so it fills exactly width cells.
func fitWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if rw.StringWidth(s) > width {
		s = trimToWidth(s, width-1) + constants.EllipsisRune
	}
	return padToWidth(s, width)
}

// singleLine flattens row text for list display.
func singleLine(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\t", " ")
}

// truncateStyled cuts an already styled line to width cells without breaking
// escape sequences.
func truncateStyled(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, constants.EllipsisRune)
}
