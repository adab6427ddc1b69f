// Package constants defines shared constants used throughout csvclip.
package constants

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Application identity
const (
	AppName        = "csvclip"
	ConfigFileName = "config.yaml"
	LogFileName    = "csvclip.log"
	DebugEnvVar    = "CSVCLIP_DEBUG"
)

// Import rules
const (
	CSVExtension = ".csv"

	// DefaultGroup is assigned to grouped rows whose group cell is missing or blank.
	DefaultGroup = "General"

	// GroupAllLabel is how the "no group filter" choice is shown to the user.
	GroupAllLabel = "ALL"

	// PlainJoinSep joins the cells of a plain-mode record back into one line.
	PlainJoinSep = ","
)

// Status indicators
const (
	CopiedBadge      = "✓ Copied"
	SelectedMarker   = "●"
	CursorMarker     = ">"
	EllipsisRune     = "…"
	EmptyStateHint   = "Open a CSV with ctrl+o, or drop one onto the terminal."
	NoMatchesMessage = "No rows match the current filter."
)

// Timings
const (
	CopiedFlashDuration   = 1200 * time.Millisecond
	WatchDebounceDuration = 150 * time.Millisecond
)

// Display limits
const (
	RowKeyGroupLen   = 12
	RowKeyTextLen    = 16
	RowKeyIDLen      = 4
	MaxPreviewBytes  = 100 * 1024
	MaxPreviewLines  = 200
	MinSplitWidth    = 80 // Below this width the editor stacks under the row list
	QueryCharLimit   = 200
	FilePickerHeight = 8
	EditorMaxLines   = 10000 // The textarea drops lines past this; longer buffers are read-only
)

// ShortID returns a stable short hex ID for s.
func ShortID(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])[:RowKeyIDLen]
}

// RowKey builds a human-readable key for a row from truncated group/text
// prefixes plus a short hash. Keys are a display and debugging aid only:
// two rows may share a key, so positional indexes remain the row identity.
func RowKey(group, text string, order int) string {
	var sb strings.Builder
	if group != "" {
		sb.WriteString(TruncateRunes(group, RowKeyGroupLen))
		sb.WriteString("/")
	}
	sb.WriteString(TruncateRunes(text, RowKeyTextLen))
	sb.WriteString("~")
	sb.WriteString(ShortID(group + "\x00" + text + "\x00" + strconv.Itoa(order)))
	return sb.String()
}

// TruncateRunes returns at most n runes of s without an ellipsis.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// TruncateWithEllipsis shortens s to maxLen runes, ending with an ellipsis
// when it had to cut.
func TruncateWithEllipsis(s string, maxLen int) string {
	if maxLen < 1 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen == 1 {
		return EllipsisRune
	}
	return TruncateRunes(s, maxLen-1) + EllipsisRune
}
