package rows

import (
	"fmt"
	"strings"
)

// Mode selects how CSV records become rows.
type Mode int

const (
	// ModeAuto picks plain or grouped from the shape of the records.
	ModeAuto Mode = iota
	// ModePlain joins every cell of a record into one line of text.
	ModePlain
	// ModeGrouped reads cell 0 as a group label and cell 1 as text.
	ModeGrouped
)

// String returns the mode name used in flags and config.
func (m Mode) String() string {
	switch m {
	case ModePlain:
		return "plain"
	case ModeGrouped:
		return "grouped"
	default:
		return "auto"
	}
}

// ParseMode converts "auto", "plain" or "grouped" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "plain":
		return ModePlain, nil
	case "grouped", "group":
		return ModeGrouped, nil
	default:
		return ModeAuto, fmt.Errorf("unknown mode %q (want auto, plain or grouped)", s)
	}
}

// DetectMode resolves ModeAuto for a set of records. A file is treated as
// grouped when its widest record has exactly two cells and at least one
// record actually carries text in the second cell. Anything wider is read as
// free text that happened to contain commas.
func DetectMode(records [][]string) Mode {
	widest := 0
	hasSecondCell := false
	for _, rec := range records {
		widest = max(widest, len(rec))
		if len(rec) >= 2 && strings.TrimSpace(rec[1]) != "" {
			hasSecondCell = true
		}
	}
	if widest == 2 && hasSecondCell {
		return ModeGrouped
	}
	return ModePlain
}
