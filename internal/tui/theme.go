// Package tui provides the csvclip terminal user interface.
package tui

import (
	"os"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/donghojung/csvclip/internal/config"
)

const (
	darkModeUnknown int32 = iota
	darkModeLight
	darkModeDark
)

var cachedDarkMode atomic.Int32

// hasDarkBackground is swapped in tests.
var hasDarkBackground = lipgloss.HasDarkBackground

// DetectDarkMode returns whether the terminal is in dark mode for theme:
//   - "light": always false
//   - "dark": always true
//   - "auto" or empty: lipgloss background detection, cached after the first call
//
// Call it BEFORE bubbletea starts, as background detection reads from the terminal.
func DetectDarkMode(theme config.Theme) bool {
	switch theme {
	case config.ThemeLight:
		return false
	case config.ThemeDark:
		return true
	default:
		if isDark, ok := cachedDarkModeValue(); ok {
			return isDark
		}
		isDark := detectDarkModeWithRetry()
		setCachedDarkMode(isDark)
		return isDark
	}
}

func cachedDarkModeValue() (bool, bool) {
	switch cachedDarkMode.Load() {
	case darkModeDark:
		return true, true
	case darkModeLight:
		return false, true
	default:
		return false, false
	}
}

// ResetDarkModeCache forgets the detected background so the next auto
// detection queries the terminal again.
func ResetDarkModeCache() {
	cachedDarkMode.Store(darkModeUnknown)
}

func setCachedDarkMode(isDark bool) {
	if isDark {
		cachedDarkMode.Store(darkModeDark)
		return
	}
	cachedDarkMode.Store(darkModeLight)
}

// detectDarkModeWithRetry queries the background a few times and takes the
// majority, since the terminal reply is unreliable right after startup.
func detectDarkModeWithRetry() bool {
	_ = os.Stdout.Sync()
	time.Sleep(5 * time.Millisecond)

	const attempts = 3
	darkCount := 0
	for i := range attempts {
		if hasDarkBackground() {
			darkCount++
		}
		if i < attempts-1 {
			time.Sleep(10 * time.Millisecond)
		}
	}
	return darkCount >= 2
}

// ThemeColors is the palette shared by every view.
type ThemeColors struct {
	Accent        lipgloss.Color
	Border        lipgloss.Color
	BorderFocused lipgloss.Color
	TextNormal    lipgloss.Color
	TextDim       lipgloss.Color
	TextBright    lipgloss.Color
	TextInverted  lipgloss.Color
	Selection     lipgloss.Color
	Group         lipgloss.Color
	SuccessColor  lipgloss.Color
	WarningColor  lipgloss.Color
	ErrorColor    lipgloss.Color
	ScrollTrack   lipgloss.Color
	ScrollThumb   lipgloss.Color
}

// lightDark picks between a light-background and a dark-background color.
func lightDark(isDark bool) func(light, dark lipgloss.Color) lipgloss.Color {
	return func(light, dark lipgloss.Color) lipgloss.Color {
		if isDark {
			return dark
		}
		return light
	}
}

// NewThemeColors returns the palette for a light or dark background.
func NewThemeColors(isDark bool) ThemeColors {
	ld := lightDark(isDark)
	return ThemeColors{
		Accent:        ld("25", "39"),
		Border:        ld("250", "240"),
		BorderFocused: ld("25", "39"),
		TextNormal:    ld("235", "252"),
		TextDim:       ld("245", "243"),
		TextBright:    ld("16", "231"),
		TextInverted:  ld("231", "16"),
		Selection:     ld("153", "24"),
		Group:         ld("130", "179"),
		SuccessColor:  ld("28", "42"),
		WarningColor:  ld("136", "214"),
		ErrorColor:    ld("160", "203"),
		ScrollTrack:   ld("250", "238"),
		ScrollThumb:   ld("245", "245"),
	}
}
