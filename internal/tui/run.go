package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/donghojung/csvclip/internal/logging"
)

// Run starts the TUI and blocks until the user quits.
func Run(opts Options) error {
	if opts.Zones == nil {
		opts.Zones = zone.New()
		defer opts.Zones.Close()
	}

	m := New(opts)
	defer m.Close()

	logging.Info("tui start (mode %s, watch %v)", opts.Mode, opts.Watch)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	logging.Info("tui exit")
	return nil
}
