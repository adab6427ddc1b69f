// Package clipboard writes text to the user's clipboard, through the
// platform clipboard utility or an OSC 52 terminal escape sequence.
package clipboard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"

	"github.com/donghojung/csvclip/internal/logging"
)

var (
	// ErrClipboard wraps every failed write.
	ErrClipboard = errors.New("clipboard write failed")

	// ErrUnsupported means no clipboard utility is available on this system.
	ErrUnsupported = errors.New("no clipboard utility available")
)

// Backend names accepted by New.
const (
	BackendAuto   = "auto"
	BackendSystem = "system"
	BackendOSC52  = "osc52"
)

// Writer puts text on a clipboard.
type Writer interface {
	WriteAll(text string) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(text string) error

// WriteAll calls f(text).
func (f WriterFunc) WriteAll(text string) error {
	return f(text)
}

// Swapped in tests.
var (
	systemWriteAll    = clipboard.WriteAll
	systemUnsupported = func() bool { return clipboard.Unsupported }
)

// System writes through the platform clipboard (pbcopy, xclip, wl-copy, ...).
type System struct{}

// WriteAll implements Writer.
func (System) WriteAll(text string) error {
	if systemUnsupported() {
		return fmt.Errorf("%w: %w", ErrClipboard, ErrUnsupported)
	}
	if err := systemWriteAll(text); err != nil {
		return fmt.Errorf("%w: %v", ErrClipboard, err)
	}
	return nil
}

// OSC52 asks the terminal to set its clipboard with an OSC 52 sequence.
// Inside tmux or GNU screen the sequence is wrapped for passthrough.
type OSC52 struct {
	Out    io.Writer
	Tmux   bool
	Screen bool
}

// NewOSC52 returns an OSC52 writer for out, detecting tmux and screen from
// the environment.
func NewOSC52(out io.Writer) OSC52 {
	term := os.Getenv("TERM")
	return OSC52{
		Out:    out,
		Tmux:   os.Getenv("TMUX") != "" || strings.HasPrefix(term, "tmux"),
		Screen: os.Getenv("STY") != "" || strings.HasPrefix(term, "screen"),
	}
}

// WriteAll implements Writer.
func (o OSC52) WriteAll(text string) error {
	if o.Out == nil {
		return fmt.Errorf("%w: no terminal to write to", ErrClipboard)
	}
	seq := osc52.New(text)
	switch {
	case o.Tmux:
		seq = seq.Tmux()
	case o.Screen:
		seq = seq.Screen()
	}
	if _, err := seq.WriteTo(o.Out); err != nil {
		return fmt.Errorf("%w: %v", ErrClipboard, err)
	}
	return nil
}

// Auto tries Primary first and falls back to Fallback when it fails.
type Auto struct {
	Primary  Writer
	Fallback Writer
}

// WriteAll implements Writer.
func (a Auto) WriteAll(text string) error {
	err := a.Primary.WriteAll(text)
	if err == nil || a.Fallback == nil {
		return err
	}
	logging.Debug("primary clipboard failed, falling back: %v", err)
	if ferr := a.Fallback.WriteAll(text); ferr != nil {
		return errors.Join(err, ferr)
	}
	return nil
}

// New returns the writer for backend ("auto", "system" or "osc52").
// out receives OSC 52 sequences and is normally the terminal.
func New(backend string, out io.Writer) (Writer, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendAuto:
		return Auto{Primary: System{}, Fallback: NewOSC52(out)}, nil
	case BackendSystem:
		return System{}, nil
	case BackendOSC52:
		return NewOSC52(out), nil
	default:
		return nil, fmt.Errorf("unknown clipboard backend %q (want auto, system or osc52)", backend)
	}
}
