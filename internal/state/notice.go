package state

import (
	"errors"
	"fmt"

	"github.com/donghojung/csvclip/internal/rows"
)

// NoticeKind classifies the message shown to the user.
type NoticeKind string

// Notice kinds.
const (
	NoticeNone             NoticeKind = ""
	NoticeParseFailure     NoticeKind = "parse_failure"     // File could not be read or tokenised
	NoticeNoRows           NoticeKind = "no_rows"           // File held no usable rows
	NoticeUnsupportedFile  NoticeKind = "unsupported_file"  // Dropped or picked file is not a .csv
	NoticeClipboardFailure NoticeKind = "clipboard_failure" // Copy was rejected or unsupported
	NoticeInfo             NoticeKind = "info"
)

// Notice is the single user-visible message. A new notice replaces the old one.
type Notice struct {
	Kind NoticeKind
	Text string
}

// Empty reports whether there is nothing to show.
func (n Notice) Empty() bool {
	return n.Kind == NoticeNone && n.Text == ""
}

// IsError reports whether the notice describes a failure.
func (n Notice) IsError() bool {
	switch n.Kind {
	case NoticeParseFailure, NoticeNoRows, NoticeUnsupportedFile, NoticeClipboardFailure:
		return true
	default:
		return false
	}
}

// noticeForImport maps an import error to the notice the user sees.
func noticeForImport(err error) Notice {
	switch {
	case errors.Is(err, rows.ErrNoRows):
		return Notice{Kind: NoticeNoRows, Text: err.Error()}
	case errors.Is(err, rows.ErrUnsupportedFile):
		return Notice{Kind: NoticeUnsupportedFile, Text: fmt.Sprintf("%v (only .csv files can be imported)", err)}
	default:
		return Notice{Kind: NoticeParseFailure, Text: err.Error()}
	}
}
