package rows

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/donghojung/csvclip/internal/constants"
	"github.com/donghojung/csvclip/internal/logging"
)

type options struct {
	defaultGroup string
}

// Option tweaks an import.
type Option func(*options)

// WithDefaultGroup sets the label given to grouped rows without a group.
// Blank labels are ignored so grouped rows always keep a non-empty group.
func WithDefaultGroup(label string) Option {
	return func(o *options) {
		if label = normalizeGroup(label); label != "" {
			o.defaultGroup = label
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{defaultGroup: constants.DefaultGroup}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Import normalises records into a Collection. ModeAuto is resolved with
// DetectMode. When no row survives normalisation, Import returns the empty
// collection together with ErrNoRows.
func Import(records [][]string, mode Mode, opts ...Option) (Collection, error) {
	o := buildOptions(opts)
	if mode == ModeAuto {
		mode = DetectMode(records)
	}

	coll := Collection{Mode: mode}
	seen := make(map[string]bool)
	for order, rec := range records {
		var group, text string
		switch mode {
		case ModeGrouped:
			group, text = groupedCells(rec, o.defaultGroup)
		default:
			text = strings.TrimSpace(strings.Join(rec, constants.PlainJoinSep))
		}
		if text == "" {
			continue
		}
		coll.Rows = append(coll.Rows, Row{
			Index: len(coll.Rows),
			Order: order,
			Group: group,
			Text:  text,
		})
		if group != "" && !seen[group] {
			seen[group] = true
			coll.Groups = append(coll.Groups, group)
		}
	}

	if coll.Empty() {
		return coll, ErrNoRows
	}
	return coll, nil
}

// groupedCells splits a grouped-mode record into its group and text.
func groupedCells(rec []string, defaultGroup string) (group, text string) {
	switch len(rec) {
	case 0:
		return defaultGroup, ""
	case 1:
		return defaultGroup, strings.TrimSpace(rec[0])
	}
	group = normalizeGroup(rec[0])
	if group == "" {
		group = defaultGroup
	}
	return group, strings.TrimSpace(rec[1])
}

// normalizeGroup collapses whitespace runs to single spaces and trims.
func normalizeGroup(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CheckExtension accepts paths ending in .csv, in any letter case.
func CheckExtension(path string) error {
	if strings.EqualFold(filepath.Ext(path), constants.CSVExtension) {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Base(path))
}

// ImportFile reads, tokenises and imports the CSV file at path.
// Read and tokenizer failures wrap ErrParse; an empty result wraps ErrNoRows.
func ImportFile(path string, mode Mode, opts ...Option) (Collection, error) {
	timer := logging.StartTimer("import " + filepath.Base(path))

	f, err := os.Open(path) //nolint:gosec // G304: path is chosen by the user
	if err != nil {
		timer.StopWithResult(false, err.Error())
		return Collection{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer func() { _ = f.Close() }()

	records, err := ReadRecords(f)
	if err != nil {
		timer.StopWithResult(false, err.Error())
		return Collection{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	coll, err := Import(records, mode, opts...)
	if err != nil {
		timer.StopWithResult(false, err.Error())
		return coll, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	timer.StopWithResult(true, fmt.Sprintf("%d records, %d rows, mode %s", len(records), coll.Len(), coll.Mode))
	return coll, nil
}
