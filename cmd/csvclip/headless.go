package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/donghojung/csvclip/internal/app"
	"github.com/donghojung/csvclip/internal/history"
	"github.com/donghojung/csvclip/internal/rows"
	"github.com/donghojung/csvclip/internal/state"
)

// filterOptions are the flags that narrow the visible rows.
type filterOptions struct {
	query string
	group string
}

func (f *filterOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.query, "query", "q", "", "Only rows containing this text (case-insensitive)")
	cmd.Flags().StringVarP(&f.group, "group", "g", "", "Only rows of this group (ALL for every group)")
}

// importFile imports file with console logging to stderr. The caller closes
// the returned App.
func importFile(cmd *cobra.Command, opts *rootOptions, file string) (*app.App, rows.Collection, error) {
	application, err := newApp(opts)
	if err != nil {
		return nil, rows.Collection{}, err
	}
	application.SetupConsoleLogging(cmd.ErrOrStderr())

	coll, err := application.ImportFile(file)
	if err != nil {
		_ = application.Close()
		return nil, rows.Collection{}, err
	}
	return application, coll, nil
}

// loadState imports file and applies the filter, the same way the TUI does.
func loadState(cmd *cobra.Command, opts *rootOptions, file string, filter filterOptions) (*app.App, *state.State, error) {
	application, coll, err := importFile(cmd, opts, file)
	if err != nil {
		return nil, nil, err
	}

	st := state.New()
	st.LoadCollection(filepath.Base(file), coll)
	st.SetGroup(filter.group)
	st.SetQuery(filter.query)
	return application, st, nil
}

// visibleRow is the JSON form of one visible row.
type visibleRow struct {
	Pos   int    `json:"pos"`
	Index int    `json:"index"`
	Group string `json:"group,omitempty"`
	Text  string `json:"text"`
}

func newRowsCmd(opts *rootOptions) *cobra.Command {
	var (
		filter filterOptions
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "rows FILE",
		Short: "Print the visible rows of a CSV file",
		Long: `Print the rows that pass the filter, one per line, prefixed with their
1-based visible position. The positions are the ones "join --pick" expects.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, st, err := loadState(cmd, opts, args[0], filter)
			if err != nil {
				return err
			}
			defer func() { _ = application.Close() }()

			visible := st.VisibleRows()
			out := cmd.OutOrStdout()
			if asJSON {
				items := make([]visibleRow, 0, len(visible))
				for i, r := range visible {
					items = append(items, visibleRow{Pos: i + 1, Index: r.Index, Group: r.Group, Text: r.Text})
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for i, r := range visible {
				if st.Mode() == rows.ModeGrouped {
					fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, r.Group, r.Text)
				} else {
					fmt.Fprintf(tw, "%d\t%s\n", i+1, r.Text)
				}
			}
			return tw.Flush()
		},
	}
	filter.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print rows as JSON")
	return cmd
}

func newGroupsCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "groups FILE",
		Short: "Print the groups of a CSV file with their row counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, coll, err := importFile(cmd, opts, args[0])
			if err != nil {
				return err
			}
			defer func() { _ = application.Close() }()

			counts := coll.GroupCounts()
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(counts)
			}
			if coll.Mode != rows.ModeGrouped {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s has plain rows and no groups\n", filepath.Base(args[0]))
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, gc := range counts {
				fmt.Fprintf(tw, "%s\t%d\n", gc.Group, gc.Count)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print groups as JSON")
	return cmd
}

func newJoinCmd(opts *rootOptions) *cobra.Command {
	var (
		filter filterOptions
		pick   string
		doCopy bool
	)
	cmd := &cobra.Command{
		Use:   "join FILE --pick 1,3,2",
		Short: "Append picked rows into one buffer and print it",
		Long: `Click the rows at the given 1-based visible positions, in order, and print
the resulting editor buffer. Rows are joined with a single space unless the
buffer already ends in whitespace.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			positions, err := parsePicks(pick)
			if err != nil {
				return err
			}

			application, st, err := loadState(cmd, opts, args[0], filter)
			if err != nil {
				return err
			}
			defer func() { _ = application.Close() }()

			for _, p := range positions {
				if !st.Click(p - 1) {
					return fmt.Errorf("position %d is not visible (1..%d)", p, st.VisibleCount())
				}
			}

			text := st.Editor()
			fmt.Fprintln(cmd.OutOrStdout(), text)

			if !doCopy {
				return nil
			}
			clip, err := newClipboard(application, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := clip.WriteAll(text); err != nil {
				return fmt.Errorf("copy failed: %w", err)
			}
			return nil
		},
	}
	filter.register(cmd)
	cmd.Flags().StringVarP(&pick, "pick", "p", "", "Comma-separated 1-based visible positions, in click order")
	cmd.Flags().BoolVar(&doCopy, "copy", false, "Also copy the buffer to the clipboard")
	_ = cmd.MarkFlagRequired("pick")
	return cmd
}

// parsePicks parses "1, 3,2" into positions.
func parsePicks(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid position %q: want a number from 1", part)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no positions to pick")
	}
	return out, nil
}

func newRecentCmd(opts *rootOptions) *cobra.Command {
	var forget bool
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently imported CSV files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := newApp(opts)
			if err != nil {
				return err
			}
			application.SetupConsoleLogging(cmd.ErrOrStderr())
			defer func() { _ = application.Close() }()

			if forget {
				return application.ForgetHistory()
			}
			store := application.History()
			if store == nil {
				return history.ErrDisabled
			}

			paths, err := store.Existing()
			if err != nil {
				return fmt.Errorf("failed to read history: %w", err)
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&forget, "clear", false, "Forget all recent files")
	return cmd
}
