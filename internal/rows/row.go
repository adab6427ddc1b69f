// Package rows turns CSV records into the ordered, normalised rows csvclip
// lets the user pick from.
package rows

import (
	"github.com/donghojung/csvclip/internal/constants"
)

// Row is one normalised, non-empty unit of text taken from a CSV record.
type Row struct {
	// Index is the row's position in its Collection and its identity.
	Index int
	// Order is the index of the CSV record the row came from.
	Order int
	// Group is empty in plain mode and never empty in grouped mode.
	Group string
	Text  string
}

// Key returns a readable, best-effort key for display and debugging.
// Keys can collide; use Index to identify a row.
func (r Row) Key() string {
	return constants.RowKey(r.Group, r.Text, r.Order)
}

// Searchable returns the text a query is matched against.
func (r Row) Searchable() string {
	if r.Group == "" {
		return r.Text
	}
	return r.Group + " " + r.Text
}

// Collection is the ordered result of one import. It is replaced wholesale
// on every import and never modified in place.
type Collection struct {
	Mode Mode
	Rows []Row
	// Groups lists distinct groups in first-appearance order (grouped mode only).
	Groups []string
}

// Len returns the number of rows.
func (c Collection) Len() int {
	return len(c.Rows)
}

// Empty reports whether the collection has no rows.
func (c Collection) Empty() bool {
	return len(c.Rows) == 0
}

// GroupCounts returns the number of rows per group, in Groups order.
func (c Collection) GroupCounts() []GroupCount {
	counts := make(map[string]int, len(c.Groups))
	for _, r := range c.Rows {
		counts[r.Group]++
	}
	out := make([]GroupCount, 0, len(c.Groups))
	for _, g := range c.Groups {
		out = append(out, GroupCount{Group: g, Count: counts[g]})
	}
	return out
}

// GroupCount pairs a group with its row count.
type GroupCount struct {
	Group string `json:"group"`
	Count int    `json:"count"`
}
