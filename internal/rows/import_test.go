package rows

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/donghojung/csvclip/internal/constants"
)

func TestImport_Plain(t *testing.T) {
	tests := []struct {
		name    string
		records [][]string
		want    []Row
	}{
		{
			name:    "one cell per record",
			records: [][]string{{"One"}, {"Two"}, {"Three"}},
			want: []Row{
				{Index: 0, Order: 0, Text: "One"},
				{Index: 1, Order: 1, Text: "Two"},
				{Index: 2, Order: 2, Text: "Three"},
			},
		},
		{
			name:    "cells are rejoined with commas",
			records: [][]string{{"Hello", " world", " again"}},
			want:    []Row{{Index: 0, Order: 0, Text: "Hello, world, again"}},
		},
		{
			name:    "blank records are dropped but order is kept",
			records: [][]string{{"  "}, {"First"}, {""}, {"  Second  "}},
			want: []Row{
				{Index: 0, Order: 1, Text: "First"},
				{Index: 1, Order: 3, Text: "Second"},
			},
		},
		{
			name:    "all-empty cells join to commas and survive",
			records: [][]string{{"", ""}},
			want:    []Row{{Index: 0, Order: 0, Text: ","}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coll, err := Import(tt.records, ModePlain)
			if err != nil {
				t.Fatalf("Import error = %v", err)
			}
			if coll.Mode != ModePlain {
				t.Errorf("Mode = %v, want plain", coll.Mode)
			}
			if diff := cmp.Diff(tt.want, coll.Rows); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
			if len(coll.Groups) != 0 {
				t.Errorf("plain import should have no groups, got %v", coll.Groups)
			}
		})
	}
}

func TestImport_Grouped(t *testing.T) {
	tests := []struct {
		name    string
		records [][]string
		want    []Row
	}{
		{
			name:    "group and text",
			records: [][]string{{"GroupA", "Comment 1"}, {"GroupB", "Comment 2"}},
			want: []Row{
				{Index: 0, Order: 0, Group: "GroupA", Text: "Comment 1"},
				{Index: 1, Order: 1, Group: "GroupB", Text: "Comment 2"},
			},
		},
		{
			name:    "blank group gets the default",
			records: [][]string{{" ", "Hello"}},
			want:    []Row{{Index: 0, Order: 0, Group: constants.DefaultGroup, Text: "Hello"}},
		},
		{
			name:    "single cell is text in the default group",
			records: [][]string{{"  Lonely line "}},
			want:    []Row{{Index: 0, Order: 0, Group: constants.DefaultGroup, Text: "Lonely line"}},
		},
		{
			name:    "group whitespace is collapsed",
			records: [][]string{{"  Team \t  Alpha\n", "  text  "}},
			want:    []Row{{Index: 0, Order: 0, Group: "Team Alpha", Text: "text"}},
		},
		{
			name:    "extra cells are ignored",
			records: [][]string{{"G", "keep", "drop", "drop too"}},
			want:    []Row{{Index: 0, Order: 0, Group: "G", Text: "keep"}},
		},
		{
			name:    "empty text is dropped",
			records: [][]string{{"G", "   "}, {"H", "kept"}, {}},
			want:    []Row{{Index: 0, Order: 1, Group: "H", Text: "kept"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coll, err := Import(tt.records, ModeGrouped)
			if err != nil {
				t.Fatalf("Import error = %v", err)
			}
			if diff := cmp.Diff(tt.want, coll.Rows); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
			for _, r := range coll.Rows {
				if r.Group == "" {
					t.Errorf("grouped row %d has empty group", r.Index)
				}
			}
		})
	}
}

func TestImport_GroupsInFirstAppearanceOrder(t *testing.T) {
	records := [][]string{{"B", "1"}, {"A", "2"}, {"B", "3"}, {"", "4"}}
	coll, err := Import(records, ModeGrouped)
	if err != nil {
		t.Fatalf("Import error = %v", err)
	}
	want := []string{"B", "A", constants.DefaultGroup}
	if diff := cmp.Diff(want, coll.Groups); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}

	counts := coll.GroupCounts()
	wantCounts := []GroupCount{{"B", 2}, {"A", 1}, {constants.DefaultGroup, 1}}
	if diff := cmp.Diff(wantCounts, counts); diff != "" {
		t.Errorf("group counts mismatch (-want +got):\n%s", diff)
	}
}

func TestImport_WithDefaultGroup(t *testing.T) {
	records := [][]string{{"", "Hello"}}

	coll, err := Import(records, ModeGrouped, WithDefaultGroup("  Misc  "))
	if err != nil {
		t.Fatalf("Import error = %v", err)
	}
	if coll.Rows[0].Group != "Misc" {
		t.Errorf("Group = %q, want Misc", coll.Rows[0].Group)
	}

	// A blank override keeps the built-in default.
	coll, err = Import(records, ModeGrouped, WithDefaultGroup("   "))
	if err != nil {
		t.Fatalf("Import error = %v", err)
	}
	if coll.Rows[0].Group != constants.DefaultGroup {
		t.Errorf("Group = %q, want %q", coll.Rows[0].Group, constants.DefaultGroup)
	}
}

func TestImport_NoRows(t *testing.T) {
	tests := []struct {
		name    string
		records [][]string
		mode    Mode
	}{
		{"nil records", nil, ModeAuto},
		{"blank plain lines", [][]string{{" "}, {"\t"}}, ModePlain},
		{"grouped without text", [][]string{{"G", ""}, {"H", " "}}, ModeGrouped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coll, err := Import(tt.records, tt.mode)
			if !errors.Is(err, ErrNoRows) {
				t.Fatalf("Import error = %v, want ErrNoRows", err)
			}
			if !coll.Empty() {
				t.Errorf("collection should be empty, got %d rows", coll.Len())
			}
		})
	}
}

func TestDetectMode(t *testing.T) {
	tests := []struct {
		name    string
		records [][]string
		want    Mode
	}{
		{"single column", [][]string{{"One"}, {"Two"}}, ModePlain},
		{"two columns", [][]string{{"A", "x"}, {"B", "y"}}, ModeGrouped},
		{"two columns with a short record", [][]string{{"A", "x"}, {"lonely"}}, ModeGrouped},
		{"second column always blank", [][]string{{"A", ""}, {"B", " "}}, ModePlain},
		{"three columns is free text", [][]string{{"I", " said", " hi"}, {"A", "x"}}, ModePlain},
		{"no records", nil, ModePlain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectMode(tt.records); got != tt.want {
				t.Errorf("DetectMode = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"Plain", ModePlain, false},
		{" grouped ", ModeGrouped, false},
		{"group", ModeGrouped, false},
		{"columns", ModeAuto, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRowSearchableAndKey(t *testing.T) {
	plain := Row{Index: 0, Order: 0, Text: "Hello"}
	if plain.Searchable() != "Hello" {
		t.Errorf("plain Searchable = %q", plain.Searchable())
	}
	grouped := Row{Index: 1, Order: 4, Group: "GroupA", Text: "Comment 1"}
	if grouped.Searchable() != "GroupA Comment 1" {
		t.Errorf("grouped Searchable = %q", grouped.Searchable())
	}
	if !strings.HasPrefix(grouped.Key(), "GroupA/Comment 1~") {
		t.Errorf("Key = %q", grouped.Key())
	}
}

func TestCheckExtension(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"comments.csv", false},
		{"/tmp/COMMENTS.CSV", false},
		{"data.Csv", false},
		{"notes.txt", true},
		{"archive.csv.gz", true},
		{"csv", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := CheckExtension(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckExtension(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnsupportedFile) {
				t.Errorf("CheckExtension(%q) error = %v, want ErrUnsupportedFile", tt.path, err)
			}
		})
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImportFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("plain file", func(t *testing.T) {
		path := writeFile(t, dir, "plain.csv", "One\nTwo\nThree\n")
		coll, err := ImportFile(path, ModeAuto)
		if err != nil {
			t.Fatalf("ImportFile error = %v", err)
		}
		if coll.Mode != ModePlain || coll.Len() != 3 {
			t.Errorf("got mode %v with %d rows, want plain with 3", coll.Mode, coll.Len())
		}
	})

	t.Run("grouped file", func(t *testing.T) {
		path := writeFile(t, dir, "grouped.csv", "GroupA,Comment 1\nGroupB,Comment 2")
		coll, err := ImportFile(path, ModeAuto)
		if err != nil {
			t.Fatalf("ImportFile error = %v", err)
		}
		want := []Row{
			{Index: 0, Order: 0, Group: "GroupA", Text: "Comment 1"},
			{Index: 1, Order: 1, Group: "GroupB", Text: "Comment 2"},
		}
		if diff := cmp.Diff(want, coll.Rows); diff != "" {
			t.Errorf("rows mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("blank file", func(t *testing.T) {
		path := writeFile(t, dir, "blank.csv", "\n   \n\t\n")
		_, err := ImportFile(path, ModeAuto)
		if !errors.Is(err, ErrNoRows) {
			t.Errorf("ImportFile error = %v, want ErrNoRows", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ImportFile(filepath.Join(dir, "missing.csv"), ModeAuto)
		if !errors.Is(err, ErrParse) {
			t.Errorf("ImportFile error = %v, want ErrParse", err)
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		path := writeFile(t, dir, "broken.csv", "a,\"never closed\n")
		_, err := ImportFile(path, ModeAuto)
		if !errors.Is(err, ErrParse) {
			t.Errorf("ImportFile error = %v, want ErrParse", err)
		}
	})
}
