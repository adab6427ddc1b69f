// Package history remembers the CSV files csvclip imported most recently.
package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/goccy/go-json"

	"github.com/donghojung/csvclip/internal/logging"
)

const (
	// FileName is the name of the history file inside the config directory.
	FileName = "recent.json"
	// MaxEntries is the maximum number of files to keep.
	MaxEntries = 20
)

// ErrDisabled is returned when recent files are requested but not being kept.
var ErrDisabled = errors.New("recent files are off (set remember_files: true in the config)")

// Entry is one imported file.
type Entry struct {
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// Store reads and writes the recent-files list in dir.
type Store struct {
	dir string
	now func() time.Time
}

// New creates a Store that keeps its file in dir.
func New(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Path returns the history file path.
func (s *Store) Path() string {
	return filepath.Join(s.dir, FileName)
}

// Add records path as the most recent import. Re-adding a path moves it to the top.
func (s *Store) Add(path string) error {
	if path == "" {
		return nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	entries, err := s.Load()
	if err != nil {
		// If history can't be loaded, start fresh.
		entries = nil
	}

	filtered := make([]Entry, 0, len(entries)+1)
	filtered = append(filtered, Entry{Path: abs, Timestamp: s.now()})
	for _, e := range entries {
		if e.Path != abs {
			filtered = append(filtered, e)
		}
	}
	if len(filtered) > MaxEntries {
		filtered = filtered[:MaxEntries]
	}
	return s.save(filtered)
}

// Load returns the entries, most recent first. A missing file is an empty
// history; a corrupt one is moved aside and treated as empty.
func (s *Store) Load() ([]Entry, error) {
	path := s.Path()
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is inside the config dir
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		logging.Warn("corrupt history %s: %v", path, err)
		_ = os.Rename(path, path+".corrupt")
		return nil, nil
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	return entries, nil
}

// Existing returns the recorded paths that are still regular files, most recent first.
func (s *Store) Existing() ([]string, error) {
	entries, err := s.Load()
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if info, err := os.Stat(e.Path); err == nil && info.Mode().IsRegular() {
			paths = append(paths, e.Path)
		}
	}
	return paths, nil
}

// Last returns the most recent path that still exists.
func (s *Store) Last() (string, bool) {
	paths, err := s.Existing()
	if err != nil || len(paths) == 0 {
		return "", false
	}
	return paths[0], true
}

// save writes entries through a temp file so a crash never leaves a torn file.
func (s *Store) save(entries []Entry) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, FileName+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.Path())
}
