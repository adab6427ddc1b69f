package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func waitChange(t *testing.T, w *Watcher, within time.Duration) bool {
	t.Helper()
	select {
	case <-w.Changes():
		return true
	case <-time.After(within):
		return false
	}
}

func TestWatcher_DebouncesBurst(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "comments.csv")
	if err := os.WriteFile(path, []byte("a\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(path, WithDebounce(80*time.Millisecond))
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	defer w.Close()

	for i := range 5 {
		content := []byte(string(rune('a'+i)) + "\n")
		if err := os.WriteFile(path, content, 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	if !waitChange(t, w, 2*time.Second) {
		t.Fatal("expected a change notification")
	}
	if waitChange(t, w, 250*time.Millisecond) {
		t.Error("burst should produce a single notification")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "comments.csv")
	if err := os.WriteFile(path, []byte("a\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(path, WithDebounce(30*time.Millisecond))
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.csv"), []byte("x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if waitChange(t, w, 200*time.Millisecond) {
		t.Error("change to a sibling file should be ignored")
	}
}

func TestWatcher_Remove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "comments.csv")
	if err := os.WriteFile(path, []byte("a\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(path)
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	defer w.Close()

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-w.Errors():
		if !errors.Is(err, ErrFileRemoved) {
			t.Errorf("error = %v, want ErrFileRemoved", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected ErrFileRemoved")
	}
}

func TestWatcher_CloseClosesChannels(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "comments.csv")

	w, err := New(path)
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	if w.Path() != path {
		t.Errorf("Path = %q, want %q", w.Path(), path)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close error = %v", err)
	}

	if _, ok := <-w.Changes(); ok {
		t.Error("Changes should be closed")
	}
	if _, ok := <-w.Errors(); ok {
		t.Error("Errors should be closed")
	}
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope", "comments.csv"))
	if err == nil {
		t.Fatal("expected an error for a missing directory")
	}
}
