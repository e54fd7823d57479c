package filemanager

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/fsnotify/fsnotify"
)

func TestAddCreatedSkipsHiddenDirs(t *testing.T) {
	d := t.TempDir()
	hidden := filepath.Join(d, ".git")
	visible := filepath.Join(d, "s3")
	for _, p := range []string{filepath.Join(hidden, "objects"), filepath.Join(visible, ".cache"), filepath.Join(visible, "raw")} {
		if err := os.MkdirAll(p, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	defer w.Close()

	if err := addCreated(w, hidden, true); err != nil {
		t.Fatalf("add hidden: %v", err)
	}
	if err := addCreated(w, visible, true); err != nil {
		t.Fatalf("add visible: %v", err)
	}
	got := w.WatchList()
	slices.Sort(got)
	want := []string{visible, filepath.Join(visible, "raw")}
	if !slices.Equal(got, want) {
		t.Fatalf("watching %v, want %v", got, want)
	}

	if err := addCreated(w, hidden, false); err != nil {
		t.Fatalf("add hidden: %v", err)
	}
	if !slices.Contains(w.WatchList(), hidden) {
		t.Fatalf("hidden dir not watched with skipHidden=false: %v", w.WatchList())
	}
}
