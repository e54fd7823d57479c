package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestExpandHome(t *testing.T) {
	// Set a deterministic HOME for the duration of this test so we never skip.
	origHome, hadHome := os.LookupEnv("HOME")
	origUserProfile, hadUserProfile := os.LookupEnv("USERPROFILE")
	t.Cleanup(func() {
		if hadHome {
			_ = os.Setenv("HOME", origHome)
		} else {
			_ = os.Unsetenv("HOME")
		}
		if hadUserProfile {
			_ = os.Setenv("USERPROFILE", origUserProfile)
		} else {
			_ = os.Unsetenv("USERPROFILE")
		}
	})

	home := t.TempDir()
	// Configure both env vars for cross-platform behavior of os.UserHomeDir.
	_ = os.Setenv("HOME", home)
	if runtime.GOOS == "windows" {
		_ = os.Setenv("USERPROFILE", home)
	}
	// raw path unaffected
	if got, err := ExpandHome("/tmp"); err != nil || got != "/tmp" {
		t.Fatalf("got %q err=%v", got, err)
	}
	// empty path
	if got, err := ExpandHome(""); err != nil || got != "" {
		t.Fatalf("got %q err=%v", got, err)
	}
	// ~ expansion
	p, err := ExpandHome("~")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if p != home {
		t.Fatalf("expected %q, got %q", home, p)
	}
	// ~/subdir
	sub := "test-sub"
	exp, err := ExpandHome("~/" + sub)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if runtime.GOOS == "windows" {
		if filepath.Base(exp) != sub {
			t.Fatalf("unexpected expanded path: %q", exp)
		}
	} else {
		expected := filepath.Join(home, sub)
		if exp != expected {
			t.Fatalf("expected %q, got %q", expected, exp)
		}
	}
}

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestFind(t *testing.T) {
	d := t.TempDir()
	writeFile(t, filepath.Join(d, "a.txt"), 1)
	writeFile(t, filepath.Join(d, "sub", "b.txt"), 1)
	writeFile(t, filepath.Join(d, "sub", "c.csv"), 1)
	writeFile(t, filepath.Join(d, ".hidden.txt"), 1)
	writeFile(t, filepath.Join(d, "~$lock.txt"), 1)

	got, err := Find("*.txt", d, true)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	want := []string{filepath.Join(d, "a.txt"), filepath.Join(d, "sub", "b.txt")}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v want %v", got, want)
	}

	all, err := Find("*.txt", d, false)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected hidden files included, got %v", all)
	}

	if _, err := Find("[", d, true); err == nil {
		t.Fatalf("expected bad pattern error")
	}
	if _, err := Find("*", filepath.Join(d, "missing"), true); err == nil {
		t.Fatalf("expected walk error for missing root")
	}
}

func TestCheckExist(t *testing.T) {
	d := t.TempDir()
	p := filepath.Join(d, "x")
	writeFile(t, p, 0)
	if err := CheckExist(p, d); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	err := CheckExist(p, filepath.Join(d, "nope"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
	if !PathExists(p) || PathExists(filepath.Join(d, "nope")) {
		t.Fatalf("PathExists mismatch")
	}
}

func TestParseUnit(t *testing.T) {
	for s, want := range map[string]Unit{"b": B, "KB": KB, "mb": MB, "GB": GB, "tb": TB} {
		got, err := ParseUnit(s)
		if err != nil || got != want {
			t.Fatalf("ParseUnit(%q) = %v, %v", s, got, err)
		}
		if want.String() != strings.ToUpper(s) {
			t.Fatalf("String() = %q", want.String())
		}
	}
	if _, err := ParseUnit("PB"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestFileSizes(t *testing.T) {
	d := t.TempDir()
	small := filepath.Join(d, "small")
	big := filepath.Join(d, "big")
	writeFile(t, small, 512)
	writeFile(t, big, 2048)

	got, err := FileSizes([]string{small, big}, KB)
	if err != nil {
		t.Fatalf("sizes: %v", err)
	}
	if len(got) != 2 || got[0].Path != big || got[0].Size != 2 || got[1].Size != 0.5 {
		t.Fatalf("unexpected sizes: %+v", got)
	}
	if TotalBytes(got) != 2560 {
		t.Fatalf("total = %d", TotalBytes(got))
	}
	if _, err := FileSizes([]string{filepath.Join(d, "gone")}, MB); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestHumanSize(t *testing.T) {
	if got := HumanSize(2048); got != "2.0 KiB" {
		t.Fatalf("got %q", got)
	}
	if got := HumanSize(0); got != "0 B" {
		t.Fatalf("got %q", got)
	}
}
