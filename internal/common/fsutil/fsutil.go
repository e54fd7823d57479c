package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gobwas/glob"
)

// ExpandHome expands a leading '~' to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" {
		return path, nil
	}
	if path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	// handle cases like ~/data/session1
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}

// PathExists checks if the given path exists.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}

// CheckExist returns an error wrapping os.ErrNotExist for the first path that
// is not on disk.
func CheckExist(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("check exist: %w", err)
		}
	}
	return nil
}

// Hidden reports whether a base name is a dotfile or an Office lock file.
func Hidden(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$")
}

// Find walks root (the working directory when empty) and returns the files
// whose base name matches the shell pattern, sorted. Hidden directories are
// still descended; excludeHidden only filters file names.
func Find(pattern, root string, excludeHidden bool) ([]string, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", pattern, err)
	}
	if root == "" {
		if root, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
	}
	if root, err = ExpandHome(root); err != nil {
		return nil, err
	}
	var out []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if excludeHidden && Hidden(name) {
			return nil
		}
		if g.Match(name) {
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(out)
	return out, nil
}

// Unit is a binary size unit.
type Unit int64

const (
	B  Unit = 1
	KB Unit = 1 << 10
	MB Unit = 1 << 20
	GB Unit = 1 << 30
	TB Unit = 1 << 40
)

func (u Unit) String() string {
	switch u {
	case B:
		return "B"
	case KB:
		return "KB"
	case MB:
		return "MB"
	case GB:
		return "GB"
	case TB:
		return "TB"
	default:
		return fmt.Sprintf("Unit(%d)", int64(u))
	}
}

// Convert expresses n bytes in u.
func (u Unit) Convert(n int64) float64 { return float64(n) / float64(u) }

// ParseUnit accepts B, KB, MB, GB and TB, case-insensitively.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "B":
		return B, nil
	case "KB":
		return KB, nil
	case "MB":
		return MB, nil
	case "GB":
		return GB, nil
	case "TB":
		return TB, nil
	default:
		return 0, fmt.Errorf("unknown unit %q (want B, KB, MB, GB or TB)", s)
	}
}

// FileSize is the size of one file.
type FileSize struct {
	Path  string
	Bytes int64
	Size  float64 // Bytes expressed in the requested unit
}

// FileSizes stats files and returns their sizes in unit, largest first.
// Ties are ordered by path.
func FileSizes(files []string, unit Unit) ([]FileSize, error) {
	if unit <= 0 {
		return nil, fmt.Errorf("invalid unit %d", int64(unit))
	}
	out := make([]FileSize, 0, len(files))
	for _, f := range files {
		st, err := os.Stat(f)
		if err != nil {
			return nil, fmt.Errorf("size: %w", err)
		}
		out = append(out, FileSize{Path: f, Bytes: st.Size(), Size: unit.Convert(st.Size())})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Bytes != out[j].Bytes {
			return out[i].Bytes > out[j].Bytes
		}
		return out[i].Path < out[j].Path
	})
	return out, nil
}

// TotalBytes sums the sizes.
func TotalBytes(sizes []FileSize) int64 {
	var n int64
	for _, s := range sizes {
		n += s.Bytes
	}
	return n
}

// HumanSize formats n bytes with binary prefixes, e.g. "1.5 MiB".
func HumanSize(n int64) string {
	if n < 0 {
		return "-" + humanize.IBytes(uint64(-n))
	}
	return humanize.IBytes(uint64(n))
}
