// Package filemanager groups the files of a project directory by pattern.
//
// A Manager is an instrumented broadcast type: listeners can observe its
// Refresh method and BaseDir property through the broadcast package.
package filemanager

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pntools/internal/common/fsutil"
	"pntools/pkg/broadcast"
)

// Class describes Manager to the broadcast package.
var Class = broadcast.MustClass("pntools/internal/filemanager", "Manager",
	broadcast.Method("Refresh"),
	broadcast.Property("BaseDir"),
	broadcast.ReadOnly("Groups"),
)

// findFiles is swapped out by tests that need a failing scan.
var findFiles = fsutil.Find

// Group is a named file selection. Files is the result of the last scan.
type Group struct {
	Name     string
	Patterns []string
	Include  []string
	Exclude  []string
	Files    []string
}

// Manager tracks groups of files below a base directory.
type Manager struct {
	broadcast.Object

	name          string
	excludeHidden bool
	log           zerolog.Logger

	mu      sync.RWMutex
	baseDir string
	groups  map[string]*Group
	order   []string
}

// Option configures a Manager.
type Option func(*Manager)

// WithName sets the identifier used for per-instance broadcast channels.
func WithName(name string) Option { return func(m *Manager) { m.name = name } }

// WithLogger installs a structured logger.
func WithLogger(l zerolog.Logger) Option { return func(m *Manager) { m.log = l } }

// WithHidden keeps dotfiles and Office lock files in scans.
func WithHidden(keep bool) Option { return func(m *Manager) { m.excludeHidden = !keep } }

// New returns a Manager rooted at baseDir, which must be an existing directory.
func New(baseDir string, opts ...Option) (*Manager, error) {
	m := &Manager{
		Object:        Class.NewObject(),
		excludeHidden: true,
		log:           log.Logger,
		groups:        make(map[string]*Group),
	}
	for _, opt := range opts {
		opt(m)
	}
	dir, err := resolveDir(baseDir)
	if err != nil {
		return nil, err
	}
	m.baseDir = dir
	return m, nil
}

func resolveDir(dir string) (string, error) {
	p, err := fsutil.ExpandHome(dir)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("abs path: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	st, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("base dir: %w", err)
	}
	if !st.IsDir() {
		return "", fmt.Errorf("base dir: %s is not a directory", abs)
	}
	return abs, nil
}

// Name implements broadcast.Named. Empty unless set with WithName.
func (m *Manager) Name() string { return m.name }

func (m *Manager) BaseDir() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.baseDir
}

// SetBaseDir moves the manager to another directory and rescans every group.
func (m *Manager) SetBaseDir(dir string) error {
	abs, err := resolveDir(dir)
	if err != nil {
		return err
	}
	return broadcast.Set(m, "BaseDir", func() error {
		found, err := m.scanAll(abs)
		if err != nil {
			return err
		}
		m.mu.Lock()
		m.baseDir = abs
		m.commit(found)
		m.mu.Unlock()
		m.log.Debug().Str("base_dir", abs).Int("groups", len(found)).Msg("base dir changed")
		return nil
	})
}

// Add scans the base dir for files matching any of patterns, keeps those
// whose path contains every include substring and none of the exclude
// substrings, and stores them under name. Adding an existing name replaces it.
func (m *Manager) Add(name string, patterns, include, exclude []string) error {
	if name == "" {
		return invalidGroupError{msg: "empty name"}
	}
	if len(patterns) == 0 {
		return invalidGroupError{msg: name + ": no patterns"}
	}
	g := &Group{
		Name:     name,
		Patterns: slices.Clone(patterns),
		Include:  slices.Clone(include),
		Exclude:  slices.Clone(exclude),
	}
	files, err := m.scan(m.BaseDir(), g)
	if err != nil {
		return err
	}
	g.Files = files

	m.mu.Lock()
	if _, ok := m.groups[name]; !ok {
		m.order = append(m.order, name)
	}
	m.groups[name] = g
	m.mu.Unlock()
	m.log.Debug().Str("group", name).Int("files", len(files)).Msg("group added")
	return nil
}

func (m *Manager) scan(base string, g *Group) ([]string, error) {
	var files []string
	for _, p := range g.Patterns {
		found, err := findFiles(p, base, m.excludeHidden)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	out := files[:0]
	for _, f := range files {
		if keep(f, g.Include, g.Exclude) {
			out = append(out, f)
		}
	}
	return out, nil
}

func keep(path string, include, exclude []string) bool {
	for _, s := range include {
		if !strings.Contains(path, s) {
			return false
		}
	}
	for _, s := range exclude {
		if strings.Contains(path, s) {
			return false
		}
	}
	return true
}

// Refresh rescans every group.
func (m *Manager) Refresh() error {
	return broadcast.Do(m, "Refresh", m.rescan)
}

func (m *Manager) rescan() error {
	base := m.BaseDir()
	found, err := m.scanAll(base)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.commit(found)
	m.mu.Unlock()
	m.log.Debug().Str("base_dir", base).Int("groups", len(found)).Msg("rescanned")
	return nil
}

// scanAll scans every group below base without touching the manager's state.
func (m *Manager) scanAll(base string) (map[string][]string, error) {
	m.mu.RLock()
	groups := make([]*Group, 0, len(m.order))
	for _, n := range m.order {
		groups = append(groups, m.groups[n])
	}
	m.mu.RUnlock()

	found := make(map[string][]string, len(groups))
	for _, g := range groups {
		files, err := m.scan(base, g)
		if err != nil {
			return nil, fmt.Errorf("rescan %s: %w", g.Name, err)
		}
		found[g.Name] = files
	}
	return found, nil
}

// commit stores scan results. Callers hold m.mu.
func (m *Manager) commit(found map[string][]string) {
	for name, files := range found {
		if g, ok := m.groups[name]; ok {
			g.Files = files
		}
	}
}

// Groups returns group names in the order they were added.
func (m *Manager) Groups() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.order)
}

// Group returns a copy of the named group.
func (m *Manager) Group(name string) (Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.groups[name]
	if !ok {
		return Group{}, ErrGroupNotFound(name)
	}
	cp := *g
	cp.Files = slices.Clone(g.Files)
	return cp, nil
}

// Files returns the files of a group.
func (m *Manager) Files(name string) ([]string, error) {
	g, err := m.Group(name)
	if err != nil {
		return nil, err
	}
	return g.Files, nil
}

// All returns the files of every group, in group order.
func (m *Manager) All() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for _, n := range m.order {
		out = append(out, m.groups[n].Files...)
	}
	return out
}

// GroupReport summarizes the disk usage of one group.
type GroupReport struct {
	Name  string
	Files int
	Bytes int64
	Size  float64 // Bytes expressed in Unit
	Unit  fsutil.Unit
}

func (r GroupReport) String() string {
	return fmt.Sprintf("%d %s files taking up %.3f %s", r.Files, r.Name, r.Size, r.Unit)
}

// Report stats the files of every group.
func (m *Manager) Report(unit fsutil.Unit) ([]GroupReport, error) {
	out := make([]GroupReport, 0, len(m.Groups()))
	for _, n := range m.Groups() {
		files, err := m.Files(n)
		if err != nil {
			return nil, err
		}
		sizes, err := fsutil.FileSizes(files, unit)
		if err != nil {
			return nil, fmt.Errorf("report %s: %w", n, err)
		}
		total := fsutil.TotalBytes(sizes)
		out = append(out, GroupReport{Name: n, Files: len(files), Bytes: total, Size: unit.Convert(total), Unit: unit})
	}
	return out, nil
}
