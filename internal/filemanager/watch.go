package filemanager

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"pntools/internal/common/fsutil"
)

const defaultDebounce = 200 * time.Millisecond

// Watch refreshes the manager whenever files change below the base dir,
// coalescing bursts of events that arrive within debounce of each other
// (a non-positive debounce selects the default). It blocks until ctx is
// done and returns ctx.Err(), or the first watcher failure.
func (m *Manager) Watch(ctx context.Context, debounce time.Duration) error {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	base := m.BaseDir()
	if err := addTree(w, base, m.excludeHidden); err != nil {
		return err
	}
	m.log.Info().Str("base_dir", base).Dur("debounce", debounce).Msg("watching")

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			if ev.Has(fsnotify.Create) {
				// new directories are not covered by the existing watches
				_ = addCreated(w, ev.Name, m.excludeHidden)
			}
			m.log.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("fs event")
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debounce)
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			m.log.Warn().Err(err).Msg("watch error")
		case <-fire:
			timer, fire = nil, nil
			if err := m.Refresh(); err != nil {
				m.log.Error().Err(err).Msg("refresh failed")
			}
		}
	}
}

// addCreated watches a path that appeared below the base dir. addTree never
// skips its root, so a hidden path is filtered here.
func addCreated(w *fsnotify.Watcher, path string, skipHidden bool) error {
	if skipHidden && fsutil.Hidden(filepath.Base(path)) {
		return nil
	}
	return addTree(w, path, skipHidden)
}

// addTree watches root and every directory below it. Non-directories are
// ignored.
func addTree(w *fsnotify.Watcher, root string, skipHidden bool) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if skipHidden && p != root && fsutil.Hidden(d.Name()) {
			return filepath.SkipDir
		}
		return w.Add(p)
	})
}
