package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"pntools/internal/common/fsutil"
	"pntools/internal/filemanager"
	"pntools/internal/httpapi"
	"pntools/pkg/broadcast"
)

func runFind(w io.Writer, e *env, pattern, dir string, all bool) error {
	files, err := fsutil.Find(pattern, dir, !all && e.cfg.HideHidden())
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintln(w, f)
	}
	e.log.Debug().Str("pattern", pattern).Int("matches", len(files)).Msg("find")
	return nil
}

func unitOr(s, def string) (fsutil.Unit, error) {
	if s == "" {
		s = def
	}
	return fsutil.ParseUnit(s)
}

func runSize(w io.Writer, e *env, files []string, units string, human bool) error {
	unit, err := unitOr(units, e.cfg.Units)
	if err != nil {
		return err
	}
	sizes, err := fsutil.FileSizes(files, unit)
	if err != nil {
		return err
	}
	for _, s := range sizes {
		if human {
			fmt.Fprintf(w, "%s\t%s\n", fsutil.HumanSize(s.Bytes), s.Path)
			continue
		}
		fmt.Fprintf(w, "%.3f %s\t%s\n", s.Size, unit, s.Path)
	}
	return nil
}

// newManager builds a file manager from the config and adds its groups.
func newManager(e *env) (*filemanager.Manager, error) {
	m, err := filemanager.New(e.cfg.BaseDir,
		filemanager.WithLogger(e.log),
		filemanager.WithHidden(!e.cfg.HideHidden()),
	)
	if err != nil {
		return nil, err
	}
	for _, g := range e.cfg.Groups {
		if err := m.Add(g.Name, g.Patterns, g.Include, g.Exclude); err != nil {
			return nil, fmt.Errorf("group %s: %w", g.Name, err)
		}
	}
	return m, nil
}

func runReport(w io.Writer, e *env, units string) error {
	if len(e.cfg.Groups) == 0 {
		return errors.New("report: no groups configured")
	}
	unit, err := unitOr(units, e.cfg.Units)
	if err != nil {
		return err
	}
	m, err := newManager(e)
	if err != nil {
		return err
	}
	reps, err := m.Report(unit)
	if err != nil {
		return err
	}
	for _, r := range reps {
		fmt.Fprintln(w, r.String())
	}
	return nil
}

// logRefresh reports group sizes after every rescan of a manager.
func logRefresh(e *env) broadcast.Listener {
	return func(obj broadcast.Observable) error {
		m, ok := obj.(*filemanager.Manager)
		if !ok {
			return nil
		}
		ev := e.log.Info().Str("base_dir", m.BaseDir())
		for _, g := range m.Groups() {
			files, _ := m.Files(g)
			ev = ev.Int(g, len(files))
		}
		ev.Msg("refreshed")
		return nil
	}
}

// observeRefresh connects logRefresh to every manager's Refresh method.
func observeRefresh(e *env) (*broadcast.Subscription, error) {
	b, err := broadcast.New(filemanager.Class, "Refresh", broadcast.After, broadcast.WithRegistry(e.reg))
	if err != nil {
		return nil, err
	}
	if err := b.Broadcast(); err != nil {
		return nil, err
	}
	sub, added := b.AddReceiver(logRefresh(e), broadcast.WithName("logRefresh"))
	if !added {
		// another run in this process already logs refreshes
		return nil, nil
	}
	return sub, nil
}

func runWatch(ctx context.Context, e *env, debounce time.Duration) error {
	m, err := newManager(e)
	if err != nil {
		return err
	}
	sub, err := observeRefresh(e)
	if err != nil {
		return err
	}
	defer sub.Cancel()
	err = m.Watch(ctx, debounce)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runServe(ctx context.Context, e *env, addr string, watch bool) error {
	m, err := newManager(e)
	if err != nil {
		return err
	}
	sub, err := observeRefresh(e)
	if err != nil {
		return err
	}
	defer sub.Cancel()

	httpapi.SetLogger(e.log)
	httpapi.SetCORSOptions(e.cfg.CORS.Enabled, e.cfg.CORS.Origins, nil, []string{"Content-Type"})
	unit, err := fsutil.ParseUnit(e.cfg.Units)
	if err != nil {
		return err
	}
	h := httpapi.NewMux(httpapi.NewInspector(e.reg, m, unit))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpapi.Run(gctx, addr, h) })
	if watch {
		g.Go(func() error {
			if err := m.Watch(gctx, 0); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

func runKey(w io.Writer, key string, asJSON bool) error {
	k, err := broadcast.ParseChannelKey(key)
	if err != nil {
		return err
	}
	parts := httpapi.KeyParts(k)
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(parts)
	}
	fmt.Fprintf(w, "timing:   %s\nmodule:   %s\nclass:    %s\nattr:     %s\nkind:     %s\n", parts.Timing, parts.Module, parts.Class, parts.Attr, parts.Kind)
	if parts.Instance != "" {
		fmt.Fprintf(w, "instance: %s\n", parts.Instance)
	}
	return nil
}
