package commands

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/styleext/internal/config"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	BuildFlags `embed:""`
	Debounce   time.Duration `help:"Quiet period before a rebuild" default:"300ms"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	w.apply(cfg)
	log := g.logger()

	p, err := NewPipeline(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var building sync.Mutex
	rebuild := func() {
		building.Lock()
		defer building.Unlock()
		res, err := p.Build(ctx)
		if err != nil {
			log.Error("Build failed", "error", err)
			return
		}
		PrintReport(os.Stdout, res)
	}
	rebuild()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()
	if err := addTree(watcher, cfg.Build.Source); err != nil {
		return fmt.Errorf("failed to watch %s: %w", cfg.Build.Source, err)
	}

	log.Info("Watching for changes", "source", cfg.Build.Source, "debounce", w.Debounce)
	d := newDebouncer(w.Debounce, rebuild)
	defer d.Stop()
	return watchLoop(ctx, watcher, d, log)
}

// watchLoop forwards relevant file system events to d until ctx ends.
func watchLoop(ctx context.Context, w *fsnotify.Watcher, d *debouncer, log *slog.Logger) error {
	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping watch")
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addTree(w, event.Name); err != nil {
						log.Warn("Failed to watch new directory", "dir", event.Name, "error", err)
					}
				}
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				log.Debug("Source change detected", "file", event.Name, "op", event.Op.String())
				d.Trigger()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Error("Watcher error", "error", err)
		}
	}
}

func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

// debouncer runs fn once after Trigger calls stop for the quiet period.
type debouncer struct {
	mu    sync.Mutex
	wait  time.Duration
	fn    func()
	timer *time.Timer
}

func newDebouncer(wait time.Duration, fn func()) *debouncer {
	return &debouncer{wait: wait, fn: fn}
}

// Trigger (re)starts the quiet period.
func (d *debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, d.fn)
}

// Stop cancels a pending run.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
