package registry

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads block definition files into a registry as they change on
// disk, so a running editor picks up new vocabulary without a restart.
type Watcher struct {
	reg  *Registry
	log  *slog.Logger
	fw   *fsnotify.Watcher
	done chan struct{}
}

// Watch starts watching dir for YAML definition changes. Files already in
// dir are loaded first; pass a nil logger to discard reload diagnostics.
func (r *Registry) Watch(dir string, log *slog.Logger) (*Watcher, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := r.LoadDir(dir); err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("registry: start watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("registry: watch %s: %w", dir, err)
	}
	w := &Watcher{reg: r, log: log, fw: fw, done: make(chan struct{})}
	go w.run()
	return w, nil
}

// Close stops the watcher. The registry keeps whatever it has loaded.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fw.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn("definition watcher error", slog.Any("error", err))
		case <-w.done:
			return
		}
	}
}

// handleEvent processes one filesystem notification. A rewritten or new
// file is reloaded in full; removals are logged but previously registered
// types stay available until replaced.
func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if !isYAML(ev.Name) {
		return
	}
	switch {
	case ev.Op.Has(fsnotify.Write), ev.Op.Has(fsnotify.Create):
		if err := w.reg.LoadFile(ev.Name); err != nil {
			w.log.Warn("reload block definitions failed",
				slog.String("file", ev.Name), slog.Any("error", err))
			return
		}
		w.log.Debug("reloaded block definitions", slog.String("file", ev.Name))
	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		w.log.Info("definition file removed, registered types kept",
			slog.String("file", ev.Name))
	}
}
