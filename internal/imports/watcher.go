package imports

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/quarry-labs/quarry/pkg/core"
)

// Watcher watches the staging directory for arriving import manifests
// and registers each one as a pending import.
type Watcher struct {
	dir    string
	store  *Store
	state  core.Store
	logger *slog.Logger
}

// NewWatcher creates a staging-directory watcher.
func NewWatcher(dir string, store *Store, st core.Store, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{dir: dir, store: store, state: st, logger: logger}
}

// Watch blocks until the context is cancelled, registering an import
// for every manifest that appears in the staging directory. Writes are
// debounced so a manifest is only read after its writer settles.
func (w *Watcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(w.dir); err != nil {
		w.logger.Error("failed to watch staging directory", "dir", w.dir, "error", err)
		// Don't fail - the server still works without arrival detection
		<-ctx.Done()
		return nil
	}

	timers := make(map[string]*time.Timer)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !isManifest(event.Name) {
				continue
			}

			// Debounce per file
			if t, ok := timers[event.Name]; ok {
				t.Stop()
			}
			name := event.Name
			timers[name] = time.AfterFunc(200*time.Millisecond, func() {
				w.register(name)
			})

		case err := <-watcher.Errors:
			w.logger.Error("staging watcher error", "error", err)
		}
	}
}

// register reads one manifest and records its import.
func (w *Watcher) register(path string) {
	m, err := LoadManifest(path)
	if err != nil {
		w.logger.Error("ignoring bad manifest", "path", path, "error", err)
		return
	}

	schema, err := w.state.EnsureSchema(m.Schema)
	if err != nil {
		w.logger.Error("failed to register schema for import", "schema", m.Schema, "error", err)
		return
	}

	if _, err := w.store.Register(m.Database, schema.ID, m.Table); err != nil {
		w.logger.Error("failed to register import", "path", path, "error", err)
	}
}
