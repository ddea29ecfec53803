package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads cat whenever a definition file under root changes, until ctx
// is cancelled. onReload, when non-nil, receives the result of every reload.
func Watch(ctx context.Context, root string, cat *MemoryCatalog, onReload func(error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog: watcher: %w", err)
	}

	for _, kind := range Kinds {
		dir := filepath.Join(root, kind)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			w.Close()
			return fmt.Errorf("catalog: create %s: %w", dir, err)
		}
		if err := w.Add(dir); err != nil {
			w.Close()
			return fmt.Errorf("catalog: watch %s: %w", dir, err)
		}
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !isDefinitionFile(ev.Name) {
					continue
				}
				if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) &&
					!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
					continue
				}
				err := cat.LoadDir(root)
				if onReload != nil {
					onReload(err)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				if onReload != nil {
					onReload(fmt.Errorf("catalog: watcher: %w", err))
				}
			}
		}
	}()
	return nil
}
