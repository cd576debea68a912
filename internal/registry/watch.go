// ABOUTME: Sound map file watcher
// ABOUTME: Reloads the registry when another process edits the sound map
package registry

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Editors often write in several steps; wait for them to settle
const watchDebounce = 150 * time.Millisecond

// Watch reloads the registry on external edits and calls onChange with the
// new sound list. Writes made by the registry itself are ignored. It blocks
// until ctx is done.
func (r *Registry) Watch(ctx context.Context, onChange func([]Sound)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory so atomic renames are seen
	if err := watcher.Add(filepath.Dir(r.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", r.path, err)
	}

	target := filepath.Clean(r.path)
	timer := time.NewTimer(watchDebounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				timer.Reset(watchDebounce)
			}

		case <-timer.C:
			changed, err := r.Reload()
			if err != nil {
				log.Printf("Sound map reload failed: %v", err)
				continue
			}
			if changed && onChange != nil {
				onChange(r.Sounds())
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Sound map watcher error: %v", err)
		}
	}
}
