package preview

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay coalesces the burst of events editors emit for one save.
const reloadDelay = 150 * time.Millisecond

// Watch reloads the data file whenever it is written or replaced, until ctx
// is cancelled. The parent directory is watched so that atomic renames are
// seen.
func (s *Server) Watch(ctx context.Context) error {
	target, err := filepath.Abs(s.cfg.DataPath)
	if err != nil {
		return fmt.Errorf("resolve data path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	s.logger.Debug().Str("path", target).Msg("watching data file")

	timer := time.NewTimer(reloadDelay)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stop:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || name != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				timer.Reset(reloadDelay)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn().Err(err).Msg("watcher error")
		case <-timer.C:
			if err := s.Reload(ctx); err != nil {
				s.logger.Error().Err(err).Msg("reload data")
				continue
			}
			s.logger.Info().Str("path", target).Msg("data reloaded")
		}
	}
}
