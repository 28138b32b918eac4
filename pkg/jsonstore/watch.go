package jsonstore

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/rich-dobbs-13440/astutus-sub000/pkg/errors"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/logging"
)

// Watch calls onChange whenever path is written, created or renamed into
// place, until ctx is done. The parent directory is watched because saves
// replace the file. Watch works on the host filesystem only.
func Watch(ctx context.Context, path string, onChange func()) error {
	logger := logging.GetLogger("jsonstore.watch").With().Str("path", path).Logger()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to create watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to watch %s", filepath.Dir(path))
	}
	logger.Debug().Msg("Watching for changes")

	target := filepath.Clean(path)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Info().Str("op", event.Op.String()).Msg("File changed")
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("Watcher error")

		case <-ctx.Done():
			logger.Debug().Msg("Watcher stopping")
			return nil
		}
	}
}
