package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watch calls onChange with the reloaded file each time path is written or
// replaced. It watches the parent directory so atomic saves (write to temp,
// rename over) are seen, and runs until ctx is cancelled.
//
// A file that fails to decode is logged and skipped; onChange is not called.
func Watch(ctx context.Context, path string, log zerolog.Logger, onChange func(FileConfig)) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		if cerr := watcher.Close(); cerr != nil {
			// Best-effort close.
			_ = cerr
		}
	}()
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	log.Debug().Str("path", path).Msg("watching config")

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil
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
			cfg, err := LoadConfig(path)
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("config reload failed; keeping previous values")
				continue
			}
			log.Info().Str("path", path).Msg("config reloaded")
			onChange(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("config watcher error")
		}
	}
}
