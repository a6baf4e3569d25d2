package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-builderkit/pkg/presets"
)

// watchPresets reloads preset files under dir as they change and re-applies
// each reloaded preset to the sessions created from it. Rapid saves of one
// file collapse into a single reload.
func (s *Server) watchPresets(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("server: watch presets: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("server: watch %s: %w", dir, err)
	}
	s.logger.With("dir", dir).Info("watching presets")

	pending := make(map[string]time.Time)
	tick := s.debounce / 2
	if tick <= 0 {
		tick = 50 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isPresetPath(event.Name) || (!event.Has(fsnotify.Create) && !event.Has(fsnotify.Write)) {
				continue
			}
			pending[event.Name] = time.Now()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error(err, "preset watcher")
		case now := <-ticker.C:
			for path, seen := range pending {
				if now.Sub(seen) < s.debounce {
					continue
				}
				delete(pending, path)
				s.reloadPreset(path)
			}
		}
	}
}

func (s *Server) reloadPreset(path string) {
	logger := s.logger.With("path", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("preset reload skipped: " + err.Error())
		return
	}
	preset, err := presets.Parse(data, path)
	if err != nil {
		logger.Warn("preset reload rejected: " + err.Error())
		return
	}
	if err := s.presets.Put(preset); err != nil {
		logger.Warn("preset reload rejected: " + err.Error())
		return
	}
	logger.With("preset", preset.Name).Info("preset reloaded")

	for _, sess := range s.boundTo(preset.Kind, preset.Name) {
		if err := sess.shell.ApplyPreset(preset); err != nil {
			logger.With("session", sess.id).Warn("preset re-apply failed: " + err.Error())
		}
	}
}

func (s *Server) bindPreset(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		sess.preset = name
	}
}

func (s *Server) boundTo(kind, name string) []*session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*session
	for _, sess := range s.sessions {
		if sess.preset == name && sess.shell.Kind().Name == kind {
			out = append(out, sess)
		}
	}
	return out
}

func isPresetPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
