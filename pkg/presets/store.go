package presets

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Store indexes presets by kind and name.
type Store struct {
	mu      sync.RWMutex
	presets map[string]map[string]Preset
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{presets: make(map[string]map[string]Preset)}
}

// LoadFS walks fsys and parses every .yaml/.yml file as a preset. A nil fsys
// yields an empty store.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := NewStore()
	if fsys == nil {
		return store, nil
	}
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isPresetFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("presets: read %s: %w", path, err)
		}
		preset, err := Parse(data, path)
		if err != nil {
			return err
		}
		return store.Add(preset)
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Add registers preset. Names are unique per kind.
func (s *Store) Add(preset Preset) error {
	if err := preset.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	byName, ok := s.presets[preset.Kind]
	if !ok {
		byName = make(map[string]Preset)
		s.presets[preset.Kind] = byName
	}
	if existing, dup := byName[preset.Name]; dup {
		return fmt.Errorf("presets: duplicate preset %q for %q (%s and %s)", preset.Name, preset.Kind, existing.Location, preset.Location)
	}
	byName[preset.Name] = preset
	return nil
}

// Put registers or replaces preset.
func (s *Store) Put(preset Preset) error {
	if err := preset.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	byName, ok := s.presets[preset.Kind]
	if !ok {
		byName = make(map[string]Preset)
		s.presets[preset.Kind] = byName
	}
	byName[preset.Name] = preset
	return nil
}

// Lookup returns the named preset for kind.
func (s *Store) Lookup(kind, name string) (Preset, error) {
	if s == nil {
		return Preset{}, fmt.Errorf("%w: %s/%s", ErrPresetNotFound, kind, name)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	preset, ok := s.presets[kind][name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %s/%s", ErrPresetNotFound, kind, name)
	}
	return preset, nil
}

// Names returns the preset names for kind, sorted.
func (s *Store) Names(kind string) []string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.presets[kind]))
	for name := range s.presets[kind] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isPresetFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
