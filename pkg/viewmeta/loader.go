package viewmeta

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFS walks the provided filesystem and parses JSON/YAML view files.
// When fsys is nil or no view files are present, the returned store is empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{views: make(map[string]View)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isViewFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("viewmeta: read %s: %w", path, err)
		}

		views, err := ParseDocument(data, path)
		if err != nil {
			return err
		}
		return store.add(views, path)
	})
	if err != nil {
		return nil, err
	}

	return store, nil
}

// NewStore builds a store from already decoded views.
func NewStore(views ...View) (*Store, error) {
	store := &Store{views: make(map[string]View, len(views))}
	if err := store.add(views, ""); err != nil {
		return nil, err
	}
	return store, nil
}

// ParseDocument decodes a single JSON or YAML document into views sorted by
// name.
func ParseDocument(data []byte, source string) ([]View, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("viewmeta: file %s is empty", source)
	}

	var doc documentFile
	if err := json.Unmarshal(data, &doc); err != nil {
		doc = documentFile{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("viewmeta: parse %s: invalid JSON or YAML", source)
		}
	}

	names := make([]string, 0, len(doc.Views))
	for name := range doc.Views {
		names = append(names, name)
	}
	sort.Strings(names)

	views := make([]View, 0, len(names))
	for _, key := range names {
		view, err := normaliseView(doc.Views[key], key, source)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// View returns the view registered under name.
func (s *Store) View(name string) (View, bool) {
	if s == nil {
		return View{}, false
	}
	view, ok := s.views[strings.TrimSpace(name)]
	return view, ok
}

// Names lists the registered view names in sorted order.
func (s *Store) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.views))
	for name := range s.views {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Empty reports whether the store holds any views.
func (s *Store) Empty() bool {
	return s == nil || len(s.views) == 0
}

func (s *Store) add(views []View, source string) error {
	for _, view := range views {
		name := strings.TrimSpace(view.Name)
		if name == "" {
			return fmt.Errorf("viewmeta: file %s defines a view with an empty name", source)
		}
		if existing, exists := s.views[name]; exists {
			return fmt.Errorf("viewmeta: duplicate view %q (files %s and %s)", name, existing.Source, source)
		}
		if view.Source == "" {
			view.Source = source
		}
		s.views[name] = view
	}
	return nil
}

type documentFile struct {
	Views map[string]View `json:"views" yaml:"views"`
}

func normaliseView(raw View, key, source string) (View, error) {
	name := strings.TrimSpace(key)
	if name == "" {
		return View{}, fmt.Errorf("viewmeta: file %s defines a view with an empty name", source)
	}

	view := raw
	view.Name = name
	view.Source = source
	view.Fields = make([]Field, 0, len(raw.Fields))

	seen := make(map[string]struct{}, len(raw.Fields))
	for idx, field := range raw.Fields {
		fieldName := strings.TrimSpace(field.Name)
		if fieldName == "" {
			return View{}, fmt.Errorf("viewmeta: view %q (file %s) field %d has an empty name", name, source, idx)
		}
		if _, dup := seen[fieldName]; dup {
			return View{}, fmt.Errorf("viewmeta: view %q (file %s) defines duplicate field %q", name, source, fieldName)
		}
		seen[fieldName] = struct{}{}
		field.Name = fieldName
		view.Fields = append(view.Fields, field)
	}
	return view, nil
}

func isViewFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
