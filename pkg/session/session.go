package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Loader fetches session info from wherever the host application keeps it.
type Loader interface {
	Load(ctx context.Context) (*Info, error)
}

// LoaderFunc adapts a function into a Loader.
type LoaderFunc func(ctx context.Context) (*Info, error)

// Load delegates to the underlying function.
func (fn LoaderFunc) Load(ctx context.Context) (*Info, error) {
	return fn(ctx)
}

// FileLoader reads session info from a JSON or YAML file.
type FileLoader string

// Load reads and decodes the file.
func (path FileLoader) Load(ctx context.Context) (*Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(string(path))
	if name == "" {
		return nil, errors.New("session: file path is required")
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("session: read %s: %w", name, err)
	}
	return Decode(data, name)
}

// Decode parses a JSON or YAML info payload.
func Decode(data []byte, source string) (*Info, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("session: %s is empty", source)
	}
	var info Info
	if err := json.Unmarshal(data, &info); err == nil {
		return &info, nil
	}
	if err := yaml.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("session: parse %s: %w", source, err)
	}
	return &info, nil
}

// Listener receives the current info after every change; nil means the
// session was closed.
type Listener func(info *Info)

// Session owns the loaded info and its subscribers.
type Session struct {
	loader Loader

	loadMu sync.Mutex

	mu        sync.RWMutex
	info      *Info
	listeners map[int]Listener
	nextID    int
}

// New returns a session that loads its info through loader on Init.
func New(loader Loader) *Session {
	return &Session{
		loader:    loader,
		listeners: make(map[int]Listener),
	}
}

// FromInfo returns a session that is already initialised with info.
func FromInfo(info *Info) *Session {
	s := New(nil)
	s.info = info
	return s
}

// Info returns the loaded info or nil before Init.
func (s *Session) Info() *Info {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.info
}

// Init loads the info once. Concurrent callers wait for the same load and
// later callers get the cached value.
func (s *Session) Init(ctx context.Context) (*Info, error) {
	if s == nil {
		return nil, errors.New("session: nil session")
	}
	if info := s.Info(); info != nil {
		return info, nil
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if info := s.Info(); info != nil {
		return info, nil
	}
	if s.loader == nil {
		return nil, errors.New("session: no loader configured")
	}

	info, err := s.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("session: load: %w", err)
	}
	if info == nil {
		return nil, errors.New("session: loader returned no info")
	}

	s.mu.Lock()
	s.info = info
	s.mu.Unlock()

	s.notify(info)
	return info, nil
}

// Subscribe registers fn and returns a function that removes it.
func (s *Session) Subscribe(fn Listener) func() {
	if s == nil || fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Close drops the loaded info and notifies listeners with nil. A closed
// session can be initialised again.
func (s *Session) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.info = nil
	s.mu.Unlock()
	s.notify(nil)
}

func (s *Session) notify(info *Info) {
	s.mu.RLock()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	listeners := make([]Listener, 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, s.listeners[id])
	}
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(info)
	}
}
