package neonlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/neonlog/neonlog/manifest"
)

// Store holds the loaded manifest and its tag index, and can reload them
// when the underlying posts.json changes. Reads are cheap snapshot fetches;
// the manifest value itself is immutable once parsed.
type Store struct {
	mu   sync.RWMutex
	path string
	m    *manifest.Manifest
	ix   manifest.TagIndex
}

// NewStore loads the manifest at path. A failed initial load is fatal.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload reads and re-parses the manifest file, swapping the snapshot on
// success. On failure the previous snapshot stays in place.
func (s *Store) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("%w: %v", manifest.ErrUnavailable, err)
	}
	m, err := manifest.Parse(data)
	if err != nil {
		return err
	}
	ix := manifest.BuildTagIndex(m)

	s.mu.Lock()
	s.m = m
	s.ix = ix
	s.mu.Unlock()
	return nil
}

// Manifest returns the current manifest snapshot.
func (s *Store) Manifest() *manifest.Manifest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m
}

// TagIndex returns the tag index of the current snapshot.
func (s *Store) TagIndex() manifest.TagIndex {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ix
}

// Watch reloads the store whenever the manifest file changes on disk.
// The parent directory is watched because editors and the authoring CLI
// replace the file instead of writing in place. The returned stop function
// releases the watcher. Reload errors go to logf and keep the old snapshot.
func (s *Store) Watch(logf func(format string, args ...any)) (func(), error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		w.Close()
		return nil, err
	}
	base := filepath.Base(s.path)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != base {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if err := s.Reload(); err != nil && logf != nil {
					logf("neonlog: manifest reload: %v", err)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				if logf != nil {
					logf("neonlog: manifest watch: %v", err)
				}
			case <-done:
				return
			}
		}
	}()
	return func() {
		close(done)
		w.Close()
	}, nil
}
