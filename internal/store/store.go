// Package store keeps decoded export files in an append-only arena.
//
// Every loaded file gets a FileID and every object an address Ref{File, Index}.
// Files are loaded at most once per run; concurrent requests for the same
// container share a single decode.
package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/aidanlsb/mtpoi/internal/paths"
	"github.com/aidanlsb/mtpoi/internal/uobject"
)

// ErrUnknownFile is returned for a FileID that was never loaded.
var ErrUnknownFile = errors.New("unknown file id")

// FileID identifies a loaded file within one Store.
type FileID int

// Ref addresses one object: (file, zero-based index).
type Ref struct {
	File  FileID
	Index int
}

func (r Ref) String() string {
	return fmt.Sprintf("%d.%d", r.File, r.Index)
}

// File is one decoded export file. Objects must not be modified.
type File struct {
	ID        FileID
	Container string
	Path      string
	Objects   []uobject.Object
}

// Len returns the number of objects in the file.
func (f *File) Len() int {
	return len(f.Objects)
}

// At returns the object at index i.
func (f *File) At(i int) (*uobject.Object, bool) {
	if i < 0 || i >= len(f.Objects) {
		return nil, false
	}
	return &f.Objects[i], true
}

// Ref returns the arena address of index i in this file.
func (f *File) Ref(i int) Ref {
	return Ref{File: f.ID, Index: i}
}

// Options configures a Store.
type Options struct {
	// GameMount is the dump directory that "/Game/" references map to.
	GameMount string
	// Decode overrides how files are read (tests).
	Decode func(path string) ([]uobject.Object, error)
}

// Store is the per-run arena of decoded files.
type Store struct {
	root      string
	gameMount string
	decode    func(path string) ([]uobject.Object, error)

	mu          sync.RWMutex
	files       []*File
	byContainer map[string]FileID

	group singleflight.Group
	loads atomic.Int64
}

// New creates a Store rooted at the dump directory root. A relative root is
// made absolute so that paths listed under it load back to the same file.
func New(root string, opts Options) *Store {
	decode := opts.Decode
	if decode == nil {
		decode = uobject.DecodeFile
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &Store{
		root:        root,
		gameMount:   opts.GameMount,
		decode:      decode,
		byContainer: make(map[string]FileID),
	}
}

// Root returns the dump root directory.
func (s *Store) Root() string {
	return s.root
}

// ContainerKey normalizes a container path the way the store indexes it.
func (s *Store) ContainerKey(container string) string {
	return paths.ContainerKey(container, s.gameMount)
}

// Load returns the file for a container path, decoding
// <root>/<container>.json on first use.
func (s *Store) Load(container string) (*File, error) {
	key := s.ContainerKey(container)
	if f, ok := s.lookup(key); ok {
		return f, nil
	}
	full := filepath.Join(s.root, filepath.FromSlash(key)+paths.ExportExt)
	if err := paths.ValidateWithinRoot(s.root, full); err != nil {
		return nil, fmt.Errorf("%s: %w", container, err)
	}
	return s.load(key, full)
}

// LoadFile returns the file at path (absolute, or relative to the dump root).
func (s *Store) LoadFile(path string) (*File, error) {
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(s.root, path)
	}
	if err := paths.ValidateWithinRoot(s.root, full); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	key := paths.ContainerOf(s.root, full)
	if f, ok := s.lookup(key); ok {
		return f, nil
	}
	return s.load(key, full)
}

func (s *Store) lookup(key string) (*File, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byContainer[key]
	if !ok {
		return nil, false
	}
	return s.files[id], true
}

func (s *Store) load(key, full string) (*File, error) {
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		// A concurrent caller may have finished between lookup and Do.
		if f, ok := s.lookup(key); ok {
			return f, nil
		}

		objs, err := s.decode(full)
		if err != nil {
			return nil, err
		}
		s.loads.Add(1)

		s.mu.Lock()
		defer s.mu.Unlock()
		f := &File{
			ID:        FileID(len(s.files)),
			Container: key,
			Path:      full,
			Objects:   objs,
		}
		s.files = append(s.files, f)
		s.byContainer[key] = f.ID
		return f, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*File), nil
}

// File returns a previously loaded file.
func (s *Store) File(id FileID) (*File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id < 0 || int(id) >= len(s.files) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFile, id)
	}
	return s.files[id], nil
}

// Object returns the object at r.
func (s *Store) Object(r Ref) (*uobject.Object, error) {
	f, err := s.File(r.File)
	if err != nil {
		return nil, err
	}
	obj, ok := f.At(r.Index)
	if !ok {
		return nil, fmt.Errorf("index %d out of range for %s (%d objects)", r.Index, f.Container, f.Len())
	}
	return obj, nil
}

// Len returns the number of loaded files.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}

// Loads returns how many files were decoded.
func (s *Store) Loads() int64 {
	return s.loads.Load()
}
