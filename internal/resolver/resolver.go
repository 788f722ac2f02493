// Package resolver follows object references across loaded export files.
package resolver

import (
	"errors"
	"fmt"

	"github.com/aidanlsb/mtpoi/internal/store"
	"github.com/aidanlsb/mtpoi/internal/uobject"
)

var (
	// ErrEmptyReference is returned when following an unset reference.
	ErrEmptyReference = errors.New("empty reference")
	// ErrOutOfRange is returned when a reference index is past the end of its file.
	ErrOutOfRange = errors.New("index out of range")
)

// ReferenceError reports a reference that could not be followed.
type ReferenceError struct {
	Ref       string // raw reference as exported
	Container string // container the reference was looked up in
	Index     int
	Len       int // object count of the container, when it was loaded
	Err       error
}

func (e *ReferenceError) Error() string {
	if errors.Is(e.Err, ErrOutOfRange) {
		return fmt.Sprintf("reference %q: index %d out of range (%s has %d objects)", e.Ref, e.Index, e.Container, e.Len)
	}
	return fmt.Sprintf("reference %q: %v", e.Ref, e.Err)
}

func (e *ReferenceError) Unwrap() error { return e.Err }

// Resolver resolves references against a Store.
type Resolver struct {
	store *store.Store
}

// New creates a Resolver over s.
func New(s *store.Store) *Resolver {
	return &Resolver{store: s}
}

// Resolve follows ref from current. When the reference names current's
// container (or current is nil and the container is loadable) the index is
// looked up there; otherwise the referenced container is loaded first.
func (r *Resolver) Resolve(ref uobject.ObjectPath, current *store.File) (*uobject.Object, store.Ref, error) {
	if err := check(ref); err != nil {
		return nil, store.Ref{}, err
	}

	target := current
	if current == nil || r.store.ContainerKey(ref.Container) != current.Container {
		f, err := r.store.Load(ref.Container)
		if err != nil {
			return nil, store.Ref{}, &ReferenceError{Ref: ref.Raw, Container: ref.Container, Index: ref.Index, Err: err}
		}
		target = f
	}
	return index(ref, target)
}

// ResolveLocal looks ref's index up in current regardless of the container
// named by the reference. Actor-to-component and actor-to-actor links inside
// a level are always written against the level's own package.
func (r *Resolver) ResolveLocal(ref uobject.ObjectPath, current *store.File) (*uobject.Object, store.Ref, error) {
	if err := check(ref); err != nil {
		return nil, store.Ref{}, err
	}
	if current == nil {
		return nil, store.Ref{}, &ReferenceError{Ref: ref.Raw, Container: ref.Container, Index: ref.Index, Err: errors.New("no current file")}
	}
	return index(ref, current)
}

// ResolveLocalAll resolves every reference in refs against current.
func (r *Resolver) ResolveLocalAll(refs []uobject.ObjectPath, current *store.File) ([]*uobject.Object, error) {
	out := make([]*uobject.Object, 0, len(refs))
	for _, ref := range refs {
		obj, _, err := r.ResolveLocal(ref, current)
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	return out, nil
}

func check(ref uobject.ObjectPath) error {
	if ref.IsZero() {
		return &ReferenceError{Err: ErrEmptyReference}
	}
	if err := ref.Err(); err != nil {
		return &ReferenceError{Ref: ref.Raw, Container: ref.Container, Index: ref.Index, Err: err}
	}
	return nil
}

func index(ref uobject.ObjectPath, f *store.File) (*uobject.Object, store.Ref, error) {
	obj, ok := f.At(ref.Index)
	if !ok {
		return nil, store.Ref{}, &ReferenceError{
			Ref:       ref.Raw,
			Container: f.Container,
			Index:     ref.Index,
			Len:       f.Len(),
			Err:       ErrOutOfRange,
		}
	}
	return obj, f.Ref(ref.Index), nil
}
