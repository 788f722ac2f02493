package resolver

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aidanlsb/mtpoi/internal/store"
	"github.com/aidanlsb/mtpoi/internal/uobject"
)

func setup(t *testing.T) (*store.Store, *store.File) {
	t.Helper()
	root := t.TempDir()
	write := func(rel, content string) {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("Game/World.json", `[{"Type":"Actor","Name":"a0"},{"Type":"Scene","Name":"s1"}]`)
	write("Game/Base.json", `[{"Type":"Gen","Name":"g0"},{"Type":"Default","Name":"base_default"}]`)

	s := store.New(root, store.Options{})
	world, err := s.LoadFile("Game/World.json")
	if err != nil {
		t.Fatal(err)
	}
	return s, world
}

func TestResolver(t *testing.T) {
	s, world := setup(t)
	r := New(s)

	t.Run("same file", func(t *testing.T) {
		obj, ref, err := r.Resolve(uobject.ParseObjectPath("s1", "Game/World.1"), world)
		if err != nil {
			t.Fatal(err)
		}
		if obj.Name != "s1" {
			t.Errorf("got %q, want %q", obj.Name, "s1")
		}
		if ref.File != world.ID || ref.Index != 1 {
			t.Errorf("unexpected ref %v", ref)
		}
	})

	t.Run("cross file loads container", func(t *testing.T) {
		before := s.Loads()
		obj, ref, err := r.Resolve(uobject.ParseObjectPath("d", "Game/Base.1"), world)
		if err != nil {
			t.Fatal(err)
		}
		if obj.Name != "base_default" {
			t.Errorf("got %q", obj.Name)
		}
		if ref.File == world.ID {
			t.Error("expected a different file id")
		}
		if s.Loads() != before+1 {
			t.Errorf("expected one load, got %d", s.Loads()-before)
		}

		// cached
		if _, _, err := r.Resolve(uobject.ParseObjectPath("d", "Game/Base.0"), world); err != nil {
			t.Fatal(err)
		}
		if s.Loads() != before+1 {
			t.Error("expected cached container")
		}
	})

	t.Run("out of range", func(t *testing.T) {
		_, _, err := r.Resolve(uobject.ParseObjectPath("x", "Game/World.5"), world)
		var refErr *ReferenceError
		if !errors.As(err, &refErr) {
			t.Fatalf("expected *ReferenceError, got %v", err)
		}
		if !errors.Is(err, ErrOutOfRange) || refErr.Len != 2 {
			t.Errorf("unexpected error %v", refErr)
		}
	})

	t.Run("unparsable index", func(t *testing.T) {
		_, _, err := r.Resolve(uobject.ParseObjectPath("x", "Game/World.abc"), world)
		var ipe *uobject.IndexParseError
		if !errors.As(err, &ipe) {
			t.Fatalf("expected *IndexParseError, got %v", err)
		}
		var refErr *ReferenceError
		if !errors.As(err, &refErr) {
			t.Fatalf("expected *ReferenceError wrapper, got %T", err)
		}
	})

	t.Run("missing container", func(t *testing.T) {
		_, _, err := r.Resolve(uobject.ParseObjectPath("x", "Game/Nope.0"), world)
		if !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("expected not-exist, got %v", err)
		}
	})

	t.Run("empty", func(t *testing.T) {
		_, _, err := r.Resolve(uobject.ObjectPath{}, world)
		if !errors.Is(err, ErrEmptyReference) {
			t.Fatalf("expected ErrEmptyReference, got %v", err)
		}
	})
}

func TestResolveLocalIgnoresContainer(t *testing.T) {
	s, world := setup(t)
	r := New(s)

	obj, _, err := r.ResolveLocal(uobject.ParseObjectPath("s1", "SomeOtherName.PersistentLevel.1"), world)
	if err != nil {
		t.Fatal(err)
	}
	if obj.Name != "s1" {
		t.Errorf("got %q", obj.Name)
	}

	objs, err := r.ResolveLocalAll([]uobject.ObjectPath{
		uobject.ParseObjectPath("a", "W.0"),
		uobject.ParseObjectPath("s", "W.1"),
	}, world)
	if err != nil {
		t.Fatal(err)
	}
	if len(objs) != 2 || objs[0].Name != "a0" {
		t.Errorf("unexpected %v", objs)
	}

	if _, err := r.ResolveLocalAll([]uobject.ObjectPath{uobject.ParseObjectPath("z", "W.9")}, world); err == nil {
		t.Error("expected error for out-of-range entry")
	}
}
