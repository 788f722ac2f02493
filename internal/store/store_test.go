package store

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/mtpoi/internal/paths"
	"github.com/aidanlsb/mtpoi/internal/uobject"
)

func writeExport(t *testing.T, root, rel, content string) string {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	return full
}

func TestLoadCachesByContainer(t *testing.T) {
	root := t.TempDir()
	writeExport(t, root, "MotorTown/Content/Base.json", `[{"Type":"A","Name":"a"},{"Type":"B","Name":"b"}]`)

	s := New(root, Options{})
	f1, err := s.Load("MotorTown/Content/Base")
	require.NoError(t, err)
	f2, err := s.LoadFile("MotorTown/Content/Base.json")
	require.NoError(t, err)

	assert.Same(t, f1, f2)
	assert.Equal(t, int64(1), s.Loads())
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 2, f1.Len())

	obj, err := s.Object(f1.Ref(1))
	require.NoError(t, err)
	assert.Equal(t, "b", obj.Name)

	_, err = s.Object(f1.Ref(2))
	assert.Error(t, err)
	_, err = s.Object(Ref{File: 9})
	assert.ErrorIs(t, err, ErrUnknownFile)
}

func TestLoadGameMount(t *testing.T) {
	root := t.TempDir()
	writeExport(t, root, "MotorTown/Content/Objects/Base.json", `[{"Type":"A","Name":"a"}]`)

	s := New(root, Options{GameMount: "MotorTown/Content"})
	f, err := s.Load("/Game/Objects/Base")
	require.NoError(t, err)
	assert.Equal(t, "MotorTown/Content/Objects/Base", f.Container)
}

func TestLoadOnceUnderConcurrency(t *testing.T) {
	var decodes atomic.Int32
	s := New("/dump", Options{Decode: func(path string) ([]uobject.Object, error) {
		decodes.Add(1)
		time.Sleep(10 * time.Millisecond)
		return []uobject.Object{{Type: "T", Name: filepath.Base(path)}}, nil
	}})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Load("MotorTown/Content/Shared")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), decodes.Load())
	assert.Equal(t, 1, s.Len())
}

func TestLoadMissingFile(t *testing.T) {
	s := New(t.TempDir(), Options{})
	_, err := s.Load("Nope/Missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadFileRejectsEscape(t *testing.T) {
	s := New(t.TempDir(), Options{})
	_, err := s.LoadFile("../outside.json")
	require.Error(t, err)
}

func TestLoadRejectsContainerOutsideRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "dump")
	require.NoError(t, os.MkdirAll(root, 0o755))
	writeExport(t, parent, "secret.json", `[]`)

	s := New(root, Options{})
	for _, container := range []string{"../secret", "Maps/../../secret", "/Game/../../secret"} {
		_, err := s.Load(container)
		require.Error(t, err, container)
		assert.ErrorIs(t, err, paths.ErrPathOutsideRoot, container)
	}
}
