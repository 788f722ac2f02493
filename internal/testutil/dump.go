// Package testutil builds throwaway export dumps for tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// TestDump is a temporary dump directory.
type TestDump struct {
	Path  string
	t     *testing.T
	files map[string]string
}

// NewTestDump creates a dump builder. Call Build to write it.
func NewTestDump(t *testing.T) *TestDump {
	t.Helper()
	return &TestDump{t: t, files: make(map[string]string)}
}

// WithFile adds a file relative to the dump root.
func (d *TestDump) WithFile(path, content string) *TestDump {
	d.files[path] = content
	return d
}

// WithJSON adds v, JSON-encoded, as a file relative to the dump root.
func (d *TestDump) WithJSON(path string, v any) *TestDump {
	d.t.Helper()
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		d.t.Fatalf("failed to encode %s: %v", path, err)
	}
	d.files[path] = string(data)
	return d
}

// Build writes every configured file under a fresh temp directory.
func (d *TestDump) Build() *TestDump {
	d.t.Helper()
	d.Path = d.t.TempDir()
	for path, content := range d.files {
		d.writeFile(path, content)
	}
	return d
}

func (d *TestDump) writeFile(relPath, content string) {
	d.t.Helper()
	full := filepath.Join(d.Path, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		d.t.Fatalf("failed to create directory for %s: %v", relPath, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		d.t.Fatalf("failed to write file %s: %v", full, err)
	}
}

// ReadFile reads a file relative to the dump root.
func (d *TestDump) ReadFile(relPath string) string {
	d.t.Helper()
	data, err := os.ReadFile(filepath.Join(d.Path, filepath.FromSlash(relPath)))
	if err != nil {
		d.t.Fatalf("failed to read file %s: %v", relPath, err)
	}
	return string(data)
}

// FileExists reports whether relPath exists under the dump root.
func (d *TestDump) FileExists(relPath string) bool {
	d.t.Helper()
	_, err := os.Stat(filepath.Join(d.Path, filepath.FromSlash(relPath)))
	return err == nil
}
