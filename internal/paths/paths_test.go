package paths

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestContainerKey(t *testing.T) {
	tests := []struct {
		in    string
		mount string
		want  string
	}{
		{"MotorTown/Content/Maps/Jeju/Jeju_World", "", "MotorTown/Content/Maps/Jeju/Jeju_World"},
		{"./MotorTown/Content/Maps/Jeju/Jeju_World.json", "", "MotorTown/Content/Maps/Jeju/Jeju_World"},
		{"/MotorTown//Content/X", "", "MotorTown/Content/X"},
		{"/Game/Objects/Mission/Base", DefaultGameMount, "MotorTown/Content/Objects/Mission/Base"},
		{"/Game/Objects/Mission/Base", "", "Game/Objects/Mission/Base"},
	}
	for _, tc := range tests {
		if got := ContainerKey(tc.in, tc.mount); got != tc.want {
			t.Fatalf("ContainerKey(%q, %q) = %q, want %q", tc.in, tc.mount, got, tc.want)
		}
	}
}

func TestContainerFileAndOf(t *testing.T) {
	root := t.TempDir()
	file := ContainerFile(root, "MotorTown/Content/DataAsset/Houses", "")
	want := filepath.Join(root, "MotorTown", "Content", "DataAsset", "Houses.json")
	if file != want {
		t.Fatalf("ContainerFile = %q, want %q", file, want)
	}
	if got := ContainerOf(root, file); got != "MotorTown/Content/DataAsset/Houses" {
		t.Fatalf("ContainerOf = %q", got)
	}
	if got := ContainerOf(root, "MotorTown/Content/DataAsset/Houses.json"); got != "MotorTown/Content/DataAsset/Houses" {
		t.Fatalf("ContainerOf(relative) = %q", got)
	}
}

func TestValidateWithinRoot(t *testing.T) {
	root := t.TempDir()
	if err := ValidateWithinRoot(root, filepath.Join(root, "a", "b.json")); err != nil {
		t.Fatalf("expected inside, got %v", err)
	}
	err := ValidateWithinRoot(root, filepath.Join(root, "..", "escape.json"))
	if !errors.Is(err, ErrPathOutsideRoot) {
		t.Fatalf("expected ErrPathOutsideRoot, got %v", err)
	}
}

func TestExportFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.json", "a.json", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("[]"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(filepath.Join(dir, "sub.json"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := ExportFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "a.json" || filepath.Base(files[1]) != "b.json" {
		t.Fatalf("unexpected files: %v", files)
	}
}
