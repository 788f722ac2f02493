package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mtpoi.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
dump_root = "/data/export"
strict = false
workers = 8

[types]
house = "House_02_C"
`)
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.DumpRoot != "/data/export" {
		t.Errorf("DumpRoot = %q", cfg.DumpRoot)
	}
	if cfg.Strict {
		t.Error("strict = false in file must override the default")
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Workers)
	}
	if cfg.Types.House != "House_02_C" {
		t.Errorf("Types.House = %q", cfg.Types.House)
	}
	if cfg.Types.EvCharger != "EVCharger_C" {
		t.Errorf("Types.EvCharger = %q, want default", cfg.Types.EvCharger)
	}
	if cfg.DefaultMaxStorage != 100 {
		t.Errorf("DefaultMaxStorage = %d, want 100", cfg.DefaultMaxStorage)
	}
	if cfg.House.DefaultSizeX != 2000 || cfg.House.DefaultSizeY != 2000 {
		t.Errorf("House = %+v", cfg.House)
	}
}

func TestLoadFromRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", `dump_rot = "x"`, "unknown keys: dump_rot"},
		{"negative workers", `workers = -1`, "workers must be >= 0"},
		{"negative storage", `default_max_storage = -5`, "default_max_storage"},
		{"absolute input", `world_file = "/abs/world.json"`, "world_file must be relative"},
		{"bad toml", `dump_root = `, "failed to parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestLoadExplicitMissing(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoadLocalFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, LocalFile), []byte(`output_dir = "out"`), 0o644); err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, path, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if path != LocalFile {
		t.Errorf("path = %q, want %q", path, LocalFile)
	}
	if cfg.OutputDir != "out" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
}

func TestCreateDefaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	created, err := CreateDefault(path)
	if err != nil || !created {
		t.Fatalf("CreateDefault = %v, %v", created, err)
	}
	created, err = CreateDefault(path)
	if err != nil || created {
		t.Fatalf("second CreateDefault = %v, %v; want false, nil", created, err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("template must load: %v", err)
	}
	if cfg.DumpRoot != "." || !cfg.Strict {
		t.Errorf("unexpected template config: %+v", cfg)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Compress = true
	cfg.IndexPath = "mtpoi.db"
	path := filepath.Join(t.TempDir(), "saved.toml")
	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if !got.Compress || got.IndexPath != "mtpoi.db" {
		t.Errorf("round trip lost values: %+v", got)
	}
}
